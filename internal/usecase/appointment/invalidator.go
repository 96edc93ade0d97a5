package appointment

import (
	"context"

	"github.com/BruksfildServices01/salon-scheduler/internal/cache"
	"github.com/BruksfildServices01/salon-scheduler/internal/events"
	"github.com/BruksfildServices01/salon-scheduler/pkg/logging"
)

// DayInvalidator abre nova geração de ocupação para os dias tocados por
// mudanças vindas de outras instâncias pelo relay. As mutações locais já
// fazem isso sob a trava.
type DayInvalidator struct {
	bus   *events.Bus
	store cache.Store
	log   *logging.Logger
}

func NewDayInvalidator(bus *events.Bus, store cache.Store, log *logging.Logger) *DayInvalidator {
	return &DayInvalidator{bus: bus, store: store, log: log}
}

// Start inscreve no barramento e consome em background até o contexto terminar.
func (i *DayInvalidator) Start(ctx context.Context) {
	changes, cancel := i.bus.Subscribe(64)
	go i.run(ctx, changes, cancel)
}

func (i *DayInvalidator) run(ctx context.Context, changes <-chan events.Change, cancel func()) {
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return
		case c, ok := <-changes:
			if !ok {
				return
			}
			i.invalidate(ctx, c)
		}
	}
}

func (i *DayInvalidator) invalidate(ctx context.Context, c events.Change) {
	for _, d := range c.Days() {
		if err := cache.ForgetDay(ctx, i.store, d.ProfessionalID, d.Date); err != nil {
			i.log.Warn("day cache invalidation failed",
				"change_id", c.ID,
				"professional_id", d.ProfessionalID,
				"date", d.Date,
				"error", err,
			)
		}
	}
}
