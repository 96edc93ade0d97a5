package appointment

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/BruksfildServices01/salon-scheduler/internal/archive"
	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	"github.com/BruksfildServices01/salon-scheduler/internal/cache"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/events"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/lock"
	"github.com/BruksfildServices01/salon-scheduler/internal/metrics"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
	"github.com/BruksfildServices01/salon-scheduler/internal/validators"
	"github.com/BruksfildServices01/salon-scheduler/pkg/logging"
)

var tracer = otel.Tracer("salon.usecase.appointment")

// Deps reúne os colaboradores compartilhados pelos casos de uso da agenda.
type Deps struct {
	Repo      domain.Repository
	Finalizer domain.Finalizer
	Schedule  domain.Schedule
	Locker    lock.Locker
	Bus       *events.Bus
	Audit     *audit.Dispatcher
	Metrics   *metrics.AgendaMetrics
	Log       *logging.Logger

	// opcionais
	DayCache    cache.Store
	DayCacheTTL time.Duration
	Archive     *archive.Store
	Timezone    string
}

// ServiceInput é um serviço escolhido, ainda sem dados do catálogo.
type ServiceInput struct {
	ServiceID   uuid.UUID `json:"service_id"`
	CustomPrice *float64  `json:"custom_price,omitempty"`
	CustomTime  *int      `json:"custom_time,omitempty"`
}

// ======================================================
// Helpers
// ======================================================

func validateDay(date, hm string) (domain.Slot, error) {
	if !validators.IsDate(date) {
		return 0, httperr.ErrBusiness("invalid_date")
	}
	if !validators.IsClock(hm) {
		return 0, httperr.ErrBusiness("invalid_time")
	}
	start, err := domain.ParseSlot(hm)
	if err != nil {
		return 0, httperr.ErrBusiness("invalid_time")
	}
	return start, nil
}

// resolveSelections completa a seleção com o tempo estimado do catálogo.
func (d Deps) resolveSelections(ctx context.Context, in []ServiceInput) ([]domain.ServiceSelection, error) {
	ids := make([]uuid.UUID, 0, len(in))
	for _, s := range in {
		if s.CustomTime != nil && *s.CustomTime < 0 {
			return nil, httperr.ErrBusiness("invalid_custom_time")
		}
		if s.CustomPrice != nil && *s.CustomPrice < 0 {
			return nil, httperr.ErrBusiness("invalid_custom_price")
		}
		ids = append(ids, s.ServiceID)
	}

	services, err := d.Repo.ListServicesByIDs(ctx, ids)
	if err != nil {
		return nil, httperr.Persistence("services_read_failed", err)
	}
	byID := make(map[uuid.UUID]models.Service, len(services))
	for _, s := range services {
		byID[s.ID] = s
	}

	out := make([]domain.ServiceSelection, 0, len(in))
	for _, s := range in {
		svc, ok := byID[s.ServiceID]
		if !ok || !svc.Active {
			return nil, httperr.ErrBusiness("service_not_found")
		}
		out = append(out, domain.ServiceSelection{
			ServiceID:     s.ServiceID,
			CustomPrice:   s.CustomPrice,
			CustomTime:    s.CustomTime,
			EstimatedTime: svc.EstimatedTime,
		})
	}
	return out, nil
}

func (d Deps) activeProfessional(ctx context.Context, id uuid.UUID) (*models.Professional, error) {
	p, err := d.Repo.GetProfessional(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, httperr.NotFound("professional_not_found", err)
	}
	if err != nil {
		return nil, httperr.Persistence("professional_read_failed", err)
	}
	if !p.Active {
		return nil, httperr.ErrBusiness("professional_inactive")
	}
	return p, nil
}

func (d Deps) loadAppointment(ctx context.Context, id uuid.UUID) (*models.Appointment, error) {
	ap, err := d.Repo.GetAppointment(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, httperr.NotFound("appointment_not_found", err)
	}
	if err != nil {
		return nil, httperr.Persistence("appointment_read_failed", err)
	}
	return ap, nil
}

// workDay resolve o expediente do profissional no dia.
func (d Deps) workDay(ctx context.Context, professionalID uuid.UUID, date string) (domain.WorkDay, error) {
	weekday, err := timezone.Weekday(date)
	if err != nil {
		return domain.WorkDay{}, httperr.ErrBusiness("invalid_date")
	}
	wh, err := d.Repo.GetWorkingHours(ctx, professionalID, weekday)
	if err != nil {
		return domain.WorkDay{}, httperr.Persistence("working_hours_read_failed", err)
	}
	day, err := d.Schedule.WorkDayFor(wh)
	if err != nil {
		return domain.WorkDay{}, httperr.Persistence("working_hours_invalid", err)
	}
	return day, nil
}

// freshDay monta resolvedor e ocupação direto do banco, sem cache.
// Usado nas mutações, que precisam de uma foto atual da agenda.
func (d Deps) freshDay(
	ctx context.Context,
	professionalID uuid.UUID,
	date string,
	exclude *uuid.UUID,
) (domain.AvailabilityResolver, *domain.OccupancyIndex, error) {
	day, err := d.workDay(ctx, professionalID, date)
	if err != nil {
		return domain.AvailabilityResolver{}, nil, err
	}

	apps, err := d.Repo.ListAppointmentsForDay(ctx, professionalID, date)
	if err != nil {
		return domain.AvailabilityResolver{}, nil, httperr.Persistence("agenda_read_failed", err)
	}

	occ, err := d.Schedule.Occupancy().Build(professionalID, date, domain.BookingsFromModels(apps), exclude)
	if err != nil {
		return domain.AvailabilityResolver{}, nil, httperr.Persistence("agenda_invalid", err)
	}
	occ.BlockLunch(day)

	return d.Schedule.Resolver(day), occ, nil
}

func (d Deps) lock(ctx context.Context, keys ...string) (func(), error) {
	unlock, err := lock.LockAll(ctx, d.Locker, keys...)
	if err != nil {
		return nil, httperr.Persistence("agenda_busy", err)
	}
	return unlock, nil
}

// relockAttempts limita as releituras quando o agendamento troca de agenda
// entre a leitura e a trava.
const relockAttempts = 3

// lockAppointment trava as agendas devolvidas por keysFor e relê o
// agendamento sob a trava. Se ele mudou de agenda nesse intervalo, solta
// e tenta de novo com as chaves novas.
func (d Deps) lockAppointment(
	ctx context.Context,
	id uuid.UUID,
	keysFor func(ap *models.Appointment) []string,
) (*models.Appointment, func(), error) {
	for range relockAttempts {
		ap, err := d.loadAppointment(ctx, id)
		if err != nil {
			return nil, nil, err
		}

		keys := keysFor(ap)
		unlock, err := d.lock(ctx, keys...)
		if err != nil {
			return nil, nil, err
		}

		current, err := d.loadAppointment(ctx, id)
		if err != nil {
			unlock()
			return nil, nil, err
		}
		if sameKeys(keys, keysFor(current)) {
			return current, unlock, nil
		}
		unlock()
	}
	return nil, nil, httperr.SlotConflict("appointment_changed")
}

func sameKeys(a, b []string) bool {
	a, b = slices.Clone(a), slices.Clone(b)
	slices.Sort(a)
	slices.Sort(b)
	return slices.Equal(slices.Compact(a), slices.Compact(b))
}

// publish descarta a ocupação em cache dos dias tocados e avisa o barramento.
// Chamado logo após a gravação, ainda sob a trava da agenda.
func (d Deps) publish(ctx context.Context, c events.Change) {
	d.forgetDays(ctx, c.Days()...)
	if d.Bus != nil {
		d.Bus.Publish(ctx, c)
	}
}

func (d Deps) forgetDays(ctx context.Context, days ...events.Day) {
	if d.DayCache == nil {
		return
	}
	for _, day := range days {
		if err := cache.ForgetDay(ctx, d.DayCache, day.ProfessionalID, day.Date); err != nil {
			d.Log.Warn("day cache invalidation failed",
				"professional_id", day.ProfessionalID,
				"date", day.Date,
				"error", err,
			)
		}
	}
}

func (d Deps) observe(operation string, started time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = string(httperr.KindOf(err))
		if outcome == "" {
			outcome = "error"
		}
	}
	d.Metrics.ObserveMutation(operation, outcome, started)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, httperr.CodeOf(err))
	}
	span.End()
}
