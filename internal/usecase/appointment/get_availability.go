package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/BruksfildServices01/salon-scheduler/internal/cache"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
)

type AvailabilityOutput struct {
	Date          string            `json:"date"`
	Duration      int               `json:"duration"`
	DurationReady bool              `json:"duration_ready"`
	Slots         []domain.TimeSlot `json:"slots"`
}

type GetAvailability struct {
	Deps
}

func NewGetAvailability(d Deps) *GetAvailability {
	return &GetAvailability{Deps: d}
}

// Execute lista os inícios livres do dia para a seleção informada.
// Sem profissional, ou sem duração definida, a lista volta vazia.
func (uc *GetAvailability) Execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) (*AvailabilityOutput, error) {

	started := time.Now()
	ctx, span := tracer.Start(ctx, "appointment.availability")
	defer span.End()

	date := in.Date.Format("2006-01-02")
	out := &AvailabilityOutput{Date: date, Slots: []domain.TimeSlot{}}

	// --------------------------------------------------
	// 1️⃣ Duração da seleção (tempos do catálogo)
	// --------------------------------------------------
	if len(in.Selections) > 0 {
		inputs := make([]ServiceInput, 0, len(in.Selections))
		for _, s := range in.Selections {
			inputs = append(inputs, ServiceInput{
				ServiceID:   s.ServiceID,
				CustomPrice: s.CustomPrice,
				CustomTime:  s.CustomTime,
			})
		}
		selections, err := uc.resolveSelections(ctx, inputs)
		if err != nil {
			return nil, err
		}
		out.Duration, out.DurationReady = uc.Schedule.Durations().Resolve(selections)
	}

	if in.ProfessionalID == nil || *in.ProfessionalID == uuid.Nil || !out.DurationReady {
		return out, nil
	}
	professionalID := *in.ProfessionalID
	span.SetAttributes(
		attribute.String("professional_id", professionalID.String()),
		attribute.String("date", date),
		attribute.Int("duration", out.Duration),
	)

	// --------------------------------------------------
	// 2️⃣ Expediente e ocupação do dia
	// --------------------------------------------------
	day, err := uc.workDay(ctx, professionalID, date)
	if err != nil {
		return nil, err
	}

	bookings, err := uc.dayBookings(ctx, professionalID, date)
	if err != nil {
		return nil, err
	}

	occ, err := uc.Schedule.Occupancy().Build(professionalID, date, bookings, in.ExcludeAppointmentID)
	if err != nil {
		return nil, httperr.Persistence("agenda_invalid", err)
	}
	occ.BlockLunch(day)

	// --------------------------------------------------
	// 3️⃣ Candidatos livres
	// --------------------------------------------------
	slots := uc.Schedule.Resolver(day).Resolve(&professionalID, out.Duration, out.DurationReady, occ)
	out.Slots = domain.ToTimeSlots(slots, out.Duration)

	uc.Metrics.ObserveAvailability(len(slots), started)
	return out, nil
}

// dayBookings lê os agendamentos do dia, passando pelo cache quando houver.
func (d Deps) dayBookings(ctx context.Context, professionalID uuid.UUID, date string) ([]domain.Booking, error) {
	load := func(ctx context.Context) ([]domain.Booking, error) {
		apps, err := d.Repo.ListAppointmentsForDay(ctx, professionalID, date)
		if err != nil {
			return nil, httperr.Persistence("agenda_read_failed", err)
		}
		return domain.BookingsFromModels(apps), nil
	}

	if d.DayCache == nil {
		return load(ctx)
	}

	// a geração é lida antes de carregar; ver cache.ForgetDay
	key, ok := cache.CurrentDayKey(ctx, d.DayCache, professionalID, date)
	if !ok {
		return load(ctx)
	}

	hit := true
	bookings, err := cache.GetOrRefresh(ctx, d.DayCache, key, d.DayCacheTTL,
		func(ctx context.Context) ([]domain.Booking, error) {
			hit = false
			return load(ctx)
		})
	if err != nil {
		return nil, err
	}
	d.Metrics.ObserveOccupancyCache(hit)
	return bookings, nil
}
