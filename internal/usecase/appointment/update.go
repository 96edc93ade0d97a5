package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/events"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/lock"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/validators"
)

// ======================================================
// INPUT
// ======================================================

// UpdateAppointmentInput: campos nil não mudam.
type UpdateAppointmentInput struct {
	UserID        *uuid.UUID
	AppointmentID uuid.UUID

	ProfessionalID *uuid.UUID
	ClientID       *uuid.UUID
	Anonymous      bool // remove o cliente
	Date           *string
	Time           *string

	// nil mantém as linhas; lista vazia é inválida
	Services []ServiceInput

	Notes  *string
	Status *string
}

// ======================================================
// USE CASE
// ======================================================

type UpdateAppointment struct {
	Deps
}

func NewUpdateAppointment(d Deps) *UpdateAppointment {
	return &UpdateAppointment{Deps: d}
}

func (uc *UpdateAppointment) Execute(
	ctx context.Context,
	in UpdateAppointmentInput,
) (ap *models.Appointment, err error) {

	started := time.Now()
	ctx, span := tracer.Start(ctx, "appointment.update")
	defer func() {
		uc.observe("update", started, err)
		endSpan(span, err)
	}()
	span.SetAttributes(attribute.String("appointment_id", in.AppointmentID.String()))

	return uc.apply(ctx, in, events.KindUpdated, "appointment_updated")
}

// apply é o caminho comum de edição e remarcação.
func (d Deps) apply(
	ctx context.Context,
	in UpdateAppointmentInput,
	kind events.Kind,
	action string,
) (*models.Appointment, error) {

	// --------------------------------------------------
	// 1️⃣ Formato (antes de qualquer I/O)
	// --------------------------------------------------
	if in.Date != nil && !validators.IsDate(*in.Date) {
		return nil, httperr.ErrBusiness("invalid_date")
	}
	if in.Time != nil && !validators.IsClock(*in.Time) {
		return nil, httperr.ErrBusiness("invalid_time")
	}
	if in.Services != nil && len(in.Services) == 0 {
		return nil, httperr.ErrBusiness("services_required")
	}
	if in.ProfessionalID != nil && *in.ProfessionalID == uuid.Nil {
		return nil, httperr.ErrBusiness("professional_required")
	}

	// --------------------------------------------------
	// 2️⃣ Trava agenda de origem e de destino
	// --------------------------------------------------
	current, unlock, err := d.lockAppointment(ctx, in.AppointmentID, func(ap *models.Appointment) []string {
		target := *ap
		if in.ProfessionalID != nil {
			target.ProfessionalID = *in.ProfessionalID
		}
		if in.Date != nil {
			target.Date = *in.Date
		}
		return []string{
			lock.ScheduleKey(ap.ProfessionalID, ap.Date),
			lock.ScheduleKey(target.ProfessionalID, target.Date),
		}
	})
	if err != nil {
		return nil, err
	}
	defer unlock()

	if err := domain.CanModify(domain.Status(current.Status)); err != nil {
		return nil, err
	}

	next := *current
	next.Services = nil
	prevProfessional, prevDate := current.ProfessionalID, current.Date

	if in.ProfessionalID != nil {
		next.ProfessionalID = *in.ProfessionalID
	}
	if in.Date != nil {
		next.Date = *in.Date
	}
	if in.Time != nil {
		next.Time = *in.Time
	}
	if in.ClientID != nil {
		if _, err := d.Repo.GetClient(ctx, *in.ClientID); err != nil {
			return nil, httperr.ErrBusiness("client_not_found")
		}
		next.ClientID = in.ClientID
	}
	if in.Anonymous {
		next.ClientID = nil
	}
	if in.Notes != nil {
		next.Notes = *in.Notes
	}
	if in.Status != nil && *in.Status != current.Status {
		if err := domain.Transition(&next, domain.Status(*in.Status)); err != nil {
			return nil, err
		}
	}

	// --------------------------------------------------
	// 3️⃣ Seleção de serviços
	// --------------------------------------------------
	selections := domain.SelectionsFromLines(current.Services)
	var lines []models.AppointmentService
	if in.Services != nil {
		selections, err = d.resolveSelections(ctx, in.Services)
		if err != nil {
			return nil, err
		}
		lines = domain.ToLines(next.ID, selections)
	}

	// --------------------------------------------------
	// 4️⃣ Sem sobreposição na agenda de destino
	// --------------------------------------------------
	moved := next.ProfessionalID != prevProfessional || next.Date != prevDate || next.Time != current.Time
	if moved || lines != nil {
		if next.ProfessionalID != prevProfessional {
			if _, err := d.activeProfessional(ctx, next.ProfessionalID); err != nil {
				return nil, err
			}
		}

		start, err := domain.ParseSlot(next.Time)
		if err != nil {
			return nil, httperr.ErrBusiness("invalid_time")
		}

		duration, ok := d.Schedule.Durations().Resolve(selections)
		if !ok {
			duration = d.Schedule.DefaultServiceMinutes
		}

		resolver, occ, err := d.freshDay(ctx, next.ProfessionalID, next.Date, &next.ID)
		if err != nil {
			return nil, err
		}
		if !resolver.Fits(start, duration, occ) {
			return nil, httperr.SlotConflict("slot_unavailable")
		}
	}

	// --------------------------------------------------
	// 5️⃣ Gravação + leitura autoritativa
	// --------------------------------------------------
	if err := d.Repo.UpdateAppointment(ctx, &next, lines); err != nil {
		return nil, httperr.Persistence("appointment_write_failed", err)
	}

	ap, err := d.loadAppointment(ctx, next.ID)
	if err != nil {
		return nil, err
	}

	d.publish(ctx, events.NewChange(kind, ap).WithPrevious(prevProfessional, prevDate))

	d.Audit.Dispatch(audit.Event{
		UserID:   in.UserID,
		Action:   action,
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{
			"from":              map[string]any{"professional_id": prevProfessional, "date": prevDate, "time": current.Time},
			"to":                map[string]any{"professional_id": ap.ProfessionalID, "date": ap.Date, "time": ap.Time},
			"services_replaced": lines != nil,
		},
	})

	return ap, nil
}
