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
)

type CancelAppointment struct {
	Deps
}

func NewCancelAppointment(d Deps) *CancelAppointment {
	return &CancelAppointment{Deps: d}
}

func (uc *CancelAppointment) Execute(
	ctx context.Context,
	userID *uuid.UUID,
	appointmentID uuid.UUID,
) (ap *models.Appointment, err error) {

	started := time.Now()
	ctx, span := tracer.Start(ctx, "appointment.cancel")
	defer func() {
		uc.observe("cancel", started, err)
		endSpan(span, err)
	}()
	span.SetAttributes(attribute.String("appointment_id", appointmentID.String()))

	ap, unlock, err := uc.lockAppointment(ctx, appointmentID, func(ap *models.Appointment) []string {
		return []string{lock.ScheduleKey(ap.ProfessionalID, ap.Date)}
	})
	if err != nil {
		return nil, err
	}
	defer unlock()

	if err := domain.Cancel(ap); err != nil {
		return nil, err
	}

	if err := uc.Repo.UpdateAppointment(ctx, ap, nil); err != nil {
		return nil, httperr.Persistence("appointment_write_failed", err)
	}

	uc.publish(ctx, events.NewChange(events.KindCancelled, ap))

	uc.Audit.Dispatch(audit.Event{
		UserID:   userID,
		Action:   "appointment_cancelled",
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{
			"professional_id": ap.ProfessionalID,
			"date":            ap.Date,
			"time":            ap.Time,
		},
	})

	return ap, nil
}
