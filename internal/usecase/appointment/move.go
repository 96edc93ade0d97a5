package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/BruksfildServices01/salon-scheduler/internal/events"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

type MoveAppointmentInput struct {
	UserID         *uuid.UUID
	AppointmentID  uuid.UUID
	ProfessionalID uuid.UUID
	Time           string
	Date           string // vazio mantém o dia
}

// MoveAppointment é o arrastar-e-soltar da agenda: só profissional,
// dia e horário mudam; os serviços ficam intactos.
type MoveAppointment struct {
	Deps
}

func NewMoveAppointment(d Deps) *MoveAppointment {
	return &MoveAppointment{Deps: d}
}

func (uc *MoveAppointment) Execute(
	ctx context.Context,
	in MoveAppointmentInput,
) (ap *models.Appointment, err error) {

	started := time.Now()
	ctx, span := tracer.Start(ctx, "appointment.move")
	defer func() {
		uc.observe("move", started, err)
		endSpan(span, err)
	}()
	span.SetAttributes(
		attribute.String("appointment_id", in.AppointmentID.String()),
		attribute.String("time", in.Time),
	)

	if in.ProfessionalID == uuid.Nil {
		return nil, httperr.ErrBusiness("professional_required")
	}
	if in.Time == "" {
		return nil, httperr.ErrBusiness("time_required")
	}

	upd := UpdateAppointmentInput{
		UserID:         in.UserID,
		AppointmentID:  in.AppointmentID,
		ProfessionalID: &in.ProfessionalID,
		Time:           &in.Time,
	}
	if in.Date != "" {
		upd.Date = &in.Date
	}

	return uc.apply(ctx, upd, events.KindMoved, "appointment_moved")
}
