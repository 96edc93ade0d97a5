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

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	UserID *uuid.UUID

	ProfessionalID uuid.UUID
	ClientID       *uuid.UUID // nil = avulso

	Date     string
	Time     string
	Services []ServiceInput
	Notes    string
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	Deps
}

func NewCreateAppointment(d Deps) *CreateAppointment {
	return &CreateAppointment{Deps: d}
}

// ======================================================
// EXECUTE
// ======================================================

// Execute grava o agendamento. Se o cabeçalho foi gravado mas as linhas
// de serviço não, devolve o agendamento junto com um erro PartialWrite.
func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (ap *models.Appointment, err error) {

	started := time.Now()
	ctx, span := tracer.Start(ctx, "appointment.create")
	defer func() {
		uc.observe("create", started, err)
		endSpan(span, err)
	}()

	// --------------------------------------------------
	// 1️⃣ Rascunho completo (antes de qualquer I/O)
	// --------------------------------------------------
	if in.ProfessionalID == uuid.Nil {
		return nil, httperr.ErrBusiness("professional_required")
	}
	start, err := validateDay(in.Date, in.Time)
	if err != nil {
		return nil, err
	}
	if len(in.Services) == 0 {
		return nil, httperr.ErrBusiness("services_required")
	}

	span.SetAttributes(
		attribute.String("professional_id", in.ProfessionalID.String()),
		attribute.String("date", in.Date),
		attribute.String("time", in.Time),
	)

	// --------------------------------------------------
	// 2️⃣ Profissional, cliente e serviços
	// --------------------------------------------------
	if _, err := uc.activeProfessional(ctx, in.ProfessionalID); err != nil {
		return nil, err
	}

	if in.ClientID != nil {
		if _, err := uc.Repo.GetClient(ctx, *in.ClientID); err != nil {
			return nil, httperr.ErrBusiness("client_not_found")
		}
	}

	selections, err := uc.resolveSelections(ctx, in.Services)
	if err != nil {
		return nil, err
	}
	duration, _ := uc.Schedule.Durations().Resolve(selections)

	// --------------------------------------------------
	// 3️⃣ Revalida o horário contra a agenda atual
	// --------------------------------------------------
	unlock, err := uc.lock(ctx, lock.ScheduleKey(in.ProfessionalID, in.Date))
	if err != nil {
		return nil, err
	}
	defer unlock()

	resolver, occ, err := uc.freshDay(ctx, in.ProfessionalID, in.Date, nil)
	if err != nil {
		return nil, err
	}

	offered := resolver.Resolve(&in.ProfessionalID, duration, true, occ)
	if !domain.ContainsSlot(offered, start) {
		return nil, httperr.SlotConflict("slot_unavailable")
	}

	// --------------------------------------------------
	// 4️⃣ Cabeçalho
	// --------------------------------------------------
	ap = &models.Appointment{
		ClientID:       in.ClientID,
		ProfessionalID: in.ProfessionalID,
		Date:           in.Date,
		Time:           start.String(),
		Status:         string(domain.InitialStatus()),
		Notes:          in.Notes,
	}

	if err := uc.Repo.CreateAppointment(ctx, ap); err != nil {
		return nil, httperr.Persistence("appointment_write_failed", err)
	}

	// --------------------------------------------------
	// 5️⃣ Linhas de serviço
	// --------------------------------------------------
	var lineErr error
	if err := uc.Repo.CreateServiceLines(ctx, ap.ID, domain.ToLines(ap.ID, selections)); err != nil {
		uc.Log.Error("service lines write failed",
			"appointment_id", ap.ID,
			"error", err,
		)
		lineErr = httperr.PartialWrite("service_lines_failed", err)
	}

	// leitura autoritativa; em falha fica o que foi gravado
	if fresh, err := uc.Repo.GetAppointment(ctx, ap.ID); err == nil {
		ap = fresh
	}

	// --------------------------------------------------
	// 6️⃣ Notificação e auditoria
	// --------------------------------------------------
	uc.publish(ctx, events.NewChange(events.KindCreated, ap))

	uc.Audit.Dispatch(audit.Event{
		UserID:   in.UserID,
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{
			"professional_id": ap.ProfessionalID,
			"date":            ap.Date,
			"time":            ap.Time,
			"duration":        duration,
			"partial":         lineErr != nil,
		},
	})

	return ap, lineErr
}
