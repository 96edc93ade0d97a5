package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/BruksfildServices01/salon-scheduler/internal/archive"
	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/events"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/lock"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/validators"
)

type FinalizeAppointmentInput struct {
	UserID             *uuid.UUID
	AppointmentID      string
	PaymentMethodID    string
	DiscountPaymentFee bool
}

// FinalizeAppointment fecha o atendimento: grava pagamento, taxas e
// comissão em cada linha de serviço e marca o agendamento como finalizado.
type FinalizeAppointment struct {
	Deps
}

func NewFinalizeAppointment(d Deps) *FinalizeAppointment {
	return &FinalizeAppointment{Deps: d}
}

func (uc *FinalizeAppointment) Execute(
	ctx context.Context,
	in FinalizeAppointmentInput,
) (ap *models.Appointment, err error) {

	started := time.Now()
	ctx, span := tracer.Start(ctx, "appointment.finalize")
	defer func() {
		uc.observe("finalize", started, err)
		endSpan(span, err)
	}()

	// --------------------------------------------------
	// 1️⃣ Identificadores bem formados
	// --------------------------------------------------
	if !validators.IsIdentifier(in.AppointmentID) || !validators.IsIdentifier(in.PaymentMethodID) {
		return nil, httperr.Finalization("invalid_identifier", nil)
	}
	appointmentID, err := uuid.Parse(in.AppointmentID)
	if err != nil {
		return nil, httperr.Finalization("invalid_identifier", err)
	}
	paymentMethodID, err := uuid.Parse(in.PaymentMethodID)
	if err != nil {
		return nil, httperr.Finalization("invalid_identifier", err)
	}
	span.SetAttributes(
		attribute.String("appointment_id", in.AppointmentID),
		attribute.Bool("discount_payment_fee", in.DiscountPaymentFee),
	)

	// --------------------------------------------------
	// 2️⃣ Estado atual
	// --------------------------------------------------
	unlock, err := uc.lock(ctx, lock.AppointmentKey(appointmentID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	current, err := uc.loadAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if err := domain.CanFinalize(domain.Status(current.Status)); err != nil {
		return nil, err
	}
	if len(current.Services) == 0 {
		return nil, httperr.Finalization("no_services", nil)
	}

	pm, err := uc.Repo.GetPaymentMethod(ctx, paymentMethodID)
	if err != nil {
		return nil, httperr.Finalization("payment_method_not_found", err)
	}
	if !pm.Active {
		return nil, httperr.Finalization("payment_method_inactive", nil)
	}

	// --------------------------------------------------
	// 3️⃣ Procedimento de finalização
	// --------------------------------------------------
	if err := uc.Finalizer.Finalize(ctx, appointmentID, paymentMethodID, in.DiscountPaymentFee); err != nil {
		return nil, httperr.Finalization("finalize_failed", err)
	}

	// --------------------------------------------------
	// 4️⃣ Confere o resultado gravado
	// --------------------------------------------------
	ap, err = uc.loadAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if !settled(ap) {
		uc.Log.Error("finalize postcondition failed",
			"appointment_id", ap.ID,
			"status", ap.Status,
		)
		return nil, httperr.Finalization("postcondition_failed", nil)
	}

	uc.publish(ctx, events.NewChange(events.KindFinalized, ap))

	uc.Audit.Dispatch(audit.Event{
		UserID:   in.UserID,
		Action:   "appointment_finalized",
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{
			"payment_method_id":    paymentMethodID,
			"discount_payment_fee": in.DiscountPaymentFee,
		},
	})

	if uc.Archive.Enabled() {
		if key, err := uc.Archive.PutReceipt(ctx, archive.ReceiptFor(ap)); err != nil {
			uc.Log.Warn("receipt archive failed", "appointment_id", ap.ID, "error", err)
		} else {
			uc.Log.Info("receipt archived", "appointment_id", ap.ID, "key", key)
		}
	}

	return ap, nil
}

func settled(ap *models.Appointment) bool {
	if domain.Status(ap.Status) != domain.StatusFinalized || len(ap.Services) == 0 {
		return false
	}
	for _, l := range ap.Services {
		if l.PaymentMethodID == nil || l.NetServiceValue == nil || l.SalonProfit == nil {
			return false
		}
	}
	return true
}
