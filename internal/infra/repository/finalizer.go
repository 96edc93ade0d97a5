package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/domain/finance"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

var (
	ErrAlreadySettled = errors.New("appointment already settled")
	ErrNoServiceLines = errors.New("appointment has no service lines")
)

// --------------------------------------------------
// Postgres procedure
// --------------------------------------------------

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PgxFinalizer chama a função finalize_appointment criada pelas migrations.
type PgxFinalizer struct {
	db execer
}

func NewPgxFinalizer(db execer) *PgxFinalizer {
	return &PgxFinalizer{db: db}
}

const finalizeSQL = `SELECT finalize_appointment($1::uuid, $2::uuid, $3)`

func (f *PgxFinalizer) Finalize(
	ctx context.Context,
	appointmentID uuid.UUID,
	paymentMethodID uuid.UUID,
	discountPaymentFee bool,
) error {
	if _, err := f.db.Exec(ctx, finalizeSQL,
		appointmentID.String(),
		paymentMethodID.String(),
		discountPaymentFee,
	); err != nil {
		return fmt.Errorf("finalize_appointment: %w", err)
	}
	return nil
}

// --------------------------------------------------
// Gorm (mesma regra, calculada na aplicação)
// --------------------------------------------------

type GormFinalizer struct {
	db *gorm.DB
}

func NewGormFinalizer(db *gorm.DB) *GormFinalizer {
	return &GormFinalizer{db: db}
}

func (f *GormFinalizer) Finalize(
	ctx context.Context,
	appointmentID uuid.UUID,
	paymentMethodID uuid.UUID,
	discountPaymentFee bool,
) error {

	return f.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ap models.Appointment
		if err := withLines(tx).
			Preload("Professional").
			First(&ap, "id = ?", appointmentID).Error; err != nil {
			return notFound(err)
		}

		if domain.Status(ap.Status).Terminal() {
			return ErrAlreadySettled
		}
		if len(ap.Services) == 0 {
			return ErrNoServiceLines
		}

		var pm models.PaymentMethod
		if err := tx.First(&pm, "id = ?", paymentMethodID).Error; err != nil {
			return notFound(err)
		}

		rate := 0.0
		if ap.Professional != nil {
			rate = ap.Professional.CommissionRate
		}

		for _, line := range ap.Services {
			catalogPrice := 0.0
			if line.Service != nil {
				catalogPrice = line.Service.Price
			}

			res := finance.Settle(finance.LineInput{
				CatalogPrice:   catalogPrice,
				CustomPrice:    line.CustomPrice,
				FeeRate:        pm.FeeRate,
				CommissionRate: rate,
				DiscountFee:    discountPaymentFee,
			})

			if err := tx.Model(&models.AppointmentService{}).
				Where("id = ?", line.ID).
				Updates(map[string]any{
					"payment_method_id":    paymentMethodID,
					"net_service_value":    res.NetServiceValue.InexactFloat64(),
					"payment_fee":          res.PaymentFee.InexactFloat64(),
					"salon_profit":         res.SalonProfit.InexactFloat64(),
					"commission_rate":      res.CommissionRate.InexactFloat64(),
					"discount_payment_fee": discountPaymentFee,
				}).Error; err != nil {
				return err
			}
		}

		return tx.Model(&models.Appointment{}).
			Where("id = ?", appointmentID).
			Update("status", string(domain.StatusFinalized)).Error
	})
}

var (
	_ domain.Finalizer = (*PgxFinalizer)(nil)
	_ domain.Finalizer = (*GormFinalizer)(nil)
)
