package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}

// withLines carrega as linhas de serviço na ordem da seleção.
func withLines(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Services", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Services.Service")
}

// --------------------------------------------------
// Catalog
// --------------------------------------------------

func (r *AppointmentGormRepository) GetProfessional(
	ctx context.Context,
	id uuid.UUID,
) (*models.Professional, error) {

	var p models.Professional
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (r *AppointmentGormRepository) ListServicesByIDs(
	ctx context.Context,
	ids []uuid.UUID,
) ([]models.Service, error) {

	if len(ids) == 0 {
		return nil, nil
	}

	var services []models.Service
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

func (r *AppointmentGormRepository) GetPaymentMethod(
	ctx context.Context,
	id uuid.UUID,
) (*models.PaymentMethod, error) {

	var pm models.PaymentMethod
	if err := r.db.WithContext(ctx).First(&pm, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &pm, nil
}

func (r *AppointmentGormRepository) GetClient(
	ctx context.Context,
	id uuid.UUID,
) (*models.Client, error) {

	var c models.Client
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

// --------------------------------------------------
// Working hours
// --------------------------------------------------

// GetWorkingHours devolve nil quando o profissional usa o expediente padrão.
func (r *AppointmentGormRepository) GetWorkingHours(
	ctx context.Context,
	professionalID uuid.UUID,
	weekday int,
) (*models.WorkingHours, error) {

	var wh models.WorkingHours
	err := r.db.WithContext(ctx).
		Where("professional_id = ? AND weekday = ?", professionalID, weekday).
		First(&wh).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &wh, nil
}

func (r *AppointmentGormRepository) ListWorkingHours(
	ctx context.Context,
	professionalID uuid.UUID,
) ([]models.WorkingHours, error) {

	var days []models.WorkingHours
	if err := r.db.WithContext(ctx).
		Where("professional_id = ?", professionalID).
		Order("weekday ASC").
		Find(&days).Error; err != nil {
		return nil, err
	}
	return days, nil
}

func (r *AppointmentGormRepository) SaveWorkingHours(
	ctx context.Context,
	professionalID uuid.UUID,
	days []models.WorkingHours,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("professional_id = ?", professionalID).
			Delete(&models.WorkingHours{}).Error; err != nil {
			return err
		}

		for i := range days {
			days[i].ID = uuid.Nil
			days[i].ProfessionalID = professionalID
		}
		if len(days) == 0 {
			return nil
		}
		return tx.Create(&days).Error
	})
}

// --------------------------------------------------
// Appointment (read)
// --------------------------------------------------

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	id uuid.UUID,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := withLines(r.db.WithContext(ctx)).
		Preload("Client").
		Preload("Professional").
		First(&ap, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) ListAppointmentsForDay(
	ctx context.Context,
	professionalID uuid.UUID,
	date string,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := withLines(r.db.WithContext(ctx)).
		Where(
			"professional_id = ? AND date = ? AND status <> ?",
			professionalID, date, string(domain.StatusCancelled),
		).
		Order("time ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *AppointmentGormRepository) ListAppointmentsByDate(
	ctx context.Context,
	date string,
	professionalID *uuid.UUID,
) ([]models.Appointment, error) {

	q := withLines(r.db.WithContext(ctx)).
		Preload("Client").
		Preload("Professional").
		Where("date = ? AND status <> ?", date, string(domain.StatusCancelled))

	if professionalID != nil {
		q = q.Where("professional_id = ?", *professionalID)
	}

	var apps []models.Appointment
	if err := q.Order("time ASC").Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *AppointmentGormRepository) ListAppointmentsForPeriod(
	ctx context.Context,
	from string,
	to string,
	professionalID *uuid.UUID,
) ([]models.Appointment, error) {

	q := withLines(r.db.WithContext(ctx)).
		Preload("Client").
		Where("date >= ? AND date <= ? AND status <> ?", from, to, string(domain.StatusCancelled))

	if professionalID != nil {
		q = q.Where("professional_id = ?", *professionalID)
	}

	var apps []models.Appointment
	if err := q.Order("date ASC").Order("time ASC").Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

// --------------------------------------------------
// Appointment (write)
// --------------------------------------------------

func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(ap).Error
}

func (r *AppointmentGormRepository) CreateServiceLines(
	ctx context.Context,
	appointmentID uuid.UUID,
	lines []models.AppointmentService,
) error {

	if len(lines) == 0 {
		return nil
	}
	for i := range lines {
		lines[i].AppointmentID = appointmentID
	}
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(&lines).Error
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
	lines []models.AppointmentService,
) error {

	ap.UpdatedAt = time.Now()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Appointment{}).
			Where("id = ?", ap.ID).
			Updates(map[string]any{
				"client_id":       ap.ClientID,
				"professional_id": ap.ProfessionalID,
				"date":            ap.Date,
				"time":            ap.Time,
				"status":          ap.Status,
				"notes":           ap.Notes,
				"updated_at":      ap.UpdatedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}

		// nil preserva as linhas atuais (remarcação, troca de status)
		if lines == nil {
			return nil
		}

		if err := tx.
			Where("appointment_id = ?", ap.ID).
			Delete(&models.AppointmentService{}).Error; err != nil {
			return err
		}
		if len(lines) == 0 {
			return nil
		}
		for i := range lines {
			lines[i].AppointmentID = ap.ID
		}
		return tx.Omit(clause.Associations).Create(&lines).Error
	})
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
