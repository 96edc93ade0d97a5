package appointment

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

// ErrNotFound é devolvido pelo repositório quando o registro não existe.
var ErrNotFound = errors.New("record not found")

type Repository interface {
	// -------- Catalog --------
	GetProfessional(
		ctx context.Context,
		id uuid.UUID,
	) (*models.Professional, error)

	ListServicesByIDs(
		ctx context.Context,
		ids []uuid.UUID,
	) ([]models.Service, error)

	GetPaymentMethod(
		ctx context.Context,
		id uuid.UUID,
	) (*models.PaymentMethod, error)

	GetClient(
		ctx context.Context,
		id uuid.UUID,
	) (*models.Client, error)

	// -------- Working hours --------
	GetWorkingHours(
		ctx context.Context,
		professionalID uuid.UUID,
		weekday int,
	) (*models.WorkingHours, error)

	ListWorkingHours(
		ctx context.Context,
		professionalID uuid.UUID,
	) ([]models.WorkingHours, error)

	SaveWorkingHours(
		ctx context.Context,
		professionalID uuid.UUID,
		days []models.WorkingHours,
	) error

	// -------- Appointment (read) --------
	GetAppointment(
		ctx context.Context,
		id uuid.UUID,
	) (*models.Appointment, error)

	// ListAppointmentsForDay devolve os não cancelados, com linhas de serviço.
	ListAppointmentsForDay(
		ctx context.Context,
		professionalID uuid.UUID,
		date string,
	) ([]models.Appointment, error)

	ListAppointmentsByDate(
		ctx context.Context,
		date string,
		professionalID *uuid.UUID,
	) ([]models.Appointment, error)

	ListAppointmentsForPeriod(
		ctx context.Context,
		from string,
		to string,
		professionalID *uuid.UUID,
	) ([]models.Appointment, error)

	// -------- Appointment (write) --------
	// CreateAppointment grava só o cabeçalho.
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	CreateServiceLines(
		ctx context.Context,
		appointmentID uuid.UUID,
		lines []models.AppointmentService,
	) error

	// UpdateAppointment grava o cabeçalho e, quando lines != nil,
	// substitui as linhas de serviço na mesma transação.
	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
		lines []models.AppointmentService,
	) error
}

// Finalizer é o procedimento de armazenamento que grava os campos financeiros.
type Finalizer interface {
	Finalize(
		ctx context.Context,
		appointmentID uuid.UUID,
		paymentMethodID uuid.UUID,
		discountPaymentFee bool,
	) error
}
