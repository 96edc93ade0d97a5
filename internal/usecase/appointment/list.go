package appointment

import (
	"context"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/salon-scheduler/internal/dto"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
	"github.com/BruksfildServices01/salon-scheduler/internal/validators"
)

// ======================================================
// Por dia
// ======================================================

type ListAppointmentsByDate struct {
	Deps
}

func NewListAppointmentsByDate(d Deps) *ListAppointmentsByDate {
	return &ListAppointmentsByDate{Deps: d}
}

// Execute lista a agenda do dia (hoje, no fuso do salão, quando vazio).
func (uc *ListAppointmentsByDate) Execute(
	ctx context.Context,
	date string,
	professionalID *uuid.UUID,
) ([]dto.AppointmentListDTO, error) {

	if date == "" {
		date = timezone.Today(uc.Timezone)
	}
	if !validators.IsDate(date) {
		return nil, httperr.ErrBusiness("invalid_date")
	}

	apps, err := uc.Repo.ListAppointmentsByDate(ctx, date, professionalID)
	if err != nil {
		return nil, httperr.Persistence("agenda_read_failed", err)
	}

	return dto.AppointmentList(apps, uc.Schedule.Durations(), uc.Schedule.DefaultServiceMinutes), nil
}

// ======================================================
// Por mês
// ======================================================

type ListAppointmentsByMonth struct {
	Deps
}

func NewListAppointmentsByMonth(d Deps) *ListAppointmentsByMonth {
	return &ListAppointmentsByMonth{Deps: d}
}

func (uc *ListAppointmentsByMonth) Execute(
	ctx context.Context,
	month string,
	professionalID *uuid.UUID,
) ([]dto.AppointmentListDTO, error) {

	if !validators.IsMonth(month) {
		return nil, httperr.ErrBusiness("invalid_month")
	}
	from, to, err := timezone.MonthRange(month)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_month")
	}

	apps, err := uc.Repo.ListAppointmentsForPeriod(ctx, from, to, professionalID)
	if err != nil {
		return nil, httperr.Persistence("agenda_read_failed", err)
	}

	return dto.AppointmentList(apps, uc.Schedule.Durations(), uc.Schedule.DefaultServiceMinutes), nil
}

// ======================================================
// Um agendamento
// ======================================================

type GetAppointment struct {
	Deps
}

func NewGetAppointment(d Deps) *GetAppointment {
	return &GetAppointment{Deps: d}
}

func (uc *GetAppointment) Execute(ctx context.Context, id uuid.UUID) (*dto.AppointmentDTO, error) {
	ap, err := uc.loadAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	out := dto.Appointment(*ap, uc.Schedule.Durations(), uc.Schedule.DefaultServiceMinutes)
	return &out, nil
}
