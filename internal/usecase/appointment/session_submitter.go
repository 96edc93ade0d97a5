package appointment

import (
	"context"

	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/session"
)

// SessionSubmitter grava o rascunho da sessão de agendamento:
// criação normalmente, edição quando a sessão abriu um agendamento existente.
type SessionSubmitter struct {
	create *CreateAppointment
	update *UpdateAppointment
}

func NewSessionSubmitter(create *CreateAppointment, update *UpdateAppointment) *SessionSubmitter {
	return &SessionSubmitter{create: create, update: update}
}

func (s *SessionSubmitter) Submit(ctx context.Context, d session.Draft) (*models.Appointment, error) {
	if d.ProfessionalID == nil {
		return nil, httperr.ErrBusiness("professional_required")
	}

	services := make([]ServiceInput, 0, len(d.Selections))
	for _, sel := range d.Selections {
		services = append(services, ServiceInput{
			ServiceID:   sel.ServiceID,
			CustomPrice: sel.CustomPrice,
			CustomTime:  sel.CustomTime,
		})
	}

	clientID := d.ClientID
	if d.Anonymous {
		clientID = nil
	}

	if d.AppointmentID != nil {
		date, hm, notes := d.Date, d.Time, d.Notes
		return s.update.Execute(ctx, UpdateAppointmentInput{
			UserID:         d.UserID,
			AppointmentID:  *d.AppointmentID,
			ProfessionalID: d.ProfessionalID,
			ClientID:       clientID,
			Anonymous:      clientID == nil,
			Date:           &date,
			Time:           &hm,
			Services:       services,
			Notes:          &notes,
		})
	}

	return s.create.Execute(ctx, CreateAppointmentInput{
		UserID:         d.UserID,
		ProfessionalID: *d.ProfessionalID,
		ClientID:       clientID,
		Date:           d.Date,
		Time:           d.Time,
		Services:       services,
		Notes:          d.Notes,
	})
}

var _ session.Submitter = (*SessionSubmitter)(nil)
