package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

type Kind string

const (
	KindCreated   Kind = "appointment.created"
	KindUpdated   Kind = "appointment.updated"
	KindMoved     Kind = "appointment.moved"
	KindCancelled Kind = "appointment.cancelled"
	KindFinalized Kind = "appointment.finalized"
)

// Change é a notificação publicada após cada mutação bem-sucedida.
type Change struct {
	ID             uuid.UUID `json:"id"`
	Kind           Kind      `json:"kind"`
	AppointmentID  uuid.UUID `json:"appointment_id"`
	ProfessionalID uuid.UUID `json:"professional_id"`
	Date           string    `json:"date"`
	Status         string    `json:"status,omitempty"`
	ForceRefresh   bool      `json:"forceRefresh"`

	// preenchidos quando o agendamento trocou de profissional ou de dia
	PreviousProfessionalID *uuid.UUID `json:"previous_professional_id,omitempty"`
	PreviousDate           string     `json:"previous_date,omitempty"`

	Appointment *models.Appointment `json:"appointmentData,omitempty"`
	Origin      string              `json:"origin,omitempty"`
	OccurredAt  time.Time           `json:"occurred_at"`
}

// Day identifica uma agenda (profissional + dia).
type Day struct {
	ProfessionalID uuid.UUID
	Date           string
}

func NewChange(kind Kind, ap *models.Appointment) Change {
	return Change{
		ID:             uuid.New(),
		Kind:           kind,
		AppointmentID:  ap.ID,
		ProfessionalID: ap.ProfessionalID,
		Date:           ap.Date,
		Status:         ap.Status,
		Appointment:    ap,
		OccurredAt:     time.Now().UTC(),
	}
}

// WithPrevious registra a agenda de origem de uma remarcação.
func (c Change) WithPrevious(professionalID uuid.UUID, date string) Change {
	if professionalID == c.ProfessionalID && date == c.Date {
		return c
	}
	c.PreviousProfessionalID = &professionalID
	c.PreviousDate = date
	c.ForceRefresh = true
	return c
}

// Days devolve as agendas afetadas pela mudança.
func (c Change) Days() []Day {
	days := []Day{{ProfessionalID: c.ProfessionalID, Date: c.Date}}
	if c.PreviousProfessionalID != nil {
		prev := Day{ProfessionalID: *c.PreviousProfessionalID, Date: c.PreviousDate}
		if prev != days[0] {
			days = append(days, prev)
		}
	}
	return days
}
