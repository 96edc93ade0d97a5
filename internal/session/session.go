package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
)

type Step string

const (
	StepClient       Step = "client"
	StepProfessional Step = "professional"
	StepServices     Step = "services"
	StepDuration     Step = "duration"
	StepDateTime     Step = "datetime"
	StepReview       Step = "review"
)

var steps = []Step{StepClient, StepProfessional, StepServices, StepDuration, StepDateTime, StepReview}

// Draft é o agendamento em montagem.
type Draft struct {
	AppointmentID  *uuid.UUID                     `json:"appointment_id,omitempty"`
	ClientID       *uuid.UUID                     `json:"client_id,omitempty"`
	Anonymous      bool                           `json:"anonymous"`
	ProfessionalID *uuid.UUID                     `json:"professional_id,omitempty"`
	Date           string                         `json:"date,omitempty"`
	Time           string                         `json:"time,omitempty"`
	Selections     []appointment.ServiceSelection `json:"services"`
	Notes          string                         `json:"notes,omitempty"`

	// quem abriu a sessão (auditoria)
	UserID *uuid.UUID `json:"user_id,omitempty"`
}

// Preselection vem de deep-link (agenda clicada, edição).
type Preselection struct {
	UserID         *uuid.UUID
	AppointmentID  *uuid.UUID
	ClientID       *uuid.UUID
	ProfessionalID *uuid.UUID
	Date           string
	Time           string
	Selections     []appointment.ServiceSelection
}

type Session struct {
	ID    uuid.UUID `json:"id"`
	Step  Step      `json:"step"`
	Draft Draft     `json:"draft"`

	PreselectedProfessional bool `json:"preselected_professional"`
	PreselectedDate         bool `json:"preselected_date"`
	PreselectedTime         bool `json:"preselected_time"`

	Duration      int    `json:"duration"`
	DurationReady bool   `json:"duration_ready"`
	LastError     string `json:"last_error,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// New abre a sessão sempre no passo do cliente.
func New(pre Preselection) *Session {
	now := time.Now().UTC()
	s := &Session{
		ID:   uuid.New(),
		Step: StepClient,
		Draft: Draft{
			AppointmentID:  pre.AppointmentID,
			ClientID:       pre.ClientID,
			ProfessionalID: pre.ProfessionalID,
			Date:           pre.Date,
			Time:           pre.Time,
			Selections:     pre.Selections,
			UserID:         pre.UserID,
		},
		PreselectedProfessional: pre.ProfessionalID != nil,
		PreselectedDate:         pre.Date != "",
		PreselectedTime:         pre.Time != "",
		CreatedAt:               now,
		UpdatedAt:               now,
	}
	return s
}

func (s *Session) EditMode() bool {
	return s.Draft.AppointmentID != nil
}

// Recompute atualiza a duração a partir da seleção atual.
func (s *Session) Recompute(d appointment.DurationResolver) {
	s.Duration, s.DurationReady = d.Resolve(s.Draft.Selections)
}

// Next avança respeitando as guardas do passo atual.
func (s *Session) Next() error {
	switch s.Step {
	case StepClient:
		if s.Draft.ClientID == nil && !s.Draft.Anonymous {
			return httperr.ErrBusiness("client_required")
		}
		if s.PreselectedProfessional && s.Draft.ProfessionalID != nil {
			s.Step = StepServices
		} else {
			s.Step = StepProfessional
		}

	case StepProfessional:
		if s.Draft.ProfessionalID == nil {
			return httperr.ErrBusiness("professional_required")
		}
		s.Step = StepServices

	case StepServices:
		if len(s.Draft.Selections) == 0 {
			return httperr.ErrBusiness("services_required")
		}
		s.Step = StepDuration

	case StepDuration:
		if len(s.Draft.Selections) == 0 || !s.DurationReady {
			return httperr.ErrBusiness("services_required")
		}
		if s.PreselectedDate && s.PreselectedTime && s.Draft.Date != "" && s.Draft.Time != "" {
			s.Step = StepReview
		} else {
			s.Step = StepDateTime
		}

	case StepDateTime:
		if s.Draft.Date == "" || s.Draft.Time == "" {
			return httperr.ErrBusiness("datetime_required")
		}
		s.Step = StepReview

	default:
		return httperr.ErrBusiness("invalid_step")
	}

	s.touch()
	return nil
}

// Back reabre o passo anterior.
func (s *Session) Back() error {
	for i, st := range steps {
		if st != s.Step {
			continue
		}
		if i == 0 {
			return httperr.ErrBusiness("invalid_step")
		}
		s.Step = steps[i-1]
		s.touch()
		return nil
	}
	return httperr.ErrBusiness("invalid_step")
}

// Validate é a checagem feita antes de enviar o rascunho.
func (d Draft) Validate() error {
	switch {
	case d.ProfessionalID == nil || *d.ProfessionalID == uuid.Nil:
		return httperr.ErrBusiness("professional_required")
	case d.Date == "":
		return httperr.ErrBusiness("date_required")
	case d.Time == "":
		return httperr.ErrBusiness("time_required")
	case len(d.Selections) == 0:
		return httperr.ErrBusiness("services_required")
	}
	return nil
}

func (s *Session) touch() {
	s.UpdatedAt = time.Now().UTC()
}
