package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/salon-scheduler/internal/cache"
	"github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

// Submitter grava o rascunho (criação ou edição).
// Um erro acompanhado de agendamento (gravação parcial) conta como enviado.
type Submitter interface {
	Submit(ctx context.Context, d Draft) (*models.Appointment, error)
}

type ServiceCatalog interface {
	ListServicesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Service, error)
}

// Patch é uma alteração vinda do cliente; nil significa "não mexer".
type Patch struct {
	ClientID       *uuid.UUID
	Anonymous      *bool
	ProfessionalID *uuid.UUID
	Date           *string
	Time           *string
	Services       []SelectionInput // nil não altera; vazio limpa
	Notes          *string
	Action         string // "next", "back" ou ""
}

type SelectionInput struct {
	ServiceID   uuid.UUID
	CustomPrice *float64
	CustomTime  *int
}

type Service struct {
	store     cache.Store
	ttl       time.Duration
	catalog   ServiceCatalog
	durations appointment.DurationResolver
	submitter Submitter
}

func NewService(
	store cache.Store,
	ttl time.Duration,
	catalog ServiceCatalog,
	durations appointment.DurationResolver,
	submitter Submitter,
) *Service {
	return &Service{store: store, ttl: ttl, catalog: catalog, durations: durations, submitter: submitter}
}

func (s *Service) Start(ctx context.Context, pre Preselection) (*Session, error) {
	sess := New(pre)
	sess.Recompute(s.durations)
	if err := s.save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Session, error) {
	sess, err := cache.GetJSON[*Session](ctx, s.store, cache.SessionKey(id))
	if errors.Is(err, cache.ErrMiss) {
		return nil, httperr.NotFound("session_not_found", err)
	}
	if err != nil {
		return nil, httperr.Persistence("session_read_failed", err)
	}
	return sess, nil
}

// Apply aplica o patch e, se pedido, navega. Falha de guarda não descarta
// os dados do patch.
func (s *Service) Apply(ctx context.Context, id uuid.UUID, p Patch) (*Session, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if p.ClientID != nil {
		sess.Draft.ClientID = p.ClientID
		sess.Draft.Anonymous = false
	}
	if p.Anonymous != nil {
		sess.Draft.Anonymous = *p.Anonymous
		if *p.Anonymous {
			sess.Draft.ClientID = nil
		}
	}
	if p.ProfessionalID != nil {
		sess.Draft.ProfessionalID = p.ProfessionalID
	}
	if p.Date != nil {
		sess.Draft.Date = *p.Date
	}
	if p.Time != nil {
		sess.Draft.Time = *p.Time
	}
	if p.Notes != nil {
		sess.Draft.Notes = *p.Notes
	}
	if p.Services != nil {
		sel, err := s.resolveSelections(ctx, p.Services)
		if err != nil {
			return nil, err
		}
		sess.Draft.Selections = sel
		// sem serviços não há como ficar em data/hora ou revisão
		if len(sel) == 0 && (sess.Step == StepDuration || sess.Step == StepDateTime || sess.Step == StepReview) {
			sess.Step = StepServices
		}
	}
	sess.Recompute(s.durations)

	var navErr error
	switch p.Action {
	case "next":
		navErr = sess.Next()
	case "back":
		navErr = sess.Back()
	case "":
	default:
		navErr = httperr.ErrBusiness("invalid_action")
	}

	sess.touch()
	if err := s.save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, navErr
}

// Submit envia o rascunho. Em caso de sucesso a sessão é descartada;
// em caso de falha ela continua na revisão com o erro registrado.
func (s *Service) Submit(ctx context.Context, id uuid.UUID) (*models.Appointment, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.Step != StepReview {
		return nil, httperr.ErrBusiness("session_not_ready")
	}
	if err := sess.Draft.Validate(); err != nil {
		return nil, err
	}

	ap, err := s.submitter.Submit(ctx, sess.Draft)
	if err != nil && ap == nil {
		sess.LastError = httperr.CodeOf(err)
		if sess.LastError == "" {
			sess.LastError = "submit_failed"
		}
		sess.touch()
		_ = s.save(ctx, sess)
		return nil, err
	}

	if derr := s.store.Delete(ctx, cache.SessionKey(id)); derr != nil && err == nil {
		return ap, httperr.Persistence("session_discard_failed", derr)
	}
	return ap, err
}

func (s *Service) resolveSelections(ctx context.Context, in []SelectionInput) ([]appointment.ServiceSelection, error) {
	if len(in) == 0 {
		return []appointment.ServiceSelection{}, nil
	}

	ids := make([]uuid.UUID, 0, len(in))
	for _, i := range in {
		ids = append(ids, i.ServiceID)
	}
	services, err := s.catalog.ListServicesByIDs(ctx, ids)
	if err != nil {
		return nil, httperr.Persistence("services_read_failed", err)
	}

	byID := make(map[uuid.UUID]models.Service, len(services))
	for _, svc := range services {
		byID[svc.ID] = svc
	}

	out := make([]appointment.ServiceSelection, 0, len(in))
	for _, i := range in {
		svc, ok := byID[i.ServiceID]
		if !ok || !svc.Active {
			return nil, httperr.ErrBusiness("service_not_found")
		}
		out = append(out, appointment.ServiceSelection{
			ServiceID:     i.ServiceID,
			CustomPrice:   i.CustomPrice,
			CustomTime:    i.CustomTime,
			EstimatedTime: svc.EstimatedTime,
		})
	}
	return out, nil
}

func (s *Service) save(ctx context.Context, sess *Session) error {
	if err := cache.SetJSON(ctx, s.store, cache.SessionKey(sess.ID), sess, s.ttl); err != nil {
		return httperr.Persistence("session_write_failed", err)
	}
	return nil
}
