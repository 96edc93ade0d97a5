package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/salon-scheduler/internal/cache"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

// CachedCatalog guarda os dados de referência (profissionais, serviços,
// formas de pagamento) por ttl. Agenda e agendamentos sempre vão ao banco.
type CachedCatalog struct {
	domain.Repository
	store cache.Store
	ttl   time.Duration
}

func NewCachedCatalog(repo domain.Repository, store cache.Store, ttl time.Duration) *CachedCatalog {
	return &CachedCatalog{Repository: repo, store: store, ttl: ttl}
}

func (c *CachedCatalog) GetProfessional(ctx context.Context, id uuid.UUID) (*models.Professional, error) {
	return cache.GetOrRefresh(ctx, c.store, cache.ProfessionalKey(id), c.ttl,
		func(ctx context.Context) (*models.Professional, error) {
			return c.Repository.GetProfessional(ctx, id)
		})
}

func (c *CachedCatalog) GetPaymentMethod(ctx context.Context, id uuid.UUID) (*models.PaymentMethod, error) {
	return cache.GetOrRefresh(ctx, c.store, cache.PaymentMethodKey(id), c.ttl,
		func(ctx context.Context) (*models.PaymentMethod, error) {
			return c.Repository.GetPaymentMethod(ctx, id)
		})
}

// ListServicesByIDs busca no banco só os ids que faltam no cache.
func (c *CachedCatalog) ListServicesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Service, error) {
	var (
		out     []models.Service
		missing []uuid.UUID
	)
	for _, id := range ids {
		svc, err := cache.GetJSON[models.Service](ctx, c.store, cache.ServiceKey(id))
		if err != nil {
			missing = append(missing, id)
			continue
		}
		out = append(out, svc)
	}
	if len(missing) == 0 {
		return out, nil
	}

	loaded, err := c.Repository.ListServicesByIDs(ctx, missing)
	if err != nil {
		return nil, err
	}
	for _, svc := range loaded {
		_ = cache.SetJSON(ctx, c.store, cache.ServiceKey(svc.ID), svc, c.ttl)
	}
	return append(out, loaded...), nil
}

var _ domain.Repository = (*CachedCatalog)(nil)
