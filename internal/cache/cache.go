package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrMiss indica que a chave não existe (ou expirou).
var ErrMiss = errors.New("cache: miss")

type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// GetOrRefresh devolve o valor em cache ou chama load e grava o resultado.
// Falhas do cache não impedem a leitura: o valor carregado é devolvido mesmo
// que a gravação falhe.
func GetOrRefresh[T any](
	ctx context.Context,
	store Store,
	key string,
	ttl time.Duration,
	load func(ctx context.Context) (T, error),
) (T, error) {
	if raw, err := store.Get(ctx, key); err == nil {
		var v T
		if err := json.Unmarshal(raw, &v); err == nil {
			return v, nil
		}
	}

	v, err := load(ctx)
	if err != nil {
		return v, err
	}

	if raw, err := json.Marshal(v); err == nil {
		_ = store.Set(ctx, key, raw, ttl)
	}
	return v, nil
}

// GetJSON lê e decodifica uma chave.
func GetJSON[T any](ctx context.Context, store Store, key string) (T, error) {
	var v T
	raw, err := store.Get(ctx, key)
	if err != nil {
		return v, err
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("cache: decode %s: %w", key, err)
	}
	return v, nil
}

func SetJSON(ctx context.Context, store Store, key string, v any, ttl time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cache: encode %s: %w", key, err)
	}
	return store.Set(ctx, key, raw, ttl)
}

// ===============================
// Keys
// ===============================

// DayKey é a ocupação de um dia numa geração.
func DayKey(professionalID uuid.UUID, date, generation string) string {
	return fmt.Sprintf("agenda:day:%s:%s:%s", professionalID, date, generation)
}

func DayGenerationKey(professionalID uuid.UUID, date string) string {
	return fmt.Sprintf("agenda:day-gen:%s:%s", professionalID, date)
}

func ProfessionalKey(id uuid.UUID) string {
	return fmt.Sprintf("catalog:professional:%s", id)
}

func ServiceKey(id uuid.UUID) string {
	return fmt.Sprintf("catalog:service:%s", id)
}

func PaymentMethodKey(id uuid.UUID) string {
	return fmt.Sprintf("catalog:payment-method:%s", id)
}

func SessionKey(id uuid.UUID) string {
	return fmt.Sprintf("booking-session:%s", id)
}
