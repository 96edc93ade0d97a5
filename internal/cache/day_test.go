package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForgetDayRetiresLateWrites(t *testing.T) {
	ctx := context.Background()
	store, _ := newRedisStore(t)
	professionalID := uuid.New()
	const date = "2025-03-10"

	// leitor pega a chave antes da mutação...
	before, ok := CurrentDayKey(ctx, store, professionalID, date)
	require.True(t, ok)

	require.NoError(t, ForgetDay(ctx, store, professionalID, date))

	// ...e grava o valor velho depois dela
	require.NoError(t, SetJSON(ctx, store, before, []string{"stale"}, time.Minute))

	after, ok := CurrentDayKey(ctx, store, professionalID, date)
	require.True(t, ok)
	assert.NotEqual(t, before, after)

	calls := 0
	v, err := GetOrRefresh(ctx, store, after, time.Minute, func(context.Context) ([]string, error) {
		calls++
		return []string{"fresh"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"fresh"}, v)
	assert.Equal(t, 1, calls)
}

func TestCurrentDayKeyIsStableBetweenChanges(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	professionalID := uuid.New()

	first, ok := CurrentDayKey(ctx, store, professionalID, "2025-03-10")
	require.True(t, ok)
	second, _ := CurrentDayKey(ctx, store, professionalID, "2025-03-10")
	assert.Equal(t, first, second)

	other, _ := CurrentDayKey(ctx, store, professionalID, "2025-03-11")
	assert.NotEqual(t, first, other)
}

func TestCurrentDayKeyUnavailable(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t)
	mr.Close()

	_, ok := CurrentDayKey(ctx, store, uuid.New(), "2025-03-10")
	assert.False(t, ok)
}
