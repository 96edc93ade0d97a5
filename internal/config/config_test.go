package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	t.Setenv("WORK_START", "")
	t.Setenv("SLOT_STEP_MINUTES", "")
	t.Setenv("FINALIZE_VIA_PROCEDURE", "")

	cfg := Load()

	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "08:00", cfg.WorkStart)
	assert.Equal(t, "20:00", cfg.WorkEnd)
	assert.Equal(t, 30, cfg.SlotStepMinutes)
	assert.Equal(t, 15, cfg.TickMinutes)
	assert.Equal(t, 15, cfg.MinServiceMinutes)
	assert.False(t, cfg.RedisEnabled())
	assert.True(t, cfg.FinalizeViaProcedure)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("WORK_END", "18:30")
	t.Setenv("SLOT_STEP_MINUTES", "15")
	t.Setenv("OCCUPANCY_TTL", "2m")
	t.Setenv("FINALIZE_VIA_PROCEDURE", "false")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")

	cfg := Load()

	assert.Equal(t, ":9090", cfg.Addr())
	assert.Equal(t, "18:30", cfg.WorkEnd)
	assert.Equal(t, 15, cfg.SlotStepMinutes)
	assert.Equal(t, 2*time.Minute, cfg.OccupancyTTL)
	assert.False(t, cfg.FinalizeViaProcedure)
	assert.True(t, cfg.RedisEnabled())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Setenv("TICK_MINUTES", "abc")
	t.Setenv("LOCK_TTL", "soon")

	cfg := Load()

	assert.Equal(t, 15, cfg.TickMinutes)
	assert.Equal(t, 10*time.Second, cfg.LockTTL)
}
