package audit

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/pkg/logging"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.AuditLog{}))
	return db
}

func TestDispatcherPersistsEvents(t *testing.T) {
	db := newTestDB(t)
	l := New(db)
	d := NewDispatcher(l, logging.Discard())

	apID := uuid.New()
	d.Dispatch(Event{
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: &apID,
		Metadata: map[string]any{"time": "10:00"},
	})
	d.Dispatch(Event{Action: "appointment_cancelled", Entity: "appointment", EntityID: &apID})
	d.Close()

	logs, err := l.List(context.Background(), Filter{Entity: "appointment", EntityID: &apID})
	require.NoError(t, err)
	require.Len(t, logs, 2)

	created, err := l.List(context.Background(), Filter{Action: "appointment_created"})
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.JSONEq(t, `{"time":"10:00"}`, string(created[0].Metadata))
}

func TestNilDispatcherIsNoop(t *testing.T) {
	var d *Dispatcher
	d.Dispatch(Event{Action: "x"})
}
