package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/salon-scheduler/internal/cache"
	"github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

func ptr[T any](v T) *T { return &v }

type fakeCatalog struct {
	services map[uuid.UUID]models.Service
}

func (f *fakeCatalog) ListServicesByIDs(_ context.Context, ids []uuid.UUID) ([]models.Service, error) {
	var out []models.Service
	for _, id := range ids {
		if s, ok := f.services[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeSubmitter struct {
	calls int
	err   error
	ap    *models.Appointment
	got   Draft
}

func (f *fakeSubmitter) Submit(_ context.Context, d Draft) (*models.Appointment, error) {
	f.calls++
	f.got = d
	return f.ap, f.err
}

func newService(t *testing.T, sub Submitter) (*Service, uuid.UUID) {
	t.Helper()
	cut := models.Service{ID: uuid.New(), Name: "Corte", EstimatedTime: 45, Active: true}
	catalog := &fakeCatalog{services: map[uuid.UUID]models.Service{cut.ID: cut}}
	svc := NewService(cache.NewMemoryStore(), time.Hour, catalog, appointment.DefaultSchedule().Durations(), sub)
	return svc, cut.ID
}

func TestClientStepIsNeverSkipped(t *testing.T) {
	s := New(Preselection{ProfessionalID: ptr(uuid.New()), Date: "2025-03-10", Time: "10:00"})
	assert.Equal(t, StepClient, s.Step)

	err := s.Next()
	assert.Equal(t, "client_required", httperr.CodeOf(err))
	assert.Equal(t, StepClient, s.Step)

	s.Draft.Anonymous = true
	require.NoError(t, s.Next())
	assert.Equal(t, StepServices, s.Step, "preselected professional jumps to services")
}

func TestPreselectedDateTimeSkipsToReview(t *testing.T) {
	s := New(Preselection{ProfessionalID: ptr(uuid.New()), Date: "2025-03-10", Time: "10:00"})
	s.Draft.ClientID = ptr(uuid.New())
	require.NoError(t, s.Next())

	err := s.Next()
	assert.Equal(t, "services_required", httperr.CodeOf(err))

	s.Draft.Selections = []appointment.ServiceSelection{{ServiceID: uuid.New(), EstimatedTime: 30}}
	s.Recompute(appointment.DefaultSchedule().Durations())
	require.NoError(t, s.Next())
	assert.Equal(t, StepDuration, s.Step)
	assert.Equal(t, 30, s.Duration)

	require.NoError(t, s.Next())
	assert.Equal(t, StepReview, s.Step)
}

func TestFullWalkAndBack(t *testing.T) {
	s := New(Preselection{})
	s.Draft.Anonymous = true
	require.NoError(t, s.Next())
	assert.Equal(t, StepProfessional, s.Step)

	assert.Error(t, s.Next())
	s.Draft.ProfessionalID = ptr(uuid.New())
	require.NoError(t, s.Next())
	s.Draft.Selections = []appointment.ServiceSelection{{ServiceID: uuid.New(), EstimatedTime: 30}}
	s.Recompute(appointment.DefaultSchedule().Durations())
	require.NoError(t, s.Next())
	require.NoError(t, s.Next())
	assert.Equal(t, StepDateTime, s.Step)

	assert.Equal(t, "datetime_required", httperr.CodeOf(s.Next()))
	require.NoError(t, s.Back())
	assert.Equal(t, StepDuration, s.Step)

	back := New(Preselection{})
	assert.Error(t, back.Back())
}

func TestApplyClearingServicesLeavesDateTime(t *testing.T) {
	svc, cutID := newService(t, &fakeSubmitter{})
	ctx := context.Background()

	sess, err := svc.Start(ctx, Preselection{ProfessionalID: ptr(uuid.New())})
	require.NoError(t, err)

	sess, err = svc.Apply(ctx, sess.ID, Patch{Anonymous: ptr(true), Action: "next"})
	require.NoError(t, err)
	sess, err = svc.Apply(ctx, sess.ID, Patch{Services: []SelectionInput{{ServiceID: cutID, CustomTime: ptr(20)}}, Action: "next"})
	require.NoError(t, err)
	assert.Equal(t, 20, sess.Duration)
	sess, err = svc.Apply(ctx, sess.ID, Patch{Action: "next"})
	require.NoError(t, err)
	assert.Equal(t, StepDateTime, sess.Step)

	sess, err = svc.Apply(ctx, sess.ID, Patch{Services: []SelectionInput{}})
	require.NoError(t, err)
	assert.Equal(t, StepServices, sess.Step)
	assert.False(t, sess.DurationReady)
}

func TestApplyUnknownService(t *testing.T) {
	svc, _ := newService(t, &fakeSubmitter{})
	ctx := context.Background()

	sess, err := svc.Start(ctx, Preselection{})
	require.NoError(t, err)

	_, err = svc.Apply(ctx, sess.ID, Patch{Services: []SelectionInput{{ServiceID: uuid.New()}}})
	assert.Equal(t, "service_not_found", httperr.CodeOf(err))
}

func reviewSession(t *testing.T, svc *Service, cutID uuid.UUID) *Session {
	t.Helper()
	ctx := context.Background()
	sess, err := svc.Start(ctx, Preselection{ProfessionalID: ptr(uuid.New()), Date: "2025-03-10", Time: "10:00"})
	require.NoError(t, err)
	_, err = svc.Apply(ctx, sess.ID, Patch{ClientID: ptr(uuid.New()), Action: "next"})
	require.NoError(t, err)
	_, err = svc.Apply(ctx, sess.ID, Patch{Services: []SelectionInput{{ServiceID: cutID}}, Action: "next"})
	require.NoError(t, err)
	sess, err = svc.Apply(ctx, sess.ID, Patch{Action: "next"})
	require.NoError(t, err)
	require.Equal(t, StepReview, sess.Step)
	return sess
}

func TestSubmitFailureKeepsReview(t *testing.T) {
	sub := &fakeSubmitter{err: httperr.SlotConflict("slot_unavailable")}
	svc, cutID := newService(t, sub)
	ctx := context.Background()
	sess := reviewSession(t, svc, cutID)

	_, err := svc.Submit(ctx, sess.ID)
	assert.Equal(t, httperr.KindSlotConflict, httperr.KindOf(err))

	again, err := svc.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, StepReview, again.Step)
	assert.Equal(t, "slot_unavailable", again.LastError)
	assert.Equal(t, 45, sub.got.Selections[0].EstimatedTime)
}

func TestSubmitSuccessDiscardsSession(t *testing.T) {
	created := &models.Appointment{ID: uuid.New()}
	sub := &fakeSubmitter{ap: created}
	svc, cutID := newService(t, sub)
	ctx := context.Background()
	sess := reviewSession(t, svc, cutID)

	ap, err := svc.Submit(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, ap.ID)

	_, err = svc.Get(ctx, sess.ID)
	assert.Equal(t, httperr.KindNotFound, httperr.KindOf(err))
}

func TestSubmitPartialWriteStillDiscards(t *testing.T) {
	sub := &fakeSubmitter{ap: &models.Appointment{ID: uuid.New()}, err: httperr.PartialWrite("service_lines_failed", errors.New("boom"))}
	svc, cutID := newService(t, sub)
	ctx := context.Background()
	sess := reviewSession(t, svc, cutID)

	ap, err := svc.Submit(ctx, sess.ID)
	assert.NotNil(t, ap)
	assert.Equal(t, httperr.KindPartialWrite, httperr.KindOf(err))

	_, err = svc.Get(ctx, sess.ID)
	assert.Error(t, err)
}

func TestSubmitBeforeReview(t *testing.T) {
	sub := &fakeSubmitter{}
	svc, _ := newService(t, sub)
	ctx := context.Background()

	sess, err := svc.Start(ctx, Preselection{})
	require.NoError(t, err)
	_, err = svc.Submit(ctx, sess.ID)
	assert.Equal(t, "session_not_ready", httperr.CodeOf(err))
	assert.Zero(t, sub.calls)
}
