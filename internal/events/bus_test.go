package events

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/pkg/logging"
)

func sampleChange(kind Kind) Change {
	return NewChange(kind, &models.Appointment{
		ID:             uuid.New(),
		ProfessionalID: uuid.New(),
		Date:           "2025-03-10",
		Time:           "10:00",
		Status:         "agendado",
	})
}

type recordingSink struct {
	got []Change
	err error
}

func (s *recordingSink) Publish(_ context.Context, c Change) error {
	s.got = append(s.got, c)
	return s.err
}

func TestBusFanOut(t *testing.T) {
	bus := NewBus(logging.Discard())
	a, unsubA := bus.Subscribe(4)
	defer unsubA()
	b, unsubB := bus.Subscribe(4)
	defer unsubB()

	sink := &recordingSink{err: errors.New("offline")}
	bus.AddSink(sink)

	c := sampleChange(KindCreated)
	bus.Publish(context.Background(), c)

	gotA := <-a
	gotB := <-b
	assert.Equal(t, c.AppointmentID, gotA.AppointmentID)
	assert.Equal(t, bus.Origin(), gotA.Origin)
	assert.Equal(t, gotA, gotB)
	require.Len(t, sink.got, 1, "sink errors must not stop delivery")
}

func TestBusDropsForSlowSubscriber(t *testing.T) {
	bus := NewBus(logging.Discard())
	ch, unsub := bus.Subscribe(1)
	defer unsub()

	bus.Publish(context.Background(), sampleChange(KindCreated))
	bus.Publish(context.Background(), sampleChange(KindCancelled))

	first := <-ch
	assert.Equal(t, KindCreated, first.Kind)
	select {
	case extra := <-ch:
		t.Fatalf("unexpected change %s", extra.Kind)
	default:
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	bus := NewBus(logging.Discard())
	ch, unsub := bus.Subscribe(1)
	unsub()
	unsub()

	_, open := <-ch
	assert.False(t, open)

	bus.Publish(context.Background(), sampleChange(KindCreated))
}

func TestChangeDays(t *testing.T) {
	c := sampleChange(KindMoved)
	assert.Len(t, c.Days(), 1)

	same := c.WithPrevious(c.ProfessionalID, c.Date)
	assert.Nil(t, same.PreviousProfessionalID)

	other := uuid.New()
	moved := c.WithPrevious(other, "2025-03-09")
	assert.True(t, moved.ForceRefresh)
	assert.Equal(t, []Day{
		{ProfessionalID: c.ProfessionalID, Date: c.Date},
		{ProfessionalID: other, Date: "2025-03-09"},
	}, moved.Days())
}

func TestRedisRelaySkipsOwnOrigin(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	const channel = "agenda:changes"

	local := NewBus(logging.Discard())
	local.AddSink(NewRedisSink(client, channel))

	remote := NewBus(logging.Discard())
	remote.AddSink(NewRedisSink(client, channel))

	localCh, unsub := local.Subscribe(4)
	defer unsub()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- NewRelay(client, channel, local, logging.Discard()).Run(ctx) }()

	require.Eventually(t, func() bool {
		return mr.PubSubNumSub(channel)[channel] == 1
	}, time.Second, 10*time.Millisecond)

	own := sampleChange(KindCreated)
	local.Publish(ctx, own)
	assert.Equal(t, own.ID, (<-localCh).ID)

	foreign := sampleChange(KindCancelled)
	remote.Publish(ctx, foreign)

	select {
	case got := <-localCh:
		assert.Equal(t, foreign.ID, got.ID, "own message must not come back through the relay")
		assert.Equal(t, remote.Origin(), got.Origin)
	case <-time.After(time.Second):
		t.Fatal("relay did not deliver remote change")
	}

	cancel()
	assert.NoError(t, <-done)
}

type fakeChannel struct {
	exchange string
	key      string
	msg      amqp.Publishing
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	f.exchange, f.key, f.msg = exchange, key, msg
	return nil
}

func (f *fakeChannel) Close() error { return nil }

func TestAMQPSinkRoutesByKind(t *testing.T) {
	ch := &fakeChannel{}
	sink := &AMQPSink{ch: ch, exchange: "agenda"}

	c := sampleChange(KindFinalized)
	require.NoError(t, sink.Publish(context.Background(), c))

	assert.Equal(t, "agenda", ch.exchange)
	assert.Equal(t, "appointment.finalized", ch.key)
	assert.Equal(t, "application/json", ch.msg.ContentType)
	assert.Equal(t, c.ID.String(), ch.msg.MessageId)
	assert.Contains(t, string(ch.msg.Body), `"forceRefresh":false`)
	assert.NoError(t, sink.Close())
}
