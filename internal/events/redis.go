package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/BruksfildServices01/salon-scheduler/pkg/logging"
)

// RedisSink publica as mudanças num canal pub/sub compartilhado.
type RedisSink struct {
	redis   *redis.Client
	channel string
}

func NewRedisSink(client *redis.Client, channel string) *RedisSink {
	return &RedisSink{redis: client, channel: channel}
}

func (s *RedisSink) Publish(ctx context.Context, c Change) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("events: marshal change: %w", err)
	}
	if err := s.redis.Publish(ctx, s.channel, data).Err(); err != nil {
		return fmt.Errorf("events: redis publish: %w", err)
	}
	return nil
}

var _ Sink = (*RedisSink)(nil)

// Relay traz para o Bus local as mudanças publicadas por outras instâncias.
type Relay struct {
	redis   *redis.Client
	channel string
	bus     *Bus
	log     *logging.Logger
}

func NewRelay(client *redis.Client, channel string, bus *Bus, log *logging.Logger) *Relay {
	return &Relay{redis: client, channel: channel, bus: bus, log: log}
}

// Run bloqueia até ctx ser cancelado.
func (r *Relay) Run(ctx context.Context) error {
	sub := r.redis.Subscribe(ctx, r.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("events: subscribe %s: %w", r.channel, err)
	}

	msgs := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			var c Change
			if err := json.Unmarshal([]byte(msg.Payload), &c); err != nil {
				r.log.Warn("invalid change payload", "error", err)
				continue
			}
			if c.Origin == r.bus.Origin() {
				continue
			}
			r.bus.Deliver(c)
		}
	}
}
