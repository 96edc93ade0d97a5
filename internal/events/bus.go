package events

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/salon-scheduler/pkg/logging"
)

// Sink leva as mudanças para fora do processo (Redis, RabbitMQ).
type Sink interface {
	Publish(ctx context.Context, c Change) error
}

// Bus entrega cada Change a todos os inscritos locais e aos sinks.
// Inscrito lento perde a mensagem; a publicação nunca bloqueia a mutação.
type Bus struct {
	mu     sync.RWMutex
	subs   map[int]chan Change
	nextID int
	sinks  []Sink
	origin string
	log    *logging.Logger
}

func NewBus(log *logging.Logger) *Bus {
	return &Bus{
		subs:   make(map[int]chan Change),
		origin: uuid.NewString(),
		log:    log,
	}
}

// Origin identifica esta instância nas mensagens enviadas aos sinks.
func (b *Bus) Origin() string {
	return b.origin
}

func (b *Bus) AddSink(s Sink) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sinks = append(b.sinks, s)
}

// Subscribe devolve o canal de mudanças e a função que cancela a inscrição.
func (b *Bus) Subscribe(buffer int) (<-chan Change, func()) {
	ch := make(chan Change, buffer)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(ch)
		})
	}
}

// Publish entrega localmente e repassa aos sinks. Erros de sink são só logados.
func (b *Bus) Publish(ctx context.Context, c Change) {
	if c.Origin == "" {
		c.Origin = b.origin
	}

	b.Deliver(c)

	b.mu.RLock()
	sinks := append([]Sink(nil), b.sinks...)
	b.mu.RUnlock()

	for _, s := range sinks {
		if err := s.Publish(ctx, c); err != nil {
			b.log.Warn("change sink failed",
				"kind", c.Kind,
				"appointment_id", c.AppointmentID,
				"error", err,
			)
		}
	}
}

// Deliver entrega só aos inscritos locais (mensagens vindas de outra instância).
func (b *Bus) Deliver(c Change) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subs {
		select {
		case ch <- c:
		default:
			b.log.Warn("change subscriber lagging, dropping event",
				"kind", c.Kind,
				"appointment_id", c.AppointmentID,
			)
		}
	}
}
