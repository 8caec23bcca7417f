package gateway

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	redisc "github.com/impactflow/core/internal/pkg/redis"
	"go.uber.org/zap"
)

// Table names a collection that emits change notifications.
type Table string

const (
	TableDonations      Table = "donations"
	TableMessages       Table = "messages"
	TablePaymentMethods Table = "payment_methods"
)

// Op is a change-notification operation.
type Op string

const (
	OpInsert Op = "insert"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

const redisChanChanges = "if:store:changes"

// ChangeEvent is the push-change envelope delivered to subscribers. Origin
// identifies the emitting server instance so redis echoes of our own events
// can be dropped.
type ChangeEvent struct {
	Table   Table           `json:"table"`
	Op      Op              `json:"op"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Origin  string          `json:"origin,omitempty"`
}

// Broker fans change events out to in-process subscribers and, when Redis is
// available, to other server instances. Subscribers are invoked on their own
// goroutines; a slow subscriber never blocks a write path.
type Broker struct {
	mu     sync.Mutex
	subs   map[int]func(ChangeEvent)
	nextID int

	rc     *redisc.Client
	origin string
	logger *zap.Logger
}

func NewBroker(rc *redisc.Client, logger *zap.Logger) *Broker {
	return &Broker{
		subs:   make(map[int]func(ChangeEvent)),
		rc:     rc,
		origin: uuid.New().String(),
		logger: logger,
	}
}

// Run consumes change events published by other instances. Blocks until ctx
// is cancelled; without Redis it returns immediately.
func (b *Broker) Run(ctx context.Context) {
	pubsub := b.rc.Subscribe(ctx, redisChanChanges)
	if pubsub == nil {
		return
	}
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var ev ChangeEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				continue
			}
			if ev.Origin == b.origin {
				continue
			}
			b.dispatch(ev)
		}
	}
}

// Subscribe registers a listener and returns its teardown function. Teardown
// is idempotent.
func (b *Broker) Subscribe(fn func(ChangeEvent)) (cancel func()) {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = fn
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}
}

// Publish delivers an event to local subscribers and relays it to peers.
func (b *Broker) Publish(ctx context.Context, ev ChangeEvent) {
	ev.Origin = b.origin
	b.dispatch(ev)

	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	if err := b.rc.Publish(ctx, redisChanChanges, string(data)); err != nil && b.logger != nil {
		b.logger.Warn("change event relay failed", zap.String("table", string(ev.Table)), zap.Error(err))
	}
}

func (b *Broker) dispatch(ev ChangeEvent) {
	b.mu.Lock()
	listeners := make([]func(ChangeEvent), 0, len(b.subs))
	for _, fn := range b.subs {
		listeners = append(listeners, fn)
	}
	b.mu.Unlock()

	for _, fn := range listeners {
		go fn(ev)
	}
}
