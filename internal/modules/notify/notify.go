package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Kind classifies a notification for client styling.
type Kind string

const (
	KindSuccess  Kind = "success"
	KindInfo     Kind = "info"
	KindError    Kind = "error"
	KindDonation Kind = "donation"
)

// Notification is a transient user-facing message. Each one expires on its
// own timer; expiry of one never touches the others.
type Notification struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// defaultTTL matches the client-side toast lifetime.
const defaultTTL = 6 * time.Second

// Broadcaster receives every new notification, typically a realtime hub.
type Broadcaster interface {
	BroadcastNotification(n Notification)
}

// Center holds the active notification set.
type Center struct {
	mu     sync.Mutex
	active map[string]Notification
	timers map[string]*time.Timer
	ttl    time.Duration
	sink   Broadcaster
	closed bool
}

type Option func(*Center)

// WithTTL overrides the expiry window.
func WithTTL(d time.Duration) Option {
	return func(c *Center) { c.ttl = d }
}

// WithBroadcaster mirrors each notification to a realtime sink.
func WithBroadcaster(b Broadcaster) Option {
	return func(c *Center) { c.sink = b }
}

func NewCenter(opts ...Option) *Center {
	c := &Center{
		active: make(map[string]Notification),
		timers: make(map[string]*time.Timer),
		ttl:    defaultTTL,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Notify registers a notification and schedules its expiry.
func (c *Center) Notify(message string, kind Kind) Notification {
	n := Notification{
		ID:        uuid.NewString(),
		Kind:      kind,
		Message:   message,
		CreatedAt: time.Now(),
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return n
	}
	c.active[n.ID] = n
	c.timers[n.ID] = time.AfterFunc(c.ttl, func() { c.Dismiss(n.ID) })
	sink := c.sink
	c.mu.Unlock()

	if sink != nil {
		sink.BroadcastNotification(n)
	}
	return n
}

// Dismiss removes a notification early. Unknown ids are ignored.
func (c *Center) Dismiss(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t, ok := c.timers[id]; ok {
		t.Stop()
		delete(c.timers, id)
	}
	delete(c.active, id)
}

// Active returns the live notifications, newest first.
func (c *Center) Active() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Notification, 0, len(c.active))
	for _, n := range c.active {
		out = append(out, n)
	}
	sortNewestFirst(out)
	return out
}

// Close stops all timers and drops pending notifications.
func (c *Center) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	for id, t := range c.timers {
		t.Stop()
		delete(c.timers, id)
	}
	c.active = make(map[string]Notification)
}

func sortNewestFirst(ns []Notification) {
	for i := 1; i < len(ns); i++ {
		for j := i; j > 0 && ns[j].CreatedAt.After(ns[j-1].CreatedAt); j-- {
			ns[j], ns[j-1] = ns[j-1], ns[j]
		}
	}
}
