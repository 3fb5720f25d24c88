package events

import (
	"sync"
	"time"

	"github.com/vrulab/vru-validation/pkg/metrics"
)

// Type names a push notification
type Type string

const (
	TestSessionUpdate       Type = "test_session_update"
	DetectionEvent          Type = "detection_event"
	AnnotationUpdate        Type = "annotation_update"
	VideoProcessingProgress Type = "video_processing_progress"
)

// DefaultBuffer is the per-subscriber queue length
const DefaultBuffer = 64

// Envelope is the wire form of an event
type Envelope struct {
	Type      Type        `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// Publisher is implemented by anything events can be sent to
type Publisher interface {
	Publish(t Type, data interface{})
}

// Sink receives every published envelope. Send must not block.
type Sink interface {
	Send(env Envelope)
}

// Subscription is a single consumer of hub events
type Subscription struct {
	C <-chan Envelope

	ch   chan Envelope
	once sync.Once
}

func (s *Subscription) close() {
	s.once.Do(func() { close(s.ch) })
}

// Hub broadcasts envelopes to subscribers and sinks
type Hub struct {
	mu          sync.RWMutex
	subscribers map[*Subscription]struct{}
	sinks       []Sink
	closed      bool

	metrics *metrics.Metrics
	now     func() time.Time
}

var _ Publisher = (*Hub)(nil)

// NewHub creates a hub. m may be nil.
func NewHub(m *metrics.Metrics) *Hub {
	return &Hub{
		subscribers: make(map[*Subscription]struct{}),
		metrics:     m,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// AddSink registers a sink for all future events
func (h *Hub) AddSink(s Sink) {
	h.mu.Lock()
	h.sinks = append(h.sinks, s)
	h.mu.Unlock()
}

// Subscribe returns a subscription with the given buffer size. On a closed
// hub the returned channel is already closed.
func (h *Hub) Subscribe(buffer int) *Subscription {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	ch := make(chan Envelope, buffer)
	sub := &Subscription{C: ch, ch: ch}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		sub.close()
		return sub
	}
	h.subscribers[sub] = struct{}{}
	return sub
}

// Unsubscribe removes sub and closes its channel. Safe to call twice.
func (h *Hub) Unsubscribe(sub *Subscription) {
	h.mu.Lock()
	delete(h.subscribers, sub)
	h.mu.Unlock()
	sub.close()
}

// Subscribers returns the number of live subscriptions
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// Publish wraps data in an envelope and delivers it without blocking.
// Subscribers that cannot keep up are dropped.
func (h *Hub) Publish(t Type, data interface{}) {
	if h == nil {
		return
	}
	env := Envelope{Type: t, Data: data, Timestamp: h.now()}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	var slow []*Subscription
	for sub := range h.subscribers {
		select {
		case sub.ch <- env:
		default:
			slow = append(slow, sub)
		}
	}
	for _, sub := range slow {
		delete(h.subscribers, sub)
		sub.close()
	}
	sinks := append([]Sink(nil), h.sinks...)
	h.mu.Unlock()

	for _, s := range sinks {
		s.Send(env)
	}
	h.metrics.EventPublished(string(t))
}

// Close drops every subscriber. Later publishes are ignored.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for sub := range h.subscribers {
		sub.close()
	}
	h.subscribers = make(map[*Subscription]struct{})
}
