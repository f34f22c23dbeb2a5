// Package alertfeed fans out high-risk alert events to live subscribers,
// typically websocket clients on the monitoring dashboard.
package alertfeed

import (
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Event is the wire payload pushed to feed subscribers.
type Event struct {
	PredictionID  uint64    `json:"prediction_id"`
	ApplicationID string    `json:"application_id,omitempty"`
	Probability   float64   `json:"probability"`
	RiskCategory  string    `json:"risk_category"`
	Message       string    `json:"message"`
	Severity      string    `json:"severity"`
	At            time.Time `json:"at"`
}

// Hub broadcasts events to all current subscribers. Publishing never blocks:
// a subscriber whose buffer is full misses the event, so a stalled client
// cannot back-pressure the prediction path.
type Hub struct {
	logger *zap.Logger
	buffer int

	mu   sync.Mutex
	subs map[chan []byte]struct{}
}

func NewHub(buffer int, logger *zap.Logger) *Hub {
	if buffer <= 0 {
		buffer = 16
	}
	return &Hub{
		logger: logger,
		buffer: buffer,
		subs:   make(map[chan []byte]struct{}),
	}
}

// Subscribe registers a new consumer. The returned cancel func must be called
// when the consumer goes away; it closes the channel.
func (h *Hub) Subscribe() (<-chan []byte, func()) {
	ch := make(chan []byte, h.buffer)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, ch)
			h.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Publish encodes the event once and offers it to every subscriber.
func (h *Hub) Publish(ev Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		if h.logger != nil {
			h.logger.Error("encode alert event failed", zap.Error(err))
		}
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- payload:
		default:
			// slow subscriber, drop this event for it
		}
	}
}

// SubscriberCount reports the current number of live subscribers.
func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
