package events

import (
	"fmt"
	"sync"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/rs/zerolog"
)

// DefaultOutboxSize bounds the number of undrained events kept.
const DefaultOutboxSize = 1000

// Event is one emitted notification.
type Event struct {
	Seq       uint64    `json:"seq"`
	Type      string    `json:"event_type"`
	Data      any       `json:"data"`
	TimeFired time.Time `json:"time_fired"`
}

// Emitter fans events out to subscribers and queues them in the outbox.
// When the outbox is full the oldest event is dropped.
type Emitter struct {
	bus      EventBus.Bus
	mu       sync.Mutex
	outbox   []Event
	capacity int
	seq      uint64
	dropped  uint64
	now      func() time.Time
	logger   zerolog.Logger
}

// NewEmitter creates an emitter whose outbox holds at most capacity events.
func NewEmitter(capacity int, logger zerolog.Logger) *Emitter {
	if capacity <= 0 {
		capacity = DefaultOutboxSize
	}
	return &Emitter{
		bus:      EventBus.New(),
		capacity: capacity,
		now:      time.Now,
		logger:   logger.With().Str("component", "events").Logger(),
	}
}

// Subscribe registers fn for topic. fn runs synchronously on the emitting
// goroutine and must not call back into the emitter or the inventory service.
// A panic in fn is logged and swallowed.
func (e *Emitter) Subscribe(topic string, fn func(Event)) error {
	handler := func(ev Event) {
		defer func() {
			if r := recover(); r != nil {
				e.logger.Error().
					Str("topic", topic).
					Interface("panic", r).
					Msg("event subscriber panicked")
			}
		}()
		fn(ev)
	}
	if err := e.bus.Subscribe(topic, handler); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", topic, err)
	}
	return nil
}

// Emit records an event and delivers it to subscribers of topic.
func (e *Emitter) Emit(topic string, data any) {
	e.mu.Lock()
	e.seq++
	ev := Event{
		Seq:       e.seq,
		Type:      topic,
		Data:      data,
		TimeFired: e.now().UTC(),
	}
	if len(e.outbox) >= e.capacity {
		e.outbox = e.outbox[1:]
		e.dropped++
		if e.dropped == 1 || e.dropped%100 == 0 {
			e.logger.Warn().Uint64("dropped", e.dropped).Msg("event outbox full, dropping oldest events")
		}
	}
	e.outbox = append(e.outbox, ev)
	e.mu.Unlock()

	e.logger.Debug().Str("topic", topic).Uint64("seq", ev.Seq).Msg("event emitted")

	if e.bus.HasCallback(topic) {
		e.bus.Publish(topic, ev)
	}
}

// Drain returns and clears the queued events, oldest first.
func (e *Emitter) Drain() []Event {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := e.outbox
	e.outbox = nil
	if out == nil {
		out = []Event{}
	}
	return out
}

// Pending returns the number of queued events.
func (e *Emitter) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.outbox)
}
