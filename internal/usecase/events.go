package usecase

import (
	"log/slog"

	"SecurityWatchdog/internal/domain"
)

// Events is the hand-off queue between the scheduler worker and the
// consumer loop. Publishing never blocks the worker: when the consumer
// has fallen a full buffer behind, the event is dropped with a warning.
type Events struct {
	ch     chan domain.Event
	logger *slog.Logger
}

// NewEvents builds the queue with the given buffer capacity.
func NewEvents(capacity int, logger *slog.Logger) *Events {
	if capacity <= 0 {
		capacity = 256
	}
	return &Events{ch: make(chan domain.Event, capacity), logger: logger}
}

// Publish enqueues an event without blocking.
func (e *Events) Publish(event domain.Event) {
	select {
	case e.ch <- event:
	default:
		if e.logger != nil {
			e.logger.Warn("event queue full, dropping event", "kind", event.Kind)
		}
	}
}

// Channel exposes the receive side for the consumer.
func (e *Events) Channel() <-chan domain.Event {
	return e.ch
}
