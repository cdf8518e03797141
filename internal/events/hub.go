package events

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

const defaultBufferSize = 256

// Hub aggregates check events and fans them out to registered sinks. It is
// safe for concurrent use and never blocks callers: if the buffer is full
// the event is dropped and counted.
type Hub struct {
	sinks   []Sink
	events  chan Event
	doneCh  chan struct{}
	logger  *zap.Logger
	dropped atomic.Int64
	closed  atomic.Bool

	closeOnce sync.Once
}

// NewHub starts the dispatch goroutine over the supplied sinks. The
// returned Hub is immediately ready to accept events.
func NewHub(logger *zap.Logger, sinks ...Sink) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Hub{
		sinks:  append([]Sink(nil), sinks...),
		events: make(chan Event, defaultBufferSize),
		doneCh: make(chan struct{}),
		logger: logger,
	}
	go h.run()
	return h
}

// Emit enqueues an event for dispatch. It never blocks.
func (h *Hub) Emit(event Event) {
	if h.closed.Load() {
		return
	}
	select {
	case h.events <- event:
	default:
		h.dropped.Add(1)
		h.logger.Warn("event buffer full, dropping event",
			zap.Int64("address_id", event.AddressID),
			zap.Int64("dropped_total", h.dropped.Load()),
		)
	}
}

// Dropped reports how many events were discarded due to a full buffer.
func (h *Hub) Dropped() int64 {
	return h.dropped.Load()
}

// Close stops accepting events and waits for queued events to drain.
func (h *Hub) Close() {
	h.closeOnce.Do(func() {
		h.closed.Store(true)
		close(h.events)
		<-h.doneCh
	})
}

func (h *Hub) run() {
	defer close(h.doneCh)
	for event := range h.events {
		for _, sink := range h.sinks {
			sink.Consume(event)
		}
	}
}
