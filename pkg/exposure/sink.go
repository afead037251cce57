package exposure

import (
	"context"
	"sync"

	"arbiter-hq/arbiter/pkg/assign"
)

// Sink receives exposure events for later delivery.
type Sink interface {
	// Record buffers a single exposure event.
	Record(ctx context.Context, event assign.ExposureEvent) error

	// Close releases resources held by the sink. Recording after Close
	// returns ErrClosed.
	Close() error
}

// MemorySinkConfig contains configuration for the in-memory sink.
type MemorySinkConfig struct {
	// Capacity is the maximum number of buffered events. When the buffer
	// is full the oldest event is dropped to make room.
	// Default: 1000
	Capacity int
}

// MemorySink buffers exposure events in memory until the host drains them.
// It never blocks the recording path: at capacity the oldest event is
// discarded and the drop counter incremented.
type MemorySink struct {
	mu      sync.Mutex
	events  []assign.ExposureEvent
	dropped uint64
	closed  bool

	capacity int
}

// NewMemorySink creates a new in-memory sink.
func NewMemorySink(config MemorySinkConfig) *MemorySink {
	capacity := config.Capacity
	if capacity <= 0 {
		capacity = 1000
	}

	return &MemorySink{
		events:   make([]assign.ExposureEvent, 0, capacity),
		capacity: capacity,
	}
}

// Record buffers an event, dropping the oldest buffered event if the sink
// is at capacity.
func (s *MemorySink) Record(ctx context.Context, event assign.ExposureEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	if len(s.events) >= s.capacity {
		s.events = s.events[1:]
		s.dropped++
	}
	s.events = append(s.events, event)

	return nil
}

// Drain removes and returns all buffered events. The returned slice is
// owned by the caller.
func (s *MemorySink) Drain() []assign.ExposureEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	events := s.events
	s.events = make([]assign.ExposureEvent, 0, s.capacity)
	return events
}

// Len returns the number of currently buffered events.
func (s *MemorySink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

// Dropped returns the number of events discarded because the buffer was
// full.
func (s *MemorySink) Dropped() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropped
}

// Close marks the sink closed. Buffered events remain drainable.
func (s *MemorySink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
