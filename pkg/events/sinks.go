package events

import (
	"io"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
)

// =============================================================================
// Buffer
// =============================================================================

// Buffer records events in memory. It is safe for concurrent use so the
// debug server can read it while a session writes.
type Buffer struct {
	mu     sync.Mutex
	events []Event
	limit  int
}

// NewBuffer returns a buffer keeping at most limit events. A non-positive
// limit keeps everything.
func NewBuffer(limit int) *Buffer {
	return &Buffer{limit: limit}
}

func (b *Buffer) Emit(e Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, e)
	if b.limit > 0 && len(b.events) > b.limit {
		b.events = slices.Delete(b.events, 0, len(b.events)-b.limit)
	}
}

// Events returns a copy of the recorded events, oldest first.
func (b *Buffer) Events() []Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.events)
}

// Len returns the number of recorded events.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.events)
}

// Reset drops all recorded events.
func (b *Buffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = nil
}

// Count returns how many recorded events have type t.
func (b *Buffer) Count(t Type) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, e := range b.events {
		if e.Type == t {
			n++
		}
	}
	return n
}

// =============================================================================
// Log sink
// =============================================================================

// LogSink writes gesture events at debug level and entity events at the
// configured level.
type LogSink struct {
	logger      *log.Logger
	entityLevel log.Level
}

// NewLogSink returns a sink writing to logger. A nil logger discards.
func NewLogSink(logger *log.Logger, entityLevel log.Level) *LogSink {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &LogSink{logger: logger, entityLevel: entityLevel}
}

func (s *LogSink) Emit(e Event) {
	switch e.Type {
	case GestureBegin, GestureCommit, GestureCancel:
		s.logger.Debug(e.Type.String(), "gesture", e.Gesture, "mode", e.Mode, "ids", e.IDs)
	default:
		s.logger.Log(s.entityLevel, e.Type.String(), "gesture", e.Gesture, "id", e.ID, "mask", uint32(e.Mask))
	}
}

// =============================================================================
// Fanout
// =============================================================================

// Fanout forwards every event to each sink in order. Nil sinks are skipped.
type Fanout []Sink

func (f Fanout) Emit(e Event) {
	for _, s := range f {
		if s != nil {
			s.Emit(e)
		}
	}
}
