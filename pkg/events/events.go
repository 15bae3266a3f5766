// Package events carries change notifications out of the interaction core.
//
// A transform session emits one [Event] per entity geometry write and one per
// gesture lifecycle step (begin, commit, cancel). Sinks decide what to do with
// them:
//
//   - [Buffer] keeps them in memory for tests and the debug server
//   - [LogSink] writes them through a charm logger
//   - [Fanout] forwards to several sinks
//   - [RedisPublisher] queues them and appends them to a capped Redis stream
//
// Emitting never fails and never blocks on I/O. Sinks that talk to the network
// queue in [Sink.Emit] and do the I/O in an explicit flush.
package events

import (
	"fmt"
	"strings"

	"github.com/matzehuels/vectorcad/pkg/entity"
)

// Type identifies what happened.
type Type uint8

const (
	EntityChanged Type = iota + 1
	EntityCreated
	EntityDeleted
	GestureBegin
	GestureCommit
	GestureCancel
)

var typeNames = map[Type]string{
	EntityChanged: "entity_changed",
	EntityCreated: "entity_created",
	EntityDeleted: "entity_deleted",
	GestureBegin:  "gesture_begin",
	GestureCommit: "gesture_commit",
	GestureCancel: "gesture_cancel",
}

func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("type(%d)", uint8(t))
}

// MarshalText encodes the type by name.
func (t Type) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// UnmarshalText decodes a type name.
func (t *Type) UnmarshalText(b []byte) error {
	s := strings.TrimSpace(string(b))
	for k, name := range typeNames {
		if name == s {
			*t = k
			return nil
		}
	}
	return fmt.Errorf("unknown event type %q", s)
}

// ChangeMask says which aspects of an entity changed.
type ChangeMask uint32

const (
	ChangeGeometry ChangeMask = 1 << iota
	ChangeBounds
)

// GeometryChange is the mask every transform write carries.
const GeometryChange = ChangeGeometry | ChangeBounds

// Event is one notification.
type Event struct {
	Type Type `json:"type"`
	// Gesture is the id of the transform session that caused the event.
	Gesture string      `json:"gesture,omitempty"`
	Mode    string      `json:"mode,omitempty"`
	ID      entity.ID   `json:"id,omitempty"`
	IDs     []entity.ID `json:"ids,omitempty"`
	Mask    ChangeMask  `json:"mask,omitempty"`
}

// Sink receives events.
type Sink interface {
	Emit(e Event)
}

// Discard drops every event.
var Discard Sink = discard{}

type discard struct{}

func (discard) Emit(Event) {}
