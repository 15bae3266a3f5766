package interaction

import (
	"slices"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/vectorcad/pkg/entity"
	"github.com/matzehuels/vectorcad/pkg/errors"
	"github.com/matzehuels/vectorcad/pkg/geom"
	"github.com/matzehuels/vectorcad/pkg/snap"
)

// Default transform log capacity.
const (
	DefaultLogMaxEntries = 4096
	DefaultLogMaxIDs     = 16384
)

// LogType identifies a transform log entry.
type LogType uint8

const (
	LogBegin LogType = iota + 1
	LogUpdate
	LogCommit
	LogCancel
)

var logTypeNames = map[LogType]string{
	LogBegin:  "begin",
	LogUpdate: "update",
	LogCommit: "commit",
	LogCancel: "cancel",
}

func (t LogType) String() string {
	if n, ok := logTypeNames[t]; ok {
		return n
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (t LogType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *LogType) UnmarshalText(b []byte) error {
	for k, name := range logTypeNames {
		if name == string(b) {
			*t = k
			return nil
		}
	}
	return errors.New(errors.ErrCodeInvalidFormat, "unknown log entry type %q", b)
}

// LogEntry is one recorded session call together with the ambient snap and
// ortho settings in effect when it was made. Begin entries reference their
// ids as a range of [Session.LogIDs].
type LogEntry struct {
	Type       LogType      `json:"type"`
	Mode       Mode         `json:"mode"`
	IDOffset   int          `json:"id_offset"`
	IDCount    int          `json:"id_count"`
	SpecificID entity.ID    `json:"specific_id,omitempty"`
	Handle     int          `json:"handle"`
	Screen     r2.Vec       `json:"screen"`
	Modifiers  Modifiers    `json:"modifiers"`
	View       geom.View    `json:"view"`
	Snap       snap.Options `json:"snap"`
	Ortho      bool         `json:"ortho"`
}

type transformLog struct {
	enabled    bool
	maxEntries int
	maxIDs     int
	overflowed bool
	entries    []LogEntry
	ids        []entity.ID
	lastView   geom.View
}

// SetLogEnabled turns the transform log on or off and sets its capacity.
// Non-positive limits select the defaults. Changing the setting clears the
// log.
func (s *Session) SetLogEnabled(enabled bool, maxEntries, maxIDs int) {
	if maxEntries <= 0 {
		maxEntries = DefaultLogMaxEntries
	}
	if maxIDs <= 0 {
		maxIDs = DefaultLogMaxIDs
	}
	s.log = transformLog{enabled: enabled, maxEntries: maxEntries, maxIDs: maxIDs}
}

// LogEnabled reports whether the transform log records.
func (s *Session) LogEnabled() bool { return s.log.enabled }

// ClearLog drops every recorded entry and resets the overflow flag.
func (s *Session) ClearLog() {
	s.log.entries = s.log.entries[:0]
	s.log.ids = s.log.ids[:0]
	s.log.overflowed = false
}

// LogEntries returns the recorded entries of the last gesture.
func (s *Session) LogEntries() []LogEntry { return slices.Clone(s.log.entries) }

// LogIDs returns the id table referenced by begin entries.
func (s *Session) LogIDs() []entity.ID { return slices.Clone(s.log.ids) }

// LogOverflowed reports whether the last gesture outgrew the log. Recording
// stops at the overflow and resumes on the next begin.
func (s *Session) LogOverflowed() bool { return s.log.overflowed }

func (s *Session) recording() bool {
	return s.log.enabled && !s.replaying && !s.log.overflowed
}

func (s *Session) recordBegin(p BeginParams) {
	if !s.log.enabled || s.replaying {
		return
	}
	s.ClearLog()
	ids := s.Participants()
	if len(ids) > s.log.maxIDs {
		s.log.overflowed = true
		return
	}
	s.log.ids = append(s.log.ids, ids...)
	s.log.lastView = p.View
	s.append(LogEntry{
		Type:       LogBegin,
		Mode:       p.Mode,
		IDCount:    len(ids),
		SpecificID: p.SpecificID,
		Handle:     p.Handle,
		Screen:     p.Screen,
		Modifiers:  p.Modifiers,
		View:       p.View,
	})
}

func (s *Session) recordUpdate(screen r2.Vec, view geom.View, mods Modifiers) {
	if !s.recording() {
		return
	}
	s.log.lastView = view
	s.append(LogEntry{
		Type:      LogUpdate,
		Mode:      s.g.mode,
		Screen:    screen,
		Modifiers: mods,
		View:      view,
	})
}

func (s *Session) recordMarker(t LogType) {
	if !s.recording() {
		return
	}
	s.append(LogEntry{Type: t, Mode: s.g.mode, View: s.log.lastView})
}

func (s *Session) append(e LogEntry) {
	if len(s.log.entries) >= s.log.maxEntries {
		s.log.overflowed = true
		s.logger.Warn("transform log overflow", "gesture", s.g.id, "max_entries", s.log.maxEntries)
		return
	}
	e.Snap = s.snapOpts
	e.Ortho = s.ortho
	s.log.entries = append(s.log.entries, e)
}

// Replay re-runs the recorded gesture against the current store. Each call
// sees the snap and ortho settings recorded with it; the caller's settings
// are restored afterwards. Nothing is recorded while replaying. A log that
// ends before commit or cancel leaves the replayed gesture active.
func (s *Session) Replay() error {
	switch {
	case s.g.active:
		return errors.New(errors.ErrCodeConflict, "cannot replay while a gesture is active")
	case s.log.overflowed:
		return errors.New(errors.ErrCodeLogOverflow, "transform log overflowed")
	case len(s.log.entries) == 0:
		return errors.New(errors.ErrCodeReplayUnavailable, "transform log is empty")
	case s.log.entries[0].Type != LogBegin:
		return errors.New(errors.ErrCodeReplayUnavailable, "transform log does not start with begin")
	}

	entries := slices.Clone(s.log.entries)
	ids := slices.Clone(s.log.ids)

	prevSnap, prevOrtho := s.snapOpts, s.ortho
	s.replaying = true
	defer func() {
		s.snapOpts, s.ortho = prevSnap, prevOrtho
		s.replaying = false
	}()

	for i, e := range entries {
		s.snapOpts, s.ortho = e.Snap, e.Ortho
		switch e.Type {
		case LogBegin:
			end := e.IDOffset + e.IDCount
			if e.IDOffset < 0 || end > len(ids) {
				return errors.New(errors.ErrCodeReplayUnavailable, "entry %d: id range [%d,%d) out of bounds", i, e.IDOffset, end)
			}
			s.Begin(BeginParams{
				IDs:        ids[e.IDOffset:end],
				Mode:       e.Mode,
				SpecificID: e.SpecificID,
				Handle:     e.Handle,
				Screen:     e.Screen,
				View:       e.View,
				Modifiers:  e.Modifiers,
			})
		case LogUpdate:
			s.Update(e.Screen, e.View, e.Modifiers)
		case LogCommit:
			s.Commit()
		case LogCancel:
			s.Cancel()
		}
	}
	s.logger.Debug("transform log replayed", "entries", len(entries))
	return nil
}
