package interaction

import (
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/vectorcad/pkg/entity"
	"github.com/matzehuels/vectorcad/pkg/events"
	"github.com/matzehuels/vectorcad/pkg/geom"
	"github.com/matzehuels/vectorcad/pkg/observability"
	"github.com/matzehuels/vectorcad/pkg/snap"
)

// Session is the transform state machine. At most one gesture is active at
// a time; [Session.Begin] while active does nothing.
//
// The zero value is not usable; call [New]. Session is not safe for
// concurrent use.
type Session struct {
	store   Store
	index   PickIndex
	history HistoryRecorder
	sink    EventSink
	text    TextSystem
	logger  *log.Logger
	cfg     Config

	snapOpts snap.Options
	ortho    bool

	g gesture

	results []Result
	stats   Stats
	guides  []snap.Guide
	hits    []snap.Hit

	log       transformLog
	replaying bool
}

// gesture is the per-gesture state. It is replaced wholesale on begin and
// zeroed on commit and cancel.
type gesture struct {
	active bool
	id     uuid.UUID
	mode   Mode
	began  time.Time

	snapshots []Snapshot
	slot      map[entity.ID]int

	specificID entity.ID
	handle     int

	startScreen r2.Vec
	startWorld  r2.Vec
	dragging    bool
	axisLock    AxisLock

	// Local-space resize anchor, captured once at begin.
	anchor      r2.Vec
	anchorValid bool
	baseSize    r2.Vec
	aspect      float64

	base r2.Box

	pivot       r2.Vec
	lastAngle   float64
	rotationDeg float64

	duplicated      bool
	originals       []Snapshot
	selectionBefore []entity.ID
	nextIDBefore    entity.ID

	historyOpen bool
}

// Option configures a Session.
type Option func(*Session)

// WithHistory sets the undo recorder.
func WithHistory(h HistoryRecorder) Option { return func(s *Session) { s.history = h } }

// WithEvents sets the event sink.
func WithEvents(sink EventSink) Option { return func(s *Session) { s.sink = sink } }

// WithTextSystem sets the collaborator notified when text entities move.
func WithTextSystem(t TextSystem) Option { return func(s *Session) { s.text = t } }

// WithLogger sets the logger. A nil logger discards output.
func WithLogger(l *log.Logger) Option { return func(s *Session) { s.logger = l } }

// WithConfig sets gesture tuning. Unset fields keep their defaults.
func WithConfig(c Config) Option { return func(s *Session) { s.cfg = c.withDefaults() } }

// WithSnapOptions sets the initial snapping options.
func WithSnapOptions(o snap.Options) Option { return func(s *Session) { s.snapOpts = o } }

// WithOrtho turns persistent axis lock on.
func WithOrtho(on bool) Option { return func(s *Session) { s.ortho = on } }

// New creates an idle session over store and index.
func New(store Store, index PickIndex, opts ...Option) *Session {
	s := &Session{
		store:    store,
		index:    index,
		cfg:      DefaultConfig(),
		snapOpts: snap.DefaultOptions(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.history == nil {
		s.history = &noHistory{}
	}
	if s.sink == nil {
		s.sink = events.Discard
	}
	if s.logger == nil {
		s.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return s
}

// =============================================================================
// Ambient options
// =============================================================================

// SnapOptions returns the current snapping options.
func (s *Session) SnapOptions() snap.Options { return s.snapOpts }

// SetSnapOptions replaces the snapping options.
func (s *Session) SetSnapOptions(o snap.Options) { s.snapOpts = o }

// Ortho reports whether persistent axis lock is on.
func (s *Session) Ortho() bool { return s.ortho }

// SetOrtho turns persistent axis lock on or off.
func (s *Session) SetOrtho(on bool) { s.ortho = on }

// Config returns the gesture tuning.
func (s *Session) Config() Config { return s.cfg }

// =============================================================================
// Begin
// =============================================================================

// BeginParams describes the gesture to start.
type BeginParams struct {
	// IDs are the entities to transform. When empty, the store's selection
	// is used.
	IDs  []entity.ID
	Mode Mode
	// SpecificID is the entity whose handle was grabbed, or zero.
	SpecificID entity.ID
	// Handle is the corner (Resize), side (SideResize) or vertex
	// (VertexDrag) index. Other modes ignore it.
	Handle    int
	Screen    r2.Vec
	View      geom.View
	Modifiers Modifiers
}

// Begin starts a gesture. It reports false when a gesture is already active
// or no participant survives the pickability check; in both cases nothing
// changes.
func (s *Session) Begin(p BeginParams) bool {
	if s.g.active {
		return false
	}
	s.clearFrame()
	s.stats = Stats{}

	ids := s.resolve(p)
	if len(ids) == 0 {
		return false
	}

	g := gesture{
		active:       true,
		id:           uuid.New(),
		mode:         p.Mode,
		began:        time.Now(),
		slot:         make(map[entity.ID]int, len(ids)),
		specificID:   p.SpecificID,
		handle:       p.Handle,
		startScreen:  p.Screen,
		startWorld:   p.View.ToWorld(p.Screen),
		nextIDBefore: s.store.NextID(),
	}

	hasBox := false
	for _, id := range ids {
		e, _ := s.store.Entity(id)
		g.slot[id] = len(g.snapshots)
		g.snapshots = append(g.snapshots, Snapshot{ID: id, Geometry: e.Geometry.Clone()})
		if hasBox {
			g.base = geom.Union(g.base, e.Geometry.Bounds())
		} else {
			g.base, hasBox = e.Geometry.Bounds(), true
		}
	}
	if !hasBox {
		g.base = r2.Box{Min: g.startWorld, Max: g.startWorld}
	}

	switch p.Mode {
	case Resize:
		g.setupCornerAnchor()
	case SideResize:
		g.setupSideAnchor()
	case Rotate:
		g.pivot = g.base.Center()
		g.lastAngle = angleDeg(g.pivot, g.startWorld)
	}

	s.g = g
	s.recordBegin(p)

	if s.history.BeginEntry() {
		s.g.historyOpen = true
		for _, id := range ids {
			s.history.MarkEntityChange(id)
		}
	}

	s.emit(events.Event{Type: events.GestureBegin, IDs: slices.Clone(ids)})
	observability.Transform().OnBegin(p.Mode.String(), len(ids))
	s.logger.Debug("gesture begin", "gesture", s.g.id, "mode", p.Mode, "ids", ids)
	return true
}

// resolve picks the participating ids. Resize and Rotate on a multi-entity
// selection use the whole selection, as does SideResize on the union box
// (no specific id). Handle modes with a specific id use only that id and
// abort if it is not pickable.
func (s *Session) resolve(p BeginParams) []entity.ID {
	sel := s.store.Selection()

	var ids []entity.ID
	switch {
	case p.groups() && (len(sel) > 1 || len(p.IDs) > 1):
		ids = p.IDs
		if len(sel) > 1 {
			ids = sel
		}
	case !p.Mode.translates() && p.SpecificID != 0:
		if !s.store.IsPickable(p.SpecificID) {
			return nil
		}
		return []entity.ID{p.SpecificID}
	default:
		ids = p.IDs
		if len(ids) == 0 {
			ids = sel
		}
	}

	out := make([]entity.ID, 0, len(ids))
	seen := make(map[entity.ID]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup || !s.store.IsPickable(id) {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// groups reports whether the gesture transforms a multi-entity selection as
// one. A side handle grabbed on a specific entity resizes that entity alone.
func (p BeginParams) groups() bool {
	switch p.Mode {
	case Resize, Rotate:
		return true
	case SideResize:
		return p.SpecificID == 0
	}
	return false
}

// resizable returns the snapshot of the grabbed entity when it has a
// rotated frame.
func (g *gesture) resizable() (entity.Geometry, entity.Resizable, bool) {
	i, ok := g.slot[g.specificID]
	if !ok {
		return nil, nil, false
	}
	geo := g.snapshots[i].Geometry
	r, ok := geo.(entity.Resizable)
	return geo, r, ok
}

func (g *gesture) setupCornerAnchor() {
	if g.handle < CornerBottomLeft || g.handle > CornerTopLeft {
		return
	}
	_, r, ok := g.resizable()
	if !ok {
		return
	}
	center, half, rot := r.Frame()
	g.setBase(half)
	local := geom.Frame{Center: center, Rotation: rot}.ToLocal(g.startWorld)
	g.anchor = r2.Vec{X: half.X, Y: half.Y}
	if local.X >= 0 {
		g.anchor.X = -half.X
	}
	if local.Y >= 0 {
		g.anchor.Y = -half.Y
	}
	g.anchorValid = true
}

func (g *gesture) setupSideAnchor() {
	if g.handle < SideSouth || g.handle > SideWest {
		return
	}
	_, r, ok := g.resizable()
	if !ok {
		return
	}
	_, half, _ := r.Frame()
	g.setBase(half)
	switch g.handle {
	case SideSouth:
		g.anchor = r2.Vec{Y: -half.Y}
	case SideEast:
		g.anchor = r2.Vec{X: -half.X}
	case SideNorth:
		g.anchor = r2.Vec{Y: half.Y}
	case SideWest:
		g.anchor = r2.Vec{X: half.X}
	}
	g.anchorValid = true
}

func (g *gesture) setBase(half r2.Vec) {
	g.baseSize = r2.Vec{
		X: max(geom.Epsilon, 2*half.X),
		Y: max(geom.Epsilon, 2*half.Y),
	}
	g.aspect = g.baseSize.X / g.baseSize.Y
}

// =============================================================================
// Introspection
// =============================================================================

// Active reports whether a gesture is in progress.
func (s *Session) Active() bool { return s.g.active }

// Dragging reports whether the active gesture crossed the drag threshold.
func (s *Session) Dragging() bool { return s.g.active && s.g.dragging }

// State returns the externally visible state.
func (s *Session) State() State {
	if !s.g.active {
		return State{}
	}
	return State{
		Active:           true,
		Mode:             s.g.mode,
		Pivot:            s.g.pivot,
		RotationDeltaDeg: s.g.rotationDeg,
	}
}

// GestureID returns the id of the active gesture, or the nil UUID.
func (s *Session) GestureID() uuid.UUID { return s.g.id }

// Participants returns the ids the active gesture transforms.
func (s *Session) Participants() []entity.ID {
	out := make([]entity.ID, len(s.g.snapshots))
	for i, snap := range s.g.snapshots {
		out[i] = snap.ID
	}
	return out
}

// Snapshots returns the pre-gesture geometry of every participant.
func (s *Session) Snapshots() []Snapshot { return slices.Clone(s.g.snapshots) }

// AxisLock returns the current move axis lock.
func (s *Session) AxisLock() AxisLock { return s.g.axisLock }

// Handle returns the active corner, side or vertex index. Corner resize
// re-derives it on every update.
func (s *Session) Handle() int { return s.g.handle }

// Results returns the records written by the last commit.
func (s *Session) Results() []Result { return slices.Clone(s.results) }

// Stats returns statistics of the most recent update.
func (s *Session) Stats() Stats { return s.stats }

// SnapGuides returns the guide segments of the most recent update.
func (s *Session) SnapGuides() []snap.Guide { return slices.Clone(s.guides) }

// SnapHits returns the feature hits of the most recent update.
func (s *Session) SnapHits() []snap.Hit { return slices.Clone(s.hits) }

// =============================================================================
// Helpers
// =============================================================================

func (s *Session) clearFrame() {
	s.guides = nil
	s.hits = nil
}

// write stores g for id, refreshes the pick index and reports the change.
func (s *Session) write(id entity.ID, g entity.Geometry) bool {
	if g == nil || !s.store.SetGeometry(id, g) {
		return false
	}
	s.index.Update(id, g.Bounds())
	if g.Kind() == entity.KindText && s.text != nil {
		s.text.MarkTextDirty(id)
	}
	s.emit(events.Event{Type: events.EntityChanged, ID: id, Mask: events.GeometryChange})
	return true
}

func (s *Session) emit(e events.Event) {
	if s.g.id != uuid.Nil {
		e.Gesture = s.g.id.String()
	}
	e.Mode = s.g.mode.String()
	s.sink.Emit(e)
}

func (s *Session) reset() {
	s.g = gesture{}
}
