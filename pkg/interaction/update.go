package interaction

import (
	"math"
	"time"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/vectorcad/pkg/entity"
	"github.com/matzehuels/vectorcad/pkg/geom"
	"github.com/matzehuels/vectorcad/pkg/observability"
	"github.com/matzehuels/vectorcad/pkg/snap"
)

// frame is the input of one update after threshold gating.
type frame struct {
	screen      r2.Vec
	screenDelta r2.Vec
	// world is the pointer in world space, grid-snapped unless suppressed.
	world r2.Vec
	// total is world minus the gesture start.
	total        r2.Vec
	view         geom.View
	mods         Modifiers
	dragStarted  bool
	snapDisabled bool
}

// Update applies the pointer position to the active gesture. It does
// nothing when idle or while the pointer is within the drag threshold of
// the start point.
func (s *Session) Update(screen r2.Vec, view geom.View, mods Modifiers) {
	if !s.g.active {
		return
	}
	s.clearFrame()
	s.recordUpdate(screen, view, mods)

	started := time.Now()
	var candidates, hits int
	defer func() {
		s.stats = Stats{LastUpdate: time.Since(started), SnapCandidates: candidates, SnapHits: hits}
	}()

	f := frame{
		screen:       screen,
		screenDelta:  r2.Sub(screen, s.g.startScreen),
		view:         view,
		mods:         mods,
		snapDisabled: mods.SnapSuppressed(),
	}
	if !s.g.dragging {
		thr := s.cfg.DragThresholdPx
		if r2.Norm2(f.screenDelta) < thr*thr {
			return
		}
		s.g.dragging = true
		f.dragStarted = true
	}

	f.world = view.ToWorld(screen)
	if !f.snapDisabled {
		f.world = snap.Grid(f.world, s.snapOpts)
	}
	f.total = r2.Sub(f.world, s.g.startWorld)

	var updated bool
	switch s.g.mode {
	case Move, EdgeDrag:
		updated, candidates, hits = s.updateMove(f)
	case VertexDrag:
		updated = s.updateVertex(f)
	case Resize:
		if len(s.g.snapshots) > 1 {
			updated = s.updateGroupResize(f)
		} else {
			updated = s.updateResize(f)
		}
	case SideResize:
		if len(s.g.snapshots) > 1 {
			updated = s.updateGroupSideResize(f)
		} else {
			updated = s.updateSideResize(f)
		}
	case Rotate:
		updated = s.updateRotate(f)
	}

	if updated {
		s.store.BumpGeneration()
	}
	observability.Transform().OnUpdate(s.g.mode.String(), time.Since(started), candidates, hits)
}

// =============================================================================
// Move
// =============================================================================

func (s *Session) updateMove(f frame) (updated bool, candidates, hits int) {
	if f.dragStarted && f.mods.Has(Alt) && !s.g.duplicated {
		s.duplicate()
	}

	s.updateAxisLock(f)
	total := f.total
	switch s.g.axisLock {
	case AxisX:
		total.Y = 0
	case AxisY:
		total.X = 0
	}

	if !f.snapDisabled {
		res := snap.Object(snap.Query{
			Base:   s.g.base,
			Delta:  total,
			Moving: s.Participants(),
			View:   f.view,
			AllowX: s.g.axisLock != AxisY,
			AllowY: s.g.axisLock != AxisX,
		}, s.snapOpts, s.index, s.store)

		candidates = res.Candidates
		s.hits = res.Hits
		s.guides = res.Guides
		if res.SnappedX {
			total.X += res.Delta.X
			hits++
		}
		if res.SnappedY {
			total.Y += res.Delta.Y
			hits++
		}
	}

	for _, snapshot := range s.g.snapshots {
		m, ok := snapshot.Geometry.(entity.Movable)
		if !ok {
			continue
		}
		if s.write(snapshot.ID, m.Translate(total)) {
			updated = true
		}
	}
	return updated, candidates, hits
}

// updateAxisLock enters, switches or clears the move axis lock. Entering a
// lock needs a clearer dominance than switching between axes.
func (s *Session) updateAxisLock(f frame) {
	if !f.mods.Has(Shift) && !s.ortho {
		s.g.axisLock = AxisNone
		return
	}
	ax, ay := math.Abs(f.screenDelta.X), math.Abs(f.screenDelta.Y)
	if max(ax, ay) < s.cfg.AxisLockMinDeltaPx {
		return
	}
	switch s.g.axisLock {
	case AxisNone:
		if ax >= ay*s.cfg.AxisLockEnterRatio {
			s.g.axisLock = AxisX
		} else if ay >= ax*s.cfg.AxisLockEnterRatio {
			s.g.axisLock = AxisY
		}
	case AxisX:
		if ay >= ax*s.cfg.AxisLockSwitchRatio {
			s.g.axisLock = AxisY
		}
	case AxisY:
		if ax >= ay*s.cfg.AxisLockSwitchRatio {
			s.g.axisLock = AxisX
		}
	}
}

// =============================================================================
// Vertex drag
// =============================================================================

func (s *Session) updateVertex(f frame) bool {
	i, ok := s.g.slot[s.g.specificID]
	if !ok {
		return false
	}
	ve, ok := s.g.snapshots[i].Geometry.(entity.VertexEditable)
	if !ok {
		return false
	}
	verts := ve.Vertices()
	idx := s.g.handle
	if idx < 0 || idx >= len(verts) {
		return false
	}

	delta := f.total
	if f.mods.Has(Shift) {
		if a, ok := ve.AngleAnchor(idx); ok {
			step := geom.Radians(s.cfg.VertexSnapDegrees)
			if p, ok := geom.SnapDirection(verts[a], f.world, step); ok {
				delta = r2.Sub(p, verts[idx])
			}
		}
	}
	return s.write(s.g.specificID, ve.WithVertex(idx, r2.Add(verts[idx], delta)))
}

// =============================================================================
// Rotate
// =============================================================================

func angleDeg(pivot, p r2.Vec) float64 {
	return geom.Degrees(math.Atan2(p.Y-pivot.Y, p.X-pivot.X))
}

// updateRotate accumulates the frame-to-frame angle so the gesture can turn
// through any number of revolutions. Angles are measured from the unsnapped
// pointer.
func (s *Session) updateRotate(f frame) bool {
	current := angleDeg(s.g.pivot, f.view.ToWorld(f.screen))
	s.g.rotationDeg += geom.WrapDegrees(current - s.g.lastAngle)
	s.g.lastAngle = current

	total := s.g.rotationDeg
	if f.mods.Has(Shift) {
		total = geom.RoundTo(total, s.cfg.RotationSnapDegrees)
	}
	delta := geom.Radians(total)
	orbit := len(s.g.snapshots) > 1

	updated := false
	for _, snapshot := range s.g.snapshots {
		r, ok := snapshot.Geometry.(entity.Rotatable)
		if !ok {
			continue
		}
		if s.write(snapshot.ID, r.RotateAbout(s.g.pivot, delta, orbit)) {
			updated = true
		}
	}
	return updated
}
