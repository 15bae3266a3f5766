package interaction

import (
	"slices"
	"time"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/vectorcad/pkg/entity"
	"github.com/matzehuels/vectorcad/pkg/events"
	"github.com/matzehuels/vectorcad/pkg/geom"
	"github.com/matzehuels/vectorcad/pkg/observability"
)

// =============================================================================
// Commit
// =============================================================================

// Commit makes the current geometry authoritative, closes the history
// transaction and returns one result per participant. A gesture that never
// crossed the drag threshold changes nothing and returns nil.
func (s *Session) Commit() []Result {
	if !s.g.active {
		return nil
	}
	s.recordMarker(LogCommit)
	s.clearFrame()

	if !s.g.dragging {
		if s.g.historyOpen {
			s.history.DiscardEntry()
		}
		s.results = nil
		s.logger.Debug("gesture discarded", "gesture", s.g.id, "mode", s.g.mode)
		s.emit(events.Event{Type: events.GestureCancel, IDs: s.Participants()})
		observability.Transform().OnCancel(s.g.mode.String())
		s.reset()
		return nil
	}

	results := s.collectResults()
	if s.g.historyOpen {
		s.history.CommitEntry()
	}
	s.store.BumpGeneration()
	s.store.MarkSnapshotDirty()

	ids := s.Participants()
	s.emit(events.Event{Type: events.GestureCommit, IDs: ids})
	observability.Transform().OnCommit(s.g.mode.String(), len(ids), time.Since(s.g.began))
	s.logger.Debug("gesture commit", "gesture", s.g.id, "mode", s.g.mode, "ids", ids, "results", len(results))

	s.results = results
	s.reset()
	return slices.Clone(results)
}

func (s *Session) collectResults() []Result {
	out := make([]Result, 0, len(s.g.snapshots))
	for _, snapshot := range s.g.snapshots {
		e, ok := s.store.Entity(snapshot.ID)
		if !ok {
			continue
		}
		cur := e.Geometry
		res := Result{ID: snapshot.ID}

		switch s.g.mode {
		case Move, EdgeDrag:
			d := r2.Sub(cur.Origin(), snapshot.Geometry.Origin())
			res.Op = OpMove
			res.Payload = [4]float64{d.X, d.Y, 0, 0}

		case VertexDrag:
			ve, ok := cur.(entity.VertexEditable)
			if !ok || snapshot.ID != s.g.specificID {
				continue
			}
			verts := ve.Vertices()
			if s.g.handle < 0 || s.g.handle >= len(verts) {
				continue
			}
			p := verts[s.g.handle]
			res.Op = OpVertexSet
			res.Payload = [4]float64{float64(s.g.handle), p.X, p.Y, 0}

		case Resize, SideResize:
			res.Op = OpResize
			if s.g.mode == SideResize {
				res.Op = OpSideResize
			}
			res.Payload = extentOf(cur)

		case Rotate:
			r, ok := cur.(entity.Rotatable)
			if !ok {
				continue
			}
			c := r.Center()
			res.Op = OpRotate
			res.Payload = [4]float64{geom.Degrees(r.Rotation()), c.X, c.Y, 0}
		}
		out = append(out, res)
	}
	return out
}

// extentOf reports x, y, w, h for a resize result. Geometry without a frame
// reports its bounds.
func extentOf(g entity.Geometry) [4]float64 {
	if r, ok := g.(entity.Resizable); ok {
		x, y, w, h := r.Extent()
		return [4]float64{x, y, w, h}
	}
	b := g.Bounds()
	return [4]float64{b.Min.X, b.Min.Y, b.Max.X - b.Min.X, b.Max.Y - b.Min.Y}
}

// =============================================================================
// Cancel
// =============================================================================

// Cancel restores every participant to its pre-gesture geometry, discards the
// history transaction and returns to idle. Duplicates created by Alt-drag
// are deleted and the id allocator and selection are restored.
func (s *Session) Cancel() {
	if !s.g.active {
		return
	}
	s.recordMarker(LogCancel)
	s.clearFrame()

	if s.g.historyOpen {
		s.history.DiscardEntry()
	}

	if s.g.duplicated {
		prev := s.history.Suppressed()
		s.history.SetSuppressed(true)
		for _, snapshot := range s.g.snapshots {
			s.removeEntity(snapshot.ID)
		}
		s.history.SetSuppressed(prev)
		for _, snapshot := range s.g.originals {
			s.write(snapshot.ID, snapshot.Geometry.Clone())
		}
		s.store.SetNextID(s.g.nextIDBefore)
		s.store.SetSelection(s.g.selectionBefore)
	} else if s.g.dragging {
		for _, snapshot := range s.g.snapshots {
			s.write(snapshot.ID, snapshot.Geometry.Clone())
		}
	}

	// Below the drag threshold nothing was written.
	if s.g.dragging || s.g.duplicated {
		s.store.BumpGeneration()
	}
	s.store.MarkSnapshotDirty()
	s.results = nil

	s.emit(events.Event{Type: events.GestureCancel, IDs: s.Participants()})
	observability.Transform().OnCancel(s.g.mode.String())
	s.logger.Debug("gesture cancel", "gesture", s.g.id, "mode", s.g.mode)
	s.reset()
}

func (s *Session) removeEntity(id entity.ID) {
	if !s.store.Delete(id) {
		return
	}
	s.index.Remove(id)
	s.emit(events.Event{Type: events.EntityDeleted, ID: id})
}

// =============================================================================
// Alt-drag duplication
// =============================================================================

// duplicate replaces the participants with fresh copies placed at the
// pre-gesture geometry. Originals are restored and stay behind. On failure
// every copy made so far is removed and the originals keep moving.
func (s *Session) duplicate() bool {
	selBefore := s.store.Selection()
	nextBefore := s.store.NextID()
	s.history.MarkSelectionChange()

	clones := make([]Snapshot, 0, len(s.g.snapshots))
	rollback := func() {
		for _, c := range clones {
			s.removeEntity(c.ID)
		}
		s.store.SetNextID(nextBefore)
		s.store.SetSelection(selBefore)
	}

	for _, snapshot := range s.g.snapshots {
		src, ok := s.store.Entity(snapshot.ID)
		if !ok {
			rollback()
			return false
		}
		id := s.store.AllocateID()
		s.history.MarkEntityChange(id)
		dup := src.Clone()
		dup.ID = id
		dup.Geometry = snapshot.Geometry.Clone()
		if err := s.store.Insert(dup); err != nil {
			s.logger.Warn("duplicate", "id", snapshot.ID, "err", err)
			rollback()
			return false
		}
		s.index.Update(id, dup.Geometry.Bounds())
		s.emit(events.Event{Type: events.EntityCreated, ID: id})
		clones = append(clones, Snapshot{ID: id, Geometry: snapshot.Geometry.Clone()})
	}

	for _, snapshot := range s.g.snapshots {
		s.write(snapshot.ID, snapshot.Geometry.Clone())
	}

	s.g.originals = s.g.snapshots
	s.g.snapshots = clones
	s.g.slot = make(map[entity.ID]int, len(clones))
	ids := make([]entity.ID, len(clones))
	for i, c := range clones {
		s.g.slot[c.ID] = i
		ids[i] = c.ID
	}
	s.g.selectionBefore = selBefore
	s.g.nextIDBefore = nextBefore
	s.g.duplicated = true
	s.store.SetSelection(ids)
	s.logger.Debug("gesture duplicate", "gesture", s.g.id, "ids", ids)
	return true
}
