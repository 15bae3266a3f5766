// Package history records undoable edits as before/after snapshots.
//
// An edit is bracketed by [Manager.BeginEntry] and either
// [Manager.CommitEntry] or [Manager.DiscardEntry]. Between the two, producers
// call [Manager.MarkEntityChange] for every entity they are about to touch;
// the first mark of an id captures its "before" record, later marks of the
// same id are ignored. Commit captures the "after" records, drops everything
// that did not change and appends a single entry, truncating the redo tail.
//
// Undo and redo write snapshots back through the [Target] with recording
// suppressed, refresh the pick index and bump the document generation.
package history

import (
	"cmp"
	"io"
	"slices"

	"github.com/charmbracelet/log"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/vectorcad/pkg/entity"
	"github.com/matzehuels/vectorcad/pkg/observability"
)

// DefaultLimit is the number of entries kept before the oldest is dropped.
const DefaultLimit = 256

// Target is the document state history reads and restores.
// It is satisfied by *document.Document.
type Target interface {
	Entity(id entity.ID) (entity.Entity, bool)
	Put(e entity.Entity) error
	Delete(id entity.ID) bool
	Selection() []entity.ID
	SetSelection(ids []entity.ID)
	DrawOrder() []entity.ID
	SetDrawOrder(order []entity.ID)
	NextID() entity.ID
	SetNextID(id entity.ID)
	Generation() uint64
	BumpGeneration()
}

// Indexer is refreshed after undo and redo. It is satisfied by *pick.Index.
type Indexer interface {
	Update(id entity.ID, box r2.Box)
	Remove(id entity.ID)
	SetOrder(order []entity.ID)
}

// EntityChange is the before/after pair of one entity. A missing side is
// recorded with Existed* = false and a zero record.
type EntityChange struct {
	ID            entity.ID     `json:"id"`
	ExistedBefore bool          `json:"existed_before"`
	ExistedAfter  bool          `json:"existed_after"`
	Before        entity.Entity `json:"-"`
	After         entity.Entity `json:"-"`
}

// Entry is one undoable step.
type Entry struct {
	Entities []EntityChange `json:"entities"`

	HasSelection    bool        `json:"has_selection"`
	SelectionBefore []entity.ID `json:"selection_before,omitempty"`
	SelectionAfter  []entity.ID `json:"selection_after,omitempty"`

	HasDrawOrder    bool        `json:"has_draw_order"`
	DrawOrderBefore []entity.ID `json:"draw_order_before,omitempty"`
	DrawOrderAfter  []entity.ID `json:"draw_order_after,omitempty"`

	NextIDBefore entity.ID `json:"next_id_before"`
	NextIDAfter  entity.ID `json:"next_id_after"`

	// Generation is the document generation when the entry was committed.
	Generation uint64 `json:"generation"`
}

func (e *Entry) empty() bool {
	return len(e.Entities) == 0 && !e.HasSelection && !e.HasDrawOrder
}

// Manager is the undo/redo stack for one document.
//
// The zero value is not usable; call [New]. Manager is not safe for
// concurrent use.
type Manager struct {
	target Target
	index  Indexer
	logger *log.Logger
	limit  int

	entries []Entry
	cursor  int

	active     bool
	suppressed bool
	pending    Entry
	marked     map[entity.ID]int
}

// Option configures a Manager.
type Option func(*Manager)

// WithIndex sets the pick index refreshed by undo and redo.
func WithIndex(ix Indexer) Option { return func(m *Manager) { m.index = ix } }

// WithLogger sets the logger. A nil logger discards output.
func WithLogger(l *log.Logger) Option { return func(m *Manager) { m.logger = l } }

// WithLimit caps the number of stored entries. Non-positive values keep
// [DefaultLimit].
func WithLimit(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.limit = n
		}
	}
}

// New creates a history for target.
func New(target Target, opts ...Option) *Manager {
	m := &Manager{
		target: target,
		limit:  DefaultLimit,
		marked: make(map[entity.ID]int),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return m
}

// =============================================================================
// Transactions
// =============================================================================

// BeginEntry opens a transaction. It reports false when recording is
// suppressed or a transaction is already open.
func (m *Manager) BeginEntry() bool {
	if m.suppressed || m.active {
		return false
	}
	m.active = true
	m.pending = Entry{NextIDBefore: m.target.NextID()}
	clear(m.marked)
	return true
}

// Active reports whether a transaction is open.
func (m *Manager) Active() bool { return m.active }

// MarkEntityChange captures the "before" record of id on its first mark in
// the open transaction.
func (m *Manager) MarkEntityChange(id entity.ID) {
	if !m.active || m.suppressed {
		return
	}
	if _, ok := m.marked[id]; ok {
		return
	}
	ch := EntityChange{ID: id}
	if e, ok := m.target.Entity(id); ok {
		ch.ExistedBefore = true
		ch.Before = e.Clone()
	}
	m.marked[id] = len(m.pending.Entities)
	m.pending.Entities = append(m.pending.Entities, ch)
}

// MarkSelectionChange captures the selection on its first mark.
func (m *Manager) MarkSelectionChange() {
	if !m.active || m.suppressed || m.pending.HasSelection {
		return
	}
	m.pending.HasSelection = true
	m.pending.SelectionBefore = m.target.Selection()
}

// MarkDrawOrderChange captures the draw order on its first mark.
func (m *Manager) MarkDrawOrderChange() {
	if !m.active || m.suppressed || m.pending.HasDrawOrder {
		return
	}
	m.pending.HasDrawOrder = true
	m.pending.DrawOrderBefore = m.target.DrawOrder()
}

// CommitEntry closes the transaction. It reports whether an entry was
// appended; a transaction without effective changes is dropped.
func (m *Manager) CommitEntry() bool {
	if !m.active {
		return false
	}
	entry := m.pending
	m.reset()

	changes := entry.Entities[:0]
	for _, ch := range entry.Entities {
		if e, ok := m.target.Entity(ch.ID); ok {
			ch.ExistedAfter = true
			ch.After = e.Clone()
		}
		if ch.ExistedBefore == ch.ExistedAfter && (!ch.ExistedBefore || ch.Before.Equal(ch.After)) {
			continue
		}
		changes = append(changes, ch)
	}
	slices.SortFunc(changes, func(a, b EntityChange) int { return cmp.Compare(a.ID, b.ID) })
	entry.Entities = changes

	if entry.HasSelection {
		entry.SelectionAfter = m.target.Selection()
		if slices.Equal(entry.SelectionBefore, entry.SelectionAfter) {
			entry.HasSelection = false
			entry.SelectionBefore, entry.SelectionAfter = nil, nil
		}
	}
	if entry.HasDrawOrder {
		entry.DrawOrderAfter = m.target.DrawOrder()
		if slices.Equal(entry.DrawOrderBefore, entry.DrawOrderAfter) {
			entry.HasDrawOrder = false
			entry.DrawOrderBefore, entry.DrawOrderAfter = nil, nil
		}
	}

	if entry.empty() {
		observability.History().OnDiscard()
		return false
	}
	entry.NextIDAfter = m.target.NextID()
	entry.Generation = m.target.Generation()

	m.entries = append(m.entries[:m.cursor], entry)
	if over := len(m.entries) - m.limit; over > 0 {
		m.entries = slices.Delete(m.entries, 0, over)
	}
	m.cursor = len(m.entries)

	m.logger.Debug("history entry", "changes", len(entry.Entities), "depth", m.cursor)
	observability.History().OnCommit(len(entry.Entities))
	return true
}

// DiscardEntry closes the transaction without recording anything.
func (m *Manager) DiscardEntry() {
	if !m.active {
		return
	}
	m.reset()
	observability.History().OnDiscard()
}

func (m *Manager) reset() {
	m.active = false
	m.pending = Entry{}
	clear(m.marked)
}

// Suppressed reports whether recording is suppressed.
func (m *Manager) Suppressed() bool { return m.suppressed }

// SetSuppressed turns recording off or back on. While suppressed, no
// transaction can begin and marks are ignored.
func (m *Manager) SetSuppressed(v bool) { m.suppressed = v }

// =============================================================================
// Undo / redo
// =============================================================================

// CanUndo reports whether an entry can be undone.
func (m *Manager) CanUndo() bool { return !m.active && m.cursor > 0 }

// CanRedo reports whether an undone entry can be reapplied.
func (m *Manager) CanRedo() bool { return !m.active && m.cursor < len(m.entries) }

// Undo restores the "before" side of the latest entry.
func (m *Manager) Undo() bool {
	if !m.CanUndo() {
		return false
	}
	m.cursor--
	m.apply(&m.entries[m.cursor], false)
	m.logger.Debug("undo", "depth", m.cursor)
	observability.History().OnUndo()
	return true
}

// Redo reapplies the "after" side of the next undone entry.
func (m *Manager) Redo() bool {
	if !m.CanRedo() {
		return false
	}
	m.apply(&m.entries[m.cursor], true)
	m.cursor++
	m.logger.Debug("redo", "depth", m.cursor)
	observability.History().OnRedo()
	return true
}

func (m *Manager) apply(entry *Entry, forward bool) {
	prev := m.suppressed
	m.suppressed = true
	defer func() { m.suppressed = prev }()

	// Deletions first so that re-created ids never collide.
	for _, ch := range entry.Entities {
		exists := ch.ExistedBefore
		if forward {
			exists = ch.ExistedAfter
		}
		if !exists {
			m.target.Delete(ch.ID)
			if m.index != nil {
				m.index.Remove(ch.ID)
			}
		}
	}
	for _, ch := range entry.Entities {
		exists, rec := ch.ExistedBefore, ch.Before
		if forward {
			exists, rec = ch.ExistedAfter, ch.After
		}
		if !exists {
			continue
		}
		rec = rec.Clone()
		if err := m.target.Put(rec); err != nil {
			m.logger.Warn("restore entity", "id", ch.ID, "err", err)
			continue
		}
		if m.index != nil {
			m.index.Update(ch.ID, rec.Geometry.Bounds())
		}
	}

	if entry.HasDrawOrder {
		order := entry.DrawOrderBefore
		if forward {
			order = entry.DrawOrderAfter
		}
		m.target.SetDrawOrder(order)
		if m.index != nil {
			m.index.SetOrder(m.target.DrawOrder())
		}
	}
	if entry.HasSelection {
		sel := entry.SelectionBefore
		if forward {
			sel = entry.SelectionAfter
		}
		m.target.SetSelection(sel)
	}
	if forward {
		m.target.SetNextID(entry.NextIDAfter)
	} else {
		m.target.SetNextID(entry.NextIDBefore)
	}
	m.target.BumpGeneration()
}

// =============================================================================
// Inspection
// =============================================================================

// Len returns the number of stored entries.
func (m *Manager) Len() int { return len(m.entries) }

// Cursor returns the number of entries currently applied.
func (m *Manager) Cursor() int { return m.cursor }

// Entries returns the stored entries, oldest first.
func (m *Manager) Entries() []Entry { return slices.Clone(m.entries) }

// Clear drops all entries and any open transaction.
func (m *Manager) Clear() {
	m.entries = nil
	m.cursor = 0
	m.reset()
}
