package interaction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/vectorcad/pkg/entity"
	"github.com/matzehuels/vectorcad/pkg/errors"
	"github.com/matzehuels/vectorcad/pkg/geom"
	"github.com/matzehuels/vectorcad/pkg/snap"
)

func logTypes(entries []LogEntry) []LogType {
	out := make([]LogType, len(entries))
	for i, e := range entries {
		out[i] = e.Type
	}
	return out
}

func TestLogRecordsGesture(t *testing.T) {
	f := newFixture(t, rect(1, 0, 0, 10, 10), rect(2, 20, 0, 10, 10))
	f.s.SetLogEnabled(true, 0, 0)

	f.begin(t, BeginParams{IDs: []entity.ID{2, 1}, Mode: Move, Screen: at(0, 0), Modifiers: Shift})
	f.drag(0, at(1, 0), at(12, 0))
	f.s.Commit()

	entries := f.s.LogEntries()
	assert.Equal(t, []LogType{LogBegin, LogUpdate, LogUpdate, LogCommit}, logTypes(entries))
	assert.Equal(t, []entity.ID{2, 1}, f.s.LogIDs())
	assert.Equal(t, 2, entries[0].IDCount)
	assert.Equal(t, Shift, entries[0].Modifiers)
	assert.Equal(t, geom.Identity, entries[3].View)
	assert.False(t, f.s.LogOverflowed())

	// The next begin starts a fresh log.
	f.begin(t, BeginParams{IDs: []entity.ID{1}, Mode: Rotate, Screen: at(0, 0)})
	f.s.Cancel()
	assert.Equal(t, []LogType{LogBegin, LogCancel}, logTypes(f.s.LogEntries()))
	assert.Equal(t, []entity.ID{1}, f.s.LogIDs())
}

func TestLogDisabled(t *testing.T) {
	f := newFixture(t, rect(1, 0, 0, 10, 10))
	f.begin(t, BeginParams{IDs: []entity.ID{1}, Mode: Move, Screen: at(0, 0)})
	f.drag(0, at(12, 0))
	f.s.Commit()
	assert.Empty(t, f.s.LogEntries())

	f.s.SetLogEnabled(true, 0, 0)
	assert.True(t, f.s.LogEnabled())
	f.s.SetLogEnabled(false, 0, 0)
	assert.False(t, f.s.LogEnabled())
}

func TestLogOverflow(t *testing.T) {
	f := newFixture(t, rect(1, 0, 0, 10, 10), rect(2, 20, 0, 10, 10))
	f.s.SetLogEnabled(true, 3, 1)

	f.begin(t, BeginParams{IDs: []entity.ID{1}, Mode: Move, Screen: at(0, 0)})
	f.drag(0, at(5, 0), at(10, 0), at(15, 0))
	f.s.Commit()
	assert.True(t, f.s.LogOverflowed())
	assert.Len(t, f.s.LogEntries(), 3)
	assert.True(t, errors.Is(f.s.Replay(), errors.ErrCodeLogOverflow))

	f.begin(t, BeginParams{IDs: []entity.ID{1}, Mode: Move, Screen: at(0, 0)})
	assert.False(t, f.s.LogOverflowed())
	f.s.Cancel()

	f.begin(t, BeginParams{IDs: []entity.ID{1, 2}, Mode: Move, Screen: at(0, 0)})
	assert.True(t, f.s.LogOverflowed(), "too many ids")
	f.s.Cancel()
	assert.Empty(t, f.s.LogEntries())
}

func TestReplay(t *testing.T) {
	f := newFixture(t, rect(1, 0, 0, 10, 10))
	f.s.SetLogEnabled(true, 0, 0)

	f.begin(t, BeginParams{IDs: []entity.ID{1}, Mode: Move, Screen: at(0, 0)})
	f.drag(0, at(33, 0))
	f.s.Commit()
	recorded := f.s.LogEntries()
	require.True(t, f.hist.Undo())
	assert.Equal(t, entity.Rect{W: 10, H: 10}, f.geometry(t, 1))

	// The caller's options differ from the recorded ones.
	grid := snap.Options{Enabled: true, GridEnabled: true, GridSize: 10}
	f.s.SetSnapOptions(grid)
	f.s.SetOrtho(true)

	require.NoError(t, f.s.Replay())
	assert.Equal(t, entity.Rect{X: 33, W: 10, H: 10}, f.geometry(t, 1))
	assert.False(t, f.s.Active())
	assert.Equal(t, grid, f.s.SnapOptions())
	assert.True(t, f.s.Ortho())
	assert.Equal(t, recorded, f.s.LogEntries(), "replay does not record")
	assert.Equal(t, 1, f.hist.Len())
}

func TestReplayUnavailable(t *testing.T) {
	f := newFixture(t, rect(1, 0, 0, 10, 10))

	err := f.s.Replay()
	assert.True(t, errors.Is(err, errors.ErrCodeReplayUnavailable))

	f.s.SetLogEnabled(true, 0, 0)
	f.begin(t, BeginParams{IDs: []entity.ID{1}, Mode: Move, Screen: at(0, 0)})
	assert.True(t, errors.Is(f.s.Replay(), errors.ErrCodeConflict))
	f.s.Cancel()

	f.s.ClearLog()
	assert.True(t, errors.Is(f.s.Replay(), errors.ErrCodeReplayUnavailable))
}
