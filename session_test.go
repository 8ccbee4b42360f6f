package gridsheet

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func selectRange(s *Session, from, to CellRef) {
	s.Begin(from.Row, from.Col)
	s.Extend(to.Row, to.Col)
	s.End()
}

func TestNewSession_EmptySnapshot(t *testing.T) {
	s := NewSession("Budget", "")
	assert.Equal(t, "Budget", s.Title())
	assert.Equal(t, 20, s.Sheet().Rows())
	assert.Equal(t, 10, s.Sheet().Cols())
	assert.False(t, s.CanUndo())
	assert.False(t, s.CanRedo())
}

func TestNewSession_LogsUnreadableSnapshot(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	s := NewSession("Budget", "{broken", WithLogger(logger))
	assert.Equal(t, 20, s.Sheet().Rows())
	assert.Contains(t, buf.String(), "snapshot unreadable")
	assert.Contains(t, buf.String(), "component=snapshot")
}

func TestSession_ApplyOverSelection(t *testing.T) {
	s := NewSession("t", "")
	selectRange(s, CellRef{Row: 1, Col: 1}, CellRef{Row: 0, Col: 0})
	require.NoError(t, s.Apply(CellUpdate{}.WithRaw("4")))

	for _, addr := range []string{"A1", "B1", "A2", "B2"} {
		assert.Equal(t, "4", computedAt(t, s.Sheet(), addr), addr)
	}
	assert.Equal(t, "", computedAt(t, s.Sheet(), "C1"))

	selectRange(s, CellRef{Row: 0, Col: 2}, CellRef{Row: 0, Col: 2})
	require.NoError(t, s.Apply(CellUpdate{}.WithRaw("=SUM(A1:B2)")))
	assert.Equal(t, "16", computedAt(t, s.Sheet(), "C1"))
}

func TestSession_UndoRedo(t *testing.T) {
	s := NewSession("t", "")
	initial := s.Sheet()

	s.Begin(0, 0)
	s.End()
	require.NoError(t, s.Apply(CellUpdate{}.WithRaw("a")))
	afterA := s.Sheet()
	require.NoError(t, s.Apply(CellUpdate{}.WithRaw("b")))

	require.NoError(t, s.Undo())
	assert.Same(t, afterA, s.Sheet())
	require.NoError(t, s.Undo())
	assert.Same(t, initial, s.Sheet())
	assert.ErrorIs(t, s.Undo(), ErrNothingToUndo)

	require.NoError(t, s.Redo())
	assert.Equal(t, "a", computedAt(t, s.Sheet(), "A1"))
	require.NoError(t, s.Redo())
	assert.Equal(t, "b", computedAt(t, s.Sheet(), "A1"))
	assert.ErrorIs(t, s.Redo(), ErrNothingToUndo)
}

func TestSession_NewEditClearsRedo(t *testing.T) {
	s := NewSession("t", "")
	s.Begin(0, 0)
	s.End()
	require.NoError(t, s.Apply(CellUpdate{}.WithRaw("a")))
	require.NoError(t, s.Undo())
	require.True(t, s.CanRedo())

	require.NoError(t, s.ResizeColumn(0, 10))
	assert.False(t, s.CanRedo())
	assert.True(t, s.CanUndo())
}

func TestSession_FailedEditKeepsHistory(t *testing.T) {
	s := NewSession("t", "")
	before := s.Sheet()

	selectRange(s, CellRef{Row: 0, Col: 0}, CellRef{Row: 40, Col: 0})
	assert.ErrorIs(t, s.Apply(CellUpdate{}.WithBold(true)), ErrInvalidSelection)
	assert.ErrorIs(t, s.ResizeRow(99, 1), ErrIndexOutOfRange)

	assert.Same(t, before, s.Sheet())
	assert.False(t, s.CanUndo())
}

func TestSession_SingleCellMergeRecordsNothing(t *testing.T) {
	s := NewSession("t", "")
	s.Begin(2, 2)
	s.End()
	require.NoError(t, s.MergeSelection())
	assert.False(t, s.CanUndo())
}

func TestSession_NoopUnmergeRecordsNothing(t *testing.T) {
	s := NewSession("t", "")
	s.Begin(0, 0)
	s.Extend(1, 1)
	s.End()
	require.NoError(t, s.UnmergeSelection())
	assert.False(t, s.CanUndo(), "no region to remove")

	s.Begin(3, 3)
	s.End()
	require.NoError(t, s.UnmergeSelection())
	assert.False(t, s.CanUndo(), "single-cell selection")

	selectRange(s, CellRef{Row: 0, Col: 0}, CellRef{Row: 1, Col: 1})
	require.NoError(t, s.MergeSelection())
	selectRange(s, CellRef{Row: 0, Col: 0}, CellRef{Row: 2, Col: 2})
	require.NoError(t, s.UnmergeSelection())
	assert.Equal(t, 1, s.Sheet().Merges().Len())

	require.NoError(t, s.Undo())
	assert.False(t, s.CanUndo(), "only the merge was recorded")
	assert.Zero(t, s.Sheet().Merges().Len())
}

func TestSession_MergeAndUnmerge(t *testing.T) {
	s := NewSession("t", "")
	selectRange(s, CellRef{Row: 0, Col: 0}, CellRef{Row: 1, Col: 1})
	require.NoError(t, s.MergeSelection())
	assert.True(t, s.Sheet().IsHidden(1, 1))

	selectRange(s, CellRef{Row: 1, Col: 1}, CellRef{Row: 2, Col: 2})
	assert.ErrorIs(t, s.MergeSelection(), ErrMergeOverlap)

	selectRange(s, CellRef{Row: 0, Col: 0}, CellRef{Row: 1, Col: 1})
	require.NoError(t, s.UnmergeSelection())
	assert.False(t, s.Sheet().IsHidden(1, 1))

	require.NoError(t, s.Undo())
	assert.True(t, s.Sheet().IsHidden(1, 1))
}

func TestSession_HistoryLimit(t *testing.T) {
	s := NewSession("t", "", WithHistoryLimit(2))
	for i := 0; i < 3; i++ {
		require.NoError(t, s.ResizeRow(0, 1))
	}
	require.NoError(t, s.Undo())
	require.NoError(t, s.Undo())
	assert.ErrorIs(t, s.Undo(), ErrNothingToUndo)
	assert.Equal(t, 33.0, s.Sheet().RowHeights()[0])
}

func TestSession_SaveAndLoad(t *testing.T) {
	s := NewSession("t", "")
	selectRange(s, CellRef{Row: 0, Col: 0}, CellRef{Row: 0, Col: 1})
	require.NoError(t, s.Apply(CellUpdate{}.WithRaw("5").WithItalic(true)))
	require.NoError(t, s.MergeSelection())

	text, err := s.Save()
	require.NoError(t, err)

	other := NewSession("copy", text)
	assert.Equal(t, s.Sheet().Snapshot(), other.Sheet().Snapshot())

	s.Load("")
	assert.False(t, s.CanUndo())
	assert.False(t, s.Selection().Selecting())
	assert.Equal(t, "", computedAt(t, s.Sheet(), "A1"))
}
