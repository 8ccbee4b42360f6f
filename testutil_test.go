package gridsheet

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// sheetWith builds a default-sized sheet holding the raw values and runs one
// recompute pass. Literals are visible to every formula; formulas reading other
// formulas see 0 until the next pass.
func sheetWith(t *testing.T, values map[string]string, opts ...Option) *Sheet {
	t.Helper()
	base := NewSheet(opts...)
	g := gridWith(t, base.Rows(), base.Cols(), values)
	s, err := NewSheetFrom(g, base.ColumnWidths(), base.RowHeights(), nil, opts...)
	require.NoError(t, err)
	return s
}

// computedAt returns the computed value of the cell at addr.
func computedAt(t *testing.T, s *Sheet, addr string) string {
	t.Helper()
	return cellAt(t, s, addr).ComputedValue
}

// cellAt returns the cell at addr, failing the test when it is out of bounds.
func cellAt(t *testing.T, s *Sheet, addr string) Cell {
	t.Helper()
	ref, err := ParseAddress(addr)
	require.NoError(t, err, "address %q", addr)
	c, ok := s.Cell(ref.Row, ref.Col)
	require.True(t, ok, "cell %s out of bounds", addr)
	return c
}

// gridWith builds a bare grid with raw values and no computed values.
func gridWith(t *testing.T, rows, cols int, values map[string]string) Grid {
	t.Helper()
	cells := NewGrid(rows, cols).Cells()
	for addr, raw := range values {
		ref, err := ParseAddress(addr)
		require.NoError(t, err, "address %q", addr)
		cells[ref.Row][ref.Col].RawValue = raw
	}
	g, err := GridFromCells(cells)
	require.NoError(t, err)
	return g
}
