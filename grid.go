package gridsheet

import (
	"errors"
	"fmt"

	"github.com/tiendc/go-deepcopy"
)

var (
	// ErrInvalidSelection is returned when a selection does not fit the grid.
	ErrInvalidSelection = errors.New("invalid selection")
	// ErrInvalidUpdate is returned for updates carrying unsupported values.
	ErrInvalidUpdate = errors.New("invalid cell update")
	// ErrRaggedGrid is returned when rows differ in length.
	ErrRaggedGrid = errors.New("grid rows differ in length")
	// ErrEmptyGrid is returned where a grid needs at least one cell.
	ErrEmptyGrid = errors.New("grid has no cells")
)

// Grid is an immutable R×C matrix of cells. Every method that changes cells
// returns a new Grid and leaves the receiver untouched.
type Grid struct {
	cells [][]Cell
	cols  int
}

// NewGrid creates a grid of blank cells.
func NewGrid(rows, cols int) Grid {
	if rows <= 0 || cols <= 0 {
		return Grid{}
	}
	cells := make([][]Cell, rows)
	for r := range cells {
		row := make([]Cell, cols)
		for c := range row {
			row[c] = NewCell()
		}
		cells[r] = row
	}
	return Grid{cells: cells, cols: cols}
}

// GridFromCells builds a grid from a row-major matrix. The matrix is copied.
func GridFromCells(cells [][]Cell) (Grid, error) {
	if len(cells) == 0 {
		return Grid{}, nil
	}
	cols := len(cells[0])
	for r, row := range cells {
		if len(row) != cols {
			return Grid{}, fmt.Errorf("%w: row %d has %d cells, want %d", ErrRaggedGrid, r, len(row), cols)
		}
	}
	if cols == 0 {
		return Grid{}, nil
	}
	return Grid{cells: cloneCells(cells), cols: cols}, nil
}

// Rows returns the number of rows.
func (g Grid) Rows() int { return len(g.cells) }

// Cols returns the number of columns.
func (g Grid) Cols() int { return g.cols }

// Bounds returns the rectangle covering the whole grid.
func (g Grid) Bounds() Rect {
	return Rect{StartRow: 0, StartCol: 0, EndRow: g.Rows() - 1, EndCol: g.cols - 1}
}

// InBounds reports whether (row, col) addresses a cell of the grid.
func (g Grid) InBounds(row, col int) bool {
	return row >= 0 && row < len(g.cells) && col >= 0 && col < g.cols
}

// Cell returns the cell at (row, col) and false when out of bounds.
func (g Grid) Cell(row, col int) (Cell, bool) {
	if !g.InBounds(row, col) {
		return Cell{}, false
	}
	return g.cells[row][col], true
}

// CellAt returns the cell at ref and false when out of bounds.
func (g Grid) CellAt(ref CellRef) (Cell, bool) {
	return g.Cell(ref.Row, ref.Col)
}

// Cells returns a copy of the row-major cell matrix.
func (g Grid) Cells() [][]Cell {
	return cloneCells(g.cells)
}

// numericValue is the value a formula sees for ref: the computed value if
// present, else the raw value, coerced to a number. Blank, non-numeric and
// out-of-bounds cells are 0.
func (g Grid) numericValue(ref CellRef) float64 {
	c, ok := g.CellAt(ref)
	if !ok {
		return 0
	}
	if c.ComputedValue != "" {
		return ToNumber(c.ComputedValue)
	}
	return ToNumber(c.RawValue)
}

// SetRange applies u to every cell inside sel (normalized first) and returns
// the new grid. Cells outside sel are untouched and no recompute happens; see
// Sheet.SetRange for the recomputing variant. On error the receiver is returned.
func (g Grid) SetRange(sel Rect, u CellUpdate) (Grid, error) {
	sel = sel.Normalize()
	if !sel.Within(g.Rows(), g.cols) {
		return g, fmt.Errorf("%w: %s outside %d×%d grid", ErrInvalidSelection, sel, g.Rows(), g.cols)
	}
	if u.Align != nil && !u.Align.Valid() {
		return g, fmt.Errorf("%w: align %q", ErrInvalidUpdate, *u.Align)
	}
	next := g.clone()
	for r := sel.StartRow; r <= sel.EndRow; r++ {
		for c := sel.StartCol; c <= sel.EndCol; c++ {
			next.cells[r][c] = u.Apply(next.cells[r][c])
		}
	}
	return next, nil
}

// Recompute performs one full pass: every formula cell is evaluated against
// the receiver as it stands, every other cell's computed value becomes its
// raw value. Formulas see the computed values from before the pass, so
// references to other formulas may be one pass stale and self references
// never loop.
func (g Grid) Recompute(ev *Evaluator) Grid {
	next := g.clone()
	for r, row := range g.cells {
		for c, cell := range row {
			if cell.IsFormula() {
				next.cells[r][c].ComputedValue = ev.Evaluate(cell.RawValue, g)
			} else {
				next.cells[r][c].ComputedValue = cell.RawValue
			}
		}
	}
	return next
}

// withValidAlign returns g with every unsupported alignment reset to left.
// The receiver is returned when every alignment is already valid.
func (g Grid) withValidAlign() Grid {
	next := g
	copied := false
	for r, row := range g.cells {
		for c, cell := range row {
			if cell.Formatting.Align.Valid() {
				continue
			}
			if !copied {
				next = g.clone()
				copied = true
			}
			next.cells[r][c].Formatting.Align = AlignLeft
		}
	}
	return next
}

func (g Grid) clone() Grid {
	return Grid{cells: cloneCells(g.cells), cols: g.cols}
}

func cloneCells(src [][]Cell) [][]Cell {
	var dst [][]Cell
	if err := deepcopy.Copy(&dst, &src); err != nil {
		dst = make([][]Cell, len(src))
		for i, row := range src {
			dst[i] = append([]Cell(nil), row...)
		}
	}
	return dst
}
