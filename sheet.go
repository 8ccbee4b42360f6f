package gridsheet

import (
	"fmt"
	"log/slog"
)

// Sheet is the engine state: the cell grid, column widths, row heights and
// merge regions. A Sheet is never modified after construction; every mutation
// returns a new *Sheet, so old values can be kept for undo or previews.
type Sheet struct {
	grid       Grid
	colWidths  Sizes
	rowHeights Sizes
	merges     MergeRegistry

	opts   *Options
	eval   *Evaluator
	logger *slog.Logger
}

// NewSheet creates an empty sheet of the default dimensions and metrics.
func NewSheet(opts ...Option) *Sheet {
	return newDefaultSheet(buildOptions(opts))
}

func newDefaultSheet(o *Options) *Sheet {
	s := newSheet(o)
	s.grid = NewGrid(o.defaultRows, o.defaultCols)
	s.colWidths = UniformSizes(o.defaultCols, o.defaultColumnWidth)
	s.rowHeights = UniformSizes(o.defaultRows, o.defaultRowHeight)
	return s
}

func newSheet(o *Options) *Sheet {
	return &Sheet{
		merges: NewMergeRegistry(o.allowMergeOverlap),
		opts:   o,
		eval:   newEvaluator(o),
		logger: o.logger.With("component", "sheet"),
	}
}

// NewSheetFrom assembles a sheet from its parts, validating that metrics
// match the grid dimensions and that every merge region fits the grid.
// Unsupported alignments are reset to left and computed values are re-derived.
func NewSheetFrom(g Grid, colWidths, rowHeights Sizes, merges []Rect, opts ...Option) (*Sheet, error) {
	return newSheetFrom(g, colWidths, rowHeights, merges, buildOptions(opts))
}

func newSheetFrom(g Grid, colWidths, rowHeights Sizes, merges []Rect, o *Options) (*Sheet, error) {
	if g.Rows() == 0 {
		return nil, ErrEmptyGrid
	}
	if len(colWidths) != g.Cols() {
		return nil, fmt.Errorf("%w: %d column widths for %d columns", ErrIndexOutOfRange, len(colWidths), g.Cols())
	}
	if len(rowHeights) != g.Rows() {
		return nil, fmt.Errorf("%w: %d row heights for %d rows", ErrIndexOutOfRange, len(rowHeights), g.Rows())
	}
	s := newSheet(o)
	s.grid = g.withValidAlign()
	s.colWidths = colWidths.Fit(g.Cols(), o.defaultColumnWidth, o.minSize)
	s.rowHeights = rowHeights.Fit(g.Rows(), o.defaultRowHeight, o.minSize)
	for _, r := range merges {
		next, err := s.Merge(r)
		if err != nil {
			return nil, err
		}
		s.merges = next.merges
	}
	return s.Recompute(), nil
}

// Grid returns the cell grid.
func (s *Sheet) Grid() Grid { return s.grid }

// Rows returns the number of rows.
func (s *Sheet) Rows() int { return s.grid.Rows() }

// Cols returns the number of columns.
func (s *Sheet) Cols() int { return s.grid.Cols() }

// Cell returns the cell at (row, col) and false when out of bounds.
func (s *Sheet) Cell(row, col int) (Cell, bool) { return s.grid.Cell(row, col) }

// ColumnWidths returns a copy of the column widths.
func (s *Sheet) ColumnWidths() Sizes { return s.colWidths.Clone() }

// RowHeights returns a copy of the row heights.
func (s *Sheet) RowHeights() Sizes { return s.rowHeights.Clone() }

// Merges returns the merge registry.
func (s *Sheet) Merges() MergeRegistry { return s.merges }

// Evaluator returns the evaluator used for recompute passes.
func (s *Sheet) Evaluator() *Evaluator { return s.eval }

// SetRange applies u to every cell of the normalized selection and then runs
// one full recompute pass. Either the whole rectangle is updated and the
// whole grid recomputed, or the receiver is returned with an error.
func (s *Sheet) SetRange(sel Rect, u CellUpdate) (*Sheet, error) {
	g, err := s.grid.SetRange(sel, u)
	if err != nil {
		s.logger.Debug("set range rejected", "range", sel.Normalize().String(), "error", err)
		return s, err
	}
	next := s.with()
	next.grid = g.Recompute(s.eval)
	return next, nil
}

// SetCell is SetRange over a single cell with only a raw value.
func (s *Sheet) SetCell(row, col int, raw string) (*Sheet, error) {
	return s.SetRange(NewRect(row, col, row, col), CellUpdate{}.WithRaw(raw))
}

// Recompute runs one full recompute pass without changing any raw value.
func (s *Sheet) Recompute() *Sheet {
	next := s.with()
	next.grid = s.grid.Recompute(s.eval)
	return next
}

// ResizeColumn adds delta to the width of column index, clamped to the
// minimum size. It does not recompute.
func (s *Sheet) ResizeColumn(index int, delta float64) (*Sheet, error) {
	widths, err := s.colWidths.Resize(index, delta, s.opts.minSize)
	if err != nil {
		return s, fmt.Errorf("resize column: %w", err)
	}
	next := s.with()
	next.colWidths = widths
	return next, nil
}

// ResizeRow adds delta to the height of row index, clamped to the minimum
// size. It does not recompute.
func (s *Sheet) ResizeRow(index int, delta float64) (*Sheet, error) {
	heights, err := s.rowHeights.Resize(index, delta, s.opts.minSize)
	if err != nil {
		return s, fmt.Errorf("resize row: %w", err)
	}
	next := s.with()
	next.rowHeights = heights
	return next, nil
}

// Merge registers the normalized selection as a merge region. A single-cell
// selection is a no-op; a region outside the grid or, unless
// WithMergeOverlap(true) is set, one overlapping an existing region is rejected.
func (s *Sheet) Merge(sel Rect) (*Sheet, error) {
	sel = sel.Normalize()
	if sel.IsSingleCell() {
		return s, nil
	}
	if !sel.Within(s.Rows(), s.Cols()) {
		return s, fmt.Errorf("%w: merge %s outside %d×%d grid", ErrInvalidSelection, sel, s.Rows(), s.Cols())
	}
	merges, err := s.merges.Merge(sel)
	if err != nil {
		s.logger.Debug("merge rejected", "range", sel.String(), "error", err)
		return s, err
	}
	next := s.with()
	next.merges = merges
	return next, nil
}

// Unmerge removes the region exactly matching the normalized selection. A
// single-cell selection or one matching no region returns the receiver.
func (s *Sheet) Unmerge(sel Rect) *Sheet {
	sel = sel.Normalize()
	if sel.IsSingleCell() {
		return s
	}
	merges, removed := s.merges.Unmerge(sel)
	if !removed {
		return s
	}
	next := s.with()
	next.merges = merges
	return next
}

// IsHidden reports whether (row, col) is covered by a merge without being its anchor.
func (s *Sheet) IsHidden(row, col int) bool { return s.merges.IsHidden(row, col) }

// SpanOf returns the (rowSpan, colSpan) of the region anchored at (row, col), or (1, 1).
func (s *Sheet) SpanOf(row, col int) (rowSpan, colSpan int) { return s.merges.SpanOf(row, col) }

// with returns a shallow copy sharing the immutable parts of s.
func (s *Sheet) with() *Sheet {
	c := *s
	return &c
}
