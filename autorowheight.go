package gridsheet

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	linePixels   = 20.0 // one line of text at the default font
	rowPaddingPx = 12.0 // vertical padding inside a cell
)

// AutoFitRows sets the height of every row in [first, last] that holds
// wrapped text to fit that text, never below the default row height. Rows
// without wrapped text keep their height. It does not recompute.
func (s *Sheet) AutoFitRows(first, last int) (*Sheet, error) {
	if first > last {
		first, last = last, first
	}
	if first < 0 || last >= s.Rows() {
		return s, fmt.Errorf("auto-fit rows: %w: rows %d..%d not in [0,%d)", ErrIndexOutOfRange, first, last, s.Rows())
	}
	heights := s.rowHeights.Clone()
	changed := false
	for r := first; r <= last; r++ {
		lines := s.wrappedLines(r)
		if lines == 0 {
			continue
		}
		h := max(float64(lines)*linePixels+rowPaddingPx, s.opts.defaultRowHeight, s.opts.minSize)
		if h != heights[r] {
			heights[r] = h
			changed = true
		}
	}
	if !changed {
		return s, nil
	}
	next := s.with()
	next.rowHeights = heights
	return next, nil
}

// wrappedLines returns the most lines any wrapped cell of row needs at its
// current width, or 0 when the row has no wrapped text. A merge anchor spans
// the widths of all its columns; cells hidden by a merge are skipped.
func (s *Sheet) wrappedLines(row int) int {
	most := 0
	for c, cell := range s.grid.cells[row] {
		if !cell.Formatting.Wrap || cell.ComputedValue == "" || s.merges.IsHidden(row, c) {
			continue
		}
		_, colSpan := s.merges.SpanOf(row, c)
		width := 0.0
		for i := c; i < c+colSpan && i < len(s.colWidths); i++ {
			width += s.colWidths[i]
		}
		most = max(most, lineCount(cell.ComputedValue, width))
	}
	return most
}

// lineCount estimates how many lines text occupies in a column width pixels wide.
func lineCount(text string, width float64) int {
	perLine := max(int(width/pixelsPerWidthUnit), 1)
	lines := 0
	for _, part := range strings.Split(text, "\n") {
		n := utf8.RuneCountInString(part)
		lines += max((n+perLine-1)/perLine, 1)
	}
	return lines
}
