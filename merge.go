package gridsheet

import (
	"errors"
	"fmt"
)

// ErrMergeOverlap is returned when a new merge region would overlap an existing one.
var ErrMergeOverlap = errors.New("merge region overlaps an existing region")

// MergeRegistry is an immutable set of merge regions. Each region renders as
// one unit anchored at its top-left cell.
type MergeRegistry struct {
	regions      []Rect
	allowOverlap bool
}

// NewMergeRegistry creates an empty registry. With allowOverlap set, Merge
// accepts regions that overlap existing ones and the earliest region wins
// hidden/span queries.
func NewMergeRegistry(allowOverlap bool) MergeRegistry {
	return MergeRegistry{allowOverlap: allowOverlap}
}

// Regions returns a copy of the registered regions in insertion order.
func (m MergeRegistry) Regions() []Rect {
	return append([]Rect(nil), m.regions...)
}

// Len returns the number of regions.
func (m MergeRegistry) Len() int { return len(m.regions) }

// Merge registers the normalized selection as a region. A single-cell
// selection is a no-op. On error the receiver is returned.
func (m MergeRegistry) Merge(sel Rect) (MergeRegistry, error) {
	sel = sel.Normalize()
	if sel.IsSingleCell() {
		return m, nil
	}
	if sel.StartRow < 0 || sel.StartCol < 0 {
		return m, fmt.Errorf("%w: merge %s", ErrInvalidSelection, sel)
	}
	if !m.allowOverlap {
		for _, r := range m.regions {
			if r.Overlaps(sel) {
				return m, fmt.Errorf("%w: %s overlaps %s", ErrMergeOverlap, sel, r)
			}
		}
	}
	next := m.clone()
	next.regions = append(next.regions, sel)
	return next, nil
}

// Unmerge removes every region exactly equal to the normalized selection and
// reports whether any was removed. Regions that merely overlap it are kept.
// When nothing matches the receiver is returned.
func (m MergeRegistry) Unmerge(sel Rect) (MergeRegistry, bool) {
	sel = sel.Normalize()
	next := MergeRegistry{allowOverlap: m.allowOverlap}
	for _, r := range m.regions {
		if r != sel {
			next.regions = append(next.regions, r)
		}
	}
	if len(next.regions) == len(m.regions) {
		return m, false
	}
	return next, true
}

// RegionAt returns the first region containing (row, col).
func (m MergeRegistry) RegionAt(row, col int) (Rect, bool) {
	for _, r := range m.regions {
		if r.Contains(row, col) {
			return r, true
		}
	}
	return Rect{}, false
}

// IsHidden reports whether (row, col) lies inside a region without being its anchor.
func (m MergeRegistry) IsHidden(row, col int) bool {
	r, ok := m.RegionAt(row, col)
	return ok && (r.StartRow != row || r.StartCol != col)
}

// SpanOf returns the extent of the region anchored at (row, col), or (1, 1).
func (m MergeRegistry) SpanOf(row, col int) (rowSpan, colSpan int) {
	for _, r := range m.regions {
		if r.StartRow == row && r.StartCol == col {
			s := r.Size()
			return s.Height, s.Width
		}
	}
	return 1, 1
}

func (m MergeRegistry) clone() MergeRegistry {
	return MergeRegistry{regions: m.Regions(), allowOverlap: m.allowOverlap}
}
