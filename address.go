package gridsheet

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidAddress is returned for text that is not an "A1"-style address.
var ErrInvalidAddress = errors.New("invalid address")

// maxLabelLen is the longest label a non-negative int can map to.
const maxLabelLen = 14

// CellRef is a zero-based cell coordinate.
type CellRef struct {
	Row int // 0-based row index
	Col int // 0-based column index
}

// NewCellRef creates a CellRef from row and column indices.
func NewCellRef(row, col int) CellRef {
	return CellRef{Row: row, Col: col}
}

// String formats the CellRef as "A1".
func (c CellRef) String() string {
	return IndexToLabel(c.Col) + strconv.Itoa(c.Row+1)
}

// IndexToLabel converts a 0-based column index to its letter label.
// 0→"A", 25→"Z", 26→"AA", 701→"ZZ", 702→"AAA". Negative indices yield "".
func IndexToLabel(n int) string {
	if n < 0 {
		return ""
	}
	var buf [maxLabelLen]byte
	i := len(buf)
	n++ // bijective base-26 works 1-based
	for n > 0 {
		n--
		i--
		buf[i] = byte('A' + n%26)
		n /= 26
	}
	return string(buf[i:])
}

// LabelToIndex converts a column label to its 0-based index.
// "A"→0, "Z"→25, "AA"→26. Only upper-case A–Z are accepted.
func LabelToIndex(label string) (int, error) {
	if label == "" || len(label) > maxLabelLen {
		return 0, fmt.Errorf("%w: column label %q", ErrInvalidAddress, label)
	}
	col := 0
	for i := 0; i < len(label); i++ {
		ch := label[i]
		if ch < 'A' || ch > 'Z' {
			return 0, fmt.Errorf("%w: column label %q", ErrInvalidAddress, label)
		}
		if col > (math.MaxInt-26)/26 {
			return 0, fmt.Errorf("%w: column label %q out of range", ErrInvalidAddress, label)
		}
		col = col*26 + int(ch-'A') + 1
	}
	return col - 1, nil
}

// ParseAddress parses an address such as "B12" into a CellRef.
// The text must be upper-case letters followed by a 1-based row number.
func ParseAddress(s string) (CellRef, error) {
	i := 0
	for i < len(s) && s[i] >= 'A' && s[i] <= 'Z' {
		i++
	}
	if i == 0 || i == len(s) {
		return CellRef{}, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}
	digits := s[i:]
	for j := 0; j < len(digits); j++ {
		if digits[j] < '0' || digits[j] > '9' {
			return CellRef{}, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
		}
	}
	col, err := LabelToIndex(s[:i])
	if err != nil {
		return CellRef{}, err
	}
	rowNum, err := strconv.Atoi(digits)
	if err != nil || rowNum < 1 {
		return CellRef{}, fmt.Errorf("%w: row in %q", ErrInvalidAddress, s)
	}
	return CellRef{Row: rowNum - 1, Col: col}, nil
}

// Rect is an inclusive rectangle of cells. The JSON shape is the persisted
// merge region shape.
type Rect struct {
	StartRow int `json:"startRow"`
	StartCol int `json:"startCol"`
	EndRow   int `json:"endRow"`
	EndCol   int `json:"endCol"`
}

// NewRect creates a normalized Rect spanning the two corners in any order.
func NewRect(row1, col1, row2, col2 int) Rect {
	return Rect{StartRow: row1, StartCol: col1, EndRow: row2, EndCol: col2}.Normalize()
}

// RectOf returns the 1×1 Rect covering a single cell.
func RectOf(ref CellRef) Rect {
	return Rect{StartRow: ref.Row, StartCol: ref.Col, EndRow: ref.Row, EndCol: ref.Col}
}

// ParseRange parses a range such as "A1:C5" (or a single address) into a normalized Rect.
func ParseRange(s string) (Rect, error) {
	first, last, found := strings.Cut(s, ":")
	if !found {
		ref, err := ParseAddress(s)
		if err != nil {
			return Rect{}, err
		}
		return RectOf(ref), nil
	}
	a, err := ParseAddress(first)
	if err != nil {
		return Rect{}, fmt.Errorf("range %q: %w", s, err)
	}
	b, err := ParseAddress(last)
	if err != nil {
		return Rect{}, fmt.Errorf("range %q: %w", s, err)
	}
	return NewRect(a.Row, a.Col, b.Row, b.Col), nil
}

// Normalize orders the corners so that start ≤ end on both axes.
func (r Rect) Normalize() Rect {
	return Rect{
		StartRow: min(r.StartRow, r.EndRow),
		StartCol: min(r.StartCol, r.EndCol),
		EndRow:   max(r.StartRow, r.EndRow),
		EndCol:   max(r.StartCol, r.EndCol),
	}
}

// TopLeft returns the anchor cell of the rectangle.
func (r Rect) TopLeft() CellRef {
	return CellRef{Row: r.StartRow, Col: r.StartCol}
}

// Size returns the dimensions of the rectangle.
func (r Rect) Size() Size {
	return Size{Width: r.EndCol - r.StartCol + 1, Height: r.EndRow - r.StartRow + 1}
}

// Cells returns the number of cells covered.
func (r Rect) Cells() int {
	s := r.Size()
	return s.Width * s.Height
}

// IsSingleCell reports whether the rectangle covers exactly one cell.
func (r Rect) IsSingleCell() bool {
	return r.StartRow == r.EndRow && r.StartCol == r.EndCol
}

// Contains reports whether (row, col) lies inside the rectangle.
func (r Rect) Contains(row, col int) bool {
	return row >= r.StartRow && row <= r.EndRow && col >= r.StartCol && col <= r.EndCol
}

// Overlaps reports whether the two rectangles share at least one cell.
func (r Rect) Overlaps(o Rect) bool {
	return r.StartRow <= o.EndRow && o.StartRow <= r.EndRow &&
		r.StartCol <= o.EndCol && o.StartCol <= r.EndCol
}

// Within reports whether the rectangle fits a grid of the given dimensions.
func (r Rect) Within(rows, cols int) bool {
	return r.StartRow >= 0 && r.StartCol >= 0 && r.EndRow < rows && r.EndCol < cols &&
		r.StartRow <= r.EndRow && r.StartCol <= r.EndCol
}

// String formats the Rect as "A1:C5", or "A1" for a single cell.
func (r Rect) String() string {
	first := CellRef{Row: r.StartRow, Col: r.StartCol}.String()
	if r.IsSingleCell() {
		return first
	}
	return first + ":" + CellRef{Row: r.EndRow, Col: r.EndCol}.String()
}

// Size represents width (columns) and height (rows).
type Size struct {
	Width  int
	Height int
}

// String formats the Size as "(WxH)".
func (s Size) String() string {
	return fmt.Sprintf("(%dx%d)", s.Width, s.Height)
}
