package gridsheet

import "strings"

// FormulaMarker is the leading character that turns a raw value into a formula.
const FormulaMarker = "="

// ErrorValue is the computed value of a formula that cannot be evaluated.
const ErrorValue = "#VALUE!"

// Align is the horizontal alignment of a cell.
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// Valid reports whether a is one of the three supported alignments.
func (a Align) Valid() bool {
	switch a {
	case AlignLeft, AlignCenter, AlignRight:
		return true
	default:
		return false
	}
}

// Format holds the display attributes of a cell.
type Format struct {
	Bold            bool   `json:"bold"`
	Italic          bool   `json:"italic"`
	Align           Align  `json:"align"`
	TextColor       string `json:"textColor"`
	BackgroundColor string `json:"backgroundColor"`
	Wrap            bool   `json:"wrap"`
}

// DefaultFormat returns the formatting of a blank cell.
func DefaultFormat() Format {
	return Format{Align: AlignLeft}
}

// Cell is a single grid cell: what the user typed, what is displayed, and how.
type Cell struct {
	RawValue      string `json:"rawValue"`
	ComputedValue string `json:"computedValue"`
	Formatting    Format `json:"formatting"`
}

// NewCell creates a blank cell with default formatting.
func NewCell() Cell {
	return Cell{Formatting: DefaultFormat()}
}

// IsFormula reports whether the raw value starts with the formula marker.
func (c Cell) IsFormula() bool {
	return IsFormula(c.RawValue)
}

// IsBlank reports whether the cell has no raw value.
func (c Cell) IsBlank() bool {
	return c.RawValue == ""
}

// IsFormula reports whether raw starts with the formula marker.
func IsFormula(raw string) bool {
	return strings.HasPrefix(raw, FormulaMarker)
}

// CellUpdate is a partial update applied to every cell of a selection.
// Nil fields are left untouched.
type CellUpdate struct {
	RawValue        *string
	Bold            *bool
	Italic          *bool
	Align           *Align
	TextColor       *string
	BackgroundColor *string
	Wrap            *bool
}

// WithRaw returns a copy of u that sets the raw value.
func (u CellUpdate) WithRaw(v string) CellUpdate {
	u.RawValue = &v
	return u
}

// WithBold returns a copy of u that sets bold.
func (u CellUpdate) WithBold(v bool) CellUpdate {
	u.Bold = &v
	return u
}

// WithItalic returns a copy of u that sets italic.
func (u CellUpdate) WithItalic(v bool) CellUpdate {
	u.Italic = &v
	return u
}

// WithAlign returns a copy of u that sets the alignment.
func (u CellUpdate) WithAlign(v Align) CellUpdate {
	u.Align = &v
	return u
}

// WithTextColor returns a copy of u that sets the text color.
func (u CellUpdate) WithTextColor(v string) CellUpdate {
	u.TextColor = &v
	return u
}

// WithBackgroundColor returns a copy of u that sets the background color.
func (u CellUpdate) WithBackgroundColor(v string) CellUpdate {
	u.BackgroundColor = &v
	return u
}

// WithWrap returns a copy of u that sets text wrapping.
func (u CellUpdate) WithWrap(v bool) CellUpdate {
	u.Wrap = &v
	return u
}

// IsEmpty reports whether the update changes nothing.
func (u CellUpdate) IsEmpty() bool {
	return u.RawValue == nil && u.Bold == nil && u.Italic == nil && u.Align == nil &&
		u.TextColor == nil && u.BackgroundColor == nil && u.Wrap == nil
}

// Apply returns c with every set field of u applied. The computed value is not touched.
func (u CellUpdate) Apply(c Cell) Cell {
	if u.RawValue != nil {
		c.RawValue = *u.RawValue
	}
	f := &c.Formatting
	if u.Bold != nil {
		f.Bold = *u.Bold
	}
	if u.Italic != nil {
		f.Italic = *u.Italic
	}
	if u.Align != nil {
		f.Align = *u.Align
	}
	if u.TextColor != nil {
		f.TextColor = *u.TextColor
	}
	if u.BackgroundColor != nil {
		f.BackgroundColor = *u.BackgroundColor
	}
	if u.Wrap != nil {
		f.Wrap = *u.Wrap
	}
	return c
}
