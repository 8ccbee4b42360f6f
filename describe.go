package gridsheet

import (
	"fmt"
	"strings"
)

// Describe returns a human-readable dump of the sheet: dimensions, merge
// regions, non-blank cells and formulas with their computed values.
// Useful for debugging and test failure output.
func (s *Sheet) Describe() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Sheet %s %s\n", s.grid.Bounds(), Size{Width: s.Cols(), Height: s.Rows()})

	if regions := s.merges.Regions(); len(regions) > 0 {
		b.WriteString("  Merges:\n")
		for _, r := range regions {
			fmt.Fprintf(&b, "    %s %s\n", r, r.Size())
		}
	}

	var values, formulas []string
	for r, row := range s.grid.cells {
		for c, cell := range row {
			if cell.IsBlank() {
				continue
			}
			ref := CellRef{Row: r, Col: c}
			line := fmt.Sprintf("    %s: %q%s", ref, cell.RawValue, describeFormat(cell.Formatting))
			if cell.IsFormula() {
				line = fmt.Sprintf("    %s: %s = %s", ref, cell.RawValue, cell.ComputedValue)
				formulas = append(formulas, line)
				continue
			}
			values = append(values, line)
		}
	}
	if len(values) > 0 {
		b.WriteString("  Values:\n")
		for _, v := range values {
			b.WriteString(v)
			b.WriteByte('\n')
		}
	}
	if len(formulas) > 0 {
		b.WriteString("  Formulas:\n")
		for _, f := range formulas {
			b.WriteString(f)
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// describeFormat returns the non-default format attributes for display.
func describeFormat(f Format) string {
	var parts []string
	if f.Bold {
		parts = append(parts, "bold")
	}
	if f.Italic {
		parts = append(parts, "italic")
	}
	if f.Align != AlignLeft {
		parts = append(parts, fmt.Sprintf("align=%s", f.Align))
	}
	if f.TextColor != "" {
		parts = append(parts, fmt.Sprintf("color=%s", f.TextColor))
	}
	if f.BackgroundColor != "" {
		parts = append(parts, fmt.Sprintf("bg=%s", f.BackgroundColor))
	}
	if f.Wrap {
		parts = append(parts, "wrap")
	}
	if len(parts) == 0 {
		return ""
	}
	return " [" + strings.Join(parts, " ") + "]"
}
