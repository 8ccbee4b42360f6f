package gridsheet

import (
	"fmt"
	"strings"
)

// Severity indicates the severity of a validation issue.
type Severity int

const (
	SeverityError   Severity = iota // Formula will compute #VALUE!
	SeverityWarning                 // Sheet may not show what the user expects
)

// ValidationIssue represents a single problem found in a sheet.
type ValidationIssue struct {
	Severity Severity
	CellRef  CellRef
	Message  string
}

// String formats the issue as "[ERROR] A2: message" or "[WARN] ...".
func (v ValidationIssue) String() string {
	sev := "ERROR"
	if v.Severity == SeverityWarning {
		sev = "WARN"
	}
	return fmt.Sprintf("[%s] %s: %s", sev, v.CellRef, v.Message)
}

// Validate checks the sheet statically, in row-major order: formulas that do
// not parse, references outside the grid, and content hidden under a merge.
func (s *Sheet) Validate() []ValidationIssue {
	var issues []ValidationIssue
	for r, row := range s.grid.cells {
		for c, cell := range row {
			ref := CellRef{Row: r, Col: c}
			if cell.IsFormula() {
				issues = append(issues, s.validateFormula(ref, cell.RawValue)...)
			}
			if cell.RawValue != "" && s.merges.IsHidden(r, c) {
				region, _ := s.merges.RegionAt(r, c)
				issues = append(issues, ValidationIssue{
					Severity: SeverityWarning,
					CellRef:  ref,
					Message:  fmt.Sprintf("value %q is hidden by merge %s", cell.RawValue, region),
				})
			}
		}
	}
	return issues
}

func (s *Sheet) validateFormula(ref CellRef, raw string) []ValidationIssue {
	if err := s.eval.Check(raw); err != nil {
		return []ValidationIssue{{
			Severity: SeverityError,
			CellRef:  ref,
			Message:  fmt.Sprintf("invalid formula %q: %v", raw, err),
		}}
	}
	var issues []ValidationIssue
	for _, target := range References(raw) {
		if target.Within(s.Rows(), s.Cols()) {
			continue
		}
		issues = append(issues, ValidationIssue{
			Severity: SeverityWarning,
			CellRef:  ref,
			Message:  fmt.Sprintf("reference %s is outside the %d×%d grid and reads as 0", target, s.Rows(), s.Cols()),
		})
	}
	return issues
}

// References lists the ranges a formula reads followed by its single-cell
// references (as 1×1 rectangles). Tokens that are not valid addresses are skipped.
func References(raw string) []Rect {
	if !IsFormula(raw) {
		return nil
	}
	body := strings.TrimPrefix(raw, FormulaMarker)
	var refs []Rect
	rest := rangeRegex.ReplaceAllStringFunc(body, func(match string) string {
		if r, err := ParseRange(match); err == nil {
			refs = append(refs, r)
		}
		return strings.Repeat(" ", len(match))
	})
	substituteAddresses(rest, func(ref CellRef) float64 {
		refs = append(refs, RectOf(ref))
		return 0
	})
	return refs
}
