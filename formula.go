package gridsheet

import (
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// rangeRegex matches a range of two addresses, e.g. "A1:B12".
var rangeRegex = regexp.MustCompile(`([A-Z]+[0-9]+):([A-Z]+[0-9]+)`)

// addressRegex matches a bare address token, e.g. "C3".
var addressRegex = regexp.MustCompile(`[A-Z]+[0-9]+`)

// Evaluator computes the display value of a cell's raw text.
// It is stateless apart from its configuration and safe for concurrent use.
type Evaluator struct {
	maxRangeCells int
	logger        *slog.Logger
}

// NewEvaluator creates an Evaluator. Only WithMaxRangeCells and WithLogger apply.
func NewEvaluator(opts ...Option) *Evaluator {
	return newEvaluator(buildOptions(opts))
}

func newEvaluator(o *Options) *Evaluator {
	return &Evaluator{
		maxRangeCells: o.maxRangeCells,
		logger:        o.logger.With("component", "evaluator"),
	}
}

// Evaluate returns the computed value of raw against g. Text that does not
// start with the formula marker is returned verbatim. Any formula fault
// yields ErrorValue; Evaluate never panics on user input.
func (e *Evaluator) Evaluate(raw string, g Grid) string {
	if !IsFormula(raw) {
		return raw
	}
	res, err := e.evaluate(raw, g)
	if err != nil {
		e.logger.Debug("formula evaluation failed", "formula", raw, "error", err)
		return ErrorValue
	}
	return FormatNumber(res)
}

// Check reports whether raw is a formula that parses within the supported
// grammar. References are treated as zeros; runtime faults such as a zero
// divisor are not reported.
func (e *Evaluator) Check(raw string) error {
	if !IsFormula(raw) {
		return nil
	}
	body := strings.TrimPrefix(raw, FormulaMarker)
	expression, err := e.substitute(body, func(CellRef) float64 { return 0 })
	if err != nil {
		return err
	}
	_, err = compile(expression)
	return err
}

func (e *Evaluator) evaluate(raw string, g Grid) (res float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrUnsupportedSyntax, r)
		}
	}()
	body := strings.TrimPrefix(raw, FormulaMarker)
	expression, err := e.substitute(body, g.numericValue)
	if err != nil {
		return 0, err
	}
	return run(expression)
}

// substitute runs range expansion followed by scalar substitution, leaving an
// expression made only of numbers, lists, operators and function names.
func (e *Evaluator) substitute(body string, lookup func(CellRef) float64) (string, error) {
	var rangeErr error
	expanded := rangeRegex.ReplaceAllStringFunc(body, func(match string) string {
		if rangeErr != nil {
			return match
		}
		list, err := e.expandRange(match, lookup)
		if err != nil {
			rangeErr = err
			return match
		}
		return list
	})
	if rangeErr != nil {
		return "", rangeErr
	}
	return substituteAddresses(expanded, lookup), nil
}

// expandRange turns "A1:B2" into a list literal of the enclosed values in row-major order.
func (e *Evaluator) expandRange(match string, lookup func(CellRef) float64) (string, error) {
	first, last, _ := strings.Cut(match, ":")
	from, errFrom := ParseAddress(first)
	to, errTo := ParseAddress(last)
	if errFrom != nil || errTo != nil {
		// Unparseable endpoints read as zero, like a bad scalar reference.
		return "[0]", nil
	}
	r := NewRect(from.Row, from.Col, to.Row, to.Col)
	width, height := r.EndCol-r.StartCol+1, r.EndRow-r.StartRow+1
	if width > e.maxRangeCells || height > e.maxRangeCells/width {
		return "", fmt.Errorf("%w: range %s spans more than %d cells", ErrUnsupportedSyntax, match, e.maxRangeCells)
	}
	var sb strings.Builder
	sb.WriteByte('[')
	for row := r.StartRow; row <= r.EndRow; row++ {
		for col := r.StartCol; col <= r.EndCol; col++ {
			if row != r.StartRow || col != r.StartCol {
				sb.WriteString(", ")
			}
			sb.WriteString(literal(lookup(CellRef{Row: row, Col: col})))
		}
	}
	sb.WriteByte(']')
	return sb.String(), nil
}

// substituteAddresses replaces every bare address with its numeric value.
// A token directly followed by "(" is a function name, and a token glued to a
// preceding letter, digit, underscore or dot is part of a larger token
// (e.g. the "E5" in "1E5"); both are left alone.
func substituteAddresses(s string, lookup func(CellRef) float64) string {
	matches := addressRegex.FindAllStringIndex(s, -1)
	if len(matches) == 0 {
		return s
	}
	var b strings.Builder
	last := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		if end < len(s) && s[end] == '(' {
			continue
		}
		if start > 0 && isWordByte(s[start-1]) {
			continue
		}
		b.WriteString(s[last:start])
		n := 0.0
		if ref, err := ParseAddress(s[start:end]); err == nil {
			n = lookup(ref)
		}
		b.WriteString(literal(n))
		last = end
	}
	b.WriteString(s[last:])
	return b.String()
}

func isWordByte(c byte) bool {
	return c == '_' || c == '.' ||
		(c >= '0' && c <= '9') || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

// literal renders n so that the expression parser reads it back as the same
// number. Negative values are parenthesized so "2*-3" style joins stay valid.
func literal(n float64) string {
	if n == 0 {
		return "0"
	}
	s := strconv.FormatFloat(n, 'f', -1, 64)
	if (n != math.Trunc(n) || math.Abs(n) >= 1e15) && !strings.Contains(s, ".") {
		s += ".0"
	}
	if n < 0 {
		return "(" + s + ")"
	}
	return s
}

// FormatNumber renders a computed number for display: integers without a
// decimal point, everything else in the shortest round-trip form.
func FormatNumber(n float64) string {
	if n == 0 {
		return "0"
	}
	if math.Abs(n) >= 1e21 {
		return strconv.FormatFloat(n, 'g', -1, 64)
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// ToNumber coerces cell text to a number. Blank or non-numeric text is 0.
func ToNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	return n
}
