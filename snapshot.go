package gridsheet

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedSnapshot is returned by Decode for text that is not a usable snapshot.
var ErrMalformedSnapshot = errors.New("malformed snapshot")

// Snapshot is the persisted form of a Sheet.
type Snapshot struct {
	Grid       [][]Cell  `json:"grid"`
	ColWidths  []float64 `json:"colWidths"`
	RowHeights []float64 `json:"rowHeights"`
	Merges     []Rect    `json:"merges"`
}

// Snapshot returns the persisted form of s.
func (s *Sheet) Snapshot() Snapshot {
	return Snapshot{
		Grid:       s.grid.Cells(),
		ColWidths:  s.colWidths.Clone(),
		RowHeights: s.rowHeights.Clone(),
		Merges:     append([]Rect{}, s.merges.Regions()...),
	}
}

// Save encodes s as snapshot text.
func (s *Sheet) Save() (string, error) {
	return Encode(s.Snapshot())
}

// Encode renders a snapshot as JSON text.
func Encode(snap Snapshot) (string, error) {
	if snap.Merges == nil {
		snap.Merges = []Rect{}
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}
	return string(data), nil
}

// Decode parses snapshot text strictly: the JSON must be well formed and the
// grid must be non-empty and rectangular.
func Decode(text string) (Snapshot, error) {
	if strings.TrimSpace(text) == "" {
		return Snapshot{}, fmt.Errorf("%w: empty input", ErrMalformedSnapshot)
	}
	var snap Snapshot
	if err := json.Unmarshal([]byte(text), &snap); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}
	if len(snap.Grid) == 0 || len(snap.Grid[0]) == 0 {
		return Snapshot{}, fmt.Errorf("%w: %w", ErrMalformedSnapshot, ErrEmptyGrid)
	}
	cols := len(snap.Grid[0])
	for r, row := range snap.Grid {
		if len(row) != cols {
			return Snapshot{}, fmt.Errorf("%w: %w: row %d has %d cells, want %d",
				ErrMalformedSnapshot, ErrRaggedGrid, r, len(row), cols)
		}
	}
	return snap, nil
}

// Load parses snapshot text into a Sheet. It never fails: missing, empty or
// malformed input yields an empty sheet of the default dimensions. Metrics of
// the wrong length are padded or truncated with defaults, unusable merge
// regions are dropped, and missing computed values are filled in.
func Load(text string, opts ...Option) *Sheet {
	return load(text, buildOptions(opts))
}

func load(text string, o *Options) *Sheet {
	logger := o.logger.With("component", "snapshot")
	snap, err := Decode(text)
	if err != nil {
		if strings.TrimSpace(text) != "" {
			logger.Warn("snapshot unreadable, starting from an empty grid", "error", err)
		}
		return newDefaultSheet(o)
	}
	return fromSnapshot(snap, o)
}

// FromSnapshot builds a Sheet from an already decoded snapshot with the same
// repairs Load applies. It fails only for an empty or ragged grid.
func FromSnapshot(snap Snapshot, opts ...Option) (*Sheet, error) {
	g, err := GridFromCells(snap.Grid)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedSnapshot, err)
	}
	if g.Rows() == 0 {
		return nil, fmt.Errorf("%w: %w", ErrMalformedSnapshot, ErrEmptyGrid)
	}
	return fromSnapshot(snap, buildOptions(opts)), nil
}

func fromSnapshot(snap Snapshot, o *Options) *Sheet {
	logger := o.logger.With("component", "snapshot")
	g, err := GridFromCells(snap.Grid)
	if err != nil || g.Rows() == 0 {
		return newDefaultSheet(o)
	}
	s := newSheet(o)
	s.grid = g.withValidAlign()
	s.colWidths = Sizes(snap.ColWidths).Fit(g.Cols(), o.defaultColumnWidth, o.minSize)
	s.rowHeights = Sizes(snap.RowHeights).Fit(g.Rows(), o.defaultRowHeight, o.minSize)
	for _, r := range snap.Merges {
		next, err := s.Merge(r)
		if err != nil {
			logger.Warn("dropping merge region", "range", r.Normalize().String(), "error", err)
			continue
		}
		if next == s {
			logger.Warn("dropping single-cell merge region", "range", r.Normalize().String())
			continue
		}
		s.merges = next.merges
	}
	s.grid = fillComputed(s.grid, s.eval)
	return s
}

// fillComputed restores computed values a snapshot may lack without running a
// recompute pass, so stored results of stale formula chains survive a reload.
// Literal cells display their raw value; formula cells with no stored result
// are evaluated against the loaded grid.
func fillComputed(g Grid, ev *Evaluator) Grid {
	next := g.clone()
	for r, row := range g.cells {
		for c, cell := range row {
			switch {
			case !cell.IsFormula():
				next.cells[r][c].ComputedValue = cell.RawValue
			case cell.ComputedValue == "":
				next.cells[r][c].ComputedValue = ev.Evaluate(cell.RawValue, g)
			}
		}
	}
	return next
}
