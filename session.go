package gridsheet

import (
	"errors"
	"log/slog"
)

// ErrNothingToUndo is returned by Undo and Redo when the history is empty.
var ErrNothingToUndo = errors.New("nothing to undo")

// Session is the engine as seen by the hosting shell: a titled sheet, the
// current selection and an undo/redo history. The host must serialize calls;
// a Session is not safe for concurrent use.
type Session struct {
	title     string
	sheet     *Sheet
	selection Selection
	undo      []*Sheet
	redo      []*Sheet

	opts   *Options
	logger *slog.Logger
}

// NewSession loads snapshot into a new session. An empty or malformed
// snapshot starts from the default empty grid.
func NewSession(title, snapshot string, opts ...Option) *Session {
	o := buildOptions(opts)
	return &Session{
		title:  title,
		sheet:  load(snapshot, o),
		opts:   o,
		logger: o.logger.With("component", "session", "title", title),
	}
}

// Title returns the opaque title supplied by the host.
func (s *Session) Title() string { return s.title }

// Sheet returns the current sheet.
func (s *Session) Sheet() *Sheet { return s.sheet }

// Selection returns the current selection.
func (s *Session) Selection() *Selection { return &s.selection }

// Begin starts a selection gesture at (row, col).
func (s *Session) Begin(row, col int) { s.selection.Begin(row, col) }

// Extend moves the selection focus while a gesture is in progress.
func (s *Session) Extend(row, col int) bool { return s.selection.Extend(row, col) }

// End finishes the selection gesture.
func (s *Session) End() { s.selection.End() }

// Apply runs SetRange with u over the current selection.
func (s *Session) Apply(u CellUpdate) error {
	return s.commit("set range", func(sh *Sheet) (*Sheet, error) {
		return sh.SetRange(s.selection.Rect(), u)
	})
}

// MergeSelection merges the current selection.
func (s *Session) MergeSelection() error {
	return s.commit("merge", func(sh *Sheet) (*Sheet, error) {
		return sh.Merge(s.selection.Rect())
	})
}

// UnmergeSelection removes the merge region exactly matching the current selection.
func (s *Session) UnmergeSelection() error {
	return s.commit("unmerge", func(sh *Sheet) (*Sheet, error) {
		return sh.Unmerge(s.selection.Rect()), nil
	})
}

// ResizeColumn adds delta to the width of column index.
func (s *Session) ResizeColumn(index int, delta float64) error {
	return s.commit("resize column", func(sh *Sheet) (*Sheet, error) {
		return sh.ResizeColumn(index, delta)
	})
}

// ResizeRow adds delta to the height of row index.
func (s *Session) ResizeRow(index int, delta float64) error {
	return s.commit("resize row", func(sh *Sheet) (*Sheet, error) {
		return sh.ResizeRow(index, delta)
	})
}

// AutoFitSelection fits the heights of the selected rows to their wrapped text.
func (s *Session) AutoFitSelection() error {
	return s.commit("auto-fit rows", func(sh *Sheet) (*Sheet, error) {
		r := s.selection.Rect()
		return sh.AutoFitRows(r.StartRow, r.EndRow)
	})
}

// Undo restores the sheet as it was before the last committed change.
func (s *Session) Undo() error {
	if len(s.undo) == 0 {
		return ErrNothingToUndo
	}
	prev := s.undo[len(s.undo)-1]
	s.undo = s.undo[:len(s.undo)-1]
	s.redo = append(s.redo, s.sheet)
	s.sheet = prev
	return nil
}

// Redo reapplies the last undone change.
func (s *Session) Redo() error {
	if len(s.redo) == 0 {
		return ErrNothingToUndo
	}
	next := s.redo[len(s.redo)-1]
	s.redo = s.redo[:len(s.redo)-1]
	s.undo = append(s.undo, s.sheet)
	s.sheet = next
	return nil
}

// CanUndo reports whether Undo would succeed.
func (s *Session) CanUndo() bool { return len(s.undo) > 0 }

// CanRedo reports whether Redo would succeed.
func (s *Session) CanRedo() bool { return len(s.redo) > 0 }

// Load replaces the sheet with the given snapshot and clears the history.
func (s *Session) Load(snapshot string) {
	s.sheet = load(snapshot, s.opts)
	s.undo, s.redo = nil, nil
	s.selection = Selection{}
}

// Save encodes the current sheet for the host to persist.
func (s *Session) Save() (string, error) {
	return s.sheet.Save()
}

// commit applies fn to the current sheet and records history when the sheet
// actually changed. A failed mutation leaves the session untouched.
func (s *Session) commit(op string, fn func(*Sheet) (*Sheet, error)) error {
	next, err := fn(s.sheet)
	if err != nil {
		s.logger.Debug("edit rejected", "op", op, "range", s.selection.Rect().String(), "error", err)
		return err
	}
	if next == s.sheet {
		return nil
	}
	s.undo = append(s.undo, s.sheet)
	if limit := s.opts.historyLimit; len(s.undo) > limit {
		s.undo = append([]*Sheet(nil), s.undo[len(s.undo)-limit:]...)
	}
	s.redo = nil
	s.sheet = next
	return nil
}
