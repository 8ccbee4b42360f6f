package gridsheet

// Selection tracks the active rectangle driven by pointer gestures:
// Begin on press, Extend on drag, End on release. It is session state and is
// never persisted.
type Selection struct {
	anchor    CellRef
	focus     CellRef
	selecting bool
}

// Begin sets anchor and focus to (row, col) and starts selecting.
func (s *Selection) Begin(row, col int) {
	s.anchor = CellRef{Row: row, Col: col}
	s.focus = s.anchor
	s.selecting = true
}

// Extend moves the focus to (row, col). It has no effect unless selecting
// and reports whether the focus moved.
func (s *Selection) Extend(row, col int) bool {
	if !s.selecting {
		return false
	}
	s.focus = CellRef{Row: row, Col: col}
	return true
}

// End freezes the rectangle until the next Begin.
func (s *Selection) End() {
	s.selecting = false
}

// Selecting reports whether a gesture is in progress.
func (s *Selection) Selecting() bool { return s.selecting }

// Anchor returns the cell where the gesture started.
func (s *Selection) Anchor() CellRef { return s.anchor }

// Focus returns the cell the gesture currently points at.
func (s *Selection) Focus() CellRef { return s.focus }

// Rect returns the normalized rectangle of the anchor/focus pair.
func (s *Selection) Rect() Rect {
	return NewRect(s.anchor.Row, s.anchor.Col, s.focus.Row, s.focus.Col)
}
