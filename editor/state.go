package editor

import (
	"github.com/pkg/errors"

	"github.com/lixenwraith/rawedit/input"
)

// State is the cursor and screen geometry
// Geometry is fixed at startup; the cursor always stays inside it
type State struct {
	CursorRow  int
	CursorCol  int
	ScreenRows int
	ScreenCols int
}

// NewState creates a state for a rows x cols screen with the cursor at the origin
func NewState(rows, cols int) (State, error) {
	if rows <= 0 || cols <= 0 {
		return State{}, errors.Errorf("invalid screen geometry %dx%d", rows, cols)
	}
	return State{ScreenRows: rows, ScreenCols: cols}, nil
}

// Size implements render.Screen
func (s State) Size() (rows, cols int) {
	return s.ScreenRows, s.ScreenCols
}

// Cursor implements render.Screen
func (s State) Cursor() (row, col int) {
	return s.CursorRow, s.CursorCol
}

// MoveCursor applies an arrow key, clamped to the screen; no wraparound
// Returns false for non-arrow keys and for moves blocked at an edge
func (s *State) MoveCursor(k input.Key) bool {
	row, col := s.CursorRow, s.CursorCol
	switch k {
	case input.KeyArrowLeft:
		if col > 0 {
			col--
		}
	case input.KeyArrowRight:
		if col < s.ScreenCols-1 {
			col++
		}
	case input.KeyArrowUp:
		if row > 0 {
			row--
		}
	case input.KeyArrowDown:
		if row < s.ScreenRows-1 {
			row++
		}
	default:
		return false
	}

	moved := row != s.CursorRow || col != s.CursorCol
	s.CursorRow, s.CursorCol = row, col
	return moved
}
