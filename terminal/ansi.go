package terminal

import (
	"github.com/charmbracelet/x/ansi"
)

// Pre-allocated ANSI sequence fragments (avoid allocations during render)
var (
	// Screen
	SeqEraseScreen = []byte(ansi.EraseEntireScreen)
	SeqEraseLine   = []byte(ansi.EraseLineRight)
	SeqHome        = []byte(ansi.CursorHomePosition)

	// Cursor control
	SeqCursorHide = []byte(ansi.HideCursor)
	SeqCursorShow = []byte(ansi.ShowCursor)
	seqCursorPos  = []byte("\x1b[") // followed by row;colH

	// Geometry probe: push the cursor to the bottom-right corner, then ask where it landed
	seqCursorFar   = []byte(ansi.CursorForward(999) + ansi.CursorDown(999))
	seqCursorQuery = []byte(ansi.RequestCursorPositionReport)

	seqRIS = []byte("\x1bc") // Reset to Initial State (emergency)
)

// AppendCursorPos appends a cursor positioning sequence (0-indexed input)
// Always emits both parameters, unlike ansi.CursorPosition which collapses 1;1 to home
func AppendCursorPos(dst []byte, row, col int) []byte {
	dst = append(dst, seqCursorPos...)
	dst = appendInt(dst, row+1)
	dst = append(dst, ';')
	dst = appendInt(dst, col+1)
	return append(dst, 'H')
}

// appendInt writes an integer without allocation
// Optimized for terminal values (0-999 typical max)
func appendInt(dst []byte, n int) []byte {
	if n < 0 {
		n = 0
	}
	if n < 10 {
		return append(dst, byte(n)+'0')
	}
	if n < 100 {
		return append(dst, byte(n/10)+'0', byte(n%10)+'0')
	}
	if n < 1000 {
		return append(dst, byte(n/100)+'0', byte(n/10%10)+'0', byte(n%10)+'0')
	}
	// Fallback for >999 (rare)
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte(n%10) + '0'
		n /= 10
	}
	return append(dst, buf[i:]...)
}
