package render

import (
	"io"

	"github.com/lixenwraith/rawedit/terminal"
)

// DefaultRowMarker fills rows that have no content
const DefaultRowMarker = '~'

var rowSeparator = []byte("\r\n")

// Screen is the view of editor state a frame is drawn from
type Screen interface {
	// Size returns screen rows and columns
	Size() (rows, cols int)
	// Cursor returns the 0-based cursor row and column
	Cursor() (row, col int)
}

// Stats describes the last frame written
type Stats struct {
	Bytes   int
	Dropped int
}

// Renderer composes full-screen redraws
type Renderer struct {
	Marker        byte
	MaxFrameBytes int

	last Stats
}

// NewRenderer creates a renderer with default marker and frame cap
// A zero MaxFrameBytes means no cap
func NewRenderer() *Renderer {
	return &Renderer{Marker: DefaultRowMarker, MaxFrameBytes: DefaultMaxFrameBytes}
}

// Refresh draws one frame and writes it to w in a single call
// Order: hide cursor, home, rows, cursor position, show cursor
// The cursor stays hidden while rows repaint so the sweep isn't visible
func (r *Renderer) Refresh(w io.Writer, s Screen) error {
	buf := NewBuffer(r.MaxFrameBytes)
	defer buf.Release()

	row, col := s.Cursor()
	var tailBuf [MinFrameBytes]byte
	tail := terminal.AppendCursorPos(tailBuf[:0], row, col)
	tail = append(tail, terminal.SeqCursorShow...)

	buf.Append(terminal.SeqCursorHide)
	buf.Append(terminal.SeqHome)

	// Rows give way under the cap; the cursor must always come back
	buf.Reserve(len(tail))
	r.drawRows(buf, s)
	buf.Reserve(0)
	buf.Append(tail)

	r.last = Stats{Bytes: buf.Len(), Dropped: buf.Dropped()}
	_, err := buf.WriteTo(w)
	return err
}

// drawRows writes a marker per row, clearing stale content to the right
// No separator after the last row: a trailing newline would scroll the screen
func (r *Renderer) drawRows(buf *Buffer, s Screen) {
	marker := r.Marker
	if marker == 0 {
		marker = DefaultRowMarker
	}

	rows, _ := s.Size()
	for y := 0; y < rows; y++ {
		buf.AppendByte(marker)
		buf.Append(terminal.SeqEraseLine)
		if y < rows-1 {
			buf.Append(rowSeparator)
		}
	}
}

// LastFrame returns statistics for the most recent Refresh
func (r *Renderer) LastFrame() Stats {
	return r.last
}

// ClearScreen erases the display and homes the cursor with a direct write
// Used on the quit and fatal paths where the buffered pipeline is bypassed
func ClearScreen(w io.Writer) error {
	if _, err := w.Write(terminal.SeqEraseScreen); err != nil {
		return err
	}
	_, err := w.Write(terminal.SeqHome)
	return err
}
