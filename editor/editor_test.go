package editor

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/rawedit/input"
	"github.com/lixenwraith/rawedit/render"
	"github.com/lixenwraith/rawedit/terminal"
)

// fakeTerm replays input bytes, then idles; after maxIdle idle reads it fails
// with err (io.EOF when unset) so a missing quit key cannot hang a test
type fakeTerm struct {
	bytes.Buffer
	in      []byte
	pos     int
	idle    int
	maxIdle int
	err     error
}

func newFakeTerm(in string) *fakeTerm {
	return &fakeTerm{in: []byte(in), maxIdle: 1000}
}

func (f *fakeTerm) Next() (byte, bool, error) {
	if f.pos < len(f.in) {
		b := f.in[f.pos]
		f.pos++
		return b, true, nil
	}
	f.idle++
	if f.idle > f.maxIdle {
		if f.err != nil {
			return 0, false, f.err
		}
		return 0, false, io.EOF
	}
	return 0, false, nil
}

const (
	up    = "\x1b[A"
	down  = "\x1b[B"
	right = "\x1b[C"
	left  = "\x1b[D"
	quit  = "\x11"
)

func mustState(t *testing.T, rows, cols int) State {
	t.Helper()
	st, err := NewState(rows, cols)
	require.NoError(t, err)
	return st
}

func TestRun_EndToEnd(t *testing.T) {
	term := newFakeTerm(down + down + right + quit)
	e := New(term, mustState(t, 24, 80))

	require.NoError(t, e.Run(context.Background()))

	st := e.State()
	assert.Equal(t, 2, st.CursorRow)
	assert.Equal(t, 1, st.CursorCol)

	out := term.String()
	assert.Equal(t, 4, strings.Count(out, "\x1b[?25l"), "one frame per loop iteration")
	assert.Contains(t, out, "\x1b[3;2H")
	assert.True(t, strings.HasSuffix(out, "\x1b[3;2H\x1b[?25h\x1b[2J\x1b[H"), "quit clears after the last frame")
}

func TestRun_QuitFromAnyPosition(t *testing.T) {
	for _, path := range []string{"", right + right, down + down + down + left, up + left} {
		term := newFakeTerm(path + quit)
		e := New(term, mustState(t, 5, 5))
		require.NoError(t, e.Run(context.Background()))
		assert.True(t, strings.HasSuffix(term.String(), "\x1b[2J\x1b[H"))
	}
}

func TestRun_CustomQuitKey(t *testing.T) {
	term := newFakeTerm(quit + "x")
	e := New(term, mustState(t, 3, 3), WithQuitKey(input.Literal('x')))
	require.NoError(t, e.Run(context.Background()))
	// Ctrl-Q is an ordinary key now, so two frames were drawn
	assert.Equal(t, 2, strings.Count(term.String(), "\x1b[?25l"))
}

func TestRun_EscapeAloneIsNoop(t *testing.T) {
	term := newFakeTerm("\x1b[Z" + right + quit)
	e := New(term, mustState(t, 3, 3))
	require.NoError(t, e.Run(context.Background()))
	assert.Equal(t, 1, e.State().CursorCol)
}

func TestRun_ReadErrorIsFatal(t *testing.T) {
	term := newFakeTerm(right)
	term.maxIdle = 3
	term.err = errors.New("input/output error")

	e := New(term, mustState(t, 24, 80))
	err := e.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, terminal.OpRead, terminal.Op(err))
	assert.ErrorIs(t, err, term.err)
	assert.NotContains(t, term.String(), "\x1b[2J", "fatal path clearing belongs to the caller")
}

func TestRun_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	term := newFakeTerm("")
	e := New(term, mustState(t, 2, 2))
	err := e.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, terminal.Op(err))
}

func TestRun_CustomRenderer(t *testing.T) {
	term := newFakeTerm(quit)
	e := New(term, mustState(t, 3, 3), WithRenderer(&render.Renderer{Marker: '.'}))
	require.NoError(t, e.Run(context.Background()))
	assert.Equal(t, 3, strings.Count(term.String(), "."))
	assert.Zero(t, strings.Count(term.String(), "~"))
}

func TestProcess(t *testing.T) {
	e := New(newFakeTerm(""), mustState(t, 10, 10))

	assert.False(t, e.Process(input.Literal('a')))
	assert.False(t, e.Process(input.KeyEscape))
	assert.False(t, e.Process(input.KeyEnter))
	assert.Equal(t, State{ScreenRows: 10, ScreenCols: 10}, e.State())

	assert.False(t, e.Process(input.KeyArrowDown))
	assert.Equal(t, 1, e.State().CursorRow)

	assert.True(t, e.Process(input.CtrlKey('q')))
}
