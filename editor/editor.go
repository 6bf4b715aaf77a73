// Package editor runs the refresh / read-key / apply loop.
package editor

import (
	"context"
	"io"
	"log"

	"github.com/lixenwraith/rawedit/input"
	"github.com/lixenwraith/rawedit/render"
	"github.com/lixenwraith/rawedit/terminal"
)

// Terminal is the output stream plus the timeout-bounded byte source
type Terminal interface {
	io.Writer
	input.Source
}

// Editor owns the loop state
type Editor struct {
	term     Terminal
	renderer *render.Renderer
	quit     input.Key
	state    State
}

// Option configures an Editor
type Option func(*Editor)

// WithQuitKey sets the key that ends the loop
func WithQuitKey(k input.Key) Option {
	return func(e *Editor) { e.quit = k }
}

// WithRenderer replaces the default renderer
func WithRenderer(r *render.Renderer) Option {
	return func(e *Editor) {
		if r != nil {
			e.renderer = r
		}
	}
}

// New creates an editor drawing st on term
func New(term Terminal, st State, opts ...Option) *Editor {
	e := &Editor{
		term:     term,
		renderer: render.NewRenderer(),
		quit:     input.CtrlKey('q'),
		state:    st,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// State returns a copy of the current state
func (e *Editor) State() State {
	return e.state
}

// Process applies one key. Returns true for the quit key
func (e *Editor) Process(k input.Key) bool {
	if k == e.quit {
		return true
	}
	if k.IsArrow() {
		e.state.MoveCursor(k)
	}
	// Everything else is reserved for document editing
	return false
}

// Refresh redraws the screen
// A failed or truncated frame is logged and left for the next refresh to repair
func (e *Editor) Refresh() {
	if err := e.renderer.Refresh(e.term, e.state); err != nil {
		log.Printf("refresh: %v", err)
	}
	if st := e.renderer.LastFrame(); st.Dropped > 0 {
		log.Printf("refresh: frame over cap, dropped %d bytes", st.Dropped)
	}
}

// Run loops refresh -> read key -> apply until the quit key, a read failure,
// or ctx is done. On quit the screen is cleared and nil is returned
func (e *Editor) Run(ctx context.Context) error {
	keys := input.NewDecoder(ctxSource{ctx: ctx, src: e.term})

	for {
		e.Refresh()

		k, err := keys.ReadKey()
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if terminal.Op(err) == "" {
				err = &terminal.Error{Op: terminal.OpRead, Err: err}
			}
			return err
		}
		log.Printf("key: %v", k)

		if e.Process(k) {
			_ = render.ClearScreen(e.term)
			return nil
		}
	}
}

// ctxSource ends an idle wait once ctx is done; timeouts are where it looks
type ctxSource struct {
	ctx context.Context
	src input.Source
}

func (s ctxSource) Next() (byte, bool, error) {
	b, ok, err := s.src.Next()
	if err == nil && !ok {
		if ctxErr := s.ctx.Err(); ctxErr != nil {
			return 0, false, ctxErr
		}
	}
	return b, ok, err
}
