package terminal

import (
	"io"
	"os"
	"sync"
	"sync/atomic"
)

// exitHooks run once, in reverse registration order, before the process exits
var exitHooks struct {
	mu    sync.Mutex
	hooks []func()
}

// exitFunc is swapped in tests
var exitFunc = os.Exit

// rawActive counts controllers currently holding the tty in raw mode
var rawActive atomic.Int32

// forceCooked is the last-resort mode reset, swapped in tests
var forceCooked = resetTerminalMode

// OnExit registers fn to run on every exit path that goes through Exit or RunExitHooks
func OnExit(fn func()) {
	exitHooks.mu.Lock()
	exitHooks.hooks = append(exitHooks.hooks, fn)
	exitHooks.mu.Unlock()
}

// RunExitHooks runs and clears all registered hooks. Safe to call multiple times
func RunExitHooks() {
	exitHooks.mu.Lock()
	hooks := exitHooks.hooks
	exitHooks.hooks = nil
	exitHooks.mu.Unlock()

	for i := len(hooks) - 1; i >= 0; i-- {
		hooks[i]()
	}
}

// Exit runs the exit hooks then terminates the process with code
func Exit(code int) {
	RunExitHooks()
	exitFunc(code)
}

// ResetScreen clears the display, homes and shows the cursor
// Best-effort for the fatal path; write errors are ignored
func ResetScreen(w io.Writer) {
	_, _ = w.Write(SeqEraseScreen)
	_, _ = w.Write(SeqHome)
	_, _ = w.Write(SeqCursorShow)
}

// EmergencyReset attempts to restore terminal to sane state
// Call this from panic recovery when the normal exit path cannot be trusted
func EmergencyReset(w io.Writer) {
	ResetScreen(w)
	_, _ = w.Write(seqRIS)

	// Flush if it's a file
	if f, ok := w.(*os.File); ok {
		_ = f.Sync()
	}

	// Escape sequences alone don't restore termios
	RunExitHooks()
	// Forced cooked flags would clobber a restored snapshot; only when a restore failed
	if rawActive.Load() > 0 {
		forceCooked()
	}
}
