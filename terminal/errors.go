package terminal

import (
	"github.com/pkg/errors"
)

// Op names reported in fatal diagnostics
const (
	OpGetAttr    = "tcgetattr"
	OpSetAttr    = "tcsetattr"
	OpRead       = "read"
	OpWindowSize = "getWindowSize"
	OpNotTTY     = "isatty"
)

// ErrBadCursorReport is returned when a cursor position report is malformed
var ErrBadCursorReport = errors.New("malformed cursor position report")

// ErrNotTerminal is returned when stdin is not attached to a tty
var ErrNotTerminal = errors.New("stdin is not a terminal")

// Error is a fatal terminal failure tagged with the operation that failed
// There is no degraded mode for these: the caller resets the screen and exits
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// fail wraps err as a fatal *Error for op
func fail(op string, err error) error {
	return &Error{Op: op, Err: err}
}

// Op extracts the failing operation from err, empty if err is not a terminal error
func Op(err error) string {
	var te *Error
	if errors.As(err, &te) {
		return te.Op
	}
	return ""
}
