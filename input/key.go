package input

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

// Key is a logical key: a literal byte value, or one of the composite codes
// Literal bytes occupy 0-255; composites start at 1000 so they never collide
type Key int32

// Composite keys
const (
	KeyArrowLeft Key = iota + 1000
	KeyArrowRight
	KeyArrowUp
	KeyArrowDown
	KeyEscape // ESC not followed by a recognized sequence
)

// Literal bytes with names
const (
	KeyEnter     Key = '\r'
	KeyTab       Key = '\t'
	KeyBackspace Key = 0x7f
)

// Literal returns the key for a raw byte
func Literal(b byte) Key {
	return Key(b)
}

// CtrlKey returns the key produced by Ctrl+c, e.g. CtrlKey('q') is 0x11
func CtrlKey(c byte) Key {
	return Key(c & 0x1f)
}

// IsLiteral reports whether k carries a raw byte value
func (k Key) IsLiteral() bool {
	return k >= 0 && k <= 0xff
}

// Byte returns the raw byte of a literal key, 0 for composites
func (k Key) Byte() byte {
	if !k.IsLiteral() {
		return 0
	}
	return byte(k)
}

// IsArrow reports whether k is one of the four arrow keys
func (k Key) IsArrow() bool {
	return k >= KeyArrowLeft && k <= KeyArrowDown
}

// tcellKeys maps keys onto tcell's key space so display names come from one table
// DEL is listed as Backspace: that is what the backspace key sends in raw mode
var tcellKeys = map[Key]tcell.Key{
	KeyArrowUp:    tcell.KeyUp,
	KeyArrowDown:  tcell.KeyDown,
	KeyArrowLeft:  tcell.KeyLeft,
	KeyArrowRight: tcell.KeyRight,
	KeyEscape:     tcell.KeyEsc,
	KeyEnter:      tcell.KeyEnter,
	KeyTab:        tcell.KeyTab,
	KeyBackspace:  tcell.KeyBackspace,
}

// String returns a human-readable name, e.g. "Up", "Ctrl-Q", "x"
func (k Key) String() string {
	if tk, ok := tcellKeys[k]; ok {
		return tcell.KeyNames[tk]
	}
	if !k.IsLiteral() {
		return fmt.Sprintf("Key(%d)", int32(k))
	}

	b := byte(k)
	switch {
	case b >= 0x20 && b < 0x7f:
		return string(rune(b))
	case b < 0x20:
		// tcell's Ctrl keys run KeyCtrlSpace (NUL) through KeyCtrlUnderscore (0x1f)
		if name, ok := tcell.KeyNames[tcell.KeyCtrlSpace+tcell.Key(b)]; ok {
			return name
		}
	}
	return fmt.Sprintf("0x%02x", b)
}
