package terminal

import (
	"io"

	"github.com/pkg/errors"
)

// cursorReportMax caps the cursor position report read
const cursorReportMax = 32

// SizeQuerier reports window size via the OS primitive
type SizeQuerier interface {
	Size() (rows, cols int, err error)
}

// Prober writes escape sequences and reads the terminal's reply one byte at a time
type Prober interface {
	io.Writer
	Next() (b byte, ok bool, err error)
}

// ResolveGeometry returns the terminal's rows and columns
// The ioctl answer is used when it reports a usable size; otherwise the cursor
// is pushed to the bottom-right corner and its reported position is the size
func ResolveGeometry(q SizeQuerier, p Prober) (rows, cols int, err error) {
	rows, cols, err = q.Size()
	if err == nil && cols != 0 && rows > 0 {
		return rows, cols, nil
	}

	if _, werr := p.Write(seqCursorFar); werr != nil {
		return 0, 0, fail(OpWindowSize, errors.Wrap(werr, "move cursor to corner"))
	}
	rows, cols, perr := cursorPosition(p)
	if perr != nil {
		if err != nil {
			perr = errors.Wrapf(perr, "ioctl failed (%v), probe failed", err)
		}
		return 0, 0, fail(OpWindowSize, perr)
	}
	return rows, cols, nil
}

// cursorPosition asks for a cursor position report and parses the reply
func cursorPosition(p Prober) (rows, cols int, err error) {
	if _, err := p.Write(seqCursorQuery); err != nil {
		return 0, 0, errors.Wrap(err, "request cursor position")
	}

	var buf [cursorReportMax]byte
	n := 0
	for n < len(buf) {
		b, ok, err := p.Next()
		if err != nil {
			return 0, 0, err
		}
		if !ok {
			break
		}
		buf[n] = b
		n++
		if b == 'R' {
			break
		}
	}
	return ParseCursorReport(buf[:n])
}

// ParseCursorReport parses "ESC [ rows ; cols R"
// Anything else, including zero values, is ErrBadCursorReport; never a default size
func ParseCursorReport(resp []byte) (rows, cols int, err error) {
	if len(resp) < 2 || resp[0] != 0x1b || resp[1] != '[' {
		return 0, 0, errors.Wrap(ErrBadCursorReport, "missing ESC [ prefix")
	}
	if resp[len(resp)-1] != 'R' {
		return 0, 0, errors.Wrap(ErrBadCursorReport, "missing R terminator")
	}

	field := 0 // 0=rows, 1=cols
	digits := 0
	val := 0
	for _, b := range resp[2 : len(resp)-1] {
		switch {
		case b == ';':
			if field != 0 || digits == 0 {
				return 0, 0, errors.Wrap(ErrBadCursorReport, "expected two fields")
			}
			rows = val
			field++
			val, digits = 0, 0
		case b >= '0' && b <= '9':
			val = val*10 + int(b-'0')
			digits++
			if val > 9999 { // Sanity limit
				return 0, 0, errors.Wrap(ErrBadCursorReport, "field out of range")
			}
		default:
			return 0, 0, errors.Wrapf(ErrBadCursorReport, "unexpected byte %q", b)
		}
	}
	if field != 1 || digits == 0 {
		return 0, 0, errors.Wrap(ErrBadCursorReport, "expected two fields")
	}
	cols = val
	if rows == 0 || cols == 0 {
		return 0, 0, errors.Wrap(ErrBadCursorReport, "zero geometry")
	}
	return rows, cols, nil
}
