//go:build linux || darwin || dragonfly || freebsd || netbsd || openbsd

package terminal

import (
	"os"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// Device is the controlling tty: raw single-byte reads on the input fd,
// unbuffered writes on the output fd
type Device struct {
	in    *os.File
	out   *os.File
	inFd  int
	outFd int
}

// NewDevice wraps the given input and output files
func NewDevice(in, out *os.File) *Device {
	return &Device{
		in:    in,
		out:   out,
		inFd:  int(in.Fd()),
		outFd: int(out.Fd()),
	}
}

// Stdio returns the device for os.Stdin / os.Stdout
func Stdio() *Device {
	return NewDevice(os.Stdin, os.Stdout)
}

// InFd returns the input file descriptor, the one whose attributes are switched
func (d *Device) InFd() int {
	return d.inFd
}

// IsTerminal reports whether the input side is a tty
func (d *Device) IsTerminal() bool {
	return term.IsTerminal(d.inFd)
}

// Write writes raw bytes to the terminal output
func (d *Device) Write(p []byte) (int, error) {
	return d.out.Write(p)
}

// Next reads one byte. ok is false when nothing arrived within VTIME;
// that is routine in raw mode and not an error
func (d *Device) Next() (b byte, ok bool, err error) {
	var buf [1]byte
	for {
		n, err := unix.Read(d.inFd, buf[:])
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			// Cygwin-style ttys report a VTIME expiry as EAGAIN
			if err == unix.EAGAIN {
				return 0, false, nil
			}
			return 0, false, fail(OpRead, err)
		}
		if n == 0 {
			return 0, false, nil
		}
		return buf[0], true, nil
	}
}

// Size returns the window size reported by the kernel for the output fd
func (d *Device) Size() (rows, cols int, err error) {
	cols, rows, err = term.GetSize(d.outFd)
	return rows, cols, err
}
