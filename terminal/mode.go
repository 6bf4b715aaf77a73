//go:build linux || darwin || dragonfly || freebsd || netbsd || openbsd

package terminal

import (
	"sync"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// DefaultReadTimeout bounds each input read in raw mode
const DefaultReadTimeout = 100 * time.Millisecond

// attrDevice gets and sets the line-discipline attribute block of a tty
type attrDevice interface {
	GetAttr() (*unix.Termios, error)
	SetAttr(*unix.Termios) error
}

// fdAttr is the ioctl-backed attrDevice for a file descriptor
type fdAttr int

func (fd fdAttr) GetAttr() (*unix.Termios, error) {
	return unix.IoctlGetTermios(int(fd), ioctlReadTermios)
}

func (fd fdAttr) SetAttr(t *unix.Termios) error {
	return unix.IoctlSetTermios(int(fd), ioctlWriteTermios, t)
}

// Controller owns the saved termios snapshot and switches the tty between
// cooked and raw mode
type Controller struct {
	dev     attrDevice
	timeout time.Duration

	mu    sync.Mutex
	saved *unix.Termios
	raw   bool
}

// NewController creates a controller for the tty on fd
// timeout is the per-read bound installed as VTIME; zero selects DefaultReadTimeout
func NewController(fd int, timeout time.Duration) *Controller {
	return newController(fdAttr(fd), timeout)
}

func newController(dev attrDevice, timeout time.Duration) *Controller {
	if timeout <= 0 {
		timeout = DefaultReadTimeout
	}
	return &Controller{dev: dev, timeout: timeout}
}

// Capture reads the current attributes into the snapshot
// Only the first successful call records; later calls keep the original baseline
func (c *Controller) Capture() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.captureLocked()
}

func (c *Controller) captureLocked() error {
	if c.saved != nil {
		return nil
	}
	t, err := c.dev.GetAttr()
	if err != nil {
		return fail(OpGetAttr, errors.Wrap(err, "capture original attributes"))
	}
	c.saved = t
	return nil
}

// EnableRaw installs raw attributes derived from the snapshot and registers
// Restore as an exit hook before returning
func (c *Controller) EnableRaw() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.raw {
		return nil
	}
	if err := c.captureLocked(); err != nil {
		return err
	}

	// Registered first: every exit path from here on restores
	OnExit(func() { _ = c.Restore() })

	raw := makeRaw(*c.saved, c.timeout)
	if err := c.dev.SetAttr(&raw); err != nil {
		return fail(OpSetAttr, errors.Wrap(err, "enter raw mode"))
	}
	c.raw = true
	rawActive.Add(1)
	return nil
}

// Restore reapplies the snapshot. Calls after the first are no-ops
func (c *Controller) Restore() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.raw || c.saved == nil {
		return nil
	}
	orig := *c.saved
	if err := c.dev.SetAttr(&orig); err != nil {
		return fail(OpSetAttr, errors.Wrap(err, "restore original attributes"))
	}
	c.raw = false
	rawActive.Add(-1)
	return nil
}

// Raw reports whether raw mode is active
func (c *Controller) Raw() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.raw
}

// Saved returns a copy of the captured snapshot, nil before Capture
func (c *Controller) Saved() *unix.Termios {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.saved == nil {
		return nil
	}
	t := *c.saved
	return &t
}

// makeRaw derives raw attributes from orig
func makeRaw(orig unix.Termios, timeout time.Duration) unix.Termios {
	raw := orig
	// No break-to-SIGINT, no CR->NL, no parity check, keep bit 8, no XON/XOFF
	raw.Iflag &^= unix.BRKINT | unix.ICRNL | unix.INPCK | unix.ISTRIP | unix.IXON
	// No "\n" -> "\r\n" translation
	raw.Oflag &^= unix.OPOST
	raw.Cflag |= unix.CS8
	// No echo, no line buffering, no C-v literal-next, no C-c/C-z signals
	raw.Lflag &^= unix.ECHO | unix.ICANON | unix.IEXTEN | unix.ISIG
	raw.Cc[unix.VMIN] = 0
	raw.Cc[unix.VTIME] = vtime(timeout)
	return raw
}

// vtime converts a duration to VTIME deciseconds, clamped to 1..255
func vtime(d time.Duration) uint8 {
	ds := (d + 50*time.Millisecond) / (100 * time.Millisecond)
	if ds < 1 {
		return 1
	}
	if ds > 255 {
		return 255
	}
	return uint8(ds)
}
