// Package terminal provides direct control of the controlling tty.
//
// Features:
//   - Raw mode entry with exact restoration of the captured termios snapshot
//   - Window geometry via ioctl, with a cursor-position probe fallback
//   - Single-byte reads bounded by the VTIME timeout
//   - Process-wide exit hooks so restoration runs on every exit path
//
// This package bypasses terminfo/termcap entirely, emitting direct ANSI sequences.
// Target environments: Linux, macOS, BSDs with xterm-compatible terminals.
package terminal
