// Package input turns the raw tty byte stream into logical keys.
//
// Terminals deliver multi-byte sequences byte by byte with no framing, so the
// decoder tells a lone Escape press from the start of an arrow sequence using
// only timeout-bounded single-byte reads.
package input
