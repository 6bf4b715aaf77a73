package render

import (
	"io"
	"sync"
)

// DefaultMaxFrameBytes caps a single frame; appends past it are dropped
const DefaultMaxFrameBytes = 1 << 20

// MinFrameBytes is the smallest usable cap: hide, home, the widest cursor
// position (ESC[9999;9999H) and show always fit
const MinFrameBytes = 27

// initialFrameCap fits a 80x24 frame without regrowth
const initialFrameCap = 4096

// Frames above this size are not pooled so one huge frame doesn't pin memory
const maxPooledCap = 64 << 10

var framePool = sync.Pool{
	New: func() any {
		b := make([]byte, 0, initialFrameCap)
		return &b
	},
}

// Buffer accumulates one frame of output for a single write
// Append is the only mutator; the buffer lives for one refresh
type Buffer struct {
	buf      *[]byte
	limit    int
	reserved int
	dropped  int
	released bool
}

// NewBuffer takes an empty buffer from the pool
// limit <= 0 means no cap
func NewBuffer(limit int) *Buffer {
	b := framePool.Get().(*[]byte)
	*b = (*b)[:0]
	return &Buffer{buf: b, limit: limit}
}

// Append grows the buffer by p
// If the result would exceed the limit the append is dropped whole, leaving
// earlier content intact; a garbled frame self-corrects on the next refresh
func (b *Buffer) Append(p []byte) {
	if b.released {
		return
	}
	if !b.fits(len(p)) {
		b.dropped += len(p)
		return
	}
	*b.buf = append(*b.buf, p...)
}

// AppendString is Append for string constants
func (b *Buffer) AppendString(s string) {
	if b.released {
		return
	}
	if !b.fits(len(s)) {
		b.dropped += len(s)
		return
	}
	*b.buf = append(*b.buf, s...)
}

// AppendByte appends a single byte
func (b *Buffer) AppendByte(c byte) {
	if b.released {
		return
	}
	if !b.fits(1) {
		b.dropped++
		return
	}
	*b.buf = append(*b.buf, c)
}

// Extend lets fn append directly to the backing slice, e.g. for number formatting
// The result is kept only if it stays within the limit
func (b *Buffer) Extend(fn func(dst []byte) []byte) {
	if b.released {
		return
	}
	n := len(*b.buf)
	out := fn(*b.buf)
	if !b.fits(len(out) - n) {
		b.dropped += len(out) - n
		// fn may have written into spare capacity; length is what counts
		*b.buf = out[:n]
		return
	}
	*b.buf = out
}

// Reserve holds n bytes of the limit back from later appends, so content
// appended after Reserve(0) is guaranteed room. Reserve(0) lifts it
func (b *Buffer) Reserve(n int) {
	if n < 0 {
		n = 0
	}
	b.reserved = n
}

// fits reports whether n more bytes stay within the limit, minus any reservation
func (b *Buffer) fits(n int) bool {
	if b.limit <= 0 {
		return true
	}
	return len(*b.buf)+n <= b.limit-b.reserved
}

// Len returns the number of accumulated bytes
func (b *Buffer) Len() int {
	if b.released {
		return 0
	}
	return len(*b.buf)
}

// Bytes returns the accumulated content, valid until Release
func (b *Buffer) Bytes() []byte {
	if b.released {
		return nil
	}
	return *b.buf
}

// Dropped returns the number of bytes discarded by the limit
func (b *Buffer) Dropped() int {
	return b.dropped
}

// WriteTo writes the whole frame in one call. Short writes are not retried
func (b *Buffer) WriteTo(w io.Writer) (int64, error) {
	if b.released || len(*b.buf) == 0 {
		return 0, nil
	}
	n, err := w.Write(*b.buf)
	if err == nil && n < len(*b.buf) {
		err = io.ErrShortWrite
	}
	return int64(n), err
}

// Release returns the storage to the pool. Later calls are no-ops
func (b *Buffer) Release() {
	if b.released {
		return
	}
	b.released = true
	if cap(*b.buf) <= maxPooledCap {
		*b.buf = (*b.buf)[:0]
		framePool.Put(b.buf)
	}
	b.buf = nil
}
