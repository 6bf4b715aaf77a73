package input

// Source yields input bytes one at a time
// ok is false when no byte arrived within the read timeout; err is reserved
// for real failures and ends decoding
type Source interface {
	Next() (b byte, ok bool, err error)
}

const escByte = 0x1b

// decodeState tracks progress through an escape sequence
type decodeState uint8

const (
	stateStart      decodeState = iota // Awaiting the first byte of a key
	stateSawEscape                     // After ESC, awaiting '[' or anything else
	stateSawBracket                    // After ESC '[', awaiting the final byte
	stateSawOther                      // After ESC + non-'[', consuming the second lookahead byte
)

// csiArrows maps the final byte of ESC [ x to its key
var csiArrows = [256]Key{
	'A': KeyArrowUp,
	'B': KeyArrowDown,
	'C': KeyArrowRight,
	'D': KeyArrowLeft,
}

// Decoder reads logical keys from a Source
type Decoder struct {
	src Source
}

// NewDecoder creates a decoder over src
func NewDecoder(src Source) *Decoder {
	return &Decoder{src: src}
}

// ReadKey blocks until one key is decoded
// Timeouts before the first byte are retried; this is the loop's only
// suspension point. A timeout inside an escape sequence ends it as KeyEscape
func (d *Decoder) ReadKey() (Key, error) {
	state := stateStart
	for {
		b, ok, err := d.src.Next()
		if err != nil {
			return 0, err
		}

		switch state {
		case stateStart:
			if !ok {
				continue
			}
			if b != escByte {
				return Literal(b), nil
			}
			state = stateSawEscape

		case stateSawEscape:
			if !ok {
				return KeyEscape, nil
			}
			if b == '[' {
				state = stateSawBracket
			} else {
				state = stateSawOther
			}

		case stateSawBracket:
			if !ok {
				return KeyEscape, nil
			}
			if k := csiArrows[b]; k != 0 {
				return k, nil
			}
			return KeyEscape, nil

		case stateSawOther:
			return KeyEscape, nil
		}
	}
}
