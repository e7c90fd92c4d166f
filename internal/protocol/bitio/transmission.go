package bitio

import "fmt"

// Transmission is the byte sequence behind one hex-encoded input line.
type Transmission []byte

// ParseHex decodes an uppercase hex string, most-significant nibble first.
// Only 0-9 and A-F are accepted.
func ParseHex(s string) (Transmission, error) {
	for i := 0; i < len(s); i++ {
		if _, ok := nibble(s[i]); !ok {
			return nil, fmt.Errorf("%w %q at position %d", ErrInvalidHexDigit, s[i], i)
		}
	}
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("%w: %d digits", ErrOddLength, len(s))
	}

	out := make(Transmission, len(s)/2)
	for i := range out {
		hi, _ := nibble(s[2*i])
		lo, _ := nibble(s[2*i+1])
		out[i] = hi<<4 | lo
	}
	return out, nil
}

// Bits is the total length of t in bits.
func (t Transmission) Bits() int {
	return len(t) * 8
}

func nibble(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	default:
		return 0, false
	}
}
