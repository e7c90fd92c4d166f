package bitio

import "fmt"

// MaxWidth is the widest field ReadBits can return.
const MaxWidth = 64

// Reader is a bit cursor over a Transmission. Fields are assembled
// most-significant bit first, across byte boundaries.
type Reader struct {
	data []byte
	pos  int
}

func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// ReadBits returns the next n bits as an unsigned integer. On failure the
// cursor does not move.
func (r *Reader) ReadBits(n int) (uint64, error) {
	if n < 1 || n > MaxWidth {
		return 0, fmt.Errorf("%w: %d", ErrInvalidWidth, n)
	}
	if rem := r.Remaining(); rem < n {
		return 0, fmt.Errorf("%w: need %d bits at offset %d, have %d", ErrInsufficientData, n, r.pos, rem)
	}

	var v uint64
	for i := 0; i < n; i++ {
		p := r.pos + i
		bit := (r.data[p>>3] >> (7 - uint(p&7))) & 1
		v = v<<1 | uint64(bit)
	}
	r.pos += n
	return v, nil
}

func (r *Reader) ReadBit() (bool, error) {
	v, err := r.ReadBits(1)
	if err != nil {
		return false, err
	}
	return v != 0, nil
}

// Pos is the cursor offset in bits.
func (r *Reader) Pos() int {
	return r.pos
}

// Len is the total length of the underlying data in bits.
func (r *Reader) Len() int {
	return len(r.data) * 8
}

func (r *Reader) Remaining() int {
	return r.Len() - r.pos
}
