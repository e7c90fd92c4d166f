package packet

import (
	"fmt"

	"github.com/danmuck/pktdecode/internal/protocol/bitio"
)

// Options tunes structural validation during Decode.
type Options struct {
	// MaxDepth bounds operator nesting; 0 means unlimited.
	MaxDepth int
	// StrictPadding rejects set bits after the outermost packet.
	StrictPadding bool
}

func DefaultOptions() Options {
	return Options{MaxDepth: 1024}
}

// DecodeHex parses s as a hex transmission and decodes its outermost packet.
func DecodeHex(s string, opts Options) (*Packet, error) {
	tx, err := bitio.ParseHex(s)
	if err != nil {
		return nil, err
	}
	return Decode(tx, opts)
}

// Decode reads the outermost packet of tx. Any failure aborts the whole
// tree; no partial packet is returned.
func Decode(tx bitio.Transmission, opts Options) (*Packet, error) {
	d := &decoder{r: bitio.NewReader(tx), opts: opts, end: -1}
	p, err := d.packet(1)
	if err != nil {
		return nil, err
	}
	if opts.StrictPadding {
		if err := d.checkPadding(); err != nil {
			return nil, err
		}
	}
	return p, nil
}

type decoder struct {
	r    *bitio.Reader
	opts Options
	// end is the bit offset closing the innermost bit-length frame, or -1
	// outside of any such frame.
	end int
}

// read takes n bits for the field named what. Reads crossing the active
// frame end fail with ErrFramingOverrun before touching the cursor.
func (d *decoder) read(n int, what string) (uint64, error) {
	at := d.r.Pos()
	if d.end >= 0 && at+n > d.end {
		return 0, fmt.Errorf("%w: %s at bit %d crosses frame end at bit %d", ErrFramingOverrun, what, at, d.end)
	}
	v, err := d.r.ReadBits(n)
	if err != nil {
		return 0, fmt.Errorf("packet: %s at bit %d: %w", what, at, err)
	}
	return v, nil
}

func (d *decoder) packet(depth int) (*Packet, error) {
	if d.opts.MaxDepth > 0 && depth > d.opts.MaxDepth {
		return nil, fmt.Errorf("%w: depth %d at bit %d", ErrNestingTooDeep, depth, d.r.Pos())
	}

	start := d.r.Pos()
	version, err := d.read(VersionBits, "version")
	if err != nil {
		return nil, err
	}
	op, err := d.read(OpcodeBits, "opcode")
	if err != nil {
		return nil, err
	}

	p := &Packet{Version: uint8(version), Opcode: Opcode(op), Offset: start}
	if p.IsLiteral() {
		err = d.literal(p)
	} else {
		err = d.operator(p, depth)
	}
	if err != nil {
		return nil, err
	}
	p.Size = d.r.Pos() - start
	return p, nil
}

func (d *decoder) literal(p *Packet) error {
	var value uint64
	for {
		more, err := d.read(1, "literal group flag")
		if err != nil {
			return err
		}
		chunk, err := d.read(GroupBits, "literal group")
		if err != nil {
			return err
		}
		if value>>(literalMaxBits-GroupBits) != 0 {
			return fmt.Errorf("%w: packet at bit %d", ErrLiteralOverflow, p.Offset)
		}
		value = value<<GroupBits | chunk
		if more == 0 {
			break
		}
	}
	p.Value = value
	return nil
}

func (d *decoder) operator(p *Packet, depth int) error {
	selector, err := d.read(1, "length type")
	if err != nil {
		return err
	}
	p.Framing.Type = LengthType(selector)

	switch p.Framing.Type {
	case LengthBits:
		total, err := d.read(BitLengthBits, "bit length")
		if err != nil {
			return err
		}
		p.Framing.Length = uint16(total)
		start := d.r.Pos()
		end := start + int(total)
		if d.end >= 0 && end > d.end {
			return fmt.Errorf("%w: declared %d sub-packet bits at bit %d, enclosing frame ends at bit %d",
				ErrFramingOverrun, total, start, d.end)
		}
		if rem := d.r.Remaining(); int(total) > rem {
			return fmt.Errorf("packet: declared %d sub-packet bits at bit %d, have %d: %w",
				total, start, rem, bitio.ErrInsufficientData)
		}

		outer := d.end
		d.end = end
		for d.r.Pos() < end {
			child, err := d.packet(depth + 1)
			if err != nil {
				return err
			}
			p.Children = append(p.Children, child)
		}
		d.end = outer
	default:
		count, err := d.read(CountBits, "sub-packet count")
		if err != nil {
			return err
		}
		p.Framing.Length = uint16(count)
		p.Children = make([]*Packet, 0, count)
		for i := uint64(0); i < count; i++ {
			child, err := d.packet(depth + 1)
			if err != nil {
				return err
			}
			p.Children = append(p.Children, child)
		}
	}

	if len(p.Children) == 0 {
		return fmt.Errorf("%w: %s operator at bit %d", ErrEmptyOperator, p.Opcode, p.Offset)
	}
	return nil
}

func (d *decoder) checkPadding() error {
	for d.r.Remaining() > 0 {
		at := d.r.Pos()
		n := min(d.r.Remaining(), bitio.MaxWidth)
		v, err := d.r.ReadBits(n)
		if err != nil {
			return err
		}
		if v != 0 {
			return fmt.Errorf("%w: after bit %d", ErrTrailingData, at)
		}
	}
	return nil
}
