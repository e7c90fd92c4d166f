package packet

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/danmuck/pktdecode/internal/protocol/bitio"
	"github.com/google/go-cmp/cmp"
)

// fromBits packs a string of '0'/'1' into bytes, zero-padding the tail.
func fromBits(t *testing.T, s string) bitio.Transmission {
	t.Helper()
	s = strings.ReplaceAll(s, " ", "")
	out := make(bitio.Transmission, (len(s)+7)/8)
	for i, c := range s {
		switch c {
		case '1':
			out[i/8] |= 0x80 >> (i % 8)
		case '0':
		default:
			t.Fatalf("bad bit %q at %d", c, i)
		}
	}
	return out
}

func TestDecodeLiteral(t *testing.T) {
	p, err := DecodeHex("D2FE28", Options{})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := &Packet{Version: 6, Opcode: OpLiteral, Value: 2021, Offset: 0, Size: 21}
	if diff := cmp.Diff(want, p); diff != "" {
		t.Fatalf("literal mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeOperatorBitLength(t *testing.T) {
	p, err := DecodeHex("38006F45291200", Options{})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := &Packet{
		Version: 1,
		Opcode:  OpLess,
		Framing: Framing{Type: LengthBits, Length: 27},
		Children: []*Packet{
			{Version: 6, Opcode: OpLiteral, Value: 10, Offset: 22, Size: 11},
			{Version: 2, Opcode: OpLiteral, Value: 20, Offset: 33, Size: 16},
		},
		Offset: 0,
		Size:   49,
	}
	if diff := cmp.Diff(want, p); diff != "" {
		t.Fatalf("operator mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeOperatorCount(t *testing.T) {
	p, err := DecodeHex("EE00D40C823060", Options{})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := &Packet{
		Version: 7,
		Opcode:  OpMaximum,
		Framing: Framing{Type: LengthCount, Length: 3},
		Children: []*Packet{
			{Version: 2, Opcode: OpLiteral, Value: 1, Offset: 18, Size: 11},
			{Version: 4, Opcode: OpLiteral, Value: 2, Offset: 29, Size: 11},
			{Version: 1, Opcode: OpLiteral, Value: 3, Offset: 40, Size: 11},
		},
		Size: 51,
	}
	if diff := cmp.Diff(want, p); diff != "" {
		t.Fatalf("operator mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeBitLengthFramingIsExact(t *testing.T) {
	inputs := []string{
		"38006F45291200",
		"8A004A801A8002F478",
		"620080001611562C8802118E34",
		"C0015000016115A2E0802F182340",
		"A0016C880162017C3686B18A3D4780",
		"9C0141080250320F1802104A08",
	}
	for _, in := range inputs {
		p, err := DecodeHex(in, Options{})
		if err != nil {
			t.Fatalf("%s: decode: %v", in, err)
		}
		checkFraming(t, in, p)
	}
}

func checkFraming(t *testing.T, in string, p *Packet) {
	t.Helper()
	if p.IsLiteral() {
		if len(p.Children) != 0 {
			t.Fatalf("%s: literal at bit %d has children", in, p.Offset)
		}
		return
	}
	switch p.Framing.Type {
	case LengthBits:
		sum := 0
		for _, c := range p.Children {
			sum += c.Size
		}
		if sum != int(p.Framing.Length) {
			t.Fatalf("%s: operator at bit %d declared %d bits, children use %d", in, p.Offset, p.Framing.Length, sum)
		}
	case LengthCount:
		if len(p.Children) != int(p.Framing.Length) {
			t.Fatalf("%s: operator at bit %d declared %d children, got %d", in, p.Offset, p.Framing.Length, len(p.Children))
		}
	}
	for _, c := range p.Children {
		checkFraming(t, in, c)
	}
}

func TestDecodeLiteralMultiGroupMaxValue(t *testing.T) {
	tx := fromBits(t, "000 100"+strings.Repeat("11111", 15)+"01111")
	p, err := Decode(tx, Options{})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if p.Value != math.MaxUint64 {
		t.Fatalf("expected max uint64, got %d", p.Value)
	}
}

func TestDecodeLiteralLeadingZeroGroupsDoNotOverflow(t *testing.T) {
	tx := fromBits(t, "000 100"+strings.Repeat("10000", 20)+"00101")
	p, err := Decode(tx, Options{})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if p.Value != 5 {
		t.Fatalf("expected 5, got %d", p.Value)
	}
}

func TestDecodeLiteralOverflow(t *testing.T) {
	tx := fromBits(t, "000 100 10001"+strings.Repeat("10000", 15)+"00000")
	if _, err := Decode(tx, Options{}); !errors.Is(err, ErrLiteralOverflow) {
		t.Fatalf("expected ErrLiteralOverflow, got %v", err)
	}
}

func TestDecodeFramingOverrun(t *testing.T) {
	// bit-length operator declaring 10 bits around an 11-bit literal
	tx := fromBits(t, "000 000 0 000000000001010 000 100 00001")
	_, err := Decode(tx, Options{})
	if !errors.Is(err, ErrFramingOverrun) {
		t.Fatalf("expected ErrFramingOverrun, got %v", err)
	}
}

func TestDecodeFramingOverrunBeforeEndOfData(t *testing.T) {
	// 11-bit frame around a 21-bit literal, with too little data left to
	// finish the literal either way
	tx := fromBits(t, "000 000 0 000000000001011 000 100 10001 10001 00")
	if len(tx) != 5 {
		t.Fatalf("expected a 40-bit transmission, got %d bytes", len(tx))
	}
	_, err := Decode(tx, Options{})
	if !errors.Is(err, ErrFramingOverrun) {
		t.Fatalf("expected ErrFramingOverrun, got %v", err)
	}
	if errors.Is(err, bitio.ErrInsufficientData) {
		t.Fatalf("overrun reported as insufficient data: %v", err)
	}

	padded := append(tx, 0, 0, 0)
	if _, err := Decode(padded, Options{}); !errors.Is(err, ErrFramingOverrun) {
		t.Fatalf("padded: expected ErrFramingOverrun, got %v", err)
	}
}

func TestDecodeNestedFrameExceedsEnclosingFrame(t *testing.T) {
	// outer frame holds exactly the inner header; the inner frame then
	// declares 11 bits beyond the outer frame end
	tx := fromBits(t, "000 000 0 000000000010110"+
		"000 000 0 000000000001011"+
		"000 100 00001 00000000")
	if _, err := Decode(tx, Options{}); !errors.Is(err, ErrFramingOverrun) {
		t.Fatalf("expected ErrFramingOverrun, got %v", err)
	}
}

func TestDecodeEmptyOperator(t *testing.T) {
	cases := map[string]string{
		"bits":  "000 000 0 000000000000000",
		"count": "000 000 1 00000000000",
	}
	for name, bits := range cases {
		if _, err := Decode(fromBits(t, bits), Options{}); !errors.Is(err, ErrEmptyOperator) {
			t.Fatalf("%s: expected ErrEmptyOperator, got %v", name, err)
		}
	}
}

func TestDecodeInsufficientData(t *testing.T) {
	cases := []string{
		"",
		"D2FE",         // literal cut before its last group
		"38006F452912", // bit-length frame longer than remaining data
		"EE00D40C82",   // count frame missing its last child
	}
	for _, in := range cases {
		p, err := DecodeHex(in, Options{})
		if !errors.Is(err, bitio.ErrInsufficientData) {
			t.Fatalf("%q: expected ErrInsufficientData, got %v", in, err)
		}
		if p != nil {
			t.Fatalf("%q: partial packet returned", in)
		}
	}
}

func TestDecodeHexInvalidInput(t *testing.T) {
	if _, err := DecodeHex("D2FE2Z", Options{}); !errors.Is(err, bitio.ErrInvalidHexDigit) {
		t.Fatalf("expected ErrInvalidHexDigit, got %v", err)
	}
	if _, err := DecodeHex("D2FE2", Options{}); !errors.Is(err, bitio.ErrOddLength) {
		t.Fatalf("expected ErrOddLength, got %v", err)
	}
}

func TestDecodeMaxDepth(t *testing.T) {
	const in = "8A004A801A8002F478"
	p, err := DecodeHex(in, Options{MaxDepth: 4})
	if err != nil {
		t.Fatalf("decode at depth limit: %v", err)
	}
	if Depth(p) != 4 || Count(p) != 4 {
		t.Fatalf("unexpected shape depth=%d count=%d", Depth(p), Count(p))
	}
	if _, err := DecodeHex(in, Options{MaxDepth: 3}); !errors.Is(err, ErrNestingTooDeep) {
		t.Fatalf("expected ErrNestingTooDeep, got %v", err)
	}
}

func TestDecodeStrictPadding(t *testing.T) {
	if _, err := DecodeHex("D2FE28", Options{StrictPadding: true}); err != nil {
		t.Fatalf("zero padding rejected: %v", err)
	}
	if _, err := DecodeHex("D2FE29", Options{}); err != nil {
		t.Fatalf("lenient decode: %v", err)
	}
	if _, err := DecodeHex("D2FE29", Options{StrictPadding: true}); !errors.Is(err, ErrTrailingData) {
		t.Fatalf("expected ErrTrailingData, got %v", err)
	}
}

func TestDumpRendersTree(t *testing.T) {
	p, err := DecodeHex("38006F45291200", Options{})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := "v1 less bits=27 [bit 0, 49 bits]\n" +
		"  v6 literal 10 [bit 22, 11 bits]\n" +
		"  v2 literal 20 [bit 33, 16 bits]\n"
	if got := Dump(p); got != want {
		t.Fatalf("unexpected dump:\n%s", got)
	}
}

func TestOpcodeString(t *testing.T) {
	if OpEqual.String() != "equal" || Opcode(9).String() != "opcode(9)" {
		t.Fatalf("unexpected opcode names: %s %s", OpEqual, Opcode(9))
	}
}

func FuzzDecodeHex(f *testing.F) {
	for _, seed := range []string{
		"D2FE28",
		"38006F45291200",
		"EE00D40C823060",
		"8A004A801A8002F478",
		"9C0141080250320F1802104A08",
		"",
		"00",
		"FFFFFFFF",
	} {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, in string) {
		p, err := DecodeHex(in, DefaultOptions())
		if err == nil && p == nil {
			t.Fatalf("%q: nil packet without error", in)
		}
		if err != nil && p != nil {
			t.Fatalf("%q: packet returned with error %v", in, err)
		}
	})
}
