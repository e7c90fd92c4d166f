package eval

import (
	"errors"
	"math"
	"testing"

	"github.com/danmuck/pktdecode/internal/protocol/packet"
)

func TestVersionSumExamples(t *testing.T) {
	cases := []struct {
		in   string
		want uint64
	}{
		{"8A004A801A8002F478", 16},
		{"620080001611562C8802118E34", 12},
		{"C0015000016115A2E0802F182340", 23},
		{"A0016C880162017C3686B18A3D4780", 31},
	}
	for _, tc := range cases {
		p, err := packet.DecodeHex(tc.in, packet.Options{})
		if err != nil {
			t.Fatalf("%s: decode: %v", tc.in, err)
		}
		if got := VersionSum(p); got != tc.want {
			t.Fatalf("%s: version sum got %d want %d", tc.in, got, tc.want)
		}
	}
}

func TestEvaluateExamples(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want uint64
	}{
		{"sum", "C200B40A82", 3},
		{"product", "04005AC33890", 54},
		{"minimum", "880086C3E88112", 7},
		{"maximum", "CE00C43D881120", 9},
		{"less", "D8005AC2A8F0", 1},
		{"not greater", "F600BC2D8F", 0},
		{"not equal", "9C005AC2F8F0", 0},
		{"equal", "9C0141080250320F1802104A08", 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := packet.DecodeHex(tc.in, packet.Options{})
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			got, err := Evaluate(p)
			if err != nil {
				t.Fatalf("evaluate: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %d want %d", got, tc.want)
			}
		})
	}
}

func TestVersionSumIsOrderIndependent(t *testing.T) {
	a := packet.NewLiteral(3, 1)
	b := packet.NewOperator(5, packet.OpSum, packet.NewLiteral(7, 2))
	c := packet.NewLiteral(1, 3)

	x := VersionSum(packet.NewOperator(2, packet.OpSum, a, b, c))
	y := VersionSum(packet.NewOperator(2, packet.OpSum, c, a, b))
	if x != y || x != 18 {
		t.Fatalf("expected 18 both ways, got %d and %d", x, y)
	}
}

func TestEvaluateComparisonOperandCount(t *testing.T) {
	for _, op := range []packet.Opcode{packet.OpGreater, packet.OpLess, packet.OpEqual} {
		one := packet.NewOperator(0, op, packet.NewLiteral(0, 1))
		three := packet.NewOperator(0, op, packet.NewLiteral(0, 1), packet.NewLiteral(0, 2), packet.NewLiteral(0, 3))
		for _, p := range []*packet.Packet{one, three} {
			if _, err := Evaluate(p); !errors.Is(err, ErrWrongOperandCount) {
				t.Fatalf("%s with %d operands: expected ErrWrongOperandCount, got %v", op, len(p.Children), err)
			}
		}
	}
}

func TestEvaluateFoldsSingleOperand(t *testing.T) {
	for _, op := range []packet.Opcode{packet.OpSum, packet.OpProduct, packet.OpMinimum, packet.OpMaximum} {
		got, err := Evaluate(packet.NewOperator(0, op, packet.NewLiteral(0, 42)))
		if err != nil || got != 42 {
			t.Fatalf("%s: expected 42, got %d err=%v", op, got, err)
		}
	}
}

func TestEvaluateEmptyOperator(t *testing.T) {
	if _, err := Evaluate(packet.NewOperator(0, packet.OpSum)); !errors.Is(err, ErrWrongOperandCount) {
		t.Fatalf("expected ErrWrongOperandCount, got %v", err)
	}
}

func TestEvaluateUnknownOperator(t *testing.T) {
	p := packet.NewOperator(0, packet.Opcode(9), packet.NewLiteral(0, 1))
	if _, err := Evaluate(p); !errors.Is(err, ErrUnknownOperator) {
		t.Fatalf("expected ErrUnknownOperator, got %v", err)
	}
}

func TestEvaluateOverflow(t *testing.T) {
	sum := packet.NewOperator(0, packet.OpSum, packet.NewLiteral(0, math.MaxUint64), packet.NewLiteral(0, 1))
	if _, err := Evaluate(sum); !errors.Is(err, ErrArithmeticOverflow) {
		t.Fatalf("sum: expected ErrArithmeticOverflow, got %v", err)
	}
	product := packet.NewOperator(0, packet.OpProduct, packet.NewLiteral(0, 1<<32), packet.NewLiteral(0, 1<<32))
	if _, err := Evaluate(product); !errors.Is(err, ErrArithmeticOverflow) {
		t.Fatalf("product: expected ErrArithmeticOverflow, got %v", err)
	}
}

func TestEvaluatePropagatesChildError(t *testing.T) {
	bad := packet.NewOperator(0, packet.OpLess, packet.NewLiteral(0, 1))
	p := packet.NewOperator(0, packet.OpSum, packet.NewLiteral(0, 1), bad)
	if _, err := Evaluate(p); !errors.Is(err, ErrWrongOperandCount) {
		t.Fatalf("expected nested ErrWrongOperandCount, got %v", err)
	}
	if _, err := Evaluate(nil); !errors.Is(err, ErrNilPacket) {
		t.Fatalf("expected ErrNilPacket, got %v", err)
	}
}
