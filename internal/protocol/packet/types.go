package packet

import "fmt"

// Field widths of the wire format.
const (
	VersionBits    = 3
	OpcodeBits     = 3
	GroupBits      = 4
	BitLengthBits  = 15
	CountBits      = 11
	literalMaxBits = 64
)

type Opcode uint8

const (
	OpSum     Opcode = 0
	OpProduct Opcode = 1
	OpMinimum Opcode = 2
	OpMaximum Opcode = 3
	OpLiteral Opcode = 4
	OpGreater Opcode = 5
	OpLess    Opcode = 6
	OpEqual   Opcode = 7
)

var opcodeNames = [...]string{
	OpSum:     "sum",
	OpProduct: "product",
	OpMinimum: "minimum",
	OpMaximum: "maximum",
	OpLiteral: "literal",
	OpGreater: "greater",
	OpLess:    "less",
	OpEqual:   "equal",
}

func (o Opcode) String() string {
	if int(o) < len(opcodeNames) {
		return opcodeNames[o]
	}
	return fmt.Sprintf("opcode(%d)", uint8(o))
}

// LengthType is the operator framing selector.
type LengthType uint8

const (
	LengthBits  LengthType = 0
	LengthCount LengthType = 1
)

func (l LengthType) String() string {
	switch l {
	case LengthBits:
		return "bits"
	case LengthCount:
		return "count"
	default:
		return fmt.Sprintf("length_type(%d)", uint8(l))
	}
}

// Framing is the declared sub-packet framing of an operator.
type Framing struct {
	Type   LengthType
	Length uint16
}

// Packet is one decoded node. Literals carry Value and no children;
// operators carry Framing and Children.
type Packet struct {
	Version  uint8
	Opcode   Opcode
	Value    uint64
	Framing  Framing
	Children []*Packet

	// Offset and Size locate the packet in the transmission, in bits.
	Offset int
	Size   int
}

func (p *Packet) IsLiteral() bool {
	return p.Opcode == OpLiteral
}

// NewLiteral builds a literal node outside of a decode.
func NewLiteral(version uint8, value uint64) *Packet {
	return &Packet{Version: version, Opcode: OpLiteral, Value: value}
}

// NewOperator builds an operator node outside of a decode.
func NewOperator(version uint8, op Opcode, children ...*Packet) *Packet {
	return &Packet{
		Version:  version,
		Opcode:   op,
		Framing:  Framing{Type: LengthCount, Length: uint16(len(children))},
		Children: children,
	}
}

// Count returns the number of packets in the tree rooted at p.
func Count(p *Packet) int {
	if p == nil {
		return 0
	}
	n := 1
	for _, c := range p.Children {
		n += Count(c)
	}
	return n
}

// Depth returns the nesting depth of the tree rooted at p.
func Depth(p *Packet) int {
	if p == nil {
		return 0
	}
	d := 0
	for _, c := range p.Children {
		if cd := Depth(c); cd > d {
			d = cd
		}
	}
	return d + 1
}
