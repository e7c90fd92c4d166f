// Package eval computes results over decoded packet trees.
package eval

import (
	"fmt"
	"math/bits"

	"github.com/danmuck/pktdecode/internal/protocol/packet"
)

// VersionSum adds the version of p and every packet below it.
func VersionSum(p *packet.Packet) uint64 {
	if p == nil {
		return 0
	}
	sum := uint64(p.Version)
	for _, c := range p.Children {
		sum += VersionSum(c)
	}
	return sum
}

// Evaluate computes the value of the expression rooted at p. Children are
// evaluated before their operator is applied.
func Evaluate(p *packet.Packet) (uint64, error) {
	if p == nil {
		return 0, ErrNilPacket
	}
	if p.IsLiteral() {
		return p.Value, nil
	}

	operands := make([]uint64, 0, len(p.Children))
	for _, c := range p.Children {
		v, err := Evaluate(c)
		if err != nil {
			return 0, err
		}
		operands = append(operands, v)
	}

	switch p.Opcode {
	case packet.OpSum, packet.OpProduct, packet.OpMinimum, packet.OpMaximum:
		if len(operands) == 0 {
			return 0, operandErr(p, len(operands))
		}
		return fold(p, operands)
	case packet.OpGreater, packet.OpLess, packet.OpEqual:
		if len(operands) != 2 {
			return 0, operandErr(p, len(operands))
		}
		return compare(p.Opcode, operands[0], operands[1]), nil
	default:
		return 0, fmt.Errorf("%w: %s at bit %d", ErrUnknownOperator, p.Opcode, p.Offset)
	}
}

func fold(p *packet.Packet, operands []uint64) (uint64, error) {
	acc := operands[0]
	for _, v := range operands[1:] {
		switch p.Opcode {
		case packet.OpSum:
			sum, carry := bits.Add64(acc, v, 0)
			if carry != 0 {
				return 0, fmt.Errorf("%w: sum at bit %d", ErrArithmeticOverflow, p.Offset)
			}
			acc = sum
		case packet.OpProduct:
			hi, lo := bits.Mul64(acc, v)
			if hi != 0 {
				return 0, fmt.Errorf("%w: product at bit %d", ErrArithmeticOverflow, p.Offset)
			}
			acc = lo
		case packet.OpMinimum:
			acc = min(acc, v)
		case packet.OpMaximum:
			acc = max(acc, v)
		}
	}
	return acc, nil
}

func compare(op packet.Opcode, a, b uint64) uint64 {
	var ok bool
	switch op {
	case packet.OpGreater:
		ok = a > b
	case packet.OpLess:
		ok = a < b
	case packet.OpEqual:
		ok = a == b
	}
	if ok {
		return 1
	}
	return 0
}

func operandErr(p *packet.Packet, got int) error {
	return fmt.Errorf("%w: %s at bit %d has %d operands", ErrWrongOperandCount, p.Opcode, p.Offset, got)
}
