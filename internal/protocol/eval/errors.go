package eval

import "errors"

var (
	ErrWrongOperandCount  = errors.New("eval: wrong operand count")
	ErrUnknownOperator    = errors.New("eval: unknown operator")
	ErrArithmeticOverflow = errors.New("eval: arithmetic overflow")
	ErrNilPacket          = errors.New("eval: nil packet")
)
