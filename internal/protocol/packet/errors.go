package packet

import "errors"

var (
	ErrFramingOverrun  = errors.New("packet: framing overrun")
	ErrLiteralOverflow = errors.New("packet: literal exceeds 64 bits")
	ErrEmptyOperator   = errors.New("packet: operator has no sub-packets")
	ErrNestingTooDeep  = errors.New("packet: nesting too deep")
	ErrTrailingData    = errors.New("packet: non-zero trailing bits")
)
