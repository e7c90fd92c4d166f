package bitio

import "errors"

var (
	ErrInvalidHexDigit  = errors.New("bitio: invalid hex digit")
	ErrOddLength        = errors.New("bitio: odd-length hex string")
	ErrInsufficientData = errors.New("bitio: insufficient data")
	ErrInvalidWidth     = errors.New("bitio: invalid read width")
)
