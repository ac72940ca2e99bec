package common

import (
	"errors"
	"math"
)

var (
	// ErrOverflow is returned when a checked operation would wrap above the
	// native integer width. Value-moving code never wraps silently.
	ErrOverflow = errors.New("arithmetic overflow")
	// ErrUnderflow is returned when a checked subtraction would go negative.
	ErrUnderflow = errors.New("arithmetic underflow")
	// ErrDivisionByZero is returned when a checked division has a zero divisor.
	ErrDivisionByZero = errors.New("division by zero")
)

// CheckedAdd returns a+b or ErrOverflow.
func CheckedAdd(a, b uint64) (uint64, error) {
	if a > math.MaxUint64-b {
		return 0, ErrOverflow
	}
	return a + b, nil
}

// CheckedSub returns a-b or ErrUnderflow.
func CheckedSub(a, b uint64) (uint64, error) {
	if a < b {
		return 0, ErrUnderflow
	}
	return a - b, nil
}

// CheckedMul returns a*b or ErrOverflow.
func CheckedMul(a, b uint64) (uint64, error) {
	if a != 0 && b > math.MaxUint64/a {
		return 0, ErrOverflow
	}
	return a * b, nil
}

// CheckedDiv returns a/b or ErrDivisionByZero. Integer division truncates.
func CheckedDiv(a, b uint64) (uint64, error) {
	if b == 0 {
		return 0, ErrDivisionByZero
	}
	return a / b, nil
}
