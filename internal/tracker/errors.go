package tracker

import "errors"

var (
	// ErrInvalidAmount is returned when an amount is not strictly positive.
	ErrInvalidAmount = errors.New("amount must be positive")
	// ErrInvalidDate is returned when a stored date cannot be parsed.
	ErrInvalidDate = errors.New("invalid expense date")
)
