package storage

import "errors"

// Storage errors shared by the transaction readers.
var (
	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNullValue is returned when a column that must be present (time, class)
	// holds NULL.
	ErrNullValue = errors.New("null value in required column")
)
