package analysis

import "errors"

// Analysis errors. Calculators wrap these with context, so callers should
// test with errors.Is.
var (
	// ErrInsufficientData is returned when an inventory has fewer plots than
	// an operation requires.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrInvalidArgument is returned when caller-supplied configuration is
	// outside its valid domain.
	ErrInvalidArgument = errors.New("invalid argument")
)
