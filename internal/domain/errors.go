package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidFormat is returned when data is not in the expected format.
	ErrInvalidFormat = errors.New("invalid format")

	// ErrInvalidTreeStatus is returned when a tree status is not recognised.
	ErrInvalidTreeStatus = errors.New("invalid tree status")

	// ErrEmptyInventory is returned when an inventory has no plots.
	ErrEmptyInventory = errors.New("inventory contains no plots")
)
