package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/forest-inventory/internal/store"
)

// Common service errors - sentinel errors used across service implementations.
// Callers check for them with errors.Is; the API layer maps them to HTTP
// status codes.
var (
	// ErrDatasetNotFound indicates that the dataset does not exist or has
	// expired. API layer should map this to HTTP 404 Not Found.
	ErrDatasetNotFound = errors.New("dataset not found")

	// ErrNilInventory is returned when an import is attempted without an inventory.
	ErrNilInventory = errors.New("inventory cannot be nil")
)

// ServiceError wraps an unexpected failure with the service and operation
// that produced it.
type ServiceError struct {
	Service string
	Op      string
	Err     error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s service %s operation failed: %v", e.Service, e.Op, e.Err)
	}
	return fmt.Sprintf("%s service %s operation failed", e.Service, e.Op)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
// Store not-found errors are translated to ErrDatasetNotFound and returned
// without wrapping.
func NewServiceError(service, op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrDatasetNotFound) || errors.Is(err, store.ErrNotFound) {
		return ErrDatasetNotFound
	}
	return &ServiceError{
		Service: service,
		Op:      op,
		Err:     err,
	}
}
