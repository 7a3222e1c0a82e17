package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/phrazzld/forest-inventory/internal/api/shared"
	"github.com/phrazzld/forest-inventory/internal/domain"
	"github.com/phrazzld/forest-inventory/internal/domain/analysis"
	"github.com/phrazzld/forest-inventory/internal/inventoryio"
	"github.com/phrazzld/forest-inventory/internal/redact"
	"github.com/phrazzld/forest-inventory/internal/service"
	"github.com/phrazzld/forest-inventory/internal/store"
)

// ErrBadRequest marks malformed requests: bad path ids, query parameters or
// bodies that cannot be decoded.
var ErrBadRequest = errors.New("bad request")

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, service.ErrDatasetNotFound),
		store.IsNotFoundError(err):
		return http.StatusNotFound

	// Conflict errors
	case store.IsDuplicateError(err):
		return http.StatusConflict

	// Not enough data to compute the requested analysis
	case errors.Is(err, analysis.ErrInsufficientData):
		return http.StatusUnprocessableEntity

	// Bad request errors
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, analysis.ErrInvalidArgument),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidFormat),
		errors.Is(err, domain.ErrInvalidTreeStatus),
		errors.Is(err, inventoryio.ErrUnsupportedFormat),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. Input and analysis errors describe the caller's
// own data and are returned redacted; anything else becomes a generic message.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, service.ErrDatasetNotFound),
		store.IsNotFoundError(err):
		return "Inventory not found"

	case store.IsDuplicateError(err):
		return "Inventory already exists"

	case errors.Is(err, analysis.ErrInsufficientData):
		return "Not enough data: " + redact.Error(err)

	case errors.Is(err, analysis.ErrInvalidArgument):
		return "Invalid analysis parameter: " + redact.Error(err)

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidFormat),
		errors.Is(err, domain.ErrInvalidTreeStatus),
		errors.Is(err, inventoryio.ErrUnsupportedFormat),
		errors.Is(err, store.ErrInvalidEntity):
		return "Invalid inventory: " + redact.Error(err)

	case errors.Is(err, ErrBadRequest):
		return redact.Error(err)

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes the status code and safe message for err. A
// non-empty message overrides the derived one.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, message string) {
	status := MapErrorToStatusCode(err)
	if message == "" {
		message = GetSafeErrorMessage(err)
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}

// SanitizeValidationError turns a validator error into a short message naming
// the offending field and rule.
func SanitizeValidationError(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return "invalid request"
	}
	fe := fieldErrs[0]
	return fmt.Sprintf("invalid %s: %s", fe.Field(), getValidationTagMessage(fe.Tag()))
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "gte", "gt":
		return "too small"
	case "lte", "lt":
		return "too large"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
