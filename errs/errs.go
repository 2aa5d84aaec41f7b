package errs

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
)

var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("resource not found")
	ErrUnauthorized = errors.New("access denied")
	ErrInvalidState = errors.New("invalid state transition")
)

// FieldViolation describes a single invalid input field.
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every violated field of a request, not just the first.
type ValidationError struct {
	Violations []FieldViolation
}

func NewValidationError(violations []FieldViolation) *ValidationError {
	return &ValidationError{Violations: violations}
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		fields = append(fields, v.Field)
	}
	return fmt.Sprintf("%v: %s", ErrValidation, strings.Join(fields, ", "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NotFoundError identifies a missing persisted resource.
type NotFoundError struct {
	Resource string
	ID       string
}

func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Resource, e.ID, ErrNotFound)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// AuthorizationError is returned when the caller's role or ownership does not
// allow the requested action.
type AuthorizationError struct {
	Reason string
}

func NewAuthorizationError(reason string) *AuthorizationError {
	return &AuthorizationError{Reason: reason}
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("%v: %s", ErrUnauthorized, e.Reason)
}

func (e *AuthorizationError) Unwrap() error {
	return ErrUnauthorized
}

// InvalidStateError is returned when a lifecycle transition is not allowed
// from the request's current status.
type InvalidStateError struct {
	Current   string
	Attempted string
}

func NewInvalidStateError(current, attempted string) *InvalidStateError {
	return &InvalidStateError{Current: current, Attempted: attempted}
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%v: cannot move from %s to %s", ErrInvalidState, e.Current, e.Attempted)
}

func (e *InvalidStateError) Unwrap() error {
	return ErrInvalidState
}

// HTTPStatus maps a service error to the HTTP status code the API returns.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return fiber.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrInvalidState):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// ValidationDetails extracts the violation list when err is a ValidationError,
// so controllers can echo the offending fields back to the client.
func ValidationDetails(err error) []FieldViolation {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Violations
	}
	return nil
}
