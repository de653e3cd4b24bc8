package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrConflict indicates that the request conflicts with the current state of a resource.
var ErrConflict = errors.New("conflict")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = fmt.Errorf("%w: resource already exists", ErrConflict)

// ErrForbidden indicates the caller is authenticated but not allowed to act on the resource.
var ErrForbidden = errors.New("forbidden")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrDependency indicates a failure in an external collaborator (storage, email, payments).
var ErrDependency = errors.New("dependency failure")

// ErrInvalidStatusTransition is returned when a document status change is not in the transition table.
var ErrInvalidStatusTransition = fmt.Errorf("%w: invalid status transition", ErrConflict)

// ErrUnsupportedContractType is returned when a contract type has no canonical mapping.
var ErrUnsupportedContractType = fmt.Errorf("%w: unsupported contract type", ErrValidation)

// AppError carries an HTTP status and a client-facing message alongside the underlying error.
type AppError struct {
	Code    int
	Message string
	Details any
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil && e.Err.Error() != e.Message {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// ErrMissingOrganizationContext is returned when a business account omits the organization header.
var ErrMissingOrganizationContext = &AppError{
	Code:    http.StatusBadRequest,
	Message: "Organization ID is required for business accounts",
	Err:     ErrValidation,
}

// ErrNotOrganizationMember is returned when the caller has no membership in the requested organization.
var ErrNotOrganizationMember = &AppError{
	Code:    http.StatusForbidden,
	Message: "You are not a member of this organization",
	Err:     ErrForbidden,
}

// NewAppError wraps err with an HTTP status and message.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func NewValidationFailedError(message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Message: message, Err: ErrValidation}
}

// NewValidationErrorWithDetails is NewValidationFailedError with a structured details payload.
func NewValidationErrorWithDetails(message string, details any) *AppError {
	return &AppError{Code: http.StatusBadRequest, Message: message, Details: details, Err: ErrValidation}
}

func NewNotFoundError(message string) *AppError {
	return &AppError{Code: http.StatusNotFound, Message: message, Err: ErrNotFound}
}

func NewConflictError(message string) *AppError {
	return &AppError{Code: http.StatusConflict, Message: message, Err: ErrDuplicate}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{Code: http.StatusForbidden, Message: message, Err: ErrForbidden}
}

// NewDependencyError reports a failed call to an external collaborator.
func NewDependencyError(message string, err error) *AppError {
	return &AppError{Code: http.StatusBadGateway, Message: message, Err: errors.Join(ErrDependency, err)}
}

// NewInvalidTransitionError names the rejected from/to pair.
func NewInvalidTransitionError(entity, from, to string) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Message: fmt.Sprintf("Invalid %s status transition from %s to %s", entity, from, to),
		Details: map[string]string{"from": from, "to": to},
		Err:     ErrInvalidStatusTransition,
	}
}

// NewUnsupportedContractTypeError lists the accepted keys in Details.
func NewUnsupportedContractTypeError(input string, validTypes []string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Message: fmt.Sprintf("Unsupported contract type %q", input),
		Details: map[string]any{"validTypes": validTypes},
		Err:     ErrUnsupportedContractType,
	}
}

// HTTPStatus maps an error to the status code it should be rendered with.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Code != 0 {
		return appErr.Code
	}
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrDependency):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
