package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents different types of errors in the client
type ErrorType string

const (
	// ErrorTypeTransport indicates a network or HTTP failure talking to the API
	ErrorTypeTransport ErrorType = "TRANSPORT"

	// ErrorTypeNotFound indicates a resource was absent in an otherwise successful response
	ErrorTypeNotFound ErrorType = "NOT_FOUND"

	// ErrorTypeNotAuthenticated indicates the operation needs a session that does not exist
	ErrorTypeNotAuthenticated ErrorType = "NOT_AUTHENTICATED"

	// ErrorTypePaymentCancelled indicates the user dismissed the checkout sheet
	ErrorTypePaymentCancelled ErrorType = "PAYMENT_CANCELLED"

	// ErrorTypeProfileFetch indicates the profile could not be loaded
	ErrorTypeProfileFetch ErrorType = "PROFILE_FETCH"

	// ErrorTypeProfileUpdate indicates the profile could not be saved
	ErrorTypeProfileUpdate ErrorType = "PROFILE_UPDATE"

	// ErrorTypeLogout indicates persisted credentials could not be cleared
	ErrorTypeLogout ErrorType = "LOGOUT"

	// ErrorTypeValidation indicates a validation error
	ErrorTypeValidation ErrorType = "VALIDATION"

	// ErrorTypeInternal indicates an internal error
	ErrorTypeInternal ErrorType = "INTERNAL"
)

// AppError represents an application error
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements the unwrap interface
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewTransportError creates a new transport error
func NewTransportError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeTransport,
		Message: message,
		Err:     err,
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Message: message,
	}
}

// NewNotAuthenticatedError creates a new not authenticated error
func NewNotAuthenticatedError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeNotAuthenticated,
		Message: message,
	}
}

// NewPaymentCancelledError creates a new payment cancelled error
func NewPaymentCancelledError(err error) *AppError {
	return &AppError{
		Type:    ErrorTypePaymentCancelled,
		Message: "Payment cancelled by user",
		Err:     err,
	}
}

// NewProfileFetchError creates a new profile fetch error
func NewProfileFetchError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeProfileFetch,
		Message: message,
		Err:     err,
	}
}

// NewProfileUpdateError creates a new profile update error
func NewProfileUpdateError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeProfileUpdate,
		Message: message,
		Err:     err,
	}
}

// NewLogoutError creates a new logout error
func NewLogoutError(err error) *AppError {
	return &AppError{
		Type:    ErrorTypeLogout,
		Message: "Logout failed",
		Err:     err,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInternal,
		Message: message,
		Err:     err,
	}
}

// IsType reports whether err wraps an AppError of the given type
func IsType(err error, errType ErrorType) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type == errType
	}
	return false
}

// MessageOf returns the human-readable message of an AppError, or err.Error() otherwise
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
