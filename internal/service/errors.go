package service

import (
	"errors"
	"fmt"
)

var (
	ErrSymbolNotFound   = errors.New("error symbol not found")
	ErrInvalidSelection = errors.New("error invalid selection")
)

// ValidationError is detected before any remote call is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on %s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// RemoteServiceError is a failure of the remote portfolio service.
type RemoteServiceError struct {
	Op  string
	Err error
}

func (e *RemoteServiceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RemoteServiceError) Unwrap() error {
	return e.Err
}

func NewRemoteServiceError(op string, err error) *RemoteServiceError {
	return &RemoteServiceError{Op: op, Err: err}
}

// UserMessage returns the text shown to the user for err.
func UserMessage(err error) string {
	var validationErr *ValidationError
	var remoteErr *RemoteServiceError

	switch {
	case errors.As(err, &validationErr):
		return validationErr.Message
	case errors.Is(err, ErrSymbolNotFound):
		return "Symbol was not found, check the ticker and try again"
	case errors.Is(err, ErrInvalidSelection):
		return "Invalid Portfolio ID. Please select a valid portfolio and try again."
	case errors.As(err, &remoteErr):
		return "Service is temporarily unavailable, please try again later"
	default:
		return "Something went wrong, please try again later"
	}
}
