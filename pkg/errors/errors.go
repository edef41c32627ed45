package errors

import (
	stderrors "errors"
	"fmt"
)

type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

func Wrap(err error, code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Code extracts the error code from an error chain. Any error that is not an
// AppError counts as an infrastructure failure, not a domain rejection.
func Code(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternalError
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code string) bool {
	return err != nil && Code(err) == code
}

// Common error codes
const (
	ErrCodeValidation        = "VALIDATION_ERROR"
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeUnauthorized      = "UNAUTHORIZED"
	ErrCodeForbidden         = "FORBIDDEN"
	ErrCodeInternalError     = "INTERNAL_ERROR"
	ErrCodeAlreadyExists     = "ALREADY_EXISTS"
	ErrCodeRateLimitExceeded = "RATE_LIMIT_EXCEEDED"
)

// Authenticator error codes
const (
	ErrCodeMalformedCredential = "MALFORMED_CREDENTIAL"
	ErrCodeInvalidCredential   = "INVALID_CREDENTIAL"
	ErrCodeAccountInactive     = "ACCOUNT_INACTIVE"
)

// Friend relationship error codes
const (
	ErrCodeSelfRequest      = "SELF_REQUEST"
	ErrCodeAlreadyFriends   = "ALREADY_FRIENDS"
	ErrCodeDuplicatePending = "DUPLICATE_PENDING"
	ErrCodeAlreadyAccepted  = "ALREADY_ACCEPTED"
	ErrCodeInvalidState     = "INVALID_STATE"
)
