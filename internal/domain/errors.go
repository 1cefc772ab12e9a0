package domain

import (
	"errors"
	"fmt"
)

type ErrorCode string

const (
	CodeValidation ErrorCode = "validation"
	CodeNotFound   ErrorCode = "not_found"
	CodeTransport  ErrorCode = "transport"
	CodeAuth       ErrorCode = "auth"
	CodeService    ErrorCode = "service"
	CodeCancelled  ErrorCode = "cancelled"
	CodeProtocol   ErrorCode = "protocol"
	CodeInternal   ErrorCode = "internal"
)

// AppError is the typed failure surfaced by the store and client layers.
// Callers branch on Code; Cause carries the underlying error for %w chains.
type AppError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Cause)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func ValidationError(message string) *AppError {
	return &AppError{Code: CodeValidation, Message: message}
}

func NotFoundError(message string) *AppError {
	return &AppError{Code: CodeNotFound, Message: message}
}

func TransportError(message string, cause error) *AppError {
	return &AppError{Code: CodeTransport, Message: message, Cause: cause}
}

func AuthError(message string) *AppError {
	return &AppError{Code: CodeAuth, Message: message}
}

func ServiceError(message string) *AppError {
	return &AppError{Code: CodeService, Message: message}
}

func CancelledError(cause error) *AppError {
	return &AppError{Code: CodeCancelled, Message: "request cancelled", Cause: cause}
}

func ProtocolError(message string) *AppError {
	return &AppError{Code: CodeProtocol, Message: message}
}

func Internal(message string, cause error) *AppError {
	return &AppError{Code: CodeInternal, Message: message, Cause: cause}
}

// AsAppError unwraps err to an *AppError anywhere in its chain.
func AsAppError(err error) (*AppError, bool) {
	var typed *AppError
	if errors.As(err, &typed) {
		return typed, true
	}
	return nil, false
}

// HasCode reports whether err is an AppError with the given code.
func HasCode(err error, code ErrorCode) bool {
	typed, ok := AsAppError(err)
	return ok && typed.Code == code
}
