package util

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// ErrorCode classifies a DomainError for transport mapping.
type ErrorCode string

const (
	CodeNotFound     ErrorCode = "NOT_FOUND"
	CodeConflict     ErrorCode = "CONFLICT"
	CodeValidation   ErrorCode = "VALIDATION"
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"
	CodeForbidden    ErrorCode = "FORBIDDEN"
	CodeUnavailable  ErrorCode = "UNAVAILABLE"
	CodeInternal     ErrorCode = "INTERNAL"
)

// DomainError carries a machine-readable code alongside the message.
type DomainError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error { return e.Err }

func NewDomainError(code ErrorCode, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

func WrapDomainError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{Code: code, Message: message, Err: err}
}

func NotFound(message string) *DomainError     { return NewDomainError(CodeNotFound, message) }
func Conflict(message string) *DomainError     { return NewDomainError(CodeConflict, message) }
func Validation(message string) *DomainError   { return NewDomainError(CodeValidation, message) }
func Unauthorized(message string) *DomainError { return NewDomainError(CodeUnauthorized, message) }
func Forbidden(message string) *DomainError    { return NewDomainError(CodeForbidden, message) }
func Unavailable(message string) *DomainError  { return NewDomainError(CodeUnavailable, message) }

// ToDomainError normalizes an arbitrary error to a DomainError,
// translating driver sentinels along the way.
func ToDomainError(err error, fallbackMessage string) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return NotFound(fallbackMessage)
	}
	return WrapDomainError(CodeInternal, fallbackMessage, err)
}

// HTTPStatus maps an error code to its HTTP status.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case CodeNotFound:
		return 404
	case CodeConflict:
		return 409
	case CodeValidation:
		return 422
	case CodeUnauthorized:
		return 401
	case CodeForbidden:
		return 403
	case CodeUnavailable:
		return 503
	default:
		return 500
	}
}
