package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrUsage        ErrorCode = "USAGE"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Configuration errors
	ErrConfigLoad ErrorCode = "CONFIG_LOAD"

	// Validation errors, raised before any mutation
	ErrPackNotFound ErrorCode = "PACK_NOT_FOUND"
	ErrPackInvalid  ErrorCode = "PACK_INVALID"
	ErrOutputExists ErrorCode = "OUTPUT_EXISTS"
	ErrPathClash    ErrorCode = "PATH_CLASH"

	// Pipeline errors
	ErrIndex       ErrorCode = "INDEX"
	ErrHash        ErrorCode = "HASH"
	ErrCopy        ErrorCode = "COPY"
	ErrPromptInput ErrorCode = "PROMPT_INPUT"
)

// PackmergeError represents a structured error with code and details
type PackmergeError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *PackmergeError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *PackmergeError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *PackmergeError) Is(target error) bool {
	var targetErr *PackmergeError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new PackmergeError with the given code and message
func New(code ErrorCode, message string) *PackmergeError {
	return &PackmergeError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new PackmergeError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *PackmergeError {
	return &PackmergeError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a PackmergeError
func Wrap(err error, code ErrorCode, message string) *PackmergeError {
	if err == nil {
		return nil
	}
	return &PackmergeError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *PackmergeError {
	if err == nil {
		return nil
	}
	return &PackmergeError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *PackmergeError) WithDetail(key string, value interface{}) *PackmergeError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var pmErr *PackmergeError
	if errors.As(err, &pmErr) {
		return pmErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a PackmergeError
func GetErrorCode(err error) ErrorCode {
	var pmErr *PackmergeError
	if errors.As(err, &pmErr) {
		return pmErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a PackmergeError
func GetErrorDetails(err error) map[string]interface{} {
	var pmErr *PackmergeError
	if errors.As(err, &pmErr) {
		return pmErr.Details
	}
	return nil
}

// ExitCode maps an error to the process exit status.
// Usage errors are reported but are not failures.
func ExitCode(err error) int {
	if err == nil || IsErrorCode(err, ErrUsage) {
		return 0
	}
	return 1
}
