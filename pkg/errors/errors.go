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
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Install tree errors
	ErrInstallPath ErrorCode = "INSTALL_PATH"

	// FileSystem errors
	ErrFileNotFound ErrorCode = "FILE_NOT_FOUND"
	ErrFileAccess   ErrorCode = "FILE_ACCESS"
	ErrFileWrite    ErrorCode = "FILE_WRITE"
	ErrOwnership    ErrorCode = "OWNERSHIP"
)

// TuneError represents a structured error with code and details
type TuneError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *TuneError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *TuneError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *TuneError) Is(target error) bool {
	var targetErr *TuneError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new TuneError with the given code and message
func New(code ErrorCode, message string) *TuneError {
	return &TuneError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new TuneError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *TuneError {
	return &TuneError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a TuneError.
// Callers must check err for nil first when the result is returned as an error.
func Wrap(err error, code ErrorCode, message string) *TuneError {
	if err == nil {
		return nil
	}
	return &TuneError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *TuneError {
	if err == nil {
		return nil
	}
	return &TuneError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *TuneError) WithDetail(key string, value interface{}) *TuneError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *TuneError) WithDetails(details map[string]interface{}) *TuneError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var tuneErr *TuneError
	if errors.As(err, &tuneErr) {
		return tuneErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a TuneError
func GetErrorCode(err error) ErrorCode {
	var tuneErr *TuneError
	if errors.As(err, &tuneErr) {
		return tuneErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a TuneError
func GetErrorDetails(err error) map[string]interface{} {
	var tuneErr *TuneError
	if errors.As(err, &tuneErr) {
		return tuneErr.Details
	}
	return nil
}
