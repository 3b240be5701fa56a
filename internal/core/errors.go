// internal/core/errors.go
package core

import "fmt"

// Error represents a structured error with code and optional cause.
type Error struct {
	Code    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is matching by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// WrapError creates a new error with the same code but with a cause.
func WrapError(base *Error, cause error) *Error {
	return &Error{
		Code:    base.Code,
		Message: base.Message,
		Cause:   cause,
	}
}

// Errorf wraps base with a formatted cause.
func Errorf(base *Error, format string, args ...any) *Error {
	return WrapError(base, fmt.Errorf(format, args...))
}

// Predefined errors
var (
	// Pipeline errors, one per terminal failure of a run
	ErrEmptyData = &Error{Code: "NO_DATA", Message: "no data found, check stock symbol"}
	ErrStatTest  = &Error{Code: "STAT_TEST_FAILED", Message: "stationarity test failed"}
	ErrModelFit  = &Error{Code: "MODEL_FIT_FAILED", Message: "model fitting failed"}

	// Input errors
	ErrInvalidQuery = &Error{Code: "INVALID_QUERY", Message: "invalid forecast query"}

	// Collector errors
	ErrCollectorFailed      = &Error{Code: "COLLECTOR_FAILED", Message: "collector failed"}
	ErrCollectorUnavailable = &Error{Code: "COLLECTOR_UNAVAILABLE", Message: "no collector available"}

	// Config errors
	ErrConfigInvalid = &Error{Code: "CONFIG_INVALID", Message: "configuration invalid"}
	ErrConfigMissing = &Error{Code: "CONFIG_MISSING", Message: "required configuration missing"}

	// LLM errors
	ErrLLMFailed = &Error{Code: "LLM_FAILED", Message: "LLM request failed"}
)
