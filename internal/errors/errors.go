package errors

import (
	"errors"
	"fmt"
)

// DoctorError is the structured error type for phpdoctor.
// It provides context for logging and user presentation.
type DoctorError struct {
	// Code is the unique error code (e.g., "ERR_401_DECODE_FAILED").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (Config, IO, Exec, etc.).
	Category Category

	// Severity is the error severity level.
	Severity Severity

	// Cause is the underlying error that caused this error.
	Cause error

	// Suggestion is an actionable suggestion for the user.
	Suggestion string
}

// Error implements the error interface.
func (e *DoctorError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *DoctorError) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches the target error by code.
func (e *DoctorError) Is(target error) bool {
	if t, ok := target.(*DoctorError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithSuggestion adds an actionable suggestion for the user.
// Returns the error for method chaining.
func (e *DoctorError) WithSuggestion(suggestion string) *DoctorError {
	e.Suggestion = suggestion
	return e
}

// New creates a new DoctorError with the given code and message.
// Category and severity are derived from the code.
func New(code string, message string, cause error) *DoctorError {
	return &DoctorError{
		Code:     code,
		Message:  message,
		Category: categoryFromCode(code),
		Severity: severityFromCode(code),
		Cause:    cause,
	}
}

// Wrap creates a DoctorError from an existing error.
// The error's message becomes the DoctorError message.
func Wrap(code string, err error) *DoctorError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// ConfigError creates a configuration-related error.
func ConfigError(message string, cause error) *DoctorError {
	return New(ErrCodeConfigInvalid, message, cause)
}

// ExecError creates an external command error.
func ExecError(message string, cause error) *DoctorError {
	return New(ErrCodeCommandFailed, message, cause)
}

// DecodeError creates a command output decode error.
// Decode errors are fatal: the caller must not proceed with the result.
func DecodeError(message string, cause error) *DoctorError {
	return New(ErrCodeDecodeFailed, message, cause)
}

// IsFatal reports whether err carries fatal severity.
func IsFatal(err error) bool {
	var de *DoctorError
	if errors.As(err, &de) {
		return de.Severity == SeverityFatal
	}
	return false
}

// CodeOf returns the error code of err, or empty if not a DoctorError.
func CodeOf(err error) string {
	var de *DoctorError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}
