package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"

	"github.com/bmatcuk/doublestar/v4"
)

// GlobError is the structured error type for gitglob.
// It carries enough context for logging, CLI output and MCP responses.
type GlobError struct {
	// Code is the unique error code (e.g., "ERR_201_FILE_NOT_FOUND").
	Code string

	// Message is the human-readable error message.
	Message string

	Category Category
	Severity Severity

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error that caused this error.
	Cause error

	// Suggestion is an actionable suggestion for the user.
	Suggestion string
}

// Error implements the error interface.
func (e *GlobError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *GlobError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a GlobError with the same code.
func (e *GlobError) Is(target error) bool {
	if t, ok := target.(*GlobError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail to the error.
func (e *GlobError) WithDetail(key, value string) *GlobError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithSuggestion adds an actionable suggestion for the user.
func (e *GlobError) WithSuggestion(suggestion string) *GlobError {
	e.Suggestion = suggestion
	return e
}

// New creates a GlobError. Category and severity derive from the code.
func New(code string, message string, cause error) *GlobError {
	return &GlobError{
		Code:     code,
		Message:  message,
		Category: categoryFromCode(code),
		Severity: severityFromCode(code),
		Cause:    cause,
	}
}

// Wrap creates a GlobError from an existing error, reusing its message.
func Wrap(code string, err error) *GlobError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// ConfigError creates a configuration-related error.
func ConfigError(message string, cause error) *GlobError {
	return New(ErrCodeConfigInvalid, message, cause)
}

// IOError creates an I/O-related error.
func IOError(message string, cause error) *GlobError {
	return New(ErrCodeReadFailed, message, cause)
}

// ValidationError creates a validation-related error.
func ValidationError(message string, cause error) *GlobError {
	return New(ErrCodeInvalidInput, message, cause)
}

// InternalError creates an internal error.
func InternalError(message string, cause error) *GlobError {
	return New(ErrCodeInternal, message, cause)
}

// FromIO classifies err from an operation on path. A GlobError already in
// the chain is returned unchanged.
func FromIO(path string, err error) *GlobError {
	if err == nil {
		return nil
	}
	var ge *GlobError
	if stderrors.As(err, &ge) {
		return ge
	}

	var out *GlobError
	switch {
	case stderrors.Is(err, context.Canceled), stderrors.Is(err, context.DeadlineExceeded):
		out = New(ErrCodeCancelled, "operation cancelled", err)
	case stderrors.Is(err, doublestar.ErrBadPattern):
		out = New(ErrCodeInvalidPattern, err.Error(), err).
			WithSuggestion("Check the glob syntax: *, ?, **, [class] and {alt,ernatives} are supported")
	case stderrors.Is(err, fs.ErrNotExist):
		out = New(ErrCodeFileNotFound, fmt.Sprintf("%s does not exist", path), err)
	case stderrors.Is(err, fs.ErrPermission):
		out = New(ErrCodeFilePermission, fmt.Sprintf("permission denied: %s", path), err)
	default:
		out = New(ErrCodeReadFailed, err.Error(), err)
	}
	if path != "" {
		out.WithDetail("path", path)
	}
	return out
}

// IsFatal checks if an error has fatal severity.
// Fatal errors should abort the current operation.
func IsFatal(err error) bool {
	var ge *GlobError
	if stderrors.As(err, &ge) {
		return ge.Severity == SeverityFatal
	}
	return false
}

// GetCode extracts the error code from a GlobError.
// Returns empty string if not a GlobError.
func GetCode(err error) string {
	var ge *GlobError
	if stderrors.As(err, &ge) {
		return ge.Code
	}
	return ""
}

// GetCategory extracts the category from a GlobError.
func GetCategory(err error) Category {
	var ge *GlobError
	if stderrors.As(err, &ge) {
		return ge.Category
	}
	return ""
}
