// Package errors provides structured error types for voxelgraph.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and the library packages
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages that name the failing file and reason
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_* / MALFORMED_*: Input validation failures
//   - *_NOT_FOUND: Resource not found
//   - DIMENSION_MISMATCH: Declared extents disagree with the data read
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeMalformedInput, "%s: line %d: not an integer", path, line)
//	if errors.Is(err, errors.ErrCodeMalformedInput) {
//	    // Handle parse error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeFileNotFound, origErr, "open %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput      Code = "INVALID_INPUT"
	ErrCodeMalformedInput    Code = "MALFORMED_INPUT"
	ErrCodeInvalidPhaseLabel Code = "INVALID_PHASE_LABEL"
	ErrCodeInvalidFormat     Code = "INVALID_FORMAT"
	ErrCodeInvalidPath       Code = "INVALID_PATH"

	// Consistency errors
	ErrCodeDimensionMismatch Code = "DIMENSION_MISMATCH"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// Prefix returns err with its message prefixed by the formatted context,
// keeping the code and cause. Errors that are not an *Error are wrapped
// with ErrCodeInternal. Prefix(nil, ...) returns nil.
func Prefix(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return &Error{
			Code:    e.Code,
			Message: fmt.Sprintf(format, args...) + ": " + e.Message,
			Cause:   e.Cause,
		}
	}
	return Wrap(ErrCodeInternal, err, format, args...)
}

// SyntaxError locates a token that failed to parse in a text input.
// It is carried as the Cause of a MALFORMED_INPUT error.
type SyntaxError struct {
	Line  int    // 1-based line number
	Token string // Offending token (empty when the line shape is wrong)
	Msg   string
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	if e.Token != "" {
		return fmt.Sprintf("line %d: %s: %q", e.Line, e.Msg, e.Token)
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// Code returns the error code for this error type.
func (e *SyntaxError) Code() Code {
	return ErrCodeMalformedInput
}
