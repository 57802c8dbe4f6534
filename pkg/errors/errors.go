// Package errors provides structured error types for stackmerge.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and the merge engine
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// The merge engine reports failures with one of these codes:
//   - DECODE_ERROR: a source image is unreadable or not a raster format
//   - EMPTY_INPUT: no images were supplied
//   - INVALID_DIMENSIONS / SIZE_MISMATCH: geometry contract violations
//   - UNSUPPORTED_FORMAT: unknown output format
//   - ENCODE_ERROR: codec or destination write failure
//
// # Usage
//
//	err := errors.New(errors.ErrCodeEmptyInput, "no images to merge")
//	if errors.Is(err, errors.ErrCodeEmptyInput) {
//	    // Handle empty input
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeDecode, origErr, "decode %s", name)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input errors
	ErrCodeInvalidInput Code = "INVALID_INPUT"
	ErrCodeEmptyInput   Code = "EMPTY_INPUT"
	ErrCodeDecode       Code = "DECODE_ERROR"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Geometry contract errors
	ErrCodeInvalidDimensions Code = "INVALID_DIMENSIONS"
	ErrCodeSizeMismatch      Code = "SIZE_MISMATCH"

	// Output errors
	ErrCodeUnsupportedFormat Code = "UNSUPPORTED_FORMAT"
	ErrCodeEncode            Code = "ENCODE_ERROR"

	// Runtime errors
	ErrCodeCanceled Code = "CANCELED"
	ErrCodeInternal Code = "INTERNAL_ERROR"
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

// Canceled wraps a context error as ErrCodeCanceled.
// The result still satisfies errors.Is(err, context.Canceled).
func Canceled(cause error) *Error {
	return Wrap(ErrCodeCanceled, cause, "merge canceled")
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
// For *Error types, returns the message without the code prefix,
// followed by the cause when there is one.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return fmt.Sprintf("%s: %v", e.Message, e.Cause)
		}
		return e.Message
	}
	return err.Error()
}
