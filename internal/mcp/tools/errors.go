package tools

import (
	"errors"
	"fmt"
	"io/fs"

	"harlens/internal/har"
)

// Error codes for MCP tool responses.
const (
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeInvalidHAR   = "INVALID_HAR"
)

// CodedError is an error with an associated error code.
type CodedError struct {
	Code    string
	Message string
	Cause   error
}

func (e *CodedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *CodedError) Unwrap() error {
	return e.Cause
}

// ErrInvalidInput creates an invalid input error.
func ErrInvalidInput(message string) error {
	return &CodedError{Code: ErrCodeInvalidInput, Message: message}
}

// WrapLoadError codes a capture-loading failure: a missing file is
// NOT_FOUND, everything else (bad JSON, no entries) is INVALID_HAR.
func WrapLoadError(path string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return &CodedError{Code: ErrCodeNotFound, Message: fmt.Sprintf("HAR file not found: %s", path), Cause: err}
	}
	if errors.Is(err, har.ErrNoEntries) {
		return &CodedError{Code: ErrCodeInvalidHAR, Message: fmt.Sprintf("HAR file has no entries: %s", path), Cause: err}
	}
	return &CodedError{Code: ErrCodeInvalidHAR, Message: fmt.Sprintf("failed to load HAR file: %s", path), Cause: err}
}
