// Package errors provides standardized error types and helpers for rnctag.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	// ErrInvalidInput indicates invalid input or validation failure
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnsupported indicates an unsupported operation, backend or format
	ErrUnsupported = errors.New("unsupported")
	// ErrMatch indicates a token could not be located in the batch text
	ErrMatch = errors.New("tag mapping failed")
	// ErrTransport indicates the tagging service call failed
	ErrTransport = errors.New("tagging service failed")
)

// ValidationError represents an input validation error with context
type ValidationError struct {
	Field   string // Field name that failed validation
	Value   string // Value that failed validation (may be redacted)
	Message string // Human-readable error message
	Err     error  // Underlying error, if any
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}

// IOError represents an I/O operation error with context
type IOError struct {
	Operation string // Operation being performed (e.g., "read", "write", "open")
	Path      string // File/resource path involved
	Err       error  // Underlying error
}

func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to %s %s: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("failed to %s: %v", e.Operation, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// ParseError represents a parsing or deserialization error
type ParseError struct {
	Format  string // Format being parsed (e.g., "XML", "YAML", "donelaitis")
	Path    string // File path, if applicable
	Message string // Error details
	Err     error  // Underlying error, if any
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to parse %s at %s: %s", e.Format, e.Path, e.Message)
	}
	return fmt.Sprintf("failed to parse %s: %s", e.Format, e.Message)
}

func (e *ParseError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}

// UnsupportedError represents an unsupported feature or backend
type UnsupportedError struct {
	Feature string // Feature or backend that is unsupported
	Reason  string // Why it's not supported
	Err     error  // Underlying error, if any
}

func (e *UnsupportedError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("unsupported %s: %s", e.Feature, e.Reason)
	}
	return fmt.Sprintf("unsupported %s", e.Feature)
}

func (e *UnsupportedError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrUnsupported
}

// MatchFault reports a token that no sentence of the batch could absorb.
// The batch it occurred in is left unmodified.
type MatchFault struct {
	Token    string // Surface text of the unmatched token (or piece)
	Sentence int    // Index within the batch of the sentence being aligned
	Offset   int    // Byte offset of the cursor in that sentence
}

func (e *MatchFault) Error() string {
	return fmt.Sprintf("%v: %q not found after sentence %d offset %d", ErrMatch, e.Token, e.Sentence, e.Offset)
}

func (e *MatchFault) Unwrap() error {
	return ErrMatch
}

// TransportFault wraps a failure of the external tagging call.
type TransportFault struct {
	Backend string // Backend name (e.g., "donelaitis", "semantika")
	Err     error  // Underlying error
}

func (e *TransportFault) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrTransport, e.Backend, e.Err)
}

// Unwrap exposes both the sentinel and the underlying cause.
func (e *TransportFault) Unwrap() []error {
	return []error{ErrTransport, e.Err}
}

// Helper functions for creating common errors

// NewValidation creates a ValidationError
func NewValidation(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// NewIO creates an IOError
func NewIO(operation, path string, err error) *IOError {
	return &IOError{
		Operation: operation,
		Path:      path,
		Err:       err,
	}
}

// NewParse creates a ParseError
func NewParse(format, path, message string) *ParseError {
	return &ParseError{
		Format:  format,
		Path:    path,
		Message: message,
	}
}

// NewUnsupported creates an UnsupportedError
func NewUnsupported(feature, reason string) *UnsupportedError {
	return &UnsupportedError{
		Feature: feature,
		Reason:  reason,
	}
}

// NewMatchFault creates a MatchFault
func NewMatchFault(token string, sentence, offset int) *MatchFault {
	return &MatchFault{
		Token:    token,
		Sentence: sentence,
		Offset:   offset,
	}
}

// NewTransport creates a TransportFault. If err is nil, returns nil.
func NewTransport(backend string, err error) error {
	if err == nil {
		return nil
	}
	return &TransportFault{
		Backend: backend,
		Err:     err,
	}
}

// Wrap adds context to an error. If err is nil, returns nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf adds formatted context to an error. If err is nil, returns nil.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// Join wraps errors.Join for convenience
func Join(errs ...error) error {
	return errors.Join(errs...)
}

// Is wraps errors.Is for convenience
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
