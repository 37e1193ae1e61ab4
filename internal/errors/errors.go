// Package errors provides the structured error type (RuthlessError) used to
// classify build failures and map them to CLI exit codes.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCategory represents the category of a build error for classification.
type ErrorCategory string

const (
	// User-facing configuration and input errors
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"

	// Content pipeline errors
	CategoryParse      ErrorCategory = "parse"
	CategoryRender     ErrorCategory = "render"
	CategoryFileSystem ErrorCategory = "filesystem"

	// Runtime errors
	CategoryServe    ErrorCategory = "serve"
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal ErrorSeverity = "fatal" // Stops the build
)

// RuthlessError is a structured error with category, severity and context.
type RuthlessError struct {
	Category ErrorCategory `json:"category"`
	Severity ErrorSeverity `json:"severity"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for RuthlessError
type ContextFields map[string]any

// Error implements the error interface
func (e *RuthlessError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping
func (e *RuthlessError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *RuthlessError) WithContext(key string, value any) *RuthlessError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new RuthlessError
func New(category ErrorCategory, severity ErrorSeverity, message string) *RuthlessError {
	return &RuthlessError{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new RuthlessError that wraps an existing error
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *RuthlessError {
	return &RuthlessError{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}

// As finds the first RuthlessError in err's chain.
func As(err error) (*RuthlessError, bool) {
	var re *RuthlessError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}

// IsCategory checks if an error, or anything it wraps, belongs to a category.
func IsCategory(err error, category ErrorCategory) bool {
	if re, ok := As(err); ok {
		return re.Category == category
	}
	return false
}

// GetCategory extracts the category from an error, or returns CategoryInternal.
func GetCategory(err error) ErrorCategory {
	if re, ok := As(err); ok {
		return re.Category
	}
	return CategoryInternal
}
