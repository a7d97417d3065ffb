package errors

import (
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeInput      ErrorType = "INPUT"
	ErrTypeParsing    ErrorType = "PARSING"
	ErrTypeSequence   ErrorType = "SEQUENCE"
	ErrTypePersist    ErrorType = "PERSIST"
	ErrTypeConfig     ErrorType = "CONFIG"
	ErrTypeValidation ErrorType = "VALIDATION"
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// Helper functions for common error types

// NewInputError creates an input-data error (missing file, sheet, or column).
// Input errors are fatal and abort the run before any artifact is written.
func NewInputError(message string, cause error) *AppError {
	return NewAppError(ErrTypeInput, message, cause)
}

// NewParsingError creates a parsing-related error
func NewParsingError(message string, cause error) *AppError {
	return NewAppError(ErrTypeParsing, message, cause)
}

// NewSequenceError creates a stage-ordering precondition error. It signals a
// usage fault such as aggregating before cleaning or rendering before
// aggregation.
func NewSequenceError(stage, message string) *AppError {
	return NewAppError(ErrTypeSequence, message, nil).WithContext("stage", stage)
}

// NewPersistError creates an artifact persistence error
func NewPersistError(message string, cause error) *AppError {
	return NewAppError(ErrTypePersist, message, cause)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// NewValidationError creates a validation error for AppError type
func NewValidationError(message string) *AppError {
	return NewAppError(ErrTypeValidation, message, nil)
}

// IsType reports whether err is an *AppError of the given type.
func IsType(err error, errType ErrorType) bool {
	appErr, ok := err.(*AppError)
	if !ok {
		return false
	}
	return appErr.Type == errType
}

// Stage extracts the failing stage name from an error's context, if present.
// The pipeline attaches it so callers can report which stage aborted the run.
func Stage(err error) string {
	appErr, ok := err.(*AppError)
	if !ok || appErr.Context == nil {
		return ""
	}
	if stage, ok := appErr.Context["stage"].(string); ok {
		return stage
	}
	return ""
}
