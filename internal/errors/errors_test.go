package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorType_Constants(t *testing.T) {
	tests := []struct {
		name     string
		errType  ErrorType
		expected string
	}{
		{
			name:     "input error type",
			errType:  ErrTypeInput,
			expected: "INPUT",
		},
		{
			name:     "parsing error type",
			errType:  ErrTypeParsing,
			expected: "PARSING",
		},
		{
			name:     "sequence error type",
			errType:  ErrTypeSequence,
			expected: "SEQUENCE",
		},
		{
			name:     "persist error type",
			errType:  ErrTypePersist,
			expected: "PERSIST",
		},
		{
			name:     "config error type",
			errType:  ErrTypeConfig,
			expected: "CONFIG",
		},
		{
			name:     "validation error type",
			errType:  ErrTypeValidation,
			expected: "VALIDATION",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(tt.errType))
		})
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name        string
		appError    *AppError
		wantMessage string
	}{
		{
			name: "error without cause",
			appError: &AppError{
				Type:    ErrTypeInput,
				Message: "required column missing",
				Cause:   nil,
			},
			wantMessage: "[INPUT] required column missing",
		},
		{
			name: "error with cause",
			appError: &AppError{
				Type:    ErrTypePersist,
				Message: "failed to write report",
				Cause:   fmt.Errorf("disk full"),
			},
			wantMessage: "[PERSIST] failed to write report: disk full",
		},
		{
			name: "error with wrapped cause",
			appError: &AppError{
				Type:    ErrTypeInput,
				Message: "failed to open workbook",
				Cause:   errors.New("no such file or directory"),
			},
			wantMessage: "[INPUT] failed to open workbook: no such file or directory",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.appError.Error()
			assert.Equal(t, tt.wantMessage, got)
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("underlying failure")
	appErr := NewInputError("workbook unreadable", cause)

	assert.Equal(t, cause, appErr.Unwrap())
	assert.True(t, errors.Is(appErr, cause))

	var target *AppError
	require.True(t, errors.As(appErr, &target))
	assert.Equal(t, ErrTypeInput, target.Type)
}

func TestAppError_WithContext(t *testing.T) {
	err := NewInputError("sheet not found", nil).
		WithContext("sheet", "Transactions").
		WithContext("file", "sales.xlsx")

	require.NotNil(t, err.Context)
	assert.Equal(t, "Transactions", err.Context["sheet"])
	assert.Equal(t, "sales.xlsx", err.Context["file"])
}

func TestNewSequenceError(t *testing.T) {
	err := NewSequenceError("aggregate", "no cleaned transactions available")

	assert.Equal(t, ErrTypeSequence, err.Type)
	assert.Equal(t, "aggregate", Stage(err))
	assert.Contains(t, err.Error(), "[SEQUENCE]")
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		wantType ErrorType
	}{
		{
			name:     "input error",
			err:      NewInputError("missing column", nil),
			wantType: ErrTypeInput,
		},
		{
			name:     "parsing error",
			err:      NewParsingError("bad date", errors.New("parse failure")),
			wantType: ErrTypeParsing,
		},
		{
			name:     "persist error",
			err:      NewPersistError("cannot create file", errors.New("permission denied")),
			wantType: ErrTypePersist,
		},
		{
			name:     "config error",
			err:      NewConfigError("invalid ratio", nil),
			wantType: ErrTypeConfig,
		},
		{
			name:     "validation error",
			err:      NewValidationError("empty path"),
			wantType: ErrTypeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NotNil(t, tt.err)
			assert.Equal(t, tt.wantType, tt.err.Type)
			assert.True(t, IsType(tt.err, tt.wantType))
		})
	}
}

func TestIsType_NonAppError(t *testing.T) {
	assert.False(t, IsType(errors.New("plain error"), ErrTypeInput))
	assert.Equal(t, "", Stage(errors.New("plain error")))
}
