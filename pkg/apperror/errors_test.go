package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name:     "without field",
			err:      New(CodeInvalidEdge, "edge T1->X references unknown node X"),
			expected: "[INVALID_EDGE] edge T1->X references unknown node X",
		},
		{
			name:     "with field",
			err:      NewWithField(CodeNegativeCapacity, "capacity is -1", "capacity"),
			expected: "[NEGATIVE_CAPACITY] capacity is -1 (field: capacity)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(cause, CodeInternal, "wrapped error")

	assert.Same(t, cause, err.Unwrap())
	assert.ErrorIs(t, err, cause)
}

func TestErrorsIs_MatchesByCode(t *testing.T) {
	err := Newf(CodeDuplicateEdge, "edge %s already exists", "T1->W1")
	wrapped := fmt.Errorf("loading network: %w", err)

	assert.ErrorIs(t, wrapped, ErrDuplicateEdge)
	assert.NotErrorIs(t, wrapped, ErrInvalidEdge)
	assert.True(t, Is(wrapped, CodeDuplicateEdge))
	assert.Equal(t, CodeDuplicateEdge, Code(wrapped))
}

func TestCode_NonApplicationError(t *testing.T) {
	assert.Equal(t, CodeInternal, Code(errors.New("boom")))
	assert.False(t, Is(errors.New("boom"), CodeInternal))
}

func TestHTTPStatusAndExitCode(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantExit   int
	}{
		{"invalid edge", New(CodeInvalidEdge, "x"), http.StatusBadRequest, 2},
		{"no terminal or store", New(CodeNoTerminalOrStore, "x"), http.StatusBadRequest, 2},
		{"unbounded flow", New(CodeUnboundedFlow, "x"), http.StatusUnprocessableEntity, 3},
		{"rate limited", New(CodeRateLimited, "x"), http.StatusTooManyRequests, 1},
		{"wrapped", fmt.Errorf("solve: %w", New(CodeNilInput, "x")), http.StatusBadRequest, 2},
		{"conservation", New(CodeConservationViolation, "x"), http.StatusInternalServerError, 1},
		{"plain error", errors.New("x"), http.StatusInternalServerError, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStatus, HTTPStatus(tt.err))
			assert.Equal(t, tt.wantExit, ExitCode(tt.err))
		})
	}

	assert.Equal(t, 0, ExitCode(nil))
}

func TestWithDetailsAndField(t *testing.T) {
	err := New(CodeInvalidCapacity, "capacity is NaN").
		WithDetails("edge", "W1->S1").
		WithField("capacity")

	assert.Equal(t, "W1->S1", err.Details["edge"])
	assert.Equal(t, "capacity", err.Field)

	// Литерал без Details тоже принимает детали
	bare := &Error{Code: CodeInternal, Message: "x"}
	assert.Equal(t, 1, bare.WithDetails("k", 1).Details["k"])
}

func TestValidationErrors(t *testing.T) {
	v := NewValidationErrors()
	assert.True(t, v.IsValid())
	assert.NoError(t, v.Err())

	v.AddError(CodeCapacityOverflow, "edge W1->S1 over capacity")
	assert.False(t, v.IsValid())
	assert.Same(t, v.Errors[0], v.Err(), "single error is returned as is")

	other := NewValidationErrors()
	other.Add(New(CodeNegativeFlow, "edge T1->W1 negative"))
	v.Merge(other)

	err := v.Err()
	require.Error(t, err)
	assert.True(t, Is(err, CodeCapacityOverflow))
	assert.Contains(t, err.Error(), "and 1 more")
	assert.Len(t, v.ErrorMessages(), 2)

	var appErr *Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, v.ErrorMessages(), appErr.Details["errors"])

	v.Merge(nil)
	assert.Len(t, v.Errors, 2)
}
