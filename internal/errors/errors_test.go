package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundError_Creation(t *testing.T) {
	message := "order not found"
	err := NewNotFoundError(message)

	assert.NotNil(t, err)
	assert.Equal(t, message, err.Message)
	assert.Equal(t, message, err.Error())
}

func TestNotFoundError_IsNotFoundError(t *testing.T) {
	err := NewNotFoundError("test not found")

	notFoundErr, ok := IsNotFoundError(err)
	assert.True(t, ok)
	assert.NotNil(t, notFoundErr)
	assert.Equal(t, "test not found", notFoundErr.Message)
}

func TestNotFoundError_IsNotFoundError_Wrapped(t *testing.T) {
	err := fmt.Errorf("loading order: %w", NewNotFoundError("order X1 not found"))

	notFoundErr, ok := IsNotFoundError(err)
	assert.True(t, ok)
	assert.Equal(t, "order X1 not found", notFoundErr.Message)
}

func TestNotFoundError_IsNotFoundError_WithOtherError(t *testing.T) {
	err := errors.New("some other error")

	notFoundErr, ok := IsNotFoundError(err)
	assert.False(t, ok)
	assert.Nil(t, notFoundErr)
}

func TestValidationError_Creation(t *testing.T) {
	message := "validation failed"
	details := []ValidationDetail{
		{Field: "status", Message: "status is required"},
		{Field: "orderNumber", Message: "orderNumber is required"},
	}

	err := NewValidationError(message, details...)

	assert.NotNil(t, err)
	assert.Equal(t, message, err.Message)
	assert.Equal(t, message, err.Error())
	assert.Len(t, err.Details, 2)

	ve, ok := IsValidationError(err)
	assert.True(t, ok)
	assert.Equal(t, details, ve.Details)
}

func TestStorageError_Creation(t *testing.T) {
	cause := errors.New("permission denied")
	err := NewStorageError("writing order document", cause)

	assert.NotNil(t, err)
	assert.Equal(t, "writing order document", err.Op)
	assert.Equal(t, cause, err.Cause)
	assert.Contains(t, err.Error(), "writing order document")
	assert.Contains(t, err.Error(), "permission denied")
}

func TestStorageError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := NewStorageError("wrapper", cause)

	assert.Equal(t, cause, err.Unwrap())
	assert.True(t, errors.Is(err, cause))

	se, ok := IsStorageError(fmt.Errorf("outer: %w", err))
	assert.True(t, ok)
	assert.Equal(t, "wrapper", se.Op)
}

func TestStorageError_NilCause(t *testing.T) {
	err := NewStorageError("no cause", nil)

	assert.Equal(t, "no cause", err.Error())
	assert.Nil(t, err.Unwrap())
}
