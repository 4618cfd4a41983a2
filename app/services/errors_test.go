package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKinds(t *testing.T) {
	cause := errors.New("disk full")
	wrapped := fmt.Errorf("saving: %w", NewUnexpectedError("failed to save", cause))

	assert.Equal(t, KindUnexpected, KindOf(wrapped))
	assert.ErrorIs(t, wrapped, cause)
	assert.Equal(t, "failed to save: disk full", errors.Unwrap(wrapped).Error())

	assert.Equal(t, KindNotFound, KindOf(NewNotFoundError("Comment")))
	assert.Equal(t, "Comment not found", NewNotFoundError("Comment").Error())
	assert.Equal(t, KindValidation, KindOf(NewValidationError("bad", nil, nil)))
	assert.Equal(t, KindUnexpected, KindOf(errors.New("plain")))

	assert.Equal(t, "VALIDATION", KindValidation.String())
	assert.Equal(t, "NOT_FOUND", KindNotFound.String())
	assert.Equal(t, "UNEXPECTED", KindUnexpected.String())

	_, ok := AsError(errors.New("plain"))
	assert.False(t, ok)
}
