package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorClassification(t *testing.T) {
	t.Parallel()

	for _, err := range validationErrors {
		assert.True(t, IsValidation(err), "%v", err)
		assert.False(t, IsStateConflict(err), "%v", err)
		assert.False(t, IsPersistence(err), "%v", err)
	}

	for _, err := range stateConflictErrors {
		assert.True(t, IsStateConflict(err), "%v", err)
		assert.False(t, IsValidation(err), "%v", err)
	}

	assert.True(t, IsPersistence(UnexpectedDatabaseError))
	assert.False(t, IsValidation(assert.AnError))
	assert.False(t, IsStateConflict(assert.AnError))
	assert.False(t, IsPersistence(assert.AnError))
}

func TestClassificationSurvivesWrapping(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("%w: %w", UnexpectedDatabaseError, assert.AnError)
	assert.True(t, IsPersistence(wrapped))

	wrapped = fmt.Errorf("joining: %w", ErrGameNotFound)
	assert.True(t, IsValidation(wrapped))
}
