package errors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromErrorWrapsUnknown(t *testing.T) {
	appErr := FromError(errors.New("boom"))
	assert.Equal(t, ErrInternal.Code, appErr.Code)
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
}

func TestCloneKeepsIdentity(t *testing.T) {
	cloned := Clone(ErrNoResources, "department 3 has no available rooms or labs")
	assert.True(t, errors.Is(cloned, ErrNoResources))
	assert.False(t, errors.Is(cloned, ErrNoAssignments))
	assert.Equal(t, "NO_AVAILABLE_RESOURCES", cloned.Code)
}

func TestWrapUnwraps(t *testing.T) {
	cause := errors.New("tx aborted")
	wrapped := Wrap(cause, ErrSaveFailed.Code, ErrSaveFailed.Status, ErrSaveFailed.Message)
	assert.ErrorIs(t, wrapped, cause)
	assert.Equal(t, "failed to save routine: tx aborted", wrapped.Error())
}

func TestWithDetails(t *testing.T) {
	detailed := WithDetails(ErrScheduleConflict, map[string]string{"dimension": "SEMESTER"})
	assert.NotNil(t, detailed.Details)
	assert.Nil(t, ErrScheduleConflict.Details)
}
