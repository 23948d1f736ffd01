package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloneKeepsIdentityForErrorsIs(t *testing.T) {
	err := Clone(ErrDuplicateEnrollment, "S001 already enrolled in CS0101")

	assert.True(t, errors.Is(err, ErrDuplicateEnrollment))
	assert.False(t, errors.Is(err, ErrCreditLimitExceeded))
	assert.Equal(t, "S001 already enrolled in CS0101", err.Error())
	assert.Equal(t, "student already enrolled in course", ErrDuplicateEnrollment.Message)
}

func TestFromErrorWrapsUnknownErrors(t *testing.T) {
	wrapped := fmt.Errorf("enroll: %w", Clone(ErrCreditLimitExceeded, ""))
	appErr := FromError(wrapped)
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusUnprocessableEntity, appErr.Status)

	plain := FromError(errors.New("disk on fire"))
	assert.Equal(t, ErrInternal.Code, plain.Code)
	assert.EqualError(t, plain, "internal server error: disk on fire")

	assert.Nil(t, FromError(nil))
}
