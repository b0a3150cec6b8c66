package util_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/audit-chat-service/pkg/util"
)

func TestKind_StatusMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
		reason string
	}{
		{err: util.NewValidationFailed(map[string]string{"email": "is required"}), status: http.StatusBadRequest, reason: "Bad Request"},
		{err: util.NewBadRequest("malformed id"), status: http.StatusBadRequest, reason: "Bad Request"},
		{err: util.NewUnauthorized("User not authenticated"), status: http.StatusUnauthorized, reason: "Unauthorized"},
		{err: util.NewRequestTimeout("upstream deadline"), status: http.StatusRequestTimeout, reason: "Request Timeout"},
		{err: util.NewNotFound("Invalid credentials"), status: http.StatusNotFound, reason: "Not Found"},
		{err: util.NewConflict("duplicate email", nil), status: http.StatusConflict, reason: "Conflict"},
		{err: util.NewInvalidData("bad domain data", nil), status: http.StatusUnprocessableEntity, reason: "Unprocessable Entity"},
		{err: util.NewInternalError("token creation", nil), status: http.StatusInternalServerError, reason: "Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.reason+"/"+tt.err.Error(), func(t *testing.T) {
			status, envelope := util.Translate(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.status, envelope.Status)
			assert.Equal(t, tt.reason, envelope.Error)
			assert.NotEmpty(t, envelope.Timestamp)
		})
	}
}

func TestTranslate_ValidationCarriesFieldErrors(t *testing.T) {
	fields := map[string]string{"email": "must be a valid email address"}
	status, envelope := util.Translate(util.NewValidationFailed(fields))

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Validation failed", envelope.Message)
	assert.Equal(t, fields, envelope.Errors)
}

func TestTranslate_UnmappedErrorIsInternal(t *testing.T) {
	status, envelope := util.Translate(errors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Unexpected error: boom", envelope.Message)
	assert.Empty(t, envelope.Errors)
}

func TestTranslate_DeadlineExceededIsTimeout(t *testing.T) {
	status, _ := util.Translate(fmt.Errorf("query users: %w", context.DeadlineExceeded))
	assert.Equal(t, http.StatusRequestTimeout, status)
}

func TestKindOf_UnwrapsWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("login: %w", util.NewNotFound("Invalid credentials"))
	assert.Equal(t, util.KindNotFound, util.KindOf(wrapped))
	assert.Equal(t, util.KindInternal, util.KindOf(errors.New("plain")))
}

func TestDomainError_Unwrap(t *testing.T) {
	cause := errors.New("duplicate key value violates unique constraint")
	err := util.NewConflict("Conflict detected while saving user", cause)

	require.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "Conflict detected while saving user")
	assert.Contains(t, err.Error(), cause.Error())
}
