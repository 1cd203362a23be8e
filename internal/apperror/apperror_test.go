package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	cases := map[*Error]int{
		Validation("bad", nil):       http.StatusBadRequest,
		Conflict("dup", nil):         http.StatusBadRequest,
		State("closed", nil):         http.StatusBadRequest,
		SelfDelete("self", nil):      http.StatusBadRequest,
		Auth("who", nil):             http.StatusUnauthorized,
		Forbidden("no", nil):         http.StatusForbidden,
		NotFound("gone", nil):        http.StatusNotFound,
		TooManyRequests("slow", nil): http.StatusTooManyRequests,
		Upload("storage", nil):       http.StatusInternalServerError,
		Internal("boom", nil):        http.StatusInternalServerError,
	}
	for err, want := range cases {
		assert.Equal(t, want, HTTPStatus(err), string(err.Kind))
	}

	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("plain")))
}

func TestWrappedErrorKeepsKind(t *testing.T) {
	cause := errors.New("duplicate key")
	err := fmt.Errorf("create user: %w", Conflict("User already exists", cause))

	assert.Equal(t, KindConflict, KindOf(err))
	assert.True(t, Is(err, KindConflict))
	assert.False(t, Is(err, KindNotFound))
	assert.Equal(t, "User already exists", Message(err))
	assert.ErrorIs(t, err, cause)
}

func TestMessageHidesUnknownErrors(t *testing.T) {
	assert.Equal(t, "Server Error", Message(errors.New("pq: connection refused")))
	assert.False(t, Is(nil, KindInternal))
}

func TestStackIsCaptured(t *testing.T) {
	err := NotFound("Job not found", nil)
	assert.NotEmpty(t, err.StackTrace())
	assert.Equal(t, "NOT_FOUND: Job not found", err.Error())

	wrapped := Internal("Failed to save", errors.New("disk"))
	assert.NotEmpty(t, wrapped.StackTrace())
	assert.Contains(t, wrapped.Error(), "disk")
}
