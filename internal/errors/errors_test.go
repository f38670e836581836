package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindStatus(t *testing.T) {
	tests := []struct {
		kind   Kind
		status int
	}{
		{KindBadRequest, http.StatusBadRequest},
		{KindUnauthorized, http.StatusUnauthorized},
		{KindForbidden, http.StatusForbidden},
		{KindNotFound, http.StatusNotFound},
		{KindConflict, http.StatusConflict},
		{KindInternal, http.StatusInternalServerError},
		{Kind("SOMETHING_ELSE"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.status, tt.kind.Status(), "kind %s", tt.kind)
	}
}

func TestAppError_MessageFallsBackToKindDefault(t *testing.T) {
	assert.Equal(t, "Authentication required", New(KindUnauthorized, "").clientMessage())
	assert.Equal(t, "nope", New(KindUnauthorized, "nope").clientMessage())
}

func TestAppError_ErrorIncludesCause(t *testing.T) {
	cause := fmt.Errorf("pool exhausted")
	err := Wrap(cause, KindInternal, "Database unavailable")
	assert.Equal(t, "Database unavailable: pool exhausted", err.Error())
	assert.Equal(t, cause, err.Unwrap())
}

func TestWrap_NilReturnsNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, KindInternal, "ignored"))
}

func TestKindPredicates(t *testing.T) {
	assert.True(t, IsUnauthorized(Unauthorized("bad token")))
	assert.True(t, IsForbidden(Forbidden("")))
	assert.True(t, IsNotFound(NotFoundf("entry %q not found", "x")))
	assert.True(t, IsConflict(Conflict("")))
	assert.True(t, IsBadRequest(BadRequest("")))
	assert.False(t, IsUnauthorized(Forbidden("")))
	assert.False(t, IsNotFound(fmt.Errorf("plain")))
}

func TestKindPredicates_SeeThroughWrapping(t *testing.T) {
	inner := Unauthorized("expired")
	outer := fmt.Errorf("verify: %w", inner)
	assert.True(t, IsUnauthorized(outer))
	assert.Equal(t, KindUnauthorized, GetKind(outer))
}

func TestGetKind_NonAppError(t *testing.T) {
	assert.Equal(t, Kind(""), GetKind(fmt.Errorf("plain")))
	assert.Equal(t, Kind(""), GetKind(nil))
}

func TestWithDetail(t *testing.T) {
	err := BadRequest("Validation failed").
		WithDetail("email", "Email is required").
		WithDetail("", "Body too large")
	assert.Len(t, err.Details, 2)
	assert.Equal(t, Detail{Field: "email", Message: "Email is required"}, err.Details[0])
	assert.Empty(t, err.Details[1].Field)
}
