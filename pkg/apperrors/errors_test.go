package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindValidation, KindOf(Validation("empty batch")))
	assert.Equal(t, KindNotFound, KindOf(NotFound("missing")))
	assert.Equal(t, KindExternal, KindOf(errors.New("anything untyped")))
}

func TestKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("submit failed: %w", Conflict("already attended"))

	assert.True(t, IsKind(err, KindConflict))
	assert.Equal(t, http.StatusConflict, HTTPStatus(err))
}

func TestHTTPStatusMapping(t *testing.T) {
	tests := []struct {
		kind   Kind
		status int
	}{
		{KindValidation, http.StatusBadRequest},
		{KindUnauthorized, http.StatusUnauthorized},
		{KindForbidden, http.StatusForbidden},
		{KindNotFound, http.StatusNotFound},
		{KindConflict, http.StatusConflict},
		{KindExternal, http.StatusBadGateway},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.status, HTTPStatus(New(tt.kind, "x")))
	}

	assert.Equal(t, http.StatusBadGateway, HTTPStatus(errors.New("untyped")))
}

func TestExternalWrapsCause(t *testing.T) {
	cause := errors.New("quota exceeded")
	err := External("unable to read requests", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "unable to read requests")
}
