package httpx

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/feru-app/beacon/internal/errors"
)

func TestWriteAppError_StatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", apperrors.Validation("bad input"), http.StatusBadRequest},
		{"auth", apperrors.Auth("nope"), http.StatusUnauthorized},
		{"not found", apperrors.NotFound("missing"), http.StatusNotFound},
		{"conflict", apperrors.Conflict("duplicate"), http.StatusConflict},
		{"quota", apperrors.Quota("limit reached"), http.StatusForbidden},
		{"dispatch", apperrors.Dispatch("launch", errors.New("boom")), http.StatusInternalServerError},
		{"internal", apperrors.Internal("oops"), http.StatusInternalServerError},
		{"plain error defaults to internal", errors.New("anything"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteAppError(w, tt.err)
			assert.Equal(t, tt.want, w.Result().StatusCode)
		})
	}
}
