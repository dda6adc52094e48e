package httpx

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouter_Health(t *testing.T) {
	router := NewRouter(RouterServices{})

	r := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	resp := w.Result()
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
}

func TestRouter_WebhookRouteIsGuarded(t *testing.T) {
	router := NewRouter(RouterServices{WebhookSecret: "s3cret"})

	// No secret header: the guard must reject before the handler runs.
	r := httptest.NewRequest(http.MethodPost, "/api/webhooks/results",
		strings.NewReader(`{"result_id":"result-a","status":"failed"}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	assert.Equal(t, http.StatusForbidden, w.Result().StatusCode)
}

func TestRouter_UnknownRoute(t *testing.T) {
	router := NewRouter(RouterServices{})

	r := httptest.NewRequest(http.MethodGet, "/api/unknown", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	assert.Equal(t, http.StatusNotFound, w.Result().StatusCode)
}
