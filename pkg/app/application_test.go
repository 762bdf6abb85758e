package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"roombook/pkg/config"
	"roombook/pkg/logger"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoHandler struct{}

func (echoHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/echo", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.WriteHeader(http.StatusCreated)
	})
}

func newTestApp(t *testing.T, ping func(context.Context) error) http.Handler {
	t.Helper()

	cfg := &config.Config{
		Port:              "8080",
		RateLimitRequests: 2,
		RateLimitWindow:   time.Minute,
		RequestTimeout:    time.Second,
		IdempotencyTTL:    time.Hour,
		MaxRequestSize:    1024,
		Log:               logger.NewNop(),
	}

	a := NewApplication()
	a.SetApp(cfg, ping, echoHandler{})
	t.Cleanup(func() {
		a.idempotencyStore.Stop()
		a.rateLimiter.Stop()
	})
	return a.Handler()
}

func post(h http.Handler, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/echo", strings.NewReader(`{}`))
	req.RemoteAddr = "192.0.2.1:40000"
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestApplication_HealthBypassesAPIStack(t *testing.T) {
	h := newTestApp(t, func(context.Context) error { return errors.New("no primary") })

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestApplication_APIStack(t *testing.T) {
	h := newTestApp(t, nil)

	assert.Equal(t, http.StatusUnsupportedMediaType, post(h, "text/plain").Code)
	assert.Equal(t, http.StatusCreated, post(h, "application/json").Code)
	assert.Equal(t, http.StatusCreated, post(h, "application/json").Code)
	assert.Equal(t, http.StatusTooManyRequests, post(h, "application/json").Code)
}

func TestApplication_UnknownRoute(t *testing.T) {
	h := newTestApp(t, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}
