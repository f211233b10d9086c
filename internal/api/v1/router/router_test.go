package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"inforia/internal/config"
	"inforia/internal/middleware"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHandler() http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("/ping", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(r.URL.Path))
	})
	api.HandleFunc("/boom", func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})
	cfg := &config.Config{CORSAllowedOrigins: "https://inforia.app"}
	return Handler(cfg, zerolog.Nop(), api, nil)
}

func TestHandlerStripsVersionPrefix(t *testing.T) {
	rec := httptest.NewRecorder()
	testHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/ping", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "/ping", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
}

func TestHandlerKeepsCallerRequestID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/v1/ping", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-42")
	rec := httptest.NewRecorder()
	testHandler().ServeHTTP(rec, req)

	assert.Equal(t, "req-42", rec.Header().Get(middleware.RequestIDHeader))
}

func TestHandlerRecoversPanics(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/v1/boom", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-boom")
	rec := httptest.NewRecorder()
	testHandler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Internal server error", body["error"])
	assert.Equal(t, "req-boom", body["request_id"])
}

func TestHandlerCORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/v1/reports", nil)
	req.Header.Set("Origin", "https://inforia.app")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "authorization,x-google-access-token")
	rec := httptest.NewRecorder()
	testHandler().ServeHTTP(rec, req)

	assert.Equal(t, "https://inforia.app", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestHandlerRedirectsLegacyPrefix(t *testing.T) {
	rec := httptest.NewRecorder()
	testHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/plans", nil))

	assert.Equal(t, http.StatusMovedPermanently, rec.Code)
	assert.Equal(t, "/v1/plans", rec.Header().Get("Location"))
}

func TestHealthzWithoutPool(t *testing.T) {
	rec := httptest.NewRecorder()
	testHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
