package apiserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/macrolog/v1/internal/infrastructure/config"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name:    "MacroLog",
			Version: "1.0.0",
		},
		Server: config.ServerConfig{
			Host:            "127.0.0.1",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			MaxHeaderBytes:  1 << 20,
			ShutdownTimeout: 5 * time.Second,
			RequestTimeout:  60 * time.Second,
			MaxImageBytes:   10 << 20,
		},
	}
}

func testServer(t *testing.T) *APIServer {
	return NewAPIServer(testConfig(), zaptest.NewLogger(t), nil, nil)
}

func TestServerWiresConfiguredAddress(t *testing.T) {
	server := testServer(t)

	httpServer := server.Server()
	require.NotNil(t, httpServer)
	assert.Equal(t, "127.0.0.1:8080", httpServer.Addr)
	assert.Equal(t, 15*time.Second, httpServer.ReadTimeout)
}

func TestHealthEndpoint(t *testing.T) {
	server := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	server.Server().Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"healthy"`)
	assert.Contains(t, rec.Body.String(), `"service":"MacroLog"`)
}

func TestNonJSONBodyRejected(t *testing.T) {
	server := testServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/entries", strings.NewReader("name=Banana"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	server.Server().Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestPreflightRequestShortCircuits(t *testing.T) {
	server := testServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/entries", nil)
	rec := httptest.NewRecorder()
	server.Server().Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Methods"))
}

func TestShutdownCompletesWithinConfiguredTimeout(t *testing.T) {
	server := testServer(t)

	start := time.Now()
	err := server.Shutdown(context.Background())

	require.NoError(t, err)
	assert.Less(t, time.Since(start), server.config.Server.ShutdownTimeout)
}
