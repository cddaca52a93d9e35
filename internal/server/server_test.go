package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales-dashboard/internal/config"
	"sales-dashboard/internal/handlers"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/services"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	analytics := services.NewAnalytics(nil, services.WithLogger(testLogger()))
	analytics.SetData([]models.Transaction{
		{Date: time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC), Product: "A", Amount: 100},
		{Date: time.Date(2024, time.January, 2, 9, 0, 0, 0, time.UTC), Product: "B", Amount: 200},
	})

	opts := handlers.DefaultOptions()
	opts.Metrics = observability.NewMetrics()
	return NewServer(analytics, testLogger(), opts)
}

func TestServer_Routes(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		method     string
		path       string
		wantStatus int
		wantType   string
	}{
		{http.MethodGet, "/", http.StatusOK, "text/html"},
		{http.MethodGet, "/health", http.StatusOK, "application/json"},
		{http.MethodGet, "/admin/stats", http.StatusOK, "application/json"},
		{http.MethodGet, "/metrics", http.StatusOK, "text/plain"},
		{http.MethodGet, "/api/dashboard", http.StatusOK, "application/json"},
		{http.MethodGet, "/api/daily-totals", http.StatusOK, "application/json"},
		{http.MethodGet, "/api/product-totals", http.StatusOK, "application/json"},
		{http.MethodGet, "/api/product-share", http.StatusOK, "application/json"},
		{http.MethodGet, "/api/metrics", http.StatusOK, "application/json"},
		{http.MethodGet, "/api/products", http.StatusOK, "application/json"},
		{http.MethodGet, "/api/export.csv", http.StatusOK, "text/csv"},
		{http.MethodGet, "/api/export.xlsx", http.StatusOK, "application/vnd.openxmlformats"},
		{http.MethodGet, "/sse/dashboard?datastar=%7B%7D", http.StatusOK, "text/event-stream"},
		{http.MethodGet, "/nonexistent", http.StatusNotFound, ""},
		{http.MethodPost, "/api/dashboard", http.StatusMethodNotAllowed, ""},
		{http.MethodPost, "/admin/reload", http.StatusServiceUnavailable, "application/json"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			w := httptest.NewRecorder()

			srv.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantType != "" {
				assert.Contains(t, w.Header().Get("Content-Type"), tt.wantType)
			}
		})
	}
}

func TestServer_WithoutMetrics(t *testing.T) {
	analytics := services.NewAnalytics(nil)
	srv := NewServer(analytics, testLogger(), handlers.DefaultOptions())

	w := httptest.NewRecorder()
	srv.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	// Falls through to the page handler, which only serves "/".
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGracefulServer_Serve(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	httpServer := &http.Server{Handler: newTestServer(t)}
	gs := NewGracefulServer(httpServer, testLogger(), config.ServerConfig{ShutdownTimeout: 5 * time.Second})

	var hookCalls atomic.Int32
	gs.RegisterShutdownHook("counter", func(ctx context.Context) error {
		hookCalls.Add(1)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- gs.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
	assert.Equal(t, int32(1), hookCalls.Load())
}

func TestGracefulServer_HookError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	gs := NewGracefulServer(&http.Server{Handler: http.NotFoundHandler()}, testLogger(),
		config.ServerConfig{ShutdownTimeout: 5 * time.Second})

	boom := errors.New("boom")
	gs.RegisterShutdownHook("failing", func(ctx context.Context) error { return boom })
	gs.RegisterShutdownHook("ok", func(ctx context.Context) error { return nil })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = gs.Serve(ctx, ln)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "failing")
}
