package observability

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales-dashboard/internal/config"
)

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLogLevel(in), in)
	}
}

func TestNewLoggerTo(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, config.LoggerConfig{Level: "warn", Format: "json"})

	logger.Info("hidden")
	logger.Warn("shown", "records", 3)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"service":"sales-dashboard"`)
	assert.Contains(t, out, `"records":3`)

	buf.Reset()
	NewLoggerTo(&buf, config.LoggerConfig{Level: "info", Format: "text"}).Info("plain")
	assert.Contains(t, buf.String(), "msg=plain")
}

func TestRequestIDContext(t *testing.T) {
	assert.Empty(t, GetRequestID(context.Background()))

	ctx := WithRequestID(context.Background(), "abc")
	assert.Equal(t, "abc", GetRequestID(ctx))
}

func TestSpan(t *testing.T) {
	ctx, parent := StartSpan(context.Background(), "request")
	assert.Same(t, parent, GetSpan(ctx))
	assert.Len(t, parent.TraceID, 32)
	assert.Len(t, parent.SpanID, 16)

	_, child := StartSpan(ctx, "pipeline")
	assert.Equal(t, parent.TraceID, child.TraceID)
	assert.Equal(t, parent.SpanID, child.ParentID)

	child.Finish()
	d := child.Duration
	time.Sleep(time.Millisecond)
	child.Finish()
	assert.Equal(t, d, child.Duration, "Finish is idempotent")
}

func TestSpan_End(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, span := StartSpan(context.Background(), "analytics.load")
	span.SetTag("source", "csv")
	span.End(logger)
	assert.Contains(t, buf.String(), `"msg":"span finished"`)
	assert.Contains(t, buf.String(), `"source":"csv"`)

	buf.Reset()
	_, span = StartSpan(context.Background(), "analytics.load")
	span.SetError(errors.New("no rows"))
	span.End(logger)
	assert.Contains(t, buf.String(), `"level":"WARN"`)
	assert.Contains(t, buf.String(), `"error":"no rows"`)
}

func TestMetrics(t *testing.T) {
	m := NewMetrics()
	m.ObserveRequest(http.MethodGet, "GET /api/metrics", http.StatusOK, 15*time.Millisecond)
	m.ObserveCompute(2 * time.Millisecond)
	m.SetRecordsLoaded(1234)
	m.CountExport("csv")
	m.CountExport("csv")

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, `dashboard_http_requests_total{method="GET",route="GET /api/metrics",status="200"} 1`)
	assert.Contains(t, body, "dashboard_compute_duration_seconds_count 1")
	assert.Contains(t, body, "dashboard_records_loaded 1234")
	assert.Contains(t, body, `dashboard_exports_total{format="csv"} 2`)
	assert.Contains(t, body, "go_goroutines")
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRequest(http.MethodGet, "/", http.StatusOK, time.Millisecond)
		m.ObserveCompute(time.Millisecond)
		m.SetRecordsLoaded(1)
		m.CountExport("xlsx")
	})
}
