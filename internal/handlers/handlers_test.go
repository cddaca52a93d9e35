package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"sales-dashboard/internal/models"
	"sales-dashboard/internal/services"
)

var fixedNow = time.Date(2024, time.January, 31, 12, 0, 0, 0, time.UTC)

func at(year int, month time.Month, day, hour, minute int) time.Time {
	return time.Date(year, month, day, hour, minute, 0, 0, time.UTC)
}

// testRecords has two days of prior sales ahead of the Jan 1-2 window.
func testRecords() []models.Transaction {
	return []models.Transaction{
		{Date: at(2023, time.December, 30, 10, 0), Product: "A", Amount: 40},
		{Date: at(2023, time.December, 31, 11, 0), Product: "B", Amount: 60},
		{Date: at(2024, time.January, 1, 9, 30), Product: "A", Amount: 100},
		{Date: at(2024, time.January, 2, 14, 0), Product: "B", Amount: 200},
	}
}

func createTestAnalytics() *services.Analytics {
	a := services.NewAnalytics(nil, services.WithLogger(discardLogger()))
	a.SetData(testRecords())
	return a
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testOptions() Options {
	opts := DefaultOptions()
	opts.Now = func() time.Time { return fixedNow }
	return opts
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details string `json:"details"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.NewDecoder(w.Body).Decode(&env))
	return env
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	env := decodeEnvelope(t, w)
	require.True(t, env.Success, "expected success envelope")
	require.NoError(t, json.Unmarshal(env.Data, v))
}
