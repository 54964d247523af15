package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"onboarding/internal/platform/metrics"
)

func TestLoggerWritesStructuredLineAndRecordsMetrics(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	collector := metrics.New()

	handler := RequestID(Logger(logger, collector)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	if entry["path"] != "/healthz" || entry["status"] != float64(http.StatusTeapot) || entry["requestId"] == "" {
		t.Fatalf("unexpected log entry %v", entry)
	}
	if got := collector.Snapshot()["requestsTotal"].(uint64); got != 1 {
		t.Fatalf("expected one recorded request, got %d", got)
	}
}
