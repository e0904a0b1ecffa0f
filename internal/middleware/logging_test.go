package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/tarotman/internal/model"
)

func captureLog(t *testing.T) (*slog.Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	return slog.New(slog.NewJSONHandler(&buf, nil)), &buf
}

func parseLogLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse log line %q: %v", buf.String(), err)
	}
	return entry
}

func TestLoggingMiddleware_LogsRequestFields(t *testing.T) {
	logger, buf := captureLog(t)
	handler := NewLoggingMiddleware(logger)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/cards/3", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	entry := parseLogLine(t, buf)
	if entry["msg"] != "http_request" {
		t.Errorf("msg = %v, want http_request", entry["msg"])
	}
	if entry["method"] != "GET" {
		t.Errorf("method = %v, want GET", entry["method"])
	}
	if entry["path"] != "/api/cards/3" {
		t.Errorf("path = %v, want /api/cards/3", entry["path"])
	}
	if entry["status"] != float64(200) {
		t.Errorf("status = %v, want 200", entry["status"])
	}
	if entry["level"] != "INFO" {
		t.Errorf("level = %v, want INFO", entry["level"])
	}
	if _, ok := entry["duration_ms"]; !ok {
		t.Error("duration_ms should be present")
	}
	if _, ok := entry["user_id"]; ok {
		t.Error("user_id should be absent for anonymous requests")
	}
}

func TestLoggingMiddleware_IncludesUserIDWhenAuthenticated(t *testing.T) {
	logger, buf := captureLog(t)
	handler := NewLoggingMiddleware(logger)(okHandler())

	req := httptest.NewRequest(http.MethodPut, "/api/spreads", nil)
	req = req.WithContext(ContextWithIdentity(req.Context(), &model.Identity{Subject: "google-sub-1"}))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	entry := parseLogLine(t, buf)
	if entry["user_id"] != "google-sub-1" {
		t.Errorf("user_id = %v, want google-sub-1", entry["user_id"])
	}
}

func TestLoggingMiddleware_LevelFollowsStatus(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantLevel string
	}{
		{"200はINFO", http.StatusOK, "INFO"},
		{"404はWARN", http.StatusNotFound, "WARN"},
		{"409はWARN", http.StatusConflict, "WARN"},
		{"500はERROR", http.StatusInternalServerError, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, buf := captureLog(t)
			handler := NewLoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))

			handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

			entry := parseLogLine(t, buf)
			if entry["level"] != tt.wantLevel {
				t.Errorf("level = %v, want %v", entry["level"], tt.wantLevel)
			}
			if entry["status"] != float64(tt.status) {
				t.Errorf("status = %v, want %d", entry["status"], tt.status)
			}
		})
	}
}

func TestStatusRecorder_DefaultsTo200OnWrite(t *testing.T) {
	rec := httptest.NewRecorder()
	sr := &statusRecorder{ResponseWriter: rec, statusCode: http.StatusOK}

	if _, err := sr.Write([]byte("ok")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if sr.statusCode != http.StatusOK {
		t.Errorf("statusCode = %d, want 200", sr.statusCode)
	}
}

func TestStatusRecorder_RecordsFirstStatusOnly(t *testing.T) {
	rec := httptest.NewRecorder()
	sr := &statusRecorder{ResponseWriter: rec, statusCode: http.StatusOK}

	sr.WriteHeader(http.StatusConflict)
	sr.WriteHeader(http.StatusOK)

	if sr.statusCode != http.StatusConflict {
		t.Errorf("statusCode = %d, want 409", sr.statusCode)
	}
}
