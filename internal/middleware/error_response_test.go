package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hitoshi/tarotman/internal/model"
)

func TestWriteErrorResponse_BasicError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteErrorResponse(rec, http.StatusBadRequest, model.NewCountTooLowError(0))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q", got)
	}
	if got := rec.Header().Get("Retry-After"); got != "" {
		t.Errorf("Retry-After should not be set for non-conflict errors: %q", got)
	}

	var body ErrorResponseBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if body.Code != model.ErrCodeCountTooLow {
		t.Errorf("code = %q, want %q", body.Code, model.ErrCodeCountTooLow)
	}
	if body.Message == "" || body.Category == "" || body.Action == "" {
		t.Errorf("message/category/action should all be set: %+v", body)
	}
	if body.RetryAfterSec != nil {
		t.Errorf("retry_after_sec should be absent: %v", *body.RetryAfterSec)
	}
	if strings.Contains(rec.Body.String(), "retry_after_sec") {
		t.Error("retry_after_sec key should be omitted from JSON")
	}
}

func TestWriteErrorResponse_AlreadySavedIncludesRetryAfter(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteErrorResponse(rec, http.StatusConflict, model.NewSpreadAlreadySavedError(3600))

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	if got := rec.Header().Get("Retry-After"); got != "3600" {
		t.Errorf("Retry-After = %q, want 3600", got)
	}

	var body ErrorResponseBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if body.RetryAfterSec == nil || *body.RetryAfterSec != 3600 {
		t.Errorf("retry_after_sec = %v, want 3600", body.RetryAfterSec)
	}
}

func TestWriteErrorResponse_AlreadySavedAtMidnight(t *testing.T) {
	// 0秒でもキー自体は出力される
	rec := httptest.NewRecorder()
	WriteErrorResponse(rec, http.StatusConflict, model.NewSpreadAlreadySavedError(0))

	var body ErrorResponseBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if body.RetryAfterSec == nil || *body.RetryAfterSec != 0 {
		t.Errorf("retry_after_sec = %v, want 0", body.RetryAfterSec)
	}
	if got := rec.Header().Get("Retry-After"); got != "0" {
		t.Errorf("Retry-After = %q, want 0", got)
	}
}

func TestWriteInternalServerError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteInternalServerError(rec)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}

	var body ErrorResponseBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if body.Code != "INTERNAL_ERROR" {
		t.Errorf("code = %q, want INTERNAL_ERROR", body.Code)
	}
	if body.Category != "system" {
		t.Errorf("category = %q, want system", body.Category)
	}
}
