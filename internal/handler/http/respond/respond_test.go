package respond_test

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"interest-feed/internal/handler/http/respond"
)

func TestJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	respond.JSON(rec, 200, map[string]string{"feed": "at://did:web:example.com/app.bsky.feed.generator/interests"})

	if rec.Code != 200 {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
}

func TestSafeError_PassesValidationErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	respond.SafeError(rec, 400, errors.New("limit must be a number"))

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if body["error"] != "limit must be a number" {
		t.Errorf("error = %q, want original message", body["error"])
	}
}

func TestSafeError_MasksInternalErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	respond.SafeError(rec, 500, errors.New("pq: connection to postgres://feed:hunter2@db:5432 failed"))

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if body["error"] != "internal server error" {
		t.Errorf("error = %q, want generic message", body["error"])
	}
}
