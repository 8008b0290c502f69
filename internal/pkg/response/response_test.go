package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	return resp
}

func TestErrorWithErrorIncludesTrace(t *testing.T) {
	rec := httptest.NewRecorder()
	ErrorWithError(rec, http.StatusInternalServerError, "DB_ERROR", "query failed", errors.New("connection reset"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("got status %d, want 500", rec.Code)
	}

	resp := decodeResponse(t, rec)
	if resp.Success {
		t.Fatal("expected success=false")
	}
	if resp.Error == nil || resp.Error.Code != "DB_ERROR" || resp.Error.Message != "query failed" {
		t.Fatalf("unexpected error info: %+v", resp.Error)
	}
	if resp.Error.ErrorTrace != "connection reset" {
		t.Fatalf("got trace %q, want underlying error text", resp.Error.ErrorTrace)
	}
}

func TestErrorWithErrorNilErrorOmitsTrace(t *testing.T) {
	rec := httptest.NewRecorder()
	ErrorWithError(rec, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)

	resp := decodeResponse(t, rec)
	if resp.Error == nil || resp.Error.ErrorTrace != "" {
		t.Fatalf("expected empty trace, got %+v", resp.Error)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &raw); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	var errObj map[string]json.RawMessage
	if err := json.Unmarshal(raw["error"], &errObj); err != nil {
		t.Fatalf("invalid error object: %v", err)
	}
	if _, ok := errObj["error_trace"]; ok {
		t.Fatal("error_trace should be omitted when no underlying error")
	}
}

func TestErrorOmitsTrace(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, http.StatusNotFound, "NOT_FOUND", "no such story")

	resp := decodeResponse(t, rec)
	if resp.Error == nil || resp.Error.Code != "NOT_FOUND" || resp.Error.ErrorTrace != "" {
		t.Fatalf("unexpected error info: %+v", resp.Error)
	}
}
