package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"screenrag/internal/contextutil"
)

func TestRequestLogger(t *testing.T) {
	var gotRequestID string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRequestID = contextutil.RequestIDFromContext(r.Context())
		if contextutil.LoggerFromContext(r.Context()) == nil {
			t.Error("request logger missing from context")
		}
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/ask", nil)
	w := httptest.NewRecorder()
	RequestLogger(handler).ServeHTTP(w, req)

	if gotRequestID == "" {
		t.Error("request ID missing from context")
	}
	if w.Header().Get("X-Request-ID") != gotRequestID {
		t.Errorf("response header request ID = %q, want %q", w.Header().Get("X-Request-ID"), gotRequestID)
	}
}

func TestRequestLoggerReusesIncomingID(t *testing.T) {
	var gotRequestID string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRequestID = contextutil.RequestIDFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodPost, "/api/ask", nil)
	req.Header.Set("X-Request-ID", "req-123")
	RequestLogger(handler).ServeHTTP(httptest.NewRecorder(), req)

	if gotRequestID != "req-123" {
		t.Errorf("request ID = %q, want the incoming header value", gotRequestID)
	}
}

func TestCORS(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("adds headers", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		w := httptest.NewRecorder()

		CORS(handler).ServeHTTP(w, req)

		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
			t.Errorf("Allow-Origin = %q", got)
		}
	})

	t.Run("wildcard without origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		w := httptest.NewRecorder()

		CORS(handler).ServeHTTP(w, req)

		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
			t.Errorf("Allow-Origin = %q, want *", got)
		}
	})

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/ask", nil)
		w := httptest.NewRecorder()

		CORS(handler).ServeHTTP(w, req)

		if w.Code != http.StatusNoContent {
			t.Errorf("status = %d, want 204", w.Code)
		}
	})
}
