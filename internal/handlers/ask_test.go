package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	"screenrag/internal/service"
	"screenrag/internal/service/mocks"
)

func init() {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestAskHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	queries := mocks.NewMockQueryService(ctrl)
	handler := NewAskHandler(queries)

	queries.EXPECT().
		Ask(gomock.Any(), service.AskRequest{Query: "승부 감독이 누구야?"}).
		Return(service.AskResponse{
			Query:  "승부 감독이 누구야?",
			Route:  "specific_search",
			Title:  "승부",
			Answer: "**김형주** 감독입니다.",
			Documents: []service.DocumentSummary{
				{ID: "p1", Title: "승부", Score: 0.9},
			},
		}, nil)

	body, _ := json.Marshal(AskRequest{Query: "승부 감독이 누구야?"})
	req := httptest.NewRequest(http.MethodPost, "/api/ask", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp AskResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Answer != "**김형주** 감독입니다." {
		t.Errorf("answer = %q", resp.Answer)
	}
	if !strings.Contains(resp.AnswerHTML, "<strong>김형주</strong>") {
		t.Errorf("answer_html not rendered from markdown: %q", resp.AnswerHTML)
	}
	if resp.Route != "specific_search" || len(resp.Documents) != 1 {
		t.Errorf("response incomplete: %+v", resp)
	}
}

func TestAskHandlerErrors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		serviceErr error
		wantStatus int
	}{
		{
			name:       "validation error",
			body:       `{"query": ""}`,
			serviceErr: &service.ValidationError{Field: "query", Message: "cannot be empty"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "external service error",
			body:       `{"query": "아무거나"}`,
			serviceErr: fmt.Errorf("%w: stage retrieve failed", service.ErrExternalService),
			wantStatus: http.StatusBadGateway,
		},
		{
			name:       "unexpected error",
			body:       `{"query": "아무거나"}`,
			serviceErr: errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			queries := mocks.NewMockQueryService(ctrl)
			handler := NewAskHandler(queries)

			queries.EXPECT().
				Ask(gomock.Any(), gomock.Any()).
				Return(service.AskResponse{}, tt.serviceErr)

			req := httptest.NewRequest(http.MethodPost, "/api/ask", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var resp ErrorResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("error body not JSON: %v", err)
			}
			if resp.Error == "" {
				t.Error("error message missing")
			}
		})
	}
}

func TestAskHandlerInvalidBody(t *testing.T) {
	ctrl := gomock.NewController(t)
	handler := NewAskHandler(mocks.NewMockQueryService(ctrl))

	req := httptest.NewRequest(http.MethodPost, "/api/ask", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestAskHandlerMethodNotAllowed(t *testing.T) {
	ctrl := gomock.NewController(t)
	handler := NewAskHandler(mocks.NewMockQueryService(ctrl))

	req := httptest.NewRequest(http.MethodGet, "/api/ask", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}
