package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/yuin/goldmark"

	"screenrag/internal/contextutil"
	"screenrag/internal/service"
)

// AskHandler handles HTTP requests for catalog questions.
type AskHandler struct {
	queries  service.QueryService
	markdown goldmark.Markdown
}

// NewAskHandler creates a new AskHandler.
func NewAskHandler(queries service.QueryService) *AskHandler {
	return &AskHandler{
		queries:  queries,
		markdown: goldmark.New(),
	}
}

// AskRequest represents the HTTP request payload for questions.
// This mirrors the service.AskRequest but is defined here for HTTP layer separation.
type AskRequest struct {
	Query string `json:"query"`
}

// AskResponse represents the HTTP response payload for questions.
type AskResponse struct {
	Query string `json:"query"`
	Route string `json:"route"`

	// Extracted facets, omitted when the query carried none.
	Status   string   `json:"status,omitempty"`
	Title    string   `json:"title,omitempty"`
	Year     int      `json:"year,omitempty"`
	Casts    []string `json:"casts,omitempty"`
	Director []string `json:"director,omitempty"`
	Genre    []string `json:"genre,omitempty"`
	OTT      []string `json:"ott,omitempty"`
	Info     string   `json:"info,omitempty"`

	Documents []service.DocumentSummary `json:"documents"`

	// Answer is the model's reply as markdown; AnswerHTML is the same reply
	// rendered to HTML for browser clients.
	Answer     string `json:"answer"`
	AnswerHTML string `json:"answer_html,omitempty"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ServeHTTP handles HTTP requests for catalog questions.
func (h *AskHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	svcResp, err := h.queries.Ask(ctx, service.AskRequest{Query: req.Query})
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to process question")
		return
	}

	resp := AskResponse{
		Query:     svcResp.Query,
		Route:     svcResp.Route,
		Status:    svcResp.Status,
		Title:     svcResp.Title,
		Year:      svcResp.Year,
		Casts:     svcResp.Casts,
		Director:  svcResp.Director,
		Genre:     svcResp.Genre,
		OTT:       svcResp.OTT,
		Info:      svcResp.Info,
		Documents: svcResp.Documents,
		Answer:    svcResp.Answer,
	}

	var buf bytes.Buffer
	if err := h.markdown.Convert([]byte(svcResp.Answer), &buf); err != nil {
		logger.WarnContext(ctx, "failed to render answer markdown", "error", err)
	} else {
		resp.AnswerHTML = buf.String()
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.ErrorContext(ctx, "failed to encode response", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to encode response")
		return
	}
}

// handleServiceError maps service errors to appropriate HTTP status codes.
func handleServiceError(w http.ResponseWriter, ctx context.Context, err error, defaultMsg string) {
	logger := contextutil.LoggerFromContext(ctx)
	logger.ErrorContext(ctx, "service error", "error", err)

	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Validation error: %s", validationErr.Error()))
		return
	}

	if errors.Is(err, service.ErrInvalidInput) {
		writeError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	if errors.Is(err, service.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Resource not found")
		return
	}

	if errors.Is(err, service.ErrExternalService) {
		writeError(w, http.StatusBadGateway, "External service error")
		return
	}

	writeError(w, http.StatusInternalServerError, defaultMsg)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Error: message,
	})
}
