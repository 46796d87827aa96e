package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"screenrag/internal/contextutil"
	"screenrag/internal/indexer"
)

// ReindexHandler handles HTTP requests for triggering catalog re-ingestion.
type ReindexHandler struct {
	pipeline    *indexer.Pipeline
	catalogPath string
}

// NewReindexHandler creates a new ReindexHandler.
func NewReindexHandler(pipeline *indexer.Pipeline, catalogPath string) *ReindexHandler {
	return &ReindexHandler{
		pipeline:    pipeline,
		catalogPath: catalogPath,
	}
}

// ReindexResponse represents the response from the reindex endpoint.
type ReindexResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

// ServeHTTP triggers a catalog ingestion run in the background and returns
// immediately.
func (h *ReindexHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	if h.pipeline == nil || h.catalogPath == "" {
		logger.WarnContext(ctx, "reindex requested but no catalog file is configured")
		writeError(w, http.StatusConflict, "No catalog file configured")
		return
	}

	logger.InfoContext(ctx, "catalog re-ingestion triggered via API", "path", h.catalogPath)

	// Ingestion continues after the HTTP request completes, so it runs on a
	// background context carrying the request logger.
	go func() {
		indexCtx := contextutil.WithLogger(context.Background(), logger)
		stats, err := h.pipeline.IndexFile(indexCtx, h.catalogPath)
		if err != nil {
			logger.ErrorContext(indexCtx, "catalog re-ingestion failed", "error", err)
			return
		}
		logger.InfoContext(indexCtx, "catalog re-ingestion completed", "stats", stats.String())
	}()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	_ = json.NewEncoder(w).Encode(ReindexResponse{
		Message: "Catalog ingestion started",
		Status:  "accepted",
	})
}
