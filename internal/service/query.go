package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_query_service.go -package=mocks -mock_names=QueryService=MockQueryService screenrag/internal/service QueryService
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_engine.go -package=mocks screenrag/internal/rag Engine

import (
	"context"
	"fmt"

	"screenrag/internal/contextutil"
	"screenrag/internal/rag"
)

// AskRequest represents a question in the domain layer.
type AskRequest struct {
	Query string `validate:"required"`
}

// DocumentSummary is one retrieved document as exposed to callers.
type DocumentSummary struct {
	ID    string  `json:"id"`
	Title string  `json:"title,omitempty"`
	Score float32 `json:"score"`
}

// AskResponse carries the generated answer together with the extracted
// facets and the documents it was grounded on.
type AskResponse struct {
	Query     string            `json:"query"`
	Route     string            `json:"route"`
	Status    string            `json:"status,omitempty"`
	Title     string            `json:"title,omitempty"`
	Year      int               `json:"year,omitempty"`
	Casts     []string          `json:"casts,omitempty"`
	Director  []string          `json:"director,omitempty"`
	Genre     []string          `json:"genre,omitempty"`
	OTT       []string          `json:"ott,omitempty"`
	Info      string            `json:"info,omitempty"`
	Documents []DocumentSummary `json:"documents"`
	Answer    string            `json:"answer"`
}

// QueryService answers catalog questions.
type QueryService interface {
	// Ask runs one question through the retrieval pipeline.
	Ask(ctx context.Context, req AskRequest) (AskResponse, error)
}

// queryService implements QueryService on top of the retrieval engine.
type queryService struct {
	engine rag.Engine
}

// NewQueryService creates a new QueryService.
func NewQueryService(engine rag.Engine) QueryService {
	return &queryService{engine: engine}
}

// Ask validates the request, runs the engine, and maps the final pipeline
// state into the response.
func (s *queryService) Ask(ctx context.Context, req AskRequest) (AskResponse, error) {
	logger := contextutil.LoggerFromContext(ctx)

	// Business validation
	if req.Query == "" {
		logger.WarnContext(ctx, "empty query in ask request")
		return AskResponse{}, &ValidationError{
			Field:   "query",
			Message: "cannot be empty",
		}
	}

	st, err := s.engine.Run(ctx, req.Query)
	if err != nil {
		logger.ErrorContext(ctx, "retrieval pipeline failed", "error", err)
		return AskResponse{}, fmt.Errorf("%w: %w", ErrExternalService, err)
	}

	docs := make([]DocumentSummary, 0, len(st.Context))
	for _, doc := range st.Context {
		summary := DocumentSummary{ID: doc.ID, Score: doc.Score}
		if title, ok := doc.Meta["title"].(string); ok {
			summary.Title = title
		}
		docs = append(docs, summary)
	}

	logger.InfoContext(ctx, "ask request processed",
		"route", st.Route,
		"documents", len(docs),
		"answer_length", len(st.Answer),
	)
	return AskResponse{
		Query:     st.Query,
		Route:     string(st.Route),
		Status:    string(st.Status),
		Title:     st.Title,
		Year:      st.Year,
		Casts:     st.Casts,
		Director:  st.Director,
		Genre:     st.Genre,
		OTT:       st.OTT,
		Info:      st.Info,
		Documents: docs,
		Answer:    st.Answer,
	}, nil
}
