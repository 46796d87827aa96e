package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"testing"

	"screenrag/internal/rag"
	"screenrag/internal/service"
	"screenrag/internal/service/mocks"

	"go.uber.org/mock/gomock"
)

func init() {
	// Set default logger to discard output for cleaner test output
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestQueryServiceAsk(t *testing.T) {
	ctrl := gomock.NewController(t)
	engine := mocks.NewMockEngine(ctrl)
	svc := service.NewQueryService(engine)

	engine.EXPECT().
		Run(gomock.Any(), "승부 감독이 누구야?").
		Return(&rag.State{
			Query:  "승부 감독이 누구야?",
			Status: rag.StatusSearch,
			Title:  "승부",
			Route:  rag.RouteSpecificSearch,
			Context: []rag.Document{
				{ID: "p1", Score: 0.9, Meta: map[string]any{"title": "승부"}},
				{ID: "p2", Score: 0.7},
			},
			Answer: "김형주 감독입니다.",
		}, nil)

	resp, err := svc.Ask(context.Background(), service.AskRequest{Query: "승부 감독이 누구야?"})
	if err != nil {
		t.Fatalf("Ask failed: %v", err)
	}

	if resp.Answer != "김형주 감독입니다." {
		t.Errorf("answer = %q", resp.Answer)
	}
	if resp.Route != "specific_search" || resp.Status != "search" || resp.Title != "승부" {
		t.Errorf("facets not mapped: %+v", resp)
	}
	wantDocs := []service.DocumentSummary{
		{ID: "p1", Title: "승부", Score: 0.9},
		{ID: "p2", Score: 0.7},
	}
	if !reflect.DeepEqual(resp.Documents, wantDocs) {
		t.Errorf("documents = %+v, want %+v", resp.Documents, wantDocs)
	}
}

func TestQueryServiceAskEmptyQuery(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := service.NewQueryService(mocks.NewMockEngine(ctrl))

	_, err := svc.Ask(context.Background(), service.AskRequest{})
	var vErr *service.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if vErr.Field != "query" {
		t.Errorf("field = %q, want query", vErr.Field)
	}
}

func TestQueryServiceAskEngineFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	engine := mocks.NewMockEngine(ctrl)
	svc := service.NewQueryService(engine)

	engineErr := errors.New("stage retrieve: similarity search failed")
	engine.EXPECT().Run(gomock.Any(), gomock.Any()).Return(nil, engineErr)

	_, err := svc.Ask(context.Background(), service.AskRequest{Query: "아무거나"})
	if !errors.Is(err, service.ErrExternalService) {
		t.Fatalf("err = %v, want ErrExternalService", err)
	}
	if !errors.Is(err, engineErr) {
		t.Fatalf("err = %v, want wrapped engine error", err)
	}
}
