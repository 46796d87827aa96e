package rag

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_llm_client.go -package=mocks screenrag/internal/rag LLMClient
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_embedder.go -package=mocks screenrag/internal/rag Embedder

import (
	"context"
	"encoding/json"
	"fmt"

	"screenrag/internal/catalog"
	"screenrag/internal/contextutil"
	"screenrag/internal/vectorstore"
)

// LLMClient is the interface to the text-completion and structured-extraction
// service, defined from the engine's perspective (consumer-first).
type LLMClient interface {
	// Chat sends a prompt and returns the reply text.
	Chat(ctx context.Context, prompt string) (string, error)
	// Extract sends a prompt constrained to a JSON schema and unmarshals the
	// reply into out.
	Extract(ctx context.Context, prompt, schemaName string, schema json.RawMessage, out any) error
}

// Embedder turns texts into vectors for similarity search.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Engine runs a query through facet extraction, routing, retrieval, and
// answer generation, returning the full final state.
type Engine interface {
	Run(ctx context.Context, query string) (*State, error)
}

// stage is one step of a pipeline. Stages are stateless beyond the injected
// dependencies; the same stage value is referenced from every chain that
// needs it.
type stage struct {
	name string
	run  func(ctx context.Context, st *State) error
}

// engine implements Engine. All external dependencies are injected at
// construction and reused across requests; the engine itself holds no
// per-request state and no locks, so concurrent Run calls are independent.
type engine struct {
	llm         LLMClient
	embedder    Embedder
	vectorStore vectorstore.VectorStore
	titles      catalog.TitleStore
	collection  string
	topK        int
	chains      map[Route][]stage
}

// DefaultTopK is the retrieval depth used when the caller does not configure one.
const DefaultTopK = 3

// NewEngine creates an Engine. topK <= 0 selects DefaultTopK.
func NewEngine(
	llm LLMClient,
	embedder Embedder,
	vectorStore vectorstore.VectorStore,
	titles catalog.TitleStore,
	collection string,
	topK int,
) Engine {
	if topK <= 0 {
		topK = DefaultTopK
	}
	e := &engine{
		llm:         llm,
		embedder:    embedder,
		vectorStore: vectorStore,
		titles:      titles,
		collection:  collection,
		topK:        topK,
	}

	// Shared stages appear in multiple chains by identity; the three chains
	// differ only in their middle sections. All edges are unconditional, the
	// only branch point is the route chosen before the chain starts.
	formatState := stage{"format_state", func(ctx context.Context, st *State) error {
		st.RAGContext = formatFacets(st)
		return nil
	}}
	searchQuery := stage{"generate_search_query", e.generateSearchQuery}
	retrieve := stage{"retrieve", e.retrieve}
	answer := stage{"generate_answer", e.generateAnswer}

	e.chains = map[Route][]stage{
		RouteSpecificSearch: {
			formatState,
			searchQuery,
			retrieve,
			answer,
		},
		RouteSimilarRecommendation: {
			formatState,
			searchQuery,
			{"retrieve_base_title", e.retrieveBaseTitle},
			{"generate_similar_query", e.generateSimilarQuery},
			retrieve,
			answer,
		},
		RouteBroadRecommendation: {
			formatState,
			{"generate_broad_query", e.generateBroadQuery},
			{"retrieve_filtered", e.retrieveFiltered},
			answer,
		},
	}
	return e
}

// Run executes one query end to end, synchronously. Stages run to
// completion in order; any external-service failure aborts the request and
// propagates to the caller, who owns the degraded-response behavior.
func (e *engine) Run(ctx context.Context, query string) (*State, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if query == "" {
		return nil, fmt.Errorf("query must not be empty")
	}

	st := &State{Query: query}

	if err := e.analyzeQuery(ctx, st); err != nil {
		return nil, err
	}

	st.Route = routeQuery(st)
	logger.InfoContext(ctx, "pipeline selected", "route", st.Route)

	for _, sg := range e.chains[st.Route] {
		logger.DebugContext(ctx, "running stage", "stage", sg.name, "route", st.Route)
		if err := sg.run(ctx, st); err != nil {
			return nil, fmt.Errorf("stage %s: %w", sg.name, err)
		}
	}

	return st, nil
}
