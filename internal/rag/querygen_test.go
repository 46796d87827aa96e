package rag

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"go.uber.org/mock/gomock"

	catalogmocks "screenrag/internal/catalog/mocks"
	"screenrag/internal/rag/mocks"
	vsmocks "screenrag/internal/vectorstore/mocks"
)

func init() {
	// Suppress engine logs in test output.
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// testMocks bundles the mocked external dependencies of an engine.
type testMocks struct {
	llm      *mocks.MockLLMClient
	embedder *mocks.MockEmbedder
	store    *vsmocks.MockVectorStore
	titles   *catalogmocks.MockTitleStore
}

func newTestEngine(t *testing.T) (*engine, testMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := testMocks{
		llm:      mocks.NewMockLLMClient(ctrl),
		embedder: mocks.NewMockEmbedder(ctrl),
		store:    vsmocks.NewMockVectorStore(ctrl),
		titles:   catalogmocks.NewMockTitleStore(ctrl),
	}
	eng := NewEngine(m.llm, m.embedder, m.store, m.titles, "titles", 0).(*engine)
	return eng, m
}

// capturePrompt runs the given synthesizer once and returns the prompt the
// LLM was called with.
func capturePrompt(t *testing.T, synth func(ctx context.Context, st *State) error, m testMocks, st *State) string {
	t.Helper()
	var prompt string
	m.llm.EXPECT().Chat(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p string) (string, error) {
			prompt = p
			return "generated query", nil
		})
	if err := synth(context.Background(), st); err != nil {
		t.Fatalf("synthesizer returned error: %v", err)
	}
	return prompt
}

func TestSynthesizerFallbackIdempotence(t *testing.T) {
	// A synthesizer with no rag context must behave exactly as if the
	// context were explicitly set to the raw query.
	const query = "recommend something like 'The Match'"

	synths := []struct {
		name string
		pick func(e *engine) func(ctx context.Context, st *State) error
	}{
		{"specific", func(e *engine) func(ctx context.Context, st *State) error { return e.generateSearchQuery }},
		{"broad", func(e *engine) func(ctx context.Context, st *State) error { return e.generateBroadQuery }},
		{"similar", func(e *engine) func(ctx context.Context, st *State) error { return e.generateSimilarQuery }},
	}

	for _, tt := range synths {
		t.Run(tt.name, func(t *testing.T) {
			engMissing, mocksMissing := newTestEngine(t)
			missing := capturePrompt(t, tt.pick(engMissing), mocksMissing, &State{Query: query})

			engSet, mocksSet := newTestEngine(t)
			explicit := capturePrompt(t, tt.pick(engSet), mocksSet, &State{Query: query, RAGContext: query})

			if missing != explicit {
				t.Errorf("fallback prompt differs from explicit prompt:\n%s\nvs\n%s", missing, explicit)
			}
		})
	}
}

func TestBroadSynthesizerTreatsSentinelAsMissing(t *testing.T) {
	const query = "recommend anything good"

	eng, m := newTestEngine(t)
	sentinel := capturePrompt(t, eng.generateBroadQuery, m, &State{Query: query, RAGContext: noDetailsSentinel})

	eng2, m2 := newTestEngine(t)
	missing := capturePrompt(t, eng2.generateBroadQuery, m2, &State{Query: query})

	if sentinel != missing {
		t.Errorf("sentinel context should fall back to the raw query:\n%s\nvs\n%s", sentinel, missing)
	}
}

func TestSynthesizerWritesTrimmedQuery(t *testing.T) {
	eng, m := newTestEngine(t)
	m.llm.EXPECT().Chat(gomock.Any(), gomock.Any()).Return("  a drama about rivalry \n", nil)

	st := &State{Query: "q", RAGContext: "- Genre: 드라마"}
	if err := eng.generateBroadQuery(context.Background(), st); err != nil {
		t.Fatalf("generateBroadQuery returned error: %v", err)
	}
	if st.RAGQuery != "a drama about rivalry" {
		t.Errorf("RAGQuery = %q, want trimmed output", st.RAGQuery)
	}
}
