package rag

// Status is the coarse intent extracted from the query.
type Status string

const (
	// StatusSearch means the query asks about a specific title.
	StatusSearch Status = "search"
	// StatusRecommend means the query asks for recommendations.
	StatusRecommend Status = "recommend"
)

// Document is a retrieved document: the rendered title text plus the index
// metadata it was filtered on. The engine only reads Text; Meta is carried
// through for callers.
type Document struct {
	ID    string
	Text  string
	Score float32
	Meta  map[string]any
}

// State is the mutable request-scoped state threaded through one pipeline
// run. Each stage writes only the fields it owns; a missing field is not an
// error unless a stage requires it. State is created at request entry,
// exclusively owned by that request, and discarded at request exit.
type State struct {
	// Set by the caller.
	Query string

	// Extracted facets, copied from the analysis result.
	Status   Status
	Title    string
	Year     int
	Casts    []string
	Director []string
	Genre    []string
	OTT      []string
	Info     string

	// Route chosen after analysis.
	Route Route

	// RAGContext is the input to the next query-synthesis stage. Its meaning
	// shifts across the pipeline: formatted facets at first, a retrieved
	// document's text after the similar-recommendation base lookup.
	RAGContext string

	// RAGQuery is the text actually sent to the similarity search.
	RAGQuery string

	// Context holds the retrieved documents, similarity-ranked.
	Context []Document

	// Answer is the final response text.
	Answer string
}
