package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"screenrag/internal/catalog"
	"screenrag/internal/handlers"
	"screenrag/internal/indexer"
	"screenrag/internal/service"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Queries     service.QueryService
	VectorStore handlers.CollectionChecker
	Titles      catalog.TitleStore
	Pipeline    *indexer.Pipeline
	CatalogPath string
	Collection  string
	IndexHTML   string // Embedded HTML content
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(RequestLogger)
	r.Use(CORS)

	askHandler := handlers.NewAskHandler(deps.Queries)
	healthHandler := handlers.NewHealthHandler(deps.VectorStore, deps.Titles, deps.Collection)
	reindexHandler := handlers.NewReindexHandler(deps.Pipeline, deps.CatalogPath)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodPost, "/ask", askHandler)
		r.Method(http.MethodGet, "/health", healthHandler)
		r.Method(http.MethodPost, "/reindex", reindexHandler)
	})

	// Serve HTML page at root
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(deps.IndexHTML))
	})

	return r
}
