package main

import (
	"context"
	_ "embed"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"

	"screenrag/internal/catalog"
	"screenrag/internal/config"
	"screenrag/internal/http"
	"screenrag/internal/indexer"
	"screenrag/internal/llm"
	"screenrag/internal/rag"
	"screenrag/internal/service"
	"screenrag/internal/vectorstore"
)

//go:embed index.html
var indexHTML string

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	// Initialize database
	db, err := catalog.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := catalog.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	titleRepo := catalog.NewTitleRepo(db)

	// Initialize Qdrant vector store
	ctx := context.Background()

	vectorStore, err := vectorstore.NewQdrantStore(cfg.QdrantURL)
	if err != nil {
		log.Fatalf("Failed to create Qdrant client: %v", err)
	}

	// Ensure collection exists with correct vector size
	if err := vectorStore.EnsureCollection(ctx, cfg.QdrantCollection, cfg.QdrantVectorSize); err != nil {
		log.Fatalf("Failed to ensure Qdrant collection: %v", err)
	}
	slog.Info("Qdrant collection ready", "collection", cfg.QdrantCollection, "vector_size", cfg.QdrantVectorSize)

	// Validate embedding client vector size (fail-fast)
	embedder := llm.NewEmbeddingsClient(cfg.EmbeddingBaseURL, cfg.LLMAPIKey, cfg.EmbeddingModelName, cfg.QdrantVectorSize)
	testEmbeddings, err := embedder.EmbedTexts(ctx, []string{"test"})
	if err != nil {
		log.Fatalf("Failed to validate embedding client: %v", err)
	}
	if len(testEmbeddings) == 0 || len(testEmbeddings[0]) != cfg.QdrantVectorSize {
		log.Fatalf("Embedding vector size mismatch: expected %d, got %d", cfg.QdrantVectorSize, len(testEmbeddings[0]))
	}
	slog.Info("Embedding client validated", "vector_size", cfg.QdrantVectorSize)

	// Create ingestion pipeline
	pipeline := indexer.NewPipeline(embedder, vectorStore, titleRepo, cfg.QdrantCollection)

	// Create LLM client (external service layer)
	llmClient := llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModelName)

	// Create retrieval engine and query service
	engine := rag.NewEngine(llmClient, embedder, vectorStore, titleRepo, cfg.QdrantCollection, cfg.TopK)
	queryService := service.NewQueryService(engine)
	slog.Info("Retrieval engine initialized", "top_k", cfg.TopK)

	// Create router with dependencies
	deps := &http.Deps{
		Queries:     queryService,
		VectorStore: vectorStore,
		Titles:      titleRepo,
		Pipeline:    pipeline,
		CatalogPath: cfg.CatalogPath,
		Collection:  cfg.QdrantCollection,
		IndexHTML:   indexHTML,
	}
	router := http.NewRouter(deps)

	// Start catalog ingestion in background after router is ready
	if cfg.CatalogPath != "" {
		go func() {
			indexCtx := context.Background()
			slog.Info("Starting background catalog ingestion", "path", cfg.CatalogPath)
			stats, err := pipeline.IndexFile(indexCtx, cfg.CatalogPath)
			if err != nil {
				slog.Error("Catalog ingestion failed", "error", err)
			} else {
				slog.Info("Catalog ingestion completed", "stats", stats.String())
			}
		}()
	} else {
		slog.Info("CATALOG_PATH not set, skipping startup ingestion")
	}

	// Start API server
	addr := ":" + cfg.APIPort
	slog.Info("Starting API server", "addr", addr)
	slog.Debug("LLM configuration", "base_url", cfg.LLMBaseURL, "model", cfg.LLMModelName)
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("API server failed to start: %v", err)
	}
}
