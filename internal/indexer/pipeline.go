package indexer

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_embedder.go -package=mocks screenrag/internal/indexer Embedder

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"screenrag/internal/catalog"
	"screenrag/internal/contextutil"
	"screenrag/internal/vectorstore"
)

// Embedder turns document texts into vectors.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// pointNamespace seeds deterministic point IDs so re-ingesting the same
// catalog file always maps a title to the same vector point.
var pointNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("screenrag/catalog/title"))

// embedBatchSize bounds how many documents go to the embedding service in
// one request.
const embedBatchSize = 32

// Pipeline ingests a catalog file into the vector store and the title
// database. Ingestion is incremental; unchanged titles are skipped by
// content hash.
type Pipeline struct {
	embedder   Embedder
	store      vectorstore.VectorStore
	titles     catalog.TitleStore
	collection string
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(embedder Embedder, store vectorstore.VectorStore, titles catalog.TitleStore, collection string) *Pipeline {
	return &Pipeline{
		embedder:   embedder,
		store:      store,
		titles:     titles,
		collection: collection,
	}
}

// IndexFile ingests the catalog JSON file at path. Titles whose content is
// unchanged since the last run are skipped. A failure on one title does not
// stop the run; it is counted and the rest of the catalog proceeds.
func (p *Pipeline) IndexFile(ctx context.Context, path string) (*Stats, error) {
	logger := contextutil.LoggerFromContext(ctx)

	titles, err := catalog.LoadFile(path)
	if err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "catalog loaded", "path", path, "titles", len(titles))

	stats := &Stats{Total: len(titles)}
	var batch []pending

	for i := range titles {
		title := &titles[i]
		title.ID = PointID(title)
		title.Hash = contentHash(title)

		stored, err := p.titles.GetByID(ctx, title.ID)
		if err != nil && !errors.Is(err, catalog.ErrNotFound) {
			return nil, fmt.Errorf("failed to check stored title %q: %w", title.Title, err)
		}
		if stored != nil && stored.Hash == title.Hash {
			stats.Skipped++
			continue
		}

		batch = append(batch, pending{title: title, doc: title.Document()})
		if len(batch) >= embedBatchSize {
			p.flush(ctx, batch, stats)
			batch = batch[:0]
		}
	}
	p.flush(ctx, batch, stats)

	logger.InfoContext(ctx, "catalog ingestion finished",
		"total", stats.Total,
		"indexed", stats.Indexed,
		"skipped", stats.Skipped,
		"failed", stats.Failed,
	)
	return stats, nil
}

// pending is one title waiting for embedding.
type pending struct {
	title *catalog.Title
	doc   string
}

// flush embeds and stores one batch. Errors are logged and counted rather
// than propagated so a bad batch does not abort the whole catalog.
func (p *Pipeline) flush(ctx context.Context, batch []pending, stats *Stats) {
	if len(batch) == 0 {
		return
	}
	logger := contextutil.LoggerFromContext(ctx)

	texts := make([]string, len(batch))
	for i, item := range batch {
		texts[i] = item.doc
	}

	vectors, err := p.embedder.EmbedTexts(ctx, texts)
	if err != nil || len(vectors) != len(batch) {
		if err == nil {
			err = fmt.Errorf("got %d embeddings for %d documents", len(vectors), len(batch))
		}
		logger.ErrorContext(ctx, "failed to embed batch", "size", len(batch), "error", err)
		stats.Failed += len(batch)
		return
	}

	points := make([]vectorstore.Point, len(batch))
	for i, item := range batch {
		points[i] = vectorstore.Point{
			ID:   item.title.ID,
			Vec:  vectors[i],
			Meta: item.title.Metadata(),
		}
	}
	if err := p.store.Upsert(ctx, p.collection, points); err != nil {
		logger.ErrorContext(ctx, "failed to upsert points", "size", len(batch), "error", err)
		stats.Failed += len(batch)
		return
	}

	// Records go in after the points so a search hit never dangles without
	// its document text.
	for _, item := range batch {
		if err := p.titles.Upsert(ctx, item.title); err != nil {
			logger.ErrorContext(ctx, "failed to store title record", "title", item.title.Title, "error", err)
			stats.Failed++
			continue
		}
		stats.Indexed++
	}
}

// PointID derives the deterministic vector point ID for a title from its
// name and release year.
func PointID(t *catalog.Title) string {
	key := fmt.Sprintf("%s|%s|%d", t.Title, t.OriginalTitle, t.Year)
	return uuid.NewSHA1(pointNamespace, []byte(key)).String()
}

// contentHash fingerprints everything that feeds the document text or the
// payload, so any change re-embeds the title.
func contentHash(t *catalog.Title) string {
	data, _ := json.Marshal(t)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
