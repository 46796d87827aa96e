package rag

import (
	"context"
	"errors"
	"fmt"

	"screenrag/internal/catalog"
	"screenrag/internal/contextutil"
	"screenrag/internal/vectorstore"
)

// retrieve fetches the top-k documents for RAGQuery with no metadata filter
// and stores them as the answer context. Zero results is not an error; the
// answer stage handles an empty context.
func (e *engine) retrieve(ctx context.Context, st *State) error {
	docs, err := e.search(ctx, e.searchText(ctx, st), nil)
	if err != nil {
		return err
	}
	st.Context = docs
	return nil
}

// retrieveFiltered fetches the top-k documents constrained by the metadata
// filter built from the extracted facets, falling back to an unfiltered
// search when no facet constrains the query.
func (e *engine) retrieveFiltered(ctx context.Context, st *State) error {
	logger := contextutil.LoggerFromContext(ctx)

	filter := buildMetadataFilter(st)
	if filter != nil {
		logger.InfoContext(ctx, "applying metadata filter", "filter", filter.String())
	} else {
		logger.InfoContext(ctx, "no metadata filter, plain similarity search")
	}

	docs, err := e.search(ctx, e.searchText(ctx, st), filter)
	if err != nil {
		return err
	}
	st.Context = docs
	return nil
}

// retrieveBaseTitle looks up the base title for similar-recommendation and
// overwrites RAGContext with the best hit's document text, so the next
// synthesis stage works from the full title details instead of the facets.
// The default k documents are fetched and only the first is used. When
// nothing is retrieved the raw query substitutes as context and the pipeline
// continues.
func (e *engine) retrieveBaseTitle(ctx context.Context, st *State) error {
	logger := contextutil.LoggerFromContext(ctx)

	docs, err := e.search(ctx, e.searchText(ctx, st), nil)
	if err != nil {
		return err
	}

	if len(docs) == 0 {
		logger.WarnContext(ctx, "base title not found, falling back to raw query as context")
		st.RAGContext = st.Query
		return nil
	}

	st.RAGContext = docs[0].Text
	logger.InfoContext(ctx, "base title retrieved", "id", docs[0].ID, "score", docs[0].Score)
	return nil
}

// searchText returns the synthesized search query, substituting the raw
// query when synthesis left nothing behind.
func (e *engine) searchText(ctx context.Context, st *State) string {
	if st.RAGQuery != "" {
		return st.RAGQuery
	}
	contextutil.LoggerFromContext(ctx).WarnContext(ctx, "rag query missing, searching with raw query")
	return st.Query
}

// search embeds the query text, runs the similarity search, and joins the
// hits back to catalog records for their document text. Hits whose record
// has gone missing are skipped, and duplicate point IDs are dropped.
func (e *engine) search(ctx context.Context, query string, filter *vectorstore.Filter) ([]Document, error) {
	logger := contextutil.LoggerFromContext(ctx)

	embeddings, err := e.embedder.EmbedTexts(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("no embedding returned for query")
	}

	hits, err := e.vectorStore.Search(ctx, e.collection, embeddings[0], e.topK, filter)
	if err != nil {
		return nil, fmt.Errorf("similarity search failed: %w", err)
	}

	seen := make(map[string]bool, len(hits))
	docs := make([]Document, 0, len(hits))
	for _, hit := range hits {
		if seen[hit.PointID] {
			continue
		}
		seen[hit.PointID] = true

		title, err := e.titles.GetByID(ctx, hit.PointID)
		if errors.Is(err, catalog.ErrNotFound) {
			logger.WarnContext(ctx, "search hit has no catalog record, skipping", "id", hit.PointID)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load title for hit %s: %w", hit.PointID, err)
		}

		docs = append(docs, Document{
			ID:    hit.PointID,
			Text:  title.Document(),
			Score: hit.Score,
			Meta:  hit.Meta,
		})
	}

	logger.InfoContext(ctx, "retrieval completed", "query", query, "k", e.topK, "results", len(docs))
	return docs, nil
}
