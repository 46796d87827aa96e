package rag

import (
	"context"
	"fmt"
	"strings"

	"screenrag/internal/contextutil"
)

// searchQueryPromptTemplate shapes the generated query after the indexed
// document format, shown as a worked example. Used by the specific-search
// pipeline and as the base-title lookup of similar-recommendation.
const searchQueryPromptTemplate = `Your role is to look at the extracted query details and generate a query suited for similarity search over the index. Document contents in the index look like this:

=== Example document ===
[제목] 승부
[영문 제목] The Match
[줄거리] 세계 최고 바둑 대회에서 국내 최초 우승자가 된 조훈현과 그의 제자 이창호의 대국 실화
[장르] 드라마
[키워드] based on true story, go
[주요 출연진] 이병헌, 유아인
[감독] 김형주
=== End of example ===

**Query details**
%s`

// broadQueryPromptTemplate summarizes search criteria into a retrieval query.
const broadQueryPromptTemplate = `You are a recommendation query generator for similarity search.
Based on the provided search criteria, generate a search query for finding movies and series that satisfy them.

The query should summarize the key characteristics of what the user is looking for (genre, mood, keywords).

[Search criteria]
%s

[Search query summarizing the criteria]`

// similarQueryPromptTemplate turns a retrieved title's document into a query
// for similar-but-different titles.
const similarQueryPromptTemplate = `You are a recommendation query generator for similarity search.
Based on the provided title details, generate a search query for finding other, similar movies and series.

The query should reflect the title's key characteristics (genre, plot, mood, cast). Leave the original title itself out and focus on its characteristics.

[Title details]
%s

[Search query for similar titles]`

// generateSearchQuery synthesizes an index-shaped search query from the
// formatted facets and stores it in RAGQuery.
func (e *engine) generateSearchQuery(ctx context.Context, st *State) error {
	return e.synthesizeQuery(ctx, st, searchQueryPromptTemplate, false)
}

// generateBroadQuery synthesizes a criteria-summary query for the broad
// recommendation pipeline. The no-details sentinel counts as missing context.
func (e *engine) generateBroadQuery(ctx context.Context, st *State) error {
	return e.synthesizeQuery(ctx, st, broadQueryPromptTemplate, true)
}

// generateSimilarQuery synthesizes a similarity query from the base title's
// document text placed in RAGContext by the preceding retrieval stage.
func (e *engine) generateSimilarQuery(ctx context.Context, st *State) error {
	return e.synthesizeQuery(ctx, st, similarQueryPromptTemplate, false)
}

// synthesizeQuery runs one prompt/response round-trip with a single-field
// substitution. Missing context is never an error: the raw query substitutes
// for it, so the stage always has something to work with.
func (e *engine) synthesizeQuery(ctx context.Context, st *State, template string, sentinelIsEmpty bool) error {
	logger := contextutil.LoggerFromContext(ctx)

	ragContext := st.RAGContext
	if ragContext == "" || (sentinelIsEmpty && ragContext == noDetailsSentinel) {
		logger.WarnContext(ctx, "rag context missing, falling back to raw query")
		ragContext = st.Query
	}

	query, err := e.llm.Chat(ctx, fmt.Sprintf(template, ragContext))
	if err != nil {
		return fmt.Errorf("query synthesis failed: %w", err)
	}

	st.RAGQuery = strings.TrimSpace(query)
	logger.DebugContext(ctx, "search query generated", "rag_query", st.RAGQuery)
	return nil
}
