package rag

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"screenrag/internal/contextutil"
)

// queryFacets is the structured record extracted from the raw query.
// It is produced once per request and copied field by field into the State.
type queryFacets struct {
	Status   string   `json:"status"`
	Title    string   `json:"title"`
	Year     int      `json:"year"`
	Casts    []string `json:"casts"`
	Director []string `json:"director"`
	Genre    []string `json:"genre"`
	OTT      []string `json:"ott"`
	Info     string   `json:"info"`
}

const analyzePromptTemplate = `Your role is to analyze the user's query and extract its key elements into the given schema.

**User query:**
%s

---
**Extraction guidelines:**
- Fill each schema field with the value found in the query.
- The 'status' field is "search" when the user asks about a specific title and "recommend" when the user wants suggestions.
- The 'genre' and 'ott' fields must only use values from the allowed sets defined in the schema. For example, "공상과학" or "sci-fi" maps to "SF", and "넷플" maps to "Netflix".
- Leave a field null when the query carries no information for it.`

// facetsSchema is the JSON schema handed to the LLM's structured-output mode.
// The genre and ott enums are built from the closed vocabularies so the model
// cannot emit values the filter builder would never match.
var facetsSchema = buildFacetsSchema()

func buildFacetsSchema() json.RawMessage {
	nullable := func(typ, description string) map[string]any {
		return map[string]any{
			"type":        []string{typ, "null"},
			"description": description,
		}
	}
	nullableList := func(description string, enum []string) map[string]any {
		items := map[string]any{"type": "string"}
		if len(enum) > 0 {
			items["enum"] = enum
		}
		return map[string]any{
			"type":        []string{"array", "null"},
			"items":       items,
			"description": description,
		}
	}

	schema := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"status": map[string]any{
				"type":        "string",
				"enum":        []string{string(StatusSearch), string(StatusRecommend)},
				"description": "Whether the query looks up information about a title (search) or asks for recommendations (recommend).",
			},
			"title":    nullable("string", "Title of the movie or series mentioned in the query."),
			"year":     nullable("integer", "A specific release year mentioned in the query."),
			"casts":    nullableList("Actor names mentioned in the query.", nil),
			"director": nullableList("Director names mentioned in the query.", nil),
			"genre":    nullableList("Genres mentioned in the query. Must be chosen from the allowed values only.", Genres),
			"ott":      nullableList("OTT platforms mentioned in the query. Must be chosen from the allowed values only.", Platforms),
			"info":     nullable("string", "Other plot-related keywords from the query."),
		},
		"required": []string{"status", "title", "year", "casts", "director", "genre", "ott", "info"},
	}

	data, err := json.Marshal(schema)
	if err != nil {
		panic(fmt.Sprintf("invalid facets schema: %v", err))
	}
	return data
}

// analyzeQuery extracts structured facets from the raw query with a single
// structured-output call and copies them into the state. A service failure
// propagates; there is no retry.
func (e *engine) analyzeQuery(ctx context.Context, st *State) error {
	logger := contextutil.LoggerFromContext(ctx)

	prompt := fmt.Sprintf(analyzePromptTemplate, st.Query)

	var facets queryFacets
	if err := e.llm.Extract(ctx, prompt, "query_details", facetsSchema, &facets); err != nil {
		return fmt.Errorf("facet extraction failed: %w", err)
	}

	st.Status = Status(facets.Status)
	st.Title = strings.TrimSpace(facets.Title)
	st.Year = facets.Year
	st.Casts = dropEmpty(facets.Casts)
	st.Director = dropEmpty(facets.Director)
	st.Genre = dropEmpty(facets.Genre)
	st.OTT = dropEmpty(facets.OTT)
	st.Info = strings.TrimSpace(facets.Info)

	logger.InfoContext(ctx, "query analyzed",
		"status", st.Status,
		"title", st.Title,
		"year", st.Year,
		"genre", st.Genre,
		"ott", st.OTT,
	)
	return nil
}

// dropEmpty removes empty strings, returning nil when nothing remains so
// downstream empty checks stay uniform.
func dropEmpty(values []string) []string {
	var kept []string
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			kept = append(kept, v)
		}
	}
	return kept
}
