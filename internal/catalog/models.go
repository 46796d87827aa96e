package catalog

import (
	"strings"
	"time"
)

// Title represents a single movie or TV title in the catalog.
// ID doubles as the Qdrant point ID so search hits can be joined back to the
// full record.
type Title struct {
	ID            string    `json:"-"`
	Title         string    `json:"title"`
	OriginalTitle string    `json:"original_title,omitempty"`
	Year          int       `json:"year,omitempty"`
	Overview      string    `json:"overview,omitempty"`
	Keywords      []string  `json:"keywords,omitempty"`
	Genres        []string  `json:"genres,omitempty"`
	Platforms     []string  `json:"platforms,omitempty"`
	Casts         []string  `json:"casts,omitempty"`
	Directors     []string  `json:"directors,omitempty"`
	Hash          string    `json:"-"`
	UpdatedAt     time.Time `json:"-"`
}

// Document renders the title as the labeled text block that gets embedded and
// retrieved. The labels match the indexed corpus, which the specific-search
// prompt shows to the model as a worked example, so generated queries line up
// with stored documents.
func (t *Title) Document() string {
	var b strings.Builder
	writeField(&b, "제목", t.Title)
	writeField(&b, "영문 제목", t.OriginalTitle)
	writeField(&b, "줄거리", t.Overview)
	writeField(&b, "장르", strings.Join(t.Genres, ", "))
	writeField(&b, "키워드", strings.Join(t.Keywords, ", "))
	writeField(&b, "주요 출연진", strings.Join(t.Casts, ", "))
	writeField(&b, "감독", strings.Join(t.Directors, ", "))
	return strings.TrimRight(b.String(), "\n")
}

func writeField(b *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	b.WriteString("[")
	b.WriteString(label)
	b.WriteString("] ")
	b.WriteString(value)
	b.WriteString("\n")
}

// Metadata returns the filterable payload stored alongside the vector.
// List values are stored as arrays so an equality match on the field holds
// when any element equals the requested value.
func (t *Title) Metadata() map[string]any {
	meta := map[string]any{
		"title": t.Title,
	}
	if t.Year != 0 {
		meta["year"] = int64(t.Year)
	}
	if len(t.Genres) > 0 {
		meta["genre"] = toAnySlice(t.Genres)
	}
	if len(t.Platforms) > 0 {
		meta["ott"] = toAnySlice(t.Platforms)
	}
	if len(t.Casts) > 0 {
		meta["casts"] = toAnySlice(t.Casts)
	}
	if len(t.Directors) > 0 {
		meta["director"] = toAnySlice(t.Directors)
	}
	return meta
}

func toAnySlice(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
