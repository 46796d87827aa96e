package rag

import (
	"strconv"
	"strings"
)

// noDetailsSentinel is emitted when every facet is empty. The broad-query
// synthesizer recognizes it and falls back to the raw query.
const noDetailsSentinel = " - (No specific query details provided) -"

// formatFacets renders the request state as "- Key: value" lines in a fixed
// field order, skipping absent values, empty strings and empty lists. List
// values are joined with ", ". The output is the prompt context for the
// query synthesizers.
func formatFacets(st *State) string {
	year := ""
	if st.Year != 0 {
		year = strconv.Itoa(st.Year)
	}

	ordered := []struct {
		key   string
		value string
	}{
		{"Query", st.Query},
		{"Status", string(st.Status)},
		{"Title", st.Title},
		{"Year", year},
		{"Casts", strings.Join(st.Casts, ", ")},
		{"Director", strings.Join(st.Director, ", ")},
		{"Genre", strings.Join(st.Genre, ", ")},
		{"Ott", strings.Join(st.OTT, ", ")},
		{"Info", st.Info},
	}

	lines := make([]string, 0, len(ordered))
	for _, f := range ordered {
		if f.value == "" {
			continue
		}
		lines = append(lines, "- "+f.key+": "+f.value)
	}

	if len(lines) == 0 {
		return noDetailsSentinel
	}
	return strings.Join(lines, "\n")
}
