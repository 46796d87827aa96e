package rag

import (
	"screenrag/internal/vectorstore"
)

// listFilterFields is the fixed set of list-valued facets that map to index
// metadata fields, in the order their clauses are emitted.
var listFilterFields = []string{"genre", "ott", "casts", "director"}

// buildMetadataFilter converts the extracted facets into a filter over the
// index metadata, or nil when no facet constrains the search.
//
// The structure is an AND of ORs: a document must satisfy every requested
// facet category, but within a list-valued category any one match suffices.
// A category with a single value emits a bare equality clause; a single
// overall clause is returned unwrapped. Values are matched as opaque
// strings, so an out-of-vocabulary value degrades to a miss rather than an
// error.
func buildMetadataFilter(st *State) *vectorstore.Filter {
	byField := map[string][]string{
		"genre":    st.Genre,
		"ott":      st.OTT,
		"casts":    st.Casts,
		"director": st.Director,
	}

	var clauses []*vectorstore.Filter
	for _, field := range listFilterFields {
		values := byField[field]
		if len(values) == 0 {
			continue
		}
		matches := make([]*vectorstore.Filter, 0, len(values))
		for _, v := range values {
			matches = append(matches, vectorstore.Match(field, v))
		}
		clauses = append(clauses, vectorstore.Or(matches...))
	}

	if st.Year != 0 {
		clauses = append(clauses, vectorstore.Match("year", st.Year))
	}

	return vectorstore.And(clauses...)
}
