package rag

// Route labels one of the three retrieval pipelines.
type Route string

const (
	// RouteSpecificSearch answers a question about a specific title.
	RouteSpecificSearch Route = "specific_search"
	// RouteSimilarRecommendation recommends titles similar to a named one.
	RouteSimilarRecommendation Route = "similar_recommendation"
	// RouteBroadRecommendation recommends titles matching extracted criteria.
	RouteBroadRecommendation Route = "broad_recommendation"
)

// routeQuery maps the extracted facets to a pipeline. The decision table is
// evaluated in order: a search intent always wins regardless of title; a
// recommendation with a named title goes to similar-recommendation;
// everything else is a broad recommendation. Pure and total.
func routeQuery(st *State) Route {
	if st.Status == StatusSearch {
		return RouteSpecificSearch
	}
	if st.Title != "" {
		return RouteSimilarRecommendation
	}
	return RouteBroadRecommendation
}
