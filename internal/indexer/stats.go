package indexer

import "fmt"

// Stats summarizes one ingestion run.
type Stats struct {
	// Total is the number of titles in the catalog file.
	Total int `json:"total"`
	// Indexed is the number of titles embedded and stored in this run.
	Indexed int `json:"indexed"`
	// Skipped is the number of titles left untouched because their content
	// hash matched the stored record.
	Skipped int `json:"skipped"`
	// Failed is the number of titles that could not be embedded or stored.
	Failed int `json:"failed"`
}

func (s *Stats) String() string {
	return fmt.Sprintf("total=%d indexed=%d skipped=%d failed=%d", s.Total, s.Indexed, s.Skipped, s.Failed)
}
