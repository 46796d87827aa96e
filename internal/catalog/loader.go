package catalog

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadFile reads a JSON catalog file containing an array of titles.
// Entries without a title are rejected so bad catalog rows fail loudly at
// ingest instead of producing unsearchable documents.
func LoadFile(path string) ([]Title, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var titles []Title
	if err := json.Unmarshal(data, &titles); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}

	for i := range titles {
		if titles[i].Title == "" {
			return nil, fmt.Errorf("catalog entry %d has no title", i)
		}
	}

	return titles, nil
}
