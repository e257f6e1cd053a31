package devserver

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/five82/shelf/internal/catalog"
)

// LoadSeed reads a JSON array of records, the same shape GET /books returns.
// An empty path yields no records.
func LoadSeed(path string) ([]catalog.Record, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed: %w", err)
	}
	var records []catalog.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse seed %s: %w", path, err)
	}
	for i, rec := range records {
		if err := rec.Fields.Validate(); err != nil {
			return nil, fmt.Errorf("seed record %d (%q): %w", i, rec.Title, err)
		}
		records[i].Fields = rec.Fields.Normalize()
	}
	return records, nil
}
