package pdf

import (
	"fmt"
	"os"

	"github.com/Matidigital/Contapyme-sub001/internal/f29"
)

// LoadKnownValues reads the known-values YAML file and checks every entry
// against the catalog. An empty path means the table is not configured.
func LoadKnownValues(path string, cat *f29.Catalog) (f29.KnownValues, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read known values %s: %w", path, err)
	}

	known, err := f29.ParseKnownValues(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse known values %s: %w", path, err)
	}

	if err := known.Validate(cat); err != nil {
		return nil, fmt.Errorf("invalid known values %s: %w", path, err)
	}

	return known, nil
}
