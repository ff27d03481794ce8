package ingest

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// aliasFile is the on-disk shape of a column alias map:
//
//	columns:
//	  nhs_no: nhs_number
//	  birth_date: date_of_birth
type aliasFile struct {
	Columns map[string]string `yaml:"columns"`
}

// LoadAliases reads a YAML column alias map. A missing path yields an empty
// map so the alias file stays optional.
func LoadAliases(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read alias file: %w", err)
	}

	var parsed aliasFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parse alias file: %w", err)
	}
	return parsed.Columns, nil
}
