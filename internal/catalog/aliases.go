package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lepinkainen/gamedeals/internal/normalize"
)

// Aliases maps title variants of well-known games directly to their app IDs,
// skipping the catalog scan entirely. Keys are stored normalized, so spelled
// variants like "cs:go" and "csgo" collapse into one entry.
type Aliases map[string]int

// DefaultAliases returns the built-in alias table.
func DefaultAliases() Aliases {
	a := make(Aliases, 4)
	for _, variant := range []string{
		"counter strike global offensive",
		"csgo",
		"cs go",
		"cs:go",
	} {
		a[normalize.Title(variant)] = 730
	}
	return a
}

// Lookup returns the app ID for a query, if aliased. The query is normalized
// before the lookup, so raw and normalized forms both resolve.
func (a Aliases) Lookup(query string) (int, bool) {
	id, ok := a[normalize.Title(query)]
	return id, ok
}

// Merge overlays other onto a, normalizing keys, overwriting on conflict.
func (a Aliases) Merge(other Aliases) {
	for k, v := range other {
		a[normalize.Title(k)] = v
	}
}

// LoadAliasFile reads user-defined aliases from a YAML file mapping title
// variants to app IDs. Keys may be written in any spelling; they are
// normalized on load.
func LoadAliasFile(path string) (Aliases, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read alias file: %w", err)
	}

	var raw map[string]int
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse alias file %s: %w", path, err)
	}

	aliases := make(Aliases, len(raw))
	for k, v := range raw {
		aliases[normalize.Title(k)] = v
	}
	return aliases, nil
}
