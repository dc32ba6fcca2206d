package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestDefaultAliasesAllPointToSameGame(t *testing.T) {
	aliases := DefaultAliases()

	for _, variant := range []string{"csgo", "cs go", "cs:go", "counter strike global offensive"} {
		id, ok := aliases.Lookup(variant)
		assert.True(t, ok, "expected alias for %q", variant)
		assert.Equal(t, 730, id)
	}
}

func TestDefaultAliasesStoreNormalizedKeys(t *testing.T) {
	aliases := DefaultAliases()

	// "cs:go" normalizes to "csgo", so the raw spelling is not its own entry.
	_, rawKeyPresent := aliases["cs:go"]
	assert.False(t, rawKeyPresent)

	id, ok := aliases.Lookup("CS:GO")
	assert.True(t, ok)
	assert.Equal(t, 730, id)
}

func TestLookupMiss(t *testing.T) {
	_, ok := DefaultAliases().Lookup("some unknown game")
	assert.False(t, ok)
}

func TestMerge(t *testing.T) {
	aliases := DefaultAliases()
	aliases.Merge(Aliases{"tw3": 292030, "csgo": 999})

	id, ok := aliases.Lookup("tw3")
	assert.True(t, ok)
	assert.Equal(t, 292030, id)

	// Overrides win on conflict.
	id, _ = aliases.Lookup("csgo")
	assert.Equal(t, 999, id)

	// Override keys are normalized on merge.
	aliases.Merge(Aliases{"The Witcher 3: Wild Hunt": 292030})
	id, ok = aliases.Lookup("the witcher 3 wild hunt")
	assert.True(t, ok)
	assert.Equal(t, 292030, id)
}

func TestLoadAliasFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aliases.yaml")
	content := "tw3: 292030\n\"Dark Souls: Remastered\": 570940\n"
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	aliases, err := LoadAliasFile(path)
	assert.NoError(t, err)

	id, ok := aliases.Lookup("tw3")
	assert.True(t, ok)
	assert.Equal(t, 292030, id)

	// File keys are normalized on load.
	id, ok = aliases.Lookup("dark souls remastered")
	assert.True(t, ok)
	assert.Equal(t, 570940, id)
}

func TestLoadAliasFileMissing(t *testing.T) {
	_, err := LoadAliasFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadAliasFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aliases.yaml")
	assert.NoError(t, os.WriteFile(path, []byte("not: [valid: mapping"), 0o644))

	_, err := LoadAliasFile(path)
	assert.Error(t, err)
}
