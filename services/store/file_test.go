package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperr "internship-watcher/pkg/errors"
)

func tempStore(t *testing.T) (*FileStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seen_internships.json")
	return NewFileStore(path), path
}

func TestFileStoreRoundTrip(t *testing.T) {
	fs, _ := tempStore(t)

	set := NewSeenSet("https://example.com/i/1", "hash-abc", "hash-def")
	require.NoError(t, fs.Save(set))

	loaded, err := fs.Load()
	require.NoError(t, err)
	assert.Equal(t, set.Identifiers(), loaded.Identifiers())
}

func TestFileStoreMissingFile(t *testing.T) {
	fs, _ := tempStore(t)

	set, err := fs.Load()
	require.NoError(t, err)
	assert.Equal(t, 0, set.Len())
}

func TestFileStoreCorruptFile(t *testing.T) {
	fs, path := tempStore(t)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	set, err := fs.Load()
	assert.True(t, apperr.IsType(err, apperr.ErrorTypeStoreCorrupt))
	assert.NotNil(t, set)
	assert.Equal(t, 0, set.Len(), "corrupt file must fall back to an empty baseline")
}

func TestFileStoreSaveIdempotent(t *testing.T) {
	fs, path := tempStore(t)
	set := NewSeenSet("b", "a", "c")

	require.NoError(t, fs.Save(set))
	first := readIdentifiers(t, path)

	require.NoError(t, fs.Save(set))
	second := readIdentifiers(t, path)

	assert.Equal(t, first, second)
	assert.Equal(t, []string{"a", "b", "c"}, second, "identifiers are persisted sorted")
}

func TestFileStoreSaveReplacesAtomically(t *testing.T) {
	fs, path := tempStore(t)

	require.NoError(t, fs.Save(NewSeenSet("a")))
	require.NoError(t, fs.Save(NewSeenSet("a", "b")))

	assert.Equal(t, []string{"a", "b"}, readIdentifiers(t, path))

	// No stray temp files left behind
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	for _, entry := range entries {
		assert.NotContains(t, entry.Name(), ".tmp-")
	}
}

func TestSeenSet(t *testing.T) {
	set := NewSeenSet()
	assert.Equal(t, 0, set.Len())

	set.Add("x")
	set.Add("x")
	set.Add("")
	assert.Equal(t, 1, set.Len())
	assert.True(t, set.Contains("x"))
	assert.False(t, set.Contains("y"))
}

func readIdentifiers(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var parsed struct {
		SeenInternships []string `json:"seen_internships"`
	}
	require.NoError(t, json.Unmarshal(data, &parsed))
	return parsed.SeenInternships
}
