package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"internship-watcher/logger"
	apperr "internship-watcher/pkg/errors"
)

// fileData is the on-disk shape of the seen-set
type fileData struct {
	SeenInternships []string `json:"seen_internships"`
	LastUpdated     string   `json:"last_updated,omitempty"`
}

// FileStore persists the seen-set as a JSON file. Writes go through a
// temporary file followed by a rename, so a run aborted mid-write leaves the
// previous contents intact, and an advisory lock guards against two
// overlapping runs losing each other's update.
type FileStore struct {
	path string
	lock *flock.Flock
	log  *logger.Logger
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates a store backed by the given file path
func NewFileStore(path string) *FileStore {
	return &FileStore{
		path: path,
		lock: flock.New(path + ".lock"),
		log:  logger.ForStore(),
	}
}

// Load reads the persisted identifiers. Missing file: empty set, no error.
// Corrupt file: empty set plus a store_corrupt error, so a broken cache can
// never permanently block notifications.
func (f *FileStore) Load() (*SeenSet, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewSeenSet(), nil
		}
		return NewSeenSet(), apperr.NewStoreCorrupt("failed to read seen-set file "+f.path, err)
	}

	var parsed fileData
	if err := json.Unmarshal(data, &parsed); err != nil {
		f.log.Warn().
			Str("path", f.path).
			Err(err).
			Msg("Seen-set file is unreadable, starting from an empty baseline")
		return NewSeenSet(), apperr.NewStoreCorrupt("failed to parse seen-set file "+f.path, err)
	}

	return NewSeenSet(parsed.SeenInternships...), nil
}

// Save atomically replaces the file contents with the full set
func (f *FileStore) Save(set *SeenSet) error {
	if err := f.lock.Lock(); err != nil {
		return fmt.Errorf("failed to lock seen-set file: %w", err)
	}
	defer f.lock.Unlock()

	payload, err := json.MarshalIndent(fileData{
		SeenInternships: set.Identifiers(),
		LastUpdated:     time.Now().UTC().Format(time.RFC3339),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal seen-set: %w", err)
	}

	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write seen-set: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}

	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace seen-set file: %w", err)
	}

	f.log.Debug().
		Str("path", f.path).
		Int("count", set.Len()).
		Msg("Seen-set persisted")

	return nil
}
