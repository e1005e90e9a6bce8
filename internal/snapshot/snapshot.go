// Package snapshot persists the customer directory as a JSON file.
//
// Saves are atomic: the snapshot is written to a temporary file that is
// renamed over the previous one, so a crash mid-write never corrupts
// the last acknowledged state.
package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/bankops/backoffice/internal/domain"
)

// Directory is the serialized form of the full customer directory.
type Directory struct {
	SavedAt   time.Time             `json:"saved_at"`
	Customers []domain.CustomerView `json:"customers"`
}

// Store reads and writes directory snapshots at a fixed path.
//
// A Store with an empty path is a no-op; the service then runs purely
// in memory.
type Store struct {
	path string
}

// NewStore returns a Store writing to the given path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the snapshot from disk. A missing file yields an empty
// directory, not an error.
func (s *Store) Load(ctx context.Context) (Directory, error) {
	var dir Directory

	if s.path == "" {
		return dir, nil
	}

	l := zerolog.Ctx(ctx)

	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return dir, nil
		}

		l.Error().Err(err).Str("path", s.path).Msg("cannot open snapshot")

		return dir, err
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(&dir); err != nil {
		l.Error().Err(err).Str("path", s.path).Msg("cannot decode snapshot")
		return Directory{}, err
	}

	return dir, nil
}

// Save writes the snapshot to disk atomically.
func (s *Store) Save(ctx context.Context, dir Directory) error {
	if s.path == "" {
		return nil
	}

	l := zerolog.Ctx(ctx)

	dir.SavedAt = time.Now().UTC()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		l.Error().Err(err).Str("path", s.path).Msg("cannot create snapshot directory")
		return err
	}

	tmp := s.path + ".tmp"

	f, err := os.Create(tmp)
	if err != nil {
		l.Error().Err(err).Str("path", tmp).Msg("cannot create snapshot file")
		return err
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")

	if err := enc.Encode(dir); err != nil {
		f.Close()
		l.Error().Err(err).Str("path", tmp).Msg("cannot encode snapshot")

		return err
	}

	if err := f.Close(); err != nil {
		return err
	}

	return os.Rename(tmp, s.path)
}
