// Package filestore persists the whole calendar document as a single JSON
// file. The file is read in full on every Load and rewritten in full on every
// Save; Update serializes the load-mutate-save sequence under a store-level
// mutex so concurrent in-process writers cannot lose each other's changes.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/example/antcal/internal/persistence"
)

// Store implements persistence.Store on top of one JSON file.
type Store struct {
	mu   sync.Mutex
	path string
}

// Open returns a store backed by the file at path. The file is not touched
// until the first Load or Save.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("filestore: path is required")
	}
	return &Store{path: path}, nil
}

// Load reads the document. Missing, empty, or malformed content bootstraps a
// zeroed document and writes it back so the next reader finds a valid file.
func (s *Store) Load(ctx context.Context) (persistence.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx)
}

// Save overwrites the document with the provided state.
func (s *Store) Save(ctx context.Context, state persistence.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(ctx, state)
}

// Update runs mutate against the freshly loaded state and saves the result.
// When mutate returns an error nothing is written.
func (s *Store) Update(ctx context.Context, mutate func(*persistence.State) error) error {
	if mutate == nil {
		return errors.New("filestore: mutate function is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.loadLocked(ctx)
	if err != nil {
		return err
	}
	if err := mutate(&state); err != nil {
		return err
	}
	return s.saveLocked(ctx, state)
}

// Close is a no-op; the store holds no open file handles between calls.
func (s *Store) Close() error {
	return nil
}

// Path returns the location of the backing file.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) loadLocked(ctx context.Context) (persistence.State, error) {
	if err := ctx.Err(); err != nil {
		return persistence.State{}, err
	}

	raw, err := os.ReadFile(s.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return s.bootstrapLocked(ctx)
	case err != nil:
		return persistence.State{}, fmt.Errorf("filestore: read %s: %w", s.path, err)
	}

	if len(raw) == 0 || isBlank(raw) {
		return s.bootstrapLocked(ctx)
	}

	var state persistence.State
	if err := json.Unmarshal(raw, &state); err != nil {
		// Corrupt document: recover the same way as an absent one.
		return s.bootstrapLocked(ctx)
	}

	state.Normalize()
	return state, nil
}

func (s *Store) saveLocked(ctx context.Context, state persistence.State) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	state.Normalize()
	raw, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("filestore: encode state: %w", err)
	}
	raw = append(raw, '\n')

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".antcal-*.json")
	if err != nil {
		return fmt.Errorf("filestore: create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("filestore: write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("filestore: close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("filestore: replace %s: %w", s.path, err)
	}
	return nil
}

func (s *Store) bootstrapLocked(ctx context.Context) (persistence.State, error) {
	var state persistence.State
	state.Normalize()
	if err := s.saveLocked(ctx, state); err != nil {
		return persistence.State{}, err
	}
	return state, nil
}

func isBlank(raw []byte) bool {
	for _, b := range raw {
		switch b {
		case ' ', '\t', '\r', '\n':
		default:
			return false
		}
	}
	return true
}
