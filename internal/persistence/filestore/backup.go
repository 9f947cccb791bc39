package filestore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Snapshot copies the current document into dir under a timestamped name and
// returns the path of the written copy. The document is loaded through the
// store so a snapshot never observes a half-written file.
func (s *Store) Snapshot(ctx context.Context, dir string, now func() time.Time) (string, error) {
	if now == nil {
		now = time.Now
	}

	state, err := s.Load(ctx)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("filestore: create backup dir: %w", err)
	}

	name := fmt.Sprintf("db-%s.json", now().UTC().Format("20060102T150405Z"))
	target := filepath.Join(dir, name)

	backup := &Store{path: target}
	if err := backup.Save(ctx, state); err != nil {
		return "", err
	}
	return target, nil
}
