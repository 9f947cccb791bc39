package testfixtures

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/example/antcal/internal/persistence"
	"github.com/example/antcal/internal/persistence/filestore"
)

// StoreHarness bundles a temp-dir backed file store with deterministic ID and
// time sources for service tests.
type StoreHarness struct {
	Store *filestore.Store
	IDs   *IDGenerator
	Clock *Clock
}

// NewStoreHarness creates a fresh harness rooted in the test's temp dir.
func NewStoreHarness(t *testing.T) *StoreHarness {
	t.Helper()

	store, err := filestore.Open(filepath.Join(t.TempDir(), "db.json"))
	if err != nil {
		t.Fatalf("filestore.Open failed: %v", err)
	}
	return &StoreHarness{
		Store: store,
		IDs:   NewIDGenerator("id"),
		Clock: NewClock(ReferenceTime()),
	}
}

// Seed overwrites the store with the provided state.
func (h *StoreHarness) Seed(t *testing.T, state persistence.State) {
	t.Helper()
	if err := h.Store.Save(context.Background(), state); err != nil {
		t.Fatalf("seed Save failed: %v", err)
	}
}

// State loads and returns the current document.
func (h *StoreHarness) State(t *testing.T) persistence.State {
	t.Helper()
	state, err := h.Store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return state
}
