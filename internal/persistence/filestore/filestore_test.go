package filestore_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/example/antcal/internal/persistence"
	"github.com/example/antcal/internal/persistence/filestore"
)

func newStore(t *testing.T) (*filestore.Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "db.json")
	store, err := filestore.Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	return store, path
}

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("bootstraps a missing file with empty collections", func(t *testing.T) {
		t.Parallel()

		store, path := newStore(t)
		state, err := store.Load(context.Background())
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if len(state.Users) != 0 || len(state.Calendars) != 0 || len(state.Events) != 0 {
			t.Fatalf("expected empty collections, got %#v", state)
		}

		raw, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("expected bootstrap write, read failed: %v", err)
		}
		var doc map[string]json.RawMessage
		if err := json.Unmarshal(raw, &doc); err != nil {
			t.Fatalf("bootstrap file is not valid JSON: %v", err)
		}
		for _, key := range []string{"users", "calendars", "events", "posts", "comments", "friends", "calendar_shares"} {
			if _, ok := doc[key]; !ok {
				t.Fatalf("bootstrap document missing %q key: %s", key, raw)
			}
		}
	})

	t.Run("bootstraps an empty file", func(t *testing.T) {
		t.Parallel()

		store, path := newStore(t)
		if err := os.WriteFile(path, []byte("  \n"), 0o644); err != nil {
			t.Fatalf("seed write failed: %v", err)
		}

		state, err := store.Load(context.Background())
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if len(state.Users) != 0 {
			t.Fatalf("expected empty users, got %#v", state.Users)
		}
	})

	t.Run("recovers from a malformed document", func(t *testing.T) {
		t.Parallel()

		store, path := newStore(t)
		if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
			t.Fatalf("seed write failed: %v", err)
		}

		state, err := store.Load(context.Background())
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if len(state.Events) != 0 {
			t.Fatalf("expected empty events, got %#v", state.Events)
		}
	})
}

func TestSave(t *testing.T) {
	t.Parallel()

	t.Run("round-trips the full document", func(t *testing.T) {
		t.Parallel()

		store, _ := newStore(t)
		ctx := context.Background()

		state := persistence.State{
			Users: []persistence.User{{ID: "u-1", Email: "a@x.com", Password: "hash", Username: "A", Phone: "010-0000-0000"}},
			Calendars: []persistence.Calendar{{
				ID: "c-1", Name: "Work", Purpose: "Job", Color: "rgb(1,2,3)", UserNum: "u-1",
			}},
			Events: []persistence.Event{{
				ID: "e-1", Title: "Standup", StartDate: "2026-01-05", EndDate: "2026-01-05",
				StartTime: "09:00", EndTime: "09:15", Color: "#fff", CalendarID: "c-1", UserNum: "u-1",
			}},
		}
		if err := store.Save(ctx, state); err != nil {
			t.Fatalf("Save failed: %v", err)
		}

		loaded, err := store.Load(ctx)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if loaded.Users[0] != state.Users[0] {
			t.Fatalf("user round-trip mismatch: %#v", loaded.Users[0])
		}
		if loaded.Calendars[0] != state.Calendars[0] {
			t.Fatalf("calendar round-trip mismatch: %#v", loaded.Calendars[0])
		}
		if loaded.Events[0] != state.Events[0] {
			t.Fatalf("event round-trip mismatch: %#v", loaded.Events[0])
		}
	})

	t.Run("writes a human-readable document", func(t *testing.T) {
		t.Parallel()

		store, path := newStore(t)
		if err := store.Save(context.Background(), persistence.State{
			Users: []persistence.User{{ID: "u-1", Email: "a@x.com"}},
		}); err != nil {
			t.Fatalf("Save failed: %v", err)
		}

		raw, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read failed: %v", err)
		}
		if !strings.Contains(string(raw), "\n  \"users\"") {
			t.Fatalf("expected indented document, got: %s", raw)
		}
	})
}

func TestUpdate(t *testing.T) {
	t.Parallel()

	t.Run("applies mutation and persists it", func(t *testing.T) {
		t.Parallel()

		store, _ := newStore(t)
		ctx := context.Background()

		err := store.Update(ctx, func(state *persistence.State) error {
			state.Users = append(state.Users, persistence.User{ID: "u-1", Email: "a@x.com"})
			return nil
		})
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}

		state, err := store.Load(ctx)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if len(state.Users) != 1 || state.Users[0].ID != "u-1" {
			t.Fatalf("expected appended user, got %#v", state.Users)
		}
	})

	t.Run("does not write when the mutation fails", func(t *testing.T) {
		t.Parallel()

		store, _ := newStore(t)
		ctx := context.Background()

		sentinel := errors.New("reject")
		err := store.Update(ctx, func(state *persistence.State) error {
			state.Users = append(state.Users, persistence.User{ID: "u-1"})
			return sentinel
		})
		if !errors.Is(err, sentinel) {
			t.Fatalf("expected sentinel error, got %v", err)
		}

		state, err := store.Load(ctx)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if len(state.Users) != 0 {
			t.Fatalf("expected unchanged store, got %#v", state.Users)
		}
	})

	t.Run("serializes concurrent writers", func(t *testing.T) {
		t.Parallel()

		store, _ := newStore(t)
		ctx := context.Background()

		const writers = 16
		var wg sync.WaitGroup
		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_ = store.Update(ctx, func(state *persistence.State) error {
					state.Events = append(state.Events, persistence.Event{ID: "e"})
					return nil
				})
			}()
		}
		wg.Wait()

		state, err := store.Load(ctx)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if len(state.Events) != writers {
			t.Fatalf("expected %d events, got %d", writers, len(state.Events))
		}
	})
}

func TestSnapshot(t *testing.T) {
	t.Parallel()

	store, _ := newStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, persistence.State{
		Calendars: []persistence.Calendar{{ID: "c-1", Name: "Work"}},
	}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	dir := filepath.Join(t.TempDir(), "backups")
	fixed := time.Date(2026, time.February, 3, 4, 5, 6, 0, time.UTC)
	path, err := store.Snapshot(ctx, dir, func() time.Time { return fixed })
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if filepath.Base(path) != "db-20260203T040506Z.json" {
		t.Fatalf("unexpected snapshot name: %s", path)
	}

	copyStore, err := filestore.Open(path)
	if err != nil {
		t.Fatalf("Open snapshot failed: %v", err)
	}
	state, err := copyStore.Load(ctx)
	if err != nil {
		t.Fatalf("Load snapshot failed: %v", err)
	}
	if len(state.Calendars) != 1 || state.Calendars[0].Name != "Work" {
		t.Fatalf("snapshot content mismatch: %#v", state.Calendars)
	}
}
