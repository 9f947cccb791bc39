package sqlitestore_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/example/antcal/internal/persistence"
	"github.com/example/antcal/internal/persistence/sqlitestore"
)

func newStore(t *testing.T) *sqlitestore.Store {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "antcal.db")
	store, err := sqlitestore.Open(dsn)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore(t *testing.T) {
	t.Parallel()

	t.Run("loads empty collections from a fresh database", func(t *testing.T) {
		t.Parallel()

		store := newStore(t)
		state, err := store.Load(context.Background())
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if len(state.Users) != 0 || len(state.Calendars) != 0 || len(state.Events) != 0 {
			t.Fatalf("expected empty state, got %#v", state)
		}
	})

	t.Run("round-trips the full document in insertion order", func(t *testing.T) {
		t.Parallel()

		store := newStore(t)
		ctx := context.Background()

		state := persistence.State{
			Users: []persistence.User{
				{ID: "u-1", Email: "a@x.com", Password: "hash-a", Username: "A", Phone: "010-0000-0000"},
				{ID: "u-2", Email: "b@x.com", Password: "hash-b", Username: "B", Phone: "010-1111-1111"},
			},
			Calendars: []persistence.Calendar{
				{ID: "c-1", Name: "Work", Purpose: "Job", Color: "rgb(1,2,3)", UserNum: "u-1"},
			},
			Events: []persistence.Event{
				{ID: "e-2", Title: "Second", StartDate: "2026-01-02", EndDate: "2026-01-02", CalendarID: "c-1", UserNum: "u-1"},
				{ID: "e-1", Title: "First", StartDate: "2026-01-01", EndDate: "2026-01-01", CalendarID: "c-1", UserNum: "u-1"},
			},
			Posts: []persistence.Post{
				{ID: "p-1", UserID: "u-1", CalendarNum: "c-1", Title: "Hello", Content: "World", CreatedAt: "2026-01-01T00:00:00Z"},
			},
			Comments: []persistence.Comment{
				{ID: "cm-1", UserID: "u-2", PostNum: "p-1", Content: "Hi", CreatedAt: "2026-01-01T01:00:00Z"},
			},
			Friends: []persistence.Friend{
				{ID: "f-1", UserID: "u-1", FriendID: "u-2", Status: "pending"},
			},
			Shares: []persistence.CalendarShare{
				{ID: "s-1", CalendarID: "c-1", InviterID: "u-1", InviteeID: "u-2", Role: "viewer", Status: "pending", CreatedAt: "2026-01-01T02:00:00Z"},
			},
		}

		if err := store.Save(ctx, state); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		loaded, err := store.Load(ctx)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}

		if len(loaded.Users) != 2 || loaded.Users[0] != state.Users[0] || loaded.Users[1] != state.Users[1] {
			t.Fatalf("user round-trip mismatch: %#v", loaded.Users)
		}
		if len(loaded.Events) != 2 || loaded.Events[0].ID != "e-2" || loaded.Events[1].ID != "e-1" {
			t.Fatalf("expected insertion order preserved, got %#v", loaded.Events)
		}
		if len(loaded.Posts) != 1 || loaded.Posts[0] != state.Posts[0] {
			t.Fatalf("post round-trip mismatch: %#v", loaded.Posts)
		}
		if len(loaded.Comments) != 1 || loaded.Comments[0] != state.Comments[0] {
			t.Fatalf("comment round-trip mismatch: %#v", loaded.Comments)
		}
		if len(loaded.Friends) != 1 || loaded.Friends[0] != state.Friends[0] {
			t.Fatalf("friend round-trip mismatch: %#v", loaded.Friends)
		}
		if len(loaded.Shares) != 1 || loaded.Shares[0] != state.Shares[0] {
			t.Fatalf("calendar share round-trip mismatch: %#v", loaded.Shares)
		}
	})

	t.Run("save replaces the previous document entirely", func(t *testing.T) {
		t.Parallel()

		store := newStore(t)
		ctx := context.Background()

		if err := store.Save(ctx, persistence.State{
			Users: []persistence.User{{ID: "u-1", Email: "a@x.com"}},
		}); err != nil {
			t.Fatalf("first Save failed: %v", err)
		}
		if err := store.Save(ctx, persistence.State{
			Users: []persistence.User{{ID: "u-2", Email: "b@x.com"}},
		}); err != nil {
			t.Fatalf("second Save failed: %v", err)
		}

		state, err := store.Load(ctx)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if len(state.Users) != 1 || state.Users[0].ID != "u-2" {
			t.Fatalf("expected replaced document, got %#v", state.Users)
		}
	})

	t.Run("update applies the mutation atomically", func(t *testing.T) {
		t.Parallel()

		store := newStore(t)
		ctx := context.Background()

		err := store.Update(ctx, func(state *persistence.State) error {
			state.Calendars = append(state.Calendars, persistence.Calendar{ID: "c-1", Name: "Work", UserNum: "u-1"})
			return nil
		})
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}

		state, err := store.Load(ctx)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if len(state.Calendars) != 1 || state.Calendars[0].Name != "Work" {
			t.Fatalf("expected appended calendar, got %#v", state.Calendars)
		}
	})
}
