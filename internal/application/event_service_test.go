package application_test

import (
	"context"
	"errors"
	"testing"

	"github.com/example/antcal/internal/application"
	"github.com/example/antcal/internal/persistence"
	"github.com/example/antcal/internal/testfixtures"
)

func newEventService(h *testfixtures.StoreHarness) *application.EventService {
	return application.NewEventService(h.Store, h.IDs.NextFunc(), nil)
}

func validEventInput() application.EventInput {
	return application.EventInput{
		Title:      "Standup",
		Content:    "daily sync",
		StartDate:  "2026-03-02",
		EndDate:    "2026-03-02",
		StartTime:  "09:00",
		EndTime:    "09:15",
		Color:      "#4285f4",
		CalendarID: "1",
		UserNum:    "42",
	}
}

func TestEventCreate(t *testing.T) {
	t.Parallel()

	t.Run("persists an event with every provided field", func(t *testing.T) {
		t.Parallel()

		harness := testfixtures.NewStoreHarness(t)
		service := newEventService(harness)

		event, err := service.Create(context.Background(), validEventInput())
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		state := harness.State(t)
		if len(state.Events) != 1 {
			t.Fatalf("expected one stored event, got %d", len(state.Events))
		}
		stored := state.Events[0]
		if stored.ID != event.ID || stored.Title != "Standup" || stored.Content != "daily sync" ||
			stored.StartDate != "2026-03-02" || stored.EndDate != "2026-03-02" ||
			stored.StartTime != "09:00" || stored.EndTime != "09:15" ||
			stored.Color != "#4285f4" || stored.CalendarID != "1" || stored.UserNum != "42" {
			t.Fatalf("unexpected stored event: %#v", stored)
		}
	})

	t.Run("accepts empty optional fields", func(t *testing.T) {
		t.Parallel()

		harness := testfixtures.NewStoreHarness(t)
		service := newEventService(harness)

		input := validEventInput()
		input.Content = ""
		input.StartTime = ""
		input.EndTime = ""
		input.Color = ""
		if _, err := service.Create(context.Background(), input); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	})

	t.Run("rejects a missing title without touching the store", func(t *testing.T) {
		t.Parallel()

		harness := testfixtures.NewStoreHarness(t)
		service := newEventService(harness)

		input := validEventInput()
		input.Title = ""
		_, err := service.Create(context.Background(), input)

		var vErr *application.ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if _, ok := vErr.FieldErrors["title"]; !ok {
			t.Fatalf("expected title field error, got %#v", vErr.FieldErrors)
		}
		if got := len(harness.State(t).Events); got != 0 {
			t.Fatalf("expected store unchanged, got %d events", got)
		}
	})
}

func TestEventListByCalendar(t *testing.T) {
	t.Parallel()

	harness := testfixtures.NewStoreHarness(t)
	service := newEventService(harness)

	harness.Seed(t, persistence.State{Events: []persistence.Event{
		testfixtures.NewEvent(testfixtures.WithEventID("e-1"), testfixtures.WithEventCalendar("1"), testfixtures.WithEventOwner("42")),
		testfixtures.NewEvent(testfixtures.WithEventID("e-2"), testfixtures.WithEventCalendar("1"), testfixtures.WithEventOwner("43")),
		testfixtures.NewEvent(testfixtures.WithEventID("e-3"), testfixtures.WithEventCalendar("2"), testfixtures.WithEventOwner("42")),
		testfixtures.NewEvent(testfixtures.WithEventID("e-4"), testfixtures.WithEventCalendar("1"), testfixtures.WithEventOwner("42")),
	}})

	events, err := service.ListByCalendar(context.Background(), "1", "42")
	if err != nil {
		t.Fatalf("ListByCalendar failed: %v", err)
	}
	if len(events) != 2 || events[0].ID != "e-1" || events[1].ID != "e-4" {
		t.Fatalf("unexpected events: %#v", events)
	}
}

func TestEventListByUser(t *testing.T) {
	t.Parallel()

	harness := testfixtures.NewStoreHarness(t)
	service := newEventService(harness)

	harness.Seed(t, persistence.State{Events: []persistence.Event{
		testfixtures.NewEvent(testfixtures.WithEventID("e-1"), testfixtures.WithEventCalendar("1"), testfixtures.WithEventOwner("42")),
		testfixtures.NewEvent(testfixtures.WithEventID("e-2"), testfixtures.WithEventCalendar("2"), testfixtures.WithEventOwner("42")),
		testfixtures.NewEvent(testfixtures.WithEventID("e-3"), testfixtures.WithEventCalendar("1"), testfixtures.WithEventOwner("7")),
	}})

	events, err := service.ListByUser(context.Background(), "42")
	if err != nil {
		t.Fatalf("ListByUser failed: %v", err)
	}
	if len(events) != 2 || events[0].ID != "e-1" || events[1].ID != "e-2" {
		t.Fatalf("unexpected events: %#v", events)
	}
}

func TestEventDelete(t *testing.T) {
	t.Parallel()

	t.Run("removes only the targeted event", func(t *testing.T) {
		t.Parallel()

		harness := testfixtures.NewStoreHarness(t)
		service := newEventService(harness)
		ctx := context.Background()

		first, err := service.Create(ctx, validEventInput())
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		second, err := service.Create(ctx, validEventInput())
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		if err := service.Delete(ctx, first.ID); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		state := harness.State(t)
		if len(state.Events) != 1 || state.Events[0].ID != second.ID {
			t.Fatalf("unexpected events after delete: %#v", state.Events)
		}
	})

	t.Run("reports a miss without mutating the store", func(t *testing.T) {
		t.Parallel()

		harness := testfixtures.NewStoreHarness(t)
		service := newEventService(harness)

		harness.Seed(t, persistence.State{Events: []persistence.Event{
			testfixtures.NewEvent(testfixtures.WithEventID("e-1")),
		}})

		err := service.Delete(context.Background(), "e-9")
		if !errors.Is(err, application.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		if got := len(harness.State(t).Events); got != 1 {
			t.Fatalf("expected store unchanged, got %d events", got)
		}
	})
}
