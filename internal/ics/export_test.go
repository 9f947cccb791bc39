package ics_test

import (
	"strings"
	"testing"

	"github.com/example/antcal/internal/ics"
	"github.com/example/antcal/internal/persistence"
	"github.com/example/antcal/internal/testfixtures"
)

func TestExport(t *testing.T) {
	t.Parallel()

	calendar := testfixtures.NewCalendar()

	t.Run("renders timed events with their span", func(t *testing.T) {
		t.Parallel()

		document := ics.Export(calendar, []persistence.Event{
			testfixtures.NewEvent(
				testfixtures.WithEventID("e-1"),
				testfixtures.WithEventTitle("Standup"),
				testfixtures.WithEventDates("2026-03-02", "2026-03-02"),
				testfixtures.WithEventTimes("09:00", "09:15"),
			),
		})

		for _, want := range []string{
			"BEGIN:VCALENDAR",
			"BEGIN:VEVENT",
			"UID:e-1@antcal",
			"SUMMARY:Standup",
			"DTSTART:20260302T090000Z",
			"DTEND:20260302T091500Z",
			"END:VEVENT",
			"END:VCALENDAR",
		} {
			if !strings.Contains(document, want) {
				t.Fatalf("expected document to contain %q, got:\n%s", want, document)
			}
		}
	})

	t.Run("renders events without times as all-day entries", func(t *testing.T) {
		t.Parallel()

		document := ics.Export(calendar, []persistence.Event{
			testfixtures.NewEvent(
				testfixtures.WithEventID("e-1"),
				testfixtures.WithEventTitle("Offsite"),
				testfixtures.WithEventDates("2026-03-02", "2026-03-03"),
				testfixtures.WithEventTimes("", ""),
			),
		})

		if !strings.Contains(document, "DTSTART;VALUE=DATE:20260302") {
			t.Fatalf("expected all-day start, got:\n%s", document)
		}
		// Exclusive end: the day after the last event day.
		if !strings.Contains(document, "DTEND;VALUE=DATE:20260304") {
			t.Fatalf("expected exclusive all-day end, got:\n%s", document)
		}
	})

	t.Run("skips events with unparseable dates", func(t *testing.T) {
		t.Parallel()

		document := ics.Export(calendar, []persistence.Event{
			testfixtures.NewEvent(
				testfixtures.WithEventID("e-bad"),
				testfixtures.WithEventDates("not-a-date", "not-a-date"),
			),
			testfixtures.NewEvent(
				testfixtures.WithEventID("e-good"),
				testfixtures.WithEventDates("2026-03-02", "2026-03-02"),
			),
		})

		if strings.Contains(document, "e-bad@antcal") {
			t.Fatalf("expected broken event to be skipped, got:\n%s", document)
		}
		if !strings.Contains(document, "e-good@antcal") {
			t.Fatalf("expected valid event to be exported, got:\n%s", document)
		}
	})
}
