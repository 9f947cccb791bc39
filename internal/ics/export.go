// Package ics renders stored calendars as iCalendar documents.
package ics

import (
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/example/antcal/internal/persistence"
)

const (
	productID      = "-//antcal//calendar export//KO"
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04"
)

// Export renders the calendar and its events as a VCALENDAR document. Events
// without times become all-day entries; events whose dates cannot be parsed
// are skipped rather than failing the whole export.
func Export(calendar persistence.Calendar, events []persistence.Event) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)
	cal.SetName(calendar.Name)
	cal.SetDescription(calendar.Purpose)

	for _, event := range events {
		span, err := eventSpan(event)
		if err != nil {
			continue
		}

		vevent := cal.AddEvent(event.ID + "@antcal")
		vevent.SetSummary(event.Title)
		if event.Content != "" {
			vevent.SetDescription(event.Content)
		}
		if event.Color != "" {
			vevent.SetProperty(ical.ComponentProperty("COLOR"), event.Color)
		}
		if span.allDay {
			vevent.SetAllDayStartAt(span.start)
			// DTEND is exclusive for all-day events.
			vevent.SetAllDayEndAt(span.end.AddDate(0, 0, 1))
		} else {
			vevent.SetStartAt(span.start)
			vevent.SetEndAt(span.end)
		}
	}

	return cal.Serialize()
}

type span struct {
	start  time.Time
	end    time.Time
	allDay bool
}

func eventSpan(event persistence.Event) (span, error) {
	if event.StartTime == "" || event.EndTime == "" {
		start, err := time.Parse(dateLayout, event.StartDate)
		if err != nil {
			return span{}, err
		}
		end, err := time.Parse(dateLayout, event.EndDate)
		if err != nil {
			return span{}, err
		}
		return span{start: start, end: end, allDay: true}, nil
	}

	start, err := time.Parse(dateTimeLayout, event.StartDate+" "+event.StartTime)
	if err != nil {
		return span{}, err
	}
	end, err := time.Parse(dateTimeLayout, event.EndDate+" "+event.EndTime)
	if err != nil {
		return span{}, err
	}
	return span{start: start, end: end}, nil
}
