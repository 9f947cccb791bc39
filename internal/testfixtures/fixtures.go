package testfixtures

import "github.com/example/antcal/internal/persistence"

// UserOption mutates a user fixture.
type UserOption func(*persistence.User)

// NewUser builds a user record with sensible defaults overridden by opts.
func NewUser(opts ...UserOption) persistence.User {
	user := persistence.User{
		ID:       "user-1",
		Email:    "a@x.com",
		Password: "stored-hash",
		Username: "A",
		Phone:    "010-0000-0000",
	}
	for _, opt := range opts {
		opt(&user)
	}
	return user
}

// WithUserID overrides the user identifier.
func WithUserID(id string) UserOption {
	return func(u *persistence.User) { u.ID = id }
}

// WithUserEmail overrides the user email.
func WithUserEmail(email string) UserOption {
	return func(u *persistence.User) { u.Email = email }
}

// WithUserName overrides the username.
func WithUserName(name string) UserOption {
	return func(u *persistence.User) { u.Username = name }
}

// WithUserPassword overrides the stored password hash.
func WithUserPassword(hash string) UserOption {
	return func(u *persistence.User) { u.Password = hash }
}

// CalendarOption mutates a calendar fixture.
type CalendarOption func(*persistence.Calendar)

// NewCalendar builds a calendar record with defaults overridden by opts.
func NewCalendar(opts ...CalendarOption) persistence.Calendar {
	calendar := persistence.Calendar{
		ID:      "cal-1",
		Name:    "Work",
		Purpose: "Job",
		Color:   "rgb(1,2,3)",
		UserNum: "user-1",
	}
	for _, opt := range opts {
		opt(&calendar)
	}
	return calendar
}

// WithCalendarID overrides the calendar identifier.
func WithCalendarID(id string) CalendarOption {
	return func(c *persistence.Calendar) { c.ID = id }
}

// WithCalendarOwner overrides the owning user.
func WithCalendarOwner(userNum string) CalendarOption {
	return func(c *persistence.Calendar) { c.UserNum = userNum }
}

// EventOption mutates an event fixture.
type EventOption func(*persistence.Event)

// NewEvent builds an event record with defaults overridden by opts.
func NewEvent(opts ...EventOption) persistence.Event {
	event := persistence.Event{
		ID:         "event-1",
		Title:      "Standup",
		Content:    "Daily sync",
		StartDate:  "2026-03-02",
		EndDate:    "2026-03-02",
		StartTime:  "09:00",
		EndTime:    "09:15",
		Color:      "#4285f4",
		CalendarID: "cal-1",
		UserNum:    "user-1",
	}
	for _, opt := range opts {
		opt(&event)
	}
	return event
}

// WithEventID overrides the event identifier.
func WithEventID(id string) EventOption {
	return func(e *persistence.Event) { e.ID = id }
}

// WithEventTitle overrides the event title.
func WithEventTitle(title string) EventOption {
	return func(e *persistence.Event) { e.Title = title }
}

// WithEventCalendar overrides the owning calendar.
func WithEventCalendar(calendarID string) EventOption {
	return func(e *persistence.Event) { e.CalendarID = calendarID }
}

// WithEventOwner overrides the owning user.
func WithEventOwner(userNum string) EventOption {
	return func(e *persistence.Event) { e.UserNum = userNum }
}

// WithEventDates overrides the start and end dates.
func WithEventDates(start, end string) EventOption {
	return func(e *persistence.Event) {
		e.StartDate = start
		e.EndDate = end
	}
}

// WithEventTimes overrides the start and end times.
func WithEventTimes(start, end string) EventOption {
	return func(e *persistence.Event) {
		e.StartTime = start
		e.EndTime = end
	}
}
