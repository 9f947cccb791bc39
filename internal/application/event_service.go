package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/example/antcal/internal/persistence"
)

// EventService handles event creation, listing, and deletion.
type EventService struct {
	store       persistence.Store
	idGenerator func() string
	logger      *slog.Logger
}

// NewEventService wires dependencies for the event service.
func NewEventService(store persistence.Store, idGenerator func() string, logger *slog.Logger) *EventService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	return &EventService{store: store, idGenerator: idGenerator, logger: defaultLogger(logger)}
}

func (s *EventService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "EventService", operation, attrs...)
}

// Create validates the payload and appends a new event record. Title, dates,
// calendar id, and user id are required; content, times, and color pass
// through as supplied. The referenced calendar and user are not checked for
// existence.
func (s *EventService) Create(ctx context.Context, input EventInput) (event persistence.Event, err error) {
	if s == nil || s.store == nil {
		return persistence.Event{}, fmt.Errorf("event service not configured")
	}

	logger := s.loggerWith(ctx, "Create", "calendar_id", input.CalendarID, "user_num", input.UserNum)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "event creation failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("event_id", event.ID).InfoContext(ctx, "event created")
	}()

	vErr := &ValidationError{}
	vErr.requireFields(map[string]string{
		"title":       input.Title,
		"start_date":  input.StartDate,
		"end_date":    input.EndDate,
		"calendar_id": input.CalendarID,
		"user_num":    input.UserNum,
	})
	if vErr.HasErrors() {
		err = vErr
		return
	}

	event = persistence.Event{
		ID:         s.idGenerator(),
		Title:      input.Title,
		Content:    input.Content,
		StartDate:  input.StartDate,
		EndDate:    input.EndDate,
		StartTime:  input.StartTime,
		EndTime:    input.EndTime,
		Color:      input.Color,
		CalendarID: input.CalendarID,
		UserNum:    input.UserNum,
	}

	err = s.store.Update(ctx, func(state *persistence.State) error {
		state.Events = append(state.Events, event)
		return nil
	})
	if err != nil {
		event = persistence.Event{}
	}
	return
}

// ListByCalendar returns the events matching both calendar and user, in
// insertion order.
func (s *EventService) ListByCalendar(ctx context.Context, calendarID, userNum string) ([]persistence.Event, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("event service not configured")
	}

	logger := s.loggerWith(ctx, "ListByCalendar", "calendar_id", calendarID, "user_num", userNum)

	state, err := s.store.Load(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "event listing failed", "error", err)
		return nil, err
	}

	events := make([]persistence.Event, 0)
	for _, event := range state.Events {
		if event.CalendarID == calendarID && event.UserNum == userNum {
			events = append(events, event)
		}
	}

	logger.With("result_count", len(events)).InfoContext(ctx, "events listed")
	return events, nil
}

// ListByUser returns all events owned by userNum regardless of calendar.
func (s *EventService) ListByUser(ctx context.Context, userNum string) ([]persistence.Event, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("event service not configured")
	}

	logger := s.loggerWith(ctx, "ListByUser", "user_num", userNum)

	state, err := s.store.Load(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "event listing failed", "error", err)
		return nil, err
	}

	events := make([]persistence.Event, 0)
	for _, event := range state.Events {
		if event.UserNum == userNum {
			events = append(events, event)
		}
	}

	logger.With("result_count", len(events)).InfoContext(ctx, "events listed")
	return events, nil
}

// Delete removes the first event with the given id. A miss returns
// ErrNotFound and leaves the store untouched.
func (s *EventService) Delete(ctx context.Context, eventID string) error {
	if s == nil || s.store == nil {
		return fmt.Errorf("event service not configured")
	}

	logger := s.loggerWith(ctx, "Delete", "event_id", eventID)

	err := s.store.Update(ctx, func(state *persistence.State) error {
		for i, event := range state.Events {
			if event.ID == eventID {
				state.Events = append(state.Events[:i], state.Events[i+1:]...)
				return nil
			}
		}
		return ErrNotFound
	})
	if err != nil {
		logger.ErrorContext(ctx, "event deletion failed", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	logger.InfoContext(ctx, "event deleted")
	return nil
}
