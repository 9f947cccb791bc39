package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/example/antcal/internal/persistence"
)

// CalendarService handles calendar creation, listing, and deletion.
type CalendarService struct {
	store       persistence.Store
	idGenerator func() string
	logger      *slog.Logger
}

// NewCalendarService wires dependencies for the calendar service.
func NewCalendarService(store persistence.Store, idGenerator func() string, logger *slog.Logger) *CalendarService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	return &CalendarService{store: store, idGenerator: idGenerator, logger: defaultLogger(logger)}
}

func (s *CalendarService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "CalendarService", operation, attrs...)
}

// Create validates the payload and appends a new calendar record. All four
// fields are required.
func (s *CalendarService) Create(ctx context.Context, input CalendarInput) (calendar persistence.Calendar, err error) {
	if s == nil || s.store == nil {
		return persistence.Calendar{}, fmt.Errorf("calendar service not configured")
	}

	logger := s.loggerWith(ctx, "Create", "user_num", input.UserNum)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "calendar creation failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("calendar_id", calendar.ID).InfoContext(ctx, "calendar created")
	}()

	vErr := &ValidationError{}
	vErr.requireFields(map[string]string{
		"calendar_name":    input.Name,
		"calendar_purpose": input.Purpose,
		"calendar_color":   input.Color,
		"user_num":         input.UserNum,
	})
	if vErr.HasErrors() {
		err = vErr
		return
	}

	calendar = persistence.Calendar{
		ID:      s.idGenerator(),
		Name:    input.Name,
		Purpose: input.Purpose,
		Color:   input.Color,
		UserNum: input.UserNum,
	}

	err = s.store.Update(ctx, func(state *persistence.State) error {
		state.Calendars = append(state.Calendars, calendar)
		return nil
	})
	if err != nil {
		calendar = persistence.Calendar{}
	}
	return
}

// ListByUser returns the calendars owned by userNum in insertion order.
func (s *CalendarService) ListByUser(ctx context.Context, userNum string) ([]persistence.Calendar, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("calendar service not configured")
	}

	logger := s.loggerWith(ctx, "ListByUser", "user_num", userNum)

	state, err := s.store.Load(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "calendar listing failed", "error", err)
		return nil, err
	}

	calendars := make([]persistence.Calendar, 0)
	for _, calendar := range state.Calendars {
		if calendar.UserNum == userNum {
			calendars = append(calendars, calendar)
		}
	}

	logger.With("result_count", len(calendars)).InfoContext(ctx, "calendars listed")
	return calendars, nil
}

// Get returns the calendar with the given id.
func (s *CalendarService) Get(ctx context.Context, calendarID string) (persistence.Calendar, error) {
	if s == nil || s.store == nil {
		return persistence.Calendar{}, fmt.Errorf("calendar service not configured")
	}

	state, err := s.store.Load(ctx)
	if err != nil {
		return persistence.Calendar{}, err
	}
	for _, calendar := range state.Calendars {
		if calendar.ID == calendarID {
			return calendar, nil
		}
	}
	return persistence.Calendar{}, ErrNotFound
}

// Delete removes the calendar with the given id. Events referencing the
// calendar are left in place; cascading is the caller's responsibility.
func (s *CalendarService) Delete(ctx context.Context, calendarID string) error {
	if s == nil || s.store == nil {
		return fmt.Errorf("calendar service not configured")
	}

	logger := s.loggerWith(ctx, "Delete", "calendar_id", calendarID)

	err := s.store.Update(ctx, func(state *persistence.State) error {
		for i, calendar := range state.Calendars {
			if calendar.ID == calendarID {
				state.Calendars = append(state.Calendars[:i], state.Calendars[i+1:]...)
				return nil
			}
		}
		return ErrNotFound
	})
	if err != nil {
		logger.ErrorContext(ctx, "calendar deletion failed", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	logger.InfoContext(ctx, "calendar deleted")
	return nil
}
