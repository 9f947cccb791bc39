package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/example/antcal/internal/application"
	"github.com/example/antcal/internal/ics"
	"github.com/example/antcal/internal/persistence"
)

type calendarService interface {
	Create(ctx context.Context, input application.CalendarInput) (persistence.Calendar, error)
	ListByUser(ctx context.Context, userNum string) ([]persistence.Calendar, error)
	Get(ctx context.Context, calendarID string) (persistence.Calendar, error)
	Delete(ctx context.Context, calendarID string) error
}

type calendarEventLister interface {
	ListByCalendar(ctx context.Context, calendarID, userNum string) ([]persistence.Event, error)
}

type CalendarHandler struct {
	service   calendarService
	events    calendarEventLister
	responder responder
	logger    *slog.Logger
}

func NewCalendarHandler(service calendarService, events calendarEventLister, logger *slog.Logger) *CalendarHandler {
	base := defaultLogger(logger)
	return &CalendarHandler{service: service, events: events, responder: newResponder(base), logger: base}
}

func (h *CalendarHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "CalendarHandler", operation, attrs...)
}

type createCalendarRequest struct {
	Name    string `json:"calendar_name"`
	Purpose string `json:"calendar_purpose"`
	Color   string `json:"calendar_color"`
	UserNum string `json:"user_num"`
}

type createCalendarResponse struct {
	Message    string `json:"message"`
	CalendarID string `json:"calendar_id"`
}

type listCalendarsResponse struct {
	Message   string                 `json:"message"`
	Calendars []persistence.Calendar `json:"calendars"`
}

func (h *CalendarHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req createCalendarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode calendar request", "error", err)
		h.responder.writeMessage(r.Context(), w, http.StatusBadRequest, msgCalendarMissing)
		return
	}

	logger := h.log(r.Context(), "Create", "user_num", req.UserNum)

	calendar, err := h.service.Create(r.Context(), application.CalendarInput{
		Name:    req.Name,
		Purpose: req.Purpose,
		Color:   req.Color,
		UserNum: req.UserNum,
	})
	if err != nil {
		var vErr *application.ValidationError
		if errors.As(err, &vErr) {
			logger.ErrorContext(r.Context(), "calendar rejected", "error", err, "error_kind", application.ErrorKind(err))
			h.responder.writeMessage(r.Context(), w, http.StatusBadRequest, msgCalendarMissing)
			return
		}
		h.responder.internalError(r.Context(), w, err)
		return
	}

	logger.With("calendar_id", calendar.ID).InfoContext(r.Context(), "calendar created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, createCalendarResponse{
		Message:    msgCalendarCreated,
		CalendarID: calendar.ID,
	})
}

func (h *CalendarHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	userNum, ok := UserNumFromContext(r.Context())
	if !ok || userNum == "" {
		h.responder.internalError(r.Context(), w, errors.New("user identifier missing from request context"))
		return
	}

	calendars, err := h.service.ListByUser(r.Context(), userNum)
	if err != nil {
		h.responder.internalError(r.Context(), w, err)
		return
	}

	h.log(r.Context(), "ListByUser", "user_num", userNum, "result_count", len(calendars)).InfoContext(r.Context(), "calendars listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listCalendarsResponse{
		Message:   msgCalendarListed,
		Calendars: calendars,
	})
}

func (h *CalendarHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	calendarID, ok := CalendarIDFromContext(r.Context())
	if !ok || calendarID == "" {
		h.responder.internalError(r.Context(), w, errors.New("calendar identifier missing from request context"))
		return
	}

	logger := h.log(r.Context(), "Delete", "calendar_id", calendarID)

	if err := h.service.Delete(r.Context(), calendarID); err != nil {
		if errors.Is(err, application.ErrNotFound) {
			logger.ErrorContext(r.Context(), "calendar not found", "error", err, "error_kind", application.ErrorKind(err))
			h.responder.writeMessage(r.Context(), w, http.StatusNotFound, msgCalendarNotFound)
			return
		}
		h.responder.internalError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "calendar deleted")
	h.responder.writeMessage(r.Context(), w, http.StatusOK, msgCalendarDeleted)
}

// ExportICS renders a calendar's events as an iCalendar document so they can
// be imported into external calendar apps.
func (h *CalendarHandler) ExportICS(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil || h.events == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	calendarID, _ := CalendarIDFromContext(r.Context())
	userNum, _ := UserNumFromContext(r.Context())
	if calendarID == "" || userNum == "" {
		h.responder.internalError(r.Context(), w, errors.New("calendar route parameters missing from request context"))
		return
	}

	logger := h.log(r.Context(), "ExportICS", "calendar_id", calendarID, "user_num", userNum)

	calendar, err := h.service.Get(r.Context(), calendarID)
	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			logger.ErrorContext(r.Context(), "calendar not found", "error", err, "error_kind", application.ErrorKind(err))
			h.responder.writeMessage(r.Context(), w, http.StatusNotFound, msgCalendarNotFound)
			return
		}
		h.responder.internalError(r.Context(), w, err)
		return
	}

	events, err := h.events.ListByCalendar(r.Context(), calendarID, userNum)
	if err != nil {
		h.responder.internalError(r.Context(), w, err)
		return
	}

	document := ics.Export(calendar, events)

	logger.With("event_count", len(events)).InfoContext(r.Context(), "calendar exported")
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", calendarID+".ics"))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(document)); err != nil {
		logger.ErrorContext(r.Context(), "failed to write export", "error", err)
	}
}
