package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/example/antcal/internal/application"
	"github.com/example/antcal/internal/persistence"
)

type eventService interface {
	Create(ctx context.Context, input application.EventInput) (persistence.Event, error)
	ListByCalendar(ctx context.Context, calendarID, userNum string) ([]persistence.Event, error)
	ListByUser(ctx context.Context, userNum string) ([]persistence.Event, error)
	Delete(ctx context.Context, eventID string) error
}

type EventHandler struct {
	service   eventService
	responder responder
	logger    *slog.Logger
}

func NewEventHandler(service eventService, logger *slog.Logger) *EventHandler {
	base := defaultLogger(logger)
	return &EventHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *EventHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "EventHandler", operation, attrs...)
}

type createEventRequest struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	Color      string `json:"color"`
	CalendarID string `json:"calendar_id"`
	UserNum    string `json:"user_num"`
}

type createEventResponse struct {
	Message string `json:"message"`
	EventID string `json:"event_id"`
}

type listEventsResponse struct {
	Message string              `json:"message"`
	Events  []persistence.Event `json:"events"`
}

func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req createEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode event request", "error", err)
		h.responder.writeMessage(r.Context(), w, http.StatusBadRequest, msgEventMissing)
		return
	}

	logger := h.log(r.Context(), "Create", "calendar_id", req.CalendarID, "user_num", req.UserNum)

	event, err := h.service.Create(r.Context(), application.EventInput{
		Title:      req.Title,
		Content:    req.Content,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Color:      req.Color,
		CalendarID: req.CalendarID,
		UserNum:    req.UserNum,
	})
	if err != nil {
		var vErr *application.ValidationError
		if errors.As(err, &vErr) {
			logger.ErrorContext(r.Context(), "event rejected", "error", err, "error_kind", application.ErrorKind(err))
			h.responder.writeMessage(r.Context(), w, http.StatusBadRequest, msgEventMissing)
			return
		}
		h.responder.internalError(r.Context(), w, err)
		return
	}

	logger.With("event_id", event.ID).InfoContext(r.Context(), "event created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, createEventResponse{
		Message: msgEventCreated,
		EventID: event.ID,
	})
}

func (h *EventHandler) ListByCalendar(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	calendarID, _ := CalendarIDFromContext(r.Context())
	userNum, _ := UserNumFromContext(r.Context())
	if calendarID == "" || userNum == "" {
		h.responder.internalError(r.Context(), w, errors.New("event route parameters missing from request context"))
		return
	}

	events, err := h.service.ListByCalendar(r.Context(), calendarID, userNum)
	if err != nil {
		h.responder.internalError(r.Context(), w, err)
		return
	}

	h.log(r.Context(), "ListByCalendar", "calendar_id", calendarID, "user_num", userNum, "result_count", len(events)).InfoContext(r.Context(), "events listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listEventsResponse{
		Message: msgEventListed,
		Events:  events,
	})
}

func (h *EventHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	userNum, ok := UserNumFromContext(r.Context())
	if !ok || userNum == "" {
		h.responder.internalError(r.Context(), w, errors.New("user identifier missing from request context"))
		return
	}

	events, err := h.service.ListByUser(r.Context(), userNum)
	if err != nil {
		h.responder.internalError(r.Context(), w, err)
		return
	}

	h.log(r.Context(), "ListByUser", "user_num", userNum, "result_count", len(events)).InfoContext(r.Context(), "user events listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listEventsResponse{
		Message: msgUserEventsListed,
		Events:  events,
	})
}

func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	eventID, ok := EventIDFromContext(r.Context())
	if !ok || eventID == "" {
		h.responder.internalError(r.Context(), w, errors.New("event identifier missing from request context"))
		return
	}

	logger := h.log(r.Context(), "Delete", "event_id", eventID)

	if err := h.service.Delete(r.Context(), eventID); err != nil {
		if errors.Is(err, application.ErrNotFound) {
			logger.ErrorContext(r.Context(), "event not found", "error", err, "error_kind", application.ErrorKind(err))
			h.responder.writeMessage(r.Context(), w, http.StatusNotFound, msgEventNotFound)
			return
		}
		h.responder.internalError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "event deleted")
	h.responder.writeMessage(r.Context(), w, http.StatusOK, msgEventDeleted)
}
