package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/example/antcal/internal/application"
)

type assistantService interface {
	PreviewEvent(ctx context.Context, params application.PreviewParams) (application.EventSuggestion, error)
}

type AssistantHandler struct {
	service   assistantService
	responder responder
	logger    *slog.Logger
}

func NewAssistantHandler(service assistantService, logger *slog.Logger) *AssistantHandler {
	base := defaultLogger(logger)
	return &AssistantHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *AssistantHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "AssistantHandler", operation, attrs...)
}

type previewEventRequest struct {
	UserNum    string `json:"user_num"`
	CalendarID string `json:"calendar_id"`
}

// suggestionDTO mirrors the event creation body so the client can submit the
// suggestion back without reshaping it.
type suggestionDTO struct {
	CalendarID string `json:"calendar_id"`
	UserNum    string `json:"user_num"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	Color      string `json:"color"`
}

// PreviewEvent produces an event suggestion without persisting anything; the
// client decides whether to submit it as a real event.
func (h *AssistantHandler) PreviewEvent(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req previewEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "PreviewEvent", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode preview request", "error", err)
		h.responder.writeMessage(r.Context(), w, http.StatusBadRequest, msgPreviewMissing)
		return
	}

	logger := h.log(r.Context(), "PreviewEvent", "user_num", req.UserNum, "calendar_id", req.CalendarID)

	suggestion, err := h.service.PreviewEvent(r.Context(), application.PreviewParams{
		UserNum:    req.UserNum,
		CalendarID: req.CalendarID,
	})
	if err != nil {
		var vErr *application.ValidationError
		if errors.As(err, &vErr) {
			logger.ErrorContext(r.Context(), "preview rejected", "error", err, "error_kind", application.ErrorKind(err))
			h.responder.writeMessage(r.Context(), w, http.StatusBadRequest, msgPreviewMissing)
			return
		}
		h.responder.internalError(r.Context(), w, err)
		return
	}

	logger.With("title", suggestion.Title).InfoContext(r.Context(), "preview produced")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, suggestionDTO{
		CalendarID: suggestion.CalendarID,
		UserNum:    suggestion.UserNum,
		Title:      suggestion.Title,
		Content:    suggestion.Content,
		StartDate:  suggestion.StartDate,
		EndDate:    suggestion.EndDate,
		StartTime:  suggestion.StartTime,
		EndTime:    suggestion.EndTime,
		Color:      suggestion.Color,
	})
}
