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

type socialService interface {
	SendFriendRequest(ctx context.Context, input application.FriendRequestInput) (persistence.Friend, error)
	RespondFriendRequest(ctx context.Context, requestID, status string) error
	ListFriends(ctx context.Context, userNum string) ([]application.UserProfile, error)
	Invite(ctx context.Context, input application.InviteInput) (persistence.CalendarShare, error)
	ListInvitations(ctx context.Context, userNum string) ([]application.InvitationView, error)
	ListNotifications(ctx context.Context, userNum string) ([]application.InvitationView, error)
	RespondInvitation(ctx context.Context, shareID, status string) error
}

type SocialHandler struct {
	service   socialService
	responder responder
	logger    *slog.Logger
}

func NewSocialHandler(service socialService, logger *slog.Logger) *SocialHandler {
	base := defaultLogger(logger)
	return &SocialHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *SocialHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "SocialHandler", operation, attrs...)
}

type friendRequestRequest struct {
	UserID   string `json:"user_id"`
	FriendID string `json:"friend_id"`
}

type respondRequest struct {
	Status string `json:"status"`
}

type inviteRequest struct {
	CalendarID   string `json:"calendar_id"`
	InviterID    string `json:"inviter_id"`
	InviteeEmail string `json:"invitee_email"`
	Role         string `json:"role"`
}

type invitationDTO struct {
	ShareID      string `json:"share_id"`
	CalendarID   string `json:"calendar_id"`
	CalendarName string `json:"calendar_name"`
	InviterName  string `json:"inviter_name"`
	Role         string `json:"role"`
}

type notificationDTO struct {
	ShareID      string `json:"share_id"`
	CalendarID   string `json:"calendar_id"`
	CalendarName string `json:"calendar_name"`
	InviterName  string `json:"inviter_name"`
	Role         string `json:"role"`
	CreatedAt    string `json:"created_at"`
}

type notificationRespondRequest struct {
	ShareID string `json:"share_id"`
	Status  string `json:"status"`
}

func (h *SocialHandler) SendFriendRequest(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req friendRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "SendFriendRequest", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode friend request", "error", err)
		h.responder.writeMessage(r.Context(), w, http.StatusBadRequest, msgFriendRequestMissing)
		return
	}

	logger := h.log(r.Context(), "SendFriendRequest", "user_id", req.UserID, "friend_id", req.FriendID)

	friend, err := h.service.SendFriendRequest(r.Context(), application.FriendRequestInput{
		UserID:   req.UserID,
		FriendID: req.FriendID,
	})
	if err != nil {
		var vErr *application.ValidationError
		if errors.As(err, &vErr) {
			logger.ErrorContext(r.Context(), "friend request rejected", "error", err, "error_kind", application.ErrorKind(err))
			h.responder.writeMessage(r.Context(), w, http.StatusBadRequest, msgFriendRequestMissing)
			return
		}
		h.responder.internalError(r.Context(), w, err)
		return
	}

	logger.With("request_id", friend.ID).InfoContext(r.Context(), "friend request sent")
	h.responder.writeMessage(r.Context(), w, http.StatusCreated, msgFriendRequestSent)
}

func (h *SocialHandler) RespondFriendRequest(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	requestID, ok := RequestIDFromContext(r.Context())
	if !ok || requestID == "" {
		h.responder.internalError(r.Context(), w, errors.New("friend request identifier missing from request context"))
		return
	}

	var req respondRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "RespondFriendRequest", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode response body", "error", err)
		h.responder.writeMessage(r.Context(), w, http.StatusBadRequest, msgFriendStatusInvalid)
		return
	}

	logger := h.log(r.Context(), "RespondFriendRequest", "request_id", requestID, "status", req.Status)

	if err := h.service.RespondFriendRequest(r.Context(), requestID, req.Status); err != nil {
		var vErr *application.ValidationError
		switch {
		case errors.As(err, &vErr):
			logger.ErrorContext(r.Context(), "friend response rejected", "error", err, "error_kind", application.ErrorKind(err))
			h.responder.writeMessage(r.Context(), w, http.StatusBadRequest, msgFriendStatusInvalid)
		case errors.Is(err, application.ErrNotFound):
			logger.ErrorContext(r.Context(), "friend request not found", "error", err, "error_kind", application.ErrorKind(err))
			h.responder.writeMessage(r.Context(), w, http.StatusNotFound, msgFriendRequestNotFound)
		default:
			h.responder.internalError(r.Context(), w, err)
		}
		return
	}

	logger.InfoContext(r.Context(), "friend request resolved")
	h.responder.writeMessage(r.Context(), w, http.StatusOK, "Friend request "+req.Status)
}

// ListFriends answers with a bare array of user projections, the original
// friends API shape minus the stored password hash.
func (h *SocialHandler) ListFriends(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	userNum, ok := UserNumFromContext(r.Context())
	if !ok || userNum == "" {
		h.responder.internalError(r.Context(), w, errors.New("user identifier missing from request context"))
		return
	}

	friends, err := h.service.ListFriends(r.Context(), userNum)
	if err != nil {
		h.responder.internalError(r.Context(), w, err)
		return
	}

	payload := make([]userDTO, 0, len(friends))
	for _, friend := range friends {
		payload = append(payload, userDTO{
			ID:       friend.ID,
			UserNum:  friend.ID,
			Email:    friend.Email,
			Username: friend.Username,
			Phone:    friend.Phone,
		})
	}

	h.log(r.Context(), "ListFriends", "user_num", userNum, "result_count", len(payload)).InfoContext(r.Context(), "friends listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, payload)
}

func (h *SocialHandler) Invite(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req inviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Invite", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode invite request", "error", err)
		h.responder.writeMessage(r.Context(), w, http.StatusBadRequest, msgInviteMissing)
		return
	}

	logger := h.log(r.Context(), "Invite", "calendar_id", req.CalendarID, "inviter_id", req.InviterID)

	share, err := h.service.Invite(r.Context(), application.InviteInput{
		CalendarID:   req.CalendarID,
		InviterID:    req.InviterID,
		InviteeEmail: req.InviteeEmail,
		Role:         req.Role,
	})
	if err != nil {
		var vErr *application.ValidationError
		switch {
		case errors.As(err, &vErr):
			logger.ErrorContext(r.Context(), "invite rejected", "error", err, "error_kind", application.ErrorKind(err))
			h.responder.writeMessage(r.Context(), w, http.StatusBadRequest, msgInviteMissing)
		case errors.Is(err, application.ErrUnknownEmail):
			logger.ErrorContext(r.Context(), "invitee not found", "error", err, "error_kind", application.ErrorKind(err))
			h.responder.writeMessage(r.Context(), w, http.StatusNotFound, msgInviteeNotFound)
		case errors.Is(err, application.ErrAlreadyInvited):
			logger.ErrorContext(r.Context(), "invitee already invited", "error", err, "error_kind", application.ErrorKind(err))
			h.responder.writeMessage(r.Context(), w, http.StatusConflict, msgAlreadyInvited)
		default:
			h.responder.internalError(r.Context(), w, err)
		}
		return
	}

	logger.With("share_id", share.ID).InfoContext(r.Context(), "invitation sent")
	h.responder.writeMessage(r.Context(), w, http.StatusCreated, msgInviteSent)
}

// ListInvitations answers with a bare array of the user's pending invitations.
func (h *SocialHandler) ListInvitations(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	userNum, ok := UserNumFromContext(r.Context())
	if !ok || userNum == "" {
		h.responder.internalError(r.Context(), w, errors.New("user identifier missing from request context"))
		return
	}

	invitations, err := h.service.ListInvitations(r.Context(), userNum)
	if err != nil {
		h.responder.internalError(r.Context(), w, err)
		return
	}

	payload := make([]invitationDTO, 0, len(invitations))
	for _, invitation := range invitations {
		payload = append(payload, invitationDTO{
			ShareID:      invitation.ShareID,
			CalendarID:   invitation.CalendarID,
			CalendarName: invitation.CalendarName,
			InviterName:  invitation.InviterName,
			Role:         invitation.Role,
		})
	}

	h.log(r.Context(), "ListInvitations", "user_num", userNum, "result_count", len(payload)).InfoContext(r.Context(), "invitations listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, payload)
}

func (h *SocialHandler) RespondInvitation(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	shareID, ok := ShareIDFromContext(r.Context())
	if !ok || shareID == "" {
		h.responder.internalError(r.Context(), w, errors.New("invitation identifier missing from request context"))
		return
	}

	var req respondRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "RespondInvitation", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode response body", "error", err)
		h.responder.writeMessage(r.Context(), w, http.StatusBadRequest, msgFriendStatusInvalid)
		return
	}

	logger := h.log(r.Context(), "RespondInvitation", "share_id", shareID, "status", req.Status)

	if err := h.service.RespondInvitation(r.Context(), shareID, req.Status); err != nil {
		var vErr *application.ValidationError
		switch {
		case errors.As(err, &vErr):
			logger.ErrorContext(r.Context(), "invitation response rejected", "error", err, "error_kind", application.ErrorKind(err))
			h.responder.writeMessage(r.Context(), w, http.StatusBadRequest, msgFriendStatusInvalid)
		case errors.Is(err, application.ErrNotFound):
			logger.ErrorContext(r.Context(), "invitation not found", "error", err, "error_kind", application.ErrorKind(err))
			h.responder.writeMessage(r.Context(), w, http.StatusNotFound, msgInvitationNotFound)
		default:
			h.responder.internalError(r.Context(), w, err)
		}
		return
	}

	logger.InfoContext(r.Context(), "invitation resolved")
	h.responder.writeMessage(r.Context(), w, http.StatusOK, "Invitation "+req.Status)
}

// ListNotifications answers with a bare array of the user's pending
// invitations, newest first. The user is named by query parameter rather than
// path segment.
func (h *SocialHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	userNum := r.URL.Query().Get("user_num")
	if userNum == "" {
		h.log(r.Context(), "ListNotifications", "error_kind", "bad_request").ErrorContext(r.Context(), "missing user_num query parameter")
		h.responder.writeMessage(r.Context(), w, http.StatusBadRequest, msgNotifyUserRequired)
		return
	}

	notifications, err := h.service.ListNotifications(r.Context(), userNum)
	if err != nil {
		h.responder.internalError(r.Context(), w, err)
		return
	}

	payload := make([]notificationDTO, 0, len(notifications))
	for _, notification := range notifications {
		payload = append(payload, notificationDTO{
			ShareID:      notification.ShareID,
			CalendarID:   notification.CalendarID,
			CalendarName: notification.CalendarName,
			InviterName:  notification.InviterName,
			Role:         notification.Role,
			CreatedAt:    notification.CreatedAt,
		})
	}

	h.log(r.Context(), "ListNotifications", "user_num", userNum, "result_count", len(payload)).InfoContext(r.Context(), "notifications listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, payload)
}

func (h *SocialHandler) RespondNotification(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req notificationRespondRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "RespondNotification", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode response body", "error", err)
		h.responder.writeMessage(r.Context(), w, http.StatusBadRequest, msgNotifyRespondMissing)
		return
	}

	logger := h.log(r.Context(), "RespondNotification", "share_id", req.ShareID, "status", req.Status)

	if req.ShareID == "" {
		logger.ErrorContext(r.Context(), "missing share identifier", "error_kind", "bad_request")
		h.responder.writeMessage(r.Context(), w, http.StatusBadRequest, msgNotifyRespondMissing)
		return
	}

	if err := h.service.RespondInvitation(r.Context(), req.ShareID, req.Status); err != nil {
		var vErr *application.ValidationError
		switch {
		case errors.As(err, &vErr):
			logger.ErrorContext(r.Context(), "notification response rejected", "error", err, "error_kind", application.ErrorKind(err))
			h.responder.writeMessage(r.Context(), w, http.StatusBadRequest, msgNotifyRespondMissing)
		case errors.Is(err, application.ErrNotFound):
			logger.ErrorContext(r.Context(), "notification not found", "error", err, "error_kind", application.ErrorKind(err))
			h.responder.writeMessage(r.Context(), w, http.StatusNotFound, msgNotifyNotFound)
		default:
			h.responder.internalError(r.Context(), w, err)
		}
		return
	}

	logger.InfoContext(r.Context(), "notification resolved")
	h.responder.writeMessage(r.Context(), w, http.StatusOK, "Notification "+req.Status+" successfully")
}
