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

type authService interface {
	Register(ctx context.Context, params application.RegisterParams) (persistence.User, error)
	Login(ctx context.Context, params application.LoginParams) (application.UserProfile, error)
	Logout(ctx context.Context) error
}

type AuthHandler struct {
	service   authService
	responder responder
	logger    *slog.Logger
}

func NewAuthHandler(service authService, logger *slog.Logger) *AuthHandler {
	base := defaultLogger(logger)
	return &AuthHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *AuthHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "AuthHandler", operation, attrs...)
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
	Phone    string `json:"phone"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// userDTO is the login projection. The original API exposed the identifier
// under both `id` and `user_num`, and clients read either, so both stay.
type userDTO struct {
	ID       string `json:"id"`
	UserNum  string `json:"user_num"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Phone    string `json:"phone"`
}

type loginResponse struct {
	Message string  `json:"message"`
	User    userDTO `json:"user"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Register", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode register request", "error", err)
		h.responder.writeMessage(r.Context(), w, http.StatusBadRequest, msgRegisterMissing)
		return
	}

	logger := h.log(r.Context(), "Register", "email", req.Email)

	user, err := h.service.Register(r.Context(), application.RegisterParams{
		Email:    req.Email,
		Password: req.Password,
		Username: req.Username,
		Phone:    req.Phone,
	})
	if err != nil {
		var vErr *application.ValidationError
		switch {
		case errors.As(err, &vErr):
			logger.ErrorContext(r.Context(), "registration rejected", "error", err, "error_kind", application.ErrorKind(err))
			h.responder.writeMessage(r.Context(), w, http.StatusBadRequest, msgRegisterMissing)
		case errors.Is(err, application.ErrEmailTaken):
			logger.ErrorContext(r.Context(), "registration rejected", "error", err, "error_kind", application.ErrorKind(err))
			h.responder.writeMessage(r.Context(), w, http.StatusConflict, msgRegisterConflict)
		default:
			h.responder.internalError(r.Context(), w, err)
		}
		return
	}

	logger.With("user_id", user.ID).InfoContext(r.Context(), "user registered")
	h.responder.writeMessage(r.Context(), w, http.StatusCreated, msgRegisterOK)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Login", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode login request", "error", err)
		h.responder.writeMessage(r.Context(), w, http.StatusBadRequest, msgLoginMissing)
		return
	}

	logger := h.log(r.Context(), "Login", "email", req.Email)

	user, err := h.service.Login(r.Context(), application.LoginParams{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		var vErr *application.ValidationError
		switch {
		case errors.As(err, &vErr):
			logger.ErrorContext(r.Context(), "login rejected", "error", err, "error_kind", application.ErrorKind(err))
			h.responder.writeMessage(r.Context(), w, http.StatusBadRequest, msgLoginMissing)
		case errors.Is(err, application.ErrUnknownEmail):
			logger.ErrorContext(r.Context(), "login rejected", "error", err, "error_kind", application.ErrorKind(err))
			h.responder.writeMessage(r.Context(), w, http.StatusUnauthorized, msgUnknownEmail)
		case errors.Is(err, application.ErrInvalidCredentials):
			logger.ErrorContext(r.Context(), "login rejected", "error", err, "error_kind", application.ErrorKind(err))
			h.responder.writeMessage(r.Context(), w, http.StatusUnauthorized, msgWrongPassword)
		default:
			h.responder.internalError(r.Context(), w, err)
		}
		return
	}

	logger.With("user_id", user.ID).InfoContext(r.Context(), "user authenticated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, loginResponse{
		Message: msgLoginOK,
		User: userDTO{
			ID:       user.ID,
			UserNum:  user.ID,
			Email:    user.Email,
			Username: user.Username,
			Phone:    user.Phone,
		},
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if err := h.service.Logout(r.Context()); err != nil {
		h.responder.internalError(r.Context(), w, err)
		return
	}
	h.responder.writeMessage(r.Context(), w, http.StatusOK, msgLogoutOK)
}
