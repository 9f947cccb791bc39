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

type communityService interface {
	CreatePost(ctx context.Context, input application.PostInput) (persistence.Post, error)
	ListPosts(ctx context.Context, calendarNum string) ([]application.PostView, error)
	CreateComment(ctx context.Context, input application.CommentInput) (persistence.Comment, error)
	ListComments(ctx context.Context, postNum string) ([]application.CommentView, error)
}

type CommunityHandler struct {
	service   communityService
	responder responder
	logger    *slog.Logger
}

func NewCommunityHandler(service communityService, logger *slog.Logger) *CommunityHandler {
	base := defaultLogger(logger)
	return &CommunityHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *CommunityHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "CommunityHandler", operation, attrs...)
}

type createPostRequest struct {
	UserID      string `json:"user_id"`
	CalendarNum string `json:"calendar_num"`
	Title       string `json:"post_title"`
	Content     string `json:"post_content"`
}

type createPostResponse struct {
	Message string `json:"message"`
	PostNum string `json:"post_num"`
}

type postDTO struct {
	PostNum     string `json:"post_num"`
	UserID      string `json:"user_id"`
	UserName    string `json:"user_name"`
	CalendarNum string `json:"calendar_num"`
	Title       string `json:"post_title"`
	Content     string `json:"post_content"`
	CreatedAt   string `json:"created_at"`
}

type createCommentRequest struct {
	UserID  string `json:"user_id"`
	PostNum string `json:"post_num"`
	Content string `json:"comment_content"`
}

type createCommentResponse struct {
	Message    string `json:"message"`
	CommentNum string `json:"comment_num"`
}

type commentDTO struct {
	CommentNum string `json:"comment_num"`
	UserID     string `json:"user_id"`
	UserName   string `json:"user_name"`
	PostNum    string `json:"post_num"`
	Content    string `json:"comment_content"`
	CreatedAt  string `json:"created_at"`
}

func (h *CommunityHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req createPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "CreatePost", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode post request", "error", err)
		h.responder.writeMessage(r.Context(), w, http.StatusBadRequest, msgPostMissing)
		return
	}

	logger := h.log(r.Context(), "CreatePost", "calendar_num", req.CalendarNum, "user_id", req.UserID)

	post, err := h.service.CreatePost(r.Context(), application.PostInput{
		UserID:      req.UserID,
		CalendarNum: req.CalendarNum,
		Title:       req.Title,
		Content:     req.Content,
	})
	if err != nil {
		var vErr *application.ValidationError
		if errors.As(err, &vErr) {
			logger.ErrorContext(r.Context(), "post rejected", "error", err, "error_kind", application.ErrorKind(err))
			h.responder.writeMessage(r.Context(), w, http.StatusBadRequest, msgPostMissing)
			return
		}
		h.responder.internalError(r.Context(), w, err)
		return
	}

	logger.With("post_num", post.ID).InfoContext(r.Context(), "post created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, createPostResponse{
		Message: msgPostCreated,
		PostNum: post.ID,
	})
}

// ListPosts answers with a bare array, matching the original community API.
func (h *CommunityHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	calendarNum, ok := CalendarIDFromContext(r.Context())
	if !ok || calendarNum == "" {
		h.responder.internalError(r.Context(), w, errors.New("calendar identifier missing from request context"))
		return
	}

	posts, err := h.service.ListPosts(r.Context(), calendarNum)
	if err != nil {
		h.responder.internalError(r.Context(), w, err)
		return
	}

	payload := make([]postDTO, 0, len(posts))
	for _, post := range posts {
		payload = append(payload, postDTO{
			PostNum:     post.ID,
			UserID:      post.UserID,
			UserName:    post.UserName,
			CalendarNum: post.CalendarNum,
			Title:       post.Title,
			Content:     post.Content,
			CreatedAt:   post.CreatedAt,
		})
	}

	h.log(r.Context(), "ListPosts", "calendar_num", calendarNum, "result_count", len(payload)).InfoContext(r.Context(), "posts listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, payload)
}

func (h *CommunityHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req createCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "CreateComment", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode comment request", "error", err)
		h.responder.writeMessage(r.Context(), w, http.StatusBadRequest, msgPostMissing)
		return
	}

	logger := h.log(r.Context(), "CreateComment", "post_num", req.PostNum, "user_id", req.UserID)

	comment, err := h.service.CreateComment(r.Context(), application.CommentInput{
		UserID:  req.UserID,
		PostNum: req.PostNum,
		Content: req.Content,
	})
	if err != nil {
		var vErr *application.ValidationError
		if errors.As(err, &vErr) {
			logger.ErrorContext(r.Context(), "comment rejected", "error", err, "error_kind", application.ErrorKind(err))
			h.responder.writeMessage(r.Context(), w, http.StatusBadRequest, msgPostMissing)
			return
		}
		h.responder.internalError(r.Context(), w, err)
		return
	}

	logger.With("comment_num", comment.ID).InfoContext(r.Context(), "comment created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, createCommentResponse{
		Message:    msgCommentCreated,
		CommentNum: comment.ID,
	})
}

// ListComments answers with a bare array, matching the original community API.
func (h *CommunityHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	postNum, ok := PostNumFromContext(r.Context())
	if !ok || postNum == "" {
		h.responder.internalError(r.Context(), w, errors.New("post identifier missing from request context"))
		return
	}

	comments, err := h.service.ListComments(r.Context(), postNum)
	if err != nil {
		h.responder.internalError(r.Context(), w, err)
		return
	}

	payload := make([]commentDTO, 0, len(comments))
	for _, comment := range comments {
		payload = append(payload, commentDTO{
			CommentNum: comment.ID,
			UserID:     comment.UserID,
			UserName:   comment.UserName,
			PostNum:    comment.PostNum,
			Content:    comment.Content,
			CreatedAt:  comment.CreatedAt,
		})
	}

	h.log(r.Context(), "ListComments", "post_num", postNum, "result_count", len(payload)).InfoContext(r.Context(), "comments listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, payload)
}
