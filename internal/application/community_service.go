package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/antcal/internal/persistence"
)

// CommunityService handles calendar posts and their comments.
type CommunityService struct {
	store       persistence.Store
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewCommunityService wires dependencies for the community service.
func NewCommunityService(store persistence.Store, idGenerator func() string, now func() time.Time, logger *slog.Logger) *CommunityService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &CommunityService{store: store, idGenerator: idGenerator, now: now, logger: defaultLogger(logger)}
}

func (s *CommunityService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "CommunityService", operation, attrs...)
}

// CreatePost validates the payload and appends a new post record.
func (s *CommunityService) CreatePost(ctx context.Context, input PostInput) (post persistence.Post, err error) {
	if s == nil || s.store == nil {
		return persistence.Post{}, fmt.Errorf("community service not configured")
	}

	logger := s.loggerWith(ctx, "CreatePost", "calendar_num", input.CalendarNum, "user_id", input.UserID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "post creation failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("post_num", post.ID).InfoContext(ctx, "post created")
	}()

	vErr := &ValidationError{}
	vErr.requireFields(map[string]string{
		"user_id":      input.UserID,
		"calendar_num": input.CalendarNum,
		"post_title":   input.Title,
		"post_content": input.Content,
	})
	if vErr.HasErrors() {
		err = vErr
		return
	}

	post = persistence.Post{
		ID:          s.idGenerator(),
		UserID:      input.UserID,
		CalendarNum: input.CalendarNum,
		Title:       input.Title,
		Content:     input.Content,
		CreatedAt:   s.now().UTC().Format(time.RFC3339),
	}

	err = s.store.Update(ctx, func(state *persistence.State) error {
		state.Posts = append(state.Posts, post)
		return nil
	})
	if err != nil {
		post = persistence.Post{}
	}
	return
}

// ListPosts returns the posts attached to a calendar, newest first, each
// joined with the author's username. Posts whose author no longer exists keep
// an empty username instead of being dropped.
func (s *CommunityService) ListPosts(ctx context.Context, calendarNum string) ([]PostView, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("community service not configured")
	}

	logger := s.loggerWith(ctx, "ListPosts", "calendar_num", calendarNum)

	state, err := s.store.Load(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "post listing failed", "error", err)
		return nil, err
	}

	names := usernamesByID(state.Users)
	views := make([]PostView, 0)
	// Newest first: walk the insertion-ordered collection backwards.
	for i := len(state.Posts) - 1; i >= 0; i-- {
		post := state.Posts[i]
		if post.CalendarNum != calendarNum {
			continue
		}
		views = append(views, PostView{
			ID:          post.ID,
			UserID:      post.UserID,
			UserName:    names[post.UserID],
			CalendarNum: post.CalendarNum,
			Title:       post.Title,
			Content:     post.Content,
			CreatedAt:   post.CreatedAt,
		})
	}

	logger.With("result_count", len(views)).InfoContext(ctx, "posts listed")
	return views, nil
}

// CreateComment validates the payload and appends a new comment record.
func (s *CommunityService) CreateComment(ctx context.Context, input CommentInput) (comment persistence.Comment, err error) {
	if s == nil || s.store == nil {
		return persistence.Comment{}, fmt.Errorf("community service not configured")
	}

	logger := s.loggerWith(ctx, "CreateComment", "post_num", input.PostNum, "user_id", input.UserID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "comment creation failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("comment_num", comment.ID).InfoContext(ctx, "comment created")
	}()

	vErr := &ValidationError{}
	vErr.requireFields(map[string]string{
		"user_id":         input.UserID,
		"post_num":        input.PostNum,
		"comment_content": input.Content,
	})
	if vErr.HasErrors() {
		err = vErr
		return
	}

	comment = persistence.Comment{
		ID:        s.idGenerator(),
		UserID:    input.UserID,
		PostNum:   input.PostNum,
		Content:   input.Content,
		CreatedAt: s.now().UTC().Format(time.RFC3339),
	}

	err = s.store.Update(ctx, func(state *persistence.State) error {
		state.Comments = append(state.Comments, comment)
		return nil
	})
	if err != nil {
		comment = persistence.Comment{}
	}
	return
}

// ListComments returns the comments on a post, oldest first, with author
// usernames joined in.
func (s *CommunityService) ListComments(ctx context.Context, postNum string) ([]CommentView, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("community service not configured")
	}

	logger := s.loggerWith(ctx, "ListComments", "post_num", postNum)

	state, err := s.store.Load(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "comment listing failed", "error", err)
		return nil, err
	}

	names := usernamesByID(state.Users)
	views := make([]CommentView, 0)
	for _, comment := range state.Comments {
		if comment.PostNum != postNum {
			continue
		}
		views = append(views, CommentView{
			ID:        comment.ID,
			UserID:    comment.UserID,
			UserName:  names[comment.UserID],
			PostNum:   comment.PostNum,
			Content:   comment.Content,
			CreatedAt: comment.CreatedAt,
		})
	}

	logger.With("result_count", len(views)).InfoContext(ctx, "comments listed")
	return views, nil
}

func usernamesByID(users []persistence.User) map[string]string {
	names := make(map[string]string, len(users))
	for _, user := range users {
		names[user.ID] = user.Username
	}
	return names
}
