package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/antcal/internal/persistence"
)

const (
	// StatusPending marks a friend request or invitation awaiting a response.
	StatusPending = "pending"
	// StatusAccepted marks a confirmed friendship or calendar membership.
	StatusAccepted = "accepted"
	// StatusDeclined marks a rejected friend request or invitation.
	StatusDeclined = "declined"
)

// SocialService handles friendships, calendar invitations, and the pending
// invitation feed that doubles as the user's notifications.
type SocialService struct {
	store       persistence.Store
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewSocialService wires dependencies for the social service.
func NewSocialService(store persistence.Store, idGenerator func() string, now func() time.Time, logger *slog.Logger) *SocialService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &SocialService{store: store, idGenerator: idGenerator, now: now, logger: defaultLogger(logger)}
}

func (s *SocialService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "SocialService", operation, attrs...)
}

// SendFriendRequest appends a pending friendship edge from the requester to
// the addressee.
func (s *SocialService) SendFriendRequest(ctx context.Context, input FriendRequestInput) (friend persistence.Friend, err error) {
	if s == nil || s.store == nil {
		return persistence.Friend{}, fmt.Errorf("social service not configured")
	}

	logger := s.loggerWith(ctx, "SendFriendRequest", "user_id", input.UserID, "friend_id", input.FriendID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "friend request failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("request_id", friend.ID).InfoContext(ctx, "friend request sent")
	}()

	vErr := &ValidationError{}
	vErr.requireFields(map[string]string{
		"user_id":   input.UserID,
		"friend_id": input.FriendID,
	})
	if vErr.HasErrors() {
		err = vErr
		return
	}

	friend = persistence.Friend{
		ID:       s.idGenerator(),
		UserID:   input.UserID,
		FriendID: input.FriendID,
		Status:   StatusPending,
	}

	err = s.store.Update(ctx, func(state *persistence.State) error {
		state.Friends = append(state.Friends, friend)
		return nil
	})
	if err != nil {
		friend = persistence.Friend{}
	}
	return
}

// RespondFriendRequest resolves a pending friend request. Responses that
// would not change the stored status count as a miss, so answering the same
// request twice reports ErrNotFound.
func (s *SocialService) RespondFriendRequest(ctx context.Context, requestID, status string) error {
	if s == nil || s.store == nil {
		return fmt.Errorf("social service not configured")
	}

	logger := s.loggerWith(ctx, "RespondFriendRequest", "request_id", requestID, "status", status)

	if err := validateResponseStatus(status); err != nil {
		logger.ErrorContext(ctx, "friend response rejected", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	err := s.store.Update(ctx, func(state *persistence.State) error {
		for i, friend := range state.Friends {
			if friend.ID == requestID && friend.Status != status {
				state.Friends[i].Status = status
				return nil
			}
		}
		return ErrNotFound
	})
	if err != nil {
		logger.ErrorContext(ctx, "friend response failed", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	logger.InfoContext(ctx, "friend request resolved")
	return nil
}

// ListFriends returns the profiles of every user joined to userNum through an
// accepted friendship, whichever side sent the request. Edges pointing at
// deleted accounts are skipped.
func (s *SocialService) ListFriends(ctx context.Context, userNum string) ([]UserProfile, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("social service not configured")
	}

	logger := s.loggerWith(ctx, "ListFriends", "user_num", userNum)

	state, err := s.store.Load(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "friend listing failed", "error", err)
		return nil, err
	}

	usersByID := make(map[string]persistence.User, len(state.Users))
	for _, user := range state.Users {
		usersByID[user.ID] = user
	}

	seen := make(map[string]bool)
	profiles := make([]UserProfile, 0)
	for _, friend := range state.Friends {
		if friend.Status != StatusAccepted {
			continue
		}
		var counterpart string
		switch userNum {
		case friend.UserID:
			counterpart = friend.FriendID
		case friend.FriendID:
			counterpart = friend.UserID
		default:
			continue
		}
		if seen[counterpart] {
			continue
		}
		seen[counterpart] = true
		user, ok := usersByID[counterpart]
		if !ok {
			continue
		}
		profiles = append(profiles, UserProfile{
			ID:       user.ID,
			Email:    user.Email,
			Username: user.Username,
			Phone:    user.Phone,
		})
	}

	logger.With("result_count", len(profiles)).InfoContext(ctx, "friends listed")
	return profiles, nil
}

// Invite resolves the invitee by email and appends a pending calendar share.
// A share already linking the invitee to the calendar, whatever its status,
// yields ErrAlreadyInvited.
func (s *SocialService) Invite(ctx context.Context, input InviteInput) (share persistence.CalendarShare, err error) {
	if s == nil || s.store == nil {
		return persistence.CalendarShare{}, fmt.Errorf("social service not configured")
	}

	logger := s.loggerWith(ctx, "Invite", "calendar_id", input.CalendarID, "inviter_id", input.InviterID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "invitation failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("share_id", share.ID).InfoContext(ctx, "invitation sent")
	}()

	vErr := &ValidationError{}
	vErr.requireFields(map[string]string{
		"calendar_id":   input.CalendarID,
		"inviter_id":    input.InviterID,
		"invitee_email": input.InviteeEmail,
		"role":          input.Role,
	})
	if vErr.HasErrors() {
		err = vErr
		return
	}

	share = persistence.CalendarShare{
		ID:         s.idGenerator(),
		CalendarID: input.CalendarID,
		InviterID:  input.InviterID,
		Role:       input.Role,
		Status:     StatusPending,
		CreatedAt:  s.now().UTC().Format(time.RFC3339),
	}

	err = s.store.Update(ctx, func(state *persistence.State) error {
		inviteeID := ""
		for _, user := range state.Users {
			if user.Email == input.InviteeEmail {
				inviteeID = user.ID
				break
			}
		}
		if inviteeID == "" {
			return ErrUnknownEmail
		}
		for _, existing := range state.Shares {
			if existing.CalendarID == input.CalendarID && existing.InviteeID == inviteeID {
				return ErrAlreadyInvited
			}
		}
		share.InviteeID = inviteeID
		state.Shares = append(state.Shares, share)
		return nil
	})
	if err != nil {
		share = persistence.CalendarShare{}
	}
	return
}

// ListInvitations returns the user's pending calendar invitations in
// insertion order, each joined with the calendar's name and the inviter's
// username. Shares whose calendar or inviter no longer exists are dropped.
func (s *SocialService) ListInvitations(ctx context.Context, userNum string) ([]InvitationView, error) {
	return s.listPendingShares(ctx, "ListInvitations", userNum, false)
}

// ListNotifications returns the same pending invitations newest first, the
// order the notification feed presents them in.
func (s *SocialService) ListNotifications(ctx context.Context, userNum string) ([]InvitationView, error) {
	return s.listPendingShares(ctx, "ListNotifications", userNum, true)
}

func (s *SocialService) listPendingShares(ctx context.Context, operation, userNum string, newestFirst bool) ([]InvitationView, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("social service not configured")
	}

	logger := s.loggerWith(ctx, operation, "user_num", userNum)

	state, err := s.store.Load(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "invitation listing failed", "error", err)
		return nil, err
	}

	calendarNames := make(map[string]string, len(state.Calendars))
	for _, calendar := range state.Calendars {
		calendarNames[calendar.ID] = calendar.Name
	}
	names := usernamesByID(state.Users)

	views := make([]InvitationView, 0)
	appendShare := func(share persistence.CalendarShare) {
		if share.InviteeID != userNum || share.Status != StatusPending {
			return
		}
		calendarName, haveCalendar := calendarNames[share.CalendarID]
		inviterName, haveInviter := names[share.InviterID]
		if !haveCalendar || !haveInviter {
			return
		}
		views = append(views, InvitationView{
			ShareID:      share.ID,
			CalendarID:   share.CalendarID,
			CalendarName: calendarName,
			InviterName:  inviterName,
			Role:         share.Role,
			CreatedAt:    share.CreatedAt,
		})
	}

	if newestFirst {
		for i := len(state.Shares) - 1; i >= 0; i-- {
			appendShare(state.Shares[i])
		}
	} else {
		for _, share := range state.Shares {
			appendShare(share)
		}
	}

	logger.With("result_count", len(views)).InfoContext(ctx, "invitations listed")
	return views, nil
}

// RespondInvitation resolves a pending calendar invitation. As with friend
// requests, a response that leaves the stored status unchanged reports
// ErrNotFound.
func (s *SocialService) RespondInvitation(ctx context.Context, shareID, status string) error {
	if s == nil || s.store == nil {
		return fmt.Errorf("social service not configured")
	}

	logger := s.loggerWith(ctx, "RespondInvitation", "share_id", shareID, "status", status)

	if err := validateResponseStatus(status); err != nil {
		logger.ErrorContext(ctx, "invitation response rejected", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	err := s.store.Update(ctx, func(state *persistence.State) error {
		for i, share := range state.Shares {
			if share.ID == shareID && share.Status != status {
				state.Shares[i].Status = status
				return nil
			}
		}
		return ErrNotFound
	})
	if err != nil {
		logger.ErrorContext(ctx, "invitation response failed", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	logger.InfoContext(ctx, "invitation resolved")
	return nil
}

func validateResponseStatus(status string) error {
	if status == StatusAccepted || status == StatusDeclined {
		return nil
	}
	vErr := &ValidationError{}
	vErr.add("status", "must be accepted or declined")
	return vErr
}
