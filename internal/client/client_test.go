package client_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/example/antcal/internal/application"
	"github.com/example/antcal/internal/client"
	internalhttp "github.com/example/antcal/internal/http"
	"github.com/example/antcal/internal/testfixtures"
)

func newAPIServer(t *testing.T) (*httptest.Server, *testfixtures.StoreHarness) {
	t.Helper()

	harness := testfixtures.NewStoreHarness(t)
	auth := application.NewAuthService(harness.Store, harness.IDs.NextFunc(), nil)
	calendars := application.NewCalendarService(harness.Store, harness.IDs.NextFunc(), nil)
	events := application.NewEventService(harness.Store, harness.IDs.NextFunc(), nil)
	community := application.NewCommunityService(harness.Store, harness.IDs.NextFunc(), harness.Clock.NowFunc(), nil)
	assistant := application.NewAssistantService(harness.Store, harness.Clock.NowFunc(), func(int) int { return 0 }, nil)
	social := application.NewSocialService(harness.Store, harness.IDs.NextFunc(), harness.Clock.NowFunc(), nil)

	router := internalhttp.NewRouter(internalhttp.RouterConfig{
		Auth:      internalhttp.NewAuthHandler(auth, nil),
		Calendars: internalhttp.NewCalendarHandler(calendars, events, nil),
		Events:    internalhttp.NewEventHandler(events, nil),
		Community: internalhttp.NewCommunityHandler(community, nil),
		Assistant: internalhttp.NewAssistantHandler(assistant, nil),
		Social:    internalhttp.NewSocialHandler(social, nil),
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server, harness
}

func TestClientSession(t *testing.T) {
	t.Parallel()

	server, _ := newAPIServer(t)
	ctx := context.Background()
	sessionPath := filepath.Join(t.TempDir(), "session.json")

	api := client.New(server.URL, client.WithSessionPath(sessionPath))
	if err := api.Register(ctx, "a@x.com", "p1", "A", "010-0000-0000"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if _, ok := api.CurrentUser(); ok {
		t.Fatal("expected no session before login")
	}

	user, err := api.Login(ctx, "a@x.com", "p1")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if user.Email != "a@x.com" || user.ID == "" {
		t.Fatalf("unexpected login result: %#v", user)
	}

	t.Run("session survives a client restart", func(t *testing.T) {
		restarted := client.New(server.URL, client.WithSessionPath(sessionPath))
		restored, ok := restarted.CurrentUser()
		if !ok || restored != user {
			t.Fatalf("expected restored session, got %#v (ok=%v)", restored, ok)
		}
	})

	t.Run("logout removes the session file", func(t *testing.T) {
		if err := api.Logout(ctx); err != nil {
			t.Fatalf("Logout failed: %v", err)
		}
		if _, ok := api.CurrentUser(); ok {
			t.Fatal("expected session cleared after logout")
		}
		if _, err := os.Stat(sessionPath); !errors.Is(err, os.ErrNotExist) {
			t.Fatalf("expected session file removed, got %v", err)
		}
	})
}

func TestClientCalendarsAndEvents(t *testing.T) {
	t.Parallel()

	server, harness := newAPIServer(t)
	ctx := context.Background()
	api := client.New(server.URL)

	calendarID, err := api.CreateCalendar(ctx, client.Calendar{
		Name: "Work", Purpose: "Job", Color: "rgb(1,2,3)", UserNum: "123",
	})
	if err != nil {
		t.Fatalf("CreateCalendar failed: %v", err)
	}

	calendars, err := api.ListCalendars(ctx, "123")
	if err != nil {
		t.Fatalf("ListCalendars failed: %v", err)
	}
	if len(calendars) != 1 || calendars[0].ID != calendarID {
		t.Fatalf("unexpected calendars: %#v", calendars)
	}

	eventID, err := api.CreateEvent(ctx, client.Event{
		Title: "Standup", StartDate: "2026-03-02", EndDate: "2026-03-02",
		StartTime: "09:00", EndTime: "09:15", CalendarID: calendarID, UserNum: "123",
	})
	if err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}

	t.Run("creation invalidates the cached event list", func(t *testing.T) {
		events, err := api.ListEvents(ctx, calendarID, "123")
		if err != nil {
			t.Fatalf("ListEvents failed: %v", err)
		}
		if len(events) != 1 || events[0].ID != eventID {
			t.Fatalf("unexpected events: %#v", events)
		}

		secondID, err := api.CreateEvent(ctx, client.Event{
			Title: "Review", StartDate: "2026-03-03", EndDate: "2026-03-03",
			CalendarID: calendarID, UserNum: "123",
		})
		if err != nil {
			t.Fatalf("CreateEvent failed: %v", err)
		}

		events, err = api.ListEvents(ctx, calendarID, "123")
		if err != nil {
			t.Fatalf("ListEvents failed: %v", err)
		}
		if len(events) != 2 || events[1].ID != secondID {
			t.Fatalf("expected refreshed list, got %#v", events)
		}
	})

	t.Run("delete miss surfaces the server message", func(t *testing.T) {
		err := api.DeleteEvent(ctx, "missing")
		var apiErr *client.APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("expected APIError, got %v", err)
		}
		if apiErr.Status != 404 || apiErr.Message != "이벤트를 찾을 수 없습니다." {
			t.Fatalf("unexpected error: %#v", apiErr)
		}
	})

	t.Run("calendar delete cascades to its events", func(t *testing.T) {
		if err := api.DeleteCalendar(ctx, calendarID, "123"); err != nil {
			t.Fatalf("DeleteCalendar failed: %v", err)
		}

		state := harness.State(t)
		if len(state.Calendars) != 0 {
			t.Fatalf("expected calendar removed, got %#v", state.Calendars)
		}
		if len(state.Events) != 0 {
			t.Fatalf("expected events cascaded, got %#v", state.Events)
		}
	})
}

func TestClientCommunity(t *testing.T) {
	t.Parallel()

	server, _ := newAPIServer(t)
	ctx := context.Background()
	api := client.New(server.URL)

	postNum, err := api.CreatePost(ctx, client.Post{
		UserID: "user-1", CalendarNum: "cal-1", Title: "Sprint notes", Content: "Retro on Friday.",
	})
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}

	commentNum, err := api.CreateComment(ctx, client.Comment{
		UserID: "user-1", PostNum: postNum, Content: "Sounds good.",
	})
	if err != nil {
		t.Fatalf("CreateComment failed: %v", err)
	}

	posts, err := api.ListPosts(ctx, "cal-1")
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	if len(posts) != 1 || posts[0].PostNum != postNum {
		t.Fatalf("unexpected posts: %#v", posts)
	}

	comments, err := api.ListComments(ctx, postNum)
	if err != nil {
		t.Fatalf("ListComments failed: %v", err)
	}
	if len(comments) != 1 || comments[0].CommentNum != commentNum {
		t.Fatalf("unexpected comments: %#v", comments)
	}
}

func TestClientSocial(t *testing.T) {
	t.Parallel()

	server, harness := newAPIServer(t)
	ctx := context.Background()
	api := client.New(server.URL)

	if err := api.Register(ctx, "a@x.com", "p1", "A", "010-0000-0000"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := api.Register(ctx, "b@x.com", "p2", "B", "010-1111-1111"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	users := harness.State(t).Users
	inviter, invitee := users[0].ID, users[1].ID

	t.Run("friend request round-trip", func(t *testing.T) {
		if err := api.SendFriendRequest(ctx, inviter, invitee); err != nil {
			t.Fatalf("SendFriendRequest failed: %v", err)
		}
		requestID := harness.State(t).Friends[0].ID

		friends, err := api.ListFriends(ctx, inviter)
		if err != nil {
			t.Fatalf("ListFriends failed: %v", err)
		}
		if len(friends) != 0 {
			t.Fatalf("expected no friends before acceptance, got %#v", friends)
		}

		if err := api.RespondFriendRequest(ctx, requestID, "accepted"); err != nil {
			t.Fatalf("RespondFriendRequest failed: %v", err)
		}

		// The acceptance dropped the cached empty list.
		friends, err = api.ListFriends(ctx, inviter)
		if err != nil {
			t.Fatalf("ListFriends failed: %v", err)
		}
		if len(friends) != 1 || friends[0].Username != "B" {
			t.Fatalf("unexpected friends: %#v", friends)
		}
	})

	t.Run("invitation flows through the notification feed", func(t *testing.T) {
		calendarID, err := api.CreateCalendar(ctx, client.Calendar{
			Name: "Work", Purpose: "Job", Color: "rgb(1,2,3)", UserNum: inviter,
		})
		if err != nil {
			t.Fatalf("CreateCalendar failed: %v", err)
		}

		if err := api.InviteToCalendar(ctx, calendarID, inviter, "b@x.com", "viewer"); err != nil {
			t.Fatalf("InviteToCalendar failed: %v", err)
		}

		notifications, err := api.ListNotifications(ctx, invitee)
		if err != nil {
			t.Fatalf("ListNotifications failed: %v", err)
		}
		if len(notifications) != 1 || notifications[0].CalendarName != "Work" || notifications[0].InviterName != "A" {
			t.Fatalf("unexpected notifications: %#v", notifications)
		}

		if err := api.RespondNotification(ctx, notifications[0].ShareID, "accepted"); err != nil {
			t.Fatalf("RespondNotification failed: %v", err)
		}

		// The response dropped the cached feed.
		notifications, err = api.ListNotifications(ctx, invitee)
		if err != nil {
			t.Fatalf("ListNotifications failed: %v", err)
		}
		if len(notifications) != 0 {
			t.Fatalf("expected empty feed after acceptance, got %#v", notifications)
		}

		if err := api.InviteToCalendar(ctx, calendarID, inviter, "b@x.com", "viewer"); err == nil {
			t.Fatal("expected repeat invite to fail")
		}
	})
}

func TestClientAssistantAndHealth(t *testing.T) {
	t.Parallel()

	server, _ := newAPIServer(t)
	ctx := context.Background()
	api := client.New(server.URL)

	if err := api.Health(ctx); err != nil {
		t.Fatalf("Health failed: %v", err)
	}

	suggestion, err := api.PreviewEvent(ctx, "42", "1")
	if err != nil {
		t.Fatalf("PreviewEvent failed: %v", err)
	}
	if suggestion.CalendarID != "1" || suggestion.UserNum != "42" || suggestion.Title == "" {
		t.Fatalf("unexpected suggestion: %#v", suggestion)
	}

	// The suggestion doubles as a creation payload.
	if _, err := api.CreateEvent(ctx, suggestion); err != nil {
		t.Fatalf("CreateEvent from suggestion failed: %v", err)
	}
}
