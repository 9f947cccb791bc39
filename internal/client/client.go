// Package client provides typed bindings for the calendar API, mirroring what
// the web frontend does: a persisted login session, cached list responses,
// and a client-side cascade when deleting calendars.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

// APIError carries the status code and server message of a failed request.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
}

// User mirrors the login projection returned by the server.
type User struct {
	ID       string `json:"id"`
	UserNum  string `json:"user_num"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Phone    string `json:"phone"`
}

// Calendar mirrors the stored calendar record.
type Calendar struct {
	ID      string `json:"calendar_id"`
	Name    string `json:"calendar_name"`
	Purpose string `json:"calendar_purpose"`
	Color   string `json:"calendar_color"`
	UserNum string `json:"user_num"`
}

// Event mirrors the stored event record. The same shape doubles as the event
// creation payload and as the assistant's suggestion.
type Event struct {
	ID         string `json:"event_id,omitempty"`
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

// Post mirrors a community post joined with the author's username.
type Post struct {
	PostNum     string `json:"post_num"`
	UserID      string `json:"user_id"`
	UserName    string `json:"user_name"`
	CalendarNum string `json:"calendar_num"`
	Title       string `json:"post_title"`
	Content     string `json:"post_content"`
	CreatedAt   string `json:"created_at"`
}

// Comment mirrors a community comment joined with the author's username.
type Comment struct {
	CommentNum string `json:"comment_num"`
	UserID     string `json:"user_id"`
	UserName   string `json:"user_name"`
	PostNum    string `json:"post_num"`
	Content    string `json:"comment_content"`
	CreatedAt  string `json:"created_at"`
}

// Invitation mirrors a pending calendar share joined with the calendar's
// name and the inviter's username. The notification feed reuses the same
// shape with created_at filled in.
type Invitation struct {
	ShareID      string `json:"share_id"`
	CalendarID   string `json:"calendar_id"`
	CalendarName string `json:"calendar_name"`
	InviterName  string `json:"inviter_name"`
	Role         string `json:"role"`
	CreatedAt    string `json:"created_at,omitempty"`
}

// Client talks to the calendar API. It is safe for concurrent use.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	sessionPath string

	mu      sync.Mutex
	session session
	cache   map[string][]byte
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithSessionPath sets the file the login session persists to. Without it the
// session lives only in memory.
func WithSessionPath(path string) Option {
	return func(c *Client) {
		c.sessionPath = path
	}
}

// New builds a client for the API at baseURL and restores a persisted session
// if one exists.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		cache:      make(map[string][]byte),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	c.restoreSession()
	return c
}

// CurrentUser reports the logged-in user restored from the session, if any.
func (c *Client) CurrentUser() (User, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session.User == nil || c.session.IsAuthenticated != "true" {
		return User{}, false
	}
	return *c.session.User, true
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, email, password, username, phone string) error {
	body := map[string]string{
		"email": email, "password": password, "username": username, "phone": phone,
	}
	return c.do(ctx, http.MethodPost, "/register", body, nil)
}

// Login authenticates and persists the session.
func (c *Client) Login(ctx context.Context, email, password string) (User, error) {
	var res struct {
		Message string `json:"message"`
		User    User   `json:"user"`
	}
	err := c.do(ctx, http.MethodPost, "/login", map[string]string{
		"email": email, "password": password,
	}, &res)
	if err != nil {
		return User{}, err
	}
	c.storeSession(res.User)
	return res.User, nil
}

// Logout notifies the server and drops the persisted session.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.do(ctx, http.MethodPost, "/logout", nil, nil); err != nil {
		return err
	}
	c.clearSession()
	return nil
}

// CreateCalendar creates a calendar and returns its identifier.
func (c *Client) CreateCalendar(ctx context.Context, calendar Calendar) (string, error) {
	var res struct {
		Message    string `json:"message"`
		CalendarID string `json:"calendar_id"`
	}
	err := c.do(ctx, http.MethodPost, "/api/calendars", map[string]string{
		"calendar_name":    calendar.Name,
		"calendar_purpose": calendar.Purpose,
		"calendar_color":   calendar.Color,
		"user_num":         calendar.UserNum,
	}, &res)
	if err != nil {
		return "", err
	}
	c.invalidate("calendars:" + calendar.UserNum)
	return res.CalendarID, nil
}

// ListCalendars returns the user's calendars, from cache when fresh.
func (c *Client) ListCalendars(ctx context.Context, userNum string) ([]Calendar, error) {
	var res struct {
		Message   string     `json:"message"`
		Calendars []Calendar `json:"calendars"`
	}
	if err := c.cached(ctx, "calendars:"+userNum, "/api/calendars/"+userNum, &res); err != nil {
		return nil, err
	}
	return res.Calendars, nil
}

// DeleteCalendar deletes a calendar and cascades to its events. The server
// only removes the calendar record; deleting its events is the client's job.
func (c *Client) DeleteCalendar(ctx context.Context, calendarID, userNum string) error {
	events, err := c.ListEvents(ctx, calendarID, userNum)
	if err != nil {
		return err
	}
	if err := c.do(ctx, http.MethodDelete, "/api/calendars/"+calendarID, nil, nil); err != nil {
		return err
	}
	for _, event := range events {
		if err := c.DeleteEvent(ctx, event.ID); err != nil {
			return fmt.Errorf("cascade delete of event %s: %w", event.ID, err)
		}
	}
	c.invalidate("calendars:" + userNum)
	c.invalidate("events:" + calendarID + ":" + userNum)
	c.invalidate("userevents:" + userNum)
	return nil
}

// CreateEvent creates an event and returns its identifier.
func (c *Client) CreateEvent(ctx context.Context, event Event) (string, error) {
	var res struct {
		Message string `json:"message"`
		EventID string `json:"event_id"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/events", event, &res); err != nil {
		return "", err
	}
	c.invalidate("events:" + event.CalendarID + ":" + event.UserNum)
	c.invalidate("userevents:" + event.UserNum)
	return res.EventID, nil
}

// ListEvents returns the events of one calendar scoped to its owner.
func (c *Client) ListEvents(ctx context.Context, calendarID, userNum string) ([]Event, error) {
	var res struct {
		Message string  `json:"message"`
		Events  []Event `json:"events"`
	}
	key := "events:" + calendarID + ":" + userNum
	if err := c.cached(ctx, key, "/api/events/"+calendarID+"/"+userNum, &res); err != nil {
		return nil, err
	}
	return res.Events, nil
}

// ListUserEvents returns every event the user owns across calendars.
func (c *Client) ListUserEvents(ctx context.Context, userNum string) ([]Event, error) {
	var res struct {
		Message string  `json:"message"`
		Events  []Event `json:"events"`
	}
	if err := c.cached(ctx, "userevents:"+userNum, "/api/user/"+userNum+"/events", &res); err != nil {
		return nil, err
	}
	return res.Events, nil
}

// DeleteEvent deletes one event. Event caches are dropped wholesale because
// the identifier alone does not say which calendar the event belonged to.
func (c *Client) DeleteEvent(ctx context.Context, eventID string) error {
	if err := c.do(ctx, http.MethodDelete, "/api/events/"+eventID, nil, nil); err != nil {
		return err
	}
	c.invalidatePrefix("events:")
	c.invalidatePrefix("userevents:")
	return nil
}

// CreatePost creates a community post and returns its identifier.
func (c *Client) CreatePost(ctx context.Context, post Post) (string, error) {
	var res struct {
		Message string `json:"message"`
		PostNum string `json:"post_num"`
	}
	err := c.do(ctx, http.MethodPost, "/api/posts", map[string]string{
		"user_id":      post.UserID,
		"calendar_num": post.CalendarNum,
		"post_title":   post.Title,
		"post_content": post.Content,
	}, &res)
	if err != nil {
		return "", err
	}
	c.invalidate("posts:" + post.CalendarNum)
	return res.PostNum, nil
}

// ListPosts returns a calendar's posts, newest first.
func (c *Client) ListPosts(ctx context.Context, calendarNum string) ([]Post, error) {
	var posts []Post
	if err := c.cached(ctx, "posts:"+calendarNum, "/api/calendars/"+calendarNum+"/posts", &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// CreateComment creates a comment on a post and returns its identifier.
func (c *Client) CreateComment(ctx context.Context, comment Comment) (string, error) {
	var res struct {
		Message    string `json:"message"`
		CommentNum string `json:"comment_num"`
	}
	err := c.do(ctx, http.MethodPost, "/api/comments", map[string]string{
		"user_id":         comment.UserID,
		"post_num":        comment.PostNum,
		"comment_content": comment.Content,
	}, &res)
	if err != nil {
		return "", err
	}
	c.invalidate("comments:" + comment.PostNum)
	return res.CommentNum, nil
}

// ListComments returns a post's comments, oldest first.
func (c *Client) ListComments(ctx context.Context, postNum string) ([]Comment, error) {
	var comments []Comment
	if err := c.cached(ctx, "comments:"+postNum, "/api/posts/"+postNum+"/comments", &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// SendFriendRequest opens a pending friendship from userID to friendID.
func (c *Client) SendFriendRequest(ctx context.Context, userID, friendID string) error {
	return c.do(ctx, http.MethodPost, "/api/friends/request", map[string]string{
		"user_id": userID, "friend_id": friendID,
	}, nil)
}

// RespondFriendRequest accepts or declines a friend request. The cached
// friends lists of both sides are dropped, so everything under the prefix
// goes.
func (c *Client) RespondFriendRequest(ctx context.Context, requestID, status string) error {
	if err := c.do(ctx, http.MethodPut, "/api/friends/request/"+requestID, map[string]string{
		"status": status,
	}, nil); err != nil {
		return err
	}
	c.invalidatePrefix("friends:")
	return nil
}

// ListFriends returns the user's accepted friends, from cache when fresh.
func (c *Client) ListFriends(ctx context.Context, userNum string) ([]User, error) {
	var friends []User
	if err := c.cached(ctx, "friends:"+userNum, "/api/users/"+userNum+"/friends", &friends); err != nil {
		return nil, err
	}
	return friends, nil
}

// InviteToCalendar invites a user, addressed by email, to a calendar. The
// invitee's identifier is unknown on this side, so invitation and
// notification caches are dropped wholesale.
func (c *Client) InviteToCalendar(ctx context.Context, calendarID, inviterID, inviteeEmail, role string) error {
	if err := c.do(ctx, http.MethodPost, "/api/calendars/invite", map[string]string{
		"calendar_id":   calendarID,
		"inviter_id":    inviterID,
		"invitee_email": inviteeEmail,
		"role":          role,
	}, nil); err != nil {
		return err
	}
	c.invalidatePrefix("invitations:")
	c.invalidatePrefix("notifications:")
	return nil
}

// ListInvitations returns the user's pending calendar invitations.
func (c *Client) ListInvitations(ctx context.Context, userNum string) ([]Invitation, error) {
	var invitations []Invitation
	if err := c.cached(ctx, "invitations:"+userNum, "/api/users/"+userNum+"/invitations", &invitations); err != nil {
		return nil, err
	}
	return invitations, nil
}

// RespondInvitation accepts or declines a calendar invitation.
func (c *Client) RespondInvitation(ctx context.Context, shareID, status string) error {
	if err := c.do(ctx, http.MethodPut, "/api/invitations/"+shareID, map[string]string{
		"status": status,
	}, nil); err != nil {
		return err
	}
	c.invalidatePrefix("invitations:")
	c.invalidatePrefix("notifications:")
	return nil
}

// ListNotifications returns the user's pending invitations, newest first.
func (c *Client) ListNotifications(ctx context.Context, userNum string) ([]Invitation, error) {
	var notifications []Invitation
	if err := c.cached(ctx, "notifications:"+userNum, "/api/notifications?user_num="+userNum, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// RespondNotification answers an invitation through the notification feed.
func (c *Client) RespondNotification(ctx context.Context, shareID, status string) error {
	if err := c.do(ctx, http.MethodPost, "/api/notifications/respond", map[string]string{
		"share_id": shareID, "status": status,
	}, nil); err != nil {
		return err
	}
	c.invalidatePrefix("invitations:")
	c.invalidatePrefix("notifications:")
	return nil
}

// PreviewEvent asks the assistant for an event suggestion. Nothing is
// persisted; submit the suggestion through CreateEvent to keep it.
func (c *Client) PreviewEvent(ctx context.Context, userNum, calendarID string) (Event, error) {
	var suggestion Event
	err := c.do(ctx, http.MethodPost, "/api/ai-assistant/preview-event", map[string]string{
		"user_num": userNum, "calendar_id": calendarID,
	}, &suggestion)
	if err != nil {
		return Event{}, err
	}
	return suggestion, nil
}

// ExportICS fetches a calendar's iCalendar document.
func (c *Client) ExportICS(ctx context.Context, calendarID, userNum string) (string, error) {
	raw, err := c.doRaw(ctx, http.MethodGet, "/api/calendars/"+calendarID+"/"+userNum+"/ics", nil)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// Health reports whether the server answers its liveness endpoint.
func (c *Client) Health(ctx context.Context) error {
	var res struct {
		Status string `json:"status"`
	}
	if err := c.do(ctx, http.MethodGet, "/health", nil, &res); err != nil {
		return err
	}
	if res.Status != "healthy" {
		return fmt.Errorf("unexpected health status %q", res.Status)
	}
	return nil
}

// cached serves list requests from the response cache, fetching on a miss.
// Mutating calls invalidate the affected keys.
func (c *Client) cached(ctx context.Context, key, path string, out any) error {
	c.mu.Lock()
	raw, ok := c.cache[key]
	c.mu.Unlock()
	if ok {
		return json.Unmarshal(raw, out)
	}

	raw, err := c.doRaw(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response from %s: %w", path, err)
	}

	c.mu.Lock()
	c.cache[key] = raw
	c.mu.Unlock()
	return nil
}

func (c *Client) invalidate(key string) {
	c.mu.Lock()
	delete(c.cache, key)
	c.mu.Unlock()
}

func (c *Client) invalidatePrefix(prefix string) {
	c.mu.Lock()
	for key := range c.cache {
		if strings.HasPrefix(key, prefix) {
			delete(c.cache, key)
		}
	}
	c.mu.Unlock()
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	raw, err := c.doRaw(ctx, method, path, body)
	if err != nil {
		return err
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response from %s: %w", path, err)
	}
	return nil
}

func (c *Client) doRaw(ctx context.Context, method, path string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		message := strings.TrimSpace(string(raw))
		var envelope struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Message != "" {
			message = envelope.Message
		}
		return nil, &APIError{Status: res.StatusCode, Message: message}
	}
	return raw, nil
}
