package application

// RegisterParams captures the fields required to create an account.
type RegisterParams struct {
	Email    string
	Password string
	Username string
	Phone    string
}

// LoginParams captures the credentials presented at login.
type LoginParams struct {
	Email    string
	Password string
}

// UserProfile is the reduced user projection returned after login. It never
// carries the password or its hash.
type UserProfile struct {
	ID       string
	Email    string
	Username string
	Phone    string
}

// CalendarInput captures caller provided calendar fields.
type CalendarInput struct {
	Name    string
	Purpose string
	Color   string
	UserNum string
}

// EventInput captures caller provided event fields. Content, times, and color
// are optional; the caller supplies defaults when it wants them.
type EventInput struct {
	Title      string
	Content    string
	StartDate  string
	EndDate    string
	StartTime  string
	EndTime    string
	Color      string
	CalendarID string
	UserNum    string
}

// PostInput captures caller provided community post fields.
type PostInput struct {
	UserID      string
	CalendarNum string
	Title       string
	Content     string
}

// CommentInput captures caller provided comment fields.
type CommentInput struct {
	UserID  string
	PostNum string
	Content string
}

// PostView is a post joined with its author's username for display.
type PostView struct {
	ID          string
	UserID      string
	UserName    string
	CalendarNum string
	Title       string
	Content     string
	CreatedAt   string
}

// CommentView is a comment joined with its author's username for display.
type CommentView struct {
	ID        string
	UserID    string
	UserName  string
	PostNum   string
	Content   string
	CreatedAt string
}

// FriendRequestInput captures the two sides of a new friend request.
type FriendRequestInput struct {
	UserID   string
	FriendID string
}

// InviteInput captures the fields of a calendar invitation. The invitee is
// addressed by email and resolved to a user at invite time.
type InviteInput struct {
	CalendarID   string
	InviterID    string
	InviteeEmail string
	Role         string
}

// InvitationView is a pending calendar share joined with the calendar's name
// and the inviter's username for display.
type InvitationView struct {
	ShareID      string
	CalendarID   string
	CalendarName string
	InviterName  string
	Role         string
	CreatedAt    string
}

// PreviewParams identifies the user and calendar an event suggestion is for.
type PreviewParams struct {
	UserNum    string
	CalendarID string
}

// EventSuggestion is the schedule-suggestion payload produced by the
// assistant. Its shape matches the event creation body so the client can
// submit it unchanged.
type EventSuggestion struct {
	CalendarID string
	UserNum    string
	Title      string
	Content    string
	StartDate  string
	EndDate    string
	StartTime  string
	EndTime    string
	Color      string
}
