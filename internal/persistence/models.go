package persistence

// User represents a registered account. The Password field holds the bcrypt
// hash of the credential, never the plaintext value.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
	Phone    string `json:"phone"`
}

// Calendar represents a named, colored grouping of events owned by one user.
type Calendar struct {
	ID      string `json:"calendar_id"`
	Name    string `json:"calendar_name"`
	Purpose string `json:"calendar_purpose"`
	Color   string `json:"calendar_color"`
	UserNum string `json:"user_num"`
}

// Event represents a titled time interval attached to a calendar. Dates use
// YYYY-MM-DD and times use HH:MM; both are stored as the caller supplied them.
type Event struct {
	ID         string `json:"event_id"`
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

// Post represents a community post attached to a calendar.
type Post struct {
	ID          string `json:"post_num"`
	UserID      string `json:"user_id"`
	CalendarNum string `json:"calendar_num"`
	Title       string `json:"post_title"`
	Content     string `json:"post_content"`
	CreatedAt   string `json:"created_at"`
}

// Comment represents a reply to a community post.
type Comment struct {
	ID        string `json:"comment_num"`
	UserID    string `json:"user_id"`
	PostNum   string `json:"post_num"`
	Content   string `json:"comment_content"`
	CreatedAt string `json:"created_at"`
}

// Friend represents one friendship edge. A pending edge is an open request
// from UserID to FriendID; an accepted edge counts for both directions.
type Friend struct {
	ID       string `json:"id"`
	UserID   string `json:"user_id"`
	FriendID string `json:"friend_id"`
	Status   string `json:"status"`
}

// CalendarShare represents an invitation to join a calendar, from a pending
// request through its accepted or declined resolution.
type CalendarShare struct {
	ID         string `json:"share_id"`
	CalendarID string `json:"calendar_id"`
	InviterID  string `json:"inviter_id"`
	InviteeID  string `json:"invitee_id"`
	Role       string `json:"role"`
	Status     string `json:"status"`
	CreatedAt  string `json:"created_at"`
}

// State is the whole persisted document. Every collection keeps insertion
// order; there are no indexes and no per-record access paths.
type State struct {
	Users     []User          `json:"users"`
	Calendars []Calendar      `json:"calendars"`
	Events    []Event         `json:"events"`
	Posts     []Post          `json:"posts"`
	Comments  []Comment       `json:"comments"`
	Friends   []Friend        `json:"friends"`
	Shares    []CalendarShare `json:"calendar_shares"`
}

// Normalize replaces nil collections with empty slices so the serialized
// document always contains every key.
func (s *State) Normalize() {
	if s.Users == nil {
		s.Users = []User{}
	}
	if s.Calendars == nil {
		s.Calendars = []Calendar{}
	}
	if s.Events == nil {
		s.Events = []Event{}
	}
	if s.Posts == nil {
		s.Posts = []Post{}
	}
	if s.Comments == nil {
		s.Comments = []Comment{}
	}
	if s.Friends == nil {
		s.Friends = []Friend{}
	}
	if s.Shares == nil {
		s.Shares = []CalendarShare{}
	}
}
