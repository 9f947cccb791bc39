package http

import (
	"net/http"
	"strings"
)

type RouterConfig struct {
	Auth       *AuthHandler
	Calendars  *CalendarHandler
	Events     *EventHandler
	Community  *CommunityHandler
	Assistant  *AssistantHandler
	Social     *SocialHandler
	Middleware []func(http.Handler) http.Handler
}

func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()
	resp := newResponder(nil)

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			methodNotAllowed(w, http.MethodGet)
			return
		}
		resp.writeJSON(r.Context(), w, http.StatusOK, healthResponse{Status: "healthy"})
	})
	mux.HandleFunc("/test", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			methodNotAllowed(w, http.MethodGet)
			return
		}
		resp.writeMessage(r.Context(), w, http.StatusOK, msgTestOK)
	})

	if cfg.Auth != nil {
		mux.HandleFunc("/register", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Auth.Register(w, r)
		})
		mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Auth.Login(w, r)
		})
		mux.HandleFunc("/logout", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Auth.Logout(w, r)
		})
	}

	if cfg.Calendars != nil {
		mux.HandleFunc("/api/calendars", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Calendars.Create(w, r)
		})
		mux.HandleFunc("/api/calendars/", func(w http.ResponseWriter, r *http.Request) {
			segments := pathSegments(r.URL.Path, "/api/calendars/")
			switch {
			case len(segments) == 1 && segments[0] == "invite" && cfg.Social != nil:
				if r.Method != http.MethodPost {
					methodNotAllowed(w, http.MethodPost)
					return
				}
				cfg.Social.Invite(w, r)
			case len(segments) == 1:
				switch r.Method {
				case http.MethodGet:
					ctx := ContextWithUserNum(r.Context(), segments[0])
					cfg.Calendars.ListByUser(w, r.WithContext(ctx))
				case http.MethodDelete:
					ctx := ContextWithCalendarID(r.Context(), segments[0])
					cfg.Calendars.Delete(w, r.WithContext(ctx))
				default:
					methodNotAllowed(w, http.MethodGet, http.MethodDelete)
				}
			case len(segments) == 2 && segments[1] == "posts" && cfg.Community != nil:
				if r.Method != http.MethodGet {
					methodNotAllowed(w, http.MethodGet)
					return
				}
				ctx := ContextWithCalendarID(r.Context(), segments[0])
				cfg.Community.ListPosts(w, r.WithContext(ctx))
			case len(segments) == 3 && segments[2] == "ics":
				if r.Method != http.MethodGet {
					methodNotAllowed(w, http.MethodGet)
					return
				}
				ctx := ContextWithCalendarID(r.Context(), segments[0])
				ctx = ContextWithUserNum(ctx, segments[1])
				cfg.Calendars.ExportICS(w, r.WithContext(ctx))
			default:
				http.NotFound(w, r)
			}
		})
	}

	if cfg.Events != nil {
		mux.HandleFunc("/api/events", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Events.Create(w, r)
		})
		mux.HandleFunc("/api/events/", func(w http.ResponseWriter, r *http.Request) {
			segments := pathSegments(r.URL.Path, "/api/events/")
			switch {
			case len(segments) == 1:
				if r.Method != http.MethodDelete {
					methodNotAllowed(w, http.MethodDelete)
					return
				}
				ctx := ContextWithEventID(r.Context(), segments[0])
				cfg.Events.Delete(w, r.WithContext(ctx))
			case len(segments) == 2:
				if r.Method != http.MethodGet {
					methodNotAllowed(w, http.MethodGet)
					return
				}
				ctx := ContextWithCalendarID(r.Context(), segments[0])
				ctx = ContextWithUserNum(ctx, segments[1])
				cfg.Events.ListByCalendar(w, r.WithContext(ctx))
			default:
				http.NotFound(w, r)
			}
		})
		mux.HandleFunc("/api/user/", func(w http.ResponseWriter, r *http.Request) {
			segments := pathSegments(r.URL.Path, "/api/user/")
			if len(segments) != 2 || segments[1] != "events" {
				http.NotFound(w, r)
				return
			}
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			ctx := ContextWithUserNum(r.Context(), segments[0])
			cfg.Events.ListByUser(w, r.WithContext(ctx))
		})
	}

	if cfg.Community != nil {
		mux.HandleFunc("/api/posts", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Community.CreatePost(w, r)
		})
		mux.HandleFunc("/api/posts/", func(w http.ResponseWriter, r *http.Request) {
			segments := pathSegments(r.URL.Path, "/api/posts/")
			if len(segments) != 2 || segments[1] != "comments" {
				http.NotFound(w, r)
				return
			}
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			ctx := ContextWithPostNum(r.Context(), segments[0])
			cfg.Community.ListComments(w, r.WithContext(ctx))
		})
		mux.HandleFunc("/api/comments", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Community.CreateComment(w, r)
		})
	}

	if cfg.Social != nil {
		mux.HandleFunc("/api/friends/request", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Social.SendFriendRequest(w, r)
		})
		mux.HandleFunc("/api/friends/request/", func(w http.ResponseWriter, r *http.Request) {
			segments := pathSegments(r.URL.Path, "/api/friends/request/")
			if len(segments) != 1 {
				http.NotFound(w, r)
				return
			}
			if r.Method != http.MethodPut {
				methodNotAllowed(w, http.MethodPut)
				return
			}
			ctx := ContextWithRequestID(r.Context(), segments[0])
			cfg.Social.RespondFriendRequest(w, r.WithContext(ctx))
		})
		mux.HandleFunc("/api/users/", func(w http.ResponseWriter, r *http.Request) {
			segments := pathSegments(r.URL.Path, "/api/users/")
			if len(segments) != 2 {
				http.NotFound(w, r)
				return
			}
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			ctx := ContextWithUserNum(r.Context(), segments[0])
			switch segments[1] {
			case "friends":
				cfg.Social.ListFriends(w, r.WithContext(ctx))
			case "invitations":
				cfg.Social.ListInvitations(w, r.WithContext(ctx))
			default:
				http.NotFound(w, r)
			}
		})
		mux.HandleFunc("/api/invitations/", func(w http.ResponseWriter, r *http.Request) {
			segments := pathSegments(r.URL.Path, "/api/invitations/")
			if len(segments) != 1 {
				http.NotFound(w, r)
				return
			}
			if r.Method != http.MethodPut {
				methodNotAllowed(w, http.MethodPut)
				return
			}
			ctx := ContextWithShareID(r.Context(), segments[0])
			cfg.Social.RespondInvitation(w, r.WithContext(ctx))
		})
		mux.HandleFunc("/api/notifications", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Social.ListNotifications(w, r)
		})
		mux.HandleFunc("/api/notifications/respond", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Social.RespondNotification(w, r)
		})
	}

	if cfg.Assistant != nil {
		mux.HandleFunc("/api/ai-assistant/preview-event", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Assistant.PreviewEvent(w, r)
		})
	}

	var handler http.Handler = mux
	if len(cfg.Middleware) > 0 {
		for i := len(cfg.Middleware) - 1; i >= 0; i-- {
			if cfg.Middleware[i] != nil {
				handler = cfg.Middleware[i](handler)
			}
		}
	}

	return handler
}

type healthResponse struct {
	Status string `json:"status"`
}

// pathSegments splits the remainder of the path after prefix, dropping empty
// segments so trailing slashes do not change the route.
func pathSegments(path, prefix string) []string {
	rest := strings.TrimPrefix(path, prefix)
	parts := strings.Split(rest, "/")
	segments := parts[:0]
	for _, part := range parts {
		if part != "" {
			segments = append(segments, part)
		}
	}
	return segments
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	if len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
	}
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}
