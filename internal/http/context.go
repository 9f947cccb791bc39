package http

import "context"

type contextKey string

const (
	calendarIDContextKey contextKey = "calendar_id"
	userNumContextKey    contextKey = "user_num"
	eventIDContextKey    contextKey = "event_id"
	postNumContextKey    contextKey = "post_num"
	requestIDContextKey  contextKey = "request_id"
	shareIDContextKey    contextKey = "share_id"
)

// ContextWithCalendarID injects the calendar identifier resolved from the request path.
func ContextWithCalendarID(ctx context.Context, calendarID string) context.Context {
	return context.WithValue(ctx, calendarIDContextKey, calendarID)
}

// CalendarIDFromContext extracts a calendar identifier previously associated with the context.
func CalendarIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(calendarIDContextKey).(string)
	return id, ok
}

// ContextWithUserNum injects the user identifier resolved from the request path.
func ContextWithUserNum(ctx context.Context, userNum string) context.Context {
	return context.WithValue(ctx, userNumContextKey, userNum)
}

// UserNumFromContext extracts a user identifier previously associated with the context.
func UserNumFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userNumContextKey).(string)
	return id, ok
}

// ContextWithEventID injects the event identifier resolved from the request path.
func ContextWithEventID(ctx context.Context, eventID string) context.Context {
	return context.WithValue(ctx, eventIDContextKey, eventID)
}

// EventIDFromContext extracts an event identifier previously associated with the context.
func EventIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(eventIDContextKey).(string)
	return id, ok
}

// ContextWithPostNum injects the post identifier resolved from the request path.
func ContextWithPostNum(ctx context.Context, postNum string) context.Context {
	return context.WithValue(ctx, postNumContextKey, postNum)
}

// PostNumFromContext extracts a post identifier previously associated with the context.
func PostNumFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(postNumContextKey).(string)
	return id, ok
}

// ContextWithRequestID injects the friend request identifier resolved from the request path.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDContextKey, requestID)
}

// RequestIDFromContext extracts a friend request identifier previously associated with the context.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDContextKey).(string)
	return id, ok
}

// ContextWithShareID injects the invitation identifier resolved from the request path.
func ContextWithShareID(ctx context.Context, shareID string) context.Context {
	return context.WithValue(ctx, shareIDContextKey, shareID)
}

// ShareIDFromContext extracts an invitation identifier previously associated with the context.
func ShareIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(shareIDContextKey).(string)
	return id, ok
}
