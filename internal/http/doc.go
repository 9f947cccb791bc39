// Package http provides HTTP handlers and middleware for the calendar API.
//
// The router exposes the following endpoints:
//   - POST /register, POST /login, POST /logout: account endpoints. Responses
//     carry the fixed Korean status messages the web frontend matches on;
//     login additionally returns the user projection defined in
//     auth_handler.go (never the password hash).
//   - GET /health, GET /test: liveness and connectivity checks.
//   - POST /api/calendars, GET /api/calendars/{userNum},
//     DELETE /api/calendars/{calendarId}: calendar management. Deleting a
//     calendar does not remove its events; the client cascades.
//   - GET /api/calendars/{calendarId}/{userNum}/ics: iCalendar export of the
//     calendar's events for import into external calendar apps.
//   - POST /api/events, GET /api/events/{calendarId}/{userNum},
//     GET /api/user/{userNum}/events, DELETE /api/events/{eventId}: event
//     management scoped to a calendar and its owner.
//   - POST /api/posts, GET /api/calendars/{calendarNum}/posts,
//     POST /api/comments, GET /api/posts/{postNum}/comments: community posts
//     and comments. List responses are bare JSON arrays with the author's
//     username joined in.
//   - POST /api/friends/request, PUT /api/friends/request/{requestId},
//     GET /api/users/{userNum}/friends: friend requests and the accepted
//     friends list. Friend listings are bare arrays of user projections.
//   - POST /api/calendars/invite, GET /api/users/{userNum}/invitations,
//     PUT /api/invitations/{shareId}: calendar invitations addressed by
//     invitee email and resolved to pending shares.
//   - GET /api/notifications?user_num={userNum},
//     POST /api/notifications/respond: the pending-invitation feed, newest
//     first, and its accept/decline endpoint.
//   - POST /api/ai-assistant/preview-event: produces an event suggestion from
//     the user's upcoming schedule without persisting anything.
//
// Request/response DTOs live alongside their respective handlers so tests and
// documentation share the same ground truth.
package http
