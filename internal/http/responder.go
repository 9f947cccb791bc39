package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/example/antcal/internal/logging"
)

// Korean API messages carried over from the original service. Clients match
// on them verbatim, so they are fixed strings rather than templates.
const (
	msgServerError      = "서버 오류가 발생했습니다."
	msgRegisterMissing  = "모든 필드를 입력해주세요."
	msgRegisterConflict = "이미 가입된 이메일입니다."
	msgRegisterOK       = "가입 성공"
	msgLoginMissing     = "이메일과 비밀번호를 모두 입력해주세요."
	msgUnknownEmail     = "존재하지 않는 이메일입니다."
	msgWrongPassword    = "비밀번호가 일치하지 않습니다."
	msgLoginOK          = "로그인 성공"
	msgLogoutOK         = "로그아웃 성공"
	msgCalendarMissing  = "모든 필드를 입력해주세요."
	msgCalendarCreated  = "캘린더 생성 성공"
	msgCalendarListed   = "캘린더 조회 성공"
	msgCalendarDeleted  = "캘린더 삭제 성공"
	msgCalendarNotFound = "캘린더를 찾을 수 없습니다."
	msgEventMissing     = "필수 필드를 모두 입력해주세요."
	msgEventCreated     = "이벤트 생성 성공"
	msgEventListed      = "이벤트 조회 성공"
	msgUserEventsListed = "사용자 전체 이벤트 조회 성공"
	msgEventDeleted     = "이벤트 삭제 성공"
	msgEventNotFound    = "이벤트를 찾을 수 없습니다."
	msgPostMissing      = "Missing required fields"
	msgPostCreated      = "Post created successfully"
	msgCommentCreated   = "Comment created successfully"
	msgPreviewMissing   = "user_num and calendar_id are required"
	msgTestOK           = "API connection successful!"

	msgFriendRequestMissing  = "user_id and friend_id are required"
	msgFriendRequestSent     = "Friend request sent"
	msgFriendStatusInvalid   = "A valid status (accepted, declined) is required"
	msgFriendRequestNotFound = "Request not found"
	msgInviteMissing         = "Missing required fields"
	msgInviteeNotFound       = "User with that email not found"
	msgAlreadyInvited        = "User already invited to this calendar"
	msgInviteSent            = "Invitation sent successfully"
	msgInvitationNotFound    = "Invitation not found"
	msgNotifyUserRequired    = "user_num query parameter is required"
	msgNotifyRespondMissing  = "share_id and a valid status (accepted, declined) are required"
	msgNotifyNotFound        = "Notification not found or already responded"
)

type responder struct {
	logger *slog.Logger
}

func newResponder(logger *slog.Logger) responder {
	if logger == nil {
		logger = slog.Default()
	}
	return responder{logger: logger}
}

func (r responder) writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}

	if status == http.StatusNoContent || payload == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		r.loggerFor(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

// writeMessage emits the `{"message": ...}` envelope every error response and
// most success responses use.
func (r responder) writeMessage(ctx context.Context, w http.ResponseWriter, status int, message string) {
	r.writeJSON(ctx, w, status, messageResponse{Message: message})
}

// internalError logs the failure and answers with the fixed 500 message.
func (r responder) internalError(ctx context.Context, w http.ResponseWriter, err error) {
	if err != nil {
		r.loggerFor(ctx).ErrorContext(ctx, "request failed", "error", err)
	}
	r.writeMessage(ctx, w, http.StatusInternalServerError, msgServerError)
}

func (r responder) loggerFor(ctx context.Context) *slog.Logger {
	if logger := logging.FromContext(ctx); logger != nil {
		return logger
	}
	return r.logger
}

type messageResponse struct {
	Message string `json:"message"`
}
