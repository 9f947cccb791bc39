package application

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/example/antcal/internal/persistence"
)

const previewDateLayout = "2006-01-02"

// suggestionBucket pairs a suggestion title with its fixed display color.
type suggestionBucket struct {
	title string
	color string
}

var scheduleBuckets = []suggestionBucket{
	{title: "급한 일정", color: "#ADD8E6"},
	{title: "중요한 일정", color: "#ffc0cb"},
	{title: "루틴 일정", color: "#28a745"},
}

var weatherBucket = suggestionBucket{title: "오늘의 날씨 정보", color: "#87CEFA"}

var weatherComments = []string{
	"오늘은 야외 일정을 잡기 좋은 날씨예요. 산책 어떠세요?",
	"일교차가 큰 날이에요. 외출 일정에 겉옷을 챙기세요.",
	"비 소식이 있어요. 실내 일정을 추천드려요.",
}

// AssistantService produces calendar event suggestions from the user's
// upcoming schedule. Comment generation is canned; there is no real NLP
// behind it.
type AssistantService struct {
	store  persistence.Store
	now    func() time.Time
	intn   func(n int) int
	logger *slog.Logger
}

// NewAssistantService wires dependencies for the assistant service. The intn
// source is injectable so tests can pin the suggestion.
func NewAssistantService(store persistence.Store, now func() time.Time, intn func(n int) int, logger *slog.Logger) *AssistantService {
	if now == nil {
		now = time.Now
	}
	if intn == nil {
		intn = rand.Intn
	}
	return &AssistantService{store: store, now: now, intn: intn, logger: defaultLogger(logger)}
}

func (s *AssistantService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "AssistantService", operation, attrs...)
}

// PreviewEvent suggests an event for the coming week. When the user has
// events within the next three days the suggestion classifies the load into
// one of the schedule buckets; otherwise it falls back to a weather note.
func (s *AssistantService) PreviewEvent(ctx context.Context, params PreviewParams) (suggestion EventSuggestion, err error) {
	if s == nil || s.store == nil {
		return EventSuggestion{}, fmt.Errorf("assistant service not configured")
	}

	logger := s.loggerWith(ctx, "PreviewEvent", "user_num", params.UserNum, "calendar_id", params.CalendarID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "preview failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("title", suggestion.Title).InfoContext(ctx, "preview produced")
	}()

	vErr := &ValidationError{}
	vErr.requireFields(map[string]string{
		"user_num":    params.UserNum,
		"calendar_id": params.CalendarID,
	})
	if vErr.HasErrors() {
		err = vErr
		return
	}

	var state persistence.State
	state, err = s.store.Load(ctx)
	if err != nil {
		return
	}

	today := s.now()
	upcoming := upcomingEvents(state.Events, params.UserNum, today)

	var bucket suggestionBucket
	var content string
	if len(upcoming) > 0 {
		bucket = scheduleBuckets[s.intn(len(scheduleBuckets))]
		content = scheduleComment(upcoming)
	} else {
		bucket = weatherBucket
		content = weatherComments[s.intn(len(weatherComments))]
	}

	// A slot somewhere in the coming week, today included.
	day := today.AddDate(0, 0, s.intn(7))
	date := day.Format(previewDateLayout)

	suggestion = EventSuggestion{
		CalendarID: params.CalendarID,
		UserNum:    params.UserNum,
		Title:      bucket.title,
		Content:    content,
		StartDate:  date,
		EndDate:    date,
		StartTime:  "09:00",
		EndTime:    "09:30",
		Color:      bucket.color,
	}
	return
}

// upcomingEvents filters the user's events starting within three days of now.
// Events with unparseable dates are skipped.
func upcomingEvents(events []persistence.Event, userNum string, now time.Time) []persistence.Event {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	horizon := dayStart.AddDate(0, 0, 3)

	upcoming := make([]persistence.Event, 0)
	for _, event := range events {
		if event.UserNum != userNum {
			continue
		}
		start, err := time.ParseInLocation(previewDateLayout, event.StartDate, now.Location())
		if err != nil {
			continue
		}
		if start.Before(dayStart) || start.After(horizon) {
			continue
		}
		upcoming = append(upcoming, event)
	}
	return upcoming
}

func scheduleComment(upcoming []persistence.Event) string {
	titles := make([]string, 0, 3)
	for _, event := range upcoming {
		if len(titles) == 3 {
			break
		}
		titles = append(titles, event.Title)
	}
	return fmt.Sprintf("앞으로 3일간 %d개의 일정이 있어요: %s. 잊지 않도록 미리 준비해두세요!",
		len(upcoming), strings.Join(titles, ", "))
}
