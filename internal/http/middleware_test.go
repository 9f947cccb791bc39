package http

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/example/antcal/internal/logging"
)

func TestRequestLogger(t *testing.T) {
	t.Parallel()

	t.Run("attaches a request logger to the context", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		base := slog.New(slog.NewJSONHandler(&buf, nil))

		var sawLogger bool
		handler := RequestLogger(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sawLogger = logging.FromContext(r.Context()) != nil
			w.WriteHeader(http.StatusOK)
		}))

		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))

		if recorder.Code != http.StatusOK {
			t.Fatalf("unexpected status %d", recorder.Code)
		}
		if !sawLogger {
			t.Fatal("expected context logger inside the handler")
		}
		output := buf.String()
		if !strings.Contains(output, "request started") || !strings.Contains(output, "request completed") {
			t.Fatalf("expected lifecycle log lines, got:\n%s", output)
		}
		if !strings.Contains(output, `"path":"/health"`) {
			t.Fatalf("expected request path in log output, got:\n%s", output)
		}
	})

	t.Run("assigns increasing request identifiers", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		base := slog.New(slog.NewJSONHandler(&buf, nil))
		handler := RequestLogger(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		for i := 0; i < 2; i++ {
			handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		}

		output := buf.String()
		if !strings.Contains(output, `"request_id":1`) || !strings.Contains(output, `"request_id":2`) {
			t.Fatalf("expected sequential request identifiers, got:\n%s", output)
		}
	})
}

func TestCORS(t *testing.T) {
	t.Parallel()

	handler := CORS()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/calendars", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)

	if got := recorder.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("unexpected allow origin %q", got)
	}
	if got := recorder.Header().Get("Access-Control-Allow-Methods"); got != http.MethodPost {
		t.Fatalf("unexpected allow methods %q", got)
	}
}
