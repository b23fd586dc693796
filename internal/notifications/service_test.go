package notifications

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"examscribe/internal/config"
)

func TestNoopWhenUnconfigured(t *testing.T) {
	cfg := config.Default()
	svc := NewService(&cfg)
	if _, ok := svc.(noopService); !ok {
		t.Fatalf("expected noop service without topic, got %T", svc)
	}
	if err := svc.NotifyStarted(context.Background(), "exam.mp4", 3); err != nil {
		t.Fatalf("noop should never fail, got %v", err)
	}
}

func TestNtfySendsHeadersAndBody(t *testing.T) {
	var gotTitle, gotTags, gotBody, gotPriority string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTitle = r.Header.Get("Title")
		gotTags = r.Header.Get("Tags")
		gotPriority = r.Header.Get("Priority")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	svc := NewService(&cfg)

	if err := svc.NotifyFailed(context.Background(), "exam.mp4", context.DeadlineExceeded); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if gotTitle != "examscribe - Failed" {
		t.Fatalf("unexpected title %q", gotTitle)
	}
	if !strings.Contains(gotTags, "failed") {
		t.Fatalf("unexpected tags %q", gotTags)
	}
	if gotPriority != "high" {
		t.Fatalf("expected high priority for failures, got %q", gotPriority)
	}
	if !strings.Contains(gotBody, "exam.mp4") {
		t.Fatalf("unexpected body %q", gotBody)
	}
}

func TestNtfyReportsServerErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	svc := NewService(&cfg)

	if err := svc.TestNotification(context.Background()); err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}
