package transcriber

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"examscribe/internal/services"
)

const sampleVTT = `WEBVTT

00:00:00.000 --> 00:00:02.500
Please read the top line.
`

func writeSegment(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chunk_000.wav")
	if err := os.WriteFile(path, []byte("RIFFfake"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func noSleep(t *testing.T, waits *[]time.Duration) func(context.Context, time.Duration) error {
	t.Helper()
	return func(_ context.Context, d time.Duration) error {
		if waits != nil {
			*waits = append(*waits, d)
		}
		return nil
	}
}

func newTestClient(t *testing.T, url string, policy Policy) *Client {
	t.Helper()
	client, err := New(Config{APIKey: "key", BaseURL: url, Model: "whisper-1", Language: "en"}, policy, nil)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestTranscribeSuccess(t *testing.T) {
	var gotAuth, gotFormat string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		gotFormat = r.FormValue("response_format")
		w.Write([]byte(sampleVTT)) //nolint:errcheck
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, Policy{Sleep: noSleep(t, nil)})
	text, err := client.Transcribe(context.Background(), writeSegment(t))
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	if text != sampleVTT {
		t.Fatalf("unexpected transcript %q", text)
	}
	if gotAuth != "Bearer key" {
		t.Fatalf("unexpected auth header %q", gotAuth)
	}
	if gotFormat != "vtt" {
		t.Fatalf("expected vtt response format, got %q", gotFormat)
	}
}

func TestTranscribeRetriesOnRateLimit(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts <= 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(sampleVTT)) //nolint:errcheck
	}))
	defer server.Close()

	var waits []time.Duration
	client := newTestClient(t, server.URL, Policy{Sleep: noSleep(t, &waits)})
	text, err := client.Transcribe(context.Background(), writeSegment(t))
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	if text != sampleVTT {
		t.Fatalf("unexpected transcript %q", text)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
	want := []time.Duration{5 * time.Second, 10 * time.Second}
	if len(waits) != len(want) {
		t.Fatalf("expected %d waits, got %v", len(want), waits)
	}
	for i := range want {
		if waits[i] != want[i] {
			t.Fatalf("wait %d = %v, want %v", i, waits[i], want[i])
		}
	}
}

func TestTranscribeExhaustsRetries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	var waits []time.Duration
	client := newTestClient(t, server.URL, Policy{MaxRetries: 5, Sleep: noSleep(t, &waits)})
	_, err := client.Transcribe(context.Background(), writeSegment(t))
	if !errors.Is(err, services.ErrMaxRetries) {
		t.Fatalf("expected max retries error, got %v", err)
	}
	want := []time.Duration{5 * time.Second, 10 * time.Second, 20 * time.Second, 40 * time.Second, 80 * time.Second}
	if len(waits) != len(want) {
		t.Fatalf("expected %d waits, got %v", len(want), waits)
	}
	for i := range want {
		if waits[i] != want[i] {
			t.Fatalf("wait %d = %v, want %v", i, waits[i], want[i])
		}
	}
}

func TestTranscribeServiceErrorIsTerminal(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		http.Error(w, `{"error": "invalid file"}`, http.StatusBadRequest)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, Policy{Sleep: noSleep(t, nil)})
	_, err := client.Transcribe(context.Background(), writeSegment(t))
	if !errors.Is(err, services.ErrService) {
		t.Fatalf("expected service error, got %v", err)
	}
	if errors.Is(err, services.ErrRateLimited) {
		t.Fatalf("service error must not classify as rate limit: %v", err)
	}
	if attempts != 1 {
		t.Fatalf("expected a single attempt, got %d", attempts)
	}
}

func TestDefaultBackoffSeries(t *testing.T) {
	want := []time.Duration{5 * time.Second, 10 * time.Second, 20 * time.Second, 40 * time.Second, 80 * time.Second}
	for attempt, expected := range want {
		if got := DefaultBackoff(attempt); got != expected {
			t.Fatalf("DefaultBackoff(%d) = %v, want %v", attempt, got, expected)
		}
	}
}

func TestSleepWithContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := SleepWithContext(ctx, time.Minute); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
	if err := SleepWithContext(context.Background(), 0); err != nil {
		t.Fatalf("zero sleep should return immediately, got %v", err)
	}
}

func TestNewRequiresCredentials(t *testing.T) {
	if _, err := New(Config{BaseURL: "https://x", Model: "m"}, Policy{}, nil); err == nil {
		t.Fatal("expected error for missing api key")
	}
	if _, err := New(Config{APIKey: "k", Model: "m"}, Policy{}, nil); err == nil {
		t.Fatal("expected error for missing base url")
	}
	if _, err := New(Config{APIKey: "k", BaseURL: "https://x"}, Policy{}, nil); err == nil {
		t.Fatal("expected error for missing model")
	}
}
