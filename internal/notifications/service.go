package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"examscribe/internal/config"
)

const userAgent = "examscribe/0.1.0"

// Service defines the notification surface exposed to the pipeline.
type Service interface {
	NotifyStarted(ctx context.Context, source string, segments int) error
	NotifyCompleted(ctx context.Context, source, outputPath string, skippedSegments int) error
	NotifyFailed(ctx context.Context, source string, err error) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}
	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) NotifyStarted(ctx context.Context, source string, segments int) error {
	return n.send(ctx, payload{
		title:   "examscribe - Transcribing",
		message: fmt.Sprintf("Transcribing %s (%d segments)", source, segments),
		tags:    []string{"examscribe", "started"},
	})
}

func (n *ntfyService) NotifyCompleted(ctx context.Context, source, outputPath string, skippedSegments int) error {
	message := fmt.Sprintf("Transcript ready: %s", outputPath)
	if skippedSegments > 0 {
		message = fmt.Sprintf("%s (%d segments skipped)", message, skippedSegments)
	}
	return n.send(ctx, payload{
		title:   "examscribe - Completed",
		message: message,
		tags:    []string{"examscribe", "completed"},
	})
}

func (n *ntfyService) NotifyFailed(ctx context.Context, source string, err error) error {
	return n.send(ctx, payload{
		title:    "examscribe - Failed",
		message:  fmt.Sprintf("Transcription of %s failed: %v", source, err),
		tags:     []string{"examscribe", "failed"},
		priority: "high",
	})
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	return n.send(ctx, payload{
		title:   "examscribe - Test",
		message: "Notifications are configured correctly.",
		tags:    []string{"examscribe", "test"},
	})
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}

type noopService struct{}

func (noopService) NotifyStarted(context.Context, string, int) error { return nil }

func (noopService) NotifyCompleted(context.Context, string, string, int) error { return nil }

func (noopService) NotifyFailed(context.Context, string, error) error { return nil }

func (noopService) TestNotification(context.Context) error { return nil }
