package transcriber

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"examscribe/internal/logging"
	"examscribe/internal/services"
)

const (
	defaultHTTPTimeout = 120 * time.Second
	// responseFormat asks the service for subtitle-formatted text directly.
	responseFormat = "vtt"
	maxErrorBody   = 2048
)

// Config describes the transcription client configuration.
type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	Language   string
	HTTPClient *http.Client
}

// Client uploads audio segments to an OpenAI-compatible speech-to-text
// endpoint and returns WEBVTT subtitle text.
type Client struct {
	apiKey   string
	baseURL  string
	model    string
	language string
	http     *http.Client
	policy   Policy
	logger   *slog.Logger
}

// New creates a Client from the supplied configuration and retry policy.
func New(cfg Config, policy Policy, logger *slog.Logger) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("transcriber: api key is required")
	}
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errors.New("transcriber: base url is required")
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		return nil, errors.New("transcriber: model is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &Client{
		apiKey:   apiKey,
		baseURL:  base,
		model:    model,
		language: strings.TrimSpace(cfg.Language),
		http:     httpClient,
		policy:   policy.normalized(),
		logger:   logging.WithComponent(logger, "transcriber"),
	}, nil
}

// Transcribe uploads one segment, retrying with exponential backoff while the
// service answers with a rate limit. Any other service failure surfaces
// immediately; exhausting every attempt yields a max-retries error.
func (c *Client) Transcribe(ctx context.Context, path string) (string, error) {
	policy := c.policy
	for attempt := 0; attempt < policy.MaxRetries; attempt++ {
		text, err := c.transcribeOnce(ctx, path)
		if err == nil {
			return text, nil
		}
		if !errors.Is(err, services.ErrRateLimited) {
			return "", err
		}
		backoff := policy.Backoff(attempt)
		if c.logger != nil {
			c.logger.Warn("rate limited, backing off",
				logging.String("segment", filepath.Base(path)),
				logging.Int("attempt", attempt+1),
				logging.Int("max_attempts", policy.MaxRetries),
				logging.Duration("backoff", backoff))
		}
		if err := policy.Sleep(ctx, backoff); err != nil {
			return "", err
		}
	}
	return "", services.Wrap(services.ErrMaxRetries, "transcriber", "upload",
		fmt.Sprintf("gave up after %d rate-limited attempts", policy.MaxRetries), nil)
}

func (c *Client) transcribeOnce(ctx context.Context, path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", services.Wrap(services.ErrService, "transcriber", "open segment", "", err)
	}
	defer file.Close()

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	if err := form.WriteField("model", c.model); err != nil {
		return "", fmt.Errorf("write model field: %w", err)
	}
	if err := form.WriteField("response_format", responseFormat); err != nil {
		return "", fmt.Errorf("write response_format field: %w", err)
	}
	if c.language != "" {
		if err := form.WriteField("language", c.language); err != nil {
			return "", fmt.Errorf("write language field: %w", err)
		}
	}
	part, err := form.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return "", fmt.Errorf("create file part: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", fmt.Errorf("copy segment payload: %w", err)
	}
	if err := form.Close(); err != nil {
		return "", fmt.Errorf("finalize form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/audio/transcriptions", &body)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return "", services.Wrap(services.ErrService, "transcriber", "upload", "", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody)) //nolint:errcheck
		return "", services.Wrap(services.ErrRateLimited, "transcriber", "upload", "service rejected with 429", nil)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", services.Wrap(services.ErrService, "transcriber", "upload",
			fmt.Sprintf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(detail))), nil)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", services.Wrap(services.ErrService, "transcriber", "read response", "", err)
	}
	return string(payload), nil
}
