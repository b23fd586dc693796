package transcriber

import (
	"context"
	"time"
)

const (
	// DefaultMaxRetries bounds the attempts per segment on rate-limit rejections.
	DefaultMaxRetries = 5
	// baseBackoff is the wait before the second attempt; it doubles per attempt.
	baseBackoff = 5 * time.Second
)

// Policy describes how the client retries rate-limited uploads. The zero
// value is normalized to the defaults, so callers only set what they need.
type Policy struct {
	// MaxRetries is the total number of attempts per segment.
	MaxRetries int
	// Backoff returns the wait after the attempt with the given zero-based
	// index fails on a rate limit.
	Backoff func(attempt int) time.Duration
	// Sleep blocks for the given duration. Tests inject a fake to avoid
	// real waiting.
	Sleep func(ctx context.Context, d time.Duration) error
}

// DefaultBackoff doubles a five second wait per attempt: 5s, 10s, 20s, 40s, 80s.
func DefaultBackoff(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	return baseBackoff * time.Duration(1<<uint(attempt))
}

// SleepWithContext blocks for the given duration, returning early if the
// context is cancelled.
func SleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (p Policy) normalized() Policy {
	if p.MaxRetries <= 0 {
		p.MaxRetries = DefaultMaxRetries
	}
	if p.Backoff == nil {
		p.Backoff = DefaultBackoff
	}
	if p.Sleep == nil {
		p.Sleep = SleepWithContext
	}
	return p
}
