package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"examscribe/internal/services"
)

func TestWithContextAddsFields(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&buf, lvl))

	ctx := services.WithJobID(context.Background(), 7)
	ctx = services.WithStage(ctx, "transcribing")
	WithContext(ctx, logger).Info("contextual log")

	line := buf.String()
	if !strings.Contains(line, "job_id=7") {
		t.Fatalf("expected job id field, got %q", line)
	}
	if !strings.Contains(line, "stage=transcribing") {
		t.Fatalf("expected stage field, got %q", line)
	}
}

func TestWithContextWithoutFieldsReturnsSameLogger(t *testing.T) {
	logger := NewNop()
	if got := WithContext(context.Background(), logger); got != logger {
		t.Fatal("expected the original logger when context carries no fields")
	}
}
