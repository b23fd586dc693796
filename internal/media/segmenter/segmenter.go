package segmenter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"examscribe/internal/logging"
	"examscribe/internal/media/ffprobe"
	"examscribe/internal/services"
)

// Segment is one extracted audio slice of the source recording, ready for
// upload to the transcription service.
type Segment struct {
	Index int
	Start float64
	End   float64
	Path  string
}

// Duration returns the segment length in seconds.
func (s Segment) Duration() float64 {
	return s.End - s.Start
}

// Segmenter splits a source video into chunk-sized mono 16 kHz WAV segments
// using ffmpeg, probing the container with ffprobe first.
type Segmenter struct {
	ffmpegBinary  string
	ffprobeBinary string
	workDir       string
	chunkSeconds  int
	logger        *slog.Logger

	commandRunner func(ctx context.Context, name string, args ...string) error
	prober        func(ctx context.Context, binary, path string) (ffprobe.Result, error)
}

// New constructs a Segmenter writing segments beneath workDir.
func New(ffmpegBinary, ffprobeBinary, workDir string, chunkSeconds int, logger *slog.Logger) *Segmenter {
	if ffmpegBinary == "" {
		ffmpegBinary = "ffmpeg"
	}
	if ffprobeBinary == "" {
		ffprobeBinary = "ffprobe"
	}
	return &Segmenter{
		ffmpegBinary:  ffmpegBinary,
		ffprobeBinary: ffprobeBinary,
		workDir:       workDir,
		chunkSeconds:  chunkSeconds,
		logger:        logging.WithComponent(logger, "segmenter"),
		prober:        ffprobe.Inspect,
	}
}

// WithCommandRunner sets a custom ffmpeg runner (for testing).
func (s *Segmenter) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	s.commandRunner = runner
}

// WithProber sets a custom ffprobe implementation (for testing).
func (s *Segmenter) WithProber(prober func(ctx context.Context, binary, path string) (ffprobe.Result, error)) {
	s.prober = prober
}

// Split extracts the planned audio segments for the source file. It returns
// the ordered segments, the total source duration in seconds, and a cleanup
// func that releases the scratch directory holding the extracted audio. The
// cleanup func is safe to call on every exit path, including after errors.
func (s *Segmenter) Split(ctx context.Context, source string) ([]Segment, float64, func(), error) {
	noop := func() {}

	result, err := s.prober(ctx, s.ffprobeBinary, source)
	if err != nil {
		return nil, 0, noop, services.Wrap(services.ErrDecode, "segmenter", "probe", "source is not decodable media", err)
	}
	total := result.DurationSeconds()
	if total <= 0 {
		return nil, 0, noop, services.Wrap(services.ErrDecode, "segmenter", "probe", "source reports no duration", nil)
	}
	audioIndex := result.FirstAudioStreamIndex()
	if audioIndex < 0 {
		return nil, 0, noop, services.Wrap(services.ErrDecode, "segmenter", "probe", "source has no audio stream", nil)
	}

	spans, err := Plan(total, s.chunkSeconds)
	if err != nil {
		return nil, 0, noop, err
	}

	scratch, err := os.MkdirTemp(s.workDir, "segments-")
	if err != nil {
		return nil, 0, noop, fmt.Errorf("create scratch directory: %w", err)
	}
	cleanup := func() { _ = os.RemoveAll(scratch) }

	if s.logger != nil {
		s.logger.Info("splitting source",
			logging.String("source", source),
			logging.Float64("total_seconds", total),
			logging.Int("segments", len(spans)))
	}

	segments := make([]Segment, 0, len(spans))
	for _, span := range spans {
		dest := filepath.Join(scratch, fmt.Sprintf("chunk_%03d.wav", span.Index))
		if err := s.extract(ctx, source, audioIndex, span, dest); err != nil {
			cleanup()
			return nil, 0, noop, err
		}
		segments = append(segments, Segment{Index: span.Index, Start: span.Start, End: span.End, Path: dest})
	}
	return segments, total, cleanup, nil
}

func (s *Segmenter) extract(ctx context.Context, source string, audioIndex int, span Span, dest string) error {
	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-ss", formatSeconds(span.Start),
		"-t", formatSeconds(span.Duration()),
		"-i", source,
		"-map", fmt.Sprintf("0:%d", audioIndex),
		"-vn",
		"-sn",
		"-dn",
		"-ac", "1",
		"-ar", "16000",
		"-c:a", "pcm_s16le",
		dest,
	}
	if s.commandRunner != nil {
		return s.commandRunner(ctx, s.ffmpegBinary, args...)
	}
	cmd := exec.CommandContext(ctx, s.ffmpegBinary, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return services.Wrap(services.ErrDecode, "segmenter", "extract",
			strings.TrimSpace(string(output)), err)
	}
	return nil
}

func formatSeconds(value float64) string {
	return strconv.FormatFloat(value, 'f', 3, 64)
}
