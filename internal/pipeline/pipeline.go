package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"

	"examscribe/internal/config"
	"examscribe/internal/jobstore"
	"examscribe/internal/logging"
	"examscribe/internal/media/segmenter"
	"examscribe/internal/notifications"
	"examscribe/internal/services"
	"examscribe/internal/subtitle"
)

// Segmenter splits a source recording into ordered audio segments.
type Segmenter interface {
	Split(ctx context.Context, source string) ([]segmenter.Segment, float64, func(), error)
}

// Transcriber turns one audio segment into subtitle text.
type Transcriber interface {
	Transcribe(ctx context.Context, path string) (string, error)
}

// Result summarizes one completed run.
type Result struct {
	JobID           int64
	Document        string
	OutputPath      string
	TotalSeconds    float64
	ReportedSeconds int
	SegmentCount    int
	FailedSegments  []int
}

// Pipeline drives the sequential transcription flow: probe and split the
// source, upload each segment, post-process the returned subtitles, and
// assemble one document. Segments are processed strictly in original order.
type Pipeline struct {
	cfg         *config.Config
	store       *jobstore.Store
	segmenter   Segmenter
	transcriber Transcriber
	notifier    notifications.Service
	logger      *slog.Logger
	rules       []subtitle.Rule
}

// New wires a Pipeline from its collaborators. A nil rules slice selects the
// default correction table.
func New(cfg *config.Config, store *jobstore.Store, seg Segmenter, trans Transcriber, notifier notifications.Service, logger *slog.Logger, rules []subtitle.Rule) *Pipeline {
	if rules == nil {
		rules = subtitle.DefaultRules()
	}
	if notifier == nil {
		notifier = notifications.NewService(cfg)
	}
	return &Pipeline{
		cfg:         cfg,
		store:       store,
		segmenter:   seg,
		transcriber: trans,
		notifier:    notifier,
		logger:      logging.WithComponent(logger, "pipeline"),
		rules:       rules,
	}
}

// Run transcribes one source recording. outputPath overrides the configured
// destination when non-empty. Permanently failed segments are skipped and
// omitted from the assembled document; the run only fails outright when every
// segment failed or an earlier stage errored.
func (p *Pipeline) Run(ctx context.Context, source, outputPath string) (*Result, error) {
	lock := flock.New(filepath.Join(p.cfg.Paths.WorkDir, "examscribe.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire work lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("another examscribe run is already using %s", p.cfg.Paths.WorkDir)
	}
	defer func() { _ = lock.Unlock() }()

	job, err := p.store.NewJob(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("record job: %w", err)
	}
	ctx = services.WithJobID(ctx, job.ID)

	result, err := p.run(ctx, job.ID, source, outputPath)
	if err != nil {
		_ = p.store.MarkFailed(ctx, job.ID, services.Kind(err), err.Error())
		if notifyErr := p.notifier.NotifyFailed(ctx, source, err); notifyErr != nil {
			p.logger.Warn("failure notification not delivered", logging.Error(notifyErr))
		}
		return nil, err
	}
	if err := p.store.MarkCompleted(ctx, job.ID, result.OutputPath, result.FailedSegments); err != nil {
		return nil, fmt.Errorf("finalize job: %w", err)
	}
	if notifyErr := p.notifier.NotifyCompleted(ctx, source, result.OutputPath, len(result.FailedSegments)); notifyErr != nil {
		p.logger.Warn("completion notification not delivered", logging.Error(notifyErr))
	}
	result.JobID = job.ID
	return result, nil
}

func (p *Pipeline) run(ctx context.Context, jobID int64, source, outputPath string) (*Result, error) {
	ctx = services.WithStage(ctx, string(jobstore.StatusSegmenting))
	if err := p.store.UpdateStatus(ctx, jobID, jobstore.StatusSegmenting); err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}

	segments, total, cleanup, err := p.segmenter.Split(ctx, source)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	reported := int(math.Ceil(total))
	logging.WithContext(ctx, p.logger).Info("source split",
		logging.String("source", source),
		logging.Int("total_seconds", reported),
		logging.Int("segments", len(segments)))

	if err := p.store.SetPlan(ctx, jobID, total, len(segments)); err != nil {
		return nil, fmt.Errorf("record plan: %w", err)
	}
	if notifyErr := p.notifier.NotifyStarted(ctx, source, len(segments)); notifyErr != nil {
		p.logger.Warn("start notification not delivered", logging.Error(notifyErr))
	}

	ctx = services.WithStage(ctx, string(jobstore.StatusTranscribing))
	if err := p.store.UpdateStatus(ctx, jobID, jobstore.StatusTranscribing); err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}
	stageLogger := logging.WithContext(ctx, p.logger)

	texts := make([]string, len(segments))
	var failed []int
	for _, seg := range segments {
		text, err := p.transcriber.Transcribe(ctx, seg.Path)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			// Skip-and-continue: a permanently failed segment is recorded
			// and omitted from assembly rather than aborting the batch.
			stageLogger.Warn("segment failed permanently",
				logging.Int("segment", seg.Index+1),
				logging.Int("segments", len(segments)),
				logging.Error(err))
			failed = append(failed, seg.Index)
			continue
		}
		text = subtitle.Correct(text, p.rules)
		if p.cfg.Labels.Enabled {
			text = subtitle.Label(text, p.cfg.Labels.FirstRole, p.cfg.Labels.SecondRole)
		}
		texts[seg.Index] = text
		stageLogger.Info("segment transcribed",
			logging.Int("segment", seg.Index+1),
			logging.Int("segments", len(segments)))
	}

	ctx = services.WithStage(ctx, string(jobstore.StatusAssembling))
	if err := p.store.UpdateStatus(ctx, jobID, jobstore.StatusAssembling); err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}
	document, err := subtitle.Assemble(texts)
	if err != nil {
		return nil, err
	}

	destination := p.resolveOutputPath(source, outputPath)
	if err := os.WriteFile(destination, []byte(document), 0o644); err != nil {
		return nil, fmt.Errorf("write transcript: %w", err)
	}

	return &Result{
		Document:        document,
		OutputPath:      destination,
		TotalSeconds:    total,
		ReportedSeconds: reported,
		SegmentCount:    len(segments),
		FailedSegments:  failed,
	}, nil
}

func (p *Pipeline) resolveOutputPath(source, override string) string {
	if override != "" {
		return override
	}
	base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source)) + "_transcript.vtt"
	if dir := p.cfg.Paths.OutputDir; dir != "" {
		return filepath.Join(dir, base)
	}
	return filepath.Join(filepath.Dir(source), base)
}
