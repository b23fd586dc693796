package main

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"examscribe/internal/config"
	"examscribe/internal/jobstore"
	"examscribe/internal/logging"
	"examscribe/internal/media/segmenter"
	"examscribe/internal/pipeline"
	"examscribe/internal/preflight"
	"examscribe/internal/transcriber"
)

const previewLines = 12

func newTranscribeCommand(ctx *commandContext) *cobra.Command {
	var outputPath string
	var chunkSeconds int

	cmd := &cobra.Command{
		Use:   "transcribe <video>",
		Short: "Transcribe a recording into a WEBVTT transcript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if chunkSeconds != 0 {
				if chunkSeconds < 0 {
					return fmt.Errorf("--chunk-seconds must be positive, got %d", chunkSeconds)
				}
				cfg.Transcription.ChunkSeconds = chunkSeconds
			}

			source, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			if _, err := os.Stat(source); err != nil {
				return fmt.Errorf("source video: %w", err)
			}
			if outputPath != "" {
				if outputPath, err = config.ExpandPath(outputPath); err != nil {
					return err
				}
			}

			if err := runCriticalChecks(cfg); err != nil {
				return err
			}

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return err
			}

			store, err := jobstore.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			seg := segmenter.New(cfg.FFmpegBinary(), cfg.FFprobeBinary(), cfg.Paths.WorkDir, cfg.Transcription.ChunkSeconds, logger)
			client, err := transcriber.New(transcriber.Config{
				APIKey:     cfg.Transcription.APIKey,
				BaseURL:    cfg.Transcription.BaseURL,
				Model:      cfg.Transcription.Model,
				Language:   cfg.Transcription.Language,
				HTTPClient: &http.Client{Timeout: time.Duration(cfg.Transcription.RequestTimeout) * time.Second},
			}, transcriber.Policy{MaxRetries: cfg.Transcription.MaxRetries}, logger)
			if err != nil {
				return err
			}

			p := pipeline.New(cfg, store, seg, client, nil, logger, nil)
			result, err := p.Run(cmd.Context(), source, outputPath)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Transcript written to %s\n", result.OutputPath)
			fmt.Fprintf(out, "Source length %ds, %d segments", result.ReportedSeconds, result.SegmentCount)
			if failed := len(result.FailedSegments); failed > 0 {
				fmt.Fprintf(out, ", %d skipped", failed)
			}
			fmt.Fprintln(out)
			if isTerminal() {
				printPreview(cmd, result.Document)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Destination for the transcript file")
	cmd.Flags().IntVar(&chunkSeconds, "chunk-seconds", 0, "Override the configured segment duration")
	return cmd
}

func runCriticalChecks(cfg *config.Config) error {
	results := preflight.Run(cfg)
	if preflight.Passed(results) {
		return nil
	}
	var failures []string
	for _, result := range results {
		if !result.Passed {
			failures = append(failures, fmt.Sprintf("%s (%s)", result.Name, result.Detail))
		}
	}
	return fmt.Errorf("preflight failed: %s", strings.Join(failures, "; "))
}

func printPreview(cmd *cobra.Command, document string) {
	out := cmd.OutOrStdout()
	lines := strings.Split(strings.TrimRight(document, "\n"), "\n")
	fmt.Fprintln(out)
	for i, line := range lines {
		if i >= previewLines {
			fmt.Fprintf(out, "... (%d more lines)\n", len(lines)-previewLines)
			break
		}
		fmt.Fprintln(out, line)
	}
}

func isTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
