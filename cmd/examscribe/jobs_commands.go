package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"examscribe/internal/jobstore"
)

func newJobsCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Inspect recorded transcription jobs",
	}
	cmd.AddCommand(newJobsListCommand(ctx))
	cmd.AddCommand(newJobsShowCommand(ctx))
	return cmd
}

func newJobsListCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent jobs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := jobstore.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			jobs, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(jobs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No jobs recorded yet.")
				return nil
			}

			rows := make([][]string, 0, len(jobs))
			for _, job := range jobs {
				rows = append(rows, []string{
					strconv.FormatInt(job.ID, 10),
					filepath.Base(job.SourcePath),
					string(job.Status),
					formatDuration(job.DurationSeconds),
					formatSkipped(job),
					job.UpdatedAt.Local().Format("2006-01-02 15:04"),
				})
			}
			headers := []string{"ID", "Source", "Status", "Length", "Skipped", "Updated"}
			aligns := []columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight, alignLeft}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, aligns))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of jobs to show")
	return cmd
}

func newJobsShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show the full record for one job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid job id %q", args[0])
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := jobstore.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			job, err := store.GetByID(cmd.Context(), id)
			if err != nil {
				return err
			}

			rows := [][]string{
				{"ID", strconv.FormatInt(job.ID, 10)},
				{"UUID", job.UUID},
				{"Source", job.SourcePath},
				{"Status", string(job.Status)},
				{"Length", formatDuration(job.DurationSeconds)},
				{"Segments", strconv.Itoa(job.SegmentCount)},
				{"Skipped", formatSkipped(job)},
				{"Output", valueOrDash(job.OutputPath)},
				{"Created", job.CreatedAt.Local().Format("2006-01-02 15:04:05")},
				{"Updated", job.UpdatedAt.Local().Format("2006-01-02 15:04:05")},
			}
			if job.ErrorKind != "" {
				rows = append(rows,
					[]string{"Error kind", job.ErrorKind},
					[]string{"Error", job.ErrorMessage},
				)
			}
			headers := []string{"Field", "Value"}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, []columnAlignment{alignLeft, alignLeft}))
			return nil
		},
	}
}

func formatDuration(seconds float64) string {
	if seconds <= 0 {
		return "-"
	}
	total := int(seconds + 0.5)
	minutes := total / 60
	remainder := total % 60
	if minutes == 0 {
		return fmt.Sprintf("%ds", remainder)
	}
	return fmt.Sprintf("%dm%02ds", minutes, remainder)
}

func formatSkipped(job *jobstore.Job) string {
	if len(job.FailedSegments) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(job.FailedSegments))
	for _, index := range job.FailedSegments {
		parts = append(parts, strconv.Itoa(index))
	}
	return strings.Join(parts, ",")
}

func valueOrDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}
