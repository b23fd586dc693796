package jobstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenPath(filepath.Join(t.TempDir(), "jobs.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestJobLifecycle(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	job, err := store.NewJob(ctx, "/videos/exam.mp4")
	if err != nil {
		t.Fatalf("new job: %v", err)
	}
	if job.Status != StatusPending {
		t.Fatalf("expected pending job, got %q", job.Status)
	}
	if job.UUID == "" {
		t.Fatal("expected job uuid")
	}

	if err := store.UpdateStatus(ctx, job.ID, StatusSegmenting); err != nil {
		t.Fatalf("update status: %v", err)
	}
	if err := store.SetPlan(ctx, job.ID, 125, 3); err != nil {
		t.Fatalf("set plan: %v", err)
	}
	if err := store.MarkCompleted(ctx, job.ID, "/out/exam.vtt", []int{1}); err != nil {
		t.Fatalf("mark completed: %v", err)
	}

	got, err := store.GetByID(ctx, job.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != StatusCompleted {
		t.Fatalf("expected completed, got %q", got.Status)
	}
	if got.DurationSeconds != 125 || got.SegmentCount != 3 {
		t.Fatalf("expected plan persisted, got %v/%v", got.DurationSeconds, got.SegmentCount)
	}
	if got.OutputPath != "/out/exam.vtt" {
		t.Fatalf("expected output path, got %q", got.OutputPath)
	}
	if len(got.FailedSegments) != 1 || got.FailedSegments[0] != 1 {
		t.Fatalf("expected failed segment [1], got %v", got.FailedSegments)
	}
}

func TestMarkFailed(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	job, err := store.NewJob(ctx, "/videos/exam.mp4")
	if err != nil {
		t.Fatalf("new job: %v", err)
	}
	if err := store.MarkFailed(ctx, job.ID, "decode", "source is not decodable media"); err != nil {
		t.Fatalf("mark failed: %v", err)
	}
	got, err := store.GetByID(ctx, job.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != StatusFailed || got.ErrorKind != "decode" {
		t.Fatalf("expected failed/decode, got %q/%q", got.Status, got.ErrorKind)
	}
}

func TestListNewestFirst(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for _, path := range []string{"/a.mp4", "/b.mp4", "/c.mp4"} {
		if _, err := store.NewJob(ctx, path); err != nil {
			t.Fatalf("new job: %v", err)
		}
	}
	jobs, err := store.List(ctx, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("expected limit of 2, got %d", len(jobs))
	}
	if jobs[0].SourcePath != "/c.mp4" {
		t.Fatalf("expected newest first, got %q", jobs[0].SourcePath)
	}
}

func TestGetMissingJob(t *testing.T) {
	store := openTestStore(t)
	if _, err := store.GetByID(context.Background(), 42); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := store.UpdateStatus(context.Background(), 42, StatusFailed); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on update, got %v", err)
	}
}

func TestUpdateStatusRejectsUnknown(t *testing.T) {
	store := openTestStore(t)
	job, err := store.NewJob(context.Background(), "/a.mp4")
	if err != nil {
		t.Fatalf("new job: %v", err)
	}
	if err := store.UpdateStatus(context.Background(), job.ID, Status("sideways")); err == nil {
		t.Fatal("expected invalid status rejection")
	}
}

func TestReopenKeepsSchema(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jobs.db")
	store, err := OpenPath(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := store.NewJob(context.Background(), "/a.mp4"); err != nil {
		t.Fatalf("new job: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := OpenPath(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	jobs, err := reopened.List(context.Background(), 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("expected persisted job, got %d", len(jobs))
	}
}
