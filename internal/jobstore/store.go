package jobstore

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"examscribe/internal/config"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema
// changes; users then need to delete the jobs database.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match the expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// ErrNotFound indicates the requested job does not exist.
var ErrNotFound = errors.New("job not found")

// Store manages transcription job history backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the jobs database in the configured log directory.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(filepath.Join(cfg.Paths.LogDir, "jobs.db"))
}

// OpenPath opens the jobs database at an explicit location.
func OpenPath(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to reset)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

// NewJob inserts a pending job for the given source recording.
func (s *Store) NewJob(ctx context.Context, sourcePath string) (*Job, error) {
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO jobs (uuid, source_path, status, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?)`,
		uuid.NewString(), sourcePath, StatusPending, timestamp, timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert job: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(ctx, id)
}

// UpdateStatus moves a job to a new lifecycle state.
func (s *Store) UpdateStatus(ctx context.Context, id int64, status Status) error {
	if !status.Valid() {
		return fmt.Errorf("invalid status %q", status)
	}
	return s.exec(ctx,
		"UPDATE jobs SET status = ?, updated_at = ? WHERE id = ?",
		status, now(), id)
}

// SetPlan records the probed duration and planned segment count.
func (s *Store) SetPlan(ctx context.Context, id int64, durationSeconds float64, segmentCount int) error {
	return s.exec(ctx,
		"UPDATE jobs SET duration_seconds = ?, segment_count = ?, updated_at = ? WHERE id = ?",
		durationSeconds, segmentCount, now(), id)
}

// MarkCompleted finalizes a successful job, noting skipped segments if any.
func (s *Store) MarkCompleted(ctx context.Context, id int64, outputPath string, failedSegments []int) error {
	failed, err := encodeSegments(failedSegments)
	if err != nil {
		return err
	}
	return s.exec(ctx,
		`UPDATE jobs SET status = ?, output_path = ?, failed_segments = ?, updated_at = ?,
         error_kind = NULL, error_message = NULL WHERE id = ?`,
		StatusCompleted, outputPath, failed, now(), id)
}

// MarkFailed finalizes a failed job with its error classification.
func (s *Store) MarkFailed(ctx context.Context, id int64, kind, message string) error {
	return s.exec(ctx,
		"UPDATE jobs SET status = ?, error_kind = ?, error_message = ?, updated_at = ? WHERE id = ?",
		StatusFailed, kind, message, now(), id)
}

// GetByID fetches one job.
func (s *Store) GetByID(ctx context.Context, id int64) (*Job, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+" WHERE id = ?", id)
	return scanJob(row)
}

// List returns the most recent jobs, newest first. A non-positive limit
// returns everything.
func (s *Store) List(ctx context.Context, limit int) ([]*Job, error) {
	query := selectColumns + " ORDER BY created_at DESC, id DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

const selectColumns = `SELECT id, uuid, source_path, status, created_at, updated_at,
    duration_seconds, segment_count, failed_segments, output_path, error_kind, error_message
    FROM jobs`

type scanner interface {
	Scan(dest ...any) error
}

func scanJob(row scanner) (*Job, error) {
	var job Job
	var createdAt, updatedAt string
	var failedSegments, outputPath, errorKind, errorMessage sql.NullString
	err := row.Scan(
		&job.ID, &job.UUID, &job.SourcePath, &job.Status, &createdAt, &updatedAt,
		&job.DurationSeconds, &job.SegmentCount, &failedSegments, &outputPath, &errorKind, &errorMessage,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan job: %w", err)
	}
	job.CreatedAt = parseTime(createdAt)
	job.UpdatedAt = parseTime(updatedAt)
	job.OutputPath = outputPath.String
	job.ErrorKind = errorKind.String
	job.ErrorMessage = errorMessage.String
	if segments := strings.TrimSpace(failedSegments.String); segments != "" {
		if err := json.Unmarshal([]byte(segments), &job.FailedSegments); err != nil {
			return nil, fmt.Errorf("decode failed segments: %w", err)
		}
	}
	return &job, nil
}

func (s *Store) exec(ctx context.Context, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update job: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func encodeSegments(segments []int) (any, error) {
	if len(segments) == 0 {
		return nil, nil
	}
	payload, err := json.Marshal(segments)
	if err != nil {
		return nil, fmt.Errorf("encode failed segments: %w", err)
	}
	return string(payload), nil
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

func parseTime(value string) time.Time {
	parsed, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return parsed
}
