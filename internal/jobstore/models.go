package jobstore

import "time"

// Status represents the lifecycle of a transcription job.
type Status string

const (
	StatusPending      Status = "pending"
	StatusSegmenting   Status = "segmenting"
	StatusTranscribing Status = "transcribing"
	StatusAssembling   Status = "assembling"
	StatusCompleted    Status = "completed"
	StatusFailed       Status = "failed"
)

var allStatuses = []Status{
	StatusPending,
	StatusSegmenting,
	StatusTranscribing,
	StatusAssembling,
	StatusCompleted,
	StatusFailed,
}

// Valid reports whether the status is a known lifecycle state.
func (s Status) Valid() bool {
	for _, status := range allStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Job is one recorded transcription run.
type Job struct {
	ID              int64
	UUID            string
	SourcePath      string
	Status          Status
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DurationSeconds float64
	SegmentCount    int
	FailedSegments  []int
	OutputPath      string
	ErrorKind       string
	ErrorMessage    string
}
