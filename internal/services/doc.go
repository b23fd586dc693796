// Package services defines the shared error taxonomy and context annotations
// used across the transcription pipeline. Sentinel errors classify failures
// for job records and retry decisions; context helpers thread job and stage
// identity through to structured logging.
package services
