// Package jobstore persists transcription run history in SQLite.
//
// Each pipeline run is one job row moving through
// pending -> segmenting -> transcribing -> assembling -> completed or failed.
// The CLI reads this history for `examscribe jobs`.
package jobstore
