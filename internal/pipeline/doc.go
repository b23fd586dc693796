// Package pipeline runs the end-to-end transcription flow for one recording.
//
// The flow is a strictly sequential batch: segment the source, upload each
// segment to the transcription service, correct and label the returned
// subtitles, and assemble a single WEBVTT document. There is no concurrent
// segment processing; ordering falls out of the loop. A file lock on the work
// directory keeps concurrent runs from sharing scratch space.
package pipeline
