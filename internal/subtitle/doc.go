// Package subtitle post-processes WEBVTT transcripts returned by the
// transcription service.
//
// It corrects recurring mis-transcriptions through an ordered regex rule
// table, prefixes alternating speaker roles onto cue blocks, and assembles
// per-segment documents into one transcript with a single header. The speaker
// alternation is a structural heuristic: it assumes strictly alternating
// turns and never inspects the audio.
package subtitle
