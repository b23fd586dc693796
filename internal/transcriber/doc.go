// Package transcriber uploads audio segments to a remote speech-to-text
// service and returns subtitle-formatted text.
//
// The client speaks the OpenAI audio/transcriptions wire format with
// response_format=vtt. Rate limits (HTTP 429) are retried with exponential
// backoff under an injectable Policy; every other service failure is terminal
// for the segment and surfaces immediately.
package transcriber
