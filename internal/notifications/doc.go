// Package notifications pushes run updates through ntfy.
//
// The service is a noop unless a topic URL is configured, so the pipeline can
// call it unconditionally.
package notifications
