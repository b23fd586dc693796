// Package logging builds the slog loggers used across examscribe.
//
// It offers a compact console handler for interactive runs and a JSON handler
// for machine consumption, plus attr helpers so call sites stay terse. Loggers
// are constructed once from configuration and passed down; components tag
// themselves with WithComponent so console output reads "component: message".
package logging
