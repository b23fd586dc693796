// Package preflight validates the runtime environment before a pipeline run.
package preflight
