// Package logging configures the process-wide structured logger.
//
// Every component logs through log/slog with a "component" attribute
// identifying the emitter. This package owns handler construction:
// level and format parsing, output selection, and optional scrubbing
// of PII-looking attribute values so sensitive substrings never reach
// the log stream even when a caller logs raw request material.
package logging
