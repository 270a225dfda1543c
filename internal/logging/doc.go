// Package logging assembles structured slog loggers and formatting helpers used
// across contactmerge.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context helpers so every line of one invocation
// carries the same run ID. An optional log file receives a JSON copy of the
// console stream. The package also provides a no-op logger for tests and
// library callers that do not want output.
package logging
