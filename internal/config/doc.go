// Package config loads, normalizes, and validates contactmerge configuration.
//
// It supplies defaults, expands user paths (including tilde shortcuts), reads
// TOML files, and honours environment fallbacks such as
// CONTACTMERGE_THRESHOLD. The Config type gathers the dedupe knobs, the
// compared field names, report settings, and logging options in one place.
//
// Always obtain settings through this package so the CLI and engine see
// trimmed field names, canonical modes and formats, and clear validation
// errors.
package config
