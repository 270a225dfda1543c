// Package main hosts the contactmerge CLI entrypoint and command graph.
//
// The Cobra-based command tree reads CSV or vCard contact files, runs the
// dedupe engine in link or merge mode, and writes the result back out. It
// also converts between formats and scaffolds configuration. Configuration
// resolution, run IDs, and logger setup live here so the internal packages
// stay free of process concerns.
package main
