package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"contactmerge/internal/config"
)

func newTestPretty(buf *bytes.Buffer, level slog.Level) *slog.Logger {
	lvl := new(slog.LevelVar)
	lvl.Set(level)
	return slog.New(newPrettyHandler(buf, lvl, false))
}

func TestPrettyHandlerFormatsHeaderAndFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewComponentLogger(newTestPretty(&buf, slog.LevelInfo), "dedupe")
	logger = logger.With(String(FieldRunID, "0123456789abcdef"))

	logger.Info("deduplication complete", Int("input", 7), String("mode", "link"), String("note", "two words"))

	line := buf.String()
	for _, want := range []string{
		" INFO  [01234567] dedupe: deduplication complete",
		"input=7",
		"mode=link",
		`note="two words"`,
	} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %q in %q", want, line)
		}
	}
	if strings.Contains(line, "component=") || strings.Contains(line, "run_id=") {
		t.Fatalf("header fields should not repeat as attributes: %q", line)
	}
}

func TestPrettyHandlerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestPretty(&buf, slog.LevelInfo)
	logger.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected debug line to be dropped, got %q", buf.String())
	}
	logger.Warn("shown")
	if !strings.Contains(buf.String(), "WARN  shown") {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}

func TestPrettyHandlerFlattensGroups(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestPretty(&buf, slog.LevelInfo).WithGroup("stats")
	logger.Info("summary", Group("clusters", Int("total", 5), Int("duplicate", 2)), Error(errors.New("boom")))

	line := buf.String()
	if !strings.Contains(line, "stats.clusters.total=5") || !strings.Contains(line, "stats.clusters.duplicate=2") {
		t.Fatalf("expected flattened group keys in %q", line)
	}
	if !strings.Contains(line, "stats.error=boom") {
		t.Fatalf("expected error value in %q", line)
	}
}

func TestNewWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "run.log")
	logger, err := New(Options{Level: "debug", Format: "json", OutputPaths: []string{path}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Debug("scoring", Float64("threshold", 85))

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(data), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, data)
	}
	if entry["level"] != "debug" || entry["msg"] != "scoring" || entry["threshold"] != 85.0 {
		t.Fatalf("unexpected entry: %v", entry)
	}
	if _, ok := entry["ts"]; !ok {
		t.Fatalf("expected ts key in %v", entry)
	}
	if _, ok := entry["source"]; !ok {
		t.Fatalf("expected source at debug level in %v", entry)
	}
}

func TestNewTeesToLogFile(t *testing.T) {
	dir := t.TempDir()
	console := filepath.Join(dir, "console.log")
	file := filepath.Join(dir, "copy.log")

	logger, err := New(Options{Level: "info", Format: "console", OutputPaths: []string{console}, File: file})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("exported", Int("contacts", 3))
	logger.Debug("merge decision", String("decision_type", "merge_conflict"))

	consoleData, err := os.ReadFile(console)
	if err != nil {
		t.Fatalf("read console log: %v", err)
	}
	if !strings.Contains(string(consoleData), "exported contacts=3") {
		t.Fatalf("unexpected console output: %q", consoleData)
	}
	if strings.Contains(string(consoleData), "merge decision") {
		t.Fatalf("debug record leaked to console: %q", consoleData)
	}

	fileData, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("read file log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(fileData)), "\n")
	if len(lines) != 2 || !strings.Contains(lines[0], `"contacts":3`) {
		t.Fatalf("unexpected file output: %q", fileData)
	}
	if !strings.Contains(lines[1], `"level":"debug"`) || !strings.Contains(lines[1], `"source":"logger_test.go:`) {
		t.Fatalf("expected debug record with source in file, got %q", lines[1])
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "logfmt"}); err == nil {
		t.Fatal("expected unsupported format error")
	}
}

func TestNewFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.File = filepath.Join(t.TempDir(), "contactmerge.log")
	logger, err := NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("hello")
	if _, err := os.Stat(cfg.Logging.File); err != nil {
		t.Fatalf("expected log file to exist: %v", err)
	}

	if logger, err := NewFromConfig(nil); err != nil || logger == nil {
		t.Fatalf("nil config should yield a default logger, got %v", err)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for input, want := range tests {
		if got := parseLevel(input); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestWithContextAddsRunID(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(newJSONHandler(&buf, new(slog.LevelVar), false))

	ctx := WithRunID(context.Background(), "run-42")
	if id, ok := RunIDFromContext(ctx); !ok || id != "run-42" {
		t.Fatalf("unexpected run id: %q %v", id, ok)
	}
	WithContext(ctx, base).Info("tagged")
	if !strings.Contains(buf.String(), `"run_id":"run-42"`) {
		t.Fatalf("expected run_id in %q", buf.String())
	}

	if WithContext(context.Background(), base) != base {
		t.Fatal("expected logger unchanged without a run id")
	}
	if _, ok := RunIDFromContext(WithRunID(context.Background(), "")); ok {
		t.Fatal("empty run id should not be stored")
	}
}

func TestTeeHandler(t *testing.T) {
	if _, ok := newTeeHandler(nil, nil).(NoopHandler); !ok {
		t.Fatal("expected NoopHandler when both sides are nil")
	}

	var console, file bytes.Buffer
	single := slog.NewJSONHandler(&console, nil)
	if newTeeHandler(single, nil) != single || newTeeHandler(nil, single) != single {
		t.Fatal("expected a lone handler to be returned unwrapped")
	}

	h := newTeeHandler(
		slog.NewJSONHandler(&console, &slog.HandlerOptions{Level: slog.LevelWarn}),
		slog.NewJSONHandler(&file, &slog.HandlerOptions{Level: slog.LevelDebug}),
	)
	if !h.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("debug should be enabled through the file side")
	}
	logger := slog.New(h).WithGroup("run").With("key", "value")
	logger.Debug("debug message")
	if console.Len() != 0 || !strings.Contains(file.String(), `"run":{"key":"value"`) {
		t.Fatalf("unexpected routing: console=%q file=%q", console.String(), file.String())
	}
	logger.Warn("warn message")
	if !strings.Contains(console.String(), "warn message") {
		t.Fatalf("expected warn on the console, got %q", console.String())
	}
	if strings.Count(file.String(), "message") != 2 {
		t.Fatalf("expected two file records, got %q", file.String())
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newJSONHandler(&buf, new(slog.LevelVar), false))
	WarnWithContext(logger, "lock unavailable", "output_lock", String(FieldErrorHint, "remove stale lock"))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if entry[FieldEventType] != "output_lock" || entry[FieldErrorHint] != "remove stale lock" || entry[FieldImpact] == nil {
		t.Fatalf("unexpected entry: %v", entry)
	}
	WarnWithContext(nil, "ignored", "noop")
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := NewNop()
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Fatal("nop logger should not be enabled")
	}
	NewComponentLogger(nil, "dedupe").Info("discarded")
}
