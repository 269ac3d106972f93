package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"autosub/internal/logging"
	"autosub/internal/services"
)

func newBufferLogger(t *testing.T, format, level string) (*slog.Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	off := false
	logger, err := logging.New(logging.Options{Format: format, Level: level, Writer: &buf, Color: &off})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return logger, &buf
}

func TestConsoleLoggerOmitsCallerForInfo(t *testing.T) {
	logger, buf := newBufferLogger(t, "console", "info")
	logger.Info("message without caller")
	if strings.Contains(buf.String(), ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", buf.String())
	}
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	logger, buf := newBufferLogger(t, "console", "debug")
	logger.Debug("message with caller")

	content := buf.String()
	if !strings.Contains(content, "logger_test.go:") {
		t.Fatalf("expected caller information in debug logs, got %q", content)
	}
	if !strings.Contains(content, "DEBUG") {
		t.Fatalf("expected DEBUG label, got %q", content)
	}
}

func TestConsoleLoggerRendersComponentAndFields(t *testing.T) {
	logger, buf := newBufferLogger(t, "console", "")

	logging.NewComponentLogger(logger, "ffmpeg").Info("subtitles muxed", logging.String("path", "/tmp/a b.mp4"), logging.Int("tracks", 2))

	content := buf.String()
	for _, want := range []string{"INFO ffmpeg: subtitles muxed", `path="/tmp/a b.mp4"`, "tracks=2"} {
		if !strings.Contains(content, want) {
			t.Fatalf("expected %q in %q", want, content)
		}
	}
	if strings.Contains(content, "\x1b[") {
		t.Fatalf("expected no ANSI colour codes, got %q", content)
	}
}

func TestConsoleLoggerPrefixesFileAndStage(t *testing.T) {
	logger, buf := newBufferLogger(t, "console", "info")

	ctx := services.WithStage(services.WithJob(context.Background(), "6f1c2a9e-0d4b-11ef-9a3b-0242ac120002", "talk.mp4"), "transcribe")
	component := logging.NewComponentLogger(logger, "pipeline")
	logging.WithContext(ctx, component).Info("stage completed", logging.Int("segments", 12))

	content := buf.String()
	if !strings.Contains(content, "INFO pipeline [talk.mp4 transcribe 6f1c2a9e]: stage completed") {
		t.Fatalf("unexpected prefix in %q", content)
	}
	if strings.Contains(content, "job_id=") || strings.Contains(content, "stage=") {
		t.Fatalf("prefix fields should not repeat as pairs: %q", content)
	}
	if !strings.Contains(content, "segments=12") {
		t.Fatalf("expected trailing fields in %q", content)
	}
}

func TestJSONLoggerIncludesContextFields(t *testing.T) {
	logger, buf := newBufferLogger(t, "json", "")

	ctx := services.WithStage(services.WithJob(context.Background(), "abc", ""), "extract")
	logging.WithContext(ctx, logger).Info("extracting audio")

	var payload map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &payload); err != nil {
		t.Fatalf("decode json log: %v", err)
	}
	if payload[logging.FieldJobID] != "abc" || payload[logging.FieldStage] != "extract" {
		t.Fatalf("expected context fields in payload, got %v", payload)
	}
	if payload["level"] != "info" {
		t.Fatalf("expected lowercase level, got %v", payload["level"])
	}
}

func TestLoggerCopiesToFile(t *testing.T) {
	var buf bytes.Buffer
	logPath := filepath.Join(t.TempDir(), "logs", "autosub.log")
	logger, err := logging.New(logging.Options{Format: "console", Writer: &buf, File: logPath})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("run started")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), "run started") || !strings.Contains(buf.String(), "run started") {
		t.Fatalf("expected line in both outputs, file=%q writer=%q", content, buf.String())
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	logger, buf := newBufferLogger(t, "json", "")

	logging.WarnWithContext(logger, "mux failed", "mux_failed", logging.String(logging.FieldImpact, "no muxed video"))

	content := buf.String()
	for _, want := range []string{`"event_type":"mux_failed"`, `"error_hint"`, `"impact":"no muxed video"`} {
		if !strings.Contains(content, want) {
			t.Fatalf("expected %s in %s", want, content)
		}
	}
}

func TestLevels(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for input, want := range tests {
		logger, _ := newBufferLogger(t, "console", input)
		if !logger.Enabled(context.Background(), want) {
			t.Errorf("level %q: expected %v enabled", input, want)
		}
		if want > slog.LevelDebug && logger.Enabled(context.Background(), want-4) {
			t.Errorf("level %q: expected %v disabled", input, want-4)
		}
	}
}
