package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"unknown": slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestInit(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "unknown"} {
		Init(level)
		if Log == nil {
			t.Errorf("Init(%s) should set Log", level)
		}
	}
}

func TestNew_JSONWriter(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "info", Format: "json", Writer: &buf})

	l.Debug("hidden")
	l.Info("solved", "max_flow", 115.0)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d: %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("invalid JSON line: %v", err)
	}
	if entry["msg"] != "solved" || entry["max_flow"] != 115.0 {
		t.Errorf("entry = %v", entry)
	}
}

func TestNew_TextWriter(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "debug", Format: "text", Writer: &buf})
	l.Debug("hello", "key", "value")

	if !strings.Contains(buf.String(), "key=value") {
		t.Errorf("text output = %q", buf.String())
	}
}

func TestInitWithConfig_FileOutput(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "logs", "test.log")

	InitWithConfig(Config{
		Level:    "info",
		Format:   "json",
		Output:   "file",
		FilePath: logPath,
	})
	Log.Info("test message")

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if !strings.Contains(string(data), "test message") {
		t.Errorf("log file = %q", data)
	}
}

func TestWithRunID(t *testing.T) {
	var buf bytes.Buffer
	InitWithConfig(Config{Level: "info", Writer: &buf})

	WithRunID("run-123").Info("start")
	if !strings.Contains(buf.String(), `"run_id":"run-123"`) {
		t.Errorf("run_id missing: %q", buf.String())
	}
}

func TestWithService(t *testing.T) {
	var buf bytes.Buffer
	InitWithConfig(Config{Level: "info", Writer: &buf})

	WithService("throughput").Info("start")
	if !strings.Contains(buf.String(), `"service":"throughput"`) {
		t.Errorf("service missing: %q", buf.String())
	}
}

func TestContext(t *testing.T) {
	Init("info")
	if FromContext(context.Background()) != Log {
		t.Error("FromContext without logger should return Log")
	}

	l := WithRunID("abc")
	ctx := IntoContext(context.Background(), l)
	if FromContext(ctx) != l {
		t.Error("FromContext should return stored logger")
	}
}

func TestLoggingFunctions(t *testing.T) {
	var buf bytes.Buffer
	InitWithConfig(Config{Level: "debug", Writer: &buf})

	Debug("debug message", "key", "value")
	Info("info message", "key", "value")
	Warn("warn message", "key", "value")
	Error("error message", "key", "value")

	if got := strings.Count(buf.String(), "\n"); got != 4 {
		t.Errorf("expected 4 lines, got %d", got)
	}
}
