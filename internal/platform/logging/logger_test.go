package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFormatLog(t *testing.T) {
	tests := []struct {
		name    string
		tag     string
		message string
		want    string
	}{
		{"plain message", "BOOT", "server started", "[BOOT] server started"},
		{"empty tag", "", "server started", "server started"},
		{"already tagged", "BOOT", "[HTTP] request served", "[HTTP] request served"},
		{"whitespace trimmed", " LLM ", "  ready  ", "[LLM] ready"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatLog(tt.tag, tt.message); got != tt.want {
				t.Errorf("FormatLog(%q, %q) = %q, want %q", tt.tag, tt.message, got, tt.want)
			}
		})
	}
}

func TestNewWritesToFile(t *testing.T) {
	dir := t.TempDir()
	logger, err := New(&Config{
		Level:    "info",
		Dir:      dir,
		Filename: "test.log",
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	logger.InfoTag("BOOT", "hello %s", "world")
	if err := logger.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "test.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "[BOOT] hello world") {
		t.Errorf("log file missing tagged message: %s", content)
	}
}

func TestDebugSuppressedAtInfoLevel(t *testing.T) {
	dir := t.TempDir()
	logger, err := New(&Config{
		Level:    "info",
		Dir:      dir,
		Filename: "test.log",
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	logger.DebugTag("LLM", "should not appear")
	if err := logger.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "test.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if strings.Contains(string(data), "should not appear") {
		t.Error("debug message written despite info level")
	}
}

func TestNilLoggerTagMethods(t *testing.T) {
	var logger *Logger
	logger.DebugTag("BOOT", "x")
	logger.InfoTag("BOOT", "x")
	logger.WarnTag("BOOT", "x")
	logger.ErrorTag("BOOT", "x")
}
