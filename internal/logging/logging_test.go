package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/five82/pocketspice/internal/config"
)

func TestNew_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "pocketspice.log")
	cfg := config.Config{LogFile: path, LogLevel: "debug"}

	logger, closer, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Debug().Str("component", "test").Msg("hello")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(data), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, data)
	}
	if entry["message"] != "hello" || entry["component"] != "test" || entry["app"] != "pocketspice" {
		t.Fatalf("entry = %v, want message/component/app fields", entry)
	}
}

func TestNew_RespectsLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pocketspice.log")
	logger, closer, err := New(config.Config{LogFile: path, LogLevel: "warn"}, nil)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info().Msg("dropped")
	logger.Warn().Msg("kept")
	_ = closer.Close()

	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "dropped") {
		t.Fatalf("info event written at warn level: %q", data)
	}
	if !strings.Contains(string(data), "kept") {
		t.Fatalf("warn event missing: %q", data)
	}
}

func TestNew_ConsoleMirror(t *testing.T) {
	var buf bytes.Buffer
	logger, closer, err := New(config.Config{LogLevel: "info"}, &buf)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	defer closer.Close()
	logger.Info().Msg("to console")
	if !strings.Contains(buf.String(), "to console") {
		t.Fatalf("console output = %q, want message", buf.String())
	}
}

func TestNew_BadLevel(t *testing.T) {
	if _, _, err := New(config.Config{LogLevel: "chatty"}, nil); err == nil {
		t.Fatalf("New returned nil error, want level error")
	}
}

func TestConsole(t *testing.T) {
	var buf bytes.Buffer
	logger := Console(&buf, zerolog.ErrorLevel)
	logger.Info().Msg("quiet")
	logger.Error().Msg("loud")
	if strings.Contains(buf.String(), "quiet") || !strings.Contains(buf.String(), "loud") {
		t.Fatalf("console output = %q", buf.String())
	}
}
