package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"furitingoasis/envmon/internal/config"
)

func TestNewWithWriter_ProdIsJSON(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.Config{AppEnv: "prod", LogLevel: slog.LevelInfo}

	NewWithWriter(&buf, cfg, "1.2.0", "envmon").Info("fan on", "temp", 31.5)

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("output is not json: %v: %s", err, buf.String())
	}
	for key, want := range map[string]any{
		"msg":     "fan on",
		"app":     "envmon",
		"version": "1.2.0",
		"env":     "prod",
		"temp":    31.5,
	} {
		if line[key] != want {
			t.Errorf("%s = %v, want %v", key, line[key], want)
		}
	}
}

func TestNewWithWriter_Level(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.Config{AppEnv: "prod", LogLevel: slog.LevelWarn}

	logger := NewWithWriter(&buf, cfg, "1.2.0", "envmon")
	logger.Info("dropped")
	logger.Warn("kept")

	out := buf.String()
	if strings.Contains(out, "dropped") || !strings.Contains(out, "kept") {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestNewWithWriter_DevIsText(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.Config{AppEnv: "dev", LogLevel: slog.LevelDebug}

	NewWithWriter(&buf, cfg, "dev", "envmon").Debug("sensor read")

	out := buf.String()
	if !strings.Contains(out, "sensor read") {
		t.Errorf("output missing message: %s", out)
	}
	if json.Valid(buf.Bytes()) {
		t.Errorf("dev output should not be json: %s", out)
	}
}

func TestNewWithWriter_ProdUnstampedBuildIsJSON(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.Config{AppEnv: "prod", LogLevel: slog.LevelInfo}

	NewWithWriter(&buf, cfg, "dev", "envmon").Info("fan on")

	if !json.Valid(bytes.TrimSpace(buf.Bytes())) {
		t.Fatalf("prod output is not json: %q", buf.String())
	}
	if strings.Contains(buf.String(), "\x1b[") {
		t.Errorf("prod output carries colour codes: %q", buf.String())
	}
}
