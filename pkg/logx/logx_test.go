package logx_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/Abraxas-365/orquesta/pkg/logx"
)

func newBufferedLogger(level logx.Level, format logx.Format) (*logx.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	cfg := logx.DefaultConfig()
	cfg.Level = level
	cfg.Format = format
	cfg.EnableColors = false
	cfg.EnableTimestamp = false
	cfg.Output = &buf
	return logx.NewLogger(cfg), &buf
}

func TestLogger_LevelFiltering(t *testing.T) {
	logger, buf := newBufferedLogger(logx.LevelWarn, logx.FormatConsole)

	logger.WithField("k", "v").Info("should be filtered")
	logger.WithField("k", "v").Warn("should appear")

	out := buf.String()
	if strings.Contains(out, "should be filtered") {
		t.Fatalf("info line leaked through warn level: %q", out)
	}
	if !strings.Contains(out, "should appear") {
		t.Fatalf("warn line missing: %q", out)
	}
}

func TestLogger_JSONFormatCarriesFields(t *testing.T) {
	logger, buf := newBufferedLogger(logx.LevelDebug, logx.FormatJSON)

	logger.WithFields(logx.Fields{"task": "t1", "attempt": 3}).Debug("retrying")

	var record map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if record["message"] != "retrying" || record["task"] != "t1" {
		t.Fatalf("unexpected record: %v", record)
	}
	if record["level"] != "DEBUG" {
		t.Fatalf("expected DEBUG level, got %v", record["level"])
	}
}

func TestParseLevel(t *testing.T) {
	if logx.ParseLevel("warning") != logx.LevelWarn {
		t.Fatal("expected warning to parse as warn")
	}
	if logx.ParseLevel("bogus") != logx.LevelInfo {
		t.Fatal("unknown levels should default to info")
	}
}
