package config_test

import (
	"testing"
	"time"

	"github.com/Abraxas-365/orquesta/pkg/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := config.Load()

	if cfg.Flow.MaxConcurrency != 4 {
		t.Fatalf("expected default flow concurrency 4, got %d", cfg.Flow.MaxConcurrency)
	}
	if cfg.Retry.MaxAttempts != 3 || cfg.Retry.Multiplier != 2.0 {
		t.Fatalf("unexpected retry defaults: %+v", cfg.Retry)
	}
	if cfg.Track.SweepInterval != 30*time.Second {
		t.Fatalf("expected 30s sweep interval, got %v", cfg.Track.SweepInterval)
	}
	if !cfg.Batch.ContinueOnError {
		t.Fatal("expected continue-on-error by default")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("FLOWX_MAX_CONCURRENCY", "8")
	t.Setenv("RETRYX_INITIAL_DELAY", "250ms")
	t.Setenv("RETRYX_BACKOFF", "linear")
	t.Setenv("BATCHX_CONTINUE_ON_ERROR", "false")
	t.Setenv("TRACKX_WARN_THRESHOLD", "1024")

	cfg := config.Load()

	if cfg.Flow.MaxConcurrency != 8 {
		t.Fatalf("expected 8, got %d", cfg.Flow.MaxConcurrency)
	}
	if cfg.Retry.InitialDelay != 250*time.Millisecond {
		t.Fatalf("expected 250ms, got %v", cfg.Retry.InitialDelay)
	}
	if cfg.Retry.Backoff != "linear" {
		t.Fatalf("expected linear, got %s", cfg.Retry.Backoff)
	}
	if cfg.Batch.ContinueOnError {
		t.Fatal("expected continue-on-error disabled")
	}
	if cfg.Track.WarnThreshold != 1024 {
		t.Fatalf("expected 1024, got %d", cfg.Track.WarnThreshold)
	}
}

func TestLoad_MalformedValuesFallBack(t *testing.T) {
	t.Setenv("FLOWX_MAX_CONCURRENCY", "not-a-number")
	t.Setenv("FLOWX_TASK_TIMEOUT", "soon")

	cfg := config.Load()

	if cfg.Flow.MaxConcurrency != 4 {
		t.Fatalf("malformed int should fall back to default, got %d", cfg.Flow.MaxConcurrency)
	}
	if cfg.Flow.TaskTimeout != 30*time.Second {
		t.Fatalf("malformed duration should fall back to default, got %v", cfg.Flow.TaskTimeout)
	}
}
