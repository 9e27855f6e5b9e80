package config

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GCP_PROJECT", "")
	t.Setenv("LEDGER_DATASET", "")
	// Clearing via Setenv leaves empty strings, which LookupEnv still
	// reports as set, so only the unset keys exercise the fallbacks here.
	cfg := Load(zerolog.Nop())

	if cfg.Port == "" {
		t.Error("expected a default port")
	}
	if cfg.LLMTimeout <= 0 {
		t.Error("expected a positive default LLM timeout")
	}
	if cfg.ForecastDays != 90 {
		t.Errorf("ForecastDays = %d, want 90", cfg.ForecastDays)
	}
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("CASHLENS_TEST_INT", "42")
	if got := getEnvInt("CASHLENS_TEST_INT", 7); got != 42 {
		t.Errorf("getEnvInt = %d, want 42", got)
	}
	t.Setenv("CASHLENS_TEST_INT", "not-a-number")
	if got := getEnvInt("CASHLENS_TEST_INT", 7); got != 7 {
		t.Errorf("getEnvInt fallback = %d, want 7", got)
	}
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("CASHLENS_TEST_DUR", "15s")
	if got := getEnvDuration("CASHLENS_TEST_DUR", time.Minute); got != 15*time.Second {
		t.Errorf("getEnvDuration = %v, want 15s", got)
	}
	t.Setenv("CASHLENS_TEST_DUR", "soon")
	if got := getEnvDuration("CASHLENS_TEST_DUR", time.Minute); got != time.Minute {
		t.Errorf("getEnvDuration fallback = %v, want 1m", got)
	}
}
