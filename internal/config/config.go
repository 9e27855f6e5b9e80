package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Config holds everything the binaries need from the environment.
type Config struct {
	// GCPProject is the Google Cloud project that owns the ledger dataset.
	GCPProject string
	// Dataset is the BigQuery dataset holding the ledger tables.
	Dataset string
	// Bucket is the GCS bucket CSV exports are ingested from.
	Bucket string
	// GeminiModel is the model name used by the generative fallback.
	GeminiModel string
	// Port is the HTTP listen port for cmd/api.
	Port string
	// LLMTimeout bounds a single generative fallback call.
	LLMTimeout time.Duration
	// ForecastDays is the default projection horizon.
	ForecastDays int
}

// Load reads a .env file if present, then the process environment.
func Load(log zerolog.Logger) *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, relying on process environment")
	}

	return &Config{
		GCPProject:   getEnv("GCP_PROJECT", ""),
		Dataset:      getEnv("LEDGER_DATASET", "cashlens"),
		Bucket:       getEnv("GCS_BUCKET", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		Port:         getEnv("PORT", "8080"),
		LLMTimeout:   getEnvDuration("LLM_TIMEOUT", 30*time.Second),
		ForecastDays: getEnvInt("FORECAST_DAYS", 90),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
