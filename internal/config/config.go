// Package config assembles runtime configuration from a local .env file and
// the process environment. The result is a plain struct handed to whoever
// needs it; there is no package-level state to reach for.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds everything the API server and CLI need to run.
type Config struct {
	// GeminiAPIKey authenticates against the Gemini API.
	GeminiAPIKey string

	// Model is the Gemini model name used for statement extraction.
	Model string

	// Port is the HTTP server port.
	Port string

	// LogLevel is the zerolog level name ("debug", "info", ...).
	LogLevel string
}

const defaultModel = "gemini-2.5-flash"

// Load reads configuration from .env (if present) and the environment.
// A missing .env file is not an error; explicit environment variables win.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		Model:        envOr("ANALYZER_MODEL", defaultModel),
		Port:         envOr("PORT", "8080"),
		LogLevel:     envOr("LOG_LEVEL", "info"),
	}
}

// ValidateForExtraction checks the fields the Gemini extractor requires.
func (c Config) ValidateForExtraction() error {
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("config: GEMINI_API_KEY is not set")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
