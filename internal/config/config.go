package config

import (
	"log"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	// LLM settings
	UseMockLLM   bool   `env:"FINBOT_USE_MOCK_LLM" envDefault:"false"`
	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	GCPProject   string `env:"FINBOT_GCP_PROJECT"`
	GCPLocation  string `env:"FINBOT_GCP_LOCATION" envDefault:"us-central1"`
	ModelName    string `env:"FINBOT_MODEL_NAME" envDefault:"gemini-2.5-flash"`

	// Storage
	StorageBackend string `env:"FINBOT_STORAGE_BACKEND" envDefault:"file"`
	StateDir       string `env:"FINBOT_STATE_DIR"` // empty = ~/.finbot

	// API surface
	Port string `env:"FINBOT_PORT" envDefault:"8080"`
}

// New reads .env (if present) and the process environment.
func New() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	return cfg
}

// HasGeminiCredentials reports whether a real Gemini backend can be
// reached with the current configuration.
func (c *Config) HasGeminiCredentials() bool {
	return c.GeminiAPIKey != "" || c.GCPProject != ""
}
