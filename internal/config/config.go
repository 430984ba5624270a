package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the CLI and the stub server.
type Config struct {
	Port string
	Env  string

	// BaseURL is the backend the CLI talks to. Defaults to the hosted
	// backend; point it at a local stub server for development.
	BaseURL string

	// CacheDir is where the local conversation cache lives. Empty selects
	// ~/.medibot.
	CacheDir string

	// UserID and UserEmail identify the signed-in user for the CLI. The
	// mobile app gets these from its auth provider; the CLI takes them from
	// the environment after provisioning an account.
	UserID    string
	UserEmail string
}

// Load reads configuration from environment variables.
// In development, it loads from .env file if present.
func Load() *Config {
	// Load .env file if it exists (for development)
	_ = godotenv.Load()

	return &Config{
		Port:      getEnv("PORT", "8080"),
		Env:       getEnv("ENV", "development"),
		BaseURL:   os.Getenv("MEDIBOT_URL"),
		CacheDir:  os.Getenv("MEDIBOT_CACHE_DIR"),
		UserID:    os.Getenv("MEDIBOT_USER_ID"),
		UserEmail: os.Getenv("MEDIBOT_USER_EMAIL"),
	}
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
