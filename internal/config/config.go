// Package config loads environment-driven settings for the API server and
// CLI. A .env file in the working directory is honored when present.
package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
}

// DatabaseConfig holds database connection settings. An empty URL disables
// persistence.
type DatabaseConfig struct {
	URL string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// Load reads configuration from the environment, after loading a .env file
// if one exists.
func Load() *Config {
	// Best effort; absence of a .env file is the normal case in production.
	_ = godotenv.Load()

	return &Config{
		Database: DatabaseConfig{
			URL: getEnvOrDefault("DATABASE_URL", ""),
		},
		Server: ServerConfig{
			Port:    getEnvOrDefault("PORT", "8080"),
			GinMode: getEnvOrDefault("GIN_MODE", "release"),
		},
	}
}

func getEnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
