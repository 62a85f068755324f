package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config is the deployment-provided configuration for the API process.
type Config struct {
	// Port the HTTP server listens on.
	Port string `env:"PORT" envDefault:"8080"`

	// StorageBackend selects the repository implementation:
	// "file" (default), "memory", or "postgres".
	StorageBackend string `env:"STORAGE_BACKEND" envDefault:"file"`

	// DataDir holds the JSON snapshot files for the file backend.
	DataDir string `env:"DATA_DIR" envDefault:"data"`

	// DatabaseURL is required when StorageBackend is "postgres".
	DatabaseURL string `env:"DATABASE_URL"`
}

// Load parses configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	switch cfg.StorageBackend {
	case "file", "memory":
	case "postgres":
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("DATABASE_URL is required when STORAGE_BACKEND=postgres")
		}
	default:
		return Config{}, fmt.Errorf("unknown STORAGE_BACKEND %q (expected file|memory|postgres)", cfg.StorageBackend)
	}
	return cfg, nil
}
