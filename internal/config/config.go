package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/sadopc/passport/internal/store"
)

// DefaultTracker is the snapshot name the browser tracker used.
const DefaultTracker = "datw_tracker_v1"

type Config struct {
	DBPath   string `validate:"required"`
	LogPath  string `validate:"required"`
	LogLevel string `validate:"oneof=debug info warn error"`
	Tracker  string `validate:"required,max=64,printascii"`
}

// Load reads configuration from the environment, after an optional .env in
// the working directory.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbPath := os.Getenv("PASSPORT_DB")
	if dbPath == "" {
		p, err := store.DefaultDBPath()
		if err != nil {
			return nil, fmt.Errorf("resolve db path: %w", err)
		}
		dbPath = p
	}

	cfg := &Config{
		DBPath:   dbPath,
		LogPath:  getEnv("PASSPORT_LOG", filepath.Join(filepath.Dir(dbPath), "passport.log")),
		LogLevel: getEnv("PASSPORT_LOG_LEVEL", "info"),
		Tracker:  getEnv("PASSPORT_TRACKER", DefaultTracker),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}
