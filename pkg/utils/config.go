package utils

import (
	"fmt"
	"os"
)

type Config struct {
	Addr          string
	DBPath        string
	SessionSecret string
	Production    bool
}

// LoadConfig reads the process environment. The session secret and the
// database path have no fallback: running without them is a startup error.
func LoadConfig() (Config, error) {
	cfg := Config{
		Addr:       os.Getenv("ANISTREAM_ADDR"),
		DBPath:     os.Getenv("ANISTREAM_DB_PATH"),
		Production: os.Getenv("ANISTREAM_ENV") == "production",
	}

	cfg.SessionSecret = os.Getenv("ANISTREAM_SESSION_SECRET")
	if cfg.SessionSecret == "" {
		return Config{}, fmt.Errorf("ANISTREAM_SESSION_SECRET is required")
	}
	if cfg.DBPath == "" {
		return Config{}, fmt.Errorf("ANISTREAM_DB_PATH is required")
	}

	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	return cfg, nil
}
