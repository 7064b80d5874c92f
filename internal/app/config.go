package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/caarlos0/env/v11"
)

// Config controls build and preview behavior. Defaults are resolved once in
// Validate; CONVOPLAY_* environment variables override the zero values before
// flags do.
type Config struct {
	OutputPath string  `env:"CONVOPLAY_OUTPUT"`
	DataDir    string  `env:"CONVOPLAY_DATA_DIR"`
	LogPath    string  `env:"CONVOPLAY_LOG"`
	Workers    int     `env:"CONVOPLAY_WORKERS"`
	Speed      float64 `env:"CONVOPLAY_SPEED"`
	// Motion is "full" or "reduced"; reduced reveals scenarios without
	// animation in the terminal preview.
	Motion string `env:"CONVOPLAY_MOTION"`
	// History disables build-history recording when false.
	History bool `env:"CONVOPLAY_HISTORY"`
}

func DefaultConfig() Config {
	return Config{
		Workers: runtime.NumCPU(),
		Speed:   1,
		Motion:  "full",
		History: true,
	}
}

// FromEnv layers environment overrides onto the defaults.
func FromEnv() (Config, error) {
	cfg := DefaultConfig()
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.Speed <= 0 {
		c.Speed = 1
	}
	switch c.Motion {
	case "", "full", "reduced":
	default:
		return fmt.Errorf("invalid motion level %q", c.Motion)
	}
	if c.Motion == "" {
		c.Motion = "full"
	}
	if c.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return errors.New("cannot resolve user home directory")
		}
		c.DataDir = filepath.Join(home, ".local", "share", "convoplay")
	}
	return nil
}
