package config

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultPath is used when the DESKSPRITE_CONFIG env var is unset.
const DefaultPath = "desksprite.yaml"

// Sprite is one sprite definition entry: a file and how many copies to spawn.
type Sprite struct {
	File  string `yaml:"file"`
	Count int    `yaml:"count"`
}

// Config is the application configuration.
type Config struct {
	PoolSize int      `yaml:"pool_size"`
	Sprites  []Sprite `yaml:"sprites"`
	WatchDir string   `yaml:"watch_dir"`
	LogLevel string   `yaml:"log_level"`
}

// Path returns the config file path, honoring the DESKSPRITE_CONFIG env var.
func Path() string {
	if p := os.Getenv("DESKSPRITE_CONFIG"); p != "" {
		return p
	}
	return DefaultPath
}

// Load reads and validates the config file, applying defaults for anything
// omitted: pool size falls back to the CPU count, sprite counts to 1, log
// level to info.
//
// Parameters:
//   - path: the YAML config file to read
//
// Returns:
//   - *Config: the effective configuration
//   - error: read or parse failure
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}

	if cfg.PoolSize <= 0 {
		cfg.PoolSize = runtime.NumCPU()
	}
	for i := range cfg.Sprites {
		if cfg.Sprites[i].Count <= 0 {
			cfg.Sprites[i].Count = 1
		}
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	return &cfg, nil
}

// SlogLevel maps the configured level name onto a slog level. Unrecognized
// names fall back to info.
//
// Returns:
//   - slog.Level: the level for handler construction
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
