package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the application configuration.
type Config struct {
	// DataDir is where the store keeps its files.
	DataDir string `yaml:"data_dir"`

	// Store selects the storage backend: "file" (default) or "sqlite".
	Store string `yaml:"store"`

	// Year is the fixed calendar year of a session. Zero means the current year.
	Year int `yaml:"year"`

	// Timezone is the IANA name of the local calendar. Empty means the system zone.
	Timezone string `yaml:"timezone"`

	LogLevel string `yaml:"log_level"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		DataDir:  "./data",
		Store:    "file",
		Year:     time.Now().Year(),
		LogLevel: "info",
	}
}

// Normalize fills in missing values with defaults and rejects an unknown store.
func (c *Config) Normalize() error {
	if c.DataDir == "" {
		c.DataDir = "./data"
	}
	switch c.Store {
	case "":
		c.Store = "file"
	case "file", "sqlite":
	default:
		return fmt.Errorf("unknown store %q, expected file or sqlite", c.Store)
	}
	if c.Year <= 0 {
		c.Year = time.Now().Year()
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	return nil
}

// Load reads the YAML file at path. A missing file or empty path yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Normalize(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

// ApplyEnv overrides values with the TIMETABLE_* variables (and LOG_LEVEL) found through getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv("TIMETABLE_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := getenv("TIMETABLE_STORE"); v != "" {
		c.Store = v
	}
	if v := getenv("TIMETABLE_YEAR"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid TIMETABLE_YEAR %q: %w", v, err)
		}
		c.Year = year
	}
	if v := getenv("TIMETABLE_TIMEZONE"); v != "" {
		c.Timezone = v
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	return c.Normalize()
}

// Location resolves Timezone, falling back to time.Local.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone '%s': %w", c.Timezone, err)
	}
	return loc, nil
}
