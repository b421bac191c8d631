package core

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds scan settings loaded from a YAML or JSON file. CLI flags are
// merged on top by the cmd package.
type Config struct {
	Insecure  bool     `json:"insecure" yaml:"insecure"`
	Workers   int      `json:"workers" yaml:"workers"`
	Timeout   int      `json:"timeout" yaml:"timeout"` // seconds, connect and read
	Deadline  string   `json:"deadline" yaml:"deadline"`
	RateLimit float64  `json:"rate_limit" yaml:"rate_limit"`
	Proxy     string   `json:"proxy" yaml:"proxy"`
	UserAgent string   `json:"user_agent" yaml:"user_agent"`
	Checks    []string `json:"checks" yaml:"checks"`
	Output    string   `json:"output" yaml:"output"`
	Format    string   `json:"format" yaml:"format"`
	LogLevel  string   `json:"log_level" yaml:"log_level"`
}

// DefaultConfig returns the settings used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Workers:   1,
		Timeout:   20,
		UserAgent: UserAgent(),
		Checks:    []string{"all"},
		Format:    "console",
		LogLevel:  "warn",
	}
}

// LoadConfig reads path over the defaults. Files ending in .yaml or .yml are
// decoded as YAML, anything else as JSON.
func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	cfg := DefaultConfig()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.NewDecoder(f).Decode(cfg)
	default:
		err = json.NewDecoder(f).Decode(cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the scanner cannot honour.
func (c *Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1", ErrInvalidConfig)
	}
	if c.Timeout < 1 {
		return fmt.Errorf("%w: timeout must be at least 1 second", ErrInvalidConfig)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("%w: rate_limit must not be negative", ErrInvalidConfig)
	}
	if _, err := c.DeadlineDuration(); err != nil {
		return err
	}
	return nil
}

// FetchTimeout is the per-phase request timeout.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// DeadlineDuration parses Deadline; empty means no overall deadline.
func (c *Config) DeadlineDuration() (time.Duration, error) {
	if c.Deadline == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Deadline)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("%w: bad deadline %q", ErrInvalidConfig, c.Deadline)
	}
	return d, nil
}
