// Package config handles magpie.toml configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config represents a magpie.toml configuration file.
type Config struct {
	Corpus CorpusConfig `toml:"corpus"`
	Oracle OracleConfig `toml:"oracle"`
	Log    LogConfig    `toml:"log"`

	// Dir is the directory containing the magpie.toml file (set at load time).
	Dir string `toml:"-"`
}

// CorpusConfig configures the program corpus.
type CorpusConfig struct {
	Path string `toml:"path"`
}

// OracleConfig configures the external validity oracle used by reduction.
type OracleConfig struct {
	Command     []string `toml:"command"`
	TimeoutSecs int      `toml:"timeout-secs"`
}

// LogConfig configures logging.
type LogConfig struct {
	Verbosity int `toml:"verbosity"`
}

// Timeout returns the oracle timeout as a duration. Zero means no timeout.
func (o OracleConfig) Timeout() time.Duration {
	return time.Duration(o.TimeoutSecs) * time.Second
}

// CorpusPath returns the absolute path of the corpus database.
func (c *Config) CorpusPath() string {
	return filepath.Join(c.Dir, c.Corpus.Path)
}

// Load parses a magpie.toml file from the given directory.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, "magpie.toml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var c Config
	if err := toml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	c.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	// Defaults
	if c.Corpus.Path == "" {
		c.Corpus.Path = "corpus.db"
	}
	if c.Oracle.TimeoutSecs == 0 {
		c.Oracle.TimeoutSecs = 30
	}

	return &c, nil
}

// Validate checks that the configuration can drive a reduction run.
func (c *Config) Validate() error {
	if len(c.Oracle.Command) == 0 {
		return fmt.Errorf("config: oracle.command must not be empty")
	}
	if c.Oracle.TimeoutSecs < 0 {
		return fmt.Errorf("config: oracle.timeout-secs must not be negative")
	}
	return nil
}
