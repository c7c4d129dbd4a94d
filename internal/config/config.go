// Package config loads client settings from, in increasing precedence,
// built-in defaults, a YAML file, a .env file and the process environment.
// Command-line flags are applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/noteguard/pkg/api"
)

// Environment variable names.
const (
	EnvAPIURL      = "NOTEGUARD_API_URL"
	EnvEnvironment = "NOTEGUARD_ENV"
	EnvOrigin      = "NOTEGUARD_ORIGIN"
	EnvTimeout     = "NOTEGUARD_TIMEOUT"
	EnvSessionFile = "NOTEGUARD_SESSION_FILE"
)

const (
	Development = "development"
	Production  = "production"
)

// Config holds the resolved client settings.
type Config struct {
	APIURL      string        `yaml:"api_url"`
	Environment string        `yaml:"environment"`
	Origin      string        `yaml:"origin"`
	Timeout     time.Duration `yaml:"timeout"`
	SessionFile string        `yaml:"session_file"`
}

// Dir is the per-user configuration directory, ~/.config/noteguard on Linux.
func Dir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		base = "."
	}
	return filepath.Join(base, "noteguard")
}

// DefaultFile is the YAML file read when none is named.
func DefaultFile() string {
	return filepath.Join(Dir(), "config.yaml")
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Environment: Development,
		Timeout:     api.DefaultTimeout,
		SessionFile: filepath.Join(Dir(), "session.json"),
	}
}

// Sources names where Load reads from. Empty paths are skipped. Lookup
// defaults to os.LookupEnv.
type Sources struct {
	File   string
	DotEnv string
	Lookup func(key string) (string, bool)
}

// Load resolves a Config. Missing files are not an error.
func Load(src Sources) (Config, error) {
	cfg := Default()

	if src.File != "" {
		if err := cfg.loadYAML(src.File); err != nil {
			return Config{}, err
		}
	}

	dotenv := map[string]string{}
	if src.DotEnv != "" {
		values, err := godotenv.Read(src.DotEnv)
		switch {
		case err == nil:
			dotenv = values
		case !errors.Is(err, os.ErrNotExist):
			return Config{}, fmt.Errorf("failed to read %s: %w", src.DotEnv, err)
		}
	}

	lookup := src.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}
	// The process environment wins over .env, as godotenv.Load does.
	get := func(key string) (string, bool) {
		if v, ok := lookup(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}

	if v, ok := get(EnvAPIURL); ok {
		cfg.APIURL = v
	}
	if v, ok := get(EnvEnvironment); ok {
		cfg.Environment = v
	}
	if v, ok := get(EnvOrigin); ok {
		cfg.Origin = v
	}
	if v, ok := get(EnvSessionFile); ok {
		cfg.SessionFile = v
	}
	if v, ok := get(EnvTimeout); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s %q: %w", EnvTimeout, v, err)
		}
		cfg.Timeout = d
	}

	return cfg, cfg.Validate()
}

func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// Validate checks the settings for consistency.
func (c Config) Validate() error {
	switch strings.ToLower(c.Environment) {
	case Development, Production, "dev", "prod":
	default:
		return fmt.Errorf("unknown environment %q", c.Environment)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.SessionFile == "" {
		return errors.New("session file must be set")
	}
	return nil
}

// IsProduction reports whether the client talks to a co-hosted backend.
func (c Config) IsProduction() bool {
	env := strings.ToLower(c.Environment)
	return env == Production || env == "prod"
}

// BaseURL is the API root the client should use.
func (c Config) BaseURL() string {
	return api.ResolveBaseURL(c.APIURL, c.IsProduction())
}
