package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// Config is the top-level momochat configuration, corresponding to
// .momochat.yml. The backend base URL is injected into the chat client,
// the health pinger and the proxy at construction time; nothing reads it
// from the environment after startup.
type Config struct {
	Port            int    `yaml:"port" koanf:"port"`
	BackendBaseURL  string `yaml:"backend_base_url" koanf:"backend_base_url"`
	DataDir         string `yaml:"data_dir" koanf:"data_dir"`
	PingInterval    string `yaml:"ping_interval" koanf:"ping_interval"`
	AllowAllOrigins bool   `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (MOMOCHAT_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables: MOMOCHAT_PORT -> port, etc.
	if err := k.Load(env.Provider("MOMOCHAT_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "MOMOCHAT_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}

	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}

	if c.BackendBaseURL != "" {
		u, err := url.Parse(c.BackendBaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid backend_base_url %q", c.BackendBaseURL)
		}
	}

	if c.PingInterval != "" {
		if _, err := time.ParseDuration(c.PingInterval); err != nil {
			return fmt.Errorf("invalid ping_interval %q: %w", c.PingInterval, err)
		}
	}

	return nil
}

// PingIntervalDuration returns the parsed keep-alive interval, falling back
// to the default when unset. Validate catches malformed values; this
// returns the default for them as well so callers never receive zero.
func (c *Config) PingIntervalDuration() time.Duration {
	if c.PingInterval == "" {
		return defaultPingInterval
	}
	d, err := time.ParseDuration(c.PingInterval)
	if err != nil || d <= 0 {
		return defaultPingInterval
	}
	return d
}
