package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

const Version = "0.1.0"

// Fixed upstream feed endpoints
const (
	FirstEndpoint  = "https://sc.cnbc.com/applications/mobileapps/ios/stage/first/items.json"
	SecondEndpoint = "https://sc.cnbc.com/applications/mobileapps/ios/stage/second/items.json"
)

// Config holds the pipeline configuration, optionally read from TOML
type Config struct {
	Endpoints      []string `toml:"endpoints"`
	Sequential     bool     `toml:"sequential"`
	TimeoutSeconds int      `toml:"timeout_seconds"`
	UserAgent      string   `toml:"user_agent"`
}

func Default() *Config {
	return &Config{
		Endpoints:      []string{FirstEndpoint, SecondEndpoint},
		Sequential:     false,
		TimeoutSeconds: 30,
		UserAgent:      "feedstitch/" + Version,
	}
}

// Timeout is the per request timeout handed to the HTTP client
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c *Config) Validate() error {
	if len(c.Endpoints) == 0 {
		return errors.New("at least one endpoint is required")
	}
	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("timeout must be positive, got %d", c.TimeoutSeconds)
	}
	return nil
}

// LoadConfig reads the TOML file at path on top of the defaults. An empty
// path returns the defaults.
func LoadConfig(path string) (*Config, error) {
	config := Default()
	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return config, nil
}
