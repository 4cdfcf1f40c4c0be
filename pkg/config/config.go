// Package config loads and validates conjure configuration from YAML and the
// environment.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	// EnvAPIKey holds the provider credential.
	EnvAPIKey = "OPENAI_API_KEY" //nolint:gosec // environment variable name, not a secret

	// EnvBaseURL overrides the provider base URL, for API-compatible
	// gateways.
	EnvBaseURL = "OPENAI_BASE_URL"

	// DefaultFileName is the config file looked up in the working directory
	// when no explicit path is given.
	DefaultFileName = "conjure.yaml"
)

// MissingKeyError reports an absent credential. It is raised before any
// request is made.
type MissingKeyError struct {
	EnvVar string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("config: missing API key: set %s", e.EnvVar)
}

// Config is the top-level conjure configuration.
type Config struct {
	Model         string      `yaml:"model"`
	BaseURL       string      `yaml:"base_url"`
	APIKey        string      `yaml:"api_key"` //nolint:gosec // configuration field, not a hardcoded secret
	Reasoning     string      `yaml:"reasoning"`
	MaxTokens     int         `yaml:"max_tokens"`
	MaxIterations int         `yaml:"max_iterations"`
	Image         ImageConfig `yaml:"image"`
}

// ImageConfig holds defaults for image generation. Compression is a pointer
// so an explicit 0 is distinguishable from unset.
type ImageConfig struct {
	Size        string `yaml:"size"`
	Quality     string `yaml:"quality"`
	Format      string `yaml:"format"`
	Background  string `yaml:"background"`
	Compression *int   `yaml:"compression,omitempty"`
}

// LoadConfig reads a YAML file and returns a Config.
// Environment variables referenced as ${VAR} or $VAR in the YAML are expanded
// before parsing. This allows API keys and other secrets to be kept in
// environment variables (e.g. loaded from a .env file) rather than committed
// in the config.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is caller-provided configuration, not user input
	if err != nil {
		return Config{}, fmt.Errorf("config: load: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse: %w", err)
	}

	return cfg, nil
}

// Load resolves the configuration: the explicit path when given, otherwise
// DefaultFileName in the working directory when present, otherwise an empty
// Config. Environment credentials are merged last via FromEnv.
func Load(path string) (Config, error) {
	var cfg Config

	switch {
	case path != "":
		loaded, err := LoadConfig(path)
		if err != nil {
			return Config{}, err
		}
		cfg = loaded
	default:
		if _, err := os.Stat(DefaultFileName); err == nil {
			loaded, err := LoadConfig(DefaultFileName)
			if err != nil {
				return Config{}, err
			}
			cfg = loaded
		}
	}

	cfg.FromEnv()

	return cfg, nil
}

// FromEnv fills the credential and base URL from the environment when the
// config did not set them. The environment never overrides an explicit
// config value for the base URL, but an env credential wins over an empty
// api_key field.
func (c *Config) FromEnv() {
	if c.APIKey == "" {
		c.APIKey = os.Getenv(EnvAPIKey)
	}

	if c.BaseURL == "" {
		c.BaseURL = os.Getenv(EnvBaseURL)
	}
}

// Validate checks that the configuration is usable for making requests.
func (c Config) Validate() error {
	if c.APIKey == "" {
		return &MissingKeyError{EnvVar: EnvAPIKey}
	}

	switch c.Reasoning {
	case "", "low", "medium", "high":
	default:
		return fmt.Errorf("config: invalid reasoning level %q (use: low, medium, high)", c.Reasoning)
	}

	if c.MaxTokens < 0 {
		return fmt.Errorf("config: max_tokens must not be negative")
	}

	if c.MaxIterations < 0 {
		return fmt.Errorf("config: max_iterations must not be negative")
	}

	if c.Image.Compression != nil && (*c.Image.Compression < 0 || *c.Image.Compression > 100) {
		return fmt.Errorf("config: image compression must be between 0 and 100")
	}

	return nil
}
