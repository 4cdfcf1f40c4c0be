package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/conjure-cli/conjure/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, yaml string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "conjure.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
model: gpt-5-mini
base_url: https://gateway.example.com
max_tokens: 2048
max_iterations: 5
reasoning: medium
image:
  size: 1024x1024
  format: png
  compression: 80
`)

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "gpt-5-mini", cfg.Model)
	assert.Equal(t, "https://gateway.example.com", cfg.BaseURL)
	assert.Equal(t, 2048, cfg.MaxTokens)
	assert.Equal(t, 5, cfg.MaxIterations)
	assert.Equal(t, "medium", cfg.Reasoning)
	assert.Equal(t, "1024x1024", cfg.Image.Size)
	require.NotNil(t, cfg.Image.Compression)
	assert.Equal(t, 80, *cfg.Image.Compression)
}

func TestLoadConfig_CompressionZeroVsUnset(t *testing.T) {
	cfg, err := config.LoadConfig(writeConfig(t, "image:\n  compression: 0\n"))
	require.NoError(t, err)
	require.NotNil(t, cfg.Image.Compression)
	assert.Equal(t, 0, *cfg.Image.Compression)

	cfg, err = config.LoadConfig(writeConfig(t, "model: gpt-5-mini\n"))
	require.NoError(t, err)
	assert.Nil(t, cfg.Image.Compression)
}

func TestLoadConfig_ExpandsEnvVars(t *testing.T) {
	t.Setenv("CONJURE_TEST_KEY", "sk-test-123")

	path := writeConfig(t, "api_key: ${CONJURE_TEST_KEY}\n")

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "sk-test-123", cfg.APIKey)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := config.LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: load")
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "model: [unclosed\n")

	_, err := config.LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: parse")
}

func TestFromEnv(t *testing.T) {
	t.Setenv(config.EnvAPIKey, "sk-from-env")
	t.Setenv(config.EnvBaseURL, "https://env.example.com")

	cfg := config.Config{}
	cfg.FromEnv()

	assert.Equal(t, "sk-from-env", cfg.APIKey)
	assert.Equal(t, "https://env.example.com", cfg.BaseURL)
}

func TestFromEnv_ConfigWins(t *testing.T) {
	t.Setenv(config.EnvAPIKey, "sk-from-env")
	t.Setenv(config.EnvBaseURL, "https://env.example.com")

	cfg := config.Config{APIKey: "sk-explicit", BaseURL: "https://explicit.example.com"}
	cfg.FromEnv()

	assert.Equal(t, "sk-explicit", cfg.APIKey)
	assert.Equal(t, "https://explicit.example.com", cfg.BaseURL)
}

func TestValidate_MissingKey(t *testing.T) {
	err := config.Config{}.Validate()
	require.Error(t, err)

	var missing *config.MissingKeyError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, config.EnvAPIKey, missing.EnvVar)
	assert.Contains(t, err.Error(), config.EnvAPIKey)
}

func TestValidate_InvalidReasoning(t *testing.T) {
	err := config.Config{APIKey: "sk", Reasoning: "maximum"}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reasoning")
}

func TestValidate_CompressionBounds(t *testing.T) {
	over := 101
	err := config.Config{APIKey: "sk", Image: config.ImageConfig{Compression: &over}}.Validate()
	require.Error(t, err)

	full := 100
	err = config.Config{APIKey: "sk", Image: config.ImageConfig{Compression: &full}}.Validate()
	require.NoError(t, err)
}

func TestValidate_OK(t *testing.T) {
	cfg := config.Config{APIKey: "sk", Reasoning: "high", MaxTokens: 100, MaxIterations: 3}
	require.NoError(t, cfg.Validate())
}
