package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeConfigDefaults(t *testing.T) {
	cfg, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "data/mapping_rules.xlsx", cfg.Data.MappingRulesPath)
	assert.Equal(t, "data/output_template.xlsx", cfg.Data.OutputTemplatePath)
	assert.True(t, cfg.Data.CacheDocuments)
	assert.Equal(t, "AWG Item Code", cfg.Extraction.HeaderMarker)
	assert.Equal(t, "manufacturer", cfg.Extraction.StopMarker)
	assert.Equal(t, 1, cfg.Extraction.StopColumn)
	assert.Equal(t, "gpt-4o", cfg.AI.Model)
	assert.InDelta(t, 0.4, cfg.AI.Temperature, 1e-9)
	assert.Equal(t, 800, cfg.AI.MaxTokens)
}

func TestInitializeConfigEnvOverride(t *testing.T) {
	t.Setenv("DEALSUB_LOG_LEVEL", "debug")
	t.Setenv("OPENAI_API_KEY", "test-key")

	cfg, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "test-key", cfg.AI.APIKey)
}

func TestValidateConfig(t *testing.T) {
	valid, err := InitializeConfig()
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{name: "bad log level", mutate: func(c *Config) { c.Log.Level = "verbose" }},
		{name: "bad log format", mutate: func(c *Config) { c.Log.Format = "xml" }},
		{name: "empty mapping path", mutate: func(c *Config) { c.Data.MappingRulesPath = "" }},
		{name: "empty template path", mutate: func(c *Config) { c.Data.OutputTemplatePath = "" }},
		{name: "empty header marker", mutate: func(c *Config) { c.Extraction.HeaderMarker = "" }},
		{name: "negative stop column", mutate: func(c *Config) { c.Extraction.StopColumn = -1 }},
		{name: "temperature out of range", mutate: func(c *Config) { c.AI.Temperature = 3.5 }},
		{name: "max tokens out of range", mutate: func(c *Config) { c.AI.MaxTokens = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := *valid
			tt.mutate(&cfg)
			assert.Error(t, validateConfig(&cfg))
		})
	}
}

func TestConfigureLoggingFromConfig(t *testing.T) {
	cfg, err := InitializeConfig()
	require.NoError(t, err)

	cfg.Log.Format = "json"
	logger := ConfigureLoggingFromConfig(cfg)
	require.NotNil(t, logger)
}

func TestGetEnv(t *testing.T) {
	t.Setenv("DEALSUB_TEST_KEY", "value")
	assert.Equal(t, "value", GetEnv("DEALSUB_TEST_KEY", "fallback"))
	assert.Equal(t, "fallback", GetEnv("DEALSUB_TEST_KEY_MISSING", "fallback"))

	os.Unsetenv("OPENAI_API_KEY")
	assert.Equal(t, "", GetOpenAIAPIKey())
}
