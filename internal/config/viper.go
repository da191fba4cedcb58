// Package config provides Viper-based hierarchical configuration management.
package config

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`

	Data struct {
		MappingRulesPath   string `mapstructure:"mapping_rules_path"`
		OutputTemplatePath string `mapstructure:"output_template_path"`
		CacheDocuments     bool   `mapstructure:"cache_documents"`
	} `mapstructure:"data"`

	Extraction struct {
		HeaderMarker string `mapstructure:"header_marker"`
		StopMarker   string `mapstructure:"stop_marker"`
		StopColumn   int    `mapstructure:"stop_column"`
	} `mapstructure:"extraction"`

	AI struct {
		Model       string  `mapstructure:"model"`
		Temperature float64 `mapstructure:"temperature"`
		MaxTokens   int     `mapstructure:"max_tokens"`
		APIKey      string  `mapstructure:"api_key"` // Never serialize the API key
	} `mapstructure:"ai"`

	Email struct {
		Sender string `mapstructure:"sender"`
		APIKey string `mapstructure:"api_key"` // Never serialize the API key
	} `mapstructure:"email"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading:
// defaults, then an optional yaml config file, then DEALSUB_* environment
// variables, with API keys always bound from their conventional env names.
func InitializeConfig() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.dealsub")
	v.AddConfigPath(".dealsub")
	v.AddConfigPath(".")

	v.SetEnvPrefix("DEALSUB")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Continue with defaults and env vars; a broken config file
			// should not take the tool down.
			fmt.Printf("Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	// API keys come from their conventional, unprefixed env names.
	if err := v.BindEnv("ai.api_key", "OPENAI_API_KEY"); err != nil {
		fmt.Printf("Warning: failed to bind OPENAI_API_KEY environment variable: %v\n", err)
	}
	if err := v.BindEnv("email.api_key", "SENDGRID_API_KEY"); err != nil {
		fmt.Printf("Warning: failed to bind SENDGRID_API_KEY environment variable: %v\n", err)
	}
	if err := v.BindEnv("email.sender", "SENDER_EMAIL"); err != nil {
		fmt.Printf("Warning: failed to bind SENDER_EMAIL environment variable: %v\n", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("data.mapping_rules_path", "data/mapping_rules.xlsx")
	v.SetDefault("data.output_template_path", "data/output_template.xlsx")
	v.SetDefault("data.cache_documents", true)

	v.SetDefault("extraction.header_marker", "AWG Item Code")
	v.SetDefault("extraction.stop_marker", "manufacturer")
	v.SetDefault("extraction.stop_column", 1)

	v.SetDefault("ai.model", "gpt-4o")
	v.SetDefault("ai.temperature", 0.4)
	v.SetDefault("ai.max_tokens", 800)

	v.SetDefault("email.sender", "noreply@rehub.com")
}

func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if config.Data.MappingRulesPath == "" {
		return fmt.Errorf("data.mapping_rules_path must not be empty")
	}
	if config.Data.OutputTemplatePath == "" {
		return fmt.Errorf("data.output_template_path must not be empty")
	}

	if config.Extraction.HeaderMarker == "" {
		return fmt.Errorf("extraction.header_marker must not be empty")
	}
	if config.Extraction.StopColumn < 0 {
		return fmt.Errorf("extraction.stop_column must not be negative, got: %d", config.Extraction.StopColumn)
	}

	if config.AI.Temperature < 0.0 || config.AI.Temperature > 2.0 {
		return fmt.Errorf("ai.temperature must be between 0.0 and 2.0, got: %f", config.AI.Temperature)
	}
	if config.AI.MaxTokens < 1 || config.AI.MaxTokens > 32000 {
		return fmt.Errorf("ai.max_tokens must be between 1 and 32000, got: %d", config.AI.MaxTokens)
	}

	return nil
}

// ConfigureLoggingFromConfig builds a logrus logger from the Config struct.
func ConfigureLoggingFromConfig(config *Config) *logrus.Logger {
	logger := logrus.New()

	logLevel, err := logrus.ParseLevel(strings.ToLower(config.Log.Level))
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", config.Log.Level)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if strings.ToLower(config.Log.Format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}
