// Package config loads runtime configuration from a YAML file and
// AGENTFLOW_* environment variables, with environment taking precedence.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the runtime configuration of the application
type Config struct {
	// Model is the chat completion model identifier
	Model string `mapstructure:"model"`

	// OpenAIAPIKey authenticates generation requests
	OpenAIAPIKey string `mapstructure:"openai_api_key"`

	// TavilyAPIKey authenticates web search requests
	TavilyAPIKey string `mapstructure:"tavily_api_key"`

	// StorageDir is the base directory for persisted artifacts
	StorageDir string `mapstructure:"storage_dir"`

	// RedisAddr enables Redis-backed conversation memory when set;
	// empty means in-process memory
	RedisAddr string `mapstructure:"redis_addr"`

	// MaxSteps bounds the number of node executions per run
	MaxSteps int `mapstructure:"max_steps"`

	// NodeTimeout bounds each collaborator attempt
	NodeTimeout time.Duration `mapstructure:"node_timeout"`

	// MaxRetries is the number of re-attempts for transient collaborator
	// failures
	MaxRetries int `mapstructure:"max_retries"`

	// RetryBackoff is the initial delay between retry attempts
	RetryBackoff time.Duration `mapstructure:"retry_backoff"`

	// LogLevel selects the logging verbosity (debug, info, warn, error)
	LogLevel string `mapstructure:"log_level"`
}

// Load reads configuration from the given file (optional, may be empty)
// and from AGENTFLOW_* environment variables.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("model", "gpt-4o-mini")
	v.SetDefault("storage_dir", "./md")
	v.SetDefault("max_steps", 25)
	v.SetDefault("node_timeout", 60*time.Second)
	v.SetDefault("max_retries", 2)
	v.SetDefault("retry_backoff", 500*time.Millisecond)
	v.SetDefault("log_level", "info")

	v.SetEnvPrefix("AGENTFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks that the configuration is usable for serving requests
func (c *Config) Validate() error {
	if c.OpenAIAPIKey == "" {
		return fmt.Errorf("openai_api_key is required (set AGENTFLOW_OPENAI_API_KEY)")
	}
	if c.MaxSteps <= 0 {
		return fmt.Errorf("max_steps must be positive, got %d", c.MaxSteps)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries cannot be negative, got %d", c.MaxRetries)
	}
	return nil
}
