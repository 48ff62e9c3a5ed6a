// Package config loads the process configuration: provider credentials,
// endpoints, and chat defaults. The configuration is built once at
// startup and passed into composition explicitly; the agent core never
// reads the environment itself.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mfreitas/agentchat/internal/llm"
)

// Config is the complete process configuration.
type Config struct {
	// DefaultModel is used when the caller does not name one.
	DefaultModel string `yaml:"default_model"`
	// HistoryCapacity is the default conversation window size.
	HistoryCapacity int `yaml:"history_capacity"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	Providers Providers `yaml:"providers"`
	Server    Server    `yaml:"server"`
}

// Providers holds credentials and endpoints for the supported backends.
type Providers struct {
	OpenAI    OpenAI    `yaml:"openai"`
	Anthropic Anthropic `yaml:"anthropic"`
	Ollama    Ollama    `yaml:"ollama"`
}

// OpenAI configures the hosted OpenAI (or compatible) backend.
type OpenAI struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
}

// Anthropic configures the hosted Anthropic backend.
type Anthropic struct {
	APIKey string `yaml:"api_key"`
}

// Ollama configures the local inference backend.
type Ollama struct {
	Host string `yaml:"host"`
}

// Server configures the HTTP facade.
type Server struct {
	Addr   string `yaml:"addr"`
	APIKey string `yaml:"api_key"`
}

// Default returns the configuration defaults applied before file and
// environment values.
func Default() *Config {
	return &Config{
		HistoryCapacity: 10,
		LogLevel:        "info",
		Server:          Server{Addr: ":8080"},
	}
}

// Load builds the configuration from defaults, an optional YAML file,
// and environment variable overrides, in that precedence order.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.Providers.OpenAI.APIKey = v
	}
	if v := os.Getenv("OPENAI_BASE_URL"); v != "" {
		c.Providers.OpenAI.BaseURL = v
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		c.Providers.Anthropic.APIKey = v
	}
	if v := os.Getenv("OLLAMA_HOST"); v != "" {
		c.Providers.Ollama.Host = v
	}
	if v := os.Getenv("AGENTCHAT_API_KEY"); v != "" {
		c.Server.APIKey = v
	}
}

// Validate checks the loaded configuration for values the rest of the
// process cannot work with.
func (c *Config) Validate() error {
	if c.HistoryCapacity <= 0 {
		return fmt.Errorf("history_capacity must be greater than zero, got %d", c.HistoryCapacity)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel maps the configured log level to a slog.Level.
func (c *Config) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log_level %q", c.LogLevel)
}

// RegistryConfig maps the provider section onto the llm registry input.
func (c *Config) RegistryConfig() llm.RegistryConfig {
	return llm.RegistryConfig{
		OpenAIAPIKey:    c.Providers.OpenAI.APIKey,
		OpenAIBaseURL:   c.Providers.OpenAI.BaseURL,
		AnthropicAPIKey: c.Providers.Anthropic.APIKey,
		OllamaHost:      c.Providers.Ollama.Host,
	}
}
