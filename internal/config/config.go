package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/clustgo/clust/internal/client"
	"github.com/clustgo/clust/internal/messages"
)

// Config is the resolved CLI configuration.
type Config struct {
	API      APIConfig      `mapstructure:"api"`
	Defaults DefaultsConfig `mapstructure:"defaults"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Output   OutputConfig   `mapstructure:"output"`
	Debug    DebugConfig    `mapstructure:"debug"`
}

// APIConfig configures the HTTP client.
type APIConfig struct {
	Key     string        `mapstructure:"key"`
	Version string        `mapstructure:"version"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// DefaultsConfig holds request defaults applied when flags and prompt files are silent.
type DefaultsConfig struct {
	Model         string   `mapstructure:"model"`
	MaxTokens     int      `mapstructure:"max_tokens"`
	System        string   `mapstructure:"system"`
	Temperature   *float64 `mapstructure:"temperature"`
	TopP          *float64 `mapstructure:"top_p"`
	TopK          *int     `mapstructure:"top_k"`
	StopSequences []string `mapstructure:"stop_sequences"`
	UserID        string   `mapstructure:"user_id"`
	MaxDimension  int      `mapstructure:"max_dimension"`
}

// LoggingConfig selects log level and encoding.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// OutputConfig selects the default render format.
type OutputConfig struct {
	Format string `mapstructure:"format"`
}

// DebugConfig holds troubleshooting switches.
type DebugConfig struct {
	TraceFile string `mapstructure:"trace_file"`
}

// APIKey returns the configured key.
func (c *Config) APIKey() client.APIKey {
	return client.NewAPIKey(c.API.Key)
}

// APIVersion parses the configured version, defaulting when empty.
func (c *Config) APIVersion() (client.Version, error) {
	return client.ParseVersion(strings.TrimSpace(c.API.Version))
}

// Model parses the configured default model.
func (c *Config) Model() (messages.ClaudeModel, error) {
	if strings.TrimSpace(c.Defaults.Model) == "" {
		return messages.DefaultClaudeModel, nil
	}
	return messages.ParseClaudeModel(strings.TrimSpace(c.Defaults.Model))
}

// Validate reports values that cannot be used to build a client or a request.
func (c *Config) Validate() error {
	if _, err := c.APIVersion(); err != nil {
		return fmt.Errorf("api.version: %w", err)
	}
	model, err := c.Model()
	if err != nil {
		return fmt.Errorf("defaults.model: %w", err)
	}
	if c.Defaults.MaxTokens != 0 {
		if _, err := messages.NewMaxTokens(c.Defaults.MaxTokens, model); err != nil {
			return fmt.Errorf("defaults.max_tokens: %w", err)
		}
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("api.timeout: must not be negative")
	}
	if c.Defaults.MaxDimension < 0 {
		return fmt.Errorf("defaults.max_dimension: must not be negative")
	}
	return nil
}
