// Package config loads CLI configuration in three layers: built-in defaults,
// an optional YAML file, then CLUST_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/clustgo/clust/internal/client"
)

const (
	appName   = "clust"
	envPrefix = "CLUST"
)

var (
	appConfig *Config
	configMu  sync.RWMutex
)

// envBinding maps an environment variable to a config path.
type envBinding struct {
	Name string
	Path string
}

// Load reads configuration. An explicit path must exist; otherwise the
// default locations are searched and a missing file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigType("yaml")

	if strings.TrimSpace(path) != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		if dir := DefaultConfigDir(); dir != "" {
			v.AddConfigPath(dir)
		}
		v.AddConfigPath("./config")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	for _, binding := range envBindings() {
		if err := v.BindEnv(binding.Path, binding.Name); err != nil {
			return nil, fmt.Errorf("bind %s: %w", binding.Name, err)
		}
	}

	cfg := &Config{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
			mapstructure.StringToFloat64HookFunc(),
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := decoder.Decode(v.AllSettings()); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if strings.TrimSpace(cfg.API.Key) == "" {
		cfg.API.Key = os.Getenv(client.APIKeyEnv)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	setConfig(cfg)
	return cfg, nil
}

// UsedConfigFile returns the file Load would read for path, or "" when none exists.
func UsedConfigFile(path string) string {
	if strings.TrimSpace(path) != "" {
		return path
	}
	for _, dir := range []string{DefaultConfigDir(), "./config"} {
		if dir == "" {
			continue
		}
		for _, ext := range []string{"yaml", "yml"} {
			candidate := filepath.Join(dir, "config."+ext)
			if _, err := os.Stat(candidate); err == nil {
				return candidate
			}
		}
	}
	return ""
}

// GetConfig returns the most recently loaded configuration.
func GetConfig() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return appConfig
}

func setConfig(cfg *Config) {
	configMu.Lock()
	defer configMu.Unlock()
	appConfig = cfg
}

// DefaultConfigDir returns $XDG_CONFIG_HOME/clust or its platform equivalent.
func DefaultConfigDir() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return ""
	}
	return filepath.Join(dir, appName)
}

// DefaultConfigPath returns the default config file location.
func DefaultConfigPath() string {
	dir := DefaultConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.key", "")
	v.SetDefault("api.version", string(client.DefaultVersion))
	v.SetDefault("api.base_url", client.DefaultBaseURL)
	v.SetDefault("api.timeout", "60s")

	v.SetDefault("defaults.model", "")
	v.SetDefault("defaults.max_tokens", 0)
	v.SetDefault("defaults.system", "")
	v.SetDefault("defaults.stop_sequences", []string{})
	v.SetDefault("defaults.user_id", "")
	v.SetDefault("defaults.max_dimension", 0)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("output.format", "table")

	v.SetDefault("debug.trace_file", "")
}

func envBindings() []envBinding {
	prefix := envPrefix + "_"
	return []envBinding{
		{Name: prefix + "API_KEY", Path: "api.key"},
		{Name: prefix + "API_VERSION", Path: "api.version"},
		{Name: prefix + "API_BASE_URL", Path: "api.base_url"},
		{Name: prefix + "API_TIMEOUT", Path: "api.timeout"},

		{Name: prefix + "MODEL", Path: "defaults.model"},
		{Name: prefix + "MAX_TOKENS", Path: "defaults.max_tokens"},
		{Name: prefix + "SYSTEM", Path: "defaults.system"},
		{Name: prefix + "TEMPERATURE", Path: "defaults.temperature"},
		{Name: prefix + "TOP_P", Path: "defaults.top_p"},
		{Name: prefix + "TOP_K", Path: "defaults.top_k"},
		{Name: prefix + "STOP_SEQUENCES", Path: "defaults.stop_sequences"},
		{Name: prefix + "USER_ID", Path: "defaults.user_id"},
		{Name: prefix + "MAX_DIMENSION", Path: "defaults.max_dimension"},

		{Name: prefix + "LOG_LEVEL", Path: "logging.level"},
		{Name: prefix + "LOG_FORMAT", Path: "logging.format"},
		{Name: prefix + "OUTPUT", Path: "output.format"},
		{Name: prefix + "TRACE_FILE", Path: "debug.trace_file"},
	}
}
