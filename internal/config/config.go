// Package config provides configuration management for projgrid.
//
// Configuration is loaded from three sources with the following precedence
// (highest to lowest):
//  1. CLI flags
//  2. Environment variables (PROJGRID_ prefix)
//  3. Config file (.projgrid.yaml)
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Supported log levels.
const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

// Supported log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Supported AI search providers.
const (
	AIProviderNone  = "none"
	AIProviderGenAI = "genai"
	AIProviderHTTP  = "http"
)

// Defaults that are not plain zero values.
const (
	DefaultAIModel   = "gemini-2.0-flash"
	DefaultAITimeout = 30 * time.Second
	DefaultColumns   = 3
)

// Config represents the global configuration for projgrid.
type Config struct {
	// LogLevel controls the verbosity of log output.
	// Valid values: debug, info, warn, error.
	LogLevel string `mapstructure:"log-level" json:"logLevel"`

	// LogFormat controls the format of log output.
	// Valid values: text, json.
	LogFormat string `mapstructure:"log-format" json:"logFormat"`

	// NoColor disables colored output.
	NoColor bool `mapstructure:"no-color" json:"noColor"`

	// Quiet suppresses all log output below error level.
	Quiet bool `mapstructure:"quiet" json:"quiet"`

	// Data lists the dataset files, concatenated in order.
	Data []string `mapstructure:"data" json:"data,omitempty"`

	// DataURL is an optional remote dataset appended after Data.
	DataURL string `mapstructure:"data-url" json:"dataUrl,omitempty"`

	// AIProvider selects the search collaborator: none, genai, or http.
	AIProvider string `mapstructure:"ai-provider" json:"aiProvider"`

	// AIModel is the Gemini model used by the genai provider.
	AIModel string `mapstructure:"ai-model" json:"aiModel"`

	// AIEndpoint is the URL the http provider posts queries to.
	AIEndpoint string `mapstructure:"ai-endpoint" json:"aiEndpoint,omitempty"`

	// AIAPIKey authenticates the genai provider.
	AIAPIKey string `mapstructure:"ai-api-key" json:"-"`

	// AITimeout bounds a single search request.
	AITimeout time.Duration `mapstructure:"ai-timeout" json:"aiTimeout"`

	// Columns is the number of cards per grid row.
	Columns int `mapstructure:"columns" json:"columns"`

	// Presets are named filter selections from the config file.
	Presets map[string]Preset `mapstructure:"presets" json:"presets,omitempty"`

	// ConfigFile is the resolved path to the config file used.
	// Set after Load(), not read from config itself.
	ConfigFile string `mapstructure:"-" json:"-"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		LogLevel:   LogLevelInfo,
		LogFormat:  LogFormatText,
		AIProvider: AIProviderNone,
		AIModel:    DefaultAIModel,
		AITimeout:  DefaultAITimeout,
		Columns:    DefaultColumns,
	}
}

// Validate checks that all config values are valid.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		// valid
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", c.LogLevel)
	}

	switch c.LogFormat {
	case LogFormatText, LogFormatJSON:
		// valid
	default:
		return fmt.Errorf("invalid log format %q: must be one of text, json", c.LogFormat)
	}

	switch c.AIProvider {
	case AIProviderNone, AIProviderGenAI:
		// valid
	case AIProviderHTTP:
		if c.AIEndpoint == "" {
			return errors.New("ai-endpoint is required when ai-provider is http")
		}
	default:
		return fmt.Errorf("invalid ai provider %q: must be one of none, genai, http", c.AIProvider)
	}

	if c.AITimeout < 0 {
		return fmt.Errorf("invalid ai timeout %s: must not be negative", c.AITimeout)
	}

	if c.Columns < 1 {
		return fmt.Errorf("invalid columns %d: must be at least 1", c.Columns)
	}

	return validatePresets(c.Presets)
}

// EffectiveLogLevel returns the log level to use. When Quiet is true the log
// level is overridden to "error" regardless of the configured LogLevel.
func (c *Config) EffectiveLogLevel() string {
	if c.Quiet {
		return LogLevelError
	}

	return c.LogLevel
}

// HasData reports whether any dataset source is configured.
func (c *Config) HasData() bool {
	return len(c.Data) > 0 || c.DataURL != ""
}

// Load initialises configuration from flags, environment variables, and an
// optional config file. A fresh viper instance is used on every call so that
// Load is safe for concurrent tests.
func Load(cmd *cobra.Command, configFile string) (*Config, error) {
	v := viper.New()

	setDefaults(v)
	configureEnv(v)

	if err := configureFile(v, configFile); err != nil {
		return nil, err
	}

	if err := bindFlags(v, cmd); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.ConfigFile = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults registers default values in viper.
func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("log-level", d.LogLevel)
	v.SetDefault("log-format", d.LogFormat)
	v.SetDefault("no-color", false)
	v.SetDefault("quiet", false)
	v.SetDefault("data", []string{})
	v.SetDefault("data-url", "")
	v.SetDefault("ai-provider", d.AIProvider)
	v.SetDefault("ai-model", d.AIModel)
	v.SetDefault("ai-endpoint", "")
	v.SetDefault("ai-api-key", "")
	v.SetDefault("ai-timeout", d.AITimeout)
	v.SetDefault("columns", d.Columns)
}

// configureEnv sets up environment variable support.
func configureEnv(v *viper.Viper) {
	v.SetEnvPrefix("PROJGRID")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
}

// configureFile sets up the config file source.
func configureFile(v *viper.Viper, configFile string) error {
	if configFile != "" {
		v.SetConfigFile(configFile)

		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %q: %w", configFile, err)
		}

		return nil
	}

	// Auto-discovery mode.
	v.SetConfigName(".projgrid")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "projgrid"))
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}

		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// bindFlags walks from cmd up to the root and binds all PersistentFlags.
func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	if cmd == nil {
		return nil
	}

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}

	for c := cmd; c != nil; c = c.Parent() {
		if err := v.BindPFlags(c.PersistentFlags()); err != nil {
			return fmt.Errorf("binding persistent flags: %w", err)
		}
	}

	return nil
}

// ---------------------------------------------------------------------------
// Context helpers
// ---------------------------------------------------------------------------

type ctxKey struct{}

// NewContext returns a child context carrying cfg.
func NewContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, ctxKey{}, cfg)
}

// FromContext extracts a Config from ctx, falling back to Default().
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(ctxKey{}).(*Config); ok {
		return cfg
	}

	return Default()
}
