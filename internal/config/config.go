package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides, e.g. REASON_STATE_PATH.
const EnvPrefix = "REASON"

// Config holds the global reason configuration.
type Config struct {
	StatePath string        `mapstructure:"state_path" yaml:"state_path"`
	Viewer    string        `mapstructure:"viewer" yaml:"viewer"`
	Prompt    string        `mapstructure:"prompt" yaml:"prompt"`
	LogLevel  string        `mapstructure:"log_level" yaml:"log_level"`
	Display   DisplayConfig `mapstructure:"display" yaml:"display"`
	Audit     AuditConfig   `mapstructure:"audit" yaml:"audit"`
}

// DisplayConfig controls how paper lists are rendered.
type DisplayConfig struct {
	MaxTitleWidth int  `mapstructure:"max_title_width" yaml:"max_title_width"`
	Color         bool `mapstructure:"color" yaml:"color"`
}

// AuditConfig controls the executed-line audit log.
type AuditConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Path    string `mapstructure:"path" yaml:"path"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		StatePath: filepath.Join(home, ".local", "share", "reason", "state.yaml"),
		Viewer:    defaultViewer(),
		Prompt:    ">> ",
		LogLevel:  "warn",
		Display: DisplayConfig{
			MaxTitleWidth: 60,
			Color:         true,
		},
		Audit: AuditConfig{
			Enabled: true,
			Path:    filepath.Join(home, ".local", "share", "reason", "audit.jsonl"),
		},
	}
}

func defaultViewer() string {
	switch runtime.GOOS {
	case "darwin":
		return "open"
	case "windows":
		return "explorer"
	default:
		return "xdg-open"
	}
}

// Path returns the standard config file path, honouring REASON_CONFIG.
func Path() string {
	if p := os.Getenv(EnvPrefix + "_CONFIG"); p != "" {
		return p
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "reason", "config.yaml")
}

// Load reads the config from the standard location.
// If the file doesn't exist, defaults and environment overrides still apply.
func Load() (*Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads the config from the given path, layering defaults, the file
// and REASON_* environment variables.
func LoadFrom(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetConfigType("yaml")
	v.SetConfigFile(path)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.StatePath = expandHome(cfg.StatePath)
	cfg.Audit.Path = expandHome(cfg.Audit.Path)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("state_path", d.StatePath)
	v.SetDefault("viewer", d.Viewer)
	v.SetDefault("prompt", d.Prompt)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("display.max_title_width", d.Display.MaxTitleWidth)
	v.SetDefault("display.color", d.Display.Color)
	v.SetDefault("audit.enabled", d.Audit.Enabled)
	v.SetDefault("audit.path", d.Audit.Path)
}

// Validate checks option values that the rest of the program relies on.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.StatePath) == "" {
		return fmt.Errorf("state_path must not be empty")
	}
	if c.Display.MaxTitleWidth < 0 {
		return fmt.Errorf("display.max_title_width must not be negative, got %d", c.Display.MaxTitleWidth)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error", "fatal":
	default:
		return fmt.Errorf("unknown log_level %q (want debug, info, warn, error or fatal)", c.LogLevel)
	}
	if c.Audit.Enabled && c.Audit.Path == "" {
		return fmt.Errorf("audit.path is required when audit is enabled")
	}
	return nil
}

// expandHome replaces a leading ~ with the user's home directory.
func expandHome(p string) string {
	if p == "" || p[0] != '~' {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, p[1:])
}
