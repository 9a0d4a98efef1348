// Package config handles configuration management using Viper
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	// Display configuration
	Display DisplayConfig `mapstructure:"display"`

	// Cursor configuration
	Cursor CursorConfig `mapstructure:"cursor"`

	// Clipboard configuration
	Clipboard ClipboardConfig `mapstructure:"clipboard"`

	// Logging configuration
	Logging LoggingConfig `mapstructure:"logging"`
}

// DisplayConfig contains connection settings
type DisplayConfig struct {
	// Socket overrides WAYLAND_DISPLAY when set
	Socket string `mapstructure:"socket"`
}

// CursorConfig contains cursor theme settings
type CursorConfig struct {
	Theme string `mapstructure:"theme"` // Overrides XCURSOR_THEME
}

// ClipboardConfig contains clipboard settings
type ClipboardConfig struct {
	// MimeTypes is the preference order for reads, most wanted first
	MimeTypes []string `mapstructure:"mime_types"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	LogLevel string `mapstructure:"log_level"` // Override LOG_LEVEL env var
}

var (
	// DefaultConfig provides sensible defaults
	DefaultConfig = Config{
		Display:   DisplayConfig{Socket: ""},
		Cursor:    CursorConfig{Theme: ""},
		Clipboard: ClipboardConfig{MimeTypes: []string{}},
		Logging:   LoggingConfig{LogLevel: ""},
	}

	// Global config instance
	cfg *Config

	// Override config path if set
	configPathOverride string
)

// SetConfigPath allows overriding the config path
func SetConfigPath(path string) {
	configPathOverride = path
}

// Init initializes the configuration system
func Init() error {
	viper.SetConfigName("wlkit")
	viper.SetConfigType("toml")

	if configPathOverride != "" {
		viper.SetConfigFile(configPathOverride)
	} else {
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			viper.AddConfigPath(filepath.Join(xdg, "wlkit"))
		} else if home := os.Getenv("HOME"); home != "" {
			viper.AddConfigPath(filepath.Join(home, ".config", "wlkit"))
		}
		viper.AddConfigPath(".")
	}

	viper.SetDefault("display.socket", DefaultConfig.Display.Socket)
	viper.SetDefault("cursor.theme", DefaultConfig.Cursor.Theme)
	viper.SetDefault("clipboard.mime_types", DefaultConfig.Clipboard.MimeTypes)
	viper.SetDefault("logging.log_level", DefaultConfig.Logging.LogLevel)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, use defaults
	}

	cfg = &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}
	return nil
}

// Get returns the current configuration
func Get() *Config {
	if cfg == nil {
		if err := Init(); err != nil {
			c := DefaultConfig
			cfg = &c
		}
	}
	return cfg
}
