// Package config handles configuration and chat profiles for chatclient.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Environment variables that override the config file
const (
	EnvProfile  = "CHATCLIENT_PROFILE"
	EnvEndpoint = "CHATCLIENT_ENDPOINT"
)

// MarkdownConfig configures markdown rendering options
type MarkdownConfig struct {
	Style            string `json:"style"`              // "dark", "light", "notty" or path to JSON theme
	EnableEmoji      bool   `json:"enable_emoji"`       // Convert :emoji: to unicode
	PreserveNewLines bool   `json:"preserve_newlines"`  // Preserve original line breaks
	TableWrap        bool   `json:"table_wrap"`         // Enable word wrap in table cells
	InlineTableLinks bool   `json:"inline_table_links"` // Render links inline in tables
}

// Config represents the user configuration
type Config struct {
	// Profile selects the endpoint, error text and presets (see profiles.go)
	Profile string `json:"profile"`
	// EndpointURL overrides the profile's free-text endpoint when set
	EndpointURL string `json:"endpoint_url,omitempty"`
	// OptionEndpointURL overrides the profile's preset endpoint when set
	OptionEndpointURL string `json:"option_endpoint_url,omitempty"`
	// TimeoutSeconds bounds a single request. There are no retries.
	TimeoutSeconds int `json:"timeout_seconds"`
	// Verbose writes a debug log to chatclient.log in the config directory
	Verbose         bool           `json:"verbose"`
	LogLevel        string         `json:"log_level,omitempty"`
	CopyToClipboard bool           `json:"copy_to_clipboard"`
	TUITheme        string         `json:"tui_theme,omitempty"`
	Markdown        MarkdownConfig `json:"markdown,omitempty"`
}

// DefaultMarkdownConfig returns the default markdown configuration
func DefaultMarkdownConfig() MarkdownConfig {
	return MarkdownConfig{
		Style:            "dark",
		EnableEmoji:      true,
		PreserveNewLines: true,
		TableWrap:        true,
		InlineTableLinks: false,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Profile:         DefaultProfileName,
		TimeoutSeconds:  300,
		Verbose:         false,
		LogLevel:        "debug",
		CopyToClipboard: false,
		TUITheme:        "tokyonight",
		Markdown:        DefaultMarkdownConfig(),
	}
}

// Timeout returns the request timeout as a duration
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 300 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, ".chatclient"), nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// GetLogPath returns the path to the debug log written when verbose is on
func GetLogPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "chatclient.log"), nil
}

// LoadConfig loads the configuration from disk
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	configPath, err := GetConfigPath()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Use defaults if config doesn't exist
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to disk
func SaveConfig(cfg Config) error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.json")

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyEnv overlays environment variable overrides on cfg
func ApplyEnv(cfg Config) Config {
	if v := strings.TrimSpace(os.Getenv(EnvProfile)); v != "" {
		cfg.Profile = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvEndpoint)); v != "" {
		cfg.EndpointURL = v
	}
	return cfg
}

// SettableKeys lists the keys accepted by SetValue
func SettableKeys() []string {
	return []string{
		"profile",
		"endpoint_url",
		"option_endpoint_url",
		"timeout_seconds",
		"verbose",
		"log_level",
		"copy_to_clipboard",
		"tui_theme",
		"markdown.style",
	}
}

// SetValue updates a single config key from its string form
func SetValue(cfg *Config, key, value string) error {
	value = strings.TrimSpace(value)

	switch key {
	case "profile":
		if value == "" {
			return fmt.Errorf("profile cannot be empty")
		}
		cfg.Profile = value
	case "endpoint_url":
		cfg.EndpointURL = value
	case "option_endpoint_url":
		cfg.OptionEndpointURL = value
	case "timeout_seconds":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("timeout_seconds must be a positive integer, got %q", value)
		}
		cfg.TimeoutSeconds = n
	case "verbose", "copy_to_clipboard":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s must be true or false, got %q", key, value)
		}
		if key == "verbose" {
			cfg.Verbose = b
		} else {
			cfg.CopyToClipboard = b
		}
	case "log_level":
		cfg.LogLevel = value
	case "tui_theme":
		cfg.TUITheme = value
	case "markdown.style":
		cfg.Markdown.Style = value
	default:
		return fmt.Errorf("unknown config key %q (valid: %s)", key, strings.Join(SettableKeys(), ", "))
	}

	return nil
}
