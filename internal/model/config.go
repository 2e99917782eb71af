package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// AccountConfig identifies a linked mail account on the EaseMail service.
type AccountConfig struct {
	// ID is the account identifier issued by the service.
	ID string `mapstructure:"id" yaml:"id"`

	// Email is the mailbox address, used for display.
	Email string `mapstructure:"email" yaml:"email"`

	// OrgID is the organization this account belongs to, empty for
	// personal accounts.
	OrgID string `mapstructure:"org_id" yaml:"org_id"`

	// Default marks the account selected at startup.
	Default bool `mapstructure:"default" yaml:"default"`
}

// APIConfig holds settings for the EaseMail HTTP API.
type APIConfig struct {
	// BaseURL is the root URL of the EaseMail deployment
	// (e.g., https://app.easemail.example).
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// TimeoutSec is the per-request HTTP timeout in seconds.
	TimeoutSec int `mapstructure:"timeout_sec" yaml:"timeout_sec"`
}

// InboxConfig holds inbox behavior preferences.
type InboxConfig struct {
	// PageSize is the number of messages requested per listing page.
	PageSize int `mapstructure:"page_size" yaml:"page_size"`

	// RefreshIntervalSec is how often (in seconds) the inbox silently
	// refreshes while the application is focused.
	RefreshIntervalSec int `mapstructure:"refresh_interval_sec" yaml:"refresh_interval_sec"`

	// UndoSendSec is the undo-send countdown in seconds.
	UndoSendSec int `mapstructure:"undo_send_sec" yaml:"undo_send_sec"`

	// AutosaveIntervalSec is how often the composer auto-saves drafts.
	AutosaveIntervalSec int `mapstructure:"autosave_interval_sec" yaml:"autosave_interval_sec"`
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	Theme string `mapstructure:"theme" yaml:"theme"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Accounts []AccountConfig `mapstructure:"accounts" yaml:"accounts"`
	API      APIConfig       `mapstructure:"api" yaml:"api"`
	Inbox    InboxConfig     `mapstructure:"inbox" yaml:"inbox"`
	Display  DisplayConfig   `mapstructure:"display" yaml:"display"`
}

// DefaultAccount returns the account marked default, falling back to the
// first configured account. Returns nil when no accounts are configured.
func (c *AppConfig) DefaultAccount() *AccountConfig {
	for i := range c.Accounts {
		if c.Accounts[i].Default {
			return &c.Accounts[i]
		}
	}
	if len(c.Accounts) > 0 {
		return &c.Accounts[0]
	}
	return nil
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/easemail/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "easemail", "config.yaml")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		API: APIConfig{
			BaseURL:    "https://app.easemail.io",
			TimeoutSec: 30,
		},
		Inbox: InboxConfig{
			PageSize:            50,
			RefreshIntervalSec:  60,
			UndoSendSec:         5,
			AutosaveIntervalSec: 30,
		},
		Display: DisplayConfig{Theme: "default"},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("api.base_url", "https://app.easemail.io")
	v.SetDefault("api.timeout_sec", 30)
	v.SetDefault("inbox.page_size", 50)
	v.SetDefault("inbox.refresh_interval_sec", 60)
	v.SetDefault("inbox.undo_send_sec", 5)
	v.SetDefault("inbox.autosave_interval_sec", 30)
	v.SetDefault("display.theme", "default")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaultAppConfig(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaultAppConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.Inbox.PageSize <= 0 {
		cfg.Inbox.PageSize = 50
	}
	if cfg.Inbox.RefreshIntervalSec <= 0 {
		cfg.Inbox.RefreshIntervalSec = 60
	}
	if cfg.Inbox.UndoSendSec <= 0 {
		cfg.Inbox.UndoSendSec = 5
	}
	if cfg.API.TimeoutSec <= 0 {
		cfg.API.TimeoutSec = 30
	}

	return cfg, nil
}

// SaveConfig writes the configuration back to the given path, creating
// parent directories as needed.
func SaveConfig(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("accounts", cfg.Accounts)
	v.Set("api", map[string]any{
		"base_url":    cfg.API.BaseURL,
		"timeout_sec": cfg.API.TimeoutSec,
	})
	v.Set("inbox", map[string]any{
		"page_size":             cfg.Inbox.PageSize,
		"refresh_interval_sec":  cfg.Inbox.RefreshIntervalSec,
		"undo_send_sec":         cfg.Inbox.UndoSendSec,
		"autosave_interval_sec": cfg.Inbox.AutosaveIntervalSec,
	})
	v.Set("display", map[string]any{"theme": cfg.Display.Theme})

	if err := v.WriteConfig(); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	return nil
}
