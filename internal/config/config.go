// Package config handles configuration for openai-chat.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/thedracle/openai-chat/internal/models"
)

// Built-in defaults used when neither a flag nor the config file sets a value
const (
	DefaultAPIURL         = "https://api.openai.com/v1/"
	DefaultModel          = "gpt-3.5-turbo"
	DefaultAPIKey         = "ABCD1234"
	DefaultTimeoutSeconds = 60
	DefaultTUITheme       = "monokai"
	DefaultLogLevel       = "info"

	configDirName  = ".openai-chat"
	configFileName = "config.toml"
	logFileName    = "openai-chat.log"
)

// MarkdownConfig configures markdown rendering options
type MarkdownConfig struct {
	Enabled          bool   `toml:"enabled"`
	Style            string `toml:"style"`              // "monokai", a glamour style name, or path to JSON theme
	EnableEmoji      bool   `toml:"enable_emoji"`       // Convert :emoji: to unicode
	PreserveNewLines bool   `toml:"preserve_newlines"`  // Preserve original line breaks
	TableWrap        bool   `toml:"table_wrap"`         // Enable word wrap in table cells
	InlineTableLinks bool   `toml:"inline_table_links"` // Render links inline in tables
}

// Config represents the user configuration
type Config struct {
	APIURL string `toml:"api_url"`
	Model  string `toml:"gpt_model"`
	APIKey string `toml:"api_key"`
	// Organization is sent as the OpenAI-Organization header when set.
	Organization string `toml:"organization,omitempty"`
	// TimeoutSeconds bounds a single completion request.
	TimeoutSeconds int            `toml:"timeout_seconds"`
	SystemPrompt   string         `toml:"system_prompt"`
	TUITheme       string         `toml:"tui_theme"`
	LogLevel       string         `toml:"log_level"`
	LogFile        string         `toml:"log_file"`
	Markdown       MarkdownConfig `toml:"markdown"`
}

// Overrides holds command-line values. Empty strings and nil pointers leave
// the config untouched.
type Overrides struct {
	APIURL         string
	Model          string
	APIKey         string
	Organization   string
	TimeoutSeconds *int
	TUITheme       string
	LogLevel       string
	LogFile        string
	Markdown       *bool
}

// DefaultMarkdownConfig returns the default markdown configuration
func DefaultMarkdownConfig() MarkdownConfig {
	return MarkdownConfig{
		Enabled:          true,
		Style:            "monokai",
		EnableEmoji:      true,
		PreserveNewLines: true,
		TableWrap:        true,
		InlineTableLinks: false,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	logFile := ""
	if dir, err := GetConfigDir(); err == nil {
		logFile = filepath.Join(dir, logFileName)
	}
	return Config{
		APIURL:         DefaultAPIURL,
		Model:          DefaultModel,
		APIKey:         DefaultAPIKey,
		TimeoutSeconds: DefaultTimeoutSeconds,
		SystemPrompt:   models.DefaultSystemPrompt,
		TUITheme:       DefaultTUITheme,
		LogLevel:       DefaultLogLevel,
		LogFile:        logFile,
		Markdown:       DefaultMarkdownConfig(),
	}
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, configDirName), nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, configFileName), nil
}

// LoadConfig loads the configuration from the default location
func LoadConfig() (Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return DefaultConfig(), err
	}
	return LoadConfigFrom(configPath)
}

// LoadConfigFrom loads the configuration from path.
// A missing file is not an error; defaults are returned.
func LoadConfigFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// SaveConfigTo writes the configuration as TOML to path
func SaveConfigTo(cfg Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// Apply returns a copy of cfg with every set override applied. Values are
// not checked here; Validate rejects them.
func (cfg Config) Apply(o Overrides) Config {
	if o.APIURL != "" {
		cfg.APIURL = o.APIURL
	}
	if o.Model != "" {
		cfg.Model = o.Model
	}
	if o.APIKey != "" {
		cfg.APIKey = o.APIKey
	}
	if o.Organization != "" {
		cfg.Organization = o.Organization
	}
	if o.TimeoutSeconds != nil {
		cfg.TimeoutSeconds = *o.TimeoutSeconds
	}
	if o.TUITheme != "" {
		cfg.TUITheme = o.TUITheme
	}
	if o.LogLevel != "" {
		cfg.LogLevel = o.LogLevel
	}
	if o.LogFile != "" {
		cfg.LogFile = o.LogFile
	}
	if o.Markdown != nil {
		cfg.Markdown.Enabled = *o.Markdown
	}
	return cfg
}

// Validate checks the values the chat session cannot run without
func (cfg Config) Validate() error {
	var errs []error

	if strings.TrimSpace(cfg.Model) == "" {
		errs = append(errs, errors.New("gpt_model must not be empty"))
	}
	if strings.TrimSpace(cfg.APIURL) == "" {
		errs = append(errs, errors.New("api_url must not be empty"))
	} else if u, err := url.Parse(cfg.APIURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("api_url %q is not an http(s) URL", cfg.APIURL))
	}
	if cfg.TimeoutSeconds <= 0 {
		errs = append(errs, fmt.Errorf("timeout_seconds must be positive, got %d", cfg.TimeoutSeconds))
	}

	return errors.Join(errs...)
}

// Timeout returns the completion timeout as a duration
func (cfg Config) Timeout() time.Duration {
	return time.Duration(cfg.TimeoutSeconds) * time.Second
}

// MaskedAPIKey returns the API key with all but the last four characters hidden
func (cfg Config) MaskedAPIKey() string {
	key := cfg.APIKey
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}

// AvailableModels returns commonly used chat model names, listed in the
// --gpt_model help
func AvailableModels() []string {
	return []string{
		"gpt-3.5-turbo",
		"gpt-4",
		"gpt-4o",
		"gpt-4o-mini",
	}
}
