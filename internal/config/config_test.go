package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/thedracle/openai-chat/internal/models"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.APIURL != "https://api.openai.com/v1/" {
		t.Errorf("Expected default api url, got '%s'", cfg.APIURL)
	}
	if cfg.Model != "gpt-3.5-turbo" {
		t.Errorf("Expected default model to be 'gpt-3.5-turbo', got '%s'", cfg.Model)
	}
	if cfg.APIKey != "ABCD1234" {
		t.Errorf("Expected placeholder api key, got '%s'", cfg.APIKey)
	}
	if cfg.Timeout() != 60*time.Second {
		t.Errorf("Expected 60s timeout, got %v", cfg.Timeout())
	}
	if cfg.SystemPrompt != models.DefaultSystemPrompt {
		t.Errorf("Expected default system prompt, got '%s'", cfg.SystemPrompt)
	}
	if !cfg.Markdown.Enabled {
		t.Error("Expected markdown to be enabled by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestGetConfigDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() returned error: %v", err)
	}
	if dir != filepath.Join(home, ".openai-chat") {
		t.Errorf("GetConfigDir() = %s", dir)
	}

	path, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() returned error: %v", err)
	}
	if !strings.HasSuffix(path, "config.toml") {
		t.Errorf("GetConfigPath() = %s", path)
	}
}

func TestLoadConfig_FileNotExists(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Model != DefaultModel {
		t.Errorf("expected defaults, got model %s", cfg.Model)
	}
}

func TestLoadConfigFrom_PartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
gpt_model = "gpt-4o"
timeout_seconds = 15

[markdown]
enabled = false
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfigFrom(path)
	if err != nil {
		t.Fatalf("LoadConfigFrom() error = %v", err)
	}
	if cfg.Model != "gpt-4o" {
		t.Errorf("Model = %s, want gpt-4o", cfg.Model)
	}
	if cfg.TimeoutSeconds != 15 {
		t.Errorf("TimeoutSeconds = %d, want 15", cfg.TimeoutSeconds)
	}
	if cfg.Markdown.Enabled {
		t.Error("markdown should be disabled by file")
	}
	// Unset keys keep their defaults
	if cfg.APIURL != DefaultAPIURL {
		t.Errorf("APIURL = %s, want default", cfg.APIURL)
	}
}

func TestLoadConfigFrom_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("gpt_model = [unterminated"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfigFrom(path)
	if err == nil {
		t.Fatal("expected parse error")
	}
	if cfg.Model != DefaultModel {
		t.Errorf("expected defaults on parse error, got %s", cfg.Model)
	}
}

func TestSaveConfigTo_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")

	cfg := DefaultConfig()
	cfg.Model = "gpt-4"
	cfg.TUITheme = "nord"

	if err := SaveConfigTo(cfg, path); err != nil {
		t.Fatalf("SaveConfigTo() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("config file mode = %v, want 0600", info.Mode().Perm())
	}

	loaded, err := LoadConfigFrom(path)
	if err != nil {
		t.Fatalf("LoadConfigFrom() error = %v", err)
	}
	if loaded.Model != "gpt-4" || loaded.TUITheme != "nord" {
		t.Errorf("loaded = %+v", loaded)
	}
}

func TestApply(t *testing.T) {
	disabled := false
	timeout := 5
	cfg := DefaultConfig().Apply(Overrides{
		APIURL:         "http://localhost:8080/v1",
		Model:          "gpt-4o-mini",
		Organization:   "org-team",
		TimeoutSeconds: &timeout,
		Markdown:       &disabled,
	})

	if cfg.APIURL != "http://localhost:8080/v1" {
		t.Errorf("APIURL = %s", cfg.APIURL)
	}
	if cfg.Model != "gpt-4o-mini" {
		t.Errorf("Model = %s", cfg.Model)
	}
	if cfg.APIKey != DefaultAPIKey {
		t.Errorf("APIKey should keep default, got %s", cfg.APIKey)
	}
	if cfg.Timeout() != 5*time.Second {
		t.Errorf("Timeout = %v", cfg.Timeout())
	}
	if cfg.Markdown.Enabled {
		t.Error("markdown override not applied")
	}
	if cfg.Organization != "org-team" {
		t.Errorf("Organization = %s", cfg.Organization)
	}
}

func TestApply_InvalidTimeoutReachesValidate(t *testing.T) {
	for _, seconds := range []int{0, -5} {
		timeout := seconds
		cfg := DefaultConfig().Apply(Overrides{TimeoutSeconds: &timeout})

		if cfg.TimeoutSeconds != seconds {
			t.Errorf("TimeoutSeconds = %d, want %d", cfg.TimeoutSeconds, seconds)
		}
		if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "timeout_seconds") {
			t.Errorf("Validate() with timeout %d = %v", seconds, err)
		}
	}
}

func TestApply_NilTimeoutKeepsFileValue(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TimeoutSeconds = 30

	if got := cfg.Apply(Overrides{}).TimeoutSeconds; got != 30 {
		t.Errorf("TimeoutSeconds = %d, want 30", got)
	}
}

func TestAvailableModelsIncludesDefault(t *testing.T) {
	found := false
	for _, m := range AvailableModels() {
		if m == DefaultModel {
			found = true
		}
	}
	if !found {
		t.Errorf("AvailableModels() = %v, missing %s", AvailableModels(), DefaultModel)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"empty model", func(c *Config) { c.Model = " " }, "gpt_model"},
		{"empty url", func(c *Config) { c.APIURL = "" }, "api_url"},
		{"bad scheme", func(c *Config) { c.APIURL = "ftp://example.com" }, "not an http(s) URL"},
		{"zero timeout", func(c *Config) { c.TimeoutSeconds = 0 }, "timeout_seconds"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestMaskedAPIKey(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"ABCD1234", "****1234"},
		{"abc", "***"},
		{"", ""},
	}

	for _, tt := range tests {
		cfg := Config{APIKey: tt.key}
		if got := cfg.MaskedAPIKey(); got != tt.want {
			t.Errorf("MaskedAPIKey(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}
