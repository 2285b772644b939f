package commands

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/thedracle/openai-chat/internal/config"
)

func TestConfigCommand_Show(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "config", "-q", "sk-abcdefgh", "-g", "gpt-4o", "--organization", "org-team")
	if err != nil {
		t.Fatalf("config: %v", err)
	}

	for _, want := range []string{
		"not found, using defaults",
		"api_url        " + config.DefaultAPIURL,
		"gpt_model      gpt-4o",
		"api_key        *******efgh",
		"organization   org-team",
		"timeout        1m0s",
		"tui_theme      monokai",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "sk-abcdefgh") {
		t.Error("config output must mask the API key")
	}
	if len(env.tui.calls) != 0 {
		t.Error("config must not start the chat")
	}
}

func TestConfigCommand_InitWritesFile(t *testing.T) {
	env := newTestEnv(t)
	path := filepath.Join(env.home, "conf", "config.toml")

	out, err := env.run(t, "config", "init", "--config", path, "-g", "gpt-4")
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if !strings.Contains(out, "Wrote "+path) {
		t.Errorf("unexpected output %q", out)
	}

	cfg, err := config.LoadConfigFrom(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Model != "gpt-4" {
		t.Errorf("expected model from flag to be saved, got %s", cfg.Model)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("config file mode: got %o, want 600", perm)
	}

	out, err = env.run(t, "config", "--config", path)
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if strings.Contains(out, "not found") {
		t.Error("show should report the existing file")
	}
}

func TestConfigCommand_InitKeepsExisting(t *testing.T) {
	env := newTestEnv(t)
	path := filepath.Join(env.home, "config.toml")

	if _, err := env.run(t, "config", "init", "--config", path); err != nil {
		t.Fatalf("first init: %v", err)
	}
	if _, err := env.run(t, "config", "init", "--config", path, "-g", "other"); err == nil {
		t.Fatal("second init without --force should fail")
	}
	if _, err := env.run(t, "config", "init", "--config", path, "-g", "other", "--force"); err != nil {
		t.Fatalf("forced init: %v", err)
	}

	cfg, err := config.LoadConfigFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Model != "other" {
		t.Errorf("forced init should overwrite, got %s", cfg.Model)
	}
}

func TestConfigCommand_Themes(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "config", "themes")
	if err != nil {
		t.Fatalf("themes: %v", err)
	}
	for _, want := range []string{"monokai", "nord", "dracula", "tokyo-night", "notty"} {
		if !strings.Contains(out, want) {
			t.Errorf("themes output missing %q", want)
		}
	}
}
