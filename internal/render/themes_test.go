package render

import "testing"

func TestIsBuiltinStyle(t *testing.T) {
	for _, name := range ThemeNames() {
		if !IsBuiltinStyle(name) {
			t.Errorf("%q should be built in", name)
		}
	}
	if IsBuiltinStyle("/tmp/custom.json") {
		t.Error("a file path is not built in")
	}
}

func TestMonokaiStyleConfig(t *testing.T) {
	cfg := MonokaiStyleConfig()

	if cfg.Document.Color == nil || *cfg.Document.Color != string(MonokaiTheme.Text) {
		t.Errorf("document colour should be %s", MonokaiTheme.Text)
	}
	if cfg.CodeBlock.Theme != ThemeMonokai {
		t.Errorf("expected code block theme %q, got %q", ThemeMonokai, cfg.CodeBlock.Theme)
	}
	if cfg.CodeBlock.Chroma != nil {
		t.Error("expected chroma overrides to be cleared")
	}
}

func TestTUIThemes(t *testing.T) {
	names := TUIThemeNames()
	if len(names) == 0 || names[0] != "monokai" {
		t.Fatalf("monokai must be listed first, got %v", names)
	}

	for _, name := range names {
		theme, ok := GetTUIThemeByName(name)
		if !ok {
			t.Errorf("theme %q not found", name)
			continue
		}
		if theme.Name != name {
			t.Errorf("theme %q reports name %q", name, theme.Name)
		}
		if theme.Text == "" || theme.Primary == "" || theme.Error == "" {
			t.Errorf("theme %q has empty colours", name)
		}
	}

	if _, ok := GetTUIThemeByName("solarized"); ok {
		t.Error("unknown theme should not be found")
	}
}

func TestMonokaiPalette(t *testing.T) {
	if MonokaiTheme.Background != "#272822" {
		t.Errorf("background: %s", MonokaiTheme.Background)
	}
	if MonokaiTheme.Text != "#f8f8f2" {
		t.Errorf("text: %s", MonokaiTheme.Text)
	}
	if MonokaiTheme.Secondary != "#a6a6a6" {
		t.Errorf("secondary: %s", MonokaiTheme.Secondary)
	}
}

func TestSetTUITheme(t *testing.T) {
	defer SetTUITheme("monokai")

	if GetTUITheme().Name != "monokai" {
		t.Fatalf("default theme should be monokai, got %s", GetTUITheme().Name)
	}
	if !SetTUITheme("nord") {
		t.Fatal("nord should be settable")
	}
	if GetTUITheme().Name != "nord" {
		t.Errorf("expected nord, got %s", GetTUITheme().Name)
	}
	if SetTUITheme("missing") {
		t.Error("unknown theme should not be settable")
	}
	if GetTUITheme().Name != "nord" {
		t.Error("failed set must keep the current theme")
	}
}
