package render

import (
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
)

// Markdown theme names. Everything except Monokai is a glamour built-in.
const (
	ThemeMonokai    = "monokai"
	ThemeDark       = "dark"
	ThemeLight      = "light"
	ThemeDracula    = "dracula"
	ThemeTokyoNight = "tokyo-night"
	ThemeNoTTY      = "notty"
	ThemeASCII      = "ascii"
)

// ThemeInfo describes a markdown theme for help output.
type ThemeInfo struct {
	Name        string
	Description string
}

// AvailableThemes lists the markdown themes that need no style file.
func AvailableThemes() []ThemeInfo {
	return []ThemeInfo{
		{Name: ThemeMonokai, Description: "Monokai colours with monokai code highlighting (default)"},
		{Name: ThemeDark, Description: "glamour dark"},
		{Name: ThemeLight, Description: "glamour light, for bright terminals"},
		{Name: ThemeDracula, Description: "Dracula"},
		{Name: ThemeTokyoNight, Description: "Tokyo Night"},
		{Name: ThemeNoTTY, Description: "plain text, no colour"},
		{Name: ThemeASCII, Description: "ASCII only"},
	}
}

// ThemeNames returns the names from AvailableThemes.
func ThemeNames() []string {
	themes := AvailableThemes()
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}

// IsBuiltinStyle reports whether style resolves without reading a file.
func IsBuiltinStyle(style string) bool {
	if style == ThemeMonokai {
		return true
	}
	_, ok := styles.DefaultStyles[style]
	return ok
}

// styleOption maps a style name or JSON path to a glamour option.
func styleOption(style string) glamour.TermRendererOption {
	if style == "" || style == ThemeMonokai {
		return glamour.WithStyles(MonokaiStyleConfig())
	}
	return glamour.WithStylePath(style)
}

// MonokaiStyleConfig derives a Monokai palette from glamour's dark style.
func MonokaiStyleConfig() ansi.StyleConfig {
	cfg := styles.DarkStyleConfig

	cfg.Document.Color = color(MonokaiTheme.Text)
	cfg.Heading.Color = color(monokaiBlue)
	cfg.H1.Color = color(MonokaiTheme.Text)
	cfg.H1.BackgroundColor = color(monokaiPink)
	cfg.Link.Color = color(monokaiBlue)
	cfg.LinkText.Color = color(monokaiGreen)
	cfg.Strong.Color = color(monokaiOrange)
	cfg.Emph.Color = color(monokaiYellow)
	cfg.BlockQuote.Color = color(MonokaiTheme.Secondary)
	cfg.Code.Color = color(monokaiPink)
	cfg.Code.BackgroundColor = color(MonokaiTheme.Surface)

	// Let chroma's own monokai style colour code blocks
	cfg.CodeBlock.Chroma = nil
	cfg.CodeBlock.Theme = ThemeMonokai

	return cfg
}

func color(c lipgloss.Color) *string {
	s := string(c)
	return &s
}
