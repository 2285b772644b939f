package render

import (
	"sort"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// TUITheme is the colour scheme of the chat window
type TUITheme struct {
	Name        string
	Description string

	Background lipgloss.Color
	Surface    lipgloss.Color
	Border     lipgloss.Color

	// Primary labels the user's lines, Accent the assistant's
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color

	Text     lipgloss.Color
	TextDim  lipgloss.Color
	TextMute lipgloss.Color
}

const (
	monokaiPink   = lipgloss.Color("#f92672")
	monokaiOrange = lipgloss.Color("#fd971f")
	monokaiYellow = lipgloss.Color("#e6db74")
	monokaiGreen  = lipgloss.Color("#a6e22e")
	monokaiBlue   = lipgloss.Color("#66d9ef")
)

var (
	// MonokaiTheme is the default: background #272822, text #f8f8f2
	MonokaiTheme = TUITheme{
		Name:        "monokai",
		Description: "Monokai, the classic editor palette (default)",

		Background: lipgloss.Color("#272822"),
		Surface:    lipgloss.Color("#3e3d32"),
		Border:     lipgloss.Color("#75715e"),

		Primary:   monokaiBlue,
		Secondary: lipgloss.Color("#a6a6a6"),
		Accent:    monokaiGreen,
		Warning:   monokaiOrange,
		Error:     monokaiPink,

		Text:     lipgloss.Color("#f8f8f2"),
		TextDim:  lipgloss.Color("#a6a6a6"),
		TextMute: lipgloss.Color("#75715e"),
	}

	TokyoNightTheme = TUITheme{
		Name:        "tokyonight",
		Description: "Tokyo Night, dark with blue accents",

		Background: lipgloss.Color("#1a1b26"),
		Surface:    lipgloss.Color("#24283b"),
		Border:     lipgloss.Color("#414868"),

		Primary:   lipgloss.Color("#7aa2f7"),
		Secondary: lipgloss.Color("#9ece6a"),
		Accent:    lipgloss.Color("#bb9af7"),
		Warning:   lipgloss.Color("#e0af68"),
		Error:     lipgloss.Color("#f7768e"),

		Text:     lipgloss.Color("#c0caf5"),
		TextDim:  lipgloss.Color("#565f89"),
		TextMute: lipgloss.Color("#3b4261"),
	}

	CatppuccinMochaTheme = TUITheme{
		Name:        "catppuccin",
		Description: "Catppuccin Mocha, warm pastels",

		Background: lipgloss.Color("#1e1e2e"),
		Surface:    lipgloss.Color("#313244"),
		Border:     lipgloss.Color("#45475a"),

		Primary:   lipgloss.Color("#89b4fa"),
		Secondary: lipgloss.Color("#a6e3a1"),
		Accent:    lipgloss.Color("#cba6f7"),
		Warning:   lipgloss.Color("#f9e2af"),
		Error:     lipgloss.Color("#f38ba8"),

		Text:     lipgloss.Color("#cdd6f4"),
		TextDim:  lipgloss.Color("#6c7086"),
		TextMute: lipgloss.Color("#45475a"),
	}

	DraculaTheme = TUITheme{
		Name:        "dracula",
		Description: "Dracula, dark with vibrant colours",

		Background: lipgloss.Color("#282a36"),
		Surface:    lipgloss.Color("#44475a"),
		Border:     lipgloss.Color("#6272a4"),

		Primary:   lipgloss.Color("#8be9fd"),
		Secondary: lipgloss.Color("#50fa7b"),
		Accent:    lipgloss.Color("#ff79c6"),
		Warning:   lipgloss.Color("#f1fa8c"),
		Error:     lipgloss.Color("#ff5555"),

		Text:     lipgloss.Color("#f8f8f2"),
		TextDim:  lipgloss.Color("#6272a4"),
		TextMute: lipgloss.Color("#44475a"),
	}

	NordTheme = TUITheme{
		Name:        "nord",
		Description: "Nord, cool arctic tones",

		Background: lipgloss.Color("#2e3440"),
		Surface:    lipgloss.Color("#3b4252"),
		Border:     lipgloss.Color("#4c566a"),

		Primary:   lipgloss.Color("#88c0d0"),
		Secondary: lipgloss.Color("#a3be8c"),
		Accent:    lipgloss.Color("#b48ead"),
		Warning:   lipgloss.Color("#ebcb8b"),
		Error:     lipgloss.Color("#bf616a"),

		Text:     lipgloss.Color("#eceff4"),
		TextDim:  lipgloss.Color("#7b88a1"),
		TextMute: lipgloss.Color("#4c566a"),
	}
)

var tuiThemes = map[string]TUITheme{
	MonokaiTheme.Name:         MonokaiTheme,
	TokyoNightTheme.Name:      TokyoNightTheme,
	CatppuccinMochaTheme.Name: CatppuccinMochaTheme,
	DraculaTheme.Name:         DraculaTheme,
	NordTheme.Name:            NordTheme,
}

var (
	tuiThemeMu      sync.RWMutex
	currentTUITheme = MonokaiTheme
)

// GetTUITheme returns the active TUI theme
func GetTUITheme() TUITheme {
	tuiThemeMu.RLock()
	defer tuiThemeMu.RUnlock()
	return currentTUITheme
}

// SetTUITheme activates the named theme and reports whether it exists
func SetTUITheme(name string) bool {
	theme, ok := GetTUIThemeByName(name)
	if !ok {
		return false
	}
	tuiThemeMu.Lock()
	currentTUITheme = theme
	tuiThemeMu.Unlock()
	return true
}

// GetTUIThemeByName looks a theme up by name
func GetTUIThemeByName(name string) (TUITheme, bool) {
	theme, ok := tuiThemes[name]
	return theme, ok
}

// TUIThemeNames returns the theme names, Monokai first
func TUIThemeNames() []string {
	names := make([]string, 0, len(tuiThemes))
	for name := range tuiThemes {
		if name != MonokaiTheme.Name {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return append([]string{MonokaiTheme.Name}, names...)
}
