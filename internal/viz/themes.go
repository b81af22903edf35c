package viz

import "github.com/charmbracelet/lipgloss"

// Theme colors the canvas and the side panel.
type Theme struct {
	Name    string
	Water   lipgloss.Color
	Accent  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
}

var (
	ThemeLagoon = Theme{
		Name:    "lagoon",
		Water:   lipgloss.Color("#00c8ff"),
		Accent:  lipgloss.Color("#7fffd4"),
		Text:    lipgloss.Color("#e0f0ff"),
		Muted:   lipgloss.Color("#4488aa"),
		Success: lipgloss.Color("#00ff88"),
		Warning: lipgloss.Color("#ffcc00"),
	}

	ThemeDeep = Theme{
		Name:    "deep",
		Water:   lipgloss.Color("#0077be"),
		Accent:  lipgloss.Color("#ffd700"),
		Text:    lipgloss.Color("#cfe6ff"),
		Muted:   lipgloss.Color("#335577"),
		Success: lipgloss.Color("#5fd068"),
		Warning: lipgloss.Color("#ffaa00"),
	}

	ThemeEmber = Theme{
		Name:    "ember",
		Water:   lipgloss.Color("#ff6432"), // matches the torch emitter
		Accent:  lipgloss.Color("#feca57"),
		Text:    lipgloss.Color("#fff5f5"),
		Muted:   lipgloss.Color("#8b6b8c"),
		Success: lipgloss.Color("#5fd068"),
		Warning: lipgloss.Color("#ff4757"),
	}

	ThemeMono = Theme{
		Name:    "mono",
		Water:   lipgloss.Color("#ffffff"),
		Accent:  lipgloss.Color("#0088ff"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#888888"),
		Success: lipgloss.Color("#00ff00"),
		Warning: lipgloss.Color("#ffaa00"),
	}

	CurrentTheme = ThemeLagoon

	Themes = []Theme{
		ThemeLagoon,
		ThemeDeep,
		ThemeEmber,
		ThemeMono,
	}
)

// GetTheme returns a theme by name, falling back to lagoon.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeLagoon
}

func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

// NextTheme switches to the theme after the current one.
func NextTheme() {
	for i, t := range Themes {
		if t.Name == CurrentTheme.Name {
			CurrentTheme = Themes[(i+1)%len(Themes)]
			return
		}
	}
	CurrentTheme = ThemeLagoon
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
