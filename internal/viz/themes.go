package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines the colour scheme of the live view. Bodies are the default
// body colours; colours configured per body take precedence.
type Theme struct {
	Name       string
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Background lipgloss.Color
	Muted      lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color
	Bodies     [3]string
}

// Available themes
var (
	ThemeCyberpunk = Theme{
		Name:       "cyberpunk",
		Primary:    lipgloss.Color("#00ffff"),
		Accent:     lipgloss.Color("#ff00ff"),
		Background: lipgloss.Color("#0a0a0a"),
		Muted:      lipgloss.Color("#666666"),
		Warning:    lipgloss.Color("#ff8800"),
		Error:      lipgloss.Color("#ff0000"),
		Bodies:     [3]string{"#ff3333", "#33ccff", "#ffff33"},
	}

	ThemeRetroGreen = Theme{
		Name:       "retro",
		Primary:    lipgloss.Color("#00ff00"),
		Accent:     lipgloss.Color("#88ff88"),
		Background: lipgloss.Color("#001100"),
		Muted:      lipgloss.Color("#005500"),
		Warning:    lipgloss.Color("#ffff00"),
		Error:      lipgloss.Color("#ff0000"),
		Bodies:     [3]string{"#00ff00", "#88ff88", "#ccffcc"},
	}

	ThemeOcean = Theme{
		Name:       "ocean",
		Primary:    lipgloss.Color("#00a8cc"),
		Accent:     lipgloss.Color("#ffd700"),
		Background: lipgloss.Color("#001a33"),
		Muted:      lipgloss.Color("#4488aa"),
		Warning:    lipgloss.Color("#ffcc00"),
		Error:      lipgloss.Color("#ff4444"),
		Bodies:     [3]string{"#ffd700", "#00a8cc", "#e0f0ff"},
	}

	ThemeSunset = Theme{
		Name:       "sunset",
		Primary:    lipgloss.Color("#feca57"),
		Accent:     lipgloss.Color("#ff9ff3"),
		Background: lipgloss.Color("#2d1b2e"),
		Muted:      lipgloss.Color("#8b6b8c"),
		Warning:    lipgloss.Color("#ffc048"),
		Error:      lipgloss.Color("#ff4757"),
		Bodies:     [3]string{"#ff6b6b", "#feca57", "#5fd068"},
	}

	Themes = []Theme{
		ThemeCyberpunk,
		ThemeRetroGreen,
		ThemeOcean,
		ThemeSunset,
	}
)

// GetTheme returns a theme by name, or the first theme if none matches.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return Themes[0]
}

// NextTheme returns the theme after the named one, wrapping around.
func NextTheme(name string) Theme {
	for i, t := range Themes {
		if t.Name == name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
