package viz

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

// Theme colors the live view. Graph colors are the nearest ANSI colors
// since asciigraph does not take true color.
type Theme struct {
	Name     string
	Position lipgloss.Color
	Seek     lipgloss.Color
	Drive    lipgloss.Color
	Muted    lipgloss.Color
	Warning  lipgloss.Color

	GraphPosition asciigraph.AnsiColor
	GraphSeek     asciigraph.AnsiColor
}

var (
	ThemeBench = Theme{
		Name:          "bench",
		Position:      lipgloss.Color("#00ff88"),
		Seek:          lipgloss.Color("#ffaa00"),
		Drive:         lipgloss.Color("#00aaff"),
		Muted:         lipgloss.Color("#666688"),
		Warning:       lipgloss.Color("#ff4444"),
		GraphPosition: asciigraph.Green,
		GraphSeek:     asciigraph.Orange,
	}

	ThemePhosphor = Theme{
		Name:          "phosphor",
		Position:      lipgloss.Color("#00ff00"),
		Seek:          lipgloss.Color("#88ff88"),
		Drive:         lipgloss.Color("#00cc00"),
		Muted:         lipgloss.Color("#005500"),
		Warning:       lipgloss.Color("#ffff00"),
		GraphPosition: asciigraph.Lime,
		GraphSeek:     asciigraph.DarkGreen,
	}

	ThemeMono = Theme{
		Name:          "mono",
		Position:      lipgloss.Color("#ffffff"),
		Seek:          lipgloss.Color("#aaaaaa"),
		Drive:         lipgloss.Color("#cccccc"),
		Muted:         lipgloss.Color("#666666"),
		Warning:       lipgloss.Color("#ffffff"),
		GraphPosition: asciigraph.White,
		GraphSeek:     asciigraph.Gray,
	}

	CurrentTheme = ThemeBench

	Themes = []Theme{ThemeBench, ThemePhosphor, ThemeMono}
)

// GetTheme returns the named theme, or the bench theme.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeBench
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
	CurrentTheme = ThemeBench
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
