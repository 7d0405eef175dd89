package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ffff"))

	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444466")).
			Padding(0, 1)

	StatusRunning = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ff88"))

	StatusPaused = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffaa00"))

	StatusFault = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ff4444"))

	LabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888899")).
			Width(12)

	ValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00ccff")).
			Bold(true)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff88ff")).
			Bold(true)

	KeyHint = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688")).
		Italic(true)
)

// DriveBar renders a signed drive in [-limit, limit] as a bar growing left
// or right from the center of a field width cells wide.
func DriveBar(drive, limit, width int) string {
	half := width / 2
	n := 0
	if limit > 0 {
		n = absInt(drive) * half / limit
	}
	n = min(n, half)

	left := strings.Repeat("░", half)
	right := strings.Repeat("░", width-half)
	if drive < 0 {
		left = strings.Repeat("░", half-n) + strings.Repeat("█", n)
	} else {
		right = strings.Repeat("█", n) + strings.Repeat("░", width-half-n)
	}

	style := lipgloss.NewStyle().Foreground(CurrentTheme.Drive)
	if absInt(drive) >= limit {
		style = style.Foreground(CurrentTheme.Warning)
	}
	return style.Render(left + "│" + right)
}

// Sparkline scales values into one row of block characters, sampling
// evenly when there are more values than cells.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return strings.Repeat("─", max(width, 0))
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	step := max(len(values)/width, 1)
	var b strings.Builder
	for i := 0; i < width && i*step < len(values); i++ {
		norm := (values[i*step] - lo) / span
		idx := int(norm * float64(len(chars)-1))
		b.WriteRune(chars[max(0, min(idx, len(chars)-1))])
	}
	return b.String()
}

func Separator(width int) string {
	return KeyHint.Render(strings.Repeat("─", width))
}
