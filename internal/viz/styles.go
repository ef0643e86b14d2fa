package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444466")).
		Padding(0, 1)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00ffff"))

	Subtle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688"))

	StatusRunning = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ff88"))

	StatusPaused = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffaa00"))

	StatusError = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ff4444"))

	MetricValue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00ccff")).
			Bold(true)

	MetricLabel = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888899"))

	KeyHint = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688")).
		Italic(true)

	SparkHigh = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff88"))
	SparkMid  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffcc00"))
	SparkLow  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444"))
)

var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Metric renders "label value" with the metric styles.
func Metric(label, value string) string {
	return MetricLabel.Render(label+" ") + MetricValue.Render(value)
}

// ProgressBar fills width cells in proportion to percent in [0,1].
func ProgressBar(percent float64, width int) string {
	filled := int(percent * float64(width))
	filled = max(0, min(filled, width))

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	switch {
	case percent > 0.8:
		return SparkHigh.Render(bar)
	case percent > 0.4:
		return SparkMid.Render(bar)
	}
	return SparkLow.Render(bar)
}

// Sparkline renders the last width values scaled between their min and max.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return strings.Repeat("─", max(width, 0))
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	var sb strings.Builder
	for _, v := range values {
		norm := (v - lo) / span
		idx := max(0, min(int(norm*float64(len(sparkChars)-1)), len(sparkChars)-1))
		c := string(sparkChars[idx])
		switch {
		case norm > 0.7:
			sb.WriteString(SparkHigh.Render(c))
		case norm > 0.3:
			sb.WriteString(SparkMid.Render(c))
		default:
			sb.WriteString(SparkLow.Render(c))
		}
	}
	return sb.String()
}

func Separator(width int) string {
	if width < 8 {
		return Subtle.Render(strings.Repeat("─", max(width, 0)))
	}
	mid := width / 2
	return Subtle.Render(strings.Repeat("─", mid-3) + " ◆ " + strings.Repeat("─", width-mid-3))
}
