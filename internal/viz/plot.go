package viz

import (
	"github.com/guptarohit/asciigraph"
)

var seriesColors = []asciigraph.AnsiColor{
	asciigraph.Cyan, asciigraph.Yellow, asciigraph.Green, asciigraph.Magenta, asciigraph.Red, asciigraph.Blue,
}

// Plot draws one series as an ascii line chart.
func Plot(series []float64, caption string, width, height int) string {
	return asciigraph.Plot(series,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

// PlotMany overlays several series on shared axes, one color each.
func PlotMany(series [][]float64, caption string, width, height int) string {
	colors := make([]asciigraph.AnsiColor, len(series))
	for i := range colors {
		colors[i] = seriesColors[i%len(seriesColors)]
	}
	return asciigraph.PlotMany(series,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(colors...),
	)
}
