package analysis

import (
	"math"
	"strings"

	"github.com/san-kum/rigid2d/internal/sim"
)

// PhasePortrait2D holds two recorded columns plotted against each other.
type PhasePortrait2D struct {
	XIndex, YIndex int
	Points         []struct{ X, Y float64 }
}

// Trajectory pairs columns xIdx and yIdx of every state. With the x and y
// columns of one body it is the path the body travelled.
func Trajectory(states []sim.State, xIdx, yIdx int) *PhasePortrait2D {
	portrait := &PhasePortrait2D{
		XIndex: xIdx,
		YIndex: yIdx,
		Points: make([]struct{ X, Y float64 }, 0, len(states)),
	}

	for _, s := range states {
		if xIdx >= len(s) || yIdx >= len(s) {
			continue
		}
		portrait.Points = append(portrait.Points, struct{ X, Y float64 }{X: s[xIdx], Y: s[yIdx]})
	}

	if len(portrait.Points) == 0 {
		return nil
	}
	return portrait
}

// PhasePortraitToASCII converts phase portrait to ASCII art
func PhasePortraitToASCII(portrait *PhasePortrait2D, width, height int) string {
	if portrait == nil || len(portrait.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX := portrait.Points[0].X, portrait.Points[0].X
	minY, maxY := portrait.Points[0].Y, portrait.Points[0].Y

	for _, p := range portrait.Points {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}

	// Add padding
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	// Early points are light, late points heavy.
	marks := []rune{'.', 'o', '•'}
	for i, p := range portrait.Points {
		col := int((p.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((p.Y-minY)/rangeY*float64(height-1))

		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = marks[i*len(marks)/len(portrait.Points)]
		}
	}

	// Draw axes if they cross the visible area
	if minX <= 0 && maxX >= 0 {
		col := int((0 - minX) / rangeX * float64(width-1))
		for row := 0; row < height; row++ {
			if col >= 0 && col < width && canvas[row][col] == ' ' {
				canvas[row][col] = '│'
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if row >= 0 && row < height && canvas[row][col] == ' ' {
				canvas[row][col] = '─'
			}
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}

// Crossings returns the interpolated times at which series goes from
// below threshold to at or above it.
func Crossings(series, times []float64, threshold float64) []float64 {
	var out []float64
	n := min(len(series), len(times))
	for i := 1; i < n; i++ {
		prev, curr := series[i-1], series[i]
		if !(prev < threshold && curr >= threshold) {
			continue
		}
		frac := (threshold - prev) / (curr - prev)
		if math.IsNaN(frac) || math.IsInf(frac, 0) {
			frac = 0.5
		}
		out = append(out, times[i-1]+frac*(times[i]-times[i-1]))
	}
	return out
}

// Period is the mean spacing of upward crossings of threshold. It needs at
// least two crossings.
func Period(series, times []float64, threshold float64) (float64, bool) {
	c := Crossings(series, times, threshold)
	if len(c) < 2 {
		return 0, false
	}
	return (c[len(c)-1] - c[0]) / float64(len(c)-1), true
}
