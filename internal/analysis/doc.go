// Package analysis inspects recorded runs.
//
// Runs are stored as rows of body poses (see [sim.State]). The helpers here
// pull one column out of a run and look at it:
//
//   - [PowerSpectrum]: magnitude spectrum of a series
//   - [DominantFrequency]: strongest non-DC frequency of a series
//   - [Crossings] and [Period]: upward threshold crossings and their spacing
//   - [Trajectory] and [PhasePortraitToASCII]: two columns plotted against
//     each other
//
// # Oscillation period
//
// A pendulum bob swings around x = 0, so the period can be read either way:
//
//	xs := analysis.Series(states, 0)
//	f, _ := analysis.DominantFrequency(xs, dt)
//	p, ok := analysis.Period(xs, times, 0)
package analysis
