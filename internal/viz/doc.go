// Package viz draws worlds into the terminal.
//
// [Canvas] is a braille dot grid with line, circle and polyline
// primitives. [Viewport] maps world coordinates onto canvas dots and
// [DrawWorld] renders every body shape, linear spring and anchored joint
// through it. The lipgloss styles in this package are shared by the live
// lab and the command line output.
package viz
