package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/san-kum/rigid2d/internal/viz"
	"github.com/san-kum/rigid2d/internal/world"
)

const (
	liveWidth   = 70
	liveHeight  = 20
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// LiveRenderer is a sim.Observer that redraws the world to out at most
// frameRate times per second.
type LiveRenderer struct {
	scene     string
	frameRate int
	lastFrame time.Time
	out       io.Writer
	canvas    *viz.Canvas
	view      viz.Viewport
	fitted    bool
	now       func() time.Time
}

func NewLiveRenderer(out io.Writer, scene string, frameRate int) *LiveRenderer {
	return &LiveRenderer{
		scene:     scene,
		frameRate: max(frameRate, 1),
		out:       out,
		canvas:    viz.NewCanvas(liveWidth, liveHeight),
		now:       time.Now,
	}
}

func (r *LiveRenderer) OnStep(w *world.World, step int) {
	now := r.now()
	if now.Sub(r.lastFrame) < time.Second/time.Duration(r.frameRate) {
		return
	}
	r.lastFrame = now

	// The camera is fixed on the first frame so motion stays visible.
	if !r.fitted {
		r.view = viz.FitViewport(r.canvas, w.Bodies(), 1)
		r.fitted = true
	}
	r.canvas.Clear()
	viz.DrawWorld(r.canvas, r.view, w)
	r.render(w, step)
}

func (r *LiveRenderer) render(w *world.World, step int) {
	var b strings.Builder
	b.WriteString(clearScreen)
	fmt.Fprintf(&b, "  %s  t=%.2fs  step=%d\n", r.scene, w.Time(), step)
	b.WriteString("  " + strings.Repeat("-", liveWidth) + "\n")

	for _, line := range strings.Split(strings.TrimSuffix(r.canvas.String(), "\n"), "\n") {
		b.WriteString("  " + line + "\n")
	}

	b.WriteString("  " + strings.Repeat("-", liveWidth) + "\n")
	s := w.Stats()
	fmt.Fprintf(&b, "  bodies=%d contacts=%d sleeping=%d\n", len(w.Bodies()), s.Contacts, s.Sleeping)

	fmt.Fprint(r.out, b.String())
}

func (r *LiveRenderer) Start() { fmt.Fprint(r.out, hideCursor) }
func (r *LiveRenderer) Stop()  { fmt.Fprint(r.out, showCursor) }
