package viz

import (
	"math"
	"strings"
	"testing"

	"github.com/san-kum/rigid2d/internal/body"
	"github.com/san-kum/rigid2d/internal/shape"
	"github.com/san-kum/rigid2d/internal/spring"
	"github.com/san-kum/rigid2d/internal/vec"
	"github.com/san-kum/rigid2d/internal/world"
)

func countSet(c *Canvas) int {
	w, h := c.PixelSize()
	n := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if c.IsSet(x, y) {
				n++
			}
		}
	}
	return n
}

func TestCanvasSetUnset(t *testing.T) {
	c := NewCanvas(4, 2)
	w, h := c.PixelSize()
	if w != 8 || h != 8 {
		t.Fatalf("expected 8x8 dots, got %dx%d", w, h)
	}

	c.Set(3, 5)
	if !c.IsSet(3, 5) {
		t.Error("dot should be set")
	}
	c.Set(-1, 0)
	c.Set(100, 100)
	if countSet(c) != 1 {
		t.Errorf("out of range dots must be ignored, got %d set", countSet(c))
	}

	c.Unset(3, 5)
	if c.IsSet(3, 5) {
		t.Error("dot should be cleared")
	}
}

func TestCanvasString(t *testing.T) {
	c := NewCanvas(3, 2)
	c.Set(0, 0)
	lines := strings.Split(strings.TrimSuffix(c.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(lines))
	}
	if []rune(lines[0])[0] != 0x2801 {
		t.Errorf("expected top-left dot glyph, got %q", lines[0])
	}
}

func TestDrawLine(t *testing.T) {
	c := NewCanvas(10, 3)
	c.DrawLine(0, 0, 9, 0)
	for x := 0; x <= 9; x++ {
		if !c.IsSet(x, 0) {
			t.Errorf("dot %d on horizontal line not set", x)
		}
	}

	c.Clear()
	c.DrawLine(0, 0, 7, 7)
	for i := 0; i <= 7; i++ {
		if !c.IsSet(i, i) {
			t.Errorf("dot %d on diagonal not set", i)
		}
	}
}

func TestDrawCircle(t *testing.T) {
	c := NewCanvas(20, 10)
	c.DrawCircle(20, 20, 8)
	for _, p := range [][2]int{{28, 20}, {12, 20}, {20, 28}, {20, 12}} {
		if !c.IsSet(p[0], p[1]) {
			t.Errorf("extreme point %v not set", p)
		}
	}
	if c.IsSet(20, 20) {
		t.Error("circle outline should not fill the center")
	}
}

func TestDrawPolyline(t *testing.T) {
	c := NewCanvas(10, 5)
	xs := []int{0, 10, 10}
	ys := []int{0, 0, 10}

	c.DrawPolyline(xs, ys, false)
	if c.IsSet(5, 5) {
		t.Error("open polyline should not close the loop")
	}

	c.DrawPolyline(xs, ys, true)
	if !c.IsSet(5, 5) {
		t.Error("closed polyline should draw the closing edge")
	}
}

func TestViewportRoundTrip(t *testing.T) {
	c := NewCanvas(40, 20)
	v := NewViewport(c, vec.New(1, 2), 10)

	x, y := v.Project(vec.New(1, 2))
	if x != 40 || y != 40 {
		t.Errorf("center should map to canvas center, got (%d, %d)", x, y)
	}

	_, above := v.Project(vec.New(1, 3))
	if above >= y {
		t.Error("higher world points must map to smaller canvas rows")
	}

	p := v.Unproject(50, 30)
	if math.Abs(p[0]-2) > 1e-9 || math.Abs(p[1]-3) > 1e-9 {
		t.Errorf("unproject mismatch: %v", p)
	}
}

func newWorld(t *testing.T) *world.World {
	t.Helper()
	w, err := world.New(world.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	return w
}

func addBody(t *testing.T, w *world.World, mass float64, pos vec.Vec2, s shape.Shape) *body.Body {
	t.Helper()
	b, err := body.New(body.Options{Mass: mass, Position: pos})
	if err != nil {
		t.Fatalf("body.New: %v", err)
	}
	b.AddShape(s, vec.Zero, 0)
	if err := w.AddBody(b); err != nil {
		t.Fatal(err)
	}
	return b
}

func TestFitViewportIgnoresPlanes(t *testing.T) {
	w := newWorld(t)
	addBody(t, w, 0, vec.Zero, shape.NewPlane())
	ball, err := shape.NewCircle(1)
	if err != nil {
		t.Fatal(err)
	}
	addBody(t, w, 1, vec.New(4, 6), ball)

	c := NewCanvas(40, 20)
	v := FitViewport(c, w.Bodies(), 0.5)
	if v.Scale <= 1 || v.Scale > 1000 {
		t.Fatalf("scale should frame the finite bodies, got %v", v.Scale)
	}

	x, y := v.Project(vec.New(4, 6))
	pw, ph := c.PixelSize()
	if x < 0 || x >= pw || y < 0 || y >= ph {
		t.Errorf("ball center (%d, %d) outside canvas", x, y)
	}
}

func TestFitViewportEmpty(t *testing.T) {
	c := NewCanvas(10, 5)
	v := FitViewport(c, nil, 1)
	if v.Scale <= 0 {
		t.Errorf("expected positive default scale, got %v", v.Scale)
	}
}

func TestDrawWorldShapes(t *testing.T) {
	tests := []struct {
		name  string
		shape func() (shape.Shape, error)
	}{
		{"circle", func() (shape.Shape, error) { return shape.NewCircle(0.5) }},
		{"particle", func() (shape.Shape, error) { return shape.NewParticle(), nil }},
		{"box", func() (shape.Shape, error) { return shape.NewBox(1, 1) }},
		{"line", func() (shape.Shape, error) { return shape.NewLine(2) }},
		{"capsule", func() (shape.Shape, error) { return shape.NewCapsule(1, 0.3) }},
		{"heightfield", func() (shape.Shape, error) { return shape.NewHeightfield([]float64{0, 1, 0, 1}, 0.5) }},
		{"compound", func() (shape.Shape, error) {
			a, err := shape.NewCircle(0.2)
			if err != nil {
				return nil, err
			}
			b, err := shape.NewCircle(0.2)
			if err != nil {
				return nil, err
			}
			a.Offset, b.Offset = vec.New(-0.4, 0), vec.New(0.4, 0)
			return shape.NewCompound(a, b)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := tt.shape()
			if err != nil {
				t.Fatal(err)
			}
			w := newWorld(t)
			addBody(t, w, 0, vec.Zero, s)

			c := NewCanvas(40, 20)
			DrawWorld(c, NewViewport(c, vec.Zero, 10), w)
			if countSet(c) == 0 {
				t.Error("nothing drawn")
			}
		})
	}
}

func TestDrawWorldPlane(t *testing.T) {
	w := newWorld(t)
	addBody(t, w, 0, vec.Zero, shape.NewPlane())

	c := NewCanvas(40, 20)
	DrawWorld(c, NewViewport(c, vec.Zero, 10), w)
	pw, _ := c.PixelSize()
	for x := 0; x < pw; x++ {
		if !c.IsSet(x, 40) {
			t.Fatalf("plane surface missing at column %d", x)
		}
	}
}

func TestDrawWorldSpring(t *testing.T) {
	w := newWorld(t)
	a := addBody(t, w, 0, vec.New(-2, 0), shape.NewParticle())
	b := addBody(t, w, 0, vec.New(2, 0), shape.NewParticle())
	if err := w.AddSpring(spring.NewLinear(a, b)); err != nil {
		t.Fatal(err)
	}

	c := NewCanvas(40, 20)
	DrawWorld(c, NewViewport(c, vec.Zero, 10), w)
	if !c.IsSet(40, 40) {
		t.Error("spring line should pass through the origin")
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline(nil, 5); got != "─────" {
		t.Errorf("empty sparkline: %q", got)
	}
	out := Sparkline([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 4)
	if !strings.Contains(out, "█") {
		t.Errorf("max value should render a full bar: %q", out)
	}
}

func TestPlot(t *testing.T) {
	out := Plot([]float64{0, 1, 2, 1, 0}, "bounce", 20, 5)
	if !strings.Contains(out, "bounce") {
		t.Errorf("caption missing:\n%s", out)
	}

	many := PlotMany([][]float64{{0, 1, 2}, {2, 1, 0}}, "pair", 20, 5)
	if !strings.Contains(many, "pair") {
		t.Errorf("caption missing:\n%s", many)
	}
}
