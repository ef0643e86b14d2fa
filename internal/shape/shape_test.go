package shape

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/rigid2d/internal/vec"
)

func TestConstructorsRejectBadGeometry(t *testing.T) {
	tests := []struct {
		name string
		fn   func() error
	}{
		{"zero radius", func() error { _, err := NewCircle(0); return err }},
		{"nan radius", func() error { _, err := NewCircle(math.NaN()); return err }},
		{"negative box", func() error { _, err := NewBox(-1, 1); return err }},
		{"two vertices", func() error { _, err := NewConvex([]vec.Vec2{{0, 0}, {1, 0}}); return err }},
		{"collinear", func() error { _, err := NewConvex([]vec.Vec2{{0, 0}, {1, 0}, {2, 0}}); return err }},
		{"concave", func() error {
			_, err := NewConvex([]vec.Vec2{{0, 0}, {2, 0}, {1, 0.2}, {2, 2}, {0, 2}})
			return err
		}},
		{"short heightfield", func() error { _, err := NewHeightfield([]float64{1}, 1); return err }},
		{"zero spacing", func() error { _, err := NewHeightfield([]float64{1, 2}, 0); return err }},
		{"capsule radius", func() error { _, err := NewCapsule(1, 0); return err }},
		{"line length", func() error { _, err := NewLine(0); return err }},
		{"empty compound", func() error { _, err := NewCompound(); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.fn(); !errors.Is(err, ErrInvalidGeometry) {
				t.Errorf("got %v, want ErrInvalidGeometry", err)
			}
		})
	}
}

func TestConvexWindingIsCounterClockwise(t *testing.T) {
	c, err := NewConvex([]vec.Vec2{{0, 0}, {0, 1}, {1, 1}, {1, 0}})
	if err != nil {
		t.Fatal(err)
	}
	if a := c.Area(); math.Abs(a-1) > 1e-12 {
		t.Errorf("area = %v, want 1", a)
	}
	for i, n := range c.Normals {
		mid := c.Vertices[i].Add(c.Vertices[(i+1)%len(c.Vertices)]).Mul(0.5)
		center := vec.New(0.5, 0.5)
		if n.Dot(mid.Sub(center)) <= 0 {
			t.Errorf("normal %d = %v points inwards", i, n)
		}
	}
}

func TestMomentOfInertia(t *testing.T) {
	box, _ := NewBox(2, 4)
	circle, _ := NewCircle(2)
	line, _ := NewLine(3)
	square, _ := NewConvex([]vec.Vec2{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}})

	tests := []struct {
		name     string
		s        Shape
		mass     float64
		expected float64
	}{
		{"box", box, 3, 3 * (4 + 16) / 12.0},
		{"circle", circle, 2, 4},
		{"line", line, 4, 3},
		{"square polygon", square, 6, 6 * (4 + 4) / 12.0},
		{"plane", NewPlane(), 10, 0},
		{"particle", NewParticle(), 10, 0},
	}

	for _, tt := range tests {
		if got := tt.s.MomentOfInertia(tt.mass); math.Abs(got-tt.expected) > 1e-9 {
			t.Errorf("%s: inertia = %v, want %v", tt.name, got, tt.expected)
		}
	}
}

func TestCompoundParallelAxis(t *testing.T) {
	a, _ := NewCircle(1)
	b, _ := NewCircle(1)
	a.Offset = vec.New(-2, 0)
	b.Offset = vec.New(2, 0)
	c, err := NewCompound(a, b)
	if err != nil {
		t.Fatal(err)
	}

	// Each child: 1*1/2 + 1*4.
	if got := c.MomentOfInertia(2); math.Abs(got-9) > 1e-12 {
		t.Errorf("compound inertia = %v, want 9", got)
	}
	box := c.LocalAABB()
	if box.Lower != vec.New(-3, -1) || box.Upper != vec.New(3, 1) {
		t.Errorf("compound aabb = %+v", box)
	}
	if !c.ContainsPoint(vec.New(2.5, 0), 0) || c.ContainsPoint(vec.New(0, 0), 0) {
		t.Error("compound containment follows child offsets")
	}
}

func TestContainsPoint(t *testing.T) {
	box, _ := NewBox(2, 2)
	capsule, _ := NewCapsule(2, 0.5)
	hf, _ := NewHeightfield([]float64{0, 1, 0}, 1)

	tests := []struct {
		name      string
		s         Shape
		p         vec.Vec2
		precision float64
		want      bool
	}{
		{"box inside", box, vec.New(0.9, -0.9), 0, true},
		{"box outside", box, vec.New(1.1, 0), 0, false},
		{"box within precision", box, vec.New(1.05, 0), 0.1, true},
		{"plane below", NewPlane(), vec.New(100, -1), 0, true},
		{"plane above", NewPlane(), vec.New(0, 0.5), 0, false},
		{"capsule cap", capsule, vec.New(1.4, 0), 0, true},
		{"capsule side", capsule, vec.New(0, 0.6), 0, false},
		{"heightfield under peak", hf, vec.New(1, 0.9), 0, true},
		{"heightfield above slope", hf, vec.New(0.5, 0.6), 0, false},
		{"heightfield outside", hf, vec.New(3, -1), 0, false},
	}

	for _, tt := range tests {
		if got := tt.s.ContainsPoint(tt.p, tt.precision); got != tt.want {
			t.Errorf("%s: ContainsPoint(%v) = %v, want %v", tt.name, tt.p, got, tt.want)
		}
	}
}

func TestHeightfieldTiles(t *testing.T) {
	hf, _ := NewHeightfield([]float64{0, 2, 1, 3}, 0.5)
	if w := hf.Width(); w != 1.5 {
		t.Errorf("width = %v", w)
	}
	if y, ok := hf.HeightAt(0.25); !ok || math.Abs(y-1) > 1e-12 {
		t.Errorf("HeightAt(0.25) = %v, %v", y, ok)
	}
	lo, hi := hf.TileRange(-1, 0.7)
	if lo != 0 || hi != 2 {
		t.Errorf("TileRange = %d, %d", lo, hi)
	}
	tile := hf.Tile(1)
	if vec.SignedArea(tile[:]) <= 0 {
		t.Error("tile is not counter-clockwise")
	}
}

func TestCanCollideMasks(t *testing.T) {
	a := newBase()
	b := newBase()
	if !CanCollide(&a, &b) {
		t.Fatal("default filters should collide")
	}
	a.CollisionGroup = 2
	b.CollisionMask = 1
	if CanCollide(&a, &b) {
		t.Error("mask excludes group 2")
	}
}

func TestBodyAABBAppliesOffset(t *testing.T) {
	c, _ := NewCircle(1)
	c.Offset = vec.New(3, 0)
	box := BodyAABB(c)
	if math.Abs(box.Lower[0]-2) > 1e-12 || math.Abs(box.Upper[0]-4) > 1e-12 {
		t.Errorf("BodyAABB = %+v", box)
	}
}
