package vec

import (
	"math"
	"testing"
)

func TestCross(t *testing.T) {
	tests := []struct {
		a, b     Vec2
		expected float64
	}{
		{New(1, 0), New(0, 1), 1},
		{New(0, 1), New(1, 0), -1},
		{New(2, 3), New(4, 6), 0},
	}

	for _, tt := range tests {
		if got := Cross(tt.a, tt.b); got != tt.expected {
			t.Errorf("Cross(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.expected)
		}
	}
}

func TestRotate(t *testing.T) {
	r := Rotate(New(1, 0), math.Pi/2)
	if math.Abs(r[0]) > 1e-12 || math.Abs(r[1]-1) > 1e-12 {
		t.Errorf("Rotate by pi/2 = %v, want (0, 1)", r)
	}

	p := Perp(New(1, 0))
	if p != New(0, 1) {
		t.Errorf("Perp = %v", p)
	}
	if Rotate90CW(p) != New(1, 0) {
		t.Errorf("Rotate90CW(Perp(v)) != v")
	}
}

func TestNormalizeZero(t *testing.T) {
	n, ok := Normalize(Zero)
	if ok {
		t.Error("expected zero vector to fail normalization")
	}
	if !IsFinite(n) {
		t.Errorf("Normalize(0) produced non-finite %v", n)
	}

	n, ok = Normalize(New(3, 4))
	if !ok || math.Abs(n.Len()-1) > 1e-12 {
		t.Errorf("Normalize(3,4) = %v, %v", n, ok)
	}
}

func TestFrames(t *testing.T) {
	pos := New(2, 1)
	angle := 0.7
	world := New(-3, 5)

	local := ToLocalFrame(world, pos, angle)
	back := ToGlobalFrame(local, pos, angle)
	if Dist(world, back) > 1e-12 {
		t.Errorf("frame round trip drifted: %v -> %v", world, back)
	}
}

func TestPolygonHelpers(t *testing.T) {
	square := []Vec2{New(0, 0), New(2, 0), New(2, 2), New(0, 2)}

	if a := SignedArea(square); a != 4 {
		t.Errorf("SignedArea = %v, want 4", a)
	}
	if c := Centroid(square); Dist(c, New(1, 1)) > 1e-12 {
		t.Errorf("Centroid = %v, want (1, 1)", c)
	}
}

func TestAABB(t *testing.T) {
	a := AABB{Lower: New(0, 0), Upper: New(1, 1)}
	b := AABB{Lower: New(0.5, 0.5), Upper: New(2, 2)}
	c := AABB{Lower: New(3, 3), Upper: New(4, 4)}

	if !a.Overlaps(b) {
		t.Error("a and b should overlap")
	}
	if a.Overlaps(c) {
		t.Error("a and c should not overlap")
	}
	if !a.Grow(2.5).Overlaps(c) {
		t.Error("grown a should reach c")
	}

	rot := a.Transform(Zero, math.Pi/4)
	if rot.Upper[1] < math.Sqrt2-1e-9 {
		t.Errorf("rotated box upper y = %v", rot.Upper[1])
	}
}
