package shape

import (
	"fmt"
	"math"

	"github.com/san-kum/rigid2d/internal/vec"
)

// Line spans [-Length/2, Length/2] on the local x axis.
type Line struct {
	Base
	Length float64
}

func NewLine(length float64) (*Line, error) {
	if !(length > 0) || !vec.Finite(length) {
		return nil, fmt.Errorf("line length %v: %w", length, ErrInvalidGeometry)
	}
	return &Line{Base: newBase(), Length: length}, nil
}

func (l *Line) Kind() Kind { return KindLine }

func (l *Line) MomentOfInertia(mass float64) float64 {
	return mass * l.Length * l.Length / 12
}

func (l *Line) LocalAABB() vec.AABB {
	h := l.Length / 2
	return vec.AABB{Lower: vec.New(-h, 0), Upper: vec.New(h, 0)}
}

func (l *Line) ContainsPoint(p vec.Vec2, precision float64) bool {
	return segmentDistance(l.Length/2, p) <= precision
}

func (l *Line) Area() float64 { return 0 }

// Endpoints in the shape frame.
func (l *Line) Endpoints() (vec.Vec2, vec.Vec2) {
	h := l.Length / 2
	return vec.New(-h, 0), vec.New(h, 0)
}

// Capsule is a line swept by a circle of Radius.
type Capsule struct {
	Base
	Length float64
	Radius float64
}

func NewCapsule(length, radius float64) (*Capsule, error) {
	if !(length > 0) || !(radius > 0) || !vec.Finite(length) || !vec.Finite(radius) {
		return nil, fmt.Errorf("capsule length %v radius %v: %w", length, radius, ErrInvalidGeometry)
	}
	return &Capsule{Base: newBase(), Length: length, Radius: radius}, nil
}

func (c *Capsule) Kind() Kind { return KindCapsule }

func (c *Capsule) MomentOfInertia(mass float64) float64 {
	w := c.Length + c.Radius
	h := c.Radius * 2
	return mass * (h*h + w*w) / 12
}

func (c *Capsule) LocalAABB() vec.AABB {
	h, r := c.Length/2, c.Radius
	return vec.AABB{Lower: vec.New(-h-r, -r), Upper: vec.New(h+r, r)}
}

func (c *Capsule) ContainsPoint(p vec.Vec2, precision float64) bool {
	return segmentDistance(c.Length/2, p) <= c.Radius+precision
}

func (c *Capsule) Area() float64 {
	return c.Length*2*c.Radius + math.Pi*c.Radius*c.Radius
}

func (c *Capsule) Endpoints() (vec.Vec2, vec.Vec2) {
	h := c.Length / 2
	return vec.New(-h, 0), vec.New(h, 0)
}

// segmentDistance from p to the segment [-h, h] on the x axis.
func segmentDistance(h float64, p vec.Vec2) float64 {
	x := math.Max(-h, math.Min(h, p[0]))
	return vec.Dist(vec.New(x, 0), p)
}
