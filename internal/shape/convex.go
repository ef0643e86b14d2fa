package shape

import (
	"fmt"
	"math"

	"github.com/san-kum/rigid2d/internal/vec"
)

// Convex is a polygon in counter-clockwise order. Normals are outward and
// Normals[i] belongs to the edge Vertices[i] -> Vertices[i+1].
type Convex struct {
	Base
	Vertices []vec.Vec2
	Normals  []vec.Vec2
}

func NewConvex(vertices []vec.Vec2) (*Convex, error) {
	verts, normals, err := buildPolygon(vertices)
	if err != nil {
		return nil, err
	}
	return &Convex{Base: newBase(), Vertices: verts, Normals: normals}, nil
}

func (c *Convex) Kind() Kind { return KindConvex }

func (c *Convex) MomentOfInertia(mass float64) float64 {
	return polygonInertia(c.Vertices, mass)
}

func (c *Convex) LocalAABB() vec.AABB {
	return vec.FromPoints(c.Vertices, vec.Zero, 0)
}

func (c *Convex) ContainsPoint(p vec.Vec2, precision float64) bool {
	return polygonContains(c.Vertices, c.Normals, p, precision)
}

func (c *Convex) Area() float64 { return vec.SignedArea(c.Vertices) }

// Box is an axis aligned rectangle centered on the shape origin.
type Box struct {
	Convex
	Width  float64
	Height float64
}

func NewBox(width, height float64) (*Box, error) {
	if !(width > 0) || !(height > 0) || !vec.Finite(width) || !vec.Finite(height) {
		return nil, fmt.Errorf("box %vx%v: %w", width, height, ErrInvalidGeometry)
	}
	hw, hh := width/2, height/2
	verts, normals, err := buildPolygon([]vec.Vec2{
		vec.New(-hw, -hh), vec.New(hw, -hh), vec.New(hw, hh), vec.New(-hw, hh),
	})
	if err != nil {
		return nil, err
	}
	return &Box{
		Convex: Convex{Base: newBase(), Vertices: verts, Normals: normals},
		Width:  width,
		Height: height,
	}, nil
}

func (b *Box) Kind() Kind { return KindBox }

func (b *Box) MomentOfInertia(mass float64) float64 {
	return mass * (b.Width*b.Width + b.Height*b.Height) / 12
}

func buildPolygon(in []vec.Vec2) ([]vec.Vec2, []vec.Vec2, error) {
	if len(in) < 3 {
		return nil, nil, fmt.Errorf("polygon with %d vertices: %w", len(in), ErrInvalidGeometry)
	}
	verts := make([]vec.Vec2, len(in))
	copy(verts, in)
	for _, v := range verts {
		if !vec.IsFinite(v) {
			return nil, nil, fmt.Errorf("polygon vertex %v: %w", v, ErrInvalidGeometry)
		}
	}

	area := vec.SignedArea(verts)
	if math.Abs(area) < 1e-12 {
		return nil, nil, fmt.Errorf("zero-area polygon: %w", ErrInvalidGeometry)
	}
	if area < 0 {
		for i, j := 0, len(verts)-1; i < j; i, j = i+1, j-1 {
			verts[i], verts[j] = verts[j], verts[i]
		}
	}

	n := len(verts)
	normals := make([]vec.Vec2, n)
	for i := 0; i < n; i++ {
		a, b, c := verts[i], verts[(i+1)%n], verts[(i+2)%n]
		if vec.Cross(b.Sub(a), c.Sub(b)) < -1e-12 {
			return nil, nil, fmt.Errorf("non-convex polygon at vertex %d: %w", (i+1)%n, ErrInvalidGeometry)
		}
		edge, ok := vec.Normalize(b.Sub(a))
		if !ok {
			return nil, nil, fmt.Errorf("duplicate polygon vertex %d: %w", i, ErrInvalidGeometry)
		}
		normals[i] = vec.Rotate90CW(edge)
	}
	return verts, normals, nil
}

func polygonInertia(verts []vec.Vec2, mass float64) float64 {
	var num, den float64
	n := len(verts)
	for i := 0; i < n; i++ {
		a, b := verts[i], verts[(i+1)%n]
		cr := math.Abs(vec.Cross(a, b))
		num += cr * (a.Dot(a) + a.Dot(b) + b.Dot(b))
		den += cr
	}
	if den == 0 {
		return 0
	}
	return mass / 6 * num / den
}

func polygonContains(verts, normals []vec.Vec2, p vec.Vec2, precision float64) bool {
	for i, n := range normals {
		if n.Dot(p.Sub(verts[i])) > precision {
			return false
		}
	}
	return true
}
