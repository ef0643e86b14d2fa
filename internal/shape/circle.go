package shape

import (
	"fmt"
	"math"

	"github.com/san-kum/rigid2d/internal/vec"
)

type Circle struct {
	Base
	Radius float64
}

func NewCircle(radius float64) (*Circle, error) {
	if !(radius > 0) || !vec.Finite(radius) {
		return nil, fmt.Errorf("circle radius %v: %w", radius, ErrInvalidGeometry)
	}
	return &Circle{Base: newBase(), Radius: radius}, nil
}

func (c *Circle) Kind() Kind { return KindCircle }

func (c *Circle) MomentOfInertia(mass float64) float64 {
	return mass * c.Radius * c.Radius / 2
}

func (c *Circle) LocalAABB() vec.AABB {
	r := c.Radius
	return vec.AABB{Lower: vec.New(-r, -r), Upper: vec.New(r, r)}
}

func (c *Circle) ContainsPoint(p vec.Vec2, precision float64) bool {
	r := c.Radius + precision
	return p.LenSqr() <= r*r
}

func (c *Circle) Area() float64 { return math.Pi * c.Radius * c.Radius }

// Particle is a massless-geometry point. It collides with everything except
// other particles and cannot rotate.
type Particle struct {
	Base
}

func NewParticle() *Particle {
	return &Particle{Base: newBase()}
}

func (p *Particle) Kind() Kind                       { return KindParticle }
func (p *Particle) MomentOfInertia(float64) float64 { return 0 }
func (p *Particle) LocalAABB() vec.AABB              { return vec.AABB{} }
func (p *Particle) Area() float64                    { return 0 }

func (p *Particle) ContainsPoint(pt vec.Vec2, precision float64) bool {
	return pt.LenSqr() <= precision*precision
}
