package shape

import "github.com/san-kum/rigid2d/internal/vec"

// Plane is the half-space y <= 0 in its own frame.
type Plane struct {
	Base
}

func NewPlane() *Plane {
	return &Plane{Base: newBase()}
}

func (p *Plane) Kind() Kind                       { return KindPlane }
func (p *Plane) MomentOfInertia(float64) float64 { return 0 }
func (p *Plane) Area() float64                    { return 0 }

func (p *Plane) LocalAABB() vec.AABB {
	return vec.AABB{Lower: vec.New(-huge, -huge), Upper: vec.New(huge, 0)}
}

func (p *Plane) ContainsPoint(pt vec.Vec2, precision float64) bool {
	return pt[1] <= precision
}
