package equation

import (
	"github.com/san-kum/rigid2d/internal/body"
	"github.com/san-kum/rigid2d/internal/shape"
	"github.com/san-kum/rigid2d/internal/vec"
)

// Friction resists slip along T. Its bound is set from the paired contact.
type Friction struct {
	Base

	ContactPointA vec.Vec2
	ContactPointB vec.Vec2
	T             vec.Vec2

	Contact *Contact

	ShapeA shape.Shape
	ShapeB shape.Shape

	FrictionCoefficient float64
}

func NewFriction() *Friction {
	return &Friction{Base: NewBase(nil, nil, -MaxForce, MaxForce), FrictionCoefficient: 0.3}
}

func (f *Friction) Set(bodyA, bodyB *body.Body, shapeA, shapeB shape.Shape) {
	f.BodyA, f.BodyB = bodyA, bodyB
	f.ShapeA, f.ShapeB = shapeA, shapeB
}

// SetSlipForce bounds the friction force to [-slip, slip].
func (f *Friction) SetSlipForce(slip float64) {
	if slip < 0 {
		slip = -slip
	}
	f.MaxForce = slip
	f.MinForce = -slip
}

func (f *Friction) SlipForce() float64 { return f.MaxForce }

func (f *Friction) ComputeB(a, b, h float64) float64 {
	ri, rj, t := f.ContactPointA, f.ContactPointB, f.T
	G := &f.G

	G[0] = -t[0]
	G[1] = -t[1]
	G[2] = -vec.Cross(ri, t)
	G[3] = t[0]
	G[4] = t[1]
	G[5] = vec.Cross(rj, t)

	// pure velocity constraint, no position term
	return -f.ComputeGW()*b - h*f.ComputeGiMf()
}

func (f *Friction) Reset() {
	f.Base.Reset()
	f.MinForce, f.MaxForce = -MaxForce, MaxForce
	f.ContactPointA = vec.Zero
	f.ContactPointB = vec.Zero
	f.T = vec.Zero
	f.Contact = nil
	f.ShapeA, f.ShapeB = nil, nil
	f.FrictionCoefficient = 0.3
}
