package equation

import (
	"github.com/san-kum/rigid2d/internal/body"
	"github.com/san-kum/rigid2d/internal/shape"
	"github.com/san-kum/rigid2d/internal/vec"
)

// Contact keeps two shapes from penetrating along NormalA.
type Contact struct {
	Base

	// Contact points relative to each body position, world oriented.
	ContactPointA vec.Vec2
	ContactPointB vec.Vec2
	// NormalA points out of shape A towards B.
	NormalA vec.Vec2

	Restitution float64
	FirstImpact bool

	ShapeA shape.Shape
	ShapeB shape.Shape
	// Index of this contact among the contacts of its shape pair.
	Index int
}

func NewContact() *Contact {
	return &Contact{Base: NewBase(nil, nil, 0, MaxForce)}
}

func (c *Contact) Set(bodyA, bodyB *body.Body, shapeA, shapeB shape.Shape) {
	c.BodyA, c.BodyB = bodyA, bodyB
	c.ShapeA, c.ShapeB = shapeA, shapeB
	c.MinForce = 0
	c.MaxForce = MaxForce
}

// PenetrationDepth is positive when the surfaces overlap.
func (c *Contact) PenetrationDepth() float64 {
	pa := c.BodyA.Position().Add(c.ContactPointA)
	pb := c.BodyB.Position().Add(c.ContactPointB)
	return -c.NormalA.Dot(pb.Sub(pa))
}

func (c *Contact) ComputeB(a, b, h float64) float64 {
	ri, rj, n := c.ContactPointA, c.ContactPointB, c.NormalA
	G := &c.G

	G[0] = -n[0]
	G[1] = -n[1]
	G[2] = -vec.Cross(ri, n)
	G[3] = n[0]
	G[4] = n[1]
	G[5] = vec.Cross(rj, n)

	var Gq, GW float64
	if c.FirstImpact && c.Restitution != 0 {
		GW = (1 / b) * (1 + c.Restitution) * c.ComputeGW()
	} else {
		pa := c.BodyA.Position().Add(ri)
		pb := c.BodyB.Position().Add(rj)
		Gq = n.Dot(pb.Sub(pa)) + c.Offset
		GW = c.ComputeGW()
	}

	return -Gq*a - GW*b - h*c.ComputeGiMf()
}

// NormalVelocity is the separating speed along the normal.
func (c *Contact) NormalVelocity() float64 {
	va := c.BodyA.VelocityAt(c.ContactPointA)
	vb := c.BodyB.VelocityAt(c.ContactPointB)
	return c.NormalA.Dot(vb.Sub(va))
}

func (c *Contact) Reset() {
	c.Base.Reset()
	c.ContactPointA = vec.Zero
	c.ContactPointB = vec.Zero
	c.NormalA = vec.Zero
	c.Restitution = 0
	c.FirstImpact = false
	c.ShapeA, c.ShapeB = nil, nil
	c.Index = 0
}
