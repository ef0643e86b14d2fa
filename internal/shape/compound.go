package shape

import (
	"fmt"

	"github.com/san-kum/rigid2d/internal/vec"
)

// Compound groups child shapes. Child offsets and angles are relative to
// the compound frame.
type Compound struct {
	Base
	Children []Shape
}

func NewCompound(children ...Shape) (*Compound, error) {
	if len(children) == 0 {
		return nil, fmt.Errorf("empty compound: %w", ErrInvalidGeometry)
	}
	for _, c := range children {
		if _, ok := c.(*Compound); ok {
			return nil, fmt.Errorf("nested compound: %w", ErrInvalidGeometry)
		}
	}
	return &Compound{Base: newBase(), Children: children}, nil
}

func (c *Compound) Kind() Kind { return KindCompound }

// MomentOfInertia splits the mass evenly and applies the parallel axis
// theorem to each child offset.
func (c *Compound) MomentOfInertia(mass float64) float64 {
	m := mass / float64(len(c.Children))
	var inertia float64
	for _, child := range c.Children {
		r2 := child.Props().Offset.LenSqr()
		inertia += child.MomentOfInertia(m) + m*r2
	}
	return inertia
}

func (c *Compound) LocalAABB() vec.AABB {
	out := vec.EmptyAABB()
	for _, child := range c.Children {
		out = out.Extend(BodyAABB(child))
	}
	return out
}

func (c *Compound) ContainsPoint(p vec.Vec2, precision float64) bool {
	for _, child := range c.Children {
		if child.ContainsPoint(ToLocal(child, p), precision) {
			return true
		}
	}
	return false
}

func (c *Compound) Area() float64 {
	var a float64
	for _, child := range c.Children {
		a += child.Area()
	}
	return a
}
