package constraint

import (
	"github.com/san-kum/rigid2d/internal/body"
	"github.com/san-kum/rigid2d/internal/equation"
)

// Gear couples the rotation of two bodies: ratio*angleA - angleB stays
// constant.
type Gear struct {
	Base
	eq *equation.AngleLock
}

func NewGear(a, b *body.Body, ratio float64) *Gear {
	eq := equation.NewAngleLock(a, b, ratio)
	eq.Angle = b.Angle() - ratio*a.Angle()
	return &Gear{Base: newBase(a, b, eq), eq: eq}
}

func (g *Gear) Ratio() float64 { return g.eq.Ratio }

func (g *Gear) SetRatio(ratio float64) { g.eq.SetRatio(ratio) }

// SetAngle sets the relative angle kept between the bodies.
func (g *Gear) SetAngle(angle float64) { g.eq.Angle = angle }

func (g *Gear) SetMaxTorque(t float64) { g.eq.SetMaxTorque(t) }

func (g *Gear) Update() []equation.Equation {
	return g.collect(g.eq)
}
