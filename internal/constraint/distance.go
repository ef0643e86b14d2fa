package constraint

import (
	"github.com/san-kum/rigid2d/internal/body"
	"github.com/san-kum/rigid2d/internal/equation"
	"github.com/san-kum/rigid2d/internal/vec"
)

// Distance keeps two anchor points at a fixed distance, or within
// [LowerLimit, UpperLimit] when a limit is enabled.
type Distance struct {
	Base

	LocalAnchorA vec.Vec2
	LocalAnchorB vec.Vec2
	Distance     float64
	MaxForce     float64

	LowerLimitEnabled bool
	UpperLimitEnabled bool
	LowerLimit        float64
	UpperLimit        float64

	// Position is the anchor separation measured by the last Update.
	Position float64

	normal *equation.Row
}

// NewDistance anchors at the body origins and uses their current distance.
func NewDistance(a, b *body.Body) *Distance {
	return NewDistanceAnchors(a, b, vec.Zero, vec.Zero)
}

func NewDistanceAnchors(a, b *body.Body, anchorA, anchorB vec.Vec2) *Distance {
	normal := equation.NewRow(a, b, -equation.MaxForce, equation.MaxForce)
	d := &Distance{
		Base:         newBase(a, b, normal),
		LocalAnchorA: anchorA,
		LocalAnchorB: anchorB,
		MaxForce:     equation.MaxForce,
		normal:       normal,
	}
	d.Distance = vec.Dist(a.ToWorldFrame(anchorA), b.ToWorldFrame(anchorB))
	d.Position = d.Distance
	normal.GqFunc = func() float64 { return d.Position - d.Distance }
	return d
}

func (d *Distance) SetMaxForce(f float64) {
	d.MaxForce = f
	d.normal.MinForce, d.normal.MaxForce = -f, f
}

func (d *Distance) Update() []equation.Equation {
	a, b := d.BodyA, d.BodyB
	ri := vec.Rotate(d.LocalAnchorA, a.Angle())
	rj := vec.Rotate(d.LocalAnchorB, b.Angle())
	r := b.Position().Add(rj).Sub(a.Position().Add(ri))
	d.Position = r.Len()

	eq := d.normal
	eq.Enabled = true
	eq.MinForce, eq.MaxForce = -d.MaxForce, d.MaxForce
	if d.LowerLimitEnabled || d.UpperLimitEnabled {
		switch {
		case d.UpperLimitEnabled && d.Position > d.UpperLimit:
			d.Distance = d.UpperLimit
			eq.MinForce, eq.MaxForce = -d.MaxForce, 0
		case d.LowerLimitEnabled && d.Position < d.LowerLimit:
			d.Distance = d.LowerLimit
			eq.MinForce, eq.MaxForce = 0, d.MaxForce
		default:
			eq.Enabled = false
		}
	}

	n, ok := vec.Normalize(r)
	if !ok {
		// Coincident anchors have no direction to push along.
		eq.Enabled = false
	}
	eq.G = [6]float64{-n[0], -n[1], -vec.Cross(ri, n), n[0], n[1], vec.Cross(rj, n)}
	return d.collect(eq)
}
