package constraint

import (
	"github.com/san-kum/rigid2d/internal/body"
	"github.com/san-kum/rigid2d/internal/equation"
	"github.com/san-kum/rigid2d/internal/vec"
)

// Prismatic lets body B slide along an axis fixed in body A.
type Prismatic struct {
	Base

	LocalAnchorA vec.Vec2
	LocalAnchorB vec.Vec2
	// LocalAxisA is a unit vector in the frame of body A.
	LocalAxisA vec.Vec2

	LowerLimitEnabled bool
	UpperLimitEnabled bool
	LowerLimit        float64
	UpperLimit        float64

	// Position is the slide distance along the axis from the last Update.
	Position float64

	trans *equation.Row
	rot   *equation.RotationalLock
	motor *equation.Row
	lower *equation.Row
	upper *equation.Row

	perpGap float64
}

// NewPrismatic slides along worldAxis through the current position of b.
// Rotation between the bodies is locked at its current value.
func NewPrismatic(a, b *body.Body, worldAxis vec.Vec2) *Prismatic {
	axis, ok := vec.Normalize(worldAxis)
	if !ok {
		axis = vec.New(1, 0)
	}

	trans := equation.NewRow(a, b, -equation.MaxForce, equation.MaxForce)
	rot := equation.NewRotationalLock(a, b)
	rot.Angle = b.Angle() - a.Angle()
	motor := equation.NewRow(a, b, -equation.MaxForce, equation.MaxForce)
	motor.Enabled = false
	motor.GqFunc = func() float64 { return 0 }
	lower := equation.NewRow(a, b, 0, equation.MaxForce)
	upper := equation.NewRow(a, b, 0, equation.MaxForce)

	p := &Prismatic{
		Base:         newBase(a, b, trans, rot, motor, lower, upper),
		LocalAnchorA: a.ToLocalFrame(b.Position()),
		LocalAnchorB: vec.Zero,
		LocalAxisA:   a.VectorToLocal(axis),
		trans:        trans,
		rot:          rot,
		motor:        motor,
		lower:        lower,
		upper:        upper,
	}
	trans.GqFunc = func() float64 { return p.perpGap }
	lower.GqFunc = func() float64 { return p.Position - p.LowerLimit }
	upper.GqFunc = func() float64 { return p.UpperLimit - p.Position }
	return p
}

func (p *Prismatic) EnableMotor()            { p.motor.Enabled = true }
func (p *Prismatic) DisableMotor()           { p.motor.Enabled = false }
func (p *Prismatic) SetMotorSpeed(v float64) { p.motor.RelativeVelocity = -v }
func (p *Prismatic) MotorSpeed() float64     { return -p.motor.RelativeVelocity }

func (p *Prismatic) SetMotorMaxForce(f float64) {
	p.motor.MinForce, p.motor.MaxForce = -f, f
}

func (p *Prismatic) SetLimits(lower, upper float64) {
	p.LowerLimit, p.UpperLimit = lower, upper
	p.LowerLimitEnabled, p.UpperLimitEnabled = true, true
}

// row fills G for motion of the anchor gap d along dir.
func row(G *[6]float64, ri, rj, d, dir vec.Vec2) {
	*G = [6]float64{
		-dir[0], -dir[1], -vec.Cross(ri.Add(d), dir),
		dir[0], dir[1], vec.Cross(rj, dir),
	}
}

func (p *Prismatic) Update() []equation.Equation {
	a, b := p.BodyA, p.BodyB
	ri := vec.Rotate(p.LocalAnchorA, a.Angle())
	rj := vec.Rotate(p.LocalAnchorB, b.Angle())
	axis := vec.Rotate(p.LocalAxisA, a.Angle())
	perp := vec.Perp(axis)

	d := b.Position().Add(rj).Sub(a.Position().Add(ri))
	p.Position = axis.Dot(d)
	p.perpGap = perp.Dot(d)

	row(&p.trans.G, ri, rj, d, perp)
	row(&p.motor.G, ri, rj, d, axis)
	row(&p.lower.G, ri, rj, d, axis)
	row(&p.upper.G, ri, rj, d, axis.Mul(-1))

	p.lower.Enabled = p.LowerLimitEnabled && p.Position < p.LowerLimit
	p.upper.Enabled = p.UpperLimitEnabled && p.Position > p.UpperLimit

	return p.collect(p.trans, p.rot, p.motor, p.lower, p.upper)
}
