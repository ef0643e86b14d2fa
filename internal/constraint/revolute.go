package constraint

import (
	"github.com/san-kum/rigid2d/internal/body"
	"github.com/san-kum/rigid2d/internal/equation"
	"github.com/san-kum/rigid2d/internal/vec"
)

// Revolute pins a point of each body together and leaves rotation free,
// optionally limited and motorized.
type Revolute struct {
	Base

	PivotA vec.Vec2
	PivotB vec.Vec2

	LowerLimitEnabled bool
	UpperLimitEnabled bool
	LowerLimit        float64
	UpperLimit        float64

	// Angle is angleB - angleA from the last Update.
	Angle float64

	x, y  *equation.Row
	motor *equation.RotationalVelocity
	lower *equation.RotationalLock
	upper *equation.RotationalLock

	ri, rj vec.Vec2
}

// NewRevolute pins the bodies at a world point.
func NewRevolute(a, b *body.Body, worldPivot vec.Vec2) *Revolute {
	return NewRevoluteLocal(a, b, a.ToLocalFrame(worldPivot), b.ToLocalFrame(worldPivot))
}

// NewRevoluteLocal takes the pivot in each body frame.
func NewRevoluteLocal(a, b *body.Body, pivotA, pivotB vec.Vec2) *Revolute {
	x := equation.NewRow(a, b, -equation.MaxForce, equation.MaxForce)
	y := equation.NewRow(a, b, -equation.MaxForce, equation.MaxForce)
	motor := equation.NewRotationalVelocity(a, b)
	motor.Enabled = false
	lower := equation.NewRotationalLock(a, b)
	lower.MaxForce = 0
	upper := equation.NewRotationalLock(a, b)
	upper.MinForce = 0

	r := &Revolute{
		Base:   newBase(a, b, x, y, motor, lower, upper),
		PivotA: pivotA,
		PivotB: pivotB,
		x:      x,
		y:      y,
		motor:  motor,
		lower:  lower,
		upper:  upper,
	}
	x.GqFunc = func() float64 { return r.gap()[0] }
	y.GqFunc = func() float64 { return r.gap()[1] }
	return r
}

// gap is the world space offset between the two pivot points.
func (r *Revolute) gap() vec.Vec2 {
	return r.BodyB.Position().Add(r.rj).Sub(r.BodyA.Position().Add(r.ri))
}

// WorldPivots returns the pivot as seen by each body.
func (r *Revolute) WorldPivots() (vec.Vec2, vec.Vec2) {
	return r.BodyA.ToWorldFrame(r.PivotA), r.BodyB.ToWorldFrame(r.PivotB)
}

func (r *Revolute) SetMaxForce(f float64) {
	r.x.MinForce, r.x.MaxForce = -f, f
	r.y.MinForce, r.y.MaxForce = -f, f
}

func (r *Revolute) EnableMotor()            { r.motor.Enabled = true }
func (r *Revolute) DisableMotor()           { r.motor.Enabled = false }
func (r *Revolute) MotorEnabled() bool      { return r.motor.Enabled }
func (r *Revolute) SetMotorSpeed(w float64) { r.motor.RelativeVelocity = -w }
func (r *Revolute) MotorSpeed() float64     { return -r.motor.RelativeVelocity }

func (r *Revolute) SetMotorMaxTorque(t float64) {
	r.motor.MinForce, r.motor.MaxForce = -t, t
}

func (r *Revolute) SetLimits(lower, upper float64) {
	r.LowerLimit, r.UpperLimit = lower, upper
	r.LowerLimitEnabled, r.UpperLimitEnabled = true, true
}

func (r *Revolute) Update() []equation.Equation {
	a, b := r.BodyA, r.BodyB
	r.ri = vec.Rotate(r.PivotA, a.Angle())
	r.rj = vec.Rotate(r.PivotB, b.Angle())
	ri, rj := r.ri, r.rj

	r.x.G = [6]float64{-1, 0, ri[1], 1, 0, -rj[1]}
	r.y.G = [6]float64{0, -1, -ri[0], 0, 1, rj[0]}

	r.Angle = b.Angle() - a.Angle()
	r.upper.Enabled = r.UpperLimitEnabled && r.Angle > r.UpperLimit
	r.upper.Angle = r.UpperLimit
	r.lower.Enabled = r.LowerLimitEnabled && r.Angle < r.LowerLimit
	r.lower.Angle = r.LowerLimit

	return r.collect(r.x, r.y, r.motor, r.lower, r.upper)
}
