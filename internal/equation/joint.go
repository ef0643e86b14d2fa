package equation

import (
	"github.com/san-kum/rigid2d/internal/body"
	"github.com/san-kum/rigid2d/internal/vec"
)

// Row is a joint equation whose G is written by the owning constraint. When
// GqFunc is set it replaces the linear position error G*q.
type Row struct {
	Base
	GqFunc func() float64
}

func NewRow(bodyA, bodyB *body.Body, minForce, maxForce float64) *Row {
	return &Row{Base: NewBase(bodyA, bodyB, minForce, maxForce)}
}

func (r *Row) ComputeB(a, b, h float64) float64 {
	var Gq float64
	if r.GqFunc != nil {
		Gq = r.GqFunc()
	} else {
		Gq = r.ComputeGq()
	}
	return -Gq*a - r.ComputeGW()*b - h*r.ComputeGiMf()
}

// RotationalVelocity drives ratio*wB - wA towards -RelativeVelocity. Motors
// use it with RelativeVelocity set to the target speed.
type RotationalVelocity struct {
	Base
	Ratio float64
}

func NewRotationalVelocity(bodyA, bodyB *body.Body) *RotationalVelocity {
	e := &RotationalVelocity{Base: NewBase(bodyA, bodyB, -MaxForce, MaxForce), Ratio: 1}
	e.Relaxation = 1
	e.Stiffness = DefaultStiffness
	return e
}

func (e *RotationalVelocity) ComputeB(a, b, h float64) float64 {
	e.G = [6]float64{0, 0, -1, 0, 0, e.Ratio}
	return -e.ComputeGW()*b - h*e.ComputeGiMf()
}

// RotationalLock keeps angleB - angleA at Angle. The error is measured as
// the dot product of two perpendicular axes, which equals the sine of the
// angle error.
type RotationalLock struct {
	Base
	Angle float64
}

func NewRotationalLock(bodyA, bodyB *body.Body) *RotationalLock {
	e := &RotationalLock{Base: NewBase(bodyA, bodyB, -MaxForce, MaxForce)}
	e.G = [6]float64{0, 0, 1, 0, 0, -1}
	return e
}

func (e *RotationalLock) ComputeB(a, b, h float64) float64 {
	e.G = [6]float64{0, 0, 1, 0, 0, -1}
	worldA := vec.Rotate(vec.New(1, 0), e.BodyA.Angle()+e.Angle)
	worldB := vec.Rotate(vec.New(0, 1), e.BodyB.Angle())
	Gq := worldA.Dot(worldB)
	return -Gq*a - e.ComputeGW()*b - h*e.ComputeGiMf()
}

// AngleLock keeps ratio*angleA - angleB + Angle at zero.
type AngleLock struct {
	Base
	Angle float64
	Ratio float64
}

func NewAngleLock(bodyA, bodyB *body.Body, ratio float64) *AngleLock {
	e := &AngleLock{Base: NewBase(bodyA, bodyB, -MaxForce, MaxForce)}
	e.SetRatio(ratio)
	return e
}

func (e *AngleLock) SetRatio(ratio float64) {
	e.Ratio = ratio
	e.G = [6]float64{0, 0, ratio, 0, 0, -1}
}

func (e *AngleLock) SetMaxTorque(torque float64) {
	e.MaxForce = torque
	e.MinForce = -torque
}

func (e *AngleLock) ComputeB(a, b, h float64) float64 {
	Gq := e.Ratio*e.BodyA.Angle() - e.BodyB.Angle() + e.Angle
	return -Gq*a - e.ComputeGW()*b - h*e.ComputeGiMf()
}
