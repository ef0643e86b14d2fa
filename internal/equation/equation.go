package equation

import (
	"math"

	"github.com/san-kum/rigid2d/internal/body"
)

const (
	DefaultStiffness  = 1e6
	DefaultRelaxation = 4.0
	DefaultTimeStep   = 1.0 / 60
)

// MaxForce stands in for an unbounded equation.
var MaxForce = math.MaxFloat64

// Equation is one scalar velocity constraint row.
type Equation interface {
	Eq() *Base
	// ComputeB returns the right hand side for spook parameters a, b and
	// timestep h.
	ComputeB(a, b, h float64) float64
}

// Base holds the Jacobian row G = [linA(2) angA linB(2) angB] and the SPOOK
// parameters shared by every equation.
type Base struct {
	BodyA *body.Body
	BodyB *body.Body

	G [6]float64

	MinForce float64
	MaxForce float64

	Stiffness  float64
	Relaxation float64

	// Offset is added to the position error.
	Offset float64
	// RelativeVelocity is added to G*W, used by motors.
	RelativeVelocity float64

	Enabled bool

	// Multiplier is the force found by the last solve.
	Multiplier float64
	// WarmForce seeds the solver with a force from the previous step.
	WarmForce float64

	a, b, epsilon float64
	timeStep      float64
	needsUpdate   bool
}

func NewBase(bodyA, bodyB *body.Body, minForce, maxForce float64) Base {
	return Base{
		BodyA:       bodyA,
		BodyB:       bodyB,
		MinForce:    minForce,
		MaxForce:    maxForce,
		Stiffness:   DefaultStiffness,
		Relaxation:  DefaultRelaxation,
		Enabled:     true,
		timeStep:    DefaultTimeStep,
		needsUpdate: true,
	}
}

func (e *Base) Eq() *Base { return e }

func (e *Base) A() float64       { return e.a }
func (e *Base) B() float64       { return e.b }
func (e *Base) Epsilon() float64 { return e.epsilon }

// SetSpook changes stiffness and relaxation and marks the parameters stale.
func (e *Base) SetSpook(stiffness, relaxation float64) {
	if e.Stiffness != stiffness || e.Relaxation != relaxation {
		e.Stiffness = stiffness
		e.Relaxation = relaxation
		e.needsUpdate = true
	}
}

// Prepare recomputes a, b and epsilon when stiffness, relaxation or the
// timestep changed.
func (e *Base) Prepare(h float64) {
	if !e.needsUpdate && e.timeStep == h {
		return
	}
	e.timeStep = h
	k, d := e.Stiffness, e.Relaxation
	e.a = 4 / (h * (1 + 4*d))
	e.b = (4 * d) / (1 + 4*d)
	e.epsilon = 4 / (h * h * k * (1 + 4*d))
	e.needsUpdate = false
}

// ComputeGq is G applied to the generalized positions.
func (e *Base) ComputeGq() float64 {
	G := &e.G
	xi, xj := e.BodyA.Position(), e.BodyB.Position()
	return G[0]*xi[0] + G[1]*xi[1] + G[2]*e.BodyA.Angle() +
		G[3]*xj[0] + G[4]*xj[1] + G[5]*e.BodyB.Angle() + e.Offset
}

// ComputeGW is G applied to the current velocities.
func (e *Base) ComputeGW() float64 {
	G := &e.G
	vi, vj := e.BodyA.Velocity(), e.BodyB.Velocity()
	return G[0]*vi[0] + G[1]*vi[1] + G[2]*e.BodyA.AngularVelocity() +
		G[3]*vj[0] + G[4]*vj[1] + G[5]*e.BodyB.AngularVelocity() + e.RelativeVelocity
}

// ComputeGWlambda is G applied to the solver's velocity deltas.
func (e *Base) ComputeGWlambda() float64 {
	G := &e.G
	vi, vj := e.BodyA.VLambda, e.BodyB.VLambda
	return G[0]*vi[0] + G[1]*vi[1] + G[2]*e.BodyA.WLambda +
		G[3]*vj[0] + G[4]*vj[1] + G[5]*e.BodyB.WLambda
}

// ComputeGiMf is G * M^-1 * f using the solver inverse masses.
func (e *Base) ComputeGiMf() float64 {
	G := &e.G
	bi, bj := e.BodyA, e.BodyB
	fi, fj := bi.Force(), bj.Force()
	return G[0]*fi[0]*bi.InvMassSolve + G[1]*fi[1]*bi.InvMassSolve + G[2]*bi.Torque()*bi.InvInertiaSolve +
		G[3]*fj[0]*bj.InvMassSolve + G[4]*fj[1]*bj.InvMassSolve + G[5]*bj.Torque()*bj.InvInertiaSolve
}

// ComputeGiMGt is the effective inverse mass seen along G.
func (e *Base) ComputeGiMGt() float64 {
	G := &e.G
	bi, bj := e.BodyA, e.BodyB
	return bi.InvMassSolve*(G[0]*G[0]+G[1]*G[1]) + bi.InvInertiaSolve*G[2]*G[2] +
		bj.InvMassSolve*(G[3]*G[3]+G[4]*G[4]) + bj.InvInertiaSolve*G[5]*G[5]
}

// AddToWlambda applies an impulse increment along G to both bodies.
func (e *Base) AddToWlambda(deltaLambda float64) {
	G := &e.G
	bi, bj := e.BodyA, e.BodyB

	bi.VLambda[0] += bi.InvMassSolve * G[0] * deltaLambda
	bi.VLambda[1] += bi.InvMassSolve * G[1] * deltaLambda
	bi.WLambda += bi.InvInertiaSolve * G[2] * deltaLambda

	bj.VLambda[0] += bj.InvMassSolve * G[3] * deltaLambda
	bj.VLambda[1] += bj.InvMassSolve * G[4] * deltaLambda
	bj.WLambda += bj.InvInertiaSolve * G[5] * deltaLambda
}

// ComputeInvC returns 1 / (G M^-1 G^T + eps), or 0 when nothing can move.
func (e *Base) ComputeInvC(eps float64) float64 {
	c := e.ComputeGiMGt() + eps
	if c <= 0 || !finite(c) {
		return 0
	}
	return 1 / c
}

// DefaultB is -Gq*a - GW*b - h*GiMf.
func (e *Base) DefaultB(a, b, h float64) float64 {
	return -e.ComputeGq()*a - e.ComputeGW()*b - e.ComputeGiMf()*h
}

func (e *Base) Reset() {
	e.BodyA, e.BodyB = nil, nil
	e.G = [6]float64{}
	e.Offset = 0
	e.RelativeVelocity = 0
	e.Multiplier = 0
	e.WarmForce = 0
	e.Enabled = true
}

// Valid reports whether G and the bodies are usable this step.
func (e *Base) Valid() bool {
	if e.BodyA == nil || e.BodyB == nil {
		return false
	}
	for _, g := range e.G {
		if !finite(g) {
			return false
		}
	}
	return true
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
