// Package spring applies spring forces directly to body accumulators. Springs
// are not solved; they run once per step before the broadphase.
package spring

import (
	"errors"
	"sync/atomic"

	"github.com/san-kum/rigid2d/internal/body"
	"github.com/san-kum/rigid2d/internal/vec"
)

const (
	DefaultStiffness = 100.0
	DefaultDamping   = 1.0
)

// ErrDegenerate reports a spring with no usable direction this step.
var ErrDegenerate = errors.New("spring: degenerate geometry")

type Spring interface {
	Props() *Base
	// ApplyForce adds this step's force. Degenerate configurations add
	// nothing and return ErrDegenerate.
	ApplyForce() error
}

type Base struct {
	ID        int
	BodyA     *body.Body
	BodyB     *body.Body
	Stiffness float64
	Damping   float64
}

var springIDs atomic.Int64

func newBase(a, b *body.Body) Base {
	return Base{
		ID:        int(springIDs.Add(1)),
		BodyA:     a,
		BodyB:     b,
		Stiffness: DefaultStiffness,
		Damping:   DefaultDamping,
	}
}

func (s *Base) Props() *Base { return s }

func (s *Base) Involves(b *body.Body) bool {
	return s.BodyA == b || s.BodyB == b
}

// Linear pulls two anchor points towards RestLength.
type Linear struct {
	Base
	LocalAnchorA vec.Vec2
	LocalAnchorB vec.Vec2
	RestLength   float64
}

// NewLinear anchors at the body origins with the current distance as rest
// length.
func NewLinear(a, b *body.Body) *Linear {
	return NewLinearAnchors(a, b, vec.Zero, vec.Zero)
}

func NewLinearAnchors(a, b *body.Body, anchorA, anchorB vec.Vec2) *Linear {
	s := &Linear{Base: newBase(a, b), LocalAnchorA: anchorA, LocalAnchorB: anchorB}
	s.RestLength = vec.Dist(a.ToWorldFrame(anchorA), b.ToWorldFrame(anchorB))
	return s
}

func (s *Linear) WorldAnchors() (vec.Vec2, vec.Vec2) {
	return s.BodyA.ToWorldFrame(s.LocalAnchorA), s.BodyB.ToWorldFrame(s.LocalAnchorB)
}

func (s *Linear) ApplyForce() error {
	a, b := s.BodyA, s.BodyB
	wa, wb := s.WorldAnchors()
	ri := wa.Sub(a.Position())
	rj := wb.Sub(b.Position())

	r := wb.Sub(wa)
	length := r.Len()
	dir, ok := vec.Normalize(r)
	if !ok {
		return ErrDegenerate
	}

	u := b.VelocityAt(rj).Sub(a.VelocityAt(ri))
	f := dir.Mul(-s.Stiffness*(length-s.RestLength) - s.Damping*u.Dot(dir))
	if !vec.IsFinite(f) {
		return ErrDegenerate
	}

	a.AddForce(f.Mul(-1))
	b.AddForce(f)
	a.AddTorque(-vec.Cross(ri, f))
	b.AddTorque(vec.Cross(rj, f))
	return nil
}

// Rotational drives angleB - angleA towards RestAngle.
type Rotational struct {
	Base
	RestAngle float64
}

func NewRotational(a, b *body.Body) *Rotational {
	return &Rotational{Base: newBase(a, b), RestAngle: b.Angle() - a.Angle()}
}

func (s *Rotational) ApplyForce() error {
	a, b := s.BodyA, s.BodyB
	x := b.Angle() - a.Angle() - s.RestAngle
	w := b.AngularVelocity() - a.AngularVelocity()
	torque := -s.Stiffness*x - s.Damping*w
	if !vec.Finite(torque) {
		return ErrDegenerate
	}
	a.AddTorque(-torque)
	b.AddTorque(torque)
	return nil
}
