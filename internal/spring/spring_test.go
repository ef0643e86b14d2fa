package spring

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/rigid2d/internal/body"
	"github.com/san-kum/rigid2d/internal/vec"
)

func newBody(t *testing.T, mass float64, pos vec.Vec2) *body.Body {
	t.Helper()
	b, err := body.New(body.Options{Mass: mass, Position: pos})
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestLinearPullsTogether(t *testing.T) {
	a := newBody(t, 1, vec.Zero)
	b := newBody(t, 1, vec.New(2, 0))
	s := NewLinear(a, b)
	s.RestLength = 1
	s.Damping = 0

	if err := s.ApplyForce(); err != nil {
		t.Fatal(err)
	}
	if got := b.Force()[0]; math.Abs(got+100) > 1e-9 {
		t.Errorf("force on b = %v, want -100", got)
	}
	if got := a.Force()[0]; math.Abs(got-100) > 1e-9 {
		t.Errorf("force on a = %v, want 100", got)
	}
	if a.Torque() != 0 || b.Torque() != 0 {
		t.Error("centre anchors must not produce torque")
	}
}

func TestLinearAtRestLength(t *testing.T) {
	a := newBody(t, 1, vec.Zero)
	b := newBody(t, 1, vec.New(3, 4))
	s := NewLinear(a, b)
	if s.RestLength != 5 {
		t.Fatalf("rest length = %v, want 5", s.RestLength)
	}
	if err := s.ApplyForce(); err != nil {
		t.Fatal(err)
	}
	if a.Force().Len() > 1e-12 {
		t.Errorf("unexpected force %v", a.Force())
	}
}

func TestLinearDegenerate(t *testing.T) {
	a := newBody(t, 1, vec.Zero)
	b := newBody(t, 1, vec.Zero)
	s := NewLinear(a, b)
	if err := s.ApplyForce(); !errors.Is(err, ErrDegenerate) {
		t.Errorf("err = %v, want ErrDegenerate", err)
	}
	if !vec.IsFinite(a.Force()) || a.Force().Len() != 0 {
		t.Errorf("degenerate spring changed force to %v", a.Force())
	}
}

func TestRotational(t *testing.T) {
	a := newBody(t, 1, vec.Zero)
	b := newBody(t, 1, vec.New(1, 0))
	s := NewRotational(a, b)
	s.Damping = 0
	if err := b.SetAngle(0.1); err != nil {
		t.Fatal(err)
	}
	if err := s.ApplyForce(); err != nil {
		t.Fatal(err)
	}
	if got := b.Torque(); math.Abs(got+10) > 1e-9 {
		t.Errorf("torque on b = %v, want -10", got)
	}
	if got := a.Torque(); math.Abs(got-10) > 1e-9 {
		t.Errorf("torque on a = %v, want 10", got)
	}
}
