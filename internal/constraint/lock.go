package constraint

import (
	"github.com/san-kum/rigid2d/internal/body"
	"github.com/san-kum/rigid2d/internal/equation"
	"github.com/san-kum/rigid2d/internal/vec"
)

// Lock welds body B to body A at their current relative transform.
type Lock struct {
	Base

	// LocalOffsetB is the position of B in the frame of A.
	LocalOffsetB vec.Vec2
	// LocalAngleB is angleB - angleA.
	LocalAngleB float64

	x, y *equation.Row
	rot  *equation.RotationalLock

	offset vec.Vec2
}

func NewLock(a, b *body.Body) *Lock {
	x := equation.NewRow(a, b, -equation.MaxForce, equation.MaxForce)
	y := equation.NewRow(a, b, -equation.MaxForce, equation.MaxForce)
	rot := equation.NewRotationalLock(a, b)

	l := &Lock{
		Base:         newBase(a, b, x, y, rot),
		LocalOffsetB: a.ToLocalFrame(b.Position()),
		LocalAngleB:  b.Angle() - a.Angle(),
		x:            x,
		y:            y,
		rot:          rot,
	}
	x.GqFunc = func() float64 { return l.gap()[0] }
	y.GqFunc = func() float64 { return l.gap()[1] }
	return l
}

func (l *Lock) gap() vec.Vec2 {
	return l.BodyB.Position().Sub(l.BodyA.Position()).Sub(l.offset)
}

func (l *Lock) SetMaxForce(f float64) {
	for _, eq := range l.equations {
		e := eq.Eq()
		e.MinForce, e.MaxForce = -f, f
	}
}

func (l *Lock) Update() []equation.Equation {
	l.offset = vec.Rotate(l.LocalOffsetB, l.BodyA.Angle())
	o := l.offset
	l.x.G = [6]float64{-1, 0, o[1], 1, 0, 0}
	l.y.G = [6]float64{0, -1, -o[0], 0, 1, 0}
	l.rot.Angle = l.LocalAngleB
	return l.collect(l.x, l.y, l.rot)
}
