// Package constraint implements joints as sets of solver equations.
package constraint

import (
	"sync/atomic"

	"github.com/san-kum/rigid2d/internal/body"
	"github.com/san-kum/rigid2d/internal/equation"
)

type Constraint interface {
	Props() *Base
	// Update refreshes the Jacobians from the current body state and
	// returns the equations to solve this step.
	Update() []equation.Equation
}

// Base carries what every joint shares.
type Base struct {
	ID    int
	BodyA *body.Body
	BodyB *body.Body

	// CollideConnected lets the two bodies keep colliding with each other.
	CollideConnected bool
	Enabled          bool

	equations []equation.Equation
	active    []equation.Equation
}

var constraintIDs atomic.Int64

func newBase(a, b *body.Body, eqs ...equation.Equation) Base {
	return Base{
		ID:               int(constraintIDs.Add(1)),
		BodyA:            a,
		BodyB:            b,
		CollideConnected: true,
		Enabled:          true,
		equations:        eqs,
	}
}

func (c *Base) Props() *Base { return c }

// Equations lists every equation the joint owns, active or not.
func (c *Base) Equations() []equation.Equation { return c.equations }

// Involves reports whether b is one of the joint bodies.
func (c *Base) Involves(b *body.Body) bool {
	return c.BodyA == b || c.BodyB == b
}

func (c *Base) SetStiffness(k float64) {
	for _, eq := range c.equations {
		e := eq.Eq()
		e.SetSpook(k, e.Relaxation)
	}
}

func (c *Base) SetRelaxation(d float64) {
	for _, eq := range c.equations {
		e := eq.Eq()
		e.SetSpook(e.Stiffness, d)
	}
}

// collect returns the enabled equations among eqs.
func (c *Base) collect(eqs ...equation.Equation) []equation.Equation {
	c.active = c.active[:0]
	for _, eq := range eqs {
		if eq.Eq().Enabled {
			c.active = append(c.active, eq)
		}
	}
	return c.active
}
