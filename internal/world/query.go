package world

import (
	"fmt"

	"github.com/san-kum/rigid2d/internal/body"
	"github.com/san-kum/rigid2d/internal/constraint"
	"github.com/san-kum/rigid2d/internal/equation"
	"github.com/san-kum/rigid2d/internal/overlap"
	"github.com/san-kum/rigid2d/internal/shape"
	"github.com/san-kum/rigid2d/internal/spring"
	"github.com/san-kum/rigid2d/internal/vec"
)

// Stats describe the last internal step.
type Stats struct {
	Steps      int
	Pairs      int
	Contacts   int
	Frictions  int
	Equations  int
	Iterations int
	Skipped    int
	Islands    int
	Sleeping   int
}

func (w *World) Stats() Stats { return w.stats }

// Time is the simulated time in seconds.
func (w *World) Time() float64 { return w.time }

// Bodies returns the world bodies in insertion order. The slice is owned
// by the world.
func (w *World) Bodies() []*body.Body { return w.bodies }

func (w *World) Constraints() []constraint.Constraint { return w.constraints }

func (w *World) Springs() []spring.Spring { return w.springs }

// ContactEquations are the contacts of the last step, valid until the next.
func (w *World) ContactEquations() []*equation.Contact { return w.Narrowphase.Contacts }

func (w *World) FrictionEquations() []*equation.Friction { return w.Narrowphase.Frictions }

func (w *World) BodyByID(id int) (*body.Body, error) {
	b, ok := w.bodyByID[id]
	if !ok {
		return nil, fmt.Errorf("body %d: %w", id, ErrUnknownBody)
	}
	return b, nil
}

// Keeper exposes the overlap bookkeeping for inspection.
func (w *World) Keeper() *overlap.Keeper { return w.keeper }

// HitTest returns the candidates that have a shape containing point,
// within precision, in candidate order. Nil candidates means every body.
func (w *World) HitTest(point vec.Vec2, candidates []*body.Body, precision float64) []*body.Body {
	if candidates == nil {
		candidates = w.bodies
	}
	var hits []*body.Body
	for _, b := range candidates {
		local := b.ToLocalFrame(point)
		for _, s := range b.Shapes {
			if s.ContainsPoint(shape.ToLocal(s, local), precision) {
				hits = append(hits, b)
				break
			}
		}
	}
	return hits
}

// KineticEnergy sums the kinetic energy of every body.
func (w *World) KineticEnergy() float64 {
	var e float64
	for _, b := range w.bodies {
		e += b.KineticEnergy()
	}
	return e
}
