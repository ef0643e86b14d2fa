package body

import (
	"fmt"

	"github.com/san-kum/rigid2d/internal/vec"
)

func (b *Body) Mass() float64       { return b.mass }
func (b *Body) InvMass() float64    { return b.invMass }
func (b *Body) Inertia() float64    { return b.inertia }
func (b *Body) InvInertia() float64 { return b.invInertia }

func (b *Body) SetMass(m float64) error {
	if m < 0 || !vec.Finite(m) {
		return fmt.Errorf("mass %v: %w", m, ErrInvalidMass)
	}
	if b.Type == Dynamic && m == 0 {
		return fmt.Errorf("dynamic body needs positive mass: %w", ErrInvalidMass)
	}
	b.massSetting = m
	b.UpdateMassProperties()
	return nil
}

func (b *Body) SetType(t Type) error {
	if t == Dynamic && b.massSetting == 0 {
		return fmt.Errorf("dynamic body needs positive mass: %w", ErrInvalidMass)
	}
	b.Type = t
	if t != Dynamic {
		b.velocity = vec.Zero
		b.angularVelocity = 0
		b.IslandID = -1
	}
	b.UpdateMassProperties()
	return nil
}

// UpdateMassProperties spreads the mass evenly over the shapes and sums
// their inertia with the parallel axis theorem. Non-dynamic bodies get zero
// mass and zero inverses.
func (b *Body) UpdateMassProperties() {
	if b.Type != Dynamic {
		b.mass, b.invMass, b.inertia, b.invInertia = 0, 0, 0, 0
		return
	}

	b.mass = b.massSetting
	b.invMass = 1 / b.mass

	var inertia float64
	if n := len(b.Shapes); n > 0 {
		m := b.mass / float64(n)
		for _, s := range b.Shapes {
			r2 := s.Props().Offset.LenSqr()
			inertia += s.MomentOfInertia(m) + m*r2
		}
	}
	b.inertia = inertia
	if inertia > 0 && !b.FixedRotation {
		b.invInertia = 1 / inertia
	} else {
		b.invInertia = 0
	}
}

// UpdateSolveMassProperties zeroes the solver inverses of bodies that must
// not move during the solve.
func (b *Body) UpdateSolveMassProperties() {
	if b.Type != Dynamic || b.sleepState == Sleeping {
		b.InvMassSolve = 0
		b.InvInertiaSolve = 0
		return
	}
	b.InvMassSolve = b.invMass
	b.InvInertiaSolve = b.invInertia
}
