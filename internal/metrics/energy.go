package metrics

import (
	"math"

	"github.com/san-kum/rigid2d/internal/world"
)

// MechanicalEnergy is kinetic plus gravitational potential energy of every
// dynamic body, with potential measured from the origin.
func MechanicalEnergy(w *world.World) float64 {
	var e float64
	g := w.Gravity
	for _, b := range w.Bodies() {
		if !b.IsDynamic() {
			continue
		}
		e += b.KineticEnergy() - b.Mass()*b.GravityScale*g.Dot(b.Position())
	}
	return e
}

// Energy averages the mechanical energy over the run.
type Energy struct {
	name        string
	samples     int
	totalEnergy float64
}

func NewEnergy() *Energy {
	return &Energy{name: "energy"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(w *world.World) {
	e.totalEnergy += MechanicalEnergy(w)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// EnergyDrift is the largest relative change of mechanical energy from the
// first observation.
type EnergyDrift struct {
	name          string
	initialEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(w *world.World) {
	energy := MechanicalEnergy(w)

	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}
