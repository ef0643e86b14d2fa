package metrics

import (
	"math"

	"github.com/san-kum/rigid2d/internal/equation"
	"github.com/san-kum/rigid2d/internal/sim"
	"github.com/san-kum/rigid2d/internal/world"
)

// Contacts averages the number of contact equations per step.
type Contacts struct {
	samples int
	total   int
}

func NewContacts() *Contacts { return &Contacts{} }

func (c *Contacts) Name() string { return "contacts" }

func (c *Contacts) Observe(w *world.World) {
	c.total += len(w.ContactEquations())
	c.samples++
}

func (c *Contacts) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return float64(c.total) / float64(c.samples)
}

func (c *Contacts) Reset() { c.samples, c.total = 0, 0 }

// Depth is how far the contact points have crossed along the normal.
// Separated points give a negative depth.
func Depth(c *equation.Contact) float64 {
	pa := c.BodyA.Position().Add(c.ContactPointA)
	pb := c.BodyB.Position().Add(c.ContactPointB)
	return -c.NormalA.Dot(pb.Sub(pa))
}

// Penetration is the deepest contact seen during the run.
type Penetration struct {
	max float64
}

func NewPenetration() *Penetration { return &Penetration{} }

func (p *Penetration) Name() string { return "max_penetration" }

func (p *Penetration) Observe(w *world.World) {
	for _, c := range w.ContactEquations() {
		p.max = math.Max(p.max, Depth(c))
	}
}

func (p *Penetration) Value() float64 { return p.max }

func (p *Penetration) Reset() { p.max = 0 }

// Sleeping averages the fraction of dynamic bodies asleep after each step.
type Sleeping struct {
	samples int
	total   float64
}

func NewSleeping() *Sleeping { return &Sleeping{} }

func (s *Sleeping) Name() string { return "sleeping_ratio" }

func (s *Sleeping) Observe(w *world.World) {
	s.samples++
	var dynamic, asleep int
	for _, b := range w.Bodies() {
		if !b.IsDynamic() {
			continue
		}
		dynamic++
		if b.IsSleeping() {
			asleep++
		}
	}
	if dynamic > 0 {
		s.total += float64(asleep) / float64(dynamic)
	}
}

func (s *Sleeping) Value() float64 {
	if s.samples == 0 {
		return 0
	}
	return s.total / float64(s.samples)
}

func (s *Sleeping) Reset() { s.samples, s.total = 0, 0 }

// Default is the metric set recorded for every run.
func Default() []sim.Metric {
	return []sim.Metric{
		NewEnergy(),
		NewEnergyDrift(),
		NewStability(50),
		NewContacts(),
		NewPenetration(),
		NewSleeping(),
	}
}
