// Package world owns bodies, constraints and springs and advances them
// through the broadphase, narrowphase, solver and sleep passes.
package world

import (
	"fmt"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/san-kum/rigid2d/internal/body"
	"github.com/san-kum/rigid2d/internal/broadphase"
	"github.com/san-kum/rigid2d/internal/constraint"
	"github.com/san-kum/rigid2d/internal/equation"
	"github.com/san-kum/rigid2d/internal/island"
	"github.com/san-kum/rigid2d/internal/material"
	"github.com/san-kum/rigid2d/internal/narrowphase"
	"github.com/san-kum/rigid2d/internal/overlap"
	"github.com/san-kum/rigid2d/internal/solver"
	"github.com/san-kum/rigid2d/internal/spring"
	"github.com/san-kum/rigid2d/internal/vec"
)

// World is single threaded. Nothing may touch its bodies while Step runs,
// except the registered listeners.
type World struct {
	Gravity   vec.Vec2
	SleepMode SleepMode

	Broadphase  broadphase.Broadphase
	Narrowphase *narrowphase.Narrowphase
	Solver      *solver.GS
	Materials   *material.Table

	keeper  *overlap.Keeper
	islands *island.Manager
	logger  *log.Logger
	on      listeners

	bodies      []*body.Body
	bodyByID    map[int]*body.Body
	constraints []constraint.Constraint
	springs     []spring.Spring
	// disabled counts the joints with CollideConnected off per body pair.
	disabled map[overlap.Key]int

	time     float64
	steps    int
	stepping bool
	removals []*body.Body
	stats    Stats

	pairs    []broadphase.Pair
	edges    []island.Edge
	records  []*overlap.Record
	slept    []*body.Body
	toWake   []*body.Body

	// eventContacts backs ContactEvent.Contacts during begin contact
	// callbacks.
	eventContacts []*equation.Contact
}

func New(cfg Config) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	gs := solver.NewGS()
	gs.Iterations = cfg.Iterations
	gs.Tolerance = cfg.Tolerance
	gs.WarmStart = cfg.WarmStart

	np := narrowphase.New()
	np.ContactSkinSize = cfg.ContactSkinSize
	np.EnableFriction = cfg.EnableFriction

	materials := material.NewTable()
	materials.Default = cfg.contactMaterial()

	bp := cfg.Broadphase
	if bp == nil {
		bp = broadphase.NewSAP()
	}

	return &World{
		Gravity:     cfg.Gravity,
		SleepMode:   cfg.SleepMode,
		Broadphase:  bp,
		Narrowphase: np,
		Solver:      gs,
		Materials:   materials,
		keeper:      overlap.NewKeeper(),
		islands:     island.NewManager(),
		logger:      cfg.logger(),
		bodyByID:    make(map[int]*body.Body),
		disabled:    make(map[overlap.Key]int),
	}, nil
}

func (w *World) Logger() *log.Logger { return w.logger }

func (w *World) has(b *body.Body) bool {
	return b != nil && w.bodyByID[b.ID] == b
}

func (w *World) AddBody(b *body.Body) error {
	if b == nil {
		return fmt.Errorf("nil body: %w", ErrUnknownBody)
	}
	if w.has(b) {
		return fmt.Errorf("%s: %w", b, ErrDuplicate)
	}
	w.bodies = append(w.bodies, b)
	w.bodyByID[b.ID] = b
	b.UpdateMassProperties()
	emit(w.on.bodyAdded, b)
	return nil
}

// RemoveBody drops b together with every joint, spring, contact and
// overlap record that references it. During a step the removal is queued
// until the step ends.
func (w *World) RemoveBody(b *body.Body) error {
	if !w.has(b) || slices.Contains(w.removals, b) {
		return fmt.Errorf("%v: %w", b, ErrUnknownBody)
	}
	if w.stepping {
		w.removals = append(w.removals, b)
		return nil
	}
	w.removeBody(b)
	return nil
}

func (w *World) removeBody(b *body.Body) {
	for i := len(w.constraints) - 1; i >= 0; i-- {
		if c := w.constraints[i]; c.Props().Involves(b) {
			w.dropConstraint(i)
		}
	}
	for i := len(w.springs) - 1; i >= 0; i-- {
		if s := w.springs[i]; s.Props().Involves(b) {
			w.dropSpring(i)
		}
	}

	w.keeper.RemoveBody(b)
	w.Narrowphase.RemoveBody(b)
	w.Broadphase.RemoveBody(b)
	w.islands.RemoveBody(b)
	w.Solver.RemoveAllEquations()
	clear(w.pairs)
	w.pairs = w.pairs[:0]

	i := slices.Index(w.bodies, b)
	w.bodies = slices.Delete(w.bodies, i, i+1)
	delete(w.bodyByID, b.ID)
	b.IslandID = -1
	emit(w.on.bodyRemoved, b)
}

func (w *World) flushRemovals() {
	for len(w.removals) > 0 {
		b := w.removals[0]
		w.removals = w.removals[1:]
		if w.has(b) {
			w.removeBody(b)
		}
	}
	w.removals = nil
}

// AddConstraint requires both joint bodies to be in the world already.
func (w *World) AddConstraint(c constraint.Constraint) error {
	if c == nil {
		return fmt.Errorf("nil constraint: %w", ErrUnknownConstraint)
	}
	p := c.Props()
	if slices.Contains(w.constraints, c) {
		return fmt.Errorf("constraint %d: %w", p.ID, ErrDuplicate)
	}
	if !w.has(p.BodyA) || !w.has(p.BodyB) {
		return fmt.Errorf("constraint %d: %w", p.ID, ErrUnknownBody)
	}
	w.constraints = append(w.constraints, c)
	if !p.CollideConnected {
		w.disabled[overlap.MakeKey(p.BodyA.ID, p.BodyB.ID)]++
	}
	emit(w.on.constraintAdded, c)
	return nil
}

func (w *World) RemoveConstraint(c constraint.Constraint) error {
	i := slices.Index(w.constraints, c)
	if i < 0 {
		return fmt.Errorf("%T: %w", c, ErrUnknownConstraint)
	}
	w.dropConstraint(i)
	return nil
}

func (w *World) dropConstraint(i int) {
	c := w.constraints[i]
	p := c.Props()
	w.constraints = slices.Delete(w.constraints, i, i+1)
	if !p.CollideConnected {
		k := overlap.MakeKey(p.BodyA.ID, p.BodyB.ID)
		if w.disabled[k]--; w.disabled[k] <= 0 {
			delete(w.disabled, k)
		}
	}
	w.Solver.RemoveAllEquations()
	emit(w.on.constraintRemoved, c)
}

func (w *World) AddSpring(s spring.Spring) error {
	if s == nil {
		return fmt.Errorf("nil spring: %w", ErrUnknownSpring)
	}
	p := s.Props()
	if slices.Contains(w.springs, s) {
		return fmt.Errorf("spring %d: %w", p.ID, ErrDuplicate)
	}
	if !w.has(p.BodyA) || !w.has(p.BodyB) {
		return fmt.Errorf("spring %d: %w", p.ID, ErrUnknownBody)
	}
	w.springs = append(w.springs, s)
	emit(w.on.springAdded, s)
	return nil
}

func (w *World) RemoveSpring(s spring.Spring) error {
	i := slices.Index(w.springs, s)
	if i < 0 {
		return fmt.Errorf("%T: %w", s, ErrUnknownSpring)
	}
	w.dropSpring(i)
	return nil
}

func (w *World) dropSpring(i int) {
	s := w.springs[i]
	w.springs = slices.Delete(w.springs, i, i+1)
	emit(w.on.springRemoved, s)
}

// AddContactMaterial registers cm for its material pair.
func (w *World) AddContactMaterial(cm *material.ContactMaterial) {
	w.Materials.Add(cm)
}

// Clear removes every body, which also removes every joint and spring.
func (w *World) Clear() {
	for len(w.bodies) > 0 {
		w.removeBody(w.bodies[len(w.bodies)-1])
	}
	w.time = 0
	w.steps = 0
	w.stats = Stats{}
}
