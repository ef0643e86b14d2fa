package world

import (
	"fmt"
	"math"

	"github.com/san-kum/rigid2d/internal/body"
	"github.com/san-kum/rigid2d/internal/broadphase"
	"github.com/san-kum/rigid2d/internal/island"
	"github.com/san-kum/rigid2d/internal/narrowphase"
	"github.com/san-kum/rigid2d/internal/overlap"
	"github.com/san-kum/rigid2d/internal/shape"
	"github.com/san-kum/rigid2d/internal/vec"
)

// Step advances the world by exactly one step of dt.
func (w *World) Step(dt float64) error {
	if !(dt > 0) || math.IsInf(dt, 0) {
		return fmt.Errorf("time step %v: %w", dt, ErrInvalidConfig)
	}
	w.internalStep(dt)
	for _, b := range w.bodies {
		b.ResetInterpolation()
	}
	return nil
}

// StepElapsed runs ceil(elapsed/dt) steps of dt, at most maxSubSteps of
// them, and interpolates the render transforms for the remainder. Time
// beyond the cap is dropped. A non-positive maxSubSteps means
// DefaultMaxSubSteps. It returns the number of steps taken.
func (w *World) StepElapsed(dt, elapsed float64, maxSubSteps int) (int, error) {
	if !(dt > 0) || math.IsInf(dt, 0) {
		return 0, fmt.Errorf("time step %v: %w", dt, ErrInvalidConfig)
	}
	if !(elapsed >= 0) || math.IsInf(elapsed, 0) {
		return 0, fmt.Errorf("elapsed time %v: %w", elapsed, ErrInvalidConfig)
	}
	if maxSubSteps <= 0 {
		maxSubSteps = DefaultMaxSubSteps
	}

	n := int(math.Ceil(elapsed/dt - 1e-9))
	if n > maxSubSteps {
		w.logger.Warn("dropping time debt", "elapsed", elapsed, "dt", dt, "steps", maxSubSteps,
			"dropped", elapsed-float64(maxSubSteps)*dt)
		n = maxSubSteps
	}
	for i := 0; i < n; i++ {
		w.internalStep(dt)
	}

	alpha := 1 - (float64(n)*dt-elapsed)/dt
	alpha = math.Max(0, math.Min(1, alpha))
	for _, b := range w.bodies {
		b.Interpolate(alpha)
	}
	return n, nil
}

func (w *World) internalStep(dt float64) {
	w.stepping = true
	np := w.Narrowphase

	w.wakeRequested()
	w.applyForces(dt)
	np.FrictionGravity = frictionGravity(w.Gravity)

	w.pairs = w.Broadphase.Pairs(w.bodies, w.pairs[:0])
	w.pairs = w.filterDisabled(w.pairs)

	np.Reset()
	for _, p := range w.pairs {
		w.collide(p.A, p.B)
	}
	if np.Skipped > 0 {
		w.logger.Debug("skipped degenerate contacts", "count", np.Skipped, "time", w.time)
	}
	if w.SleepMode != NoSleeping {
		w.wakeTouched()
	}

	w.emitContactEvents()
	w.keeper.Tick()

	w.Solver.RemoveAllEquations()
	for _, c := range np.Contacts {
		w.Solver.AddEquation(c)
	}
	for _, f := range np.Frictions {
		w.Solver.AddEquation(f)
	}
	for _, c := range w.constraints {
		if !c.Props().Enabled {
			continue
		}
		for _, eq := range c.Update() {
			w.Solver.AddEquation(eq)
		}
	}
	skipped := w.Solver.Solve(dt, w.bodies)
	if skipped > 0 {
		w.logger.Debug("skipped degenerate equations", "count", skipped, "time", w.time)
	}

	for _, b := range w.bodies {
		b.Integrate(dt)
		b.ClearForces()
	}

	w.updateSleep(dt)

	w.time += dt
	w.steps++
	w.stats = Stats{
		Steps:      w.steps,
		Pairs:      len(w.pairs),
		Contacts:   len(np.Contacts),
		Frictions:  len(np.Frictions),
		Equations:  len(w.Solver.Equations()),
		Iterations: w.Solver.UsedIterations,
		Skipped:    skipped + np.Skipped,
		Islands:    w.islands.Count(),
	}
	for _, b := range w.bodies {
		if b.IsSleeping() {
			w.stats.Sleeping++
		}
	}

	emit(w.on.postStep, w)
	w.stepping = false
	w.flushRemovals()
}

// frictionGravity is the gravity magnitude used to bound friction on the
// first step of a contact. Weightless worlds fall back to the default.
func frictionGravity(g vec.Vec2) float64 {
	if l := g.Len(); l > 0 && vec.Finite(l) {
		return l
	}
	return narrowphase.DefaultFrictionGravity
}

// applyForces damps awake dynamic bodies, adds gravity and runs the springs.
func (w *World) applyForces(dt float64) {
	for _, b := range w.bodies {
		if b.Type != body.Dynamic || b.IsSleeping() {
			continue
		}
		b.ApplyDamping(dt)
		b.AddForce(w.Gravity.Mul(b.Mass() * b.GravityScale))
	}
	for _, s := range w.springs {
		if err := s.ApplyForce(); err != nil {
			w.logger.Debug("spring skipped", "id", s.Props().ID, "err", err)
		}
	}
}

func (w *World) filterDisabled(pairs []broadphase.Pair) []broadphase.Pair {
	if len(w.disabled) == 0 {
		return pairs
	}
	kept := pairs[:0]
	for _, p := range pairs {
		if w.disabled[overlap.MakeKey(p.A.ID, p.B.ID)] > 0 {
			continue
		}
		kept = append(kept, p)
	}
	return kept
}

// collide runs the narrowphase over every shape pair of two bodies.
// Sensors and pairs without collision response only test for overlap.
func (w *World) collide(a, b *body.Body) {
	for _, sa := range a.Shapes {
		pa := sa.Props()
		for _, sb := range b.Shapes {
			pb := sb.Props()
			if !shape.CanCollide(pa, pb) {
				continue
			}
			respond := a.CollisionResponse && b.CollisionResponse &&
				pa.CollisionResponse && pb.CollisionResponse
			justTest := pa.Sensor || pb.Sensor || !respond
			mat := w.Materials.Lookup(pa.MaterialID, pb.MaterialID)
			if w.Narrowphase.Collide(a, sa, b, sb, mat, justTest) > 0 {
				w.keeper.SetOverlapping(a, sa, b, sb)
			}
		}
	}
}

// wakeTouched wakes sleeping bodies that something fast runs into, either
// through a contact or through a joint.
func (w *World) wakeTouched() {
	w.toWake = w.toWake[:0]
	check := func(a, b *body.Body) {
		if a.IsSleeping() && hits(b) {
			w.toWake = append(w.toWake, a)
		}
		if b.IsSleeping() && hits(a) {
			w.toWake = append(w.toWake, b)
		}
	}
	for _, c := range w.Narrowphase.Contacts {
		check(c.BodyA, c.BodyB)
	}
	for _, c := range w.constraints {
		p := c.Props()
		if p.Enabled {
			check(p.BodyA, p.BodyB)
		}
	}
	for _, b := range w.toWake {
		b.WakeUp()
	}
	clear(w.toWake)
	w.wakeRequested()
}

// hits reports whether b moves fast enough to wake what it touches.
func hits(b *body.Body) bool {
	if b.Type == body.Static || b.IsSleeping() {
		return false
	}
	v := b.Velocity()
	speedSq := v.LenSqr() + b.AngularVelocity()*b.AngularVelocity()
	return speedSq >= 2*b.SleepSpeedLimit*b.SleepSpeedLimit
}

// wakeRequested handles bodies woken since the last check. In island mode
// the rest of the island wakes with them.
func (w *World) wakeRequested() {
	for _, b := range w.bodies {
		if !b.WakeRequested() {
			continue
		}
		b.ClearWakeRequest()
		emit(w.on.wake, b)
		if w.SleepMode != IslandSleeping || b.IslandID < 0 {
			continue
		}
		for _, o := range w.bodies {
			if o != b && o.IslandID == b.IslandID && o.WakeUp() {
				o.ClearWakeRequest()
				emit(w.on.wake, o)
			}
		}
	}
}

func (w *World) emitContactEvents() {
	np := w.Narrowphase
	w.records = w.keeper.NewOverlaps(w.records[:0])
	for _, r := range w.records {
		w.eventContacts = w.eventContacts[:0]
		for _, c := range np.Contacts {
			if (c.ShapeA == r.ShapeA && c.ShapeB == r.ShapeB) || (c.ShapeA == r.ShapeB && c.ShapeB == r.ShapeA) {
				w.eventContacts = append(w.eventContacts, c)
			}
		}
		ev := ContactEvent{BodyA: r.BodyA, BodyB: r.BodyB, ShapeA: r.ShapeA, ShapeB: r.ShapeB, Contacts: w.eventContacts}
		emit(w.on.beginContact, ev)
		if len(ev.Contacts) > 0 {
			emit(w.on.impact, ImpactEvent{
				BodyA:   r.BodyA,
				BodyB:   r.BodyB,
				ShapeA:  r.ShapeA,
				ShapeB:  r.ShapeB,
				Contact: ev.Contacts[0],
			})
		}
	}

	w.records = w.keeper.EndOverlaps(w.records[:0])
	for _, r := range w.records {
		emit(w.on.endContact, ContactEvent{BodyA: r.BodyA, BodyB: r.BodyB, ShapeA: r.ShapeA, ShapeB: r.ShapeB})
	}
	clear(w.records)
	w.records = w.records[:0]
	clear(w.eventContacts)
	w.eventContacts = w.eventContacts[:0]
}

// updateSleep rebuilds the islands and applies the sleep mode.
func (w *World) updateSleep(dt float64) {
	w.edges = w.edges[:0]
	for _, c := range w.Narrowphase.Contacts {
		w.edges = append(w.edges, island.Edge{A: c.BodyA, B: c.BodyB})
	}
	for _, c := range w.constraints {
		if p := c.Props(); p.Enabled {
			w.edges = append(w.edges, island.Edge{A: p.BodyA, B: p.BodyB})
		}
	}

	switch w.SleepMode {
	case NoSleeping:
		w.islands.Split(w.bodies, w.edges)
	case BodySleeping:
		w.islands.Split(w.bodies, w.edges)
		for _, b := range w.bodies {
			if b.IsSleeping() {
				continue
			}
			b.SleepTick(dt, false)
			if b.IsSleeping() {
				emit(w.on.sleep, b)
			}
		}
	case IslandSleeping:
		for _, b := range w.bodies {
			b.SleepTick(dt, true)
		}
		for _, isl := range w.islands.Split(w.bodies, w.edges) {
			if !island.Sleepy(isl) {
				continue
			}
			w.slept = island.SleepIsland(isl, w.slept[:0])
			for _, b := range w.slept {
				emit(w.on.sleep, b)
			}
		}
		clear(w.slept)
	}
	clear(w.edges)
}
