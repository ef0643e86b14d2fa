package world_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/rigid2d/internal/body"
	"github.com/san-kum/rigid2d/internal/constraint"
	"github.com/san-kum/rigid2d/internal/material"
	"github.com/san-kum/rigid2d/internal/shape"
	"github.com/san-kum/rigid2d/internal/spring"
	"github.com/san-kum/rigid2d/internal/vec"
	"github.com/san-kum/rigid2d/internal/world"
)

const dt = 1.0 / 60

func newWorld(mutate ...func(*world.Config)) *world.World {
	cfg := world.DefaultConfig()
	for _, m := range mutate {
		m(&cfg)
	}
	w, err := world.New(cfg)
	Expect(err).NotTo(HaveOccurred())
	return w
}

func zeroGravity(c *world.Config) { c.Gravity = vec.Zero }

func addGround(w *world.World) *body.Body {
	ground, err := body.New(body.Options{})
	Expect(err).NotTo(HaveOccurred())
	ground.AddShape(shape.NewPlane(), vec.Zero, 0)
	Expect(w.AddBody(ground)).To(Succeed())
	return ground
}

func addCircle(w *world.World, pos vec.Vec2, radius float64) *body.Body {
	b, err := body.New(body.Options{Mass: 1, Position: pos})
	Expect(err).NotTo(HaveOccurred())
	c, err := shape.NewCircle(radius)
	Expect(err).NotTo(HaveOccurred())
	b.AddShape(c, vec.Zero, 0)
	Expect(w.AddBody(b)).To(Succeed())
	return b
}

func addBox(w *world.World, mass float64, pos vec.Vec2, size float64) *body.Body {
	b, err := body.New(body.Options{Mass: mass, Position: pos})
	Expect(err).NotTo(HaveOccurred())
	box, err := shape.NewBox(size, size)
	Expect(err).NotTo(HaveOccurred())
	b.AddShape(box, vec.Zero, 0)
	Expect(w.AddBody(b)).To(Succeed())
	return b
}

func stepN(w *world.World, n int) {
	for i := 0; i < n; i++ {
		_, err := w.StepElapsed(dt, dt, 3)
		Expect(err).NotTo(HaveOccurred())
	}
}

var _ = Describe("World", func() {
	Describe("configuration", func() {
		It("rejects invalid settings", func() {
			cfg := world.DefaultConfig()
			cfg.Iterations = 0
			_, err := world.New(cfg)
			Expect(err).To(MatchError(world.ErrInvalidConfig))

			cfg = world.DefaultConfig()
			cfg.Tolerance = -1
			_, err = world.New(cfg)
			Expect(err).To(MatchError(world.ErrInvalidConfig))
		})

		It("rejects non-positive time steps", func() {
			w := newWorld()
			Expect(w.Step(0)).To(MatchError(world.ErrInvalidConfig))
			_, err := w.StepElapsed(-dt, dt, 3)
			Expect(err).To(MatchError(world.ErrInvalidConfig))
		})

		It("parses sleep modes", func() {
			m, err := world.ParseSleepMode("body")
			Expect(err).NotTo(HaveOccurred())
			Expect(m).To(Equal(world.BodySleeping))
			_, err = world.ParseSleepMode("sometimes")
			Expect(err).To(MatchError(world.ErrInvalidConfig))
		})
	})

	Describe("resting contact", func() {
		It("settles a circle on a plane at its radius", func() {
			w := newWorld()
			addGround(w)
			ball := addCircle(w, vec.New(0, 5), 1)

			stepN(w, 300)
			Expect(ball.Position()[1]).To(BeNumerically("~", 1, 0.01))

			for i := 0; i < 300; i++ {
				stepN(w, 1)
				Expect(ball.Position()[1]).To(BeNumerically("~", 1, 0.01))
			}
		})

		It("never moves static bodies", func() {
			w := newWorld()
			ground := addGround(w)
			shelf, err := body.New(body.Options{Type: body.Static, Position: vec.New(3, 2)})
			Expect(err).NotTo(HaveOccurred())
			box, err := shape.NewBox(2, 0.5)
			Expect(err).NotTo(HaveOccurred())
			shelf.AddShape(box, vec.Zero, 0)
			Expect(w.AddBody(shelf)).To(Succeed())
			addBox(w, 1, vec.New(3, 4), 1)
			addBox(w, 1, vec.New(0, 1), 1)

			stepN(w, 200)
			Expect(shelf.Position()).To(Equal(vec.New(3, 2)))
			Expect(shelf.Velocity()).To(Equal(vec.Zero))
			Expect(shelf.InvMass()).To(BeZero())
			Expect(shelf.InvInertia()).To(BeZero())
			Expect(ground.Position()).To(Equal(vec.Zero))
		})
	})

	Describe("friction", func() {
		It("bounds first contact friction with the world gravity", func() {
			w := newWorld(func(c *world.Config) { c.Gravity = vec.New(0, -40) })
			addGround(w)
			addCircle(w, vec.New(0, 1), 1)

			Expect(w.Step(dt)).To(Succeed())
			Expect(w.Narrowphase.FrictionGravity).To(Equal(40.0))
			Expect(w.FrictionEquations()).NotTo(BeEmpty())
			Expect(w.FrictionEquations()[0].SlipForce()).To(BeNumerically("~", material.DefaultFriction*40, 1e-9))
		})
	})

	Describe("penetration", func() {
		It("pushes overlapping circles apart", func() {
			w := newWorld(zeroGravity)
			a := addCircle(w, vec.New(0, 0), 1)
			b := addCircle(w, vec.New(1, 0), 1)

			Expect(w.Step(dt)).To(Succeed())
			Expect(vec.Dist(a.Position(), b.Position())).To(BeNumerically(">", 1))
			Expect(w.Stats().Contacts).To(BeNumerically(">", 0))
		})
	})

	Describe("joints", func() {
		It("keeps revolute pivots together", func() {
			w := newWorld()
			a := addCircle(w, vec.New(0, 0), 0.25)
			b := addCircle(w, vec.New(1, 0), 0.25)
			j := constraint.NewRevolute(a, b, vec.New(0.5, 0))
			Expect(w.AddConstraint(j)).To(Succeed())

			stepN(w, 100)
			pa, pb := j.WorldPivots()
			Expect(vec.Dist(pa, pb)).To(BeNumerically("<", 1e-2))
		})

		It("stops contacts between bodies joined without collide connected", func() {
			w := newWorld(zeroGravity)
			a := addCircle(w, vec.New(0, 0), 1)
			b := addCircle(w, vec.New(1, 0), 1)
			j := constraint.NewDistance(a, b)
			j.CollideConnected = false
			Expect(w.AddConstraint(j)).To(Succeed())

			Expect(w.Step(dt)).To(Succeed())
			Expect(w.ContactEquations()).To(BeEmpty())

			Expect(w.RemoveConstraint(j)).To(Succeed())
			Expect(w.Step(dt)).To(Succeed())
			Expect(w.ContactEquations()).NotTo(BeEmpty())
		})

		It("requires joint bodies to be in the world", func() {
			w := newWorld()
			a := addCircle(w, vec.New(0, 0), 1)
			stray, err := body.New(body.Options{Mass: 1})
			Expect(err).NotTo(HaveOccurred())
			Expect(w.AddConstraint(constraint.NewDistance(a, stray))).To(MatchError(world.ErrUnknownBody))
			Expect(w.AddSpring(spring.NewLinear(a, stray))).To(MatchError(world.ErrUnknownBody))
		})
	})

	Describe("hit test", func() {
		It("returns only the body under the point", func() {
			w := newWorld()
			a := addCircle(w, vec.New(0, 0), 1)
			addCircle(w, vec.New(5, 0), 1)
			addBox(w, 1, vec.New(-5, 0), 1)

			Expect(w.HitTest(vec.New(0.2, 0.1), nil, 0)).To(ConsistOf(a))
			Expect(w.HitTest(vec.New(2.5, 0), nil, 0)).To(BeEmpty())
		})

		It("keeps candidate order", func() {
			w := newWorld()
			a := addCircle(w, vec.New(0, 0), 1)
			b := addCircle(w, vec.New(0.5, 0), 1)
			Expect(w.HitTest(vec.New(0.25, 0), []*body.Body{b, a}, 0)).To(Equal([]*body.Body{b, a}))
		})
	})

	Describe("add and remove", func() {
		It("leaves pools and overlap state untouched by a round trip", func() {
			w := newWorld()
			addGround(w)
			for i := 0; i < 4; i++ {
				addCircle(w, vec.New(float64(i)*3, 1), 1)
			}
			stepN(w, 30)

			np := w.Narrowphase
			bodies := len(w.Bodies())
			contacts, frictions := np.ContactPool().Len(), np.FrictionPool().Len()
			current, last, records := w.Keeper().CurrentLen(), w.Keeper().LastLen(), w.Keeper().Records().Len()

			extra := addCircle(w, vec.New(-10, 10), 1)
			Expect(w.RemoveBody(extra)).To(Succeed())

			Expect(w.Bodies()).To(HaveLen(bodies))
			Expect(np.ContactPool().Len()).To(Equal(contacts))
			Expect(np.FrictionPool().Len()).To(Equal(frictions))
			Expect(w.Keeper().CurrentLen()).To(Equal(current))
			Expect(w.Keeper().LastLen()).To(Equal(last))
			Expect(w.Keeper().Records().Len()).To(Equal(records))
		})

		It("cascades removal to joints, springs and contacts", func() {
			w := newWorld()
			addGround(w)
			a := addCircle(w, vec.New(0, 1), 1)
			b := addCircle(w, vec.New(3, 1), 1)
			Expect(w.AddConstraint(constraint.NewDistance(a, b))).To(Succeed())
			Expect(w.AddSpring(spring.NewLinear(a, b))).To(Succeed())

			var removed []string
			w.OnConstraintRemoved(func(constraint.Constraint) { removed = append(removed, "constraint") })
			w.OnSpringRemoved(func(spring.Spring) { removed = append(removed, "spring") })
			w.OnBodyRemoved(func(*body.Body) { removed = append(removed, "body") })

			stepN(w, 5)
			Expect(w.RemoveBody(a)).To(Succeed())
			Expect(removed).To(Equal([]string{"constraint", "spring", "body"}))
			Expect(w.Constraints()).To(BeEmpty())
			Expect(w.Springs()).To(BeEmpty())
			for _, c := range w.ContactEquations() {
				Expect(c.BodyA).NotTo(BeIdenticalTo(a))
				Expect(c.BodyB).NotTo(BeIdenticalTo(a))
			}
			Expect(w.Keeper().BodiesAreOverlapping(a, w.Bodies()[0])).To(BeFalse())

			_, err := w.BodyByID(a.ID)
			Expect(err).To(MatchError(world.ErrUnknownBody))
			Expect(w.RemoveBody(a)).To(MatchError(world.ErrUnknownBody))
			stepN(w, 5)
		})

		It("rejects duplicates", func() {
			w := newWorld()
			a := addCircle(w, vec.New(0, 0), 1)
			Expect(w.AddBody(a)).To(MatchError(world.ErrDuplicate))
			s := spring.NewRotational(a, a)
			Expect(w.AddSpring(s)).To(Succeed())
			Expect(w.AddSpring(s)).To(MatchError(world.ErrDuplicate))
			Expect(w.RemoveSpring(s)).To(Succeed())
			Expect(w.RemoveSpring(s)).To(MatchError(world.ErrUnknownSpring))
		})

		It("defers removals made during a step", func() {
			w := newWorld()
			addGround(w)
			ball := addCircle(w, vec.New(0, 1), 1)
			w.OnPostStep(func(w *world.World) {
				if w.Time() > 0 {
					Expect(w.RemoveBody(ball)).To(Succeed())
				}
			})
			Expect(w.Step(dt)).To(Succeed())
			Expect(w.Bodies()).To(HaveLen(1))
			Expect(w.ContactEquations()).To(BeEmpty())
		})
	})

	Describe("contact events", func() {
		It("reports one begin contact and one impact per landing", func() {
			w := newWorld(func(c *world.Config) { c.SleepMode = world.NoSleeping })
			addGround(w)
			addCircle(w, vec.New(0, 3), 1)

			var begins, ends, impacts int
			w.OnBeginContact(func(ev world.ContactEvent) {
				begins++
				Expect(ev.Contacts).NotTo(BeEmpty())
			})
			w.OnEndContact(func(world.ContactEvent) { ends++ })
			w.OnImpact(func(ev world.ImpactEvent) {
				impacts++
				Expect(ev.Contact).NotTo(BeNil())
			})

			stepN(w, 120)
			Expect(begins).To(Equal(1))
			Expect(impacts).To(Equal(1))
			Expect(ends).To(BeZero())
		})

		It("hands each begin contact only its own contacts", func() {
			w := newWorld(func(c *world.Config) { c.SleepMode = world.NoSleeping })
			ground := addGround(w)
			left := addCircle(w, vec.New(-5, 1), 1)
			right := addCircle(w, vec.New(5, 1), 1)

			seen := map[*body.Body]int{}
			w.OnBeginContact(func(ev world.ContactEvent) {
				other := ev.BodyA
				if other == ground {
					other = ev.BodyB
				}
				for _, c := range ev.Contacts {
					Expect([]*body.Body{c.BodyA, c.BodyB}).To(ContainElement(other))
				}
				seen[other] += len(ev.Contacts)
			})
			Expect(w.Step(dt)).To(Succeed())
			Expect(seen).To(HaveKeyWithValue(left, 1))
			Expect(seen).To(HaveKeyWithValue(right, 1))
		})

		It("reports sensor overlaps without equations", func() {
			w := newWorld(zeroGravity)
			addCircle(w, vec.New(0, 0), 1)
			zone := addCircle(w, vec.New(1, 0), 1)
			zone.Shapes[0].Props().Sensor = true

			var begins int
			w.OnBeginContact(func(ev world.ContactEvent) {
				begins++
				Expect(ev.Contacts).To(BeEmpty())
			})
			Expect(w.Step(dt)).To(Succeed())
			Expect(begins).To(Equal(1))
			Expect(w.ContactEquations()).To(BeEmpty())

			zone.Shapes[0].Props().Sensor = false
			Expect(zone.SetPosition(vec.New(10, 0))).To(Succeed())
			var ends int
			w.OnEndContact(func(world.ContactEvent) { ends++ })
			Expect(w.Step(dt)).To(Succeed())
			Expect(ends).To(Equal(1))
		})
	})

	Describe("sleeping", func() {
		It("keeps a sleeping island frozen", func() {
			w := newWorld()
			addGround(w)
			ball := addCircle(w, vec.New(0, 1.5), 1)

			var slept int
			w.OnSleep(func(*body.Body) { slept++ })
			stepN(w, 300)
			Expect(ball.IsSleeping()).To(BeTrue())
			Expect(slept).To(Equal(1))

			pos, vel := ball.Position(), ball.Velocity()
			for i := 0; i < 100; i++ {
				stepN(w, 1)
				Expect(ball.Position()).To(Equal(pos))
				Expect(ball.Velocity()).To(Equal(vel))
			}
		})

		It("wakes the whole island on an external force", func() {
			w := newWorld()
			addGround(w)
			a := addBox(w, 1, vec.New(0, 0.5), 1)
			b := addBox(w, 1, vec.New(0, 1.5), 1)
			stepN(w, 300)
			Expect(a.IsSleeping()).To(BeTrue())
			Expect(b.IsSleeping()).To(BeTrue())
			Expect(a.IslandID).To(Equal(b.IslandID))

			var woken int
			w.OnWake(func(*body.Body) { woken++ })
			Expect(b.ApplyForce(vec.New(50, 0), vec.Zero)).To(Succeed())
			stepN(w, 1)
			Expect(a.IsSleeping()).To(BeFalse())
			Expect(b.IsSleeping()).To(BeFalse())
			Expect(woken).To(Equal(2))
		})

		It("does not sleep without a sleep mode", func() {
			w := newWorld(func(c *world.Config) { c.SleepMode = world.NoSleeping })
			addGround(w)
			ball := addCircle(w, vec.New(0, 1), 1)
			stepN(w, 200)
			Expect(ball.IsSleeping()).To(BeFalse())
		})
	})

	Describe("stepping", func() {
		It("caps sub steps and interpolates", func() {
			w := newWorld()
			ball := addCircle(w, vec.New(0, 10), 1)

			n, err := w.StepElapsed(dt, 1, 3)
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(3))
			Expect(w.Time()).To(BeNumerically("~", 3*dt, 1e-12))
			Expect(ball.InterpolatedPosition).To(Equal(ball.Position()))

			n, err = w.StepElapsed(dt, dt/2, 3)
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(1))
			mid := (ball.PreviousPosition[1] + ball.Position()[1]) / 2
			Expect(ball.InterpolatedPosition[1]).To(BeNumerically("~", mid, 1e-9))
		})

		It("runs springs every step", func() {
			w := newWorld(zeroGravity)
			a := addCircle(w, vec.New(0, 0), 0.2)
			b := addCircle(w, vec.New(2, 0), 0.2)
			s := spring.NewLinear(a, b)
			s.RestLength = 1
			Expect(w.AddSpring(s)).To(Succeed())
			stepN(w, 30)
			Expect(vec.Dist(a.Position(), b.Position())).To(BeNumerically("<", 2))
		})

		It("reports nothing odd for an empty world", func() {
			w := newWorld()
			Expect(w.Step(dt)).To(Succeed())
			Expect(w.Stats().Pairs).To(BeZero())
			Expect(errors.Is(w.RemoveBody(nil), world.ErrUnknownBody)).To(BeTrue())
		})
	})
})
