// Package narrowphase turns candidate body pairs into contact and friction
// equations. Shapes are collided pairwise through a dispatch table keyed by
// the unordered pair of shape kinds.
package narrowphase

import (
	"github.com/san-kum/rigid2d/internal/body"
	"github.com/san-kum/rigid2d/internal/equation"
	"github.com/san-kum/rigid2d/internal/material"
	"github.com/san-kum/rigid2d/internal/overlap"
	"github.com/san-kum/rigid2d/internal/pool"
	"github.com/san-kum/rigid2d/internal/shape"
	"github.com/san-kum/rigid2d/internal/vec"
)

const (
	DefaultContactSkinSize = 0.01
	DefaultFrictionGravity = 9.81
)

type warmKey struct {
	shapeA, shapeB int
	index          int
}

type warmValue struct {
	normal  float64
	tangent float64
}

// pair is the shape pair currently being collided.
type pair struct {
	bodyA, bodyB   *body.Body
	shapeA, shapeB shape.Shape
	mat            *material.ContactMaterial
	justTest       bool
	count          int
}

type Narrowphase struct {
	// ContactSkinSize is the separation below which contacts are created.
	ContactSkinSize float64
	EnableFriction  bool
	// FrictionGravity sets the slip force of contacts that have no normal
	// force from the previous step yet.
	FrictionGravity float64

	// Contacts and Frictions created since the last Reset, in creation order.
	Contacts  []*equation.Contact
	Frictions []*equation.Friction

	// Skipped counts contacts dropped this step for non-finite geometry.
	Skipped int

	contactPool  *pool.Pool[equation.Contact]
	frictionPool *pool.Pool[equation.Friction]

	warm map[warmKey]warmValue

	colliding     *overlap.TupleDict[struct{}]
	collidingLast *overlap.TupleDict[struct{}]

	cores [2]core
	cur   pair
	flip  bool
}

func New() *Narrowphase {
	return &Narrowphase{
		ContactSkinSize: DefaultContactSkinSize,
		EnableFriction:  true,
		FrictionGravity: DefaultFrictionGravity,
		contactPool:     pool.New(equation.NewContact, (*equation.Contact).Reset),
		frictionPool:    pool.New(equation.NewFriction, (*equation.Friction).Reset),
		warm:            make(map[warmKey]warmValue),
		colliding:       overlap.NewTupleDict[struct{}](),
		collidingLast:   overlap.NewTupleDict[struct{}](),
	}
}

// Reset remembers the solved forces of the current equations for warm
// starting, then returns every equation to its pool.
func (n *Narrowphase) Reset() {
	clear(n.warm)
	for _, c := range n.Contacts {
		n.warm[keyOf(c)] = warmValue{normal: c.Multiplier}
	}
	for _, f := range n.Frictions {
		if f.Contact == nil {
			continue
		}
		k := keyOf(f.Contact)
		w := n.warm[k]
		w.tangent = f.Multiplier
		n.warm[k] = w
	}

	n.contactPool.Release(n.Contacts...)
	n.frictionPool.Release(n.Frictions...)
	clear(n.Contacts)
	clear(n.Frictions)
	n.Contacts = n.Contacts[:0]
	n.Frictions = n.Frictions[:0]
	n.Skipped = 0

	n.collidingLast.Copy(n.colliding)
	n.colliding.Reset()
}

// RemoveBody drops equations and cached state that mention b.
func (n *Narrowphase) RemoveBody(b *body.Body) {
	kept := n.Contacts[:0]
	for _, c := range n.Contacts {
		if c.BodyA == b || c.BodyB == b {
			n.contactPool.Release(c)
			continue
		}
		kept = append(kept, c)
	}
	clear(n.Contacts[len(kept):])
	n.Contacts = kept

	keptF := n.Frictions[:0]
	for _, f := range n.Frictions {
		if f.BodyA == b || f.BodyB == b {
			n.frictionPool.Release(f)
			continue
		}
		keptF = append(keptF, f)
	}
	clear(n.Frictions[len(keptF):])
	n.Frictions = keptF

	for _, d := range []*overlap.TupleDict[struct{}]{n.colliding, n.collidingLast} {
		for _, k := range append([]overlap.Key(nil), d.Keys()...) {
			if k.A == b.ID || k.B == b.ID {
				d.Delete(k)
			}
		}
	}
	for _, s := range b.Shapes {
		id := s.Props().ID
		for k := range n.warm {
			if k.shapeA == id || k.shapeB == id {
				delete(n.warm, k)
			}
		}
	}
}

// Collide tests one shape pair and appends its equations. It returns the
// number of contact points found. With justTest no equations are created
// and the search stops at the first contact.
func (n *Narrowphase) Collide(bodyA *body.Body, shapeA shape.Shape, bodyB *body.Body, shapeB shape.Shape, mat *material.ContactMaterial, justTest bool) int {
	if mat == nil {
		mat = material.Default()
	}
	n.cur = pair{
		bodyA:    bodyA,
		bodyB:    bodyB,
		shapeA:   shapeA,
		shapeB:   shapeB,
		mat:      mat,
		justTest: justTest,
	}
	n.flip = false
	n.dispatch(placedOn(bodyA, shapeA), placedOn(bodyB, shapeB))
	count := n.cur.count
	n.cur = pair{}
	return count
}

// CollidedLastStep reports whether the bodies produced contacts in the
// previous step.
func (n *Narrowphase) CollidedLastStep(a, b *body.Body) bool {
	_, ok := n.collidingLast.Get(a.ID, b.ID)
	return ok
}

func (n *Narrowphase) ContactPool() *pool.Pool[equation.Contact]   { return n.contactPool }
func (n *Narrowphase) FrictionPool() *pool.Pool[equation.Friction] { return n.frictionPool }

func placedOn(b *body.Body, s shape.Shape) placed {
	props := s.Props()
	return placed{
		shape: s,
		pos:   b.ToWorldFrame(props.Offset),
		angle: b.Angle() + props.Angle,
	}
}

func keyOf(c *equation.Contact) warmKey {
	return warmKey{shapeA: c.ShapeA.Props().ID, shapeB: c.ShapeB.Props().ID, index: c.Index}
}

func (n *Narrowphase) done() bool {
	return n.cur.justTest && n.cur.count > 0
}

// emit records one contact with world space surface points on the first
// and second shape of the running routine and the normal between them.
func (n *Narrowphase) emit(onFirst, onSecond, normal vec.Vec2) {
	onA, onB := onFirst, onSecond
	if n.flip {
		onA, onB, normal = onSecond, onFirst, normal.Mul(-1)
	}
	if !vec.IsFinite(onA) || !vec.IsFinite(onB) || !vec.IsFinite(normal) {
		n.Skipped++
		return
	}

	p := &n.cur
	index := p.count
	p.count++
	if p.justTest {
		return
	}

	c := n.contactPool.Get()
	c.Set(p.bodyA, p.bodyB, p.shapeA, p.shapeB)
	c.NormalA = normal
	c.ContactPointA = onA.Sub(p.bodyA.Position())
	c.ContactPointB = onB.Sub(p.bodyB.Position())
	c.Index = index
	c.Restitution = p.mat.Restitution
	c.FirstImpact = !n.CollidedLastStep(p.bodyA, p.bodyB)
	c.SetSpook(p.mat.Stiffness, p.mat.Relaxation)

	warm, hasWarm := n.warm[keyOf(c)]
	if hasWarm {
		c.WarmForce = warm.normal
	}
	n.Contacts = append(n.Contacts, c)
	n.colliding.Set(p.bodyA.ID, p.bodyB.ID, struct{}{})

	if !n.EnableFriction || p.mat.Friction <= 0 {
		return
	}
	f := n.frictionPool.Get()
	f.Set(p.bodyA, p.bodyB, p.shapeA, p.shapeB)
	f.ContactPointA = c.ContactPointA
	f.ContactPointB = c.ContactPointB
	f.T = vec.Rotate90CW(normal)
	f.Contact = c
	f.FrictionCoefficient = p.mat.Friction
	f.RelativeVelocity = p.mat.SurfaceVelocity
	f.SetSpook(p.mat.FrictionStiffness, p.mat.FrictionRelaxation)
	if hasWarm && warm.normal > 0 {
		f.SetSlipForce(p.mat.Friction * warm.normal)
		f.WarmForce = warm.tangent
	} else {
		f.SetSlipForce(p.mat.Friction * n.FrictionGravity * reducedMass(p.bodyA, p.bodyB))
	}
	n.Frictions = append(n.Frictions, f)
}

func reducedMass(a, b *body.Body) float64 {
	inv := a.InvMass() + b.InvMass()
	if inv <= 0 {
		return 0
	}
	return 1 / inv
}
