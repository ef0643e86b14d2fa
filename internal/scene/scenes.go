package scene

import (
	"math"
	"math/rand"

	"github.com/san-kum/rigid2d/internal/body"
	"github.com/san-kum/rigid2d/internal/config"
	"github.com/san-kum/rigid2d/internal/constraint"
	"github.com/san-kum/rigid2d/internal/material"
	"github.com/san-kum/rigid2d/internal/shape"
	"github.com/san-kum/rigid2d/internal/spring"
	"github.com/san-kum/rigid2d/internal/vec"
	"github.com/san-kum/rigid2d/internal/world"
)

var undamped = 0.0

func add(w *world.World, opts body.Options, shapes ...shape.Shape) (*body.Body, error) {
	b, err := body.New(opts)
	if err != nil {
		return nil, err
	}
	for _, s := range shapes {
		b.AddShape(s, vec.Zero, 0)
	}
	return b, w.AddBody(b)
}

func ground(w *world.World) (*body.Body, error) {
	return add(w, body.Options{}, shape.NewPlane())
}

// hook is a static body that never collides, used as a joint anchor.
func hook(w *world.World, pos vec.Vec2) (*body.Body, error) {
	c, err := shape.NewCircle(0.1)
	if err != nil {
		return nil, err
	}
	c.CollisionMask = 0
	return add(w, body.Options{Position: pos}, c)
}

func box(w *world.World, mass, width, height float64, pos vec.Vec2, angle float64) (*body.Body, error) {
	s, err := shape.NewBox(width, height)
	if err != nil {
		return nil, err
	}
	return add(w, body.Options{Mass: mass, Position: pos, Angle: angle}, s)
}

// buildDrop drops a ball and a box onto a plane.
func buildDrop(w *world.World, cfg *config.Config, _ *rand.Rand) error {
	radius := cfg.Param("radius", 0.5)
	height := cfg.Param("height", 5)
	mass := cfg.Param("mass", 1)
	restitution := cfg.Param("restitution", 0)

	groundMat, ballMat := material.New("ground"), material.New("ball")

	g, err := ground(w)
	if err != nil {
		return err
	}
	g.Shapes[0].Props().MaterialID = groundMat.ID

	c, err := shape.NewCircle(radius)
	if err != nil {
		return err
	}
	c.MaterialID = ballMat.ID
	if _, err := add(w, body.Options{Mass: mass, Position: vec.New(0, height)}, c); err != nil {
		return err
	}

	if restitution > 0 {
		cm := material.NewContactMaterial(groundMat, ballMat)
		cm.Friction = cfg.World.Friction
		cm.Restitution = restitution
		w.AddContactMaterial(cm)
	}

	_, err = box(w, mass, 2*radius, 2*radius, vec.New(3*radius+1, height+1), 0.3)
	return err
}

// buildStack piles boxes into a single column.
func buildStack(w *world.World, cfg *config.Config, rng *rand.Rand) error {
	count := int(cfg.Param("count", 6))
	jitter := cfg.Param("jitter", 0.02)

	if _, err := ground(w); err != nil {
		return err
	}
	for i := 0; i < count; i++ {
		x := jitter * (rng.Float64() - 0.5)
		if _, err := box(w, 1, 1, 1, vec.New(x, 0.5+float64(i)), 0); err != nil {
			return err
		}
	}
	return nil
}

func buildPyramid(w *world.World, cfg *config.Config, rng *rand.Rand) error {
	rows := int(cfg.Param("rows", 8))
	jitter := cfg.Param("jitter", 0.01)
	const size, gap = 1.0, 0.05

	if _, err := ground(w); err != nil {
		return err
	}
	for r := 0; r < rows; r++ {
		n := rows - r
		for i := 0; i < n; i++ {
			x := (float64(i)-float64(n-1)/2)*(size+gap) + jitter*(rng.Float64()-0.5)
			y := size/2 + float64(r)*size
			if _, err := box(w, 1, size, size, vec.New(x, y), 0); err != nil {
				return err
			}
		}
	}
	return nil
}

// buildPendulum hangs a chain of bobs from revolute joints.
func buildPendulum(w *world.World, cfg *config.Config, _ *rand.Rand) error {
	links := int(cfg.Param("links", 3))
	angle := cfg.Param("angle", 1.0)
	length := cfg.Param("length", 1)
	radius := cfg.Param("radius", 0.2)

	pivot := vec.New(0, 10)
	prev, err := hook(w, pivot)
	if err != nil {
		return err
	}
	for i := 0; i < links; i++ {
		pos := pivot.Add(vec.New(math.Sin(angle), -math.Cos(angle)).Mul(length))
		c, err := shape.NewCircle(radius)
		if err != nil {
			return err
		}
		bob, err := add(w, body.Options{
			Mass:           1,
			Position:       pos,
			Damping:        &undamped,
			AngularDamping: &undamped,
		}, c)
		if err != nil {
			return err
		}
		joint := constraint.NewRevolute(prev, bob, pivot)
		joint.CollideConnected = false
		if err := w.AddConstraint(joint); err != nil {
			return err
		}
		prev, pivot = bob, pos
	}
	return nil
}

// buildNewton is a Newton's cradle: touching balls on distance joints with
// an elastic ball-ball material.
func buildNewton(w *world.World, cfg *config.Config, _ *rand.Rand) error {
	n := int(cfg.Param("balls", 5))
	pulled := int(cfg.Param("pulled", 1))
	radius := cfg.Param("radius", 0.5)
	length := cfg.Param("length", 4)
	swing := cfg.Param("swing", 0.6)
	const top = 6.0

	ballMat := material.New("steel")
	cm := material.NewContactMaterial(ballMat, ballMat)
	cm.Friction = 0
	cm.Restitution = cfg.Param("restitution", 1)
	w.AddContactMaterial(cm)

	rail, err := shape.NewLine(float64(n)*2*radius + 2)
	if err != nil {
		return err
	}
	ceiling, err := add(w, body.Options{Position: vec.New(0, top)}, rail)
	if err != nil {
		return err
	}

	for i := 0; i < n; i++ {
		x := (float64(i) - float64(n-1)/2) * 2 * radius
		a := 0.0
		if i < pulled {
			a = -swing
		}
		anchor := vec.New(x, top)
		pos := anchor.Add(vec.New(math.Sin(a), -math.Cos(a)).Mul(length))

		c, err := shape.NewCircle(radius)
		if err != nil {
			return err
		}
		c.MaterialID = ballMat.ID
		ball, err := add(w, body.Options{
			Mass:           1,
			Position:       pos,
			Damping:        &undamped,
			AngularDamping: &undamped,
		}, c)
		if err != nil {
			return err
		}
		rod := constraint.NewDistanceAnchors(ceiling, ball, vec.New(x, 0), vec.Zero)
		rod.CollideConnected = false
		if err := w.AddConstraint(rod); err != nil {
			return err
		}
	}
	return nil
}

// buildSprings hangs a box and a particle from a hook and ties two boxes
// on the ground with a linear and a rotational spring.
func buildSprings(w *world.World, cfg *config.Config, _ *rand.Rand) error {
	stiffness := cfg.Param("stiffness", spring.DefaultStiffness)
	damping := cfg.Param("damping", spring.DefaultDamping)
	rest := cfg.Param("rest", 2)

	if _, err := ground(w); err != nil {
		return err
	}
	h, err := hook(w, vec.New(0, 8))
	if err != nil {
		return err
	}

	hanging, err := box(w, 1, 1, 1, vec.New(0, 5), 0)
	if err != nil {
		return err
	}
	s := spring.NewLinearAnchors(h, hanging, vec.Zero, vec.New(0, 0.5))
	s.RestLength = rest
	s.Stiffness, s.Damping = stiffness, damping
	if err := w.AddSpring(s); err != nil {
		return err
	}

	p, err := add(w, body.Options{Mass: 0.2, Position: vec.New(-3, 4)}, shape.NewParticle())
	if err != nil {
		return err
	}
	ps := spring.NewLinear(h, p)
	ps.RestLength = rest
	ps.Stiffness, ps.Damping = stiffness/5, damping
	if err := w.AddSpring(ps); err != nil {
		return err
	}

	left, err := box(w, 1, 1, 1, vec.New(3, 0.5), 0)
	if err != nil {
		return err
	}
	right, err := box(w, 1, 1, 1, vec.New(5, 0.5), 0)
	if err != nil {
		return err
	}
	pair := spring.NewLinear(left, right)
	pair.RestLength = 1.5
	pair.Stiffness, pair.Damping = stiffness, damping
	if err := w.AddSpring(pair); err != nil {
		return err
	}
	twist := spring.NewRotational(left, right)
	twist.RestAngle = cfg.Param("twist", 0.5)
	twist.Stiffness, twist.Damping = stiffness/10, damping
	return w.AddSpring(twist)
}

// buildTerrain rolls capsules, a triangle and a compound over a
// heightfield.
func buildTerrain(w *world.World, cfg *config.Config, rng *rand.Rand) error {
	hills := cfg.Param("hills", 3)
	capsules := int(cfg.Param("capsules", 5))
	const samples, spacing = 41, 0.5

	heights := make([]float64, samples)
	for i := range heights {
		heights[i] = 1 + 0.6*math.Sin(float64(i)*hills*2*math.Pi/(samples-1))
	}
	hf, err := shape.NewHeightfield(heights, spacing)
	if err != nil {
		return err
	}
	if _, err := add(w, body.Options{Position: vec.New(-10, 0)}, hf); err != nil {
		return err
	}

	for i := 0; i < capsules; i++ {
		c, err := shape.NewCapsule(1, 0.25)
		if err != nil {
			return err
		}
		pos := vec.New(-8+float64(i)*3.2, 5+rng.Float64())
		if _, err := add(w, body.Options{Mass: 1, Position: pos, Angle: rng.Float64() * math.Pi}, c); err != nil {
			return err
		}
	}

	tri, err := shape.NewConvex([]vec.Vec2{vec.New(-0.5, -0.4), vec.New(0.5, -0.4), vec.New(0, 0.6)})
	if err != nil {
		return err
	}
	if _, err := add(w, body.Options{Mass: 1, Position: vec.New(0, 8)}, tri); err != nil {
		return err
	}

	a, err := shape.NewCircle(0.3)
	if err != nil {
		return err
	}
	b, err := shape.NewCircle(0.3)
	if err != nil {
		return err
	}
	a.Offset, b.Offset = vec.New(-0.4, 0), vec.New(0.4, 0)
	dumbbell, err := shape.NewCompound(a, b)
	if err != nil {
		return err
	}
	_, err = add(w, body.Options{Mass: 2, Position: vec.New(4, 8)}, dumbbell)
	return err
}

// buildGears drives one wheel with a motor, couples a second wheel with a
// gear, welds an arm to it and slides a block along a rail.
func buildGears(w *world.World, cfg *config.Config, _ *rand.Rand) error {
	ratio := cfg.Param("ratio", 2)
	speed := cfg.Param("speed", 1)

	rail, err := shape.NewLine(12)
	if err != nil {
		return err
	}
	base, err := body.New(body.Options{})
	if err != nil {
		return err
	}
	base.AddShape(rail, vec.New(0, -4), 0)
	if err := w.AddBody(base); err != nil {
		return err
	}

	wheel := func(x float64) (*body.Body, *constraint.Revolute, error) {
		c, err := shape.NewCircle(1)
		if err != nil {
			return nil, nil, err
		}
		b, err := add(w, body.Options{Mass: 1, Position: vec.New(x, 0)}, c)
		if err != nil {
			return nil, nil, err
		}
		axle := constraint.NewRevolute(base, b, b.Position())
		axle.CollideConnected = false
		return b, axle, w.AddConstraint(axle)
	}

	driver, motor, err := wheel(-2)
	if err != nil {
		return err
	}
	motor.EnableMotor()
	motor.SetMotorSpeed(speed)
	motor.SetMotorMaxTorque(100)

	driven, _, err := wheel(2)
	if err != nil {
		return err
	}
	if err := w.AddConstraint(constraint.NewGear(driver, driven, ratio)); err != nil {
		return err
	}

	arm, err := box(w, 0.5, 2, 0.3, vec.New(3.5, 0), 0)
	if err != nil {
		return err
	}
	weld := constraint.NewLock(driven, arm)
	weld.CollideConnected = false
	if err := w.AddConstraint(weld); err != nil {
		return err
	}

	slider, err := box(w, 1, 1, 0.5, vec.New(0, -3), 0)
	if err != nil {
		return err
	}
	track := constraint.NewPrismatic(base, slider, vec.New(1, 0))
	track.CollideConnected = false
	track.SetLimits(-3, 3)
	track.EnableMotor()
	track.SetMotorSpeed(cfg.Param("slide", 0.5))
	track.SetMotorMaxForce(50)
	return w.AddConstraint(track)
}
