package body

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"

	"github.com/san-kum/rigid2d/internal/shape"
	"github.com/san-kum/rigid2d/internal/vec"
)

var (
	// ErrNaN indicates a mutation that would put NaN or Inf into the motion state.
	ErrNaN = errors.New("body: non-finite value")

	// ErrInvalidMass indicates a negative mass, or a dynamic body without mass.
	ErrInvalidMass = errors.New("body: invalid mass")
)

type Type int

const (
	Dynamic   Type = 1
	Static    Type = 2
	Kinematic Type = 4
)

func (t Type) String() string {
	switch t {
	case Dynamic:
		return "dynamic"
	case Static:
		return "static"
	case Kinematic:
		return "kinematic"
	}
	return "unknown"
}

type SleepState int

const (
	Awake SleepState = iota
	Sleepy
	Sleeping
)

func (s SleepState) String() string {
	switch s {
	case Awake:
		return "awake"
	case Sleepy:
		return "sleepy"
	case Sleeping:
		return "sleeping"
	}
	return "unknown"
}

const (
	DefaultDamping         = 0.1
	DefaultSleepSpeedLimit = 0.2
	DefaultSleepTimeLimit  = 1.0
)

// Options configure a new body. Zero values get the defaults noted per field.
type Options struct {
	Type            Type // Dynamic when Mass > 0, otherwise Static
	Mass            float64
	Position        vec.Vec2
	Angle           float64
	Velocity        vec.Vec2
	AngularVelocity float64
	FixedRotation   bool
	Damping         *float64 // DefaultDamping
	AngularDamping  *float64 // DefaultDamping
	GravityScale    *float64 // 1
	AllowSleep      *bool    // true
	SleepSpeedLimit float64  // DefaultSleepSpeedLimit
	SleepTimeLimit  float64  // DefaultSleepTimeLimit
}

type Body struct {
	ID     int
	Type   Type
	Shapes []shape.Shape

	massSetting float64
	mass        float64
	invMass     float64
	inertia     float64
	invInertia  float64

	FixedRotation bool

	position        vec.Vec2
	angle           float64
	velocity        vec.Vec2
	angularVelocity float64
	force           vec.Vec2
	torque          float64

	PreviousPosition     vec.Vec2
	PreviousAngle        float64
	InterpolatedPosition vec.Vec2
	InterpolatedAngle    float64

	// Solver scratch, owned by the solver during a step.
	VLambda         vec.Vec2
	WLambda         float64
	InvMassSolve    float64
	InvInertiaSolve float64

	Damping        float64
	AngularDamping float64
	GravityScale   float64

	AllowSleep      bool
	SleepSpeedLimit float64
	SleepTimeLimit  float64
	sleepState      SleepState
	idleTime        float64
	wantsToSleep    bool
	wakeRequested   bool

	// IslandID is -1 for static bodies and bodies not yet assigned.
	IslandID int

	CollisionResponse bool

	aabb      vec.AABB
	aabbDirty bool

	UserData interface{}
}

var bodyIDs atomic.Int64

func New(opts Options) (*Body, error) {
	if opts.Mass < 0 || !vec.Finite(opts.Mass) {
		return nil, fmt.Errorf("mass %v: %w", opts.Mass, ErrInvalidMass)
	}
	t := opts.Type
	if t == 0 {
		t = Static
		if opts.Mass > 0 {
			t = Dynamic
		}
	}
	if t == Dynamic && opts.Mass == 0 {
		return nil, fmt.Errorf("dynamic body needs positive mass: %w", ErrInvalidMass)
	}
	if !vec.IsFinite(opts.Position) || !vec.Finite(opts.Angle) ||
		!vec.IsFinite(opts.Velocity) || !vec.Finite(opts.AngularVelocity) {
		return nil, ErrNaN
	}

	b := &Body{
		ID:                int(bodyIDs.Add(1)),
		Type:              t,
		massSetting:       opts.Mass,
		FixedRotation:     opts.FixedRotation,
		position:          opts.Position,
		angle:             opts.Angle,
		velocity:          opts.Velocity,
		angularVelocity:   opts.AngularVelocity,
		Damping:           orFloat(opts.Damping, DefaultDamping),
		AngularDamping:    orFloat(opts.AngularDamping, DefaultDamping),
		GravityScale:      orFloat(opts.GravityScale, 1),
		AllowSleep:        opts.AllowSleep == nil || *opts.AllowSleep,
		SleepSpeedLimit:   DefaultSleepSpeedLimit,
		SleepTimeLimit:    DefaultSleepTimeLimit,
		IslandID:          -1,
		CollisionResponse: true,
		aabbDirty:         true,
	}
	if opts.SleepSpeedLimit > 0 {
		b.SleepSpeedLimit = opts.SleepSpeedLimit
	}
	if opts.SleepTimeLimit > 0 {
		b.SleepTimeLimit = opts.SleepTimeLimit
	}
	b.PreviousPosition = b.position
	b.PreviousAngle = b.angle
	b.InterpolatedPosition = b.position
	b.InterpolatedAngle = b.angle
	b.UpdateMassProperties()
	return b, nil
}

func orFloat(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

func (b *Body) String() string {
	return fmt.Sprintf("Body %d (%s)", b.ID, b.Type)
}

// AddShape attaches s at offset/angle in the body frame and refreshes the
// mass properties.
func (b *Body) AddShape(s shape.Shape, offset vec.Vec2, angle float64) {
	p := s.Props()
	p.Offset = offset
	p.Angle = angle
	b.Shapes = append(b.Shapes, s)
	b.UpdateMassProperties()
	b.aabbDirty = true
}

func (b *Body) RemoveShape(s shape.Shape) bool {
	for i, o := range b.Shapes {
		if o == s {
			b.Shapes = append(b.Shapes[:i], b.Shapes[i+1:]...)
			b.UpdateMassProperties()
			b.aabbDirty = true
			return true
		}
	}
	return false
}

func (b *Body) Position() vec.Vec2        { return b.position }
func (b *Body) Angle() float64            { return b.angle }
func (b *Body) Velocity() vec.Vec2        { return b.velocity }
func (b *Body) AngularVelocity() float64  { return b.angularVelocity }
func (b *Body) Force() vec.Vec2           { return b.force }
func (b *Body) Torque() float64           { return b.torque }
func (b *Body) SleepState() SleepState    { return b.sleepState }
func (b *Body) IdleTime() float64         { return b.idleTime }
func (b *Body) WantsToSleep() bool        { return b.wantsToSleep }
func (b *Body) IsSleeping() bool          { return b.sleepState == Sleeping }
func (b *Body) IsDynamic() bool           { return b.Type == Dynamic }
func (b *Body) SetAABBDirty()             { b.aabbDirty = true }
func (b *Body) WakeRequested() bool       { return b.wakeRequested }
func (b *Body) ClearWakeRequest()         { b.wakeRequested = false }
func (b *Body) SetIdleTime(t float64)     { b.idleTime = t }
func (b *Body) SetSleepState(s SleepState) { b.sleepState = s }

func (b *Body) SetPosition(p vec.Vec2) error {
	if !vec.IsFinite(p) {
		return fmt.Errorf("position %v: %w", p, ErrNaN)
	}
	b.position = p
	b.aabbDirty = true
	return nil
}

func (b *Body) SetAngle(a float64) error {
	if !vec.Finite(a) {
		return fmt.Errorf("angle %v: %w", a, ErrNaN)
	}
	b.angle = a
	b.aabbDirty = true
	return nil
}

func (b *Body) SetVelocity(v vec.Vec2) error {
	if !vec.IsFinite(v) {
		return fmt.Errorf("velocity %v: %w", v, ErrNaN)
	}
	b.velocity = v
	return nil
}

func (b *Body) SetAngularVelocity(w float64) error {
	if !vec.Finite(w) {
		return fmt.Errorf("angular velocity %v: %w", w, ErrNaN)
	}
	b.angularVelocity = w
	return nil
}

// ApplyForce adds force at a world-oriented point relative to the body
// position and wakes the body.
func (b *Body) ApplyForce(force, relativePoint vec.Vec2) error {
	if !vec.IsFinite(force) || !vec.IsFinite(relativePoint) {
		return fmt.Errorf("force %v at %v: %w", force, relativePoint, ErrNaN)
	}
	b.force = b.force.Add(force)
	b.torque += vec.Cross(relativePoint, force)
	b.WakeUp()
	return nil
}

// ApplyForceLocal takes force and point in the body frame.
func (b *Body) ApplyForceLocal(localForce, localPoint vec.Vec2) error {
	return b.ApplyForce(b.VectorToWorld(localForce), b.VectorToWorld(localPoint))
}

func (b *Body) ApplyTorque(t float64) error {
	if !vec.Finite(t) {
		return fmt.Errorf("torque %v: %w", t, ErrNaN)
	}
	b.torque += t
	b.WakeUp()
	return nil
}

// ApplyImpulse changes velocity directly. relativePoint is world oriented.
func (b *Body) ApplyImpulse(impulse, relativePoint vec.Vec2) error {
	if b.Type != Dynamic {
		return nil
	}
	if !vec.IsFinite(impulse) || !vec.IsFinite(relativePoint) {
		return fmt.Errorf("impulse %v at %v: %w", impulse, relativePoint, ErrNaN)
	}
	b.velocity = b.velocity.Add(impulse.Mul(b.invMass))
	b.angularVelocity += vec.Cross(relativePoint, impulse) * b.invInertia
	b.WakeUp()
	return nil
}

// AddForce accumulates without waking or validation. Used by the world for
// gravity and by springs after their own guards.
func (b *Body) AddForce(f vec.Vec2) { b.force = b.force.Add(f) }
func (b *Body) AddTorque(t float64) { b.torque += t }

func (b *Body) ClearForces() {
	b.force = vec.Zero
	b.torque = 0
}

func (b *Body) ToWorldFrame(local vec.Vec2) vec.Vec2 {
	return vec.ToGlobalFrame(local, b.position, b.angle)
}

func (b *Body) ToLocalFrame(world vec.Vec2) vec.Vec2 {
	return vec.ToLocalFrame(world, b.position, b.angle)
}

func (b *Body) VectorToWorld(local vec.Vec2) vec.Vec2 {
	return vec.Rotate(local, b.angle)
}

func (b *Body) VectorToLocal(world vec.Vec2) vec.Vec2 {
	return vec.Rotate(world, -b.angle)
}

// VelocityAt returns the velocity of a world-oriented point relative to the
// body position.
func (b *Body) VelocityAt(relativePoint vec.Vec2) vec.Vec2 {
	return b.velocity.Add(vec.CrossZV(b.angularVelocity, relativePoint))
}

func (b *Body) KineticEnergy() float64 {
	return 0.5*b.mass*b.velocity.LenSqr() + 0.5*b.inertia*b.angularVelocity*b.angularVelocity
}

// AABB in world space, recomputed lazily after motion.
func (b *Body) AABB() vec.AABB {
	if b.aabbDirty {
		b.updateAABB()
	}
	return b.aabb
}

func (b *Body) updateAABB() {
	out := vec.EmptyAABB()
	for _, s := range b.Shapes {
		out = out.Extend(shape.BodyAABB(s).Transform(b.position, b.angle))
	}
	if len(b.Shapes) == 0 {
		out = vec.AABB{Lower: b.position, Upper: b.position}
	}
	b.aabb = out
	b.aabbDirty = false
}

// ApplyDamping scales velocities by (1-d)^dt.
func (b *Body) ApplyDamping(dt float64) {
	if b.Type != Dynamic {
		return
	}
	b.velocity = b.velocity.Mul(math.Pow(1-b.Damping, dt))
	b.angularVelocity *= math.Pow(1-b.AngularDamping, dt)
}

// Integrate advances a dynamic body by semi-implicit Euler. Kinematic bodies
// only move by their set velocity. Sleeping and static bodies stay put.
func (b *Body) Integrate(dt float64) {
	b.PreviousPosition = b.position
	b.PreviousAngle = b.angle
	if b.Type == Static || b.sleepState == Sleeping {
		return
	}
	if b.Type == Dynamic {
		b.velocity = b.velocity.Add(b.force.Mul(b.invMass * dt))
		b.angularVelocity += b.torque * b.invInertia * dt
	}
	b.position = b.position.Add(b.velocity.Mul(dt))
	b.angle += b.angularVelocity * dt
	b.aabbDirty = true
}

// AddConstraintVelocity folds the solver delta into the velocity.
func (b *Body) AddConstraintVelocity() {
	b.velocity = b.velocity.Add(b.VLambda)
	b.angularVelocity += b.WLambda
}

// Interpolate sets the render transform between the previous and current
// step, t in [0, 1].
func (b *Body) Interpolate(t float64) {
	b.InterpolatedPosition = vec.Lerp(b.PreviousPosition, b.position, t)
	b.InterpolatedAngle = b.PreviousAngle + (b.angle-b.PreviousAngle)*t
}

// ResetInterpolation snaps the render transform to the current state.
func (b *Body) ResetInterpolation() {
	b.InterpolatedPosition = b.position
	b.InterpolatedAngle = b.angle
}
