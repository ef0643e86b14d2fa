package shape

import (
	"sync/atomic"

	"github.com/san-kum/rigid2d/internal/vec"
)

type Kind int

const (
	KindCircle Kind = iota + 1
	KindParticle
	KindPlane
	KindConvex
	KindLine
	KindBox
	KindCapsule
	KindHeightfield
	KindCompound
)

var kindNames = map[Kind]string{
	KindCircle:      "circle",
	KindParticle:    "particle",
	KindPlane:       "plane",
	KindConvex:      "convex",
	KindLine:        "line",
	KindBox:         "box",
	KindCapsule:     "capsule",
	KindHeightfield: "heightfield",
	KindCompound:    "compound",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "unknown"
}

const (
	DefaultGroup uint32 = 1
	DefaultMask  uint32 = 0xFFFFFFFF
)

// huge stands in for infinity in bounds so rotations stay finite.
const huge = 1e7

type Shape interface {
	Props() *Base
	Kind() Kind
	// MomentOfInertia about the shape origin for the given mass.
	MomentOfInertia(mass float64) float64
	// LocalAABB in the shape frame, before Offset/Angle are applied.
	LocalAABB() vec.AABB
	// ContainsPoint tests a point given in the shape frame.
	ContainsPoint(p vec.Vec2, precision float64) bool
	Area() float64
}

type Base struct {
	ID     int
	Offset vec.Vec2
	Angle  float64

	CollisionGroup    uint32
	CollisionMask     uint32
	CollisionResponse bool
	Sensor            bool
	MaterialID        int
}

var shapeIDs atomic.Int64

func newBase() Base {
	return Base{
		ID:                int(shapeIDs.Add(1)),
		CollisionGroup:    DefaultGroup,
		CollisionMask:     DefaultMask,
		CollisionResponse: true,
	}
}

func (b *Base) Props() *Base { return b }

// CanCollide applies the group/mask filter in both directions.
func CanCollide(a, b *Base) bool {
	return a.CollisionGroup&b.CollisionMask != 0 && b.CollisionGroup&a.CollisionMask != 0
}

// ToLocal maps a point from the owning body frame into the shape frame.
func ToLocal(s Shape, bodyLocal vec.Vec2) vec.Vec2 {
	b := s.Props()
	return vec.ToLocalFrame(bodyLocal, b.Offset, b.Angle)
}

// BodyAABB returns the shape bounds in the owning body frame.
func BodyAABB(s Shape) vec.AABB {
	b := s.Props()
	return s.LocalAABB().Transform(b.Offset, b.Angle)
}
