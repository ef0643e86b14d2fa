package broadphase

import (
	"github.com/san-kum/rigid2d/internal/body"
	"github.com/san-kum/rigid2d/internal/shape"
)

// Pair is a candidate body pair for the narrowphase.
type Pair struct {
	A, B *body.Body
}

type Broadphase interface {
	Name() string
	// Pairs appends the candidate pairs for bodies to result and returns it.
	Pairs(bodies []*body.Body, result []Pair) []Pair
	// RemoveBody forgets anything cached about b.
	RemoveBody(b *body.Body)
}

// DefaultMargin expands every AABB before the overlap test.
const DefaultMargin = 0.01

// CanCollide rejects pairs that can never produce contacts: two
// non-dynamic bodies, a sleeper against a static or kinematic body, two
// sleepers, and bodies without any shape pair passing the group/mask filter.
func CanCollide(a, b *body.Body) bool {
	if a == b {
		return false
	}
	aDyn, bDyn := a.Type == body.Dynamic, b.Type == body.Dynamic
	if !aDyn && !bDyn {
		return false
	}
	aSleep, bSleep := a.IsSleeping(), b.IsSleeping()
	if aSleep && bSleep {
		return false
	}
	if (aSleep && !bDyn) || (bSleep && !aDyn) {
		return false
	}
	return filtersPass(a, b)
}

func filtersPass(a, b *body.Body) bool {
	for _, sa := range a.Shapes {
		for _, sb := range b.Shapes {
			if shape.CanCollide(sa.Props(), sb.Props()) {
				return true
			}
		}
	}
	return false
}

func boundsOverlap(a, b *body.Body, margin float64) bool {
	return a.AABB().Grow(margin).Overlaps(b.AABB().Grow(margin))
}
