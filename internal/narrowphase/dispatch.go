package narrowphase

import "github.com/san-kum/rigid2d/internal/shape"

type routine func(n *Narrowphase, a, b placed)

type kindPair struct{ lo, hi shape.Kind }

func makeKindPair(a, b shape.Kind) kindPair {
	if a > b {
		a, b = b, a
	}
	return kindPair{a, b}
}

// entry runs fn with the shape of kind first as its first argument.
type entry struct {
	first shape.Kind
	fn    routine
}

var convexKinds = []shape.Kind{
	shape.KindCircle,
	shape.KindParticle,
	shape.KindLine,
	shape.KindCapsule,
	shape.KindBox,
	shape.KindConvex,
}

var allKinds = append(append([]shape.Kind(nil), convexKinds...),
	shape.KindPlane, shape.KindHeightfield, shape.KindCompound)

// routines is keyed by the unordered kind pair. Pairs that can never touch
// (two particles, two lines, a line and a particle, two immovable
// surfaces) have no entry. Compound routines dispatch back into the table,
// so it is filled in init.
var routines map[kindPair]entry

func init() {
	routines = buildRoutines()
}

func buildRoutines() map[kindPair]entry {
	table := make(map[kindPair]entry)
	register := func(a, b shape.Kind, fn routine) {
		table[makeKindPair(a, b)] = entry{first: a, fn: fn}
	}

	for i, a := range convexKinds {
		for _, b := range convexKinds[i:] {
			if thin(a) && thin(b) {
				continue
			}
			register(a, b, convexRoutine)
		}
		register(a, shape.KindPlane, planeRoutine)
		register(a, shape.KindHeightfield, heightfieldRoutine)
	}
	for _, k := range allKinds {
		register(k, shape.KindCompound, compoundRoutine)
	}
	return table
}

// thin kinds have no area and no radius.
func thin(k shape.Kind) bool {
	return k == shape.KindParticle || k == shape.KindLine
}

// CanCollideKinds reports whether a routine exists for the pair.
func CanCollideKinds(a, b shape.Kind) bool {
	_, ok := routines[makeKindPair(a, b)]
	return ok
}

// dispatch runs the routine for a and b, swapping them when the routine
// expects the other order. Emitted contacts are swapped back.
func (n *Narrowphase) dispatch(a, b placed) {
	e, ok := routines[makeKindPair(a.shape.Kind(), b.shape.Kind())]
	if !ok {
		return
	}
	if e.first == a.shape.Kind() {
		e.fn(n, a, b)
		return
	}
	n.flip = !n.flip
	e.fn(n, b, a)
	n.flip = !n.flip
}
