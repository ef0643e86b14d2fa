package broadphase

import (
	"slices"
	"sort"

	"github.com/san-kum/rigid2d/internal/body"
)

// SAP sorts bodies along one axis by their lower bound and sweeps. The
// sorted order is kept between calls so the insertion sort stays close to
// linear when bodies move little.
type SAP struct {
	Margin float64
	// Axis is 0 for x, 1 for y.
	Axis int

	sorted  []*body.Body
	present map[*body.Body]struct{}
}

func NewSAP() *SAP {
	return &SAP{Margin: DefaultMargin, present: make(map[*body.Body]struct{})}
}

func (s *SAP) Name() string { return "sap" }

func (s *SAP) Pairs(bodies []*body.Body, result []Pair) []Pair {
	s.sync(bodies)
	axis := s.Axis
	margin := s.Margin

	insertionSort(s.sorted, func(a, b *body.Body) bool {
		return a.AABB().Lower[axis] < b.AABB().Lower[axis]
	})

	for i, a := range s.sorted {
		upper := a.AABB().Upper[axis] + margin
		for j := i + 1; j < len(s.sorted); j++ {
			b := s.sorted[j]
			if b.AABB().Lower[axis]-margin > upper {
				break
			}
			if !CanCollide(a, b) {
				continue
			}
			if boundsOverlap(a, b, margin) {
				result = append(result, ordered(a, b, bodies))
			}
		}
	}
	return result
}

// sync keeps the cached order in step with the body list.
func (s *SAP) sync(bodies []*body.Body) {
	if len(s.sorted) == len(bodies) {
		if s.present == nil {
			s.present = make(map[*body.Body]struct{}, len(bodies))
		}
		for _, b := range bodies {
			s.present[b] = struct{}{}
		}
		same := true
		for _, b := range s.sorted {
			if _, ok := s.present[b]; !ok {
				same = false
				break
			}
		}
		clear(s.present)
		if same {
			return
		}
	}
	s.sorted = append(s.sorted[:0], bodies...)
	sort.SliceStable(s.sorted, func(i, j int) bool {
		return s.sorted[i].AABB().Lower[s.Axis] < s.sorted[j].AABB().Lower[s.Axis]
	})
}

// RemoveBody drops b from the cached order.
func (s *SAP) RemoveBody(b *body.Body) {
	s.sorted = slices.DeleteFunc(s.sorted, func(x *body.Body) bool { return x == b })
}

// ordered returns the pair with the body that comes first in bodies as A,
// so both broadphases agree on orientation.
func ordered(a, b *body.Body, bodies []*body.Body) Pair {
	for _, x := range bodies {
		if x == a {
			return Pair{A: a, B: b}
		}
		if x == b {
			return Pair{A: b, B: a}
		}
	}
	return Pair{A: a, B: b}
}

func insertionSort(list []*body.Body, less func(a, b *body.Body) bool) {
	for i := 1; i < len(list); i++ {
		v := list[i]
		j := i - 1
		for j >= 0 && less(v, list[j]) {
			list[j+1] = list[j]
			j--
		}
		list[j+1] = v
	}
}
