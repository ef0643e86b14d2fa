package broadphase

import "github.com/san-kum/rigid2d/internal/body"

// Naive tests every pair. Fine for a few dozen bodies.
type Naive struct {
	Margin float64
}

func NewNaive() *Naive {
	return &Naive{Margin: DefaultMargin}
}

func (n *Naive) Name() string { return "naive" }

func (n *Naive) RemoveBody(*body.Body) {}

func (n *Naive) Pairs(bodies []*body.Body, result []Pair) []Pair {
	for i := 0; i < len(bodies); i++ {
		a := bodies[i]
		for j := i + 1; j < len(bodies); j++ {
			b := bodies[j]
			if !CanCollide(a, b) {
				continue
			}
			if boundsOverlap(a, b, n.Margin) {
				result = append(result, Pair{A: a, B: b})
			}
		}
	}
	return result
}
