package solver

import (
	"math"

	"github.com/san-kum/rigid2d/internal/body"
	"github.com/san-kum/rigid2d/internal/equation"
)

const (
	DefaultIterations = 10
	DefaultTolerance  = 1e-7
)

// GS is a projected Gauss-Seidel solver on SPOOK-stabilized equations.
// Equations are processed in the order they were added, so two runs on the
// same input give the same result.
type GS struct {
	Iterations int
	// Tolerance on the summed |delta lambda| per iteration, scaled by the
	// number of equations.
	Tolerance float64
	// WarmStart scales the previous force used as the initial guess.
	WarmStart float64

	equations []equation.Equation

	lambda []float64
	bs     []float64
	invCs  []float64

	// UsedIterations from the last Solve.
	UsedIterations int
}

func NewGS() *GS {
	return &GS{
		Iterations: DefaultIterations,
		Tolerance:  DefaultTolerance,
		WarmStart:  0.8,
	}
}

func (s *GS) AddEquation(eq equation.Equation) {
	if eq.Eq().Enabled {
		s.equations = append(s.equations, eq)
	}
}

func (s *GS) AddEquations(eqs ...equation.Equation) {
	for _, eq := range eqs {
		s.AddEquation(eq)
	}
}

func (s *GS) RemoveAllEquations() {
	for i := range s.equations {
		s.equations[i] = nil
	}
	s.equations = s.equations[:0]
}

func (s *GS) Equations() []equation.Equation { return s.equations }

// Solve runs the iterations and leaves the velocity deltas on the bodies.
// Equations with a non-finite row are skipped for this step and their
// count is returned.
func (s *GS) Solve(h float64, bodies []*body.Body) (skipped int) {
	for _, b := range bodies {
		b.VLambda[0], b.VLambda[1], b.WLambda = 0, 0, 0
		b.UpdateSolveMassProperties()
	}
	s.UsedIterations = 0

	n := len(s.equations)
	if n == 0 {
		return 0
	}
	s.grow(n)

	for j, eq := range s.equations {
		e := eq.Eq()
		e.Prepare(h)
		s.lambda[j] = 0
		if !e.Valid() {
			s.invCs[j] = 0
			skipped++
			continue
		}
		B := eq.ComputeB(e.A(), e.B(), h)
		invC := e.ComputeInvC(e.Epsilon())
		if math.IsNaN(B) || math.IsInf(B, 0) {
			B, invC = 0, 0
			skipped++
		}
		s.bs[j] = B
		s.invCs[j] = invC
	}

	if s.WarmStart > 0 {
		for j, eq := range s.equations {
			e := eq.Eq()
			if s.invCs[j] == 0 || e.WarmForce == 0 {
				continue
			}
			warm := clamp(e.WarmForce*h*s.WarmStart, e.MinForce*h, e.MaxForce*h)
			s.lambda[j] = warm
			e.AddToWlambda(warm)
		}
	}

	tolSq := s.Tolerance * s.Tolerance * float64(n) * float64(n)
	for iter := 0; iter < s.Iterations; iter++ {
		s.UsedIterations = iter + 1
		var total float64
		for j, eq := range s.equations {
			if s.invCs[j] == 0 {
				continue
			}
			total += math.Abs(s.iterate(j, eq.Eq(), h))
		}
		if total*total <= tolSq {
			break
		}
	}

	for j, eq := range s.equations {
		eq.Eq().Multiplier = s.lambda[j] / h
	}
	for _, b := range bodies {
		b.AddConstraintVelocity()
	}
	return skipped
}

func (s *GS) iterate(j int, e *equation.Base, h float64) float64 {
	lambdaj := s.lambda[j]
	delta := s.invCs[j] * (s.bs[j] - e.ComputeGWlambda() - e.Epsilon()*lambdaj)

	next := lambdaj + delta
	if lo := e.MinForce * h; next < lo {
		delta = lo - lambdaj
	} else if hi := e.MaxForce * h; next > hi {
		delta = hi - lambdaj
	}
	s.lambda[j] += delta
	e.AddToWlambda(delta)
	return delta
}

func (s *GS) grow(n int) {
	if cap(s.lambda) < n {
		s.lambda = make([]float64, n)
		s.bs = make([]float64, n)
		s.invCs = make([]float64, n)
	}
	s.lambda = s.lambda[:n]
	s.bs = s.bs[:n]
	s.invCs = s.invCs[:n]
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
