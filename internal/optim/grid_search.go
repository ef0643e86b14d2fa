// Package optim searches scene parameter grids for the run that minimizes
// a metric.
package optim

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"math"
	"strconv"
	"strings"

	"github.com/san-kum/rigid2d/internal/sim"
)

var ErrNoResult = errors.New("optim: no successful evaluation")

// Evaluate runs one grid point.
type Evaluate func(ctx context.Context, params map[string]float64) (*sim.Result, error)

// Point is one evaluated grid point.
type Point struct {
	Params map[string]float64
	Value  float64
	Err    error
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("%d params with %d ranges", len(params), len(ranges))
	}
	for i, r := range ranges {
		if len(r) == 0 {
			return nil, fmt.Errorf("param %s: empty range", params[i])
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Size is the number of grid points.
func (g *GridSearch) Size() int {
	n := 1
	for _, r := range g.ranges {
		n *= len(r)
	}
	return n
}

// Search evaluates every grid point and returns the parameters with the
// lowest metricName value. Points whose evaluation fails or whose metric is
// missing or NaN are recorded in points and skipped.
func (g *GridSearch) Search(ctx context.Context, eval Evaluate, metricName string) (best map[string]float64, bestVal float64, points []Point, err error) {
	bestVal = math.Inf(1)
	points = make([]Point, 0, g.Size())

	err = g.searchRecursive(ctx, 0, map[string]float64{}, func(params map[string]float64) {
		p := Point{Params: params, Value: math.NaN()}
		result, err := eval(ctx, params)
		switch {
		case err != nil:
			p.Err = err
		default:
			v, ok := result.Metrics[metricName]
			if !ok {
				p.Err = fmt.Errorf("metric %s not recorded", metricName)
				break
			}
			p.Value = v
			if v < bestVal {
				bestVal = v
				best = maps.Clone(params)
			}
		}
		points = append(points, p)
	})
	if err != nil {
		return nil, 0, points, err
	}
	if best == nil {
		return nil, 0, points, ErrNoResult
	}
	return best, bestVal, points, nil
}

func (g *GridSearch) searchRecursive(ctx context.Context, depth int, current map[string]float64, visit func(map[string]float64)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if depth == len(g.paramNames) {
		visit(current)
		return nil
	}

	name := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		next := maps.Clone(current)
		next[name] = val
		if err := g.searchRecursive(ctx, depth+1, next, visit); err != nil {
			return err
		}
	}
	return nil
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	return out
}

// ParseRange reads "lo:hi:n" or a single value.
func ParseRange(s string) ([]float64, error) {
	parts := strings.Split(s, ":")
	switch len(parts) {
	case 1:
		v, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return nil, fmt.Errorf("range %q: %w", s, err)
		}
		return []float64{v}, nil
	case 3:
		lo, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return nil, fmt.Errorf("range %q: %w", s, err)
		}
		hi, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return nil, fmt.Errorf("range %q: %w", s, err)
		}
		n, err := strconv.Atoi(parts[2])
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("range %q: count must be a positive integer", s)
		}
		return Linspace(lo, hi, n), nil
	}
	return nil, fmt.Errorf("range %q: want lo:hi:n", s)
}
