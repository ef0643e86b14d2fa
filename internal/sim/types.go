package sim

import (
	"fmt"
	"math"

	"github.com/san-kum/rigid2d/internal/world"
)

const (
	DefaultDt       = 1.0 / 60.0
	DefaultDuration = 10.0
)

// State is the flattened pose of the dynamic bodies of a world: x, y and
// angle for each body in world order.
type State []float64

// Capture appends the pose of every dynamic body in w to dst.
func Capture(w *world.World, dst State) State {
	for _, b := range w.Bodies() {
		if !b.IsDynamic() {
			continue
		}
		p := b.Position()
		dst = append(dst, p[0], p[1], b.Angle())
	}
	return dst
}

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	var sum float64
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// Bodies is the number of bodies the state describes.
func (s State) Bodies() int { return len(s) / 3 }

// Pose returns x, y and angle of the i-th recorded body.
func (s State) Pose(i int) (x, y, angle float64) {
	return s[3*i], s[3*i+1], s[3*i+2]
}

type Metric interface {
	Name() string
	// Observe is called after every step.
	Observe(w *world.World)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(w *world.World, step int)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(w *world.World, step int)

func (f ObserverFunc) OnStep(w *world.World, step int) { f(w, step) }

type Config struct {
	Dt       float64
	Duration float64
	// MaxSubSteps caps substeps per frame; 0 uses world.DefaultMaxSubSteps.
	MaxSubSteps   int
	Seed          int64
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            DefaultDt,
		Duration:      DefaultDuration,
		MaxSubSteps:   world.DefaultMaxSubSteps,
		ValidateState: true,
	}
}

type Result struct {
	States     []State
	Times      []float64
	Metrics    map[string]float64
	Stats      world.Stats
	StepsTaken int
	Errors     []error
}

type SimError struct {
	Time    float64
	Step    int
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %s", e.Step, e.Time, e.Message)
}
