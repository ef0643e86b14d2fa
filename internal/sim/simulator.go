package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/rigid2d/internal/world"
)

type Simulator struct {
	metrics   []Metric
	observers []Observer
}

func New() *Simulator {
	return &Simulator{
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run steps w for cfg.Duration and records the pose of every dynamic body
// after each step.
func (s *Simulator) Run(ctx context.Context, w *world.World, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := stepCount(cfg)
	result := &Result{
		States:  make([]State, 0, steps+1),
		Times:   make([]float64, 0, steps+1),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	result.States = append(result.States, Capture(w, nil))
	result.Times = append(result.Times, w.Time())

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		if _, err := w.StepElapsed(cfg.Dt, cfg.Dt, cfg.MaxSubSteps); err != nil {
			return result, err
		}
		result.StepsTaken++

		for _, m := range s.metrics {
			m.Observe(w)
		}
		for _, obs := range s.observers {
			obs.OnStep(w, i)
		}

		x := Capture(w, make(State, 0, 3*len(w.Bodies())))
		if cfg.ValidateState && !x.IsValid() {
			result.Errors = append(result.Errors, SimError{Time: w.Time(), Step: i, Message: "invalid state (NaN/Inf)"})
			break
		}
		result.States = append(result.States, x)
		result.Times = append(result.Times, w.Time())
	}

	result.Stats = w.Stats()
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

// RunWithCallback steps w until the callback returns false or the duration
// runs out. The state handed to the callback is only valid during the call.
func (s *Simulator) RunWithCallback(ctx context.Context, w *world.World, cfg Config, callback func(State, float64) bool) error {
	if err := s.validateConfig(cfg); err != nil {
		return err
	}

	pool := NewStatePool()
	for w.Time() < cfg.Duration {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		x := pool.Capture(w)
		ok := callback(x, w.Time())
		pool.Put(x)
		if !ok {
			return nil
		}

		if _, err := w.StepElapsed(cfg.Dt, cfg.Dt, cfg.MaxSubSteps); err != nil {
			return err
		}
	}

	return nil
}

func (s *Simulator) validateConfig(cfg Config) error {
	if cfg.Dt <= 0 || math.IsNaN(cfg.Dt) || math.IsInf(cfg.Dt, 0) {
		return fmt.Errorf("dt must be positive, got %f: %w", cfg.Dt, world.ErrInvalidConfig)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f: %w", cfg.Duration, world.ErrInvalidConfig)
	}
	if cfg.MaxSubSteps < 0 {
		return fmt.Errorf("max sub steps must not be negative, got %d: %w", cfg.MaxSubSteps, world.ErrInvalidConfig)
	}
	return nil
}

func stepCount(cfg Config) int {
	return int(cfg.Duration/cfg.Dt + 1e-9)
}
