// Package automation runs scripted sequences of scene simulations described
// in YAML.
package automation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"

	"github.com/charmbracelet/log"
	"github.com/san-kum/rigid2d/internal/config"
	"github.com/san-kum/rigid2d/internal/metrics"
	"github.com/san-kum/rigid2d/internal/scene"
	"github.com/san-kum/rigid2d/internal/sim"
	"github.com/san-kum/rigid2d/internal/storage"
	"gopkg.in/yaml.v3"
)

var ErrEmptyScenario = errors.New("automation: scenario has no steps")

// Scenario defines a scripted simulation sequence
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is one run. Zero fields keep the preset or default value.
type ScenarioStep struct {
	Scene    string             `yaml:"scene"`
	Preset   string             `yaml:"preset"`
	Duration float64            `yaml:"duration"`
	Dt       float64            `yaml:"dt"`
	Seed     int64              `yaml:"seed"`
	Params   map[string]float64 `yaml:"params"`
	SaveAs   string             `yaml:"save_as"`
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s: %w", path, ErrEmptyScenario)
	}
	return &scenario, nil
}

// Config resolves the step against its preset and the defaults.
func (s ScenarioStep) Config() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if s.Preset != "" {
		p, err := config.GetPreset(s.Scene, s.Preset)
		if err != nil {
			return nil, err
		}
		cfg = p
	}
	cfg.Scene = s.Scene
	if s.Dt > 0 {
		cfg.Dt = s.Dt
	}
	if s.Duration > 0 {
		cfg.Duration = s.Duration
	}
	if s.Seed != 0 {
		cfg.Seed = s.Seed
	}
	if len(s.Params) > 0 {
		if cfg.Params == nil {
			cfg.Params = map[string]float64{}
		}
		maps.Copy(cfg.Params, s.Params)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// label is the name a stored run is filed under.
func (s ScenarioStep) label() string {
	if s.SaveAs != "" {
		return s.SaveAs
	}
	return s.Preset
}

type StepResult struct {
	Step   int
	Scene  string
	RunID  string
	Result *sim.Result
}

// Runner executes scenarios. Store may be nil, in which case results are
// only returned.
type Runner struct {
	Registry *scene.Registry
	Store    *storage.Store
	Logger   *log.Logger
}

// RunScenario executes all steps in order and stops at the first failure,
// returning the steps completed so far.
func (r *Runner) RunScenario(ctx context.Context, scenario *Scenario) ([]StepResult, error) {
	logger := r.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		logger.Info("running step", "scenario", scenario.Name, "step", i+1, "of", len(scenario.Steps), "scene", step.Scene)

		cfg, err := step.Config()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		w, err := r.Registry.Build(cfg, r.Logger)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		s := sim.New()
		for _, m := range metrics.Default() {
			s.AddMetric(m)
		}
		result, err := s.Run(ctx, w, sim.Config{
			Dt:            cfg.Dt,
			Duration:      cfg.Duration,
			MaxSubSteps:   cfg.MaxSubSteps,
			Seed:          cfg.Seed,
			ValidateState: true,
		})
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		sr := StepResult{Step: i + 1, Scene: step.Scene, Result: result}
		if r.Store != nil {
			id, err := r.Store.Save(cfg, step.label(), result)
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
			sr.RunID = id
		}
		results = append(results, sr)
	}

	return results, nil
}
