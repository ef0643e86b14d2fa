package config

import (
	"errors"
	"fmt"
	"maps"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/rigid2d/internal/broadphase"
	"github.com/san-kum/rigid2d/internal/vec"
	"github.com/san-kum/rigid2d/internal/world"
)

const (
	DefaultScene       = "drop"
	DefaultDt          = 1.0 / 60.0
	DefaultDuration    = 10.0
	DefaultMaxSubSteps = world.DefaultMaxSubSteps
)

var ErrUnknownPreset = errors.New("config: unknown preset")

type Config struct {
	Scene       string             `yaml:"scene"`
	Dt          float64            `yaml:"dt"`
	Duration    float64            `yaml:"duration"`
	MaxSubSteps int                `yaml:"max_sub_steps"`
	Seed        int64              `yaml:"seed"`
	World       WorldConfig        `yaml:"world"`
	Params      map[string]float64 `yaml:"params,omitempty"`
}

type WorldConfig struct {
	Gravity            [2]float64 `yaml:"gravity"`
	Iterations         int        `yaml:"iterations"`
	Tolerance          float64    `yaml:"tolerance"`
	WarmStart          float64    `yaml:"warm_start"`
	Stiffness          float64    `yaml:"stiffness"`
	Relaxation         float64    `yaml:"relaxation"`
	FrictionStiffness  float64    `yaml:"friction_stiffness"`
	FrictionRelaxation float64    `yaml:"friction_relaxation"`
	Friction           float64    `yaml:"friction"`
	Restitution        float64    `yaml:"restitution"`
	SleepMode          string     `yaml:"sleep_mode"`
	Broadphase         string     `yaml:"broadphase"`
}

func DefaultConfig() *Config {
	wc := world.DefaultConfig()
	return &Config{
		Scene:       DefaultScene,
		Dt:          DefaultDt,
		Duration:    DefaultDuration,
		MaxSubSteps: DefaultMaxSubSteps,
		World: WorldConfig{
			Gravity:            [2]float64{wc.Gravity[0], wc.Gravity[1]},
			Iterations:         wc.Iterations,
			Tolerance:          wc.Tolerance,
			WarmStart:          wc.WarmStart,
			Stiffness:          wc.Stiffness,
			Relaxation:         wc.Relaxation,
			FrictionStiffness:  wc.FrictionStiffness,
			FrictionRelaxation: wc.FrictionRelaxation,
			Friction:           wc.Friction,
			Restitution:        wc.Restitution,
			SleepMode:          wc.SleepMode.String(),
			Broadphase:         "sap",
		},
	}
}

// Load reads a yaml file on top of the defaults, so a file only needs the
// fields it changes.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Params = maps.Clone(c.Params)
	return &out
}

// Param returns the named scene parameter or def when it is not set.
func (c *Config) Param(name string, def float64) float64 {
	if v, ok := c.Params[name]; ok {
		return v
	}
	return def
}

func (c *Config) Validate() error {
	switch {
	case c.Dt <= 0 || !vec.Finite(c.Dt):
		return fmt.Errorf("dt %v: %w", c.Dt, world.ErrInvalidConfig)
	case c.Duration < 0 || !vec.Finite(c.Duration):
		return fmt.Errorf("duration %v: %w", c.Duration, world.ErrInvalidConfig)
	case c.MaxSubSteps < 0:
		return fmt.Errorf("max sub steps %d: %w", c.MaxSubSteps, world.ErrInvalidConfig)
	}
	_, err := c.ToWorld()
	return err
}

// ToWorld builds the engine configuration. The logger is left for the
// caller to set.
func (c *Config) ToWorld() (world.Config, error) {
	wc := world.DefaultConfig()
	mode, err := world.ParseSleepMode(c.World.SleepMode)
	if err != nil {
		return wc, err
	}
	bp, err := NewBroadphase(c.World.Broadphase)
	if err != nil {
		return wc, err
	}

	wc.Gravity = vec.New(c.World.Gravity[0], c.World.Gravity[1])
	wc.Iterations = c.World.Iterations
	wc.Tolerance = c.World.Tolerance
	wc.WarmStart = c.World.WarmStart
	wc.Stiffness = c.World.Stiffness
	wc.Relaxation = c.World.Relaxation
	wc.FrictionStiffness = c.World.FrictionStiffness
	wc.FrictionRelaxation = c.World.FrictionRelaxation
	wc.Friction = c.World.Friction
	wc.Restitution = c.World.Restitution
	wc.SleepMode = mode
	wc.Broadphase = bp
	if err := wc.Validate(); err != nil {
		return wc, err
	}
	return wc, nil
}

// NewBroadphase maps a broadphase name to a fresh instance. The empty name
// selects sort and sweep.
func NewBroadphase(name string) (broadphase.Broadphase, error) {
	switch name {
	case "", "sap":
		return broadphase.NewSAP(), nil
	case "naive":
		return broadphase.NewNaive(), nil
	}
	return nil, fmt.Errorf("broadphase %q: %w", name, world.ErrInvalidConfig)
}
