package world

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/san-kum/rigid2d/internal/broadphase"
	"github.com/san-kum/rigid2d/internal/material"
	"github.com/san-kum/rigid2d/internal/narrowphase"
	"github.com/san-kum/rigid2d/internal/solver"
	"github.com/san-kum/rigid2d/internal/vec"
)

type SleepMode int

const (
	NoSleeping SleepMode = iota
	BodySleeping
	IslandSleeping
)

func (m SleepMode) String() string {
	switch m {
	case NoSleeping:
		return "none"
	case BodySleeping:
		return "body"
	case IslandSleeping:
		return "island"
	}
	return "unknown"
}

// ParseSleepMode accepts the names printed by SleepMode.String.
func ParseSleepMode(s string) (SleepMode, error) {
	switch strings.ToLower(s) {
	case "none", "off":
		return NoSleeping, nil
	case "body":
		return BodySleeping, nil
	case "island", "":
		return IslandSleeping, nil
	}
	return 0, fmt.Errorf("sleep mode %q: %w", s, ErrInvalidConfig)
}

const DefaultMaxSubSteps = 10

type Config struct {
	Gravity vec.Vec2

	Iterations int
	Tolerance  float64
	// WarmStart scales last step's impulses when seeding the solver.
	WarmStart float64

	// Default contact material.
	Friction           float64
	Restitution        float64
	Stiffness          float64
	Relaxation         float64
	FrictionStiffness  float64
	FrictionRelaxation float64

	ContactSkinSize float64
	EnableFriction  bool

	SleepMode  SleepMode
	Broadphase broadphase.Broadphase

	// Logger receives debug and warn messages. Nil discards them.
	Logger *log.Logger
}

func DefaultConfig() Config {
	return Config{
		Gravity:            vec.Vec2{0, -9.81},
		Iterations:         solver.DefaultIterations,
		Tolerance:          solver.DefaultTolerance,
		WarmStart:          0.8,
		Friction:           material.DefaultFriction,
		Restitution:        material.DefaultRestitution,
		Stiffness:          material.DefaultStiffness,
		Relaxation:         material.DefaultRelaxation,
		FrictionStiffness:  material.DefaultStiffness,
		FrictionRelaxation: material.DefaultRelaxation,
		ContactSkinSize:    narrowphase.DefaultContactSkinSize,
		EnableFriction:     true,
		SleepMode:          IslandSleeping,
	}
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	switch {
	case !vec.IsFinite(c.Gravity):
		return fmt.Errorf("gravity %v: %w", c.Gravity, ErrInvalidConfig)
	case c.Iterations <= 0:
		return fmt.Errorf("iterations %d: %w", c.Iterations, ErrInvalidConfig)
	case c.Tolerance < 0:
		return fmt.Errorf("tolerance %v: %w", c.Tolerance, ErrInvalidConfig)
	case c.WarmStart < 0 || c.WarmStart > 1:
		return fmt.Errorf("warm start %v: %w", c.WarmStart, ErrInvalidConfig)
	case c.Stiffness <= 0 || c.FrictionStiffness <= 0:
		return fmt.Errorf("stiffness must be positive: %w", ErrInvalidConfig)
	case c.Relaxation <= 0 || c.FrictionRelaxation <= 0:
		return fmt.Errorf("relaxation must be positive: %w", ErrInvalidConfig)
	case c.Friction < 0 || c.Restitution < 0:
		return fmt.Errorf("friction and restitution must be non-negative: %w", ErrInvalidConfig)
	case c.ContactSkinSize < 0:
		return fmt.Errorf("contact skin %v: %w", c.ContactSkinSize, ErrInvalidConfig)
	case c.SleepMode < NoSleeping || c.SleepMode > IslandSleeping:
		return fmt.Errorf("sleep mode %d: %w", c.SleepMode, ErrInvalidConfig)
	}
	return nil
}

func (c Config) contactMaterial() *material.ContactMaterial {
	cm := material.Default()
	cm.Friction = c.Friction
	cm.Restitution = c.Restitution
	cm.Stiffness = c.Stiffness
	cm.Relaxation = c.Relaxation
	cm.FrictionStiffness = c.FrictionStiffness
	cm.FrictionRelaxation = c.FrictionRelaxation
	return cm
}

func (c Config) logger() *log.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return log.New(io.Discard)
}
