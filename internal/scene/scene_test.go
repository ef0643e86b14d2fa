package scene

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/san-kum/rigid2d/internal/config"
	"github.com/san-kum/rigid2d/internal/constraint"
	"github.com/san-kum/rigid2d/internal/vec"
	"github.com/san-kum/rigid2d/internal/world"
)

func build(t *testing.T, name string, params map[string]float64) *world.World {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Scene = name
	cfg.Params = params
	w, err := NewRegistry().Build(cfg, nil)
	if err != nil {
		t.Fatalf("build %s: %v", name, err)
	}
	return w
}

func TestRegistryList(t *testing.T) {
	names := NewRegistry().List()
	expected := []string{"drop", "gears", "newton", "pendulum", "pyramid", "springs", "stack", "terrain"}
	if len(names) != len(expected) {
		t.Fatalf("expected %d scenes, got %v", len(expected), names)
	}
	for i := range expected {
		if names[i] != expected[i] {
			t.Errorf("scene %d: expected %s, got %s", i, expected[i], names[i])
		}
	}
}

func TestUnknownScene(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Scene = "nope"
	if _, err := NewRegistry().Build(cfg, nil); !errors.Is(err, ErrUnknownScene) {
		t.Errorf("expected ErrUnknownScene, got %v", err)
	}
}

func TestRegister(t *testing.T) {
	r := NewRegistry()
	r.Register("empty", func(*world.World, *config.Config, *rand.Rand) error { return nil })
	cfg := config.DefaultConfig()
	cfg.Scene = "empty"
	w, err := r.Build(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(w.Bodies()) != 0 {
		t.Errorf("expected empty world, got %d bodies", len(w.Bodies()))
	}
}

func TestEveryScene(t *testing.T) {
	for _, name := range NewRegistry().List() {
		t.Run(name, func(t *testing.T) {
			w := build(t, name, nil)
			if len(w.Bodies()) == 0 {
				t.Fatal("scene has no bodies")
			}
			for i := 0; i < 120; i++ {
				if err := w.Step(1.0 / 60); err != nil {
					t.Fatalf("step %d: %v", i, err)
				}
			}
			for _, b := range w.Bodies() {
				if !vec.IsFinite(b.Position()) || math.IsNaN(b.Angle()) {
					t.Errorf("body %d diverged: %v %v", b.ID, b.Position(), b.Angle())
				}
			}
		})
	}
}

func TestSceneContents(t *testing.T) {
	tests := []struct {
		name        string
		params      map[string]float64
		bodies      int
		constraints int
		springs     int
	}{
		{"drop", nil, 3, 0, 0},
		{"stack", map[string]float64{"count": 4}, 5, 0, 0},
		{"pyramid", map[string]float64{"rows": 3}, 7, 0, 0},
		{"pendulum", map[string]float64{"links": 4}, 5, 4, 0},
		{"newton", map[string]float64{"balls": 3}, 4, 3, 0},
		{"springs", nil, 6, 0, 4},
		{"terrain", map[string]float64{"capsules": 2}, 5, 0, 0},
		{"gears", nil, 5, 5, 0},
	}

	for _, tt := range tests {
		w := build(t, tt.name, tt.params)
		if got := len(w.Bodies()); got != tt.bodies {
			t.Errorf("%s: expected %d bodies, got %d", tt.name, tt.bodies, got)
		}
		if got := len(w.Constraints()); got != tt.constraints {
			t.Errorf("%s: expected %d constraints, got %d", tt.name, tt.constraints, got)
		}
		if got := len(w.Springs()); got != tt.springs {
			t.Errorf("%s: expected %d springs, got %d", tt.name, tt.springs, got)
		}
	}
}

func TestSeedReproducesScene(t *testing.T) {
	positions := func(seed int64) []vec.Vec2 {
		cfg := config.DefaultConfig()
		cfg.Scene = "stack"
		cfg.Seed = seed
		w, err := NewRegistry().Build(cfg, nil)
		if err != nil {
			t.Fatal(err)
		}
		var out []vec.Vec2
		for _, b := range w.Bodies() {
			out = append(out, b.Position())
		}
		return out
	}

	a, b, c := positions(7), positions(7), positions(8)
	same, differs := true, false
	for i := range a {
		if a[i] != b[i] {
			same = false
		}
		if a[i] != c[i] {
			differs = true
		}
	}
	if !same {
		t.Error("same seed should give the same scene")
	}
	if !differs {
		t.Error("different seeds should jitter the stack differently")
	}
}

func TestPendulumKeepsLinkLength(t *testing.T) {
	w := build(t, "pendulum", map[string]float64{"links": 1, "length": 2})
	for i := 0; i < 300; i++ {
		if err := w.Step(1.0 / 120); err != nil {
			t.Fatal(err)
		}
	}
	bodies := w.Bodies()
	d := vec.Dist(bodies[0].Position(), bodies[1].Position())
	if math.Abs(d-2) > 0.02 {
		t.Errorf("expected link length 2, got %v", d)
	}
}

func TestGearsDriveWheels(t *testing.T) {
	w := build(t, "gears", map[string]float64{"speed": 2})
	for i := 0; i < 120; i++ {
		if err := w.Step(1.0 / 60); err != nil {
			t.Fatal(err)
		}
	}

	var gear *constraint.Gear
	for _, c := range w.Constraints() {
		if g, ok := c.(*constraint.Gear); ok {
			gear = g
		}
	}
	if gear == nil {
		t.Fatal("gear constraint missing")
	}
	if math.Abs(gear.BodyA.AngularVelocity()) < 0.5 {
		t.Errorf("motor should spin the driver, got %v", gear.BodyA.AngularVelocity())
	}
	if math.Abs(gear.BodyB.AngularVelocity()) < 0.1 {
		t.Errorf("gear should spin the driven wheel, got %v", gear.BodyB.AngularVelocity())
	}
}

func TestDropComesToRest(t *testing.T) {
	w := build(t, "drop", nil)
	for i := 0; i < 600; i++ {
		if err := w.Step(1.0 / 60); err != nil {
			t.Fatal(err)
		}
	}
	ball := w.Bodies()[1]
	if math.Abs(ball.Position()[1]-0.5) > 0.02 {
		t.Errorf("ball should rest on the ground, y=%v", ball.Position()[1])
	}
}
