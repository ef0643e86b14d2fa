package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/rigid2d/internal/world"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Scene != "drop" {
		t.Errorf("expected scene drop, got %s", cfg.Scene)
	}
	if cfg.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if cfg.Duration <= 0 {
		t.Error("duration should be positive")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestToWorld(t *testing.T) {
	cfg := DefaultConfig()
	cfg.World.Gravity = [2]float64{1, -2}
	cfg.World.Iterations = 7
	cfg.World.SleepMode = "body"
	cfg.World.Broadphase = "naive"

	wc, err := cfg.ToWorld()
	if err != nil {
		t.Fatal(err)
	}
	if wc.Gravity[0] != 1 || wc.Gravity[1] != -2 {
		t.Errorf("gravity not copied: %v", wc.Gravity)
	}
	if wc.Iterations != 7 {
		t.Errorf("expected 7 iterations, got %d", wc.Iterations)
	}
	if wc.SleepMode != world.BodySleeping {
		t.Errorf("expected body sleeping, got %v", wc.SleepMode)
	}
	if wc.Broadphase == nil || wc.Broadphase.Name() != "naive" {
		t.Errorf("expected naive broadphase, got %v", wc.Broadphase)
	}
	if _, err := world.New(wc); err != nil {
		t.Errorf("world rejected converted config: %v", err)
	}
}

func TestToWorldInvalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"sleep mode", func(c *Config) { c.World.SleepMode = "sometimes" }},
		{"broadphase", func(c *Config) { c.World.Broadphase = "quadtree" }},
		{"iterations", func(c *Config) { c.World.Iterations = 0 }},
		{"warm start", func(c *Config) { c.World.WarmStart = 2 }},
	}

	for _, tt := range tests {
		cfg := DefaultConfig()
		tt.mutate(cfg)
		if _, err := cfg.ToWorld(); !errors.Is(err, world.ErrInvalidConfig) {
			t.Errorf("%s: expected ErrInvalidConfig, got %v", tt.name, err)
		}
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Dt = 0
	if err := cfg.Validate(); !errors.Is(err, world.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig for zero dt, got %v", err)
	}

	cfg = DefaultConfig()
	cfg.MaxSubSteps = -1
	if err := cfg.Validate(); !errors.Is(err, world.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig for negative sub steps, got %v", err)
	}
}

func TestLoadPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	data := []byte("scene: pyramid\nworld:\n  iterations: 20\nparams:\n  rows: 6\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Scene != "pyramid" {
		t.Errorf("expected scene pyramid, got %s", cfg.Scene)
	}
	if cfg.World.Iterations != 20 {
		t.Errorf("expected 20 iterations, got %d", cfg.World.Iterations)
	}
	if cfg.Dt != DefaultDt {
		t.Errorf("unset dt should keep default, got %v", cfg.Dt)
	}
	if cfg.Param("rows", 0) != 6 {
		t.Errorf("expected rows param 6, got %v", cfg.Param("rows", 0))
	}
	if cfg.Param("missing", 3) != 3 {
		t.Error("missing param should return default")
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	cfg, err := GetPreset("newton", "classic")
	if err != nil {
		t.Fatal(err)
	}
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Scene != "newton" || loaded.World.Friction != 0 || loaded.World.SleepMode != "none" {
		t.Errorf("round trip lost fields: %+v", loaded)
	}
	if loaded.Param("balls", 0) != 5 {
		t.Errorf("expected 5 balls, got %v", loaded.Param("balls", 0))
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestGetPreset(t *testing.T) {
	cfg, err := GetPreset("pendulum", "chain")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Param("links", 0) != 6 {
		t.Errorf("expected 6 links, got %v", cfg.Param("links", 0))
	}

	cfg.Params["links"] = 1
	again, _ := GetPreset("pendulum", "chain")
	if again.Param("links", 0) != 6 {
		t.Error("GetPreset should return a copy")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if _, err := GetPreset("pendulum", "nonexistent"); !errors.Is(err, ErrUnknownPreset) {
		t.Errorf("expected ErrUnknownPreset, got %v", err)
	}
	if _, err := GetPreset("nonexistent", "single"); !errors.Is(err, ErrUnknownPreset) {
		t.Errorf("expected ErrUnknownPreset, got %v", err)
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets("pendulum")
	if len(presets) != 2 || presets[0] != "chain" {
		t.Errorf("expected sorted pendulum presets, got %v", presets)
	}

	if ListPresets("nonexistent") != nil {
		t.Error("expected nil for nonexistent scene")
	}
}

func TestPresetsValidate(t *testing.T) {
	for scene, presets := range Presets {
		for name, cfg := range presets {
			if cfg.Scene != scene {
				t.Errorf("%s/%s: scene field is %s", scene, name, cfg.Scene)
			}
			if err := cfg.Validate(); err != nil {
				t.Errorf("%s/%s: %v", scene, name, err)
			}
		}
	}
}
