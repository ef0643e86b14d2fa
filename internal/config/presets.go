package config

import (
	"fmt"
	"sort"
)

func preset(scene string, dt, duration float64, params map[string]float64, tweak func(*WorldConfig)) *Config {
	cfg := DefaultConfig()
	cfg.Scene = scene
	cfg.Dt = dt
	cfg.Duration = duration
	cfg.Params = params
	if tweak != nil {
		tweak(&cfg.World)
	}
	return cfg
}

var Presets = map[string]map[string]*Config{
	"drop": {
		"bouncy": preset("drop", DefaultDt, 8, map[string]float64{"restitution": 0.8, "height": 6}, nil),
		"heavy":  preset("drop", DefaultDt, 5, map[string]float64{"mass": 50, "radius": 1}, nil),
	},
	"stack": {
		"tall": preset("stack", DefaultDt, 10, map[string]float64{"count": 12}, func(w *WorldConfig) {
			w.Iterations = 20
		}),
		"short": preset("stack", DefaultDt, 5, map[string]float64{"count": 4}, nil),
	},
	"pyramid": {
		"small": preset("pyramid", DefaultDt, 8, map[string]float64{"rows": 5}, nil),
		"large": preset("pyramid", DefaultDt, 15, map[string]float64{"rows": 14}, func(w *WorldConfig) {
			w.Iterations = 25
		}),
	},
	"pendulum": {
		"single": preset("pendulum", 0.005, 20, map[string]float64{"links": 1, "angle": 1.2}, func(w *WorldConfig) {
			w.SleepMode = "none"
		}),
		"chain": preset("pendulum", 0.005, 20, map[string]float64{"links": 6, "angle": 0.8}, func(w *WorldConfig) {
			w.SleepMode = "none"
			w.Iterations = 30
		}),
	},
	"newton": {
		"classic": preset("newton", 0.005, 10, map[string]float64{"balls": 5, "pulled": 1}, func(w *WorldConfig) {
			w.SleepMode = "none"
			w.Friction = 0
		}),
		"double": preset("newton", 0.005, 10, map[string]float64{"balls": 5, "pulled": 2}, func(w *WorldConfig) {
			w.SleepMode = "none"
			w.Friction = 0
		}),
	},
	"springs": {
		"soft": preset("springs", DefaultDt, 15, map[string]float64{"stiffness": 20, "damping": 0.5}, func(w *WorldConfig) {
			w.SleepMode = "body"
		}),
		"stiff": preset("springs", DefaultDt, 15, map[string]float64{"stiffness": 400, "damping": 4}, nil),
	},
	"terrain": {
		"rolling": preset("terrain", DefaultDt, 15, map[string]float64{"hills": 3, "capsules": 6}, nil),
		"flat":    preset("terrain", DefaultDt, 10, map[string]float64{"hills": 0, "capsules": 4}, nil),
	},
	"gears": {
		"slow": preset("gears", DefaultDt, 10, map[string]float64{"ratio": 2, "speed": 1}, func(w *WorldConfig) {
			w.Gravity = [2]float64{0, 0}
			w.SleepMode = "none"
		}),
		"fast": preset("gears", DefaultDt, 10, map[string]float64{"ratio": 0.5, "speed": 4}, func(w *WorldConfig) {
			w.Gravity = [2]float64{0, 0}
			w.SleepMode = "none"
		}),
	},
}

// GetPreset returns a copy of the named preset so callers may change it.
func GetPreset(scene, name string) (*Config, error) {
	presets, ok := Presets[scene]
	if !ok {
		return nil, fmt.Errorf("scene %q: %w", scene, ErrUnknownPreset)
	}
	cfg, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("%s/%s (available: %v): %w", scene, name, ListPresets(scene), ErrUnknownPreset)
	}
	return cfg.Clone(), nil
}

func ListPresets(scene string) []string {
	presets, ok := Presets[scene]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
