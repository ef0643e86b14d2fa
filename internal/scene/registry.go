// Package scene builds named demo worlds from a config.
package scene

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/san-kum/rigid2d/internal/config"
	"github.com/san-kum/rigid2d/internal/world"
)

var ErrUnknownScene = errors.New("scene: unknown scene")

// Builder populates an empty world. Randomness must come from rng so a seed
// reproduces the scene.
type Builder func(w *world.World, cfg *config.Config, rng *rand.Rand) error

type Registry struct {
	scenes map[string]Builder
}

func NewRegistry() *Registry {
	r := &Registry{scenes: make(map[string]Builder)}

	r.scenes["drop"] = buildDrop
	r.scenes["stack"] = buildStack
	r.scenes["pyramid"] = buildPyramid
	r.scenes["pendulum"] = buildPendulum
	r.scenes["newton"] = buildNewton
	r.scenes["springs"] = buildSprings
	r.scenes["terrain"] = buildTerrain
	r.scenes["gears"] = buildGears

	return r
}

func (r *Registry) Register(name string, b Builder) {
	r.scenes[name] = b
}

func (r *Registry) Get(name string) (Builder, error) {
	b, ok := r.scenes[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownScene)
	}
	return b, nil
}

func (r *Registry) List() []string {
	names := make([]string, 0, len(r.scenes))
	for name := range r.scenes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build creates a world from cfg and fills it with cfg.Scene.
func (r *Registry) Build(cfg *config.Config, logger *log.Logger) (*world.World, error) {
	b, err := r.Get(cfg.Scene)
	if err != nil {
		return nil, err
	}
	wc, err := cfg.ToWorld()
	if err != nil {
		return nil, err
	}
	wc.Logger = logger

	w, err := world.New(wc)
	if err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(cfg.Seed))
	if err := b(w, cfg, rng); err != nil {
		return nil, fmt.Errorf("build %s: %w", cfg.Scene, err)
	}
	w.Logger().Debug("scene built", "scene", cfg.Scene, "bodies", len(w.Bodies()),
		"constraints", len(w.Constraints()), "springs", len(w.Springs()))
	return w, nil
}
