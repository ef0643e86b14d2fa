// Package material pairs surface materials with contact parameters.
package material

import "sync/atomic"

const (
	DefaultFriction    = 0.3
	DefaultRestitution = 0.0
	DefaultStiffness   = 1e6
	DefaultRelaxation  = 4.0
)

// Material is an id shared by shapes with the same surface. Shapes with
// MaterialID 0 use the table default.
type Material struct {
	ID   int
	Name string
}

var materialIDs atomic.Int64

func New(name string) *Material {
	return &Material{ID: int(materialIDs.Add(1)), Name: name}
}

// ContactMaterial holds the parameters used when two materials touch.
type ContactMaterial struct {
	MaterialA int
	MaterialB int

	Friction           float64
	Restitution        float64
	Stiffness          float64
	Relaxation         float64
	FrictionStiffness  float64
	FrictionRelaxation float64
	// SurfaceVelocity drives the friction rows, like a conveyor belt.
	SurfaceVelocity float64
}

func NewContactMaterial(a, b *Material) *ContactMaterial {
	cm := Default()
	if a != nil {
		cm.MaterialA = a.ID
	}
	if b != nil {
		cm.MaterialB = b.ID
	}
	return cm
}

func Default() *ContactMaterial {
	return &ContactMaterial{
		Friction:           DefaultFriction,
		Restitution:        DefaultRestitution,
		Stiffness:          DefaultStiffness,
		Relaxation:         DefaultRelaxation,
		FrictionStiffness:  DefaultStiffness,
		FrictionRelaxation: DefaultRelaxation,
	}
}

type pairKey struct{ a, b int }

func makeKey(a, b int) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{a, b}
}

// Table looks up contact materials by unordered material pair.
type Table struct {
	Default *ContactMaterial
	pairs   map[pairKey]*ContactMaterial
}

func NewTable() *Table {
	return &Table{Default: Default(), pairs: make(map[pairKey]*ContactMaterial)}
}

// Add registers cm, replacing any previous entry for the same pair.
func (t *Table) Add(cm *ContactMaterial) {
	t.pairs[makeKey(cm.MaterialA, cm.MaterialB)] = cm
}

func (t *Table) Remove(a, b int) {
	delete(t.pairs, makeKey(a, b))
}

// Lookup returns the contact material for the pair or the default.
func (t *Table) Lookup(a, b int) *ContactMaterial {
	if cm, ok := t.pairs[makeKey(a, b)]; ok {
		return cm
	}
	return t.Default
}

func (t *Table) Len() int { return len(t.pairs) }
