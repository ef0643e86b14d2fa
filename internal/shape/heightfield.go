package shape

import (
	"fmt"
	"math"

	"github.com/san-kum/rigid2d/internal/vec"
)

// Heightfield samples terrain heights at ElementWidth spacing starting at
// the shape origin. Everything below the sampled surface is solid.
type Heightfield struct {
	Base
	Heights      []float64
	ElementWidth float64
	MinValue     float64
	MaxValue     float64
}

// heightfieldDepth is how far below the lowest sample each tile extends.
const heightfieldDepth = 10.0

func NewHeightfield(heights []float64, elementWidth float64) (*Heightfield, error) {
	if len(heights) < 2 {
		return nil, fmt.Errorf("heightfield with %d samples: %w", len(heights), ErrInvalidGeometry)
	}
	if !(elementWidth > 0) || !vec.Finite(elementWidth) {
		return nil, fmt.Errorf("heightfield element width %v: %w", elementWidth, ErrInvalidGeometry)
	}
	h := make([]float64, len(heights))
	copy(h, heights)
	minV, maxV := math.Inf(1), math.Inf(-1)
	for _, v := range h {
		if !vec.Finite(v) {
			return nil, fmt.Errorf("heightfield sample %v: %w", v, ErrInvalidGeometry)
		}
		minV = math.Min(minV, v)
		maxV = math.Max(maxV, v)
	}
	return &Heightfield{
		Base:         newBase(),
		Heights:      h,
		ElementWidth: elementWidth,
		MinValue:     minV,
		MaxValue:     maxV,
	}, nil
}

func (h *Heightfield) Kind() Kind                       { return KindHeightfield }
func (h *Heightfield) MomentOfInertia(float64) float64 { return 0 }

func (h *Heightfield) Width() float64 {
	return float64(len(h.Heights)-1) * h.ElementWidth
}

func (h *Heightfield) Bottom() float64 { return h.MinValue - heightfieldDepth }

func (h *Heightfield) LocalAABB() vec.AABB {
	return vec.AABB{Lower: vec.New(0, h.Bottom()), Upper: vec.New(h.Width(), h.MaxValue)}
}

// HeightAt interpolates the surface at local x. ok is false outside the
// sampled range.
func (h *Heightfield) HeightAt(x float64) (float64, bool) {
	if x < 0 || x > h.Width() {
		return 0, false
	}
	i := int(x / h.ElementWidth)
	if i >= len(h.Heights)-1 {
		i = len(h.Heights) - 2
	}
	t := (x - float64(i)*h.ElementWidth) / h.ElementWidth
	return h.Heights[i]*(1-t) + h.Heights[i+1]*t, true
}

// Tile returns the quad under segment i, counter-clockwise.
func (h *Heightfield) Tile(i int) [4]vec.Vec2 {
	x0 := float64(i) * h.ElementWidth
	x1 := x0 + h.ElementWidth
	bottom := h.Bottom()
	return [4]vec.Vec2{
		vec.New(x0, bottom),
		vec.New(x1, bottom),
		vec.New(x1, h.Heights[i+1]),
		vec.New(x0, h.Heights[i]),
	}
}

// TileRange returns the tiles overlapping [minX, maxX], clamped.
func (h *Heightfield) TileRange(minX, maxX float64) (int, int) {
	lo := int(math.Floor(minX / h.ElementWidth))
	hi := int(math.Ceil(maxX / h.ElementWidth))
	if lo < 0 {
		lo = 0
	}
	if hi > len(h.Heights)-1 {
		hi = len(h.Heights) - 1
	}
	return lo, hi
}

func (h *Heightfield) ContainsPoint(p vec.Vec2, precision float64) bool {
	y, ok := h.HeightAt(p[0])
	return ok && p[1] <= y+precision && p[1] >= h.Bottom()-precision
}

func (h *Heightfield) Area() float64 {
	var a float64
	for i := 0; i < len(h.Heights)-1; i++ {
		a += h.ElementWidth * ((h.Heights[i]+h.Heights[i+1])/2 - h.Bottom())
	}
	return a
}
