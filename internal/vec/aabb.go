package vec

import "math"

type AABB struct {
	Lower Vec2
	Upper Vec2
}

func EmptyAABB() AABB {
	inf := math.Inf(1)
	return AABB{Lower: Vec2{inf, inf}, Upper: Vec2{-inf, -inf}}
}

func (a AABB) Overlaps(b AABB) bool {
	return a.Lower[0] <= b.Upper[0] && b.Lower[0] <= a.Upper[0] &&
		a.Lower[1] <= b.Upper[1] && b.Lower[1] <= a.Upper[1]
}

func (a AABB) Contains(p Vec2) bool {
	return p[0] >= a.Lower[0] && p[0] <= a.Upper[0] &&
		p[1] >= a.Lower[1] && p[1] <= a.Upper[1]
}

func (a AABB) Extend(b AABB) AABB {
	return AABB{
		Lower: Vec2{math.Min(a.Lower[0], b.Lower[0]), math.Min(a.Lower[1], b.Lower[1])},
		Upper: Vec2{math.Max(a.Upper[0], b.Upper[0]), math.Max(a.Upper[1], b.Upper[1])},
	}
}

func (a AABB) Grow(margin float64) AABB {
	return AABB{
		Lower: Vec2{a.Lower[0] - margin, a.Lower[1] - margin},
		Upper: Vec2{a.Upper[0] + margin, a.Upper[1] + margin},
	}
}

// Transform maps a local box by a rigid transform and returns the box
// bounding the rotated corners.
func (a AABB) Transform(pos Vec2, angle float64) AABB {
	corners := [4]Vec2{
		a.Lower,
		{a.Upper[0], a.Lower[1]},
		a.Upper,
		{a.Lower[0], a.Upper[1]},
	}
	out := EmptyAABB()
	for _, c := range corners {
		out = out.AddPoint(ToGlobalFrame(c, pos, angle))
	}
	return out
}

func (a AABB) AddPoint(p Vec2) AABB {
	return AABB{
		Lower: Vec2{math.Min(a.Lower[0], p[0]), math.Min(a.Lower[1], p[1])},
		Upper: Vec2{math.Max(a.Upper[0], p[0]), math.Max(a.Upper[1], p[1])},
	}
}

func FromPoints(points []Vec2, pos Vec2, angle float64) AABB {
	out := EmptyAABB()
	for _, p := range points {
		out = out.AddPoint(ToGlobalFrame(p, pos, angle))
	}
	return out
}
