package vec

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vec2 is a plain value pair. It is the mathgl type so Add, Sub, Mul, Dot,
// Len and LenSqr come for free.
type Vec2 = mgl64.Vec2

var Zero = Vec2{}

func New(x, y float64) Vec2 { return Vec2{x, y} }

// Cross returns the z component of the 3D cross product of a and b.
func Cross(a, b Vec2) float64 {
	return a[0]*b[1] - a[1]*b[0]
}

// CrossVZ returns v x (0,0,z).
func CrossVZ(v Vec2, z float64) Vec2 {
	return Vec2{z * v[1], -z * v[0]}
}

// CrossZV returns (0,0,z) x v.
func CrossZV(z float64, v Vec2) Vec2 {
	return Vec2{-z * v[1], z * v[0]}
}

func Rotate(v Vec2, angle float64) Vec2 {
	if angle == 0 {
		return v
	}
	return mgl64.Rotate2D(angle).Mul2x1(v)
}

// Rotate90CW rotates v by -90 degrees.
func Rotate90CW(v Vec2) Vec2 { return Vec2{v[1], -v[0]} }

// Perp rotates v by +90 degrees.
func Perp(v Vec2) Vec2 { return Vec2{-v[1], v[0]} }

// Normalize returns the unit vector of v. ok is false for zero-length input,
// in which case the zero vector is returned instead of NaNs.
func Normalize(v Vec2) (n Vec2, ok bool) {
	l := v.Len()
	if l == 0 || math.IsNaN(l) || math.IsInf(l, 0) {
		return Zero, false
	}
	return v.Mul(1 / l), true
}

func Dist(a, b Vec2) float64    { return b.Sub(a).Len() }
func DistSqr(a, b Vec2) float64 { return b.Sub(a).LenSqr() }

func Lerp(a, b Vec2, t float64) Vec2 {
	return a.Add(b.Sub(a).Mul(t))
}

func ToLocalFrame(world, framePos Vec2, frameAngle float64) Vec2 {
	return Rotate(world.Sub(framePos), -frameAngle)
}

func ToGlobalFrame(local, framePos Vec2, frameAngle float64) Vec2 {
	return Rotate(local, frameAngle).Add(framePos)
}

func IsFinite(v Vec2) bool {
	return Finite(v[0]) && Finite(v[1])
}

func Finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// Centroid of a polygon given in counter-clockwise order.
func Centroid(verts []Vec2) Vec2 {
	var c Vec2
	var area float64
	for i := range verts {
		a := verts[i]
		b := verts[(i+1)%len(verts)]
		cr := Cross(a, b)
		area += cr
		c = c.Add(a.Add(b).Mul(cr))
	}
	if area == 0 {
		return Zero
	}
	return c.Mul(1 / (3 * area))
}

// SignedArea is positive for counter-clockwise polygons.
func SignedArea(verts []Vec2) float64 {
	var area float64
	for i := range verts {
		area += Cross(verts[i], verts[(i+1)%len(verts)])
	}
	return area / 2
}
