package viz

import (
	"math"

	"github.com/san-kum/rigid2d/internal/body"
	"github.com/san-kum/rigid2d/internal/constraint"
	"github.com/san-kum/rigid2d/internal/shape"
	"github.com/san-kum/rigid2d/internal/spring"
	"github.com/san-kum/rigid2d/internal/vec"
	"github.com/san-kum/rigid2d/internal/world"
)

// unbounded marks bounds of infinite shapes such as planes.
const unbounded = 1e5

// Viewport maps world coordinates onto canvas dots. World y points up,
// canvas y points down.
type Viewport struct {
	Center vec.Vec2
	// Scale is dots per world unit.
	Scale float64

	width, height int
}

func NewViewport(c *Canvas, center vec.Vec2, scale float64) Viewport {
	w, h := c.PixelSize()
	return Viewport{Center: center, Scale: scale, width: w, height: h}
}

// FitViewport frames the finite bounds of bodies with margin world units
// on every side.
func FitViewport(c *Canvas, bodies []*body.Body, margin float64) Viewport {
	w, h := c.PixelSize()
	return Fit(w, h, bodies, margin)
}

// Fit is FitViewport for a surface of width x height units, such as an
// image.
func Fit(width, height int, bodies []*body.Body, margin float64) Viewport {
	bounds := vec.EmptyAABB()
	for _, b := range bodies {
		box := b.AABB()
		size := box.Upper.Sub(box.Lower)
		if size[0] > unbounded || size[1] > unbounded {
			bounds = bounds.AddPoint(b.Position())
			continue
		}
		bounds = bounds.Extend(box)
	}
	if bounds.Lower[0] > bounds.Upper[0] {
		return Viewport{Center: vec.Zero, Scale: 10, width: width, height: height}
	}
	bounds = bounds.Grow(margin)

	size := bounds.Upper.Sub(bounds.Lower)
	scale := math.Min(float64(width)/math.Max(size[0], 1e-6), float64(height)/math.Max(size[1], 1e-6))
	center := bounds.Lower.Add(bounds.Upper).Mul(0.5)
	return Viewport{Center: center, Scale: scale, width: width, height: height}
}

// ProjectF is Project without rounding.
func (v Viewport) ProjectF(p vec.Vec2) (float64, float64) {
	return float64(v.width)/2 + (p[0]-v.Center[0])*v.Scale,
		float64(v.height)/2 - (p[1]-v.Center[1])*v.Scale
}

// Reach is a world distance from p that covers the whole viewport.
func (v Viewport) Reach(p vec.Vec2) float64 {
	diag := math.Hypot(float64(v.width), float64(v.height)) / v.Scale
	return vec.Dist(p, v.Center) + diag
}

func (v Viewport) Project(p vec.Vec2) (int, int) {
	x, y := v.ProjectF(p)
	return int(math.Round(x)), int(math.Round(y))
}

func (v Viewport) Unproject(x, y int) vec.Vec2 {
	return vec.New(
		v.Center[0]+(float64(x)-float64(v.width)/2)/v.Scale,
		v.Center[1]-(float64(y)-float64(v.height)/2)/v.Scale,
	)
}

func (v Viewport) line(c *Canvas, a, b vec.Vec2) {
	x0, y0 := v.Project(a)
	x1, y1 := v.Project(b)
	c.DrawLine(x0, y0, x1, y1)
}

// DrawWorld draws every body, linear spring and anchored joint of w.
func DrawWorld(c *Canvas, v Viewport, w *world.World) {
	for _, b := range w.Bodies() {
		DrawBody(c, v, b)
	}
	for _, s := range w.Springs() {
		if l, ok := s.(*spring.Linear); ok {
			a, b := l.WorldAnchors()
			v.line(c, a, b)
		}
	}
	for _, j := range w.Constraints() {
		switch j := j.(type) {
		case *constraint.Distance:
			v.line(c, j.BodyA.ToWorldFrame(j.LocalAnchorA), j.BodyB.ToWorldFrame(j.LocalAnchorB))
		case *constraint.Revolute:
			pa, pb := j.WorldPivots()
			v.line(c, j.BodyA.Position(), pa)
			v.line(c, j.BodyB.Position(), pb)
		}
	}
}

func DrawBody(c *Canvas, v Viewport, b *body.Body) {
	for _, s := range b.Shapes {
		p := s.Props()
		drawShape(c, v, s, b.ToWorldFrame(p.Offset), b.Angle()+p.Angle)
	}
}

func drawShape(c *Canvas, v Viewport, s shape.Shape, pos vec.Vec2, angle float64) {
	toWorld := func(local vec.Vec2) vec.Vec2 { return vec.ToGlobalFrame(local, pos, angle) }

	switch s := s.(type) {
	case *shape.Circle:
		x, y := v.Project(pos)
		c.DrawCircle(x, y, int(math.Round(s.Radius*v.Scale)))
		v.line(c, pos, toWorld(vec.New(s.Radius, 0)))
	case *shape.Particle:
		x, y := v.Project(pos)
		c.Set(x, y)
	case *shape.Plane:
		l := v.Reach(pos)
		v.line(c, toWorld(vec.New(-l, 0)), toWorld(vec.New(l, 0)))
	case *shape.Box:
		drawPolygon(c, v, s.Vertices, toWorld)
	case *shape.Convex:
		drawPolygon(c, v, s.Vertices, toWorld)
	case *shape.Line:
		a, b := s.Endpoints()
		v.line(c, toWorld(a), toWorld(b))
	case *shape.Capsule:
		a, b := s.Endpoints()
		r := s.Radius
		v.line(c, toWorld(a.Add(vec.New(0, r))), toWorld(b.Add(vec.New(0, r))))
		v.line(c, toWorld(a.Sub(vec.New(0, r))), toWorld(b.Sub(vec.New(0, r))))
		for _, end := range []vec.Vec2{a, b} {
			x, y := v.Project(toWorld(end))
			c.DrawCircle(x, y, int(math.Round(r*v.Scale)))
		}
	case *shape.Heightfield:
		xs := make([]int, len(s.Heights))
		ys := make([]int, len(s.Heights))
		for i, h := range s.Heights {
			xs[i], ys[i] = v.Project(toWorld(vec.New(float64(i)*s.ElementWidth, h)))
		}
		c.DrawPolyline(xs, ys, false)
	case *shape.Compound:
		for _, child := range s.Children {
			p := child.Props()
			drawShape(c, v, child, toWorld(p.Offset), angle+p.Angle)
		}
	}
}

func drawPolygon(c *Canvas, v Viewport, verts []vec.Vec2, toWorld func(vec.Vec2) vec.Vec2) {
	xs := make([]int, len(verts))
	ys := make([]int, len(verts))
	for i, p := range verts {
		xs[i], ys[i] = v.Project(toWorld(p))
	}
	c.DrawPolyline(xs, ys, true)
}
