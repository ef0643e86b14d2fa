package narrowphase

import (
	"github.com/san-kum/rigid2d/internal/shape"
	"github.com/san-kum/rigid2d/internal/vec"
)

type coreKind int

const (
	pointCore coreKind = iota
	segmentCore
	polygonCore
)

// core is a shape reduced to world space convex geometry swept by a
// radius: circles are rounded points, capsules rounded segments, boxes and
// convexes plain polygons.
type core struct {
	kind    coreKind
	verts   []vec.Vec2
	normals []vec.Vec2
	// skip marks faces that must not act as separating or reference faces.
	skip   []bool
	radius float64
}

// placed is a shape with its world transform.
type placed struct {
	shape shape.Shape
	pos   vec.Vec2
	angle float64
}

func (c *core) reset(kind coreKind, radius float64) {
	c.kind = kind
	c.radius = radius
	c.verts = c.verts[:0]
	c.normals = c.normals[:0]
	c.skip = c.skip[:0]
}

// set builds the core of p. It reports false for shapes without a convex
// core (plane, heightfield, compound).
func (c *core) set(p placed) bool {
	switch s := p.shape.(type) {
	case *shape.Circle:
		c.reset(pointCore, s.Radius)
		c.verts = append(c.verts, p.pos)
	case *shape.Particle:
		c.reset(pointCore, 0)
		c.verts = append(c.verts, p.pos)
	case *shape.Line:
		c.reset(segmentCore, 0)
		a, b := s.Endpoints()
		c.setSegment(vec.ToGlobalFrame(a, p.pos, p.angle), vec.ToGlobalFrame(b, p.pos, p.angle))
	case *shape.Capsule:
		c.reset(segmentCore, s.Radius)
		a, b := s.Endpoints()
		c.setSegment(vec.ToGlobalFrame(a, p.pos, p.angle), vec.ToGlobalFrame(b, p.pos, p.angle))
	case *shape.Box:
		c.reset(polygonCore, 0)
		c.setPolygon(s.Vertices, s.Normals, p.pos, p.angle)
	case *shape.Convex:
		c.reset(polygonCore, 0)
		c.setPolygon(s.Vertices, s.Normals, p.pos, p.angle)
	default:
		return false
	}
	return true
}

func (c *core) setSegment(a, b vec.Vec2) {
	dir, ok := vec.Normalize(b.Sub(a))
	if !ok {
		dir = vec.New(1, 0)
	}
	c.verts = append(c.verts, a, b)
	c.normals = append(c.normals, vec.Rotate90CW(dir), vec.Rotate90CW(dir.Mul(-1)))
}

func (c *core) setPolygon(verts, normals []vec.Vec2, pos vec.Vec2, angle float64) {
	for _, v := range verts {
		c.verts = append(c.verts, vec.ToGlobalFrame(v, pos, angle))
	}
	for _, n := range normals {
		c.normals = append(c.normals, vec.Rotate(n, angle))
	}
}

// setTile builds heightfield tile i in world space. Side faces shared with
// a neighbouring tile are skipped so bodies slide across tile seams.
func (c *core) setTile(h *shape.Heightfield, i int, pos vec.Vec2, angle float64) {
	c.reset(polygonCore, 0)
	tile := h.Tile(i)
	for _, v := range tile {
		c.verts = append(c.verts, vec.ToGlobalFrame(v, pos, angle))
	}
	for j := range c.verts {
		edge, ok := vec.Normalize(c.verts[(j+1)%len(c.verts)].Sub(c.verts[j]))
		if !ok {
			edge = vec.New(1, 0)
		}
		c.normals = append(c.normals, vec.Rotate90CW(edge))
	}
	last := len(h.Heights) - 2
	c.skip = append(c.skip, false, i < last, false, i > 0)
}

func (c *core) skipped(i int) bool {
	return i < len(c.skip) && c.skip[i]
}

// face returns the endpoints of face i, wound so that normals[i] is
// Rotate90CW of the edge direction.
func (c *core) face(i int) (vec.Vec2, vec.Vec2) {
	return c.verts[i], c.verts[(i+1)%len(c.verts)]
}

// edgeCount is the number of distinct boundary edges.
func (c *core) edgeCount() int {
	switch c.kind {
	case pointCore:
		return 0
	case segmentCore:
		return 1
	}
	return len(c.verts)
}
