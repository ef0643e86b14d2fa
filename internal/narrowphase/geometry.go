package narrowphase

import (
	"math"

	"github.com/san-kum/rigid2d/internal/vec"
)

// maxSeparation finds the face of a along which b is furthest away. face is
// -1 when a has no usable faces.
func maxSeparation(a, b *core) (sep float64, face int) {
	sep, face = math.Inf(-1), -1
	for i, n := range a.normals {
		if a.skipped(i) {
			continue
		}
		v := a.verts[i]
		si := math.Inf(1)
		for _, w := range b.verts {
			if d := n.Dot(w.Sub(v)); d < si {
				si = d
			}
		}
		if si > sep {
			sep, face = si, i
		}
	}
	return sep, face
}

func closestOnSegment(a, b, p vec.Vec2) vec.Vec2 {
	ab := b.Sub(a)
	den := ab.LenSqr()
	if den == 0 {
		return a
	}
	t := p.Sub(a).Dot(ab) / den
	t = math.Max(0, math.Min(1, t))
	return a.Add(ab.Mul(t))
}

// closestOnBoundary returns the point of c's boundary nearest to p.
func closestOnBoundary(c *core, p vec.Vec2) vec.Vec2 {
	best := math.Inf(1)
	var out vec.Vec2
	for i := 0; i < c.edgeCount(); i++ {
		if c.skipped(i) {
			continue
		}
		e0, e1 := c.face(i)
		q := closestOnSegment(e0, e1, p)
		if d := vec.DistSqr(q, p); d < best {
			best, out = d, q
		}
	}
	return out
}

// closestPoints between two non-intersecting segment or polygon cores. The
// closest features of separated convex sets always include a vertex.
func closestPoints(a, b *core) (pa, pb vec.Vec2, dist float64) {
	best := math.Inf(1)
	for i := 0; i < a.edgeCount(); i++ {
		if a.skipped(i) {
			continue
		}
		e0, e1 := a.face(i)
		for _, w := range b.verts {
			q := closestOnSegment(e0, e1, w)
			if d := vec.DistSqr(q, w); d < best {
				best, pa, pb = d, q, w
			}
		}
	}
	for i := 0; i < b.edgeCount(); i++ {
		if b.skipped(i) {
			continue
		}
		e0, e1 := b.face(i)
		for _, w := range a.verts {
			q := closestOnSegment(e0, e1, w)
			if d := vec.DistSqr(q, w); d < best {
				best, pa, pb = d, w, q
			}
		}
	}
	return pa, pb, math.Sqrt(best)
}

// incidentFace picks the face of c most anti-parallel to refNormal.
func incidentFace(c *core, refNormal vec.Vec2) (vec.Vec2, vec.Vec2) {
	if c.kind == segmentCore {
		return c.verts[0], c.verts[1]
	}
	best, idx := math.Inf(1), 0
	for i, n := range c.normals {
		if c.skipped(i) {
			continue
		}
		if d := n.Dot(refNormal); d < best {
			best, idx = d, i
		}
	}
	return c.face(idx)
}

// clipSegment keeps the part of [v0, v1] with n.p <= offset.
func clipSegment(in [2]vec.Vec2, n vec.Vec2, offset float64) (out [2]vec.Vec2, count int) {
	d0 := n.Dot(in[0]) - offset
	d1 := n.Dot(in[1]) - offset
	if d0 <= 0 {
		out[count] = in[0]
		count++
	}
	if d1 <= 0 {
		out[count] = in[1]
		count++
	}
	if d0*d1 < 0 && count < 2 {
		t := d0 / (d0 - d1)
		out[count] = vec.Lerp(in[0], in[1], t)
		count++
	}
	return out, count
}
