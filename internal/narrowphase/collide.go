package narrowphase

import (
	"github.com/san-kum/rigid2d/internal/shape"
	"github.com/san-kum/rigid2d/internal/vec"
)

// faceBias prefers the first core's face when both separations are close,
// so the reference face does not flip between steps.
const faceBias = 5e-4

// alignTolerance decides when a closest-point direction is close enough to
// a face normal to produce a two point face manifold instead of one point.
const alignTolerance = 1e-3

// collideCores dispatches on the core kinds of a and b.
func (n *Narrowphase) collideCores(a, b *core) {
	switch {
	case a.kind == pointCore && b.kind == pointCore:
		n.pointPoint(a, b)
	case a.kind == pointCore:
		n.pointPolygon(a, b, false)
	case b.kind == pointCore:
		n.pointPolygon(b, a, true)
	default:
		n.polygonPolygon(a, b)
	}
}

func (n *Narrowphase) pointPoint(a, b *core) {
	pa, pb := a.verts[0], b.verts[0]
	r := a.radius + b.radius
	d := vec.Dist(pa, pb)
	if d > r+n.ContactSkinSize {
		return
	}
	dir, ok := vec.Normalize(pb.Sub(pa))
	if !ok {
		dir = vec.New(0, 1)
	}
	n.emit(pa.Add(dir.Mul(a.radius)), pb.Sub(dir.Mul(b.radius)), dir)
}

// pointPolygon collides point core p against segment or polygon core c.
// swapped means c is the first shape of the pair.
func (n *Narrowphase) pointPolygon(p, c *core, swapped bool) {
	pt := p.verts[0]
	r := p.radius + c.radius
	sep, face := maxSeparation(c, p)
	if face < 0 || sep > r+n.ContactSkinSize {
		return
	}

	var onP, onC, normal vec.Vec2 // normal points from p to c
	if sep < 0 {
		nc := c.normals[face]
		onP = pt.Sub(nc.Mul(p.radius))
		onC = pt.Sub(nc.Mul(sep)).Add(nc.Mul(c.radius))
		normal = nc.Mul(-1)
	} else {
		q := closestOnBoundary(c, pt)
		d := vec.Dist(pt, q)
		if d > r+n.ContactSkinSize {
			return
		}
		dir, ok := vec.Normalize(q.Sub(pt))
		if !ok {
			dir = c.normals[face].Mul(-1)
		}
		onP = pt.Add(dir.Mul(p.radius))
		onC = q.Sub(dir.Mul(c.radius))
		normal = dir
	}

	if swapped {
		n.emit(onC, onP, normal.Mul(-1))
	} else {
		n.emit(onP, onC, normal)
	}
}

func (n *Narrowphase) polygonPolygon(a, b *core) {
	r := a.radius + b.radius
	limit := r + n.ContactSkinSize

	sepA, faceA := maxSeparation(a, b)
	sepB, faceB := maxSeparation(b, a)
	if faceA < 0 && faceB < 0 {
		return
	}
	if sepA > limit || sepB > limit {
		return
	}

	refIsB := faceA < 0 || (faceB >= 0 && sepB > sepA+faceBias)

	if sepA >= 0 || sepB >= 0 {
		// Cores apart: the face normals only bound the distance.
		pa, pb, d := closestPoints(a, b)
		if d > limit {
			return
		}
		if r > 0 && d > 1e-9 {
			dir := pb.Sub(pa).Mul(1 / d)
			var refN vec.Vec2
			if refIsB {
				refN = b.normals[faceB].Mul(-1)
			} else {
				refN = a.normals[faceA]
			}
			if dir.Dot(refN) < 1-alignTolerance {
				n.emit(pa.Add(dir.Mul(a.radius)), pb.Sub(dir.Mul(b.radius)), dir)
				return
			}
		}
	}

	if refIsB {
		n.clip(b, a, faceB, true)
	} else {
		n.clip(a, b, faceA, false)
	}
}

// clip builds a face manifold with ref's face against the incident face of
// inc. refIsB tells which side of the pair ref belongs to.
func (n *Narrowphase) clip(ref, inc *core, face int, refIsB bool) {
	r := ref.radius + inc.radius
	limit := r + n.ContactSkinSize
	refN := ref.normals[face]
	v1, v2 := ref.face(face)
	tangent, ok := vec.Normalize(v2.Sub(v1))
	if !ok {
		return
	}

	i0, i1 := incidentFace(inc, refN)
	incident := [2]vec.Vec2{i0, i1}

	pts, count := clipSegment(incident, tangent.Mul(-1), -tangent.Dot(v1)+r)
	if count == 2 {
		pts, count = clipSegment(pts, tangent, tangent.Dot(v2)+r)
	}
	if count < 2 {
		// The incident face hangs over a side plane: keep its deepest point.
		pts, count = incident, 1
		if refN.Dot(incident[1].Sub(v1)) < refN.Dot(incident[0].Sub(v1)) {
			pts[0] = incident[1]
		}
	}

	for i := 0; i < count; i++ {
		p := pts[i]
		s := refN.Dot(p.Sub(v1))
		if s > limit {
			continue
		}
		onInc := p.Sub(refN.Mul(inc.radius))
		onRef := p.Sub(refN.Mul(s)).Add(refN.Mul(ref.radius))
		if refIsB {
			n.emit(onInc, onRef, refN.Mul(-1))
		} else {
			n.emit(onRef, onInc, refN)
		}
		if n.done() {
			return
		}
	}
}

// convexRoutine handles every pair of shapes with convex cores.
func convexRoutine(n *Narrowphase, a, b placed) {
	ca, cb := &n.cores[0], &n.cores[1]
	if !ca.set(a) || !cb.set(b) {
		return
	}
	n.collideCores(ca, cb)
}

// planeRoutine collides x against the half-space below plane's local x
// axis. Every core vertex under the surface becomes a contact.
func planeRoutine(n *Narrowphase, x, plane placed) {
	c := &n.cores[0]
	if !c.set(x) {
		return
	}
	normal := vec.Rotate(vec.New(0, 1), plane.angle)
	limit := c.radius + n.ContactSkinSize
	for _, v := range c.verts {
		d := normal.Dot(v.Sub(plane.pos))
		if d > limit {
			continue
		}
		onX := v.Sub(normal.Mul(c.radius))
		onPlane := v.Sub(normal.Mul(d))
		n.emit(onX, onPlane, normal.Mul(-1))
		if n.done() {
			return
		}
	}
}

// heightfieldRoutine collides x against the tiles under its extent.
func heightfieldRoutine(n *Narrowphase, x, field placed) {
	h := field.shape.(*shape.Heightfield)
	c := &n.cores[0]
	if !c.set(x) {
		return
	}

	margin := c.radius + n.ContactSkinSize
	lo, hi := 0.0, 0.0
	for i, v := range c.verts {
		lx := vec.ToLocalFrame(v, field.pos, field.angle)[0]
		if i == 0 || lx < lo {
			lo = lx
		}
		if i == 0 || lx > hi {
			hi = lx
		}
	}
	first, last := h.TileRange(lo-margin, hi+margin)

	tile := &n.cores[1]
	for i := first; i < last; i++ {
		tile.setTile(h, i, field.pos, field.angle)
		n.collideCores(c, tile)
		if n.done() {
			return
		}
	}
}

// compoundRoutine recurses into the children of comp.
func compoundRoutine(n *Narrowphase, x, comp placed) {
	c := comp.shape.(*shape.Compound)
	for _, child := range c.Children {
		props := child.Props()
		n.dispatch(x, placed{
			shape: child,
			pos:   vec.ToGlobalFrame(props.Offset, comp.pos, comp.angle),
			angle: comp.angle + props.Angle,
		})
		if n.done() {
			return
		}
	}
}
