// Package export renders worlds and recorded trajectories as SVG.
package export

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/san-kum/rigid2d/internal/analysis"
	"github.com/san-kum/rigid2d/internal/constraint"
	"github.com/san-kum/rigid2d/internal/shape"
	"github.com/san-kum/rigid2d/internal/spring"
	"github.com/san-kum/rigid2d/internal/vec"
	"github.com/san-kum/rigid2d/internal/viz"
	"github.com/san-kum/rigid2d/internal/world"
)

const (
	background  = "#0a0a0a"
	staticColor = "#888899"
	awakeColor  = "#00ff88"
	sleepColor  = "#4466aa"
	jointColor  = "#ffcc00"
	springColor = "#ff00ff"
)

type svgWriter struct {
	sb   strings.Builder
	view viz.Viewport
}

func (s *svgWriter) printf(format string, args ...any) {
	fmt.Fprintf(&s.sb, format, args...)
}

func (s *svgWriter) point(p vec.Vec2) string {
	x, y := s.view.ProjectF(p)
	return fmt.Sprintf("%.2f,%.2f", x, y)
}

func (s *svgWriter) line(a, b vec.Vec2, stroke string, dashed bool) {
	ax, ay := s.view.ProjectF(a)
	bx, by := s.view.ProjectF(b)
	dash := ""
	if dashed {
		dash = ` stroke-dasharray="4 3"`
	}
	s.printf(`<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s"%s/>`+"\n", ax, ay, bx, by, stroke, dash)
}

func (s *svgWriter) circle(c vec.Vec2, r float64, stroke string) {
	x, y := s.view.ProjectF(c)
	s.printf(`<circle cx="%.2f" cy="%.2f" r="%.2f" fill="none" stroke="%s"/>`+"\n", x, y, r*s.view.Scale, stroke)
}

func (s *svgWriter) poly(points []vec.Vec2, closed bool, stroke string) {
	parts := make([]string, len(points))
	for i, p := range points {
		parts[i] = s.point(p)
	}
	tag := "polyline"
	if closed {
		tag = "polygon"
	}
	s.printf(`<%s points="%s" fill="none" stroke="%s"/>`+"\n", tag, strings.Join(parts, " "), stroke)
}

// WorldToSVG draws every body, linear spring and anchored joint of w into
// a width x height image framed around the finite bodies.
func WorldToSVG(w *world.World, width, height int) string {
	s := &svgWriter{view: viz.Fit(width, height, w.Bodies(), 1)}

	s.printf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
<g stroke-width="1.5">
`, width, height, width, height, background)

	for _, b := range w.Bodies() {
		color := awakeColor
		switch {
		case !b.IsDynamic():
			color = staticColor
		case b.IsSleeping():
			color = sleepColor
		}
		for _, sh := range b.Shapes {
			p := sh.Props()
			s.shape(sh, b.ToWorldFrame(p.Offset), b.Angle()+p.Angle, color)
		}
	}
	for _, sp := range w.Springs() {
		if l, ok := sp.(*spring.Linear); ok {
			a, b := l.WorldAnchors()
			s.line(a, b, springColor, true)
		}
	}
	for _, c := range w.Constraints() {
		switch j := c.(type) {
		case *constraint.Distance:
			s.line(j.BodyA.ToWorldFrame(j.LocalAnchorA), j.BodyB.ToWorldFrame(j.LocalAnchorB), jointColor, false)
		case *constraint.Revolute:
			pa, _ := j.WorldPivots()
			x, y := s.view.ProjectF(pa)
			s.printf(`<circle cx="%.2f" cy="%.2f" r="2" fill="%s"/>`+"\n", x, y, jointColor)
		}
	}

	s.printf("</g>\n</svg>")
	return s.sb.String()
}

func (s *svgWriter) shape(sh shape.Shape, pos vec.Vec2, angle float64, color string) {
	toWorld := func(local vec.Vec2) vec.Vec2 { return vec.ToGlobalFrame(local, pos, angle) }
	transform := func(local []vec.Vec2) []vec.Vec2 {
		out := make([]vec.Vec2, len(local))
		for i, p := range local {
			out[i] = toWorld(p)
		}
		return out
	}

	switch sh := sh.(type) {
	case *shape.Circle:
		s.circle(pos, sh.Radius, color)
		s.line(pos, toWorld(vec.New(sh.Radius, 0)), color, false)
	case *shape.Particle:
		x, y := s.view.ProjectF(pos)
		s.printf(`<circle cx="%.2f" cy="%.2f" r="1.5" fill="%s"/>`+"\n", x, y, color)
	case *shape.Plane:
		l := s.view.Reach(pos)
		s.line(toWorld(vec.New(-l, 0)), toWorld(vec.New(l, 0)), color, false)
	case *shape.Box:
		s.poly(transform(sh.Vertices), true, color)
	case *shape.Convex:
		s.poly(transform(sh.Vertices), true, color)
	case *shape.Line:
		a, b := sh.Endpoints()
		s.line(toWorld(a), toWorld(b), color, false)
	case *shape.Capsule:
		a, b := sh.Endpoints()
		up := vec.New(0, sh.Radius)
		s.line(toWorld(a.Add(up)), toWorld(b.Add(up)), color, false)
		s.line(toWorld(a.Sub(up)), toWorld(b.Sub(up)), color, false)
		s.circle(toWorld(a), sh.Radius, color)
		s.circle(toWorld(b), sh.Radius, color)
	case *shape.Heightfield:
		pts := make([]vec.Vec2, len(sh.Heights))
		for i, h := range sh.Heights {
			pts[i] = vec.New(float64(i)*sh.ElementWidth, h)
		}
		s.poly(transform(pts), false, color)
	case *shape.Compound:
		for _, child := range sh.Children {
			p := child.Props()
			s.shape(child, toWorld(p.Offset), angle+p.Angle, color)
		}
	}
}

// TrajectoryToSVG draws a recorded path with 10% padding around its
// bounds.
func TrajectoryToSVG(portrait *analysis.PhasePortrait2D, width, height int, strokeColor string) string {
	if portrait == nil || len(portrait.Points) < 2 {
		return ""
	}
	points := portrait.Points

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, background, strokeColor)

	for i, p := range points {
		x := (p.X - minX) / rangeX * float64(width)
		y := float64(height) - (p.Y-minY)/rangeY*float64(height)
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}

// WriteFile writes svg to path, or to out when path is empty.
func WriteFile(path string, out io.Writer, svg string) error {
	if path == "" {
		_, err := io.WriteString(out, svg)
		return err
	}
	return os.WriteFile(path, []byte(svg), 0644)
}
