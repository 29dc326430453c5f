package shapes

import (
	"math"

	"tacboard-backend/internal/geom"
	"tacboard-backend/internal/models"
)

// minPolygonVertices is the smallest polygon; one more point holds the icon.
const minPolygonVertices = 3

// polygonSpec configures a free polygon with a floating icon. The last
// stored point is the icon and must stay inside the polygon formed by the
// points before it.
type polygonSpec struct {
	Tool   string
	Sides  int     // vertices created by Spawn
	Radius float64 // spawn radius
	Color  string
}

func (s polygonSpec) entry() Entry {
	return Entry{
		Tool:       s.Tool,
		Family:     FamilyPolygon,
		Color:      s.Color,
		Thickness:  2,
		Draw:       s.draw,
		HitTest:    s.hitTest,
		Reposition: s.reposition,
		Spawn:      s.spawn,
	}
}

func splitPolygon(o models.DrawingObject) ([]geom.Point, geom.Point, bool) {
	if len(o.Points) < minPolygonVertices+1 {
		return nil, geom.Point{}, false
	}
	n := len(o.Points) - 1
	return o.Points[:n], o.Points[n], true
}

func (s polygonSpec) spawn(at geom.Point, scale float64) []geom.Point {
	sides := s.Sides
	if sides < minPolygonVertices {
		sides = minPolygonVertices
	}
	pts := make([]geom.Point, 0, sides+1)
	for i := 0; i < sides; i++ {
		theta := -math.Pi/2 + float64(i)*2*math.Pi/float64(sides)
		pts = append(pts, at.Polar(theta, s.Radius*scale))
	}
	return append(pts, at)
}

func (s polygonSpec) draw(c Canvas, o models.DrawingObject, scale float64, f RenderFlags) {
	verts, icon, ok := splitPolygon(o)
	if !ok {
		return
	}
	hex := colorOf(o, s.Color)
	alpha := o.Alpha()

	setColor(c, hex, zoneFillAlpha*alpha)
	tracePath(c, verts, true)
	_ = c.FillPreserve()
	setColor(c, hex, alpha)
	c.SetLineWidth(thicknessOf(o, 2) * scale)
	_ = c.Stroke()

	selected := f.Selected != 0 && o.ID == f.Selected
	if selected {
		for _, v := range verts {
			drawKnob(c, v, scale, hex, true)
		}
	}
	drawIcon(c, AbilityIconKey(s.Tool), icon, defaultIconSize*scale, hex, alpha, f)
}

// hitTest checks the icon, then vertices, then the polygon body.
func (s polygonSpec) hitTest(p geom.Point, o models.DrawingObject, scale float64) (Grab, bool) {
	verts, icon, ok := splitPolygon(o)
	if !ok {
		return Grab{}, false
	}
	if p.Distance(icon) <= HandleRadius {
		return Grab{Mode: GrabMode{Kind: GrabIcon}, Offset: p.Sub(icon)}, true
	}
	for i, v := range verts {
		if p.Distance(v) <= HandleRadius {
			return Grab{Mode: GrabMode{Kind: GrabVertex, Index: i}, Offset: p.Sub(v)}, true
		}
	}
	if geom.PointInPolygon(p, verts) {
		return Grab{Mode: GrabMode{Kind: GrabTranslate}, Offset: p.Sub(verts[0])}, true
	}
	return Grab{}, false
}

func (s polygonSpec) reposition(o models.DrawingObject, p geom.Point, mode GrabMode, offset geom.Point, _ float64) models.DrawingObject {
	verts, icon, ok := splitPolygon(o)
	if !ok {
		return unchanged(o)
	}
	iconIdx := len(verts)

	switch mode.Kind {
	case GrabTranslate:
		return translateBy(o, 0, p, offset)
	case GrabIcon:
		target := p.Sub(offset)
		if !geom.PointInPolygon(target, verts) {
			return unchanged(o)
		}
		return withPoint(o, iconIdx, target)
	case GrabVertex:
		if mode.Index < 0 || mode.Index >= len(verts) {
			return unchanged(o)
		}
		moved := withPoint(o, mode.Index, p.Sub(offset))
		newVerts := moved.Points[:iconIdx]
		if geom.PointInPolygon(icon, newVerts) {
			return moved
		}
		// keep the icon inside: fall back to the centroid, or refuse
		if c := geom.Centroid(newVerts); geom.PointInPolygon(c, newVerts) {
			moved.Points[iconIdx] = c
			return moved
		}
		return unchanged(o)
	}
	return unchanged(o)
}
