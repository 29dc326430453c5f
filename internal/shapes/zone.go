package shapes

import (
	"math"

	"tacboard-backend/internal/geom"
	"tacboard-backend/internal/models"
)

// zoneSpec configures a point-anchored radial zone: one stored point, the
// centre, with a disc of Radius around it.
type zoneSpec struct {
	Tool   string
	Radius float64
	Color  string
	Dashed bool
}

func (z zoneSpec) entry() Entry {
	return Entry{
		Tool:       z.Tool,
		Family:     FamilyZone,
		Color:      z.Color,
		Thickness:  2,
		Draw:       z.draw,
		HitTest:    z.hitTest,
		Reposition: z.reposition,
		Spawn: func(at geom.Point, _ float64) []geom.Point {
			return []geom.Point{at}
		},
	}
}

func (z zoneSpec) draw(c Canvas, o models.DrawingObject, scale float64, f RenderFlags) {
	if len(o.Points) < 1 {
		return
	}
	center := o.Points[0]
	r := z.Radius * scale
	hex := colorOf(o, z.Color)
	alpha := o.Alpha()
	th := thicknessOf(o, 2)

	setColor(c, hex, zoneFillAlpha*alpha)
	c.DrawCircle(center.X, center.Y, r)
	_ = c.Fill()

	if z.Dashed {
		setDashed(c, th*scale)
	}
	setColor(c, hex, alpha)
	if o.ID == f.Selected && f.Selected != 0 {
		setColor(c, selectionColor, alpha)
	}
	c.SetLineWidth(th * scale)
	c.DrawCircle(center.X, center.Y, r)
	_ = c.Stroke()
	c.SetDash()

	drawIcon(c, AbilityIconKey(z.Tool), center, defaultIconSize*scale, hex, alpha, f)
}

// hitTest uses the zone radius as the natural boundary, never less than
// the handle tolerance so tiny zones stay grabbable.
func (z zoneSpec) hitTest(p geom.Point, o models.DrawingObject, scale float64) (Grab, bool) {
	if len(o.Points) < 1 {
		return Grab{}, false
	}
	center := o.Points[0]
	if p.Distance(center) <= math.Max(z.Radius*scale, HandleRadius) {
		return Grab{Mode: GrabMode{Kind: GrabTranslate}, Offset: p.Sub(center)}, true
	}
	return Grab{}, false
}

func (z zoneSpec) reposition(o models.DrawingObject, p geom.Point, mode GrabMode, offset geom.Point, _ float64) models.DrawingObject {
	if len(o.Points) < 1 || mode.Kind != GrabTranslate {
		return unchanged(o)
	}
	return translateBy(o, 0, p, offset)
}
