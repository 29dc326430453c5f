package shapes

import (
	"math"

	"github.com/gogpu/gg"

	"tacboard-backend/internal/geom"
	"tacboard-backend/internal/models"
)

// Plain drawing tools.
const (
	ToolPen        = "pen"
	ToolLine       = "line"
	ToolArrow      = "arrow"
	ToolDashedLine = "dashed_line"
	ToolRect       = "rect"
)

// strokeSlack widens the hit band of thin strokes.
const strokeSlack = 5.0

const (
	defaultStrokeColor     = "#ff4655"
	defaultStrokeThickness = 3.0
	arrowHeadAngle         = math.Pi / 7
)

func plainEntries() []Entry {
	return []Entry{
		{
			Tool:       ToolPen,
			Family:     FamilyStroke,
			Color:      defaultStrokeColor,
			Thickness:  defaultStrokeThickness,
			Draw:       drawPen,
			HitTest:    hitPolyline(false),
			Reposition: repositionStroke,
			Spawn:      func(at geom.Point, _ float64) []geom.Point { return []geom.Point{at} },
			Erase:      erasePolyline,
		},
		segmentEntry(ToolLine, drawSegment(false, false)),
		segmentEntry(ToolArrow, drawSegment(false, true)),
		segmentEntry(ToolDashedLine, drawSegment(true, false)),
		{
			Tool:       ToolRect,
			Family:     FamilyRect,
			Color:      defaultStrokeColor,
			Thickness:  defaultStrokeThickness,
			Draw:       drawRect,
			HitTest:    hitRect,
			Reposition: repositionStroke,
			Spawn:      spawnSegment,
			Erase:      eraseRect,
		},
	}
}

func segmentEntry(tool string, draw DrawFunc) Entry {
	return Entry{
		Tool:       tool,
		Family:     FamilyStroke,
		Color:      defaultStrokeColor,
		Thickness:  defaultStrokeThickness,
		Draw:       draw,
		HitTest:    hitPolyline(true),
		Reposition: repositionStroke,
		Spawn:      spawnSegment,
		Erase:      erasePolyline,
	}
}

// spawnSegment starts a two-point shape with both points on the press
// position; the editor drags the second one.
func spawnSegment(at geom.Point, _ float64) []geom.Point {
	return []geom.Point{at, at}
}

func drawPen(c Canvas, o models.DrawingObject, _ float64, f RenderFlags) {
	if len(o.Points) < 1 {
		return
	}
	setColor(c, colorOf(o, defaultStrokeColor), o.Alpha())
	c.SetLineWidth(thicknessOf(o, defaultStrokeThickness))
	c.SetLineCap(gg.LineCapRound)
	if len(o.Points) == 1 {
		p := o.Points[0]
		c.DrawCircle(p.X, p.Y, thicknessOf(o, defaultStrokeThickness)/2)
		_ = c.Fill()
		return
	}
	tracePath(c, o.Points, false)
	_ = c.Stroke()
	if f.Selected != 0 && o.ID == f.Selected {
		drawSelectionBox(c, geom.BoundingBox(o.Points).Expand(thicknessOf(o, defaultStrokeThickness)))
	}
}

func drawSegment(dashed, arrow bool) DrawFunc {
	return func(c Canvas, o models.DrawingObject, scale float64, f RenderFlags) {
		if len(o.Points) < 2 {
			return
		}
		a, b := o.Points[0], o.Points[1]
		th := thicknessOf(o, defaultStrokeThickness)
		hex := colorOf(o, defaultStrokeColor)
		setColor(c, hex, o.Alpha())
		c.SetLineWidth(th)
		c.SetLineCap(gg.LineCapRound)
		if dashed {
			c.SetLineCap(gg.LineCapButt)
			setDashed(c, th)
		}
		c.MoveTo(a.X, a.Y)
		c.LineTo(b.X, b.Y)
		_ = c.Stroke()
		c.SetDash()

		if arrow && a != b {
			head := math.Max(th*4, 10)
			back := b.Angle(a)
			l := b.Polar(back+arrowHeadAngle, head)
			r := b.Polar(back-arrowHeadAngle, head)
			tracePath(c, []geom.Point{b, l, r}, true)
			_ = c.Fill()
		}
		if f.Selected != 0 && o.ID == f.Selected {
			drawKnob(c, a, scale, hex, true)
			drawKnob(c, b, scale, hex, true)
		}
	}
}

func drawRect(c Canvas, o models.DrawingObject, scale float64, f RenderFlags) {
	if len(o.Points) < 2 {
		return
	}
	r := geom.RectFromPoints(o.Points[0], o.Points[1])
	hex := colorOf(o, defaultStrokeColor)
	setColor(c, hex, o.Alpha())
	c.SetLineWidth(thicknessOf(o, defaultStrokeThickness))
	c.DrawRectangle(r.X, r.Y, r.Width, r.Height)
	_ = c.Stroke()
	if f.Selected != 0 && o.ID == f.Selected {
		drawKnob(c, o.Points[0], scale, hex, true)
		drawKnob(c, o.Points[1], scale, hex, true)
	}
}

func drawSelectionBox(c Canvas, r geom.Rect) {
	setColor(c, selectionColor, 0.9)
	c.SetLineWidth(1)
	c.SetDash(4, 3)
	c.DrawRectangle(r.X, r.Y, r.Width, r.Height)
	_ = c.Stroke()
	c.SetDash()
}

// hitPolyline grabs endpoints as vertices when withVertices is set and
// otherwise treats any point within the stroke band as a body grab.
func hitPolyline(withVertices bool) HitTestFunc {
	return func(p geom.Point, o models.DrawingObject, _ float64) (Grab, bool) {
		if len(o.Points) < 1 {
			return Grab{}, false
		}
		if withVertices && len(o.Points) >= 2 {
			for i, v := range o.Points[:2] {
				if p.Distance(v) <= HandleRadius {
					return Grab{Mode: GrabMode{Kind: GrabVertex, Index: i}, Offset: p.Sub(v)}, true
				}
			}
		}
		band := thicknessOf(o, defaultStrokeThickness)/2 + strokeSlack
		if geom.PolylineDistance(p, o.Points) <= band {
			return Grab{Mode: GrabMode{Kind: GrabTranslate}, Offset: p.Sub(o.Points[0])}, true
		}
		return Grab{}, false
	}
}

func hitRect(p geom.Point, o models.DrawingObject, _ float64) (Grab, bool) {
	if len(o.Points) < 2 {
		return Grab{}, false
	}
	for i, v := range o.Points[:2] {
		if p.Distance(v) <= HandleRadius {
			return Grab{Mode: GrabMode{Kind: GrabVertex, Index: i}, Offset: p.Sub(v)}, true
		}
	}
	r := geom.RectFromPoints(o.Points[0], o.Points[1])
	if r.Expand(thicknessOf(o, defaultStrokeThickness)/2 + strokeSlack).Contains(p) {
		return Grab{Mode: GrabMode{Kind: GrabTranslate}, Offset: p.Sub(o.Points[0])}, true
	}
	return Grab{}, false
}

func repositionStroke(o models.DrawingObject, p geom.Point, mode GrabMode, offset geom.Point, _ float64) models.DrawingObject {
	switch mode.Kind {
	case GrabTranslate:
		return translateBy(o, 0, p, offset)
	case GrabVertex:
		if mode.Index < 0 || mode.Index >= len(o.Points) {
			return unchanged(o)
		}
		return withPoint(o, mode.Index, p.Sub(offset))
	}
	return unchanged(o)
}

func erasePolyline(o models.DrawingObject, p geom.Point, radius float64) bool {
	if len(o.Points) == 0 {
		return false
	}
	return geom.PolylineDistance(p, o.Points) < thicknessOf(o, defaultStrokeThickness)/2+radius
}

func eraseRect(o models.DrawingObject, p geom.Point, radius float64) bool {
	if len(o.Points) < 2 {
		return false
	}
	r := geom.RectFromPoints(o.Points[0], o.Points[1])
	return r.Expand(thicknessOf(o, defaultStrokeThickness)/2 + radius).Contains(p)
}
