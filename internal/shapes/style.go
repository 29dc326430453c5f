package shapes

import (
	"math"

	"github.com/gogpu/gg"

	"tacboard-backend/internal/geom"
	"tacboard-backend/internal/models"
)

const (
	defaultColor     = "#ffffff"
	defaultIconSize  = 24.0
	handleKnobRadius = 5.0
	zoneFillAlpha    = 0.3
	beamFillAlpha    = 0.35
	placeholderColor = "#8a8f98"
	selectionColor   = "#ffd166"
)

// Asset keys follow the public art layout.
func AbilityIconKey(name string) string { return "/abilities/" + name + "_icon.png" }
func AbilityGameKey(name string) string { return "/abilities/" + name + "_game.png" }
func AgentKey(name string) string       { return "/agents/" + name + ".png" }
func IconKey(name string) string        { return "/icons/" + name + ".png" }

func setColor(c Canvas, hex string, alpha float64) {
	if hex == "" {
		hex = defaultColor
	}
	col := gg.Hex(hex)
	c.SetRGBA(col.R, col.G, col.B, col.A*alpha)
}

func colorOf(o models.DrawingObject, fallback string) string {
	if o.Color != "" {
		return o.Color
	}
	return fallback
}

func thicknessOf(o models.DrawingObject, fallback float64) float64 {
	if o.Thickness > 0 {
		return o.Thickness
	}
	return fallback
}

// setDashed applies a dash pattern proportional to the painted stroke
// width so the pattern keeps its look at any zoom.
func setDashed(c Canvas, thickness float64) {
	c.SetDash(thickness*2, thickness*1.5)
}

// resetStyle clears state gg does not save across Push/Pop.
func resetStyle(c Canvas) {
	c.SetDash()
	c.SetLineWidth(1)
	c.SetLineCap(gg.LineCapButt)
}

// drawIcon paints an upright square image centred on at. When the map is
// rotated the icon is counter-rotated so it never renders upside down. A
// missing image falls back to a filled disc in the object's colour.
func drawIcon(c Canvas, key string, at geom.Point, size float64, hex string, alpha float64, f RenderFlags) {
	c.Push()
	defer c.Pop()
	c.Translate(at.X, at.Y)
	if f.Rotated {
		c.Rotate(math.Pi)
	}
	if img, ok := f.image(key); ok {
		c.DrawImageEx(img, gg.DrawImageOptions{
			X:         -size / 2,
			Y:         -size / 2,
			DstWidth:  size,
			DstHeight: size,
			Opacity:   alpha,
		})
		return
	}
	drawPlaceholder(c, size/2, hex, alpha)
}

func drawPlaceholder(c Canvas, r float64, hex string, alpha float64) {
	setColor(c, hex, 0.6*alpha)
	c.DrawCircle(0, 0, r)
	_ = c.FillPreserve()
	setColor(c, placeholderColor, alpha)
	c.SetLineWidth(math.Max(1, r/8))
	_ = c.Stroke()
}

func drawKnob(c Canvas, at geom.Point, scale float64, hex string, selected bool) {
	r := handleKnobRadius * scale
	setColor(c, hex, 1)
	c.DrawCircle(at.X, at.Y, r)
	_ = c.FillPreserve()
	if selected {
		setColor(c, selectionColor, 1)
	} else {
		setColor(c, "#000000", 0.6)
	}
	c.SetLineWidth(math.Max(1, scale))
	_ = c.Stroke()
}

func tracePath(c Canvas, pts []geom.Point, closed bool) {
	c.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		c.LineTo(p.X, p.Y)
	}
	if closed {
		c.ClosePath()
	}
}

func unchanged(o models.DrawingObject) models.DrawingObject {
	return o
}

// translateBy moves every point of o so that points[anchor] lands on
// p - offset.
func translateBy(o models.DrawingObject, anchor int, p, offset geom.Point) models.DrawingObject {
	if anchor < 0 || anchor >= len(o.Points) {
		return o
	}
	target := p.Sub(offset)
	o.Points = geom.Translate(o.Points, target.Sub(o.Points[anchor]))
	o.Points[anchor] = target
	return o
}

// withPoint returns o with points[i] replaced, leaving the input untouched.
func withPoint(o models.DrawingObject, i int, p geom.Point) models.DrawingObject {
	pts := make([]geom.Point, len(o.Points))
	copy(pts, o.Points)
	pts[i] = p
	o.Points = pts
	return o
}
