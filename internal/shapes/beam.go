package shapes

import (
	"math"

	"github.com/gogpu/gg"

	"tacboard-backend/internal/geom"
	"tacboard-backend/internal/models"
)

// HandleMode decides how far from the anchor a rotated handle ends up.
type HandleMode int

const (
	// HandleFixed keeps the handle at the configured Length.
	HandleFixed HandleMode = iota
	// HandleTrack follows the pointer distance, clamped to Length.
	HandleTrack
	// HandlePreserve keeps whatever distance the handle already has.
	HandlePreserve
)

// BeamStyle selects how a beam is painted.
type BeamStyle int

const (
	BeamRect BeamStyle = iota
	BeamWall
	BeamTwinWall
	BeamWire
)

// beamSpec configures a two-point oriented beam: points[0] is the anchor,
// points[1] the direction handle. For HandleFixed, Length is the exact
// reach; for HandleTrack it is the maximum reach.
type beamSpec struct {
	Tool   string
	Length float64
	Width  float64
	Handle HandleMode
	Style  BeamStyle
	Color  string
}

func (b beamSpec) entry() Entry {
	return Entry{
		Tool:       b.Tool,
		Family:     FamilyBeam,
		Color:      b.Color,
		Thickness:  2,
		Draw:       b.draw,
		HitTest:    b.hitTest,
		Reposition: b.reposition,
		Spawn:      b.spawn,
	}
}

func (b beamSpec) spawn(at geom.Point, scale float64) []geom.Point {
	reach := b.Length * scale
	if b.Handle == HandleTrack {
		reach /= 2
	}
	return []geom.Point{at, at.Add(geom.Pt(reach, 0))}
}

// reach returns the painted length of the beam for the current handle.
func (b beamSpec) reach(anchor, handle geom.Point, scale float64) float64 {
	switch b.Handle {
	case HandleFixed:
		return b.Length * scale
	case HandleTrack:
		return math.Min(anchor.Distance(handle), b.Length*scale)
	default:
		return anchor.Distance(handle)
	}
}

func (b beamSpec) draw(c Canvas, o models.DrawingObject, scale float64, f RenderFlags) {
	if len(o.Points) < 2 {
		return
	}
	anchor, handle := o.Points[0], o.Points[1]
	angle := anchor.Angle(handle)
	length := b.reach(anchor, handle, scale)
	w := b.Width * scale
	hex := colorOf(o, b.Color)
	alpha := o.Alpha()
	th := thicknessOf(o, 2)

	c.Push()
	c.Translate(anchor.X, anchor.Y)
	c.Rotate(angle)
	switch b.Style {
	case BeamRect:
		setColor(c, hex, beamFillAlpha*alpha)
		c.DrawRectangle(0, -w/2, length, w)
		_ = c.FillPreserve()
		setColor(c, hex, alpha)
		c.SetLineWidth(th * scale)
		_ = c.Stroke()
	case BeamWall:
		setColor(c, hex, alpha)
		c.SetLineWidth(w)
		c.SetLineCap(gg.LineCapRound)
		c.MoveTo(0, 0)
		c.LineTo(length, 0)
		_ = c.Stroke()
	case BeamTwinWall:
		setColor(c, hex, beamFillAlpha*alpha)
		c.DrawRectangle(0, -w/2, length, w)
		_ = c.Fill()
		setColor(c, hex, alpha)
		c.SetLineWidth(th * scale)
		for _, y := range []float64{-w / 2, w / 2} {
			c.MoveTo(0, y)
			c.LineTo(length, y)
		}
		_ = c.Stroke()
	case BeamWire:
		setColor(c, hex, alpha)
		c.SetLineWidth(math.Max(w, th*scale/2))
		setDashed(c, th*scale)
		c.MoveTo(0, 0)
		c.LineTo(length, 0)
		_ = c.Stroke()
		c.SetDash()
		c.DrawCircle(0, 0, 3*scale)
		c.DrawCircle(length, 0, 3*scale)
		_ = c.Fill()
	}
	c.Pop()

	selected := f.Selected != 0 && o.ID == f.Selected
	drawKnob(c, anchor.Polar(angle, length), scale, hex, selected)
	drawIcon(c, AbilityIconKey(b.Tool), anchor, defaultIconSize*scale, hex, alpha, f)
}

// hitTest checks the handle first, then the anchor, then the beam body.
func (b beamSpec) hitTest(p geom.Point, o models.DrawingObject, scale float64) (Grab, bool) {
	if len(o.Points) < 2 {
		return Grab{}, false
	}
	anchor, handle := o.Points[0], o.Points[1]
	angle := anchor.Angle(handle)
	length := b.reach(anchor, handle, scale)
	tip := anchor.Polar(angle, length)

	if p.Distance(tip) <= HandleRadius || p.Distance(handle) <= HandleRadius {
		return Grab{Mode: GrabMode{Kind: GrabRotate}, Offset: p.Sub(handle)}, true
	}
	if p.Distance(anchor) <= math.Max(HandleRadius, defaultIconSize*scale/2) {
		return Grab{Mode: GrabMode{Kind: GrabTranslate}, Offset: p.Sub(anchor)}, true
	}

	// body: project onto the beam axis
	local := p.Sub(anchor).RotateAbout(geom.Point{}, -angle)
	half := math.Max(b.Width*scale/2, HandleRadius/2)
	if local.X >= 0 && local.X <= length && math.Abs(local.Y) <= half {
		return Grab{Mode: GrabMode{Kind: GrabTranslate}, Offset: p.Sub(anchor)}, true
	}
	return Grab{}, false
}

func (b beamSpec) reposition(o models.DrawingObject, p geom.Point, mode GrabMode, offset geom.Point, scale float64) models.DrawingObject {
	if len(o.Points) < 2 {
		return unchanged(o)
	}
	switch mode.Kind {
	case GrabTranslate:
		return translateBy(o, 0, p, offset)
	case GrabRotate:
		anchor, handle := o.Points[0], o.Points[1]
		if p == anchor {
			return unchanged(o)
		}
		var dist float64
		switch b.Handle {
		case HandleFixed:
			dist = b.Length * scale
		case HandleTrack:
			dist = math.Min(anchor.Distance(p), b.Length*scale)
		default:
			dist = anchor.Distance(handle)
		}
		return withPoint(o, 1, anchor.Polar(anchor.Angle(p), dist))
	}
	return unchanged(o)
}
