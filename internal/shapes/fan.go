package shapes

import (
	"math"

	"github.com/gogpu/gg"

	"tacboard-backend/internal/geom"
	"tacboard-backend/internal/models"
)

// fanArms is the number of arms every fan carries.
const fanArms = 4

// fanSpec configures a multi-arm anchored fan: points[0] is the centre and
// points[1..4] the arm endpoints. Arms keep fixed angular offsets from one
// another and each tracks its own length, clamped to MaxArm.
type fanSpec struct {
	Tool    string
	Offsets [fanArms]float64 // degrees, relative to arm 0
	MaxArm  float64
	Width   float64
	Color   string
}

func (s fanSpec) entry() Entry {
	return Entry{
		Tool:       s.Tool,
		Family:     FamilyFan,
		Color:      s.Color,
		Thickness:  2,
		Draw:       s.draw,
		HitTest:    s.hitTest,
		Reposition: s.reposition,
		Spawn:      s.spawn,
	}
}

func (s fanSpec) spawn(at geom.Point, scale float64) []geom.Point {
	pts := make([]geom.Point, 0, fanArms+1)
	pts = append(pts, at)
	for _, deg := range s.Offsets {
		pts = append(pts, at.Polar(geom.Deg(deg), s.MaxArm*scale))
	}
	return pts
}

func (s fanSpec) draw(c Canvas, o models.DrawingObject, scale float64, f RenderFlags) {
	if len(o.Points) < fanArms+1 {
		return
	}
	center := o.Points[0]
	hex := colorOf(o, s.Color)
	alpha := o.Alpha()

	setColor(c, hex, alpha)
	c.SetLineWidth(s.Width * scale)
	c.SetLineCap(gg.LineCapRound)
	for _, arm := range o.Points[1 : fanArms+1] {
		end := clampArm(center, arm, s.MaxArm*scale)
		c.MoveTo(center.X, center.Y)
		c.LineTo(end.X, end.Y)
	}
	_ = c.Stroke()
	c.SetLineCap(gg.LineCapButt)

	selected := f.Selected != 0 && o.ID == f.Selected
	for _, arm := range o.Points[1 : fanArms+1] {
		drawKnob(c, clampArm(center, arm, s.MaxArm*scale), scale, hex, selected)
	}
	drawIcon(c, AbilityIconKey(s.Tool), center, defaultIconSize*scale, hex, alpha, f)
}

// hitTest checks arm tips first, then the centre, then the arm bodies.
func (s fanSpec) hitTest(p geom.Point, o models.DrawingObject, scale float64) (Grab, bool) {
	if len(o.Points) < fanArms+1 {
		return Grab{}, false
	}
	center := o.Points[0]
	for i, arm := range o.Points[1 : fanArms+1] {
		if p.Distance(arm) <= HandleRadius {
			return Grab{Mode: GrabMode{Kind: GrabArm, Index: i}, Offset: p.Sub(arm)}, true
		}
	}
	if p.Distance(center) <= math.Max(HandleRadius, defaultIconSize*scale/2) {
		return Grab{Mode: GrabMode{Kind: GrabTranslate}, Offset: p.Sub(center)}, true
	}
	half := math.Max(s.Width*scale/2, HandleRadius/2)
	for _, arm := range o.Points[1 : fanArms+1] {
		if geom.SegmentDistance(p, center, arm) <= half {
			return Grab{Mode: GrabMode{Kind: GrabTranslate}, Offset: p.Sub(center)}, true
		}
	}
	return Grab{}, false
}

// reposition rotates every arm by the angle the grabbed arm moved through,
// keeping each arm's own length. The centre only moves on translate.
func (s fanSpec) reposition(o models.DrawingObject, p geom.Point, mode GrabMode, offset geom.Point, scale float64) models.DrawingObject {
	if len(o.Points) < fanArms+1 {
		return unchanged(o)
	}
	switch mode.Kind {
	case GrabTranslate:
		return translateBy(o, 0, p, offset)
	case GrabArm:
		if mode.Index < 0 || mode.Index >= fanArms {
			return unchanged(o)
		}
		center := o.Points[0]
		target := p.Sub(offset)
		if target == center {
			return unchanged(o)
		}
		delta := center.Angle(target) - center.Angle(o.Points[1+mode.Index])
		maxLen := s.MaxArm * scale

		pts := make([]geom.Point, len(o.Points))
		copy(pts, o.Points)
		for i := 1; i <= fanArms; i++ {
			arm := o.Points[i]
			length := math.Min(center.Distance(arm), maxLen)
			pts[i] = center.Polar(center.Angle(arm)+delta, length)
		}
		o.Points = pts
		return o
	}
	return unchanged(o)
}

func clampArm(center, arm geom.Point, maxLen float64) geom.Point {
	if center.Distance(arm) <= maxLen {
		return arm
	}
	return center.Polar(center.Angle(arm), maxLen)
}
