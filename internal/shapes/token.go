package shapes

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/gogpu/gg"

	"tacboard-backend/internal/geom"
	"tacboard-backend/internal/models"
)

// Token tools keep a direct x/y position instead of points.
const (
	ToolImage = "image"
	ToolText  = "text"
)

const (
	defaultFontSize  = 18.0
	glyphWidthRatio  = 0.6
	lineHeightRatio  = 1.2
	textHitPadding   = 4.0
	defaultTextColor = "#ffffff"
)

// FontSizer is implemented by canvases that can switch the face size
// before text is drawn.
type FontSizer interface {
	SetFontSize(size float64)
}

// IsToken reports whether tool is an image or text token.
func IsToken(tool string) bool {
	return tool == ToolImage || tool == ToolText
}

// TokenBounds returns the axis-aligned box of an image or text token. Text
// uses a glyph-count estimate rather than real font metrics.
func TokenBounds(o models.DrawingObject) geom.Rect {
	if o.Tool == ToolText {
		w, h := textExtent(o)
		return geom.Rect{X: o.X, Y: o.Y, Width: w, Height: h}
	}
	return geom.Rect{X: o.X, Y: o.Y, Width: o.Width, Height: o.Height}
}

func fontSizeOf(o models.DrawingObject) float64 {
	if o.FontSize > 0 {
		return o.FontSize
	}
	return defaultFontSize
}

func textLines(o models.DrawingObject) []string {
	if o.Text == "" {
		return []string{""}
	}
	return strings.Split(o.Text, "\n")
}

func textExtent(o models.DrawingObject) (float64, float64) {
	size := fontSizeOf(o)
	lines := textLines(o)
	longest := 1
	for _, l := range lines {
		if n := utf8.RuneCountInString(l); n > longest {
			longest = n
		}
	}
	return float64(longest) * size * glyphWidthRatio, float64(len(lines)) * size * lineHeightRatio
}

func hitToken(p geom.Point, o models.DrawingObject) (Grab, bool) {
	box := TokenBounds(o)
	if o.Tool == ToolText {
		box = box.Expand(textHitPadding)
	}
	if !box.Contains(p) {
		return Grab{}, false
	}
	return Grab{Mode: GrabMode{Kind: GrabTranslate}, Offset: p.Sub(geom.Pt(o.X, o.Y))}, true
}

func repositionToken(o models.DrawingObject, p geom.Point, mode GrabMode, offset geom.Point) models.DrawingObject {
	if mode.Kind != GrabTranslate {
		return o
	}
	at := p.Sub(offset)
	o.X, o.Y = at.X, at.Y
	return o
}

// ClampToken keeps a token's box inside bounds. Other objects are returned
// as is; ability shapes may legitimately extend off the map.
func ClampToken(o models.DrawingObject, bounds geom.Rect) models.DrawingObject {
	if !IsToken(o.Tool) {
		return o
	}
	box := TokenBounds(o)
	o.X = geom.Clamp(o.X, bounds.X, bounds.X+bounds.Width-box.Width)
	o.Y = geom.Clamp(o.Y, bounds.Y, bounds.Y+bounds.Height-box.Height)
	return o
}

func drawImageToken(c Canvas, o models.DrawingObject, f RenderFlags) {
	if o.Width <= 0 || o.Height <= 0 {
		return
	}
	center := TokenBounds(o).Center()
	c.Push()
	defer c.Pop()
	c.Translate(center.X, center.Y)
	angle := geom.Deg(o.Rotation)
	if f.Rotated {
		angle += math.Pi
	}
	c.Rotate(angle)

	if img, ok := f.image(o.ImageSrc); ok {
		c.DrawImageEx(img, gg.DrawImageOptions{
			X:         -o.Width / 2,
			Y:         -o.Height / 2,
			DstWidth:  o.Width,
			DstHeight: o.Height,
			Opacity:   o.Alpha(),
		})
	} else {
		drawPlaceholder(c, math.Min(o.Width, o.Height)/2, colorOf(o, placeholderColor), o.Alpha())
	}
	if f.Selected != 0 && o.ID == f.Selected {
		setColor(c, selectionColor, 1)
		c.SetLineWidth(2)
		c.DrawRectangle(-o.Width/2, -o.Height/2, o.Width, o.Height)
		_ = c.Stroke()
	}
}

// drawTextToken lays the text out in device space: glyphs ignore the
// canvas transform, so only the box centre goes through it.
func drawTextToken(c Canvas, o models.DrawingObject, f RenderFlags) {
	box := TokenBounds(o)
	if o.Background != "" {
		setColor(c, o.Background, o.Alpha())
		c.DrawRectangle(box.X, box.Y, box.Width, box.Height)
		_ = c.Fill()
	}
	if f.Selected != 0 && o.ID == f.Selected {
		setColor(c, selectionColor, 1)
		c.SetLineWidth(1)
		c.SetDash(4, 3)
		r := box.Expand(textHitPadding)
		c.DrawRectangle(r.X, r.Y, r.Width, r.Height)
		_ = c.Stroke()
		c.SetDash()
	}
	if o.Text == "" {
		return
	}

	size := fontSizeOf(o)
	if fs, ok := c.(FontSizer); ok {
		fs.SetFontSize(size)
	}
	setColor(c, colorOf(o, defaultTextColor), o.Alpha())

	cx, cy := c.TransformPoint(box.Center().X, box.Center().Y)
	lh := size * lineHeightRatio
	lines := textLines(o)
	top := cy - float64(len(lines))*lh/2

	x, ax := cx, 0.5
	switch o.TextAlign {
	case "left":
		x, ax = cx-box.Width/2, 0
	case "right":
		x, ax = cx+box.Width/2, 1
	}
	for i, line := range lines {
		c.DrawStringAnchored(line, x, top+(float64(i)+0.5)*lh, ax, 0.5)
	}
}
