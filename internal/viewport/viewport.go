// Package viewport converts pointer positions into map space and keeps the
// independent view zoom/pan of the canvas container.
package viewport

import (
	"tacboard-backend/internal/geom"
)

const (
	MinZoom = 0.1
	MaxZoom = 5.0

	// wheelStep is the zoom factor applied per wheel notch.
	wheelStep = 1.1
)

// Size is an intrinsic canvas size in pixels.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Pipeline maps client coordinates onto the map. CanvasRect is the
// canvas's on-screen box in display pixels; Intrinsic is its backing
// resolution, which equals the background image's native size.
type Pipeline struct {
	CanvasRect geom.Rect
	Intrinsic  Size
	Rotated    bool
}

func (p Pipeline) ratio() (float64, float64) {
	rx, ry := 1.0, 1.0
	if p.CanvasRect.Width > 0 {
		rx = p.Intrinsic.Width / p.CanvasRect.Width
	}
	if p.CanvasRect.Height > 0 {
		ry = p.Intrinsic.Height / p.CanvasRect.Height
	}
	return rx, ry
}

// ToMap converts a client position to map space. With the rotation flag
// on, both axes are mirrored because the background is swapped for a
// pre-rendered reversed asset.
func (p Pipeline) ToMap(client geom.Point) geom.Point {
	rx, ry := p.ratio()
	m := geom.Point{
		X: (client.X - p.CanvasRect.X) * rx,
		Y: (client.Y - p.CanvasRect.Y) * ry,
	}
	if p.Rotated {
		m = Mirror(m, p.Intrinsic)
	}
	return m
}

// ToClient is the inverse of ToMap.
func (p Pipeline) ToClient(m geom.Point) geom.Point {
	if p.Rotated {
		m = Mirror(m, p.Intrinsic)
	}
	rx, ry := p.ratio()
	return geom.Point{
		X: m.X/rx + p.CanvasRect.X,
		Y: m.Y/ry + p.CanvasRect.Y,
	}
}

// Mirror reflects a map point through the centre of the map.
func Mirror(m geom.Point, size Size) geom.Point {
	return geom.Point{X: size.Width - m.X, Y: size.Height - m.Y}
}

// View is the container transform: screen = Pan + Zoom*local. It never
// feeds into map coordinates; the pipeline reads the transformed canvas
// rect instead.
type View struct {
	Zoom float64    `json:"zoom"`
	Pan  geom.Point `json:"pan"`
}

// NewView returns the identity view.
func NewView() View {
	return View{Zoom: 1}
}

// ZoomAt scales the view by factor keeping the point under cursor fixed.
func (v View) ZoomAt(cursor geom.Point, factor float64) View {
	if v.Zoom <= 0 {
		v.Zoom = 1
	}
	next := geom.Clamp(v.Zoom*factor, MinZoom, MaxZoom)
	local := cursor.Sub(v.Pan).Scale(1 / v.Zoom)
	return View{Zoom: next, Pan: cursor.Sub(local.Scale(next))}
}

// Wheel applies a mouse-wheel delta: negative deltaY zooms in.
func (v View) Wheel(cursor geom.Point, deltaY float64) View {
	switch {
	case deltaY < 0:
		return v.ZoomAt(cursor, wheelStep)
	case deltaY > 0:
		return v.ZoomAt(cursor, 1/wheelStep)
	}
	return v
}

// PanBy shifts the view by a screen-space delta.
func (v View) PanBy(delta geom.Point) View {
	v.Pan = v.Pan.Add(delta)
	return v
}

// Apply maps a container-local point to the screen.
func (v View) Apply(local geom.Point) geom.Point {
	return v.Pan.Add(local.Scale(v.Zoom))
}

// CanvasRect returns the on-screen box of a canvas laid out at origin with
// the given unzoomed display size.
func (v View) CanvasRect(origin geom.Point, display Size) geom.Rect {
	tl := v.Apply(origin)
	return geom.Rect{X: tl.X, Y: tl.Y, Width: display.Width * v.Zoom, Height: display.Height * v.Zoom}
}
