package viewport

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tacboard-backend/internal/geom"
)

const eps = 1e-6

func TestToMapScalesDisplayToIntrinsic(t *testing.T) {
	p := Pipeline{
		CanvasRect: geom.Rect{X: 50, Y: 20, Width: 512, Height: 512},
		Intrinsic:  Size{Width: 1024, Height: 1024},
	}
	m := p.ToMap(geom.Pt(150, 120))
	assert.InDelta(t, 200, m.X, eps)
	assert.InDelta(t, 200, m.Y, eps)

	back := p.ToClient(m)
	assert.InDelta(t, 150, back.X, eps)
	assert.InDelta(t, 120, back.Y, eps)
}

func TestToMapMirrorsWhenRotated(t *testing.T) {
	p := Pipeline{
		CanvasRect: geom.Rect{Width: 1024, Height: 768},
		Intrinsic:  Size{Width: 1024, Height: 768},
		Rotated:    true,
	}
	m := p.ToMap(geom.Pt(100, 40))
	assert.InDelta(t, 924, m.X, eps)
	assert.InDelta(t, 728, m.Y, eps)

	c := p.ToClient(m)
	assert.InDelta(t, 100, c.X, eps)
	assert.InDelta(t, 40, c.Y, eps)
}

func TestZeroSizedRectDoesNotDivideByZero(t *testing.T) {
	p := Pipeline{Intrinsic: Size{Width: 100, Height: 100}}
	assert.Equal(t, geom.Pt(3, 4), p.ToMap(geom.Pt(3, 4)))
}

func TestZoomKeepsCursorPointFixed(t *testing.T) {
	v := NewView().PanBy(geom.Pt(30, -10))
	cursor := geom.Pt(400, 300)
	local := cursor.Sub(v.Pan).Scale(1 / v.Zoom)

	for _, f := range []float64{1.1, 2, 0.5, 1.3} {
		v = v.ZoomAt(cursor, f)
		got := v.Apply(local)
		assert.InDelta(t, cursor.X, got.X, eps)
		assert.InDelta(t, cursor.Y, got.Y, eps)
	}
}

func TestZoomIsClamped(t *testing.T) {
	v := NewView()
	for i := 0; i < 100; i++ {
		v = v.Wheel(geom.Pt(10, 10), -1)
	}
	assert.Equal(t, MaxZoom, v.Zoom)
	for i := 0; i < 200; i++ {
		v = v.Wheel(geom.Pt(10, 10), 1)
	}
	assert.Equal(t, MinZoom, v.Zoom)
	assert.Equal(t, v, v.Wheel(geom.Pt(1, 1), 0))
}

func TestCanvasRectFollowsView(t *testing.T) {
	v := View{Zoom: 2, Pan: geom.Pt(10, 20)}
	r := v.CanvasRect(geom.Pt(0, 0), Size{Width: 300, Height: 200})
	assert.Equal(t, geom.Rect{X: 10, Y: 20, Width: 600, Height: 400}, r)

	// a pointer in the middle of the zoomed canvas hits the middle of the map
	p := Pipeline{CanvasRect: r, Intrinsic: Size{Width: 1024, Height: 1024}}
	m := p.ToMap(geom.Pt(310, 220))
	assert.InDelta(t, 512, m.X, eps)
	assert.InDelta(t, 512, m.Y, eps)
}

func TestBackgrounds(t *testing.T) {
	b, ok := LookupMap("bind")
	assert.True(t, ok)
	assert.Equal(t, "/maps/bind.png", b.Asset(false))
	assert.Equal(t, "/maps/bind_reversed.png", b.Asset(true))

	_, ok = LookupMap("atlantis")
	assert.False(t, ok)
	assert.Equal(t, DefaultMap, MapOrDefault("atlantis").Name)
	assert.Contains(t, MapNames(), "haven")
}
