package shapes

import (
	"image"
	"math"
	"testing"

	"github.com/gogpu/gg"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tacboard-backend/internal/geom"
	"tacboard-backend/internal/models"
)

const eps = 1e-6

// recordCanvas is a Canvas that only tracks state balance.
type recordCanvas struct {
	depth    int
	maxDepth int
	pushes   int
	strokes  int
	fills    int
	images   int
	texts    []string
}

func (r *recordCanvas) Push() {
	r.depth++
	r.pushes++
	if r.depth > r.maxDepth {
		r.maxDepth = r.depth
	}
}
func (r *recordCanvas) Pop()                                            { r.depth-- }
func (r *recordCanvas) Translate(x, y float64)                          {}
func (r *recordCanvas) Rotate(angle float64)                            {}
func (r *recordCanvas) TransformPoint(x, y float64) (float64, float64)  { return x, y }
func (r *recordCanvas) SetRGBA(_, _, _, _ float64)                      {}
func (r *recordCanvas) SetLineWidth(float64)                            {}
func (r *recordCanvas) SetLineCap(gg.LineCap)                           {}
func (r *recordCanvas) SetDash(...float64)                              {}
func (r *recordCanvas) MoveTo(x, y float64)                             {}
func (r *recordCanvas) LineTo(x, y float64)                             {}
func (r *recordCanvas) ClosePath()                                      {}
func (r *recordCanvas) DrawCircle(x, y, rad float64)                    {}
func (r *recordCanvas) DrawRectangle(x, y, w, h float64)                {}
func (r *recordCanvas) Fill() error                                     { r.fills++; return nil }
func (r *recordCanvas) FillPreserve() error                             { r.fills++; return nil }
func (r *recordCanvas) Stroke() error                                   { r.strokes++; return nil }
func (r *recordCanvas) DrawImageEx(*gg.ImageBuf, gg.DrawImageOptions)   { r.images++ }
func (r *recordCanvas) DrawStringAnchored(s string, _, _, _, _ float64) { r.texts = append(r.texts, s) }

func obj(tool string, pts ...geom.Point) models.DrawingObject {
	return models.DrawingObject{ID: models.NewObjectID(), Tool: tool, Points: pts, Opacity: 1}
}

func TestCatalogCoversEveryFamily(t *testing.T) {
	cat := Default()
	assert.Len(t, cat.ByFamily(FamilyZone), len(zoneSpecs))
	assert.Len(t, cat.ByFamily(FamilyBeam), len(beamSpecs))
	assert.Len(t, cat.ByFamily(FamilyFan), len(fanSpecs))
	assert.Len(t, cat.ByFamily(FamilyPolygon), len(polygonSpecs))
	assert.Equal(t, []string{ToolRect}, cat.ByFamily(FamilyRect))

	_, ok := cat.Lookup("killjoy_lockdown")
	assert.True(t, ok)
	_, ok = cat.Lookup("not_a_tool")
	assert.False(t, ok)
}

func TestZoneTranslateIsExact(t *testing.T) {
	cat := Default()
	pointer := geom.Pt(333.3, 17.7)
	offset := geom.Pt(4.1, -2.2)

	for _, tool := range cat.ByFamily(FamilyZone) {
		t.Run(tool, func(t *testing.T) {
			e, _ := cat.Lookup(tool)
			o := e.NewObject(geom.Pt(100, 200), 1)
			o.Color = "#123456"
			got := cat.RepositionOne(o, pointer, Grab{Mode: GrabMode{Kind: GrabTranslate}, Offset: offset}, 1)

			require.Len(t, got.Points, 1)
			assert.Equal(t, pointer.Sub(offset), got.Points[0])

			got.Points = o.Points
			assert.True(t, cmp.Equal(o, got), cmp.Diff(o, got))
		})
	}
}

func TestFixedBeamRotationKeepsLength(t *testing.T) {
	cat := Default()
	for _, bs := range beamSpecs {
		if bs.Handle != HandleFixed {
			continue
		}
		for _, scale := range []float64{1, 0.75} {
			o := cat.mustNew(t, bs.Tool, geom.Pt(400, 300), scale)
			for i := 0; i < 24; i++ {
				theta := float64(i) * math.Pi / 12
				dist := 5 + float64(i)*37
				p := o.Points[0].Polar(theta, dist)
				o = cat.RepositionOne(o, p, Grab{Mode: GrabMode{Kind: GrabRotate}}, scale)
				assert.InDelta(t, bs.Length*scale, o.Points[0].Distance(o.Points[1]), eps, bs.Tool)
				assert.Equal(t, geom.Pt(400, 300), o.Points[0])
			}
		}
	}
}

func TestTrackedBeamClampsToMax(t *testing.T) {
	cat := Default()
	o := obj("cypher_trapwire", geom.Pt(0, 0), geom.Pt(20, 0))
	g := Grab{Mode: GrabMode{Kind: GrabRotate}}

	got := cat.RepositionOne(o, geom.Pt(0, 50), g, 1)
	assert.InDelta(t, 50, got.Points[1].Y, eps)

	got = cat.RepositionOne(o, geom.Pt(0, 500), g, 1)
	assert.InDelta(t, 90, got.Points[0].Distance(got.Points[1]), eps)
}

func TestBeamRotateTowardPointer(t *testing.T) {
	cat := Default()
	o := obj("neon_fast_lane", geom.Pt(100, 100), geom.Pt(200, 100))

	got := cat.RepositionOne(o, geom.Pt(100, -150), Grab{Mode: GrabMode{Kind: GrabRotate}}, 1)

	assert.Equal(t, geom.Pt(100, 100), got.Points[0])
	assert.InDelta(t, 100, got.Points[1].X, eps)
	assert.InDelta(t, 100-350, got.Points[1].Y, eps)
	assert.Equal(t, geom.Pt(200, 100), o.Points[1], "input must not be mutated")
}

func TestBeamTranslateMovesHandle(t *testing.T) {
	cat := Default()
	o := obj("breach_fault_line", geom.Pt(100, 100), geom.Pt(150, 120))
	g, ok := cat.HitTest(geom.Pt(101, 101), o, 1)
	require.True(t, ok)
	require.Equal(t, GrabTranslate, g.Mode.Kind)

	got := cat.RepositionOne(o, geom.Pt(301, 51), g, 1)
	assert.Equal(t, geom.Pt(300, 50), got.Points[0])
	assert.InDelta(t, 350, got.Points[1].X, eps)
	assert.InDelta(t, 70, got.Points[1].Y, eps)
}

func TestFreshObjectsHitAtTheirPoints(t *testing.T) {
	cat := Default()
	for _, tool := range cat.Tools() {
		for _, scale := range []float64{1, 0.5, 1.6} {
			o := cat.mustNew(t, tool, geom.Pt(500, 500), scale)
			for i, p := range o.Points {
				g, ok := cat.HitTest(p, o, scale)
				assert.True(t, ok, "%s point %d at scale %v", tool, i, scale)
				assert.Equal(t, o.ID, g.ObjectID)
			}
		}
	}
}

func TestFanArmDragRotatesAllArms(t *testing.T) {
	cat := Default()
	o := cat.mustNew(t, "deadlock_barrier_mesh", geom.Pt(200, 200), 1)
	center := o.Points[0]
	// give arm 2 its own shorter length
	o.Points[3] = center.Polar(center.Angle(o.Points[3]), 40)

	delta := geom.Deg(30)
	target := center.Polar(center.Angle(o.Points[1])+delta, 70)
	g, ok := cat.HitTest(o.Points[1], o, 1)
	require.True(t, ok)
	require.Equal(t, GrabMode{Kind: GrabArm, Index: 0}, g.Mode)

	got := cat.RepositionOne(o, target.Add(g.Offset), g, 1)

	assert.Equal(t, center, got.Points[0])
	for i := 1; i <= fanArms; i++ {
		before, after := o.Points[i], got.Points[i]
		assert.InDelta(t, center.Distance(before), center.Distance(after), eps, "arm %d length", i)
		turned := geom.NormalizeAngle(center.Angle(after) - center.Angle(before))
		assert.InDelta(t, delta, turned, eps, "arm %d angle", i)
	}
}

func TestFanTranslateMovesAllPoints(t *testing.T) {
	cat := Default()
	o := cat.mustNew(t, "deadlock_barrier_mesh", geom.Pt(200, 200), 1)
	got := cat.RepositionOne(o, geom.Pt(250, 180), Grab{Mode: GrabMode{Kind: GrabTranslate}}, 1)
	for i := range o.Points {
		assert.InDelta(t, o.Points[i].X+50, got.Points[i].X, eps)
		assert.InDelta(t, o.Points[i].Y-20, got.Points[i].Y, eps)
	}
}

func square() models.DrawingObject {
	return obj("area_polygon",
		geom.Pt(0, 0), geom.Pt(100, 0), geom.Pt(100, 100), geom.Pt(0, 100),
		geom.Pt(50, 50))
}

func TestPolygonIconOutsideIsRejected(t *testing.T) {
	cat := Default()
	o := square()
	g := Grab{Mode: GrabMode{Kind: GrabIcon}}

	got := cat.RepositionOne(o, geom.Pt(150, 50), g, 1)
	assert.Equal(t, geom.Pt(50, 50), got.Points[4])

	got = cat.RepositionOne(o, geom.Pt(20, 70), g, 1)
	assert.Equal(t, geom.Pt(20, 70), got.Points[4])
}

func TestPolygonVertexDragKeepsIconInside(t *testing.T) {
	cat := Default()
	o := square()
	o.Points[4] = geom.Pt(90, 90)

	// pulling the far corner in leaves (90,90) outside; the icon recentres
	got := cat.RepositionOne(o, geom.Pt(40, 40), Grab{Mode: GrabMode{Kind: GrabVertex, Index: 2}}, 1)
	assert.Equal(t, geom.Pt(40, 40), got.Points[2])
	assert.True(t, geom.PointInPolygon(got.Points[4], got.Points[:4]))
	assert.Equal(t, geom.Pt(90, 90), o.Points[4])
}

func TestPolygonBodyTranslate(t *testing.T) {
	cat := Default()
	o := square()
	g, ok := cat.HitTest(geom.Pt(20, 80), o, 1)
	require.True(t, ok)
	require.Equal(t, GrabTranslate, g.Mode.Kind)

	got := cat.RepositionOne(o, geom.Pt(30, 90), g, 1)
	assert.Equal(t, geom.Pt(10, 10), got.Points[0])
	assert.Equal(t, geom.Pt(60, 60), got.Points[4])
}

func TestUnknownGrabModeIsNoop(t *testing.T) {
	cat := Default()
	for _, tool := range cat.Tools() {
		o := cat.mustNew(t, tool, geom.Pt(10, 10), 1)
		got := cat.RepositionOne(o, geom.Pt(99, 99), Grab{Mode: GrabMode{Kind: "spin"}}, 1)
		assert.True(t, cmp.Equal(o, got), tool)
	}
}

func TestMalformedObjectsAreSkipped(t *testing.T) {
	cat := Default()
	rc := &recordCanvas{}
	for _, tool := range cat.Tools() {
		o := models.DrawingObject{ID: 1, Tool: tool}
		assert.NotPanics(t, func() {
			cat.RenderAll(rc, []models.DrawingObject{o}, 1, RenderFlags{})
			_, ok := cat.HitTest(geom.Pt(0, 0), o, 1)
			assert.False(t, ok, tool)
			for _, k := range []GrabKind{GrabTranslate, GrabRotate, GrabVertex, GrabArm, GrabIcon} {
				cat.RepositionOne(o, geom.Pt(5, 5), Grab{Mode: GrabMode{Kind: k, Index: 3}}, 1)
			}
			cat.EraseAt([]models.DrawingObject{o}, geom.Pt(0, 0), 10)
		}, tool)
	}
	assert.Zero(t, rc.depth)
}

func TestEraseStroke(t *testing.T) {
	cat := Default()
	pen := obj(ToolPen, geom.Pt(0, 0), geom.Pt(10, 0), geom.Pt(10, 10))
	pen.Thickness = 4
	objs := []models.DrawingObject{pen}

	assert.Empty(t, cat.EraseAt(objs, geom.Pt(10, 0), 10))
}

func TestEraseMissReturnsInput(t *testing.T) {
	cat := Default()
	objs := []models.DrawingObject{
		obj(ToolPen, geom.Pt(0, 0), geom.Pt(10, 0)),
		obj(ToolRect, geom.Pt(100, 100), geom.Pt(200, 150)),
	}
	got := cat.EraseAt(objs, geom.Pt(500, 500), 10)
	require.Len(t, got, 2)
	assert.Same(t, &objs[0], &got[0])
}

func TestEraseSkipsAbilitiesAndTokens(t *testing.T) {
	cat := Default()
	objs := []models.DrawingObject{
		obj("sova_recon_bolt", geom.Pt(50, 50)),
		{ID: 2, Tool: ToolImage, X: 40, Y: 40, Width: 20, Height: 20},
		obj(ToolRect, geom.Pt(45, 45), geom.Pt(60, 60)),
	}
	got := cat.EraseAt(objs, geom.Pt(50, 50), 5)
	require.Len(t, got, 2)
	assert.Equal(t, "sova_recon_bolt", got[0].Tool)
	assert.Equal(t, ToolImage, got[1].Tool)
	assert.False(t, cat.Erasable("sova_recon_bolt"))
	assert.True(t, cat.Erasable(ToolDashedLine))
}

func TestHitTestAllPrefersTopmost(t *testing.T) {
	cat := Default()
	bottom := obj("omen_dark_cover", geom.Pt(100, 100))
	top := obj("brimstone_sky_smoke", geom.Pt(110, 100))
	objs := []models.DrawingObject{bottom, top}

	g, ok := cat.HitTestAll(geom.Pt(105, 100), objs, 1)
	require.True(t, ok)
	assert.Equal(t, top.ID, g.ObjectID)

	_, ok = cat.HitTestAll(geom.Pt(900, 900), objs, 1)
	assert.False(t, ok)
}

func TestZoneHitRadiusScales(t *testing.T) {
	cat := Default()
	o := obj("killjoy_lockdown", geom.Pt(0, 0))
	_, ok := cat.HitTest(geom.Pt(100, 0), o, 1)
	assert.True(t, ok)
	_, ok = cat.HitTest(geom.Pt(100, 0), o, 0.5)
	assert.False(t, ok)
}

func TestTokens(t *testing.T) {
	cat := Default()
	img := models.DrawingObject{ID: 7, Tool: ToolImage, X: 10, Y: 20, Width: 40, Height: 40}
	g, ok := cat.HitTest(geom.Pt(30, 30), img, 1)
	require.True(t, ok)
	assert.Equal(t, geom.Pt(20, 10), g.Offset)

	moved := cat.RepositionOne(img, geom.Pt(1000, 5), g, 1)
	assert.Equal(t, 980.0, moved.X)
	assert.Equal(t, -5.0, moved.Y)

	clamped := ClampToken(moved, geom.Rect{Width: 1000, Height: 800})
	assert.Equal(t, 960.0, clamped.X)
	assert.Equal(t, 0.0, clamped.Y)

	txt := models.DrawingObject{ID: 8, Tool: ToolText, X: 0, Y: 0, Text: "A\nsite", FontSize: 10}
	box := TokenBounds(txt)
	assert.InDelta(t, 24, box.Width, eps)
	assert.InDelta(t, 24, box.Height, eps)
	_, ok = cat.HitTest(geom.Pt(26, 26), txt, 1)
	assert.True(t, ok)

	beam := obj("sova_hunters_fury", geom.Pt(0, 0), geom.Pt(600, 0))
	assert.True(t, cmp.Equal(beam, ClampToken(beam, geom.Rect{Width: 10, Height: 10})))
}

func TestRenderAllBalancesState(t *testing.T) {
	cat := Default()
	var objs []models.DrawingObject
	for _, tool := range cat.Tools() {
		o := cat.mustNew(t, tool, geom.Pt(300, 300), 1)
		objs = append(objs, o)
	}
	objs = append(objs,
		models.DrawingObject{ID: 1, Tool: ToolImage, X: 1, Y: 1, Width: 32, Height: 32, ImageSrc: AgentKey("jett")},
		models.DrawingObject{ID: 2, Tool: ToolText, X: 5, Y: 5, Text: "go B\nlurk"},
		models.DrawingObject{ID: 3, Tool: "legacy_unknown", Points: []geom.Point{{X: 1, Y: 1}}},
	)

	rc := &recordCanvas{}
	cat.RenderAll(rc, objs, 1, RenderFlags{Rotated: true, MapWidth: 1024, MapHeight: 1024, Selected: objs[0].ID})

	assert.Zero(t, rc.depth)
	assert.GreaterOrEqual(t, rc.pushes, len(objs)+1)
	assert.Equal(t, []string{"go B", "lurk"}, rc.texts)
	assert.Zero(t, rc.images, "no image source means placeholders only")
}

type oneImage struct{ key string }

func (s oneImage) Image(key string) (*gg.ImageBuf, bool) {
	if key != s.key {
		return nil, false
	}
	return gg.ImageBufFromImage(image.NewRGBA(image.Rect(0, 0, 4, 4))), true
}

func TestRenderUsesReadyImages(t *testing.T) {
	cat := Default()
	rc := &recordCanvas{}
	objs := []models.DrawingObject{
		obj("viper_snake_bite", geom.Pt(50, 50)),
		obj("sage_slow_orb", geom.Pt(150, 50)),
	}
	cat.RenderAll(rc, objs, 1, RenderFlags{Images: oneImage{key: AbilityIconKey("sage_slow_orb")}})
	assert.Equal(t, 1, rc.images)
}

func TestRenderPaintsPixels(t *testing.T) {
	dc := gg.NewContext(200, 200)
	defer func() { _ = dc.Close() }()

	o := obj("sage_slow_orb", geom.Pt(100, 100))
	o.Color = "#ff0000"
	Default().RenderAll(dc, []models.DrawingObject{o}, 1, RenderFlags{MapWidth: 200, MapHeight: 200})
	require.NoError(t, dc.FlushGPU())

	r, g, _, a := dc.Image().At(125, 100).RGBA()
	assert.NotZero(t, a)
	assert.Greater(t, r, g)

	_, _, _, a = dc.Image().At(5, 5).RGBA()
	assert.Zero(t, a)
}

func (c *Catalog) mustNew(t *testing.T, tool string, at geom.Point, scale float64) models.DrawingObject {
	t.Helper()
	e, ok := c.Lookup(tool)
	require.True(t, ok, tool)
	return e.NewObject(at, scale)
}

func TestImageKeys(t *testing.T) {
	cat := Default()
	objs := []models.DrawingObject{
		{ID: 1, Tool: "sage_slow_orb", Points: []geom.Point{{X: 1, Y: 1}}},
		{ID: 2, Tool: ToolImage, ImageSrc: AgentKey("sova")},
		{ID: 3, Tool: ToolPen, Points: []geom.Point{{X: 1, Y: 1}, {X: 2, Y: 2}}},
		{ID: 4, Tool: "sage_slow_orb", Points: []geom.Point{{X: 5, Y: 5}}},
		{ID: 5, Tool: ToolImage},
	}
	assert.Equal(t, []string{AbilityIconKey("sage_slow_orb"), "/agents/sova.png"}, cat.ImageKeys(objs))
	assert.Empty(t, cat.ImageKeys(nil))
}
