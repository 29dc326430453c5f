// Package shapes holds the shape catalog: one entry per annotation tool,
// each supplying draw, hit-test and reposition rules, plus the dispatch
// helpers that apply them to a whole annotation array.
//
// Every size in an entry is expressed in map-space pixels at mapScale 1
// and multiplied by the caller's mapScale. Stored coordinates are never
// rescaled.
package shapes

import (
	"sort"

	"github.com/gogpu/gg"

	"tacboard-backend/internal/geom"
	"tacboard-backend/internal/models"
)

// HandleRadius is the hit tolerance around point handles, in map pixels.
// It is deliberately not multiplied by mapScale.
const HandleRadius = 10.0

// Canvas is the drawing surface shapes paint onto. *gg.Context satisfies it.
type Canvas interface {
	Push()
	Pop()
	Translate(x, y float64)
	Rotate(angle float64)
	TransformPoint(x, y float64) (float64, float64)

	SetRGBA(r, g, b, a float64)
	SetLineWidth(width float64)
	SetLineCap(lineCap gg.LineCap)
	SetDash(lengths ...float64)

	MoveTo(x, y float64)
	LineTo(x, y float64)
	ClosePath()
	DrawCircle(x, y, r float64)
	DrawRectangle(x, y, w, h float64)
	Fill() error
	FillPreserve() error
	Stroke() error

	DrawImageEx(img *gg.ImageBuf, opts gg.DrawImageOptions)
	DrawStringAnchored(s string, x, y, ax, ay float64)
}

// ImageSource resolves an asset key to a decoded image. Renderers only
// read from it; a miss means "draw a placeholder".
type ImageSource interface {
	Image(key string) (*gg.ImageBuf, bool)
}

// RenderFlags carries per-frame render state shared by every shape.
type RenderFlags struct {
	Selected  int64
	Rotated   bool
	MapWidth  float64
	MapHeight float64
	Images    ImageSource
}

func (f RenderFlags) image(key string) (*gg.ImageBuf, bool) {
	if f.Images == nil || key == "" {
		return nil, false
	}
	return f.Images.Image(key)
}

// GrabKind names the part of a shape a pointer holds.
type GrabKind string

const (
	GrabTranslate GrabKind = "translate"
	GrabRotate    GrabKind = "rotate"
	GrabVertex    GrabKind = "vertex"
	GrabArm       GrabKind = "arm"
	GrabIcon      GrabKind = "icon"
)

// GrabMode is a grab kind plus the index of the vertex or arm it targets.
type GrabMode struct {
	Kind  GrabKind `json:"kind"`
	Index int      `json:"index,omitempty"`
}

// Grab describes what the pointer holds between pointer-down and pointer-up.
type Grab struct {
	ObjectID int64      `json:"objectId"`
	Mode     GrabMode   `json:"mode"`
	Offset   geom.Point `json:"offset"`
}

// Family groups variants that share geometry rules.
type Family string

const (
	FamilyZone    Family = "zone"
	FamilyBeam    Family = "beam"
	FamilyFan     Family = "fan"
	FamilyPolygon Family = "polygon"
	FamilyStroke  Family = "stroke"
	FamilyRect    Family = "rect"
)

// ability reports whether the family holds ability variants, which carry
// an icon.
func (f Family) ability() bool {
	switch f {
	case FamilyZone, FamilyBeam, FamilyFan, FamilyPolygon:
		return true
	}
	return false
}

type (
	DrawFunc       func(c Canvas, o models.DrawingObject, scale float64, f RenderFlags)
	HitTestFunc    func(p geom.Point, o models.DrawingObject, scale float64) (Grab, bool)
	RepositionFunc func(o models.DrawingObject, p geom.Point, mode GrabMode, offset geom.Point, scale float64) models.DrawingObject
	SpawnFunc      func(at geom.Point, scale float64) []geom.Point
	EraseFunc      func(o models.DrawingObject, p geom.Point, radius float64) bool
)

// Entry is the catalog record for one tool.
type Entry struct {
	Tool       string
	Family     Family
	Color      string
	Thickness  float64
	Draw       DrawFunc
	HitTest    HitTestFunc
	Reposition RepositionFunc
	Spawn      SpawnFunc
	// Erase is nil for variants the eraser ignores.
	Erase EraseFunc
}

// NewObject builds a well-formed object of this variant at the given point.
func (e Entry) NewObject(at geom.Point, scale float64) models.DrawingObject {
	return models.DrawingObject{
		ID:        models.NewObjectID(),
		Tool:      e.Tool,
		Points:    e.Spawn(at, scale),
		Color:     e.Color,
		Thickness: e.Thickness,
		Opacity:   1,
		Subtype:   models.SubtypeAbility,
	}
}

// Catalog maps a tool discriminant to its entry. It is built once and
// never mutated afterwards.
type Catalog struct {
	entries map[string]Entry
}

var defaultCatalog = buildCatalog()

// Default returns the catalog of every known variant.
func Default() *Catalog {
	return defaultCatalog
}

func buildCatalog() *Catalog {
	c := &Catalog{entries: make(map[string]Entry)}
	for _, e := range plainEntries() {
		c.entries[e.Tool] = e
	}
	for _, z := range zoneSpecs {
		c.entries[z.Tool] = z.entry()
	}
	for _, b := range beamSpecs {
		c.entries[b.Tool] = b.entry()
	}
	for _, f := range fanSpecs {
		c.entries[f.Tool] = f.entry()
	}
	for _, p := range polygonSpecs {
		c.entries[p.Tool] = p.entry()
	}
	return c
}

// Lookup returns the entry for a tool.
func (c *Catalog) Lookup(tool string) (Entry, bool) {
	e, ok := c.entries[tool]
	return e, ok
}

// Tools lists every registered tool in sorted order.
func (c *Catalog) Tools() []string {
	tools := make([]string, 0, len(c.entries))
	for t := range c.entries {
		tools = append(tools, t)
	}
	sort.Strings(tools)
	return tools
}

// ByFamily lists the tools belonging to one family in sorted order.
func (c *Catalog) ByFamily(f Family) []string {
	var tools []string
	for t, e := range c.entries {
		if e.Family == f {
			tools = append(tools, t)
		}
	}
	sort.Strings(tools)
	return tools
}
