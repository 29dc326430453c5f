package shapes

import (
	"math"

	"tacboard-backend/internal/geom"
	"tacboard-backend/internal/models"
)

// RenderAll paints objs bottom-to-top. Each object runs inside its own
// Push/Pop with freshly reset stroke state. When the map is rotated the
// whole layer is turned 180 degrees about the map centre.
func (c *Catalog) RenderAll(cv Canvas, objs []models.DrawingObject, scale float64, f RenderFlags) {
	cv.Push()
	defer cv.Pop()
	if f.Rotated {
		cv.Translate(f.MapWidth, f.MapHeight)
		cv.Rotate(math.Pi)
	}
	for _, o := range objs {
		cv.Push()
		resetStyle(cv)
		c.drawOne(cv, o, scale, f)
		cv.Pop()
	}
	resetStyle(cv)
}

func (c *Catalog) drawOne(cv Canvas, o models.DrawingObject, scale float64, f RenderFlags) {
	switch o.Tool {
	case ToolImage:
		drawImageToken(cv, o, f)
	case ToolText:
		drawTextToken(cv, o, f)
	default:
		if e, ok := c.entries[o.Tool]; ok {
			e.Draw(cv, o, scale, f)
		}
	}
}

// HitTest tests a single object.
func (c *Catalog) HitTest(p geom.Point, o models.DrawingObject, scale float64) (Grab, bool) {
	var (
		g  Grab
		ok bool
	)
	if IsToken(o.Tool) {
		g, ok = hitToken(p, o)
	} else if e, found := c.entries[o.Tool]; found {
		g, ok = e.HitTest(p, o, scale)
	}
	if !ok {
		return Grab{}, false
	}
	g.ObjectID = o.ID
	return g, true
}

// HitTestAll returns the grab on the topmost object under p.
func (c *Catalog) HitTestAll(p geom.Point, objs []models.DrawingObject, scale float64) (Grab, bool) {
	for i := len(objs) - 1; i >= 0; i-- {
		if g, ok := c.HitTest(p, objs[i], scale); ok {
			return g, true
		}
	}
	return Grab{}, false
}

// RepositionOne applies a live grab to the object it targets.
func (c *Catalog) RepositionOne(o models.DrawingObject, p geom.Point, g Grab, scale float64) models.DrawingObject {
	if IsToken(o.Tool) {
		return repositionToken(o, p, g.Mode, g.Offset)
	}
	e, ok := c.entries[o.Tool]
	if !ok {
		return o
	}
	return e.Reposition(o, p, g.Mode, g.Offset, scale)
}

// Erasable reports whether the eraser affects objects of this tool.
func (c *Catalog) Erasable(tool string) bool {
	e, ok := c.entries[tool]
	return ok && e.Erase != nil
}

// EraseAt removes every erasable object touched by a disc of radius around
// p. When nothing matches the input slice itself is returned.
func (c *Catalog) EraseAt(objs []models.DrawingObject, p geom.Point, radius float64) []models.DrawingObject {
	hit := -1
	for i, o := range objs {
		if c.erases(o, p, radius) {
			hit = i
			break
		}
	}
	if hit < 0 {
		return objs
	}
	out := make([]models.DrawingObject, 0, len(objs)-1)
	out = append(out, objs[:hit]...)
	for _, o := range objs[hit+1:] {
		if !c.erases(o, p, radius) {
			out = append(out, o)
		}
	}
	return out
}

func (c *Catalog) erases(o models.DrawingObject, p geom.Point, radius float64) bool {
	e, ok := c.entries[o.Tool]
	return ok && e.Erase != nil && e.Erase(o, p, radius)
}

// ImageKeys lists the asset keys needed to draw objs, without duplicates
// and in first-use order.
func (c *Catalog) ImageKeys(objs []models.DrawingObject) []string {
	seen := make(map[string]bool)
	var keys []string
	add := func(k string) {
		if k != "" && !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	for _, o := range objs {
		if o.Tool == ToolImage {
			add(o.ImageSrc)
			continue
		}
		if e, ok := c.entries[o.Tool]; ok && e.Family.ability() {
			add(AbilityIconKey(o.Tool))
		}
	}
	return keys
}
