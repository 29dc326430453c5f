package editor

import (
	"fmt"

	"github.com/google/go-cmp/cmp"

	"tacboard-backend/internal/geom"
	"tacboard-backend/internal/models"
	"tacboard-backend/internal/palette"
	"tacboard-backend/internal/shapes"
)

// PointerDown starts a gesture. It is ignored while another gesture is
// active and for the right button, which goes through ContextMenu.
func (e *Editor) PointerDown(ev Pointer) {
	if e.Interacting() || ev.Button == ButtonRight {
		return
	}
	e.endEdit()
	e.pending = models.CloneObjects(e.objects)
	m := e.ToMap(ev.Client)
	scale := e.MapScale()

	if e.shouldPan(ev) {
		e.state = Panning{Start: ev.Client, From: e.view}
		return
	}

	switch e.tool {
	case ToolSelect:
		if g, ok := e.catalog.HitTestAll(m, e.objects, scale); ok {
			e.state = Dragging{Grab: g}
			e.selected = g.ObjectID
		} else {
			e.selected = 0
			e.state = Panning{Start: ev.Client, From: e.view}
		}
		e.frames.Request(LayerMain)

	case ToolEraser:
		e.state = Erasing{}
		e.erase(m)

	case ToolPen, ToolLine, ToolArrow, ToolDashed, ToolRect:
		entry, ok := e.catalog.Lookup(drawTools[e.tool])
		if !ok {
			e.pending = nil
			return
		}
		o := entry.NewObject(m, scale)
		o.Subtype = ""
		o.Color = e.style.Color
		o.Thickness = e.style.Thickness
		e.state = Drawing{Object: o}
		e.frames.Request(LayerPreview)

	case ToolAgent:
		o, err := e.factory.Agent(e.agent, m, scale)
		if err != nil {
			e.pending = nil
			return
		}
		e.objects = append(e.objects, shapes.ClampToken(o, e.mapBounds()))
		e.commit(e.pending, false)
		e.pending = nil

	case ToolText:
		o := models.DrawingObject{
			ID:       models.NewObjectID(),
			Tool:     shapes.ToolText,
			X:        m.X,
			Y:        m.Y,
			Color:    e.style.Color,
			FontSize: e.style.FontSize,
			Opacity:  1,
		}
		// a draft: history and saves see it once SetText gives it text
		e.objects = append(e.objects, o)
		e.editing = o.ID
		e.selected = o.ID
		e.pending = nil
		e.frames.Request(LayerMain)

	default:
		e.pending = nil
	}
}

// shouldPan decides whether a press drags the view instead of using the
// tool.
func (e *Editor) shouldPan(ev Pointer) bool {
	if ev.Button == ButtonMiddle || e.tool == ToolPan {
		return true
	}
	if e.tool == ToolSelect {
		return false
	}
	return ev.Button == ButtonLeft && e.view.Zoom < e.panZoom
}

// PointerMove advances the active gesture and broadcasts the cursor.
func (e *Editor) PointerMove(ev Pointer) {
	m := e.ToMap(ev.Client)
	e.pub.CursorMoved(m)

	switch s := e.state.(type) {
	case Panning:
		e.view = s.From.PanBy(ev.Client.Sub(s.Start))
		e.frames.Request(LayerMain | LayerPreview | LayerOverlay)

	case Dragging:
		idx := models.IndexOf(e.objects, s.Grab.ObjectID)
		if idx < 0 {
			// removed under us; nothing left to drag
			e.state = Idle{}
			return
		}
		before := e.objects[idx]
		o := e.catalog.RepositionOne(before, m, s.Grab, e.MapScale())
		o = shapes.ClampToken(o, e.mapBounds())
		s.OverTrash = e.trash.Width > 0 && e.trash.Contains(ev.Client)
		e.state = s
		if cmp.Equal(before, o) {
			return
		}
		e.objects[idx] = o
		e.pub.ObjectMoved(o.Clone())
		e.frames.Request(LayerMain)

	case Drawing:
		o := s.Object
		if o.Tool == shapes.ToolPen {
			o.Points = append(o.Points, m)
		} else if len(o.Points) >= 2 {
			o.Points[1] = m
		}
		e.state = Drawing{Object: o}
		e.frames.Request(LayerPreview)

	case Erasing:
		e.erase(m)
	}
}

// PointerUp ends the gesture, commits history and saves, then lets any
// parked remote snapshot in.
func (e *Editor) PointerUp(ev Pointer) {
	if !e.Interacting() {
		return
	}
	switch s := e.state.(type) {
	case Dragging:
		if s.OverTrash {
			if idx := models.IndexOf(e.objects, s.Grab.ObjectID); idx >= 0 {
				e.objects = removeAt(e.objects, idx)
				e.selected = 0
			}
			e.commit(e.pending, true)
		} else {
			e.commit(e.pending, false)
		}

	case Drawing:
		o := s.Object
		if keepStroke(o) {
			e.objects = append(e.objects, o)
		}
		e.frames.Request(LayerPreview)
		e.commit(e.pending, false)

	case Erasing:
		e.commit(e.pending, false)
	}

	e.state = Idle{}
	e.pending = nil
	e.settle()
}

// PointerLeave cancels the gesture the same way a release does.
func (e *Editor) PointerLeave(ev Pointer) {
	e.PointerUp(ev)
}

// keepStroke rejects strokes too short to see.
func keepStroke(o models.DrawingObject) bool {
	if len(o.Points) < 2 {
		return false
	}
	if o.Tool == shapes.ToolPen {
		return true
	}
	return o.Points[0] != o.Points[1]
}

func (e *Editor) erase(m geom.Point) {
	next := e.catalog.EraseAt(e.objects, m, e.style.EraserRadius)
	if len(next) != len(e.objects) {
		e.objects = next
		e.frames.Request(LayerMain)
	}
}

// Wheel zooms the view around the cursor.
func (e *Editor) Wheel(ev Pointer, deltaY float64) {
	e.view = e.view.Wheel(ev.Client, deltaY)
	e.frames.Request(LayerMain | LayerPreview | LayerOverlay)
}

// ContextMenu deletes the topmost object under the pointer, whatever the
// tool. It reports whether something was deleted.
func (e *Editor) ContextMenu(ev Pointer) bool {
	if e.Interacting() {
		return false
	}
	g, ok := e.catalog.HitTestAll(e.ToMap(ev.Client), e.objects, e.MapScale())
	if !ok {
		return false
	}
	return e.deleteObject(g.ObjectID) == nil
}

// DoubleClick opens a text token for editing. It reports whether one was
// hit.
func (e *Editor) DoubleClick(ev Pointer) bool {
	g, ok := e.catalog.HitTestAll(e.ToMap(ev.Client), e.objects, e.MapScale())
	if !ok {
		return false
	}
	idx := models.IndexOf(e.objects, g.ObjectID)
	if e.objects[idx].Tool != shapes.ToolText {
		return false
	}
	if d, dragging := e.state.(Dragging); dragging && d.Grab.ObjectID == g.ObjectID {
		e.commit(e.pending, false)
		e.state = Idle{}
		e.pending = nil
		e.settle()
	}
	if e.editing != g.ObjectID {
		e.endEdit()
	}
	e.editing = g.ObjectID
	e.selected = g.ObjectID
	e.frames.Request(LayerMain)
	return true
}

// SetText commits an edit of a text token. Empty text removes the token.
func (e *Editor) SetText(id int64, text string) error {
	idx := models.IndexOf(e.objects, id)
	if idx < 0 {
		return fmt.Errorf("set text %d: %w", id, ErrNotFound)
	}
	before := models.CloneObjects(e.objects)
	if e.objects[idx].Text == "" {
		before = removeAt(before, idx)
	}
	if text == "" {
		e.objects = removeAt(e.objects, idx)
		e.selected = 0
	} else {
		e.objects[idx].Text = text
	}
	if e.editing == id {
		e.editing = 0
	}
	e.commit(before, false)
	return nil
}

// CancelEdit closes the open text edit without changing its text.
func (e *Editor) CancelEdit() {
	e.endEdit()
}

// endEdit closes the open text edit. A draft that never got text is
// removed; it was never committed.
func (e *Editor) endEdit() {
	id := e.editing
	if id == 0 {
		return
	}
	e.editing = 0
	idx := models.IndexOf(e.objects, id)
	if idx < 0 || e.objects[idx].Text != "" {
		return
	}
	e.objects = removeAt(e.objects, idx)
	if e.selected == id {
		e.selected = 0
	}
	e.frames.Request(LayerMain)
}

// DeleteSelected removes the selected object.
func (e *Editor) DeleteSelected() bool {
	if e.selected == 0 || e.Interacting() {
		return false
	}
	return e.deleteObject(e.selected) == nil
}

func (e *Editor) deleteObject(id int64) error {
	idx := models.IndexOf(e.objects, id)
	if idx < 0 {
		return ErrNotFound
	}
	if id == e.editing && e.objects[idx].Text == "" {
		e.endEdit()
		return nil
	}
	before := models.CloneObjects(e.objects)
	e.objects = removeAt(e.objects, idx)
	if e.selected == id {
		e.selected = 0
	}
	if e.editing == id {
		e.editing = 0
	}
	e.commit(before, true)
	return nil
}

// DragEnter starts following a palette drag.
func (e *Editor) DragEnter(p palette.Payload) {
	if !e.Interacting() {
		e.state = Placing{Payload: p}
	}
}

// DragLeave abandons a palette drag.
func (e *Editor) DragLeave() {
	if _, ok := e.state.(Placing); ok {
		e.state = Idle{}
		e.settle()
	}
}

// Drop inserts the object described by p at the drop point.
func (e *Editor) Drop(ev Pointer, p palette.Payload) (models.DrawingObject, error) {
	if _, placing := e.state.(Placing); e.Interacting() && !placing {
		return models.DrawingObject{}, ErrBusy
	}
	defer func() {
		e.state = Idle{}
		e.settle()
	}()
	e.endEdit()
	o, err := e.factory.New(p, e.ToMap(ev.Client), e.MapScale())
	if err != nil {
		return models.DrawingObject{}, err
	}
	o = shapes.ClampToken(o, e.mapBounds())
	before := models.CloneObjects(e.objects)
	e.objects = append(e.objects, o)
	e.commit(before, false)
	return o.Clone(), nil
}

func removeAt(objs []models.DrawingObject, i int) []models.DrawingObject {
	out := make([]models.DrawingObject, 0, len(objs)-1)
	out = append(out, objs[:i]...)
	return append(out, objs[i+1:]...)
}
