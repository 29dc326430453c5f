// Package editor is the pointer-driven interaction state machine. It owns
// the live annotation array of the current step; the saver and the realtime
// channel only ever receive copies.
//
// An Editor is not safe for concurrent use. Hosts deliver pointer,
// keyboard and network callbacks from a single goroutine.
package editor

import (
	"errors"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"tacboard-backend/internal/geom"
	"tacboard-backend/internal/history"
	"tacboard-backend/internal/models"
	"tacboard-backend/internal/palette"
	"tacboard-backend/internal/shapes"
	"tacboard-backend/internal/viewport"
)

var (
	ErrLastStep  = errors.New("cannot delete the last step")
	ErrStepIndex = errors.New("step index out of range")
	ErrBusy      = errors.New("a gesture is in progress")
	ErrNotFound  = errors.New("object not found")
)

// DefaultPanZoomThreshold is the view zoom below which a left press with a
// drawing tool pans instead of drawing.
const DefaultPanZoomThreshold = 0.5

// Saver receives document patches. Schedule is debounced; SaveNow is
// immediate and supersedes anything scheduled.
type Saver interface {
	Schedule(patch models.SavePatch)
	SaveNow(patch models.SavePatch)
	Cancel()
}

// Publisher carries fire-and-forget presence events.
type Publisher interface {
	ObjectMoved(o models.DrawingObject)
	CursorMoved(p geom.Point)
}

type nopSaver struct{}

func (nopSaver) Schedule(models.SavePatch) {}
func (nopSaver) SaveNow(models.SavePatch)  {}
func (nopSaver) Cancel()                   {}

type nopPublisher struct{}

func (nopPublisher) ObjectMoved(models.DrawingObject) {}
func (nopPublisher) CursorMoved(geom.Point)           {}

// Config wires an editor to its collaborators. Zero values are usable.
type Config struct {
	Catalog      *shapes.Catalog
	Saver        Saver
	Publisher    Publisher
	HistoryLimit int

	// Origin and Display give the canvas box on screen before view zoom.
	Origin  geom.Point
	Display viewport.Size
	// Trash is the drop target for drag-to-delete, in client pixels.
	Trash geom.Rect

	PanZoomThreshold float64
}

// Editor edits one strategy document.
type Editor struct {
	catalog *shapes.Catalog
	factory *palette.Factory
	history *history.Stack
	saver   Saver
	pub     Publisher

	doc        models.Document
	objects    []models.DrawingObject
	background viewport.Background

	view    viewport.View
	origin  geom.Point
	display viewport.Size
	trash   geom.Rect

	state    State
	pending  []models.DrawingObject
	tool     Tool
	style    Style
	agent    string
	selected int64
	editing  int64

	textFocus    bool
	remoteUpdate bool
	panZoom      float64

	frames   Frames
	onSettle []func()
}

// New opens doc for editing.
func New(doc models.Document, cfg Config) *Editor {
	if cfg.Catalog == nil {
		cfg.Catalog = shapes.Default()
	}
	if cfg.Saver == nil {
		cfg.Saver = nopSaver{}
	}
	if cfg.Publisher == nil {
		cfg.Publisher = nopPublisher{}
	}
	if cfg.PanZoomThreshold == 0 {
		cfg.PanZoomThreshold = DefaultPanZoomThreshold
	}
	e := &Editor{
		catalog: cfg.Catalog,
		factory: palette.NewFactory(cfg.Catalog),
		history: history.New(cfg.HistoryLimit),
		saver:   cfg.Saver,
		pub:     cfg.Publisher,
		view:    viewport.NewView(),
		origin:  cfg.Origin,
		display: cfg.Display,
		trash:   cfg.Trash,
		state:   Idle{},
		tool:    ToolSelect,
		style:   DefaultStyle(),
		panZoom: cfg.PanZoomThreshold,
	}
	e.load(doc)
	return e
}

func (e *Editor) load(doc models.Document) {
	doc = doc.Clone()
	if len(doc.Steps) == 0 {
		doc.Steps = []models.StrategyStep{models.NewStep("Step 1")}
	}
	if doc.CurrentStepIndex < 0 || doc.CurrentStepIndex >= len(doc.Steps) {
		doc.CurrentStepIndex = 0
	}
	e.doc = doc
	e.background = viewport.MapOrDefault(doc.MapName)
	if e.display.Width == 0 || e.display.Height == 0 {
		e.display = e.background.Size()
	}
	e.objects = models.CloneObjects(doc.Steps[doc.CurrentStepIndex].Data)
	e.frames.Request(LayerMain | LayerPreview)
}

// MapScale is the size multiplier of the active background.
func (e *Editor) MapScale() float64 {
	return e.background.Scale
}

func (e *Editor) Background() viewport.Background { return e.background }
func (e *Editor) Rotated() bool                   { return e.doc.IsRotated }
func (e *Editor) View() viewport.View             { return e.view }
func (e *Editor) State() State                    { return e.state }
func (e *Editor) Tool() Tool                      { return e.tool }
func (e *Editor) Style() Style                    { return e.style }
func (e *Editor) Selected() int64                 { return e.selected }
func (e *Editor) Editing() int64                  { return e.editing }
func (e *Editor) CanUndo() bool                   { return e.history.CanUndo() }
func (e *Editor) CanRedo() bool                   { return e.history.CanRedo() }

// Interacting reports whether a gesture is in progress.
func (e *Editor) Interacting() bool {
	_, idle := e.state.(Idle)
	return !idle
}

// Objects returns a copy of the current step's annotations.
func (e *Editor) Objects() []models.DrawingObject {
	return models.CloneObjects(e.objects)
}

// Preview returns the object being drawn, if any.
func (e *Editor) Preview() (models.DrawingObject, bool) {
	if d, ok := e.state.(Drawing); ok {
		return d.Object.Clone(), true
	}
	return models.DrawingObject{}, false
}

// Document returns a copy of the document with the live step folded in.
func (e *Editor) Document() models.Document {
	doc := e.doc.Clone()
	doc.Steps[doc.CurrentStepIndex].Data = models.CloneObjects(e.objects)
	return doc
}

// SetTool switches tools. Switching abandons an open text edit.
func (e *Editor) SetTool(t Tool) {
	e.tool = t
	e.endEdit()
	if t != ToolSelect {
		e.selected = 0
		e.frames.Request(LayerMain)
	}
}

func (e *Editor) SetStyle(s Style) { e.style = s }

// SetAgent picks the agent placed by ToolAgent.
func (e *Editor) SetAgent(name string) { e.agent = name }

// SetLayout updates the on-screen canvas box.
func (e *Editor) SetLayout(origin geom.Point, display viewport.Size) {
	e.origin = origin
	e.display = display
}

func (e *Editor) SetTrash(r geom.Rect) { e.trash = r }

// SetTextInputFocus tells the editor a text field has keyboard focus.
func (e *Editor) SetTextInputFocus(focused bool) { e.textFocus = focused }

// OnSettle registers f to run whenever a gesture ends.
func (e *Editor) OnSettle(f func()) {
	e.onSettle = append(e.onSettle, f)
}

// Frame returns the layers to repaint this animation frame.
func (e *Editor) Frame() Layer {
	return e.frames.Take()
}

// RequestFrame marks layers dirty from outside, e.g. when an asset lands.
func (e *Editor) RequestFrame(l Layer) {
	e.frames.Request(l)
}

// RenderFlags returns the per-frame flags for drawing the annotations.
func (e *Editor) RenderFlags(images shapes.ImageSource) shapes.RenderFlags {
	return shapes.RenderFlags{
		Selected:  e.selected,
		Rotated:   e.doc.IsRotated,
		MapWidth:  e.background.Width,
		MapHeight: e.background.Height,
		Images:    images,
	}
}

func (e *Editor) pipeline() viewport.Pipeline {
	return viewport.Pipeline{
		CanvasRect: e.view.CanvasRect(e.origin, e.display),
		Intrinsic:  e.background.Size(),
		Rotated:    e.doc.IsRotated,
	}
}

// ToMap converts a client point into map space.
func (e *Editor) ToMap(client geom.Point) geom.Point {
	return e.pipeline().ToMap(client)
}

func (e *Editor) mapBounds() geom.Rect {
	return geom.Rect{Width: e.background.Width, Height: e.background.Height}
}

var equateEmpty = cmpopts.EquateEmpty()

func sameObjects(a, b []models.DrawingObject) bool {
	return cmp.Equal(a, b, equateEmpty)
}

// commit ends a mutation: history gets the pre-gesture snapshot when the
// array changed, and the step is saved.
func (e *Editor) commit(before []models.DrawingObject, immediate bool) bool {
	if sameObjects(before, e.objects) {
		return false
	}
	e.history.Add(before)
	e.changed(immediate)
	e.frames.Request(LayerMain)
	return true
}

// changed folds the live array into the document and saves it. A change
// that came from a remote snapshot is not echoed back.
func (e *Editor) changed(immediate bool) {
	e.doc.Steps[e.doc.CurrentStepIndex].Data = models.CloneObjects(e.objects)
	if e.remoteUpdate {
		e.remoteUpdate = false
		return
	}
	idx := e.doc.CurrentStepIndex
	patch := models.SavePatch{Steps: models.CloneSteps(e.doc.Steps), CurrentStepIndex: &idx}
	if immediate {
		e.saver.SaveNow(patch)
	} else {
		e.saver.Schedule(patch)
	}
}

func (e *Editor) settle() {
	for _, f := range e.onSettle {
		f()
	}
}
