package editor

import (
	"tacboard-backend/internal/models"
	"tacboard-backend/internal/viewport"
)

// ApplyRemote replaces the document with a remote snapshot. Callers hold
// snapshots back while Interacting reports true; the realtime reconciler
// does that. The local step selection survives when it still exists.
//
// A pending debounced save is dropped: it holds local state older than
// the snapshot, and last full save wins.
func (e *Editor) ApplyRemote(doc models.Document) {
	e.saver.Cancel()

	cur := e.doc.CurrentStepIndex
	mapName := e.doc.MapName
	doc = doc.Clone()
	if doc.ID == "" {
		doc.ID = e.doc.ID
	}
	if doc.MapName == "" {
		doc.MapName = mapName
	}
	if len(doc.Steps) == 0 {
		doc.Steps = []models.StrategyStep{models.NewStep("Step 1")}
	}
	if cur >= len(doc.Steps) {
		cur = len(doc.Steps) - 1
	}
	doc.CurrentStepIndex = cur
	e.doc = doc
	if doc.MapName != mapName {
		e.background = viewport.MapOrDefault(doc.MapName)
	}

	e.objects = models.CloneObjects(doc.Steps[cur].Data)
	if e.objects == nil {
		e.objects = []models.DrawingObject{}
	}
	if e.selected != 0 && models.IndexOf(e.objects, e.selected) < 0 {
		e.selected = 0
	}
	if e.editing != 0 && models.IndexOf(e.objects, e.editing) < 0 {
		e.editing = 0
	}

	e.remoteUpdate = true
	e.changed(false)
	e.frames.Request(LayerMain | LayerPreview)
}
