package editor

import (
	"strings"

	"tacboard-backend/internal/models"
)

// Key is a key press with its modifiers.
type Key struct {
	Key   string
	Ctrl  bool
	Meta  bool
	Shift bool
}

// KeyDown handles editor shortcuts. It reports whether the key was used;
// nothing is intercepted while a text field or text token has focus.
func (e *Editor) KeyDown(k Key) bool {
	if e.textFocus || e.editing != 0 {
		return false
	}
	mod := k.Ctrl || k.Meta
	switch key := strings.ToLower(k.Key); {
	case mod && key == "z" && k.Shift, mod && key == "y":
		return e.Redo()
	case mod && key == "z":
		return e.Undo()
	case key == "delete" || key == "backspace":
		return e.DeleteSelected()
	case key == "escape":
		if e.selected == 0 {
			return false
		}
		e.selected = 0
		e.frames.Request(LayerMain)
		return true
	}
	return false
}

// Undo restores the previous snapshot of the current step.
func (e *Editor) Undo() bool {
	if e.Interacting() {
		return false
	}
	e.endEdit()
	prev, ok := e.history.Undo(e.objects)
	if !ok {
		return false
	}
	e.replace(prev)
	return true
}

// Redo reapplies the last undone snapshot.
func (e *Editor) Redo() bool {
	if e.Interacting() {
		return false
	}
	e.endEdit()
	next, ok := e.history.Redo(e.objects)
	if !ok {
		return false
	}
	e.replace(next)
	return true
}

func (e *Editor) replace(objs []models.DrawingObject) {
	e.objects = objs
	if e.selected != 0 && models.IndexOf(objs, e.selected) < 0 {
		e.selected = 0
	}
	e.changed(false)
	e.frames.Request(LayerMain)
}
