package editor

import (
	"fmt"

	"github.com/google/uuid"

	"tacboard-backend/internal/models"
)

// StepInfo summarises one step for a step list.
type StepInfo struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Objects int    `json:"objects"`
	Current bool   `json:"current"`
}

// Steps lists the document's steps.
func (e *Editor) Steps() []StepInfo {
	out := make([]StepInfo, len(e.doc.Steps))
	for i, s := range e.doc.Steps {
		n := len(s.Data)
		if i == e.doc.CurrentStepIndex {
			n = len(e.objects)
		}
		out[i] = StepInfo{ID: s.ID, Name: s.Name, Objects: n, Current: i == e.doc.CurrentStepIndex}
	}
	return out
}

// CurrentStep returns the index of the current step.
func (e *Editor) CurrentStep() int {
	return e.doc.CurrentStepIndex
}

// AddStep appends an empty step and makes it current.
func (e *Editor) AddStep() error {
	if e.Interacting() {
		return ErrBusy
	}
	e.foldLive()
	step := models.NewStep(fmt.Sprintf("Step %d", len(e.doc.Steps)+1))
	e.doc.Steps = append(e.doc.Steps, step)
	e.switchTo(len(e.doc.Steps) - 1)
	return nil
}

// DuplicateStep inserts a deep copy of step i right after it and makes
// the copy current.
func (e *Editor) DuplicateStep(i int) error {
	if e.Interacting() {
		return ErrBusy
	}
	if i < 0 || i >= len(e.doc.Steps) {
		return fmt.Errorf("duplicate step %d: %w", i, ErrStepIndex)
	}
	e.foldLive()
	dup := e.doc.Steps[i].Clone()
	dup.ID = uuid.NewString()
	dup.Name = e.doc.Steps[i].Name + " (copy)"

	steps := make([]models.StrategyStep, 0, len(e.doc.Steps)+1)
	steps = append(steps, e.doc.Steps[:i+1]...)
	steps = append(steps, dup)
	steps = append(steps, e.doc.Steps[i+1:]...)
	e.doc.Steps = steps
	e.switchTo(i + 1)
	return nil
}

// DeleteStep removes step i. The last remaining step cannot be deleted.
func (e *Editor) DeleteStep(i int) error {
	if e.Interacting() {
		return ErrBusy
	}
	if i < 0 || i >= len(e.doc.Steps) {
		return fmt.Errorf("delete step %d: %w", i, ErrStepIndex)
	}
	if len(e.doc.Steps) == 1 {
		return ErrLastStep
	}
	e.foldLive()
	steps := make([]models.StrategyStep, 0, len(e.doc.Steps)-1)
	steps = append(steps, e.doc.Steps[:i]...)
	e.doc.Steps = append(steps, e.doc.Steps[i+1:]...)

	cur := e.doc.CurrentStepIndex
	if i < cur || cur >= len(e.doc.Steps) {
		cur--
	}
	e.switchTo(cur)
	return nil
}

// SelectStep makes step i current.
func (e *Editor) SelectStep(i int) error {
	if e.Interacting() {
		return ErrBusy
	}
	if i < 0 || i >= len(e.doc.Steps) {
		return fmt.Errorf("select step %d: %w", i, ErrStepIndex)
	}
	if i == e.doc.CurrentStepIndex {
		return nil
	}
	e.foldLive()
	e.switchTo(i)
	return nil
}

// RenameStep sets the name of step i.
func (e *Editor) RenameStep(i int, name string) error {
	if i < 0 || i >= len(e.doc.Steps) {
		return fmt.Errorf("rename step %d: %w", i, ErrStepIndex)
	}
	e.foldLive()
	e.doc.Steps[i].Name = name
	e.saveSteps()
	return nil
}

// ClearStep removes every object of the current step.
func (e *Editor) ClearStep() bool {
	if e.Interacting() {
		return false
	}
	e.endEdit()
	if len(e.objects) == 0 {
		return false
	}
	before := e.objects
	e.objects = []models.DrawingObject{}
	e.selected = 0
	e.editing = 0
	return e.commit(before, true)
}

// SetRotated flips the map rotation flag and saves it at once.
func (e *Editor) SetRotated(rotated bool) {
	if e.doc.IsRotated == rotated {
		return
	}
	e.doc.IsRotated = rotated
	e.saver.SaveNow(models.SavePatch{IsRotated: &rotated})
	e.frames.Request(LayerMain | LayerPreview | LayerOverlay)
}

// foldLive writes the live array back into the current step.
func (e *Editor) foldLive() {
	e.endEdit()
	e.doc.Steps[e.doc.CurrentStepIndex].Data = models.CloneObjects(e.objects)
}

// switchTo loads step i, resets history and saves at once.
func (e *Editor) switchTo(i int) {
	e.doc.CurrentStepIndex = i
	e.objects = models.CloneObjects(e.doc.Steps[i].Data)
	if e.objects == nil {
		e.objects = []models.DrawingObject{}
	}
	e.selected = 0
	e.editing = 0
	e.history.Reset()
	e.saveSteps()
	e.frames.Request(LayerMain | LayerPreview)
}

func (e *Editor) saveSteps() {
	idx := e.doc.CurrentStepIndex
	e.saver.SaveNow(models.SavePatch{Steps: models.CloneSteps(e.doc.Steps), CurrentStepIndex: &idx})
}
