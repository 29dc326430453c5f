// Package history keeps linear undo/redo over whole annotation snapshots.
package history

import (
	"tacboard-backend/internal/models"
)

// Stack is a linear undo/redo history. Every snapshot going in or out is
// deep-copied, so callers never share slices with the stack.
type Stack struct {
	past   [][]models.DrawingObject
	future [][]models.DrawingObject
	limit  int
}

// New returns a stack holding at most limit undo entries; limit <= 0 means
// unbounded.
func New(limit int) *Stack {
	return &Stack{limit: limit}
}

// Add pushes a snapshot and clears the redo side.
func (s *Stack) Add(snapshot []models.DrawingObject) {
	s.past = append(s.past, models.CloneObjects(snapshot))
	if s.limit > 0 && len(s.past) > s.limit {
		s.past = s.past[len(s.past)-s.limit:]
	}
	s.future = nil
}

// Undo returns the previous snapshot and remembers current for redo. It
// reports false when there is nothing to undo.
func (s *Stack) Undo(current []models.DrawingObject) ([]models.DrawingObject, bool) {
	if len(s.past) == 0 {
		return nil, false
	}
	prev := s.past[len(s.past)-1]
	s.past = s.past[:len(s.past)-1]
	s.future = append(s.future, models.CloneObjects(current))
	return models.CloneObjects(prev), true
}

// Redo is the mirror of Undo.
func (s *Stack) Redo(current []models.DrawingObject) ([]models.DrawingObject, bool) {
	if len(s.future) == 0 {
		return nil, false
	}
	next := s.future[len(s.future)-1]
	s.future = s.future[:len(s.future)-1]
	s.past = append(s.past, models.CloneObjects(current))
	return models.CloneObjects(next), true
}

func (s *Stack) CanUndo() bool { return len(s.past) > 0 }
func (s *Stack) CanRedo() bool { return len(s.future) > 0 }

// Len returns the number of undo and redo entries.
func (s *Stack) Len() (past, future int) {
	return len(s.past), len(s.future)
}

// Reset drops every entry.
func (s *Stack) Reset() {
	s.past = nil
	s.future = nil
}
