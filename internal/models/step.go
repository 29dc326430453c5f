package models

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Note is a free-text note attached to a step.
type Note struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// StrategyStep is one frame of a strategy: its annotations and notes.
type StrategyStep struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Data  []DrawingObject `json:"data"`
	Notes []Note          `json:"notes"`
}

// NewStep returns an empty step with a fresh id.
func NewStep(name string) StrategyStep {
	return StrategyStep{
		ID:    uuid.NewString(),
		Name:  name,
		Data:  []DrawingObject{},
		Notes: []Note{},
	}
}

// Clone deep-copies the step, keeping its id.
func (s StrategyStep) Clone() StrategyStep {
	s.Data = CloneObjects(s.Data)
	if s.Notes != nil {
		notes := make([]Note, len(s.Notes))
		copy(notes, s.Notes)
		s.Notes = notes
	}
	return s
}

// CloneSteps deep-copies a step list.
func CloneSteps(steps []StrategyStep) []StrategyStep {
	if steps == nil {
		return nil
	}
	out := make([]StrategyStep, len(steps))
	for i, s := range steps {
		out[i] = s.Clone()
	}
	return out
}

// DecodeSteps parses the stored data column. Documents written before steps
// existed hold a bare DrawingObject array; those become a single step.
func DecodeSteps(raw []byte) ([]StrategyStep, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []StrategyStep{NewStep("Step 1")}, nil
	}

	var probe []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("failed to decode strategy data: %w", err)
	}
	if len(probe) == 0 {
		return []StrategyStep{NewStep("Step 1")}, nil
	}

	if _, legacy := probe[0]["tool"]; legacy {
		var objs []DrawingObject
		if err := json.Unmarshal(raw, &objs); err != nil {
			return nil, fmt.Errorf("failed to decode legacy drawing data: %w", err)
		}
		step := NewStep("Step 1")
		step.Data = objs
		return []StrategyStep{step}, nil
	}

	var steps []StrategyStep
	if err := json.Unmarshal(raw, &steps); err != nil {
		return nil, fmt.Errorf("failed to decode strategy steps: %w", err)
	}
	for i := range steps {
		if steps[i].Data == nil {
			steps[i].Data = []DrawingObject{}
		}
		if steps[i].Notes == nil {
			steps[i].Notes = []Note{}
		}
	}
	return steps, nil
}
