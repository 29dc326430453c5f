// Package realtime reconciles the local editor with other participants:
// whole-document snapshots are deferred while a gesture is active, and
// cursor/move broadcasts feed a presence overlay that never touches the
// annotation array.
package realtime

import (
	"encoding/json"
	"fmt"

	"tacboard-backend/internal/geom"
	"tacboard-backend/internal/models"
)

// MessageType names a realtime message.
type MessageType string

const (
	TypeHello      MessageType = "hello"
	TypeFullUpdate MessageType = "full_update"
	TypeCursor     MessageType = "cursor"
	TypeObjectMove MessageType = "object_move"
	TypeLeave      MessageType = "leave"
	TypePing       MessageType = "ping"
	TypePong       MessageType = "pong"
	TypeError      MessageType = "error"
)

// Message is the wire envelope shared by the hub and its clients.
type Message struct {
	Type     MessageType     `json:"type"`
	Data     json.RawMessage `json:"data,omitempty"`
	SenderID string          `json:"senderId,omitempty"`
}

// HelloPayload tells a client the id the hub assigned to it.
type HelloPayload struct {
	SenderID string `json:"senderId"`
}

// FullUpdatePayload carries a whole document.
type FullUpdatePayload struct {
	StrategyID       string                `json:"strategyId"`
	MapName          string                `json:"mapName,omitempty"`
	Steps            []models.StrategyStep `json:"steps"`
	CurrentStepIndex int                   `json:"currentStepIndex"`
	IsRotated        bool                  `json:"isRotated"`
}

// CursorPayload is a participant's pointer in map space.
type CursorPayload struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Name  string  `json:"name,omitempty"`
	Color string  `json:"color,omitempty"`
}

// ObjectMovePayload reports an in-progress drag. It is never persisted.
type ObjectMovePayload struct {
	ObjectID int64        `json:"objectId"`
	Tool     string       `json:"tool,omitempty"`
	Points   []geom.Point `json:"points,omitempty"`
	X        float64      `json:"x"`
	Y        float64      `json:"y"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

// NewMessage wraps payload into an envelope. A nil payload leaves Data empty.
func NewMessage(t MessageType, payload any) (Message, error) {
	m := Message{Type: t}
	if payload == nil {
		return m, nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{}, fmt.Errorf("marshal %s payload: %w", t, err)
	}
	m.Data = raw
	return m, nil
}

// Decode unmarshals the envelope's data into v.
func (m Message) Decode(v any) error {
	if len(m.Data) == 0 {
		return fmt.Errorf("%s message has no data", m.Type)
	}
	if err := json.Unmarshal(m.Data, v); err != nil {
		return fmt.Errorf("decode %s payload: %w", m.Type, err)
	}
	return nil
}

// ParseMessage decodes a raw frame.
func ParseMessage(raw []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(raw, &m); err != nil {
		return Message{}, fmt.Errorf("parse message: %w", err)
	}
	if m.Type == "" {
		return Message{}, fmt.Errorf("parse message: missing type")
	}
	return m, nil
}

// Document converts a full update into the editor's document form.
func (p FullUpdatePayload) Document() models.Document {
	steps := p.Steps
	if len(steps) == 0 {
		steps = []models.StrategyStep{models.NewStep("Step 1")}
	}
	idx := p.CurrentStepIndex
	if idx < 0 || idx >= len(steps) {
		idx = 0
	}
	return models.Document{
		ID:               p.StrategyID,
		MapName:          p.MapName,
		Steps:            steps,
		CurrentStepIndex: idx,
		IsRotated:        p.IsRotated,
	}
}

// FullUpdateFrom builds the payload broadcast after a save.
func FullUpdateFrom(doc models.Document) FullUpdatePayload {
	return FullUpdatePayload{
		StrategyID:       doc.ID,
		MapName:          doc.MapName,
		Steps:            doc.Steps,
		CurrentStepIndex: doc.CurrentStepIndex,
		IsRotated:        doc.IsRotated,
	}
}

// MoveFrom describes an object's current position.
func MoveFrom(o models.DrawingObject) ObjectMovePayload {
	return ObjectMovePayload{ObjectID: o.ID, Tool: o.Tool, Points: o.Points, X: o.X, Y: o.Y}
}
