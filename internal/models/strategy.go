package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Strategy represents the database model
type Strategy struct {
	UUID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"uuid"`
	Title            string         `gorm:"not null;default:''" json:"title"`
	MapName          string         `gorm:"not null" json:"map_name"`
	Data             datatypes.JSON `json:"data"`
	CurrentStepIndex int            `gorm:"not null;default:0" json:"current_step_index"`
	IsRotated        bool           `gorm:"not null;default:false" json:"is_rotated"`
	FolderID         *uuid.UUID     `gorm:"type:uuid;index" json:"folder_id"`
	TeamID           *uuid.UUID     `gorm:"type:uuid;index" json:"team_id"`
	Thumbnail        string         `json:"thumbnail"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// Folder groups strategies for listing and moving.
type Folder struct {
	UUID      uuid.UUID  `gorm:"type:uuid;primaryKey" json:"uuid"`
	Name      string     `gorm:"not null" json:"name"`
	TeamID    *uuid.UUID `gorm:"type:uuid;index" json:"team_id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Document is the decoded form of a Strategy handed to the editor.
type Document struct {
	ID               string         `json:"id"`
	MapName          string         `json:"mapName"`
	Steps            []StrategyStep `json:"steps"`
	CurrentStepIndex int            `json:"currentStepIndex"`
	IsRotated        bool           `json:"isRotated"`
	FolderID         *uuid.UUID     `json:"folderId,omitempty"`
	TeamID           *uuid.UUID     `json:"teamId,omitempty"`
}

// Clone deep-copies the document.
func (d Document) Clone() Document {
	d.Steps = CloneSteps(d.Steps)
	return d
}

// SavePatch is a partial document update. Nil fields are left untouched.
type SavePatch struct {
	Steps            []StrategyStep `json:"steps,omitempty"`
	CurrentStepIndex *int           `json:"currentStepIndex,omitempty"`
	IsRotated        *bool          `json:"isRotated,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p SavePatch) Empty() bool {
	return p.Steps == nil && p.CurrentStepIndex == nil && p.IsRotated == nil
}

// ToDocument decodes the stored row.
func (s *Strategy) ToDocument() (*Document, error) {
	steps, err := DecodeSteps(s.Data)
	if err != nil {
		return nil, err
	}
	idx := s.CurrentStepIndex
	if idx < 0 || idx >= len(steps) {
		idx = 0
	}
	return &Document{
		ID:               s.UUID.String(),
		MapName:          s.MapName,
		Steps:            steps,
		CurrentStepIndex: idx,
		IsRotated:        s.IsRotated,
		FolderID:         s.FolderID,
		TeamID:           s.TeamID,
	}, nil
}

// EncodeSteps marshals steps for the data column.
func EncodeSteps(steps []StrategyStep) (datatypes.JSON, error) {
	b, err := json.Marshal(steps)
	if err != nil {
		return nil, fmt.Errorf("failed to encode strategy steps: %w", err)
	}
	return datatypes.JSON(b), nil
}
