// Package palette turns drop payloads from the side palette into drawing
// objects.
package palette

import (
	"errors"
	"fmt"

	"tacboard-backend/internal/geom"
	"tacboard-backend/internal/models"
	"tacboard-backend/internal/shapes"
)

var ErrUnknownPayload = errors.New("unknown drop payload")

// Payload is the opaque token carried by a palette drag.
type Payload struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

const (
	TypeAgent   = "agent"
	TypeAbility = "ability"
	TypeIcon    = "icon"
)

// token sizes in map pixels at mapScale 1
var tokenSizes = map[string]float64{
	TypeAgent:   40,
	TypeAbility: 32,
	TypeIcon:    28,
}

// Factory resolves payloads against a shape catalog.
type Factory struct {
	catalog *shapes.Catalog
}

func NewFactory(c *shapes.Catalog) *Factory {
	return &Factory{catalog: c}
}

// New builds a well-formed object for p centred on at. Abilities with a
// catalog entry become shapes; every other payload becomes an image token.
func (f *Factory) New(p Payload, at geom.Point, scale float64) (models.DrawingObject, error) {
	if p.Name == "" {
		return models.DrawingObject{}, fmt.Errorf("%w: empty name", ErrUnknownPayload)
	}
	if scale <= 0 {
		scale = 1
	}
	switch p.Type {
	case TypeAbility:
		if e, ok := f.catalog.Lookup(p.Name); ok {
			return e.NewObject(at, scale), nil
		}
		return imageToken(shapes.AbilityGameKey(p.Name), models.SubtypeAbility, at, tokenSizes[TypeAbility]*scale), nil
	case TypeAgent:
		return imageToken(shapes.AgentKey(p.Name), models.SubtypeAgent, at, tokenSizes[TypeAgent]*scale), nil
	case TypeIcon:
		return imageToken(shapes.IconKey(p.Name), models.SubtypeIcon, at, tokenSizes[TypeIcon]*scale), nil
	}
	return models.DrawingObject{}, fmt.Errorf("%w: type %q", ErrUnknownPayload, p.Type)
}

// Agent is a shortcut for the place-agent tool.
func (f *Factory) Agent(name string, at geom.Point, scale float64) (models.DrawingObject, error) {
	return f.New(Payload{Type: TypeAgent, Name: name}, at, scale)
}

func imageToken(src string, sub models.Subtype, at geom.Point, size float64) models.DrawingObject {
	return models.DrawingObject{
		ID:       models.NewObjectID(),
		Tool:     shapes.ToolImage,
		ImageSrc: src,
		Subtype:  sub,
		Opacity:  1,
		X:        at.X - size/2,
		Y:        at.Y - size/2,
		Width:    size,
		Height:   size,
	}
}
