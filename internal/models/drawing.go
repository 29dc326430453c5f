package models

import (
	"math/rand"
	"sync"
	"time"

	"tacboard-backend/internal/geom"
)

// Subtype tags image tokens dropped from the palette.
type Subtype string

const (
	SubtypeAgent   Subtype = "agent"
	SubtypeAbility Subtype = "ability"
	SubtypeIcon    Subtype = "icon"
)

// DrawingObject is one annotation on a strategy step. Tool selects the
// shape variant; Points are always in map space.
type DrawingObject struct {
	ID        int64        `json:"id"`
	Tool      string       `json:"tool"`
	Points    []geom.Point `json:"points,omitempty"`
	Color     string       `json:"color,omitempty"`
	Thickness float64      `json:"thickness,omitempty"`
	Opacity   float64      `json:"opacity,omitempty"`
	ImageSrc  string       `json:"imageSrc,omitempty"`
	Subtype   Subtype      `json:"subtype,omitempty"`

	// image and text tokens keep a direct position instead of points
	X        float64 `json:"x,omitempty"`
	Y        float64 `json:"y,omitempty"`
	Width    float64 `json:"width,omitempty"`
	Height   float64 `json:"height,omitempty"`
	Rotation float64 `json:"rotation,omitempty"`

	Text       string  `json:"text,omitempty"`
	FontSize   float64 `json:"fontSize,omitempty"`
	FontWeight string  `json:"fontWeight,omitempty"`
	TextAlign  string  `json:"textAlign,omitempty"`
	Background string  `json:"backgroundColor,omitempty"`
}

// Clone returns a deep copy of the object.
func (o DrawingObject) Clone() DrawingObject {
	if o.Points != nil {
		pts := make([]geom.Point, len(o.Points))
		copy(pts, o.Points)
		o.Points = pts
	}
	return o
}

// Alpha returns the object's opacity, treating an unset value as opaque.
func (o DrawingObject) Alpha() float64 {
	if o.Opacity <= 0 || o.Opacity > 1 {
		return 1
	}
	return o.Opacity
}

// CloneObjects deep-copies an annotation array. A nil input stays nil.
func CloneObjects(objs []DrawingObject) []DrawingObject {
	if objs == nil {
		return nil
	}
	out := make([]DrawingObject, len(objs))
	for i, o := range objs {
		out[i] = o.Clone()
	}
	return out
}

// IndexOf returns the position of the object with the given id, or -1.
func IndexOf(objs []DrawingObject, id int64) int {
	for i := range objs {
		if objs[i].ID == id {
			return i
		}
	}
	return -1
}

var (
	idMu   sync.Mutex
	idRand = rand.New(rand.NewSource(time.Now().UnixNano()))
	lastID int64
)

// NewObjectID returns a process-unique id built from the current time in
// milliseconds and a random suffix. Ids are strictly increasing within the
// process, so a fast burst never repeats one.
func NewObjectID() int64 {
	idMu.Lock()
	defer idMu.Unlock()
	id := time.Now().UnixMilli()*1000 + idRand.Int63n(1000)
	if id <= lastID {
		id = lastID + 1
	}
	lastID = id
	return id
}
