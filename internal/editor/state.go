package editor

import (
	"tacboard-backend/internal/geom"
	"tacboard-backend/internal/models"
	"tacboard-backend/internal/palette"
	"tacboard-backend/internal/shapes"
	"tacboard-backend/internal/viewport"
)

// Tool is the active toolbar tool.
type Tool string

const (
	ToolSelect Tool = "select"
	ToolPen    Tool = "pen"
	ToolLine   Tool = "line"
	ToolArrow  Tool = "arrow"
	ToolDashed Tool = "dashed_line"
	ToolRect   Tool = "rect"
	ToolEraser Tool = "eraser"
	ToolAgent  Tool = "agent"
	ToolText   Tool = "text"
	ToolPan    Tool = "pan"
)

// drawTools maps tools that create a catalog shape by dragging to the
// catalog tool they create.
var drawTools = map[Tool]string{
	ToolPen:    shapes.ToolPen,
	ToolLine:   shapes.ToolLine,
	ToolArrow:  shapes.ToolArrow,
	ToolDashed: shapes.ToolDashedLine,
	ToolRect:   shapes.ToolRect,
}

// Button is a pointer button.
type Button int

const (
	ButtonLeft Button = iota
	ButtonMiddle
	ButtonRight
)

// Pointer is a pointer event in client (display) pixels.
type Pointer struct {
	Client geom.Point
	Button Button
}

// State is the interaction state. Exactly one is active at a time.
type State interface {
	isState()
}

type (
	// Idle waits for the next gesture.
	Idle struct{}
	// Panning drags the view; From is the view at pointer-down.
	Panning struct {
		Start geom.Point
		From  viewport.View
	}
	// Drawing accumulates a new stroke or two-point shape on the preview
	// layer.
	Drawing struct {
		Object models.DrawingObject
	}
	// Erasing removes erasable objects under the pointer.
	Erasing struct{}
	// Dragging holds an existing object.
	Dragging struct {
		Grab      shapes.Grab
		OverTrash bool
	}
	// Placing follows a palette drag over the canvas.
	Placing struct {
		Payload palette.Payload
	}
)

func (Idle) isState()     {}
func (Panning) isState()  {}
func (Drawing) isState()  {}
func (Erasing) isState()  {}
func (Dragging) isState() {}
func (Placing) isState()  {}

// Style is the pen style applied to new objects.
type Style struct {
	Color        string  `json:"color"`
	Thickness    float64 `json:"thickness"`
	EraserRadius float64 `json:"eraserRadius"`
	FontSize     float64 `json:"fontSize"`
}

func DefaultStyle() Style {
	return Style{Color: "#ff4655", Thickness: 3, EraserRadius: 10, FontSize: 18}
}
