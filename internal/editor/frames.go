package editor

// Layer is a bit set of canvas layers needing a repaint.
type Layer uint8

const (
	// LayerMain holds committed annotations.
	LayerMain Layer = 1 << iota
	// LayerPreview holds the stroke being drawn.
	LayerPreview
	// LayerOverlay holds remote cursors.
	LayerOverlay
)

// Frames coalesces repaint requests: any number of requests between two
// animation frames collapse into one repaint per layer.
type Frames struct {
	dirty Layer
}

// Request marks layers dirty.
func (f *Frames) Request(l Layer) {
	f.dirty |= l
}

// Take returns the dirty layers and clears them.
func (f *Frames) Take() Layer {
	l := f.dirty
	f.dirty = 0
	return l
}

// Has reports whether l is part of the set.
func (l Layer) Has(o Layer) bool {
	return l&o != 0
}
