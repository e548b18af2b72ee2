package waveform

import "fmt"

// DefaultZoomLevels are the samples-per-pixel steps of the zoomview, most
// zoomed in first.
var DefaultZoomLevels = []int{256, 512, 1024, 2048, 4096}

// Modifiers is the modifier key state of a pointer or keyboard event.
type Modifiers struct {
	Alt   bool
	Shift bool
}

// Zoom steps through a fixed list of zoom levels starting at the first.
type Zoom struct {
	levels []int
	index  Clamped
}

// NewZoom builds a stepper over levels. At least two levels are required.
func NewZoom(levels []int) (*Zoom, error) {
	index, err := NewClamped(0, 0, len(levels)-1)
	if err != nil {
		return nil, fmt.Errorf("zoom levels: need at least two, got %d: %w", len(levels), err)
	}
	return &Zoom{levels: append([]int(nil), levels...), index: index}, nil
}

// Level is the current samples-per-pixel value.
func (z *Zoom) Level() int {
	return z.levels[z.index.Value()]
}

// ZoomOut moves to the next larger samples-per-pixel value.
func (z *Zoom) ZoomOut() int {
	return z.levels[z.index.Inc()]
}

// ZoomIn moves to the next smaller samples-per-pixel value.
func (z *Zoom) ZoomIn() int {
	return z.levels[z.index.Dec()]
}

// Click applies a zoomview click. Alt+Shift zooms out and Alt alone zooms in;
// without Alt the click is not a zoom gesture and ok is false.
func (z *Zoom) Click(mods Modifiers) (level int, ok bool) {
	if !mods.Alt {
		return z.Level(), false
	}
	if mods.Shift {
		return z.ZoomOut(), true
	}
	return z.ZoomIn(), true
}
