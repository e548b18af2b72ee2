package waveform

// Cursor names used for the zoomview pane.
const (
	CursorDefault = "default"
	CursorZoomIn  = "zoom-in"
	CursorZoomOut = "zoom-out"
)

// Hover tracks whether the pointer is over an element. Only Enter and Leave
// change it.
type Hover struct {
	hovering bool
}

func (h *Hover) Enter()         { h.hovering = true }
func (h *Hover) Leave()         { h.hovering = false }
func (h *Hover) Hovering() bool { return h.hovering }

// CursorFor returns the cursor to show for a key event. While not hovering
// there is nothing to change and ok is false.
func CursorFor(hovering bool, mods Modifiers) (cursor string, ok bool) {
	if !hovering {
		return "", false
	}
	switch {
	case mods.Alt && mods.Shift:
		return CursorZoomOut, true
	case mods.Alt:
		return CursorZoomIn, true
	default:
		return CursorDefault, true
	}
}
