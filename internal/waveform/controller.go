package waveform

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"peaksite/internal/logging"
)

// Widget event names the page listens to.
const (
	EventReady           = "peaks.ready"
	EventSegmentsDragEnd = "segments.dragend"
	EventPlayerSeeked    = "player.seeked"
	EventZoomviewClick   = "zoomview.click"
	EventZoomUpdate      = "zoom.update"
)

// View names.
const (
	ViewZoomview = "zoomview"
	ViewOverview = "overview"
)

// ErrViewMissing is returned when the widget lacks a required view.
var ErrViewMissing = errors.New("waveform view missing")

// Event is a widget event reduced to the fields the page logs.
type Event struct {
	Name string
	// Time is the media time in seconds for seek and click events.
	Time float64
	// Detail carries the raw event for logging.
	Detail any
}

// View is one waveform pane of a widget instance.
type View interface {
	SetZoom(samplesPerPixel int)
	EnableSeek(enabled bool)
	EnableMarkerEditing(enabled bool)
	EnableSegmentDragging(enabled bool)
}

// Instance is an initialized widget.
type Instance interface {
	On(event string, fn func(Event))
	Once(event string, fn func(Event))
	View(name string) (View, bool)
	AddSegments(segments []Segment)
	Segments() []Segment
}

// Widget creates instances. Init reports through callback exactly as the
// widget does: a nil instance means failure.
type Widget interface {
	Init(opts Options, callback func(Instance, error))
}

// InitResult is the outcome of Init.
type InitResult struct {
	Instance Instance
	Err      error
}

// Init starts the widget and resolves once it reports ready or fails. The
// returned channel delivers exactly one result.
func Init(w Widget, opts Options) <-chan InitResult {
	result := make(chan InitResult, 1)
	var once sync.Once
	settle := func(r InitResult) {
		once.Do(func() {
			result <- r
			close(result)
		})
	}
	w.Init(opts, func(inst Instance, err error) {
		if inst == nil {
			if err == nil {
				err = errors.New("waveform widget returned no instance")
			}
			settle(InitResult{Err: err})
			return
		}
		inst.Once(EventReady, func(Event) {
			settle(InitResult{Instance: inst})
		})
	})
	return result
}

// Controller wires the page behaviour onto an instance.
type Controller struct {
	instance Instance
	zoomview View
	overview View
	zoom     *Zoom
	hover    Hover
	logger   *slog.Logger
}

// Attach registers event listeners, enables seeking and editing, and seeds
// the example segments.
func Attach(inst Instance, zoomLevels []int, logger *slog.Logger) (*Controller, error) {
	if len(zoomLevels) == 0 {
		zoomLevels = DefaultZoomLevels
	}
	zoom, err := NewZoom(zoomLevels)
	if err != nil {
		return nil, err
	}
	zoomview, ok := inst.View(ViewZoomview)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrViewMissing, ViewZoomview)
	}
	overview, ok := inst.View(ViewOverview)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrViewMissing, ViewOverview)
	}

	c := &Controller{
		instance: inst,
		zoomview: zoomview,
		overview: overview,
		zoom:     zoom,
		logger:   logging.NewComponentLogger(logger, "waveform"),
	}

	inst.On(EventSegmentsDragEnd, func(Event) {
		c.logger.Info("current segments", logging.Any("segments", inst.Segments()))
	})
	inst.On(EventPlayerSeeked, func(ev Event) {
		c.logger.Info("seeked", logging.Any("time", ev.Time))
	})
	inst.On(EventZoomviewClick, func(ev Event) {
		c.logger.Info("zoomview clicked", logging.Any("time", ev.Time))
	})
	inst.On(EventZoomUpdate, func(ev Event) {
		c.logger.Info("zoom update", logging.Any("event", ev.Detail))
	})

	zoomview.EnableSeek(true)
	overview.EnableSeek(true)
	zoomview.EnableMarkerEditing(true)
	zoomview.EnableSegmentDragging(true)

	inst.AddSegments(ExampleSegments())
	return c, nil
}

// Click handles a click on the zoomview pane.
func (c *Controller) Click(mods Modifiers) {
	level, ok := c.zoom.Click(mods)
	if !ok {
		return
	}
	c.zoomview.SetZoom(level)
}

// PointerEnter marks the zoomview as hovered.
func (c *Controller) PointerEnter() { c.hover.Enter() }

// PointerLeave clears the hover state.
func (c *Controller) PointerLeave() { c.hover.Leave() }

// Key returns the cursor to apply for a keydown or keyup event; ok is false
// when the pointer is elsewhere.
func (c *Controller) Key(mods Modifiers) (string, bool) {
	return CursorFor(c.hover.Hovering(), mods)
}

// ZoomLevel is the current samples-per-pixel value.
func (c *Controller) ZoomLevel() int {
	return c.zoom.Level()
}
