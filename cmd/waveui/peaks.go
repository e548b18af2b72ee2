//go:build js && wasm

package main

import (
	"errors"
	"syscall/js"

	"peaksite/internal/waveform"
)

// peaksWidget adapts the Peaks global to waveform.Widget.
type peaksWidget struct{}

func (peaksWidget) Init(opts waveform.Options, callback func(waveform.Instance, error)) {
	peaks := js.Global().Get("Peaks")
	if peaks.IsUndefined() {
		callback(nil, errors.New("Peaks global is not loaded"))
		return
	}
	raw, err := opts.JSON()
	if err != nil {
		callback(nil, err)
		return
	}
	jsOpts := js.Global().Get("JSON").Call("parse", string(raw))
	doc := document()
	jsOpts.Set("mediaElement", doc.Call("querySelector", opts.MediaElement))
	jsOpts.Get("zoomview").Set("container", doc.Call("getElementById", opts.Zoomview.Container))
	jsOpts.Get("overview").Set("container", doc.Call("getElementById", opts.Overview.Container))
	jsOpts.Set("logger", js.Global().Get("console").Get("error").Call("bind", js.Global().Get("console")))

	var done js.Func
	done = js.FuncOf(func(this js.Value, args []js.Value) any {
		defer done.Release()
		instance := js.Undefined()
		if len(args) > 1 {
			instance = args[1]
		}
		if instance.IsUndefined() || instance.IsNull() {
			callback(nil, jsError(args))
			return nil
		}
		callback(peaksInstance{v: instance}, nil)
		return nil
	})
	peaks.Call("init", jsOpts, done)
}

func jsError(args []js.Value) error {
	if len(args) == 0 || args[0].IsUndefined() || args[0].IsNull() {
		return nil
	}
	return errors.New(args[0].Get("message").String())
}

type peaksInstance struct {
	v js.Value
}

func (p peaksInstance) On(event string, fn func(waveform.Event)) {
	p.v.Call("on", event, eventFunc(event, fn, false))
}

func (p peaksInstance) Once(event string, fn func(waveform.Event)) {
	p.v.Call("once", event, eventFunc(event, fn, true))
}

func (p peaksInstance) View(name string) (waveform.View, bool) {
	view := p.v.Get("views").Call("getView", name)
	if view.IsNull() || view.IsUndefined() {
		return nil, false
	}
	return peaksView{v: view}, true
}

func (p peaksInstance) AddSegments(segments []waveform.Segment) {
	items := make([]any, 0, len(segments))
	for _, s := range segments {
		items = append(items, map[string]any{
			"startTime": s.StartTime,
			"endTime":   s.EndTime,
			"labelText": s.LabelText,
			"editable":  s.Editable,
		})
	}
	p.v.Get("segments").Call("add", items)
}

func (p peaksInstance) Segments() []waveform.Segment {
	list := p.v.Get("segments").Call("getSegments")
	out := make([]waveform.Segment, 0, list.Length())
	for i := 0; i < list.Length(); i++ {
		s := list.Index(i)
		out = append(out, waveform.Segment{
			StartTime: s.Get("startTime").Float(),
			EndTime:   s.Get("endTime").Float(),
			LabelText: s.Get("labelText").String(),
			Editable:  s.Get("editable").Bool(),
		})
	}
	return out
}

// eventFunc converts a widget callback argument into a waveform.Event. Seek
// events pass a bare number, click events carry a time field and zoom
// updates carry the old and new scale.
func eventFunc(name string, fn func(waveform.Event), once bool) js.Func {
	var f js.Func
	f = js.FuncOf(func(this js.Value, args []js.Value) any {
		if once {
			defer f.Release()
		}
		ev := waveform.Event{Name: name}
		if len(args) > 0 {
			arg := args[0]
			switch arg.Type() {
			case js.TypeNumber:
				ev.Time = arg.Float()
			case js.TypeObject:
				if t := arg.Get("time"); t.Type() == js.TypeNumber {
					ev.Time = t.Float()
				}
				if cur := arg.Get("currentZoom"); cur.Type() == js.TypeNumber {
					ev.Detail = map[string]float64{
						"current":  cur.Float(),
						"previous": arg.Get("previousZoom").Float(),
					}
				}
			}
		}
		fn(ev)
		return nil
	})
	return f
}

type peaksView struct {
	v js.Value
}

func (p peaksView) SetZoom(samplesPerPixel int) {
	p.v.Call("setZoom", map[string]any{"scale": samplesPerPixel})
}

func (p peaksView) EnableSeek(enabled bool)            { p.v.Call("enableSeek", enabled) }
func (p peaksView) EnableMarkerEditing(enabled bool)   { p.v.Call("enableMarkerEditing", enabled) }
func (p peaksView) EnableSegmentDragging(enabled bool) { p.v.Call("enableSegmentDragging", enabled) }
