//go:build js && wasm

package main

import (
	"errors"
	"syscall/js"

	"peaksite/internal/waveform"
)

type pageConfig struct {
	Audio      string
	Dat        string
	ZoomLevels []int
}

func document() js.Value {
	return js.Global().Get("document")
}

func readPageConfig() (pageConfig, error) {
	raw := js.Global().Get("peaksite")
	if raw.IsUndefined() || raw.IsNull() {
		return pageConfig{}, errors.New("globalThis.peaksite is not set")
	}
	cfg := pageConfig{
		Audio: stringField(raw, "audio"),
		Dat:   stringField(raw, "dat"),
	}
	if cfg.Audio == "" || cfg.Dat == "" {
		return pageConfig{}, errors.New("globalThis.peaksite needs audio and dat")
	}
	if levels := raw.Get("zoomLevels"); levels.Type() == js.TypeObject {
		for i := 0; i < levels.Length(); i++ {
			cfg.ZoomLevels = append(cfg.ZoomLevels, levels.Index(i).Int())
		}
	}
	return cfg, nil
}

func stringField(v js.Value, key string) string {
	field := v.Get(key)
	if field.Type() != js.TypeString {
		return ""
	}
	return field.String()
}

func modifiers(ev js.Value) waveform.Modifiers {
	return waveform.Modifiers{
		Alt:   ev.Get("altKey").Bool(),
		Shift: ev.Get("shiftKey").Bool(),
	}
}

// bindPage attaches DOM listeners for zoom clicks, hover tracking and the
// keyboard-driven cursor hint.
func bindPage(ctrl *waveform.Controller) {
	zoomview := document().Call("getElementById", waveform.ZoomviewID)
	passive := map[string]any{"passive": true}

	zoomview.Call("addEventListener", "click", js.FuncOf(func(this js.Value, args []js.Value) any {
		ctrl.Click(modifiers(args[0]))
		return nil
	}))
	zoomview.Call("addEventListener", "mouseenter", js.FuncOf(func(js.Value, []js.Value) any {
		ctrl.PointerEnter()
		return nil
	}), passive)
	zoomview.Call("addEventListener", "mouseout", js.FuncOf(func(js.Value, []js.Value) any {
		ctrl.PointerLeave()
		return nil
	}), passive)

	onKey := js.FuncOf(func(this js.Value, args []js.Value) any {
		if cursor, ok := ctrl.Key(modifiers(args[0])); ok {
			zoomview.Get("style").Set("cursor", cursor)
		}
		return nil
	})
	js.Global().Call("addEventListener", "keydown", onKey, passive)
	js.Global().Call("addEventListener", "keyup", onKey, passive)
}
