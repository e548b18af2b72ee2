// Package waveform holds the browser-independent logic of the waveform
// page: widget initialization, the zoom stepper, hover-gated cursor hints
// and the seeded example segments.
//
// The widget itself is reached through the Widget, Instance and View
// interfaces so the logic can run under tests as well as under js/wasm,
// where cmd/waveui binds the interfaces to the page's Peaks global.
package waveform
