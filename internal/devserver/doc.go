// Package devserver serves a built site for local preview.
//
// GET / returns the bundled landing page and every other GET path is read
// straight from the output directory. The server also exposes a small JSON
// endpoint summarizing derived peak files so the waveform page can be
// checked without a browser.
package devserver
