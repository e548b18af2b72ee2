//go:build js && wasm

// Command waveui runs the waveform page logic in the browser. It expects the
// page to load peaks.js (the Peaks global) and to set globalThis.peaksite
// with the derived audio and peak file names before starting the module.
package main

import (
	"os"

	"peaksite/internal/logging"
	"peaksite/internal/waveform"
)

func main() {
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Output: os.Stderr})
	if err != nil {
		logger = logging.NewNop()
	}

	page, err := readPageConfig()
	if err != nil {
		logger.Error("waveform page config", logging.Error(err))
		return
	}

	media := document().Call("querySelector", waveform.MediaElementID)
	if !media.IsNull() {
		media.Set("src", page.Audio)
	}

	opts := waveform.DefaultOptions(waveform.Source{Audio: page.Audio, Dat: page.Dat}, page.ZoomLevels)
	result := <-waveform.Init(peaksWidget{}, opts)
	if result.Err != nil {
		logger.Error("waveform init failed", logging.Error(result.Err))
		return
	}

	ctrl, err := waveform.Attach(result.Instance, page.ZoomLevels, logger)
	if err != nil {
		logger.Error("waveform attach failed", logging.Error(err))
		return
	}
	bindPage(ctrl)
	logger.Info("waveform ready", logging.Int("zoom", ctrl.ZoomLevel()))

	select {}
}
