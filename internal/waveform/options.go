package waveform

import "encoding/json"

// ViewOptions configures one waveform pane. Container is an element id that
// the page binding swaps for the DOM node.
type ViewOptions struct {
	Container               string          `json:"container"`
	WaveformColor           string          `json:"waveformColor,omitempty"`
	PlayedWaveformColor     string          `json:"playedWaveformColor,omitempty"`
	PlayheadColor           string          `json:"playheadColor,omitempty"`
	PlayheadTextColor       string          `json:"playheadTextColor,omitempty"`
	PlayheadBackgroundColor string          `json:"playheadBackgroundColor,omitempty"`
	PlayheadPadding         int             `json:"playheadPadding,omitempty"`
	PlayheadWidth           int             `json:"playheadWidth,omitempty"`
	PlayheadClickTolerance  int             `json:"playheadClickTolerance,omitempty"`
	ShowPlayheadTime        bool            `json:"showPlayheadTime"`
	TimeLabelPrecision      int             `json:"timeLabelPrecision,omitempty"`
	AxisGridlineColor       string          `json:"axisGridlineColor,omitempty"`
	AxisLabelColor          string          `json:"axisLabelColor,omitempty"`
	ShowAxisLabels          bool            `json:"showAxisLabels"`
	FontFamily              string          `json:"fontFamily,omitempty"`
	FontSize                int             `json:"fontSize,omitempty"`
	FontStyle               string          `json:"fontStyle,omitempty"`
	WheelMode               string          `json:"wheelMode,omitempty"`
	AutoScroll              bool            `json:"autoScroll,omitempty"`
	AutoScrollOffset        int             `json:"autoScrollOffset,omitempty"`
	HighlightColor          string          `json:"highlightColor,omitempty"`
	HighlightStrokeColor    string          `json:"highlightStrokeColor,omitempty"`
	HighlightOpacity        float64         `json:"highlightOpacity,omitempty"`
	HighlightCornerRadius   int             `json:"highlightCornerRadius,omitempty"`
	HighlightOffset         int             `json:"highlightOffset,omitempty"`
	EnablePoints            bool            `json:"enablePoints"`
	EnableSegments          bool            `json:"enableSegments"`
	SegmentOptions          *SegmentOptions `json:"segmentOptions,omitempty"`
}

// SegmentOptions styles segment overlays and markers.
type SegmentOptions struct {
	Markers             bool    `json:"markers"`
	Overlay             bool    `json:"overlay"`
	OverlayColor        string  `json:"overlayColor,omitempty"`
	WaveformColor       string  `json:"waveformColor,omitempty"`
	OverlayLabelColor   string  `json:"overlayLabelColor,omitempty"`
	OverlayOpacity      float64 `json:"overlayOpacity,omitempty"`
	StartMarkerColor    string  `json:"startMarkerColor,omitempty"`
	EndMarkerColor      string  `json:"endMarkerColor,omitempty"`
	OverlayBorderColor  string  `json:"overlayBorderColor,omitempty"`
	OverlayBorderWidth  int     `json:"overlayBorderWidth,omitempty"`
	OverlayCornerRadius int     `json:"overlayCornerRadius,omitempty"`
	OverlayOffset       int     `json:"overlayOffset,omitempty"`
	OverlayLabelAlign   string  `json:"overlayLabelAlign,omitempty"`
	OverlayLabelPadding int     `json:"overlayLabelPadding,omitempty"`
	OverlayFontFamily   string  `json:"overlayFontFamily,omitempty"`
	OverlayFontSize     int     `json:"overlayFontSize,omitempty"`
	OverlayFontStyle    string  `json:"overlayFontStyle,omitempty"`
}

// DataURI points the widget at precomputed peak data.
type DataURI struct {
	ArrayBuffer string `json:"arraybuffer,omitempty"`
	JSON        string `json:"json,omitempty"`
}

// Options is the widget configuration.
type Options struct {
	MediaElement       string         `json:"mediaElement"`
	DataURI            DataURI        `json:"dataUri"`
	Zoomview           ViewOptions    `json:"zoomview"`
	Overview           ViewOptions    `json:"overview"`
	Keyboard           bool           `json:"keyboard"`
	ZoomLevels         []int          `json:"zoomLevels"`
	WaveformCache      bool           `json:"waveformCache"`
	NudgeIncrement     float64        `json:"nudgeIncrement,omitempty"`
	WaveformColor      string         `json:"waveformColor,omitempty"`
	PlayheadColor      string         `json:"playheadColor,omitempty"`
	PlayheadTextColor  string         `json:"playheadTextColor,omitempty"`
	AxisGridlineColor  string         `json:"axisGridlineColor,omitempty"`
	AxisLabelColor     string         `json:"axisLabelColor,omitempty"`
	FontFamily         string         `json:"fontFamily,omitempty"`
	FontSize           int            `json:"fontSize,omitempty"`
	FontStyle          string         `json:"fontStyle,omitempty"`
	TimeLabelPrecision int            `json:"timeLabelPrecision,omitempty"`
	ShowPlayheadTime   bool           `json:"showPlayheadTime"`
	PointMarkerColor   string         `json:"pointMarkerColor,omitempty"`
	EmitCueEvents      bool           `json:"emitCueEvents"`
	SegmentOptions     SegmentOptions `json:"segmentOptions"`
	WithCredentials    bool           `json:"withCredentials"`
}

// Source identifies the audio and binary peak files for the page.
type Source struct {
	Audio string
	Dat   string
}

// Elements the page markup provides. The media element is a CSS selector,
// the views are element ids.
const (
	MediaElementID = "audio"
	ZoomviewID     = "zoomview"
	OverviewID     = "overview"
)

// DefaultOptions returns the page's widget configuration for src.
func DefaultOptions(src Source, zoomLevels []int) Options {
	if len(zoomLevels) == 0 {
		zoomLevels = DefaultZoomLevels
	}
	return Options{
		MediaElement: MediaElementID,
		DataURI:      DataURI{ArrayBuffer: src.Dat},
		Zoomview: ViewOptions{
			Container:               ZoomviewID,
			WaveformColor:           "rgba(0, 225, 128, 1)",
			PlayedWaveformColor:     "rgb(1, 83, 48)",
			PlayheadColor:           "rgb(255, 255, 255)",
			PlayheadTextColor:       "rgb(255, 255, 255)",
			PlayheadBackgroundColor: "transparent",
			PlayheadPadding:         2,
			PlayheadWidth:           1,
			PlayheadClickTolerance:  3,
			ShowPlayheadTime:        true,
			TimeLabelPrecision:      2,
			AxisGridlineColor:       "rgb(116, 116, 116)",
			AxisLabelColor:          "rgb(193, 193, 193)",
			ShowAxisLabels:          true,
			FontFamily:              "sans-serif",
			FontSize:                11,
			FontStyle:               "normal",
			WheelMode:               "scroll",
			AutoScroll:              true,
			AutoScrollOffset:        100,
			EnablePoints:            true,
			EnableSegments:          true,
		},
		Overview: ViewOptions{
			Container:               OverviewID,
			WaveformColor:           "rgb(94, 255, 164)",
			PlayedWaveformColor:     "rgb(0, 103, 58)",
			HighlightColor:          "rgba(255, 255, 255, 0.08)",
			HighlightStrokeColor:    "transparent",
			HighlightOpacity:        1,
			HighlightCornerRadius:   2,
			HighlightOffset:         11,
			PlayheadColor:           "rgb(255, 255, 255)",
			PlayheadTextColor:       "rgb(255, 255, 255)",
			PlayheadBackgroundColor: "transparent",
			PlayheadPadding:         2,
			ShowPlayheadTime:        true,
			TimeLabelPrecision:      2,
			AxisGridlineColor:       "rgb(224, 222, 222)",
			AxisLabelColor:          "rgb(224, 222, 222)",
			ShowAxisLabels:          true,
			FontFamily:              "sans-serif",
			FontSize:                11,
			FontStyle:               "normal",
			EnablePoints:            true,
			EnableSegments:          true,
			SegmentOptions:          &SegmentOptions{},
		},
		Keyboard:           true,
		ZoomLevels:         append([]int(nil), zoomLevels...),
		WaveformCache:      true,
		NudgeIncrement:     0.01,
		WaveformColor:      "rgba(0, 225, 128, 1)",
		PlayheadColor:      "rgb(255, 255, 255)",
		PlayheadTextColor:  "#aaa",
		AxisGridlineColor:  "#ccc",
		AxisLabelColor:     "#aaa",
		FontFamily:         "sans-serif",
		FontSize:           11,
		FontStyle:          "normal",
		TimeLabelPrecision: 2,
		ShowPlayheadTime:   true,
		PointMarkerColor:   "#ff0000",
		SegmentOptions: SegmentOptions{
			Markers:             true,
			Overlay:             true,
			OverlayColor:        "rgba(255, 255, 255, 0.03)",
			WaveformColor:       "rgb(0, 51, 255)",
			OverlayLabelColor:   "rgb(255, 255, 255)",
			OverlayOpacity:      1,
			StartMarkerColor:    "rgb(0, 229, 255)",
			EndMarkerColor:      "rgb(0, 209, 233)",
			OverlayBorderColor:  "rgb(0, 229, 255)",
			OverlayBorderWidth:  2,
			OverlayCornerRadius: 5,
			OverlayOffset:       25,
			OverlayLabelAlign:   "left",
			OverlayLabelPadding: 8,
			OverlayFontFamily:   "sans-serif",
			OverlayFontSize:     12,
			OverlayFontStyle:    "normal",
		},
	}
}

// JSON renders the options in the widget's shape.
func (o Options) JSON() ([]byte, error) {
	return json.Marshal(o)
}
