package peaks

import (
	"encoding/json"
	"fmt"
	"io"
)

type jsonData struct {
	Version         int   `json:"version"`
	Channels        int   `json:"channels"`
	SampleRate      int   `json:"sample_rate"`
	SamplesPerPixel int   `json:"samples_per_pixel"`
	Bits            int   `json:"bits"`
	Length          int   `json:"length"`
	Data            []int `json:"data"`
}

// DecodeJSON reads the audiowaveform JSON format. Version 1 documents omit
// the channel count and are treated as mono.
func DecodeJSON(r io.Reader) (*Data, error) {
	var doc jsonData
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFormat, err)
	}
	if doc.Channels == 0 {
		doc.Channels = 1
	}
	d := &Data{
		Version:         doc.Version,
		Channels:        doc.Channels,
		SampleRate:      doc.SampleRate,
		SamplesPerPixel: doc.SamplesPerPixel,
		Bits:            doc.Bits,
		Length:          doc.Length,
		Samples:         doc.Data,
	}
	if err := d.validate(); err != nil {
		return nil, err
	}
	return d, nil
}
