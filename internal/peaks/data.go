package peaks

import (
	"errors"
	"fmt"
	"time"
)

// ErrFormat marks peak data that cannot be decoded.
var ErrFormat = errors.New("invalid peak data")

// Data is decoded waveform data.
type Data struct {
	Version         int
	Channels        int
	SampleRate      int
	SamplesPerPixel int
	Bits            int
	// Length is the number of min/max points per channel.
	Length int
	// Samples holds min/max pairs interleaved per channel:
	// [c0min, c0max, c1min, c1max, ...] for each point.
	Samples []int
}

// Duration is the audio time covered by the data.
func (d *Data) Duration() time.Duration {
	if d == nil || d.SampleRate <= 0 {
		return 0
	}
	seconds := float64(d.Length) * float64(d.SamplesPerPixel) / float64(d.SampleRate)
	return time.Duration(seconds * float64(time.Second))
}

// Channel returns the min and max series for channel ch.
func (d *Data) Channel(ch int) (mins, maxs []int, err error) {
	if ch < 0 || ch >= d.Channels {
		return nil, nil, fmt.Errorf("channel %d out of range [0,%d)", ch, d.Channels)
	}
	mins = make([]int, d.Length)
	maxs = make([]int, d.Length)
	stride := d.Channels * 2
	for i := 0; i < d.Length; i++ {
		base := i*stride + ch*2
		mins[i] = d.Samples[base]
		maxs[i] = d.Samples[base+1]
	}
	return mins, maxs, nil
}

// Summary is the compact description served to clients and printed by the
// inspect command.
type Summary struct {
	Version         int     `json:"version"`
	Channels        int     `json:"channels"`
	SampleRate      int     `json:"sample_rate"`
	SamplesPerPixel int     `json:"samples_per_pixel"`
	Bits            int     `json:"bits"`
	Length          int     `json:"length"`
	DurationSeconds float64 `json:"duration_seconds"`
	Min             int     `json:"min"`
	Max             int     `json:"max"`
}

// Summarize reports the header fields plus the overall amplitude range.
func (d *Data) Summarize() Summary {
	s := Summary{
		Version:         d.Version,
		Channels:        d.Channels,
		SampleRate:      d.SampleRate,
		SamplesPerPixel: d.SamplesPerPixel,
		Bits:            d.Bits,
		Length:          d.Length,
		DurationSeconds: d.Duration().Seconds(),
	}
	for i, v := range d.Samples {
		if i == 0 || v < s.Min {
			s.Min = v
		}
		if i == 0 || v > s.Max {
			s.Max = v
		}
	}
	return s
}

func (d *Data) validate() error {
	switch {
	case d.Version != 1 && d.Version != 2:
		return fmt.Errorf("%w: unsupported version %d", ErrFormat, d.Version)
	case d.Channels < 1:
		return fmt.Errorf("%w: channels must be positive, got %d", ErrFormat, d.Channels)
	case d.Version == 1 && d.Channels != 1:
		return fmt.Errorf("%w: version 1 data is mono, got %d channels", ErrFormat, d.Channels)
	case d.SampleRate <= 0:
		return fmt.Errorf("%w: sample rate must be positive, got %d", ErrFormat, d.SampleRate)
	case d.SamplesPerPixel <= 0:
		return fmt.Errorf("%w: samples per pixel must be positive, got %d", ErrFormat, d.SamplesPerPixel)
	case d.Bits != 8 && d.Bits != 16:
		return fmt.Errorf("%w: bits must be 8 or 16, got %d", ErrFormat, d.Bits)
	case d.Length < 0:
		return fmt.Errorf("%w: negative length", ErrFormat)
	}
	if want := d.Length * d.Channels * 2; len(d.Samples) != want {
		return fmt.Errorf("%w: expected %d samples, got %d", ErrFormat, want, len(d.Samples))
	}
	return nil
}
