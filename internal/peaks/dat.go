package peaks

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	flag8Bit = 0x1

	// maxSamples bounds the min/max pairs a header may announce.
	maxSamples = 1 << 28
)

// DecodeDat reads the audiowaveform binary format. All header fields are
// little endian; version 2 adds a channel count after the length field.
func DecodeDat(r io.Reader) (*Data, error) {
	var head struct {
		Version         int32
		Flags           uint32
		SampleRate      int32
		SamplesPerPixel int32
		Length          uint32
	}
	if err := binary.Read(r, binary.LittleEndian, &head); err != nil {
		return nil, fmt.Errorf("%w: header: %w", ErrFormat, err)
	}
	d := &Data{
		Version:         int(head.Version),
		Channels:        1,
		SampleRate:      int(head.SampleRate),
		SamplesPerPixel: int(head.SamplesPerPixel),
		Length:          int(head.Length),
		Bits:            16,
	}
	if head.Flags&flag8Bit != 0 {
		d.Bits = 8
	}
	if d.Version == 2 {
		var channels int32
		if err := binary.Read(r, binary.LittleEndian, &channels); err != nil {
			return nil, fmt.Errorf("%w: channel count: %w", ErrFormat, err)
		}
		d.Channels = int(channels)
	}
	if d.Version != 1 && d.Version != 2 {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrFormat, d.Version)
	}
	if d.Channels < 1 {
		return nil, fmt.Errorf("%w: channels must be positive, got %d", ErrFormat, d.Channels)
	}

	width := 2
	if d.Bits == 8 {
		width = 1
	}
	// Both header fields are at most 32 bits wide, so the product fits.
	count := uint64(head.Length) * uint64(d.Channels) * 2
	if count > maxSamples {
		return nil, fmt.Errorf("%w: %d samples exceeds limit of %d", ErrFormat, count, maxSamples)
	}
	need := int64(count) * int64(width)
	raw, err := io.ReadAll(io.LimitReader(r, need))
	if err != nil {
		return nil, truncated(err)
	}
	if int64(len(raw)) < need {
		return nil, fmt.Errorf("%w: truncated sample data, want %d bytes, got %d", ErrFormat, need, len(raw))
	}
	d.Samples = make([]int, count)
	for i := range d.Samples {
		if width == 1 {
			d.Samples[i] = int(int8(raw[i]))
		} else {
			d.Samples[i] = int(int16(binary.LittleEndian.Uint16(raw[2*i:])))
		}
	}
	if err := d.validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// EncodeDat writes d in the binary format. Version 1 is used for mono data
// and version 2 otherwise.
func EncodeDat(w io.Writer, d *Data) error {
	if err := d.validate(); err != nil {
		return err
	}
	var buf bytes.Buffer
	version := int32(1)
	if d.Channels > 1 || d.Version == 2 {
		version = 2
	}
	var flags uint32
	if d.Bits == 8 {
		flags |= flag8Bit
	}
	fields := []any{version, flags, int32(d.SampleRate), int32(d.SamplesPerPixel), uint32(d.Length)}
	if version == 2 {
		fields = append(fields, int32(d.Channels))
	}
	for _, f := range fields {
		_ = binary.Write(&buf, binary.LittleEndian, f)
	}
	for _, v := range d.Samples {
		if d.Bits == 8 {
			_ = binary.Write(&buf, binary.LittleEndian, int8(v))
		} else {
			_ = binary.Write(&buf, binary.LittleEndian, int16(v))
		}
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func truncated(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: truncated sample data", ErrFormat)
	}
	return fmt.Errorf("%w: samples: %w", ErrFormat, err)
}
