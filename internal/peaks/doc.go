// Package peaks decodes audiowaveform peak data and keeps a process-wide
// cache of decoded waveforms.
//
// Two encodings are supported: the binary .dat format (versions 1 and 2)
// and the JSON format. Both decode to Data, which carries interleaved
// min/max pairs per channel at a fixed samples-per-pixel resolution.
package peaks
