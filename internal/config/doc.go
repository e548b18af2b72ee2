// Package config loads, normalizes, and validates peaksite configuration data.
//
// It supplies repository defaults that reproduce the site's original build
// constants (1200px WebP at quality 75, 96k/48kHz WebM audio, 50 px/s JSON
// peaks, 8-bit binary peaks), expands relative paths against the working
// directory, and reads an optional peaksite.toml. The Config type centralizes
// every knob the build, dev server, and CLI need.
//
// Always obtain settings through this package so downstream code receives
// absolute paths, canonical log formats, and clear validation errors.
package config
