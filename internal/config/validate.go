package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateImages(); err != nil {
		return err
	}
	if err := c.validateAudio(); err != nil {
		return err
	}
	if err := c.validateUI(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateImages() error {
	if c.Images.MaxWidth <= 0 {
		return errors.New("images.max_width must be positive")
	}
	if c.Images.Quality < 1 || c.Images.Quality > 100 {
		return errors.New("images.quality must be between 1 and 100")
	}
	if filepath.Clean(c.Images.RawDir) == filepath.Clean(c.Images.OptimizedDir) {
		return errors.New("images.optimized_dir must differ from images.raw_dir")
	}
	return validatePatterns("images.patterns", c.Images.Patterns)
}

func (c *Config) validateAudio() error {
	if c.Audio.SampleRate <= 0 {
		return errors.New("audio.sample_rate must be positive")
	}
	if c.Audio.PixelsPerSecond <= 0 {
		return errors.New("audio.pixels_per_second must be positive")
	}
	if c.Audio.Bits != 8 && c.Audio.Bits != 16 {
		return fmt.Errorf("audio.bits must be 8 or 16, got %d", c.Audio.Bits)
	}
	if strings.ContainsAny(c.Audio.Featured, `/\`) {
		return errors.New("audio.featured must be a file name inside audio.source_dir")
	}
	return validatePatterns("audio.patterns", c.Audio.Patterns)
}

func (c *Config) validateUI() error {
	if len(c.UI.ZoomLevels) < 2 {
		return errors.New("ui.zoom_levels needs at least two entries")
	}
	for i, level := range c.UI.ZoomLevels {
		if level <= 0 {
			return fmt.Errorf("ui.zoom_levels[%d] must be positive", i)
		}
		if i > 0 && level <= c.UI.ZoomLevels[i-1] {
			return errors.New("ui.zoom_levels must be strictly ascending")
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "auto", "console", "json":
	default:
		return fmt.Errorf("logging.format must be auto, console, or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}

func validatePatterns(field string, patterns []string) error {
	for _, pattern := range patterns {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return fmt.Errorf("%s: invalid pattern %q: %w", field, pattern, err)
		}
		if strings.ContainsAny(pattern, `/\`) {
			return fmt.Errorf("%s: pattern %q must not contain a directory", field, pattern)
		}
	}
	return nil
}
