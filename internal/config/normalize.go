package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeImages(); err != nil {
		return err
	}
	if err := c.normalizeAudio(); err != nil {
		return err
	}
	c.normalizeTools()
	c.normalizeServer()
	c.normalizeUI()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.Entrypoint) == "" {
		c.Paths.Entrypoint = defaultEntrypoint
	}
	if c.Paths.Entrypoint, err = expandPath(c.Paths.Entrypoint); err != nil {
		return fmt.Errorf("paths.entrypoint: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeImages() error {
	var err error
	if strings.TrimSpace(c.Images.RawDir) == "" {
		c.Images.RawDir = defaultRawImagesDir
	}
	if c.Images.RawDir, err = expandPath(c.Images.RawDir); err != nil {
		return fmt.Errorf("images.raw_dir: %w", err)
	}
	if strings.TrimSpace(c.Images.OptimizedDir) == "" {
		c.Images.OptimizedDir = defaultOptimizedDir
	}
	if c.Images.OptimizedDir, err = expandPath(c.Images.OptimizedDir); err != nil {
		return fmt.Errorf("images.optimized_dir: %w", err)
	}
	c.Images.Patterns = normalizePatterns(c.Images.Patterns, defaultImagePatterns)
	return nil
}

func (c *Config) normalizeAudio() error {
	var err error
	if strings.TrimSpace(c.Audio.SourceDir) == "" {
		c.Audio.SourceDir = defaultSoundsDir
	}
	if c.Audio.SourceDir, err = expandPath(c.Audio.SourceDir); err != nil {
		return fmt.Errorf("audio.source_dir: %w", err)
	}
	c.Audio.Patterns = normalizePatterns(c.Audio.Patterns, defaultAudioPatterns)
	c.Audio.Bitrate = strings.ToLower(strings.TrimSpace(c.Audio.Bitrate))
	if c.Audio.Bitrate == "" {
		c.Audio.Bitrate = defaultAudioBitrate
	}
	c.Audio.Featured = strings.TrimSpace(c.Audio.Featured)
	return nil
}

func (c *Config) normalizeTools() {
	c.Tools.FFmpeg = stringOr(c.Tools.FFmpeg, defaultFFmpeg)
	c.Tools.Audiowaveform = stringOr(c.Tools.Audiowaveform, defaultAudiowaveform)
	c.Tools.Bundler = stringOr(c.Tools.Bundler, defaultBundler)
	c.Tools.Go = stringOr(c.Tools.Go, defaultGo)
}

func (c *Config) normalizeServer() {
	c.Server.Bind = stringOr(c.Server.Bind, defaultServerBind)
}

func (c *Config) normalizeUI() {
	c.UI.WasmPackage = stringOr(c.UI.WasmPackage, defaultWasmPackage)
	if len(c.UI.ZoomLevels) == 0 {
		c.UI.ZoomLevels = append([]int(nil), defaultZoomLevels...)
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func normalizePatterns(patterns []string, fallback []string) []string {
	out := make([]string, 0, len(patterns))
	seen := make(map[string]struct{}, len(patterns))
	for _, pattern := range patterns {
		trimmed := strings.TrimSpace(pattern)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	if len(out) == 0 {
		return append([]string(nil), fallback...)
	}
	return out
}

func stringOr(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}
