package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"peaksite/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempDir := t.TempDir()
	t.Chdir(tempDir)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp dir")
	}
	if resolved != filepath.Join(tempDir, config.DefaultFileName) {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}

	if cfg.Paths.OutputDir != filepath.Join(tempDir, "public") {
		t.Fatalf("unexpected output dir: %q", cfg.Paths.OutputDir)
	}
	if cfg.Paths.Entrypoint != filepath.Join(tempDir, "src", "index.html") {
		t.Fatalf("unexpected entrypoint: %q", cfg.Paths.Entrypoint)
	}
	if cfg.Images.RawDir != filepath.Join(tempDir, "src", "images", "raw") {
		t.Fatalf("unexpected raw images dir: %q", cfg.Images.RawDir)
	}
	if cfg.Images.MaxWidth != 1200 || cfg.Images.Quality != 75 {
		t.Fatalf("unexpected image settings: %+v", cfg.Images)
	}
	if cfg.Audio.Bitrate != "96k" || cfg.Audio.SampleRate != 48000 {
		t.Fatalf("unexpected audio settings: %+v", cfg.Audio)
	}
	if cfg.Audio.PixelsPerSecond != 50 || cfg.Audio.Bits != 8 {
		t.Fatalf("unexpected peak settings: %+v", cfg.Audio)
	}
	if cfg.Server.Bind != "127.0.0.1:0" {
		t.Fatalf("unexpected bind: %q", cfg.Server.Bind)
	}
	if !cfg.Bundle.Minify {
		t.Fatal("expected minification enabled by default")
	}
	if got := cfg.UI.ZoomLevels; len(got) != 5 || got[0] != 256 || got[4] != 4096 {
		t.Fatalf("unexpected zoom levels: %v", got)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.OutputDir, cfg.Paths.StateDir, cfg.Images.OptimizedDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "site.toml")

	type payload struct {
		Paths struct {
			OutputDir string `toml:"output_dir"`
		} `toml:"paths"`
		Images struct {
			MaxWidth int `toml:"max_width"`
		} `toml:"images"`
		Audio struct {
			Patterns []string `toml:"patterns"`
		} `toml:"audio"`
		Logging struct {
			Format string `toml:"format"`
		} `toml:"logging"`
	}
	custom := payload{}
	custom.Paths.OutputDir = filepath.Join(tempDir, "dist")
	custom.Images.MaxWidth = 800
	custom.Audio.Patterns = []string{" *.wav ", "*.flac", "*.wav"}
	custom.Logging.Format = "JSON"
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Paths.OutputDir != filepath.Join(tempDir, "dist") {
		t.Fatalf("unexpected output dir %q", cfg.Paths.OutputDir)
	}
	if cfg.Images.MaxWidth != 800 {
		t.Fatalf("expected max width 800, got %d", cfg.Images.MaxWidth)
	}
	if cfg.Images.Quality != 75 {
		t.Fatalf("expected default quality to survive, got %d", cfg.Images.Quality)
	}
	if got := strings.Join(cfg.Audio.Patterns, ","); got != "*.wav,*.flac" {
		t.Fatalf("unexpected normalized patterns %q", got)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("expected lowercased format, got %q", cfg.Logging.Format)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "peaksite.toml")
	if err := os.WriteFile(configPath, []byte("[images]\nmax_widht = 10\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(configPath); err == nil {
		t.Fatal("expected error for misspelled key")
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	defaults := config.Default()
	if cfg.Images.MaxWidth != defaults.Images.MaxWidth {
		t.Fatalf("sample max width %d drifted from default %d", cfg.Images.MaxWidth, defaults.Images.MaxWidth)
	}
	if cfg.UI.WasmEnabled != defaults.UI.WasmEnabled || !cfg.UI.WasmEnabled {
		t.Fatalf("sample wasm_enabled=%v, default %v; the waveform player must ship enabled", cfg.UI.WasmEnabled, defaults.UI.WasmEnabled)
	}
	if cfg.Audio.Featured != defaults.Audio.Featured {
		t.Fatalf("sample featured track %q drifted from default %q", cfg.Audio.Featured, defaults.Audio.Featured)
	}

	loaded, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample config does not load: %v", err)
	}
	if !exists || loaded.Audio.Bits != 8 {
		t.Fatalf("unexpected loaded sample: exists=%v bits=%d", exists, loaded.Audio.Bits)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"zero width", func(c *config.Config) { c.Images.MaxWidth = 0 }},
		{"quality too high", func(c *config.Config) { c.Images.Quality = 101 }},
		{"odd bit depth", func(c *config.Config) { c.Audio.Bits = 12 }},
		{"zero sample rate", func(c *config.Config) { c.Audio.SampleRate = 0 }},
		{"zero pixels per second", func(c *config.Config) { c.Audio.PixelsPerSecond = 0 }},
		{"featured path", func(c *config.Config) { c.Audio.Featured = "../rosa5.wav" }},
		{"descending zoom", func(c *config.Config) { c.UI.ZoomLevels = []int{512, 256} }},
		{"single zoom", func(c *config.Config) { c.UI.ZoomLevels = []int{256} }},
		{"bad format", func(c *config.Config) { c.Logging.Format = "xml" }},
		{"bad pattern", func(c *config.Config) { c.Images.Patterns = []string{"[*.jpg"} }},
		{"same image dirs", func(c *config.Config) { c.Images.OptimizedDir = c.Images.RawDir }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestDefaultValidates(t *testing.T) {
	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}
