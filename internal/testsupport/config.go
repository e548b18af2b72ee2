package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"peaksite/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config rooted in a unique temp directory per test.
// Source and output directories live under that root; options may override
// any field.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.OutputDir = filepath.Join(base, "public")
	cfgVal.Paths.StateDir = filepath.Join(base, ".peaksite")
	cfgVal.Paths.Entrypoint = filepath.Join(base, "src", "index.html")
	cfgVal.Images.RawDir = filepath.Join(base, "src", "images", "raw")
	cfgVal.Images.OptimizedDir = filepath.Join(base, "src", "images", "optimized")
	cfgVal.Audio.SourceDir = filepath.Join(base, "src", "sounds")
	cfgVal.Server.Bind = "127.0.0.1:0"
	cfgVal.Logging.Format = "json"
	// Tests opt into the wasm compile with WithWasm.
	cfgVal.UI.WasmEnabled = false

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithFeatured sets the featured source track.
func WithFeatured(name string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Audio.Featured = name
	}
}

// WithWasm enables the waveform UI wasm step.
func WithWasm() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.UI.WasmEnabled = true
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH. If names is empty, the default peaksite external
// binaries are stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"ffmpeg", "audiowaveform", "bun"}
		}
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		script := []byte("#!/bin/sh\nexit 0\n")
		for _, name := range names {
			target := filepath.Join(binDir, name)
			if err := os.WriteFile(target, script, 0o755); err != nil {
				b.t.Fatalf("write stub %s: %v", name, err)
			}
		}

		oldPath := os.Getenv("PATH")
		if err := os.Setenv("PATH", binDir+string(os.PathListSeparator)+oldPath); err != nil {
			b.t.Fatalf("set PATH: %v", err)
		}
		b.t.Cleanup(func() {
			_ = os.Setenv("PATH", oldPath)
		})
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.OutputDir)
}
