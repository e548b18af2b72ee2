package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// DefaultFileName is the project-local configuration file looked up when no
// explicit path is given.
const DefaultFileName = "peaksite.toml"

// Paths contains the build entry point and output locations.
type Paths struct {
	OutputDir  string `toml:"output_dir"`
	Entrypoint string `toml:"entrypoint"`
	StateDir   string `toml:"state_dir"`
}

// Images contains configuration for the raw image optimizer.
type Images struct {
	RawDir       string   `toml:"raw_dir"`
	OptimizedDir string   `toml:"optimized_dir"`
	Patterns     []string `toml:"patterns"`
	MaxWidth     int      `toml:"max_width"`
	Quality      int      `toml:"quality"`
}

// Audio contains configuration for compressed audio and peak data generation.
type Audio struct {
	SourceDir       string   `toml:"source_dir"`
	Patterns        []string `toml:"patterns"`
	Bitrate         string   `toml:"bitrate"`
	SampleRate      int      `toml:"sample_rate"`
	PixelsPerSecond int      `toml:"pixels_per_second"`
	Bits            int      `toml:"bits"`
	// Featured is the source file the landing page waveform plays.
	Featured string `toml:"featured"`
}

// Tools names the external executables the build shells out to.
type Tools struct {
	FFmpeg        string `toml:"ffmpeg"`
	Audiowaveform string `toml:"audiowaveform"`
	Bundler       string `toml:"bundler"`
	Go            string `toml:"go"`
}

// Bundle contains configuration for the final bundler invocation.
type Bundle struct {
	Minify bool `toml:"minify"`
}

// Server contains configuration for the development server.
type Server struct {
	Bind string `toml:"bind"`
}

// UI contains configuration for the waveform page.
type UI struct {
	WasmEnabled bool   `toml:"wasm_enabled"`
	WasmPackage string `toml:"wasm_package"`
	ZoomLevels  []int  `toml:"zoom_levels"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for peaksite.
//
// Configuration sections by subsystem:
//   - Paths: bundler entry point, output directory, and build state
//   - Images: raw image scan and WebP settings
//   - Audio: source audio scan, ffmpeg and audiowaveform settings
//   - Tools: external executable names
//   - Bundle: bundler flags
//   - Server: development server bind address
//   - UI: waveform page options
//   - Logging: log format and level
type Config struct {
	Paths   Paths   `toml:"paths"`
	Images  Images  `toml:"images"`
	Audio   Audio   `toml:"audio"`
	Tools   Tools   `toml:"tools"`
	Bundle  Bundle  `toml:"bundle"`
	Server  Server  `toml:"server"`
	UI      UI      `toml:"ui"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path of the project-local
// configuration file in the working directory.
func DefaultConfigPath() (string, error) {
	return expandPath(DefaultFileName)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path == "" {
		path = DefaultFileName
	}
	expanded, err := expandPath(path)
	if err != nil {
		return "", false, err
	}
	info, err := os.Stat(expanded)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return expanded, false, nil
		}
		return "", false, fmt.Errorf("stat config: %w", err)
	}
	if info.IsDir() {
		return "", false, fmt.Errorf("config path %s is a directory", expanded)
	}
	return expanded, true, nil
}

// EnsureDirectories creates the directories every build writes into.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.OutputDir, c.Paths.StateDir, c.Images.OptimizedDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// LedgerPath returns the location of the build ledger database.
func (c *Config) LedgerPath() string {
	return filepath.Join(c.Paths.StateDir, "ledger.db")
}

// LogPath returns the location of the persistent build log.
func (c *Config) LogPath() string {
	return filepath.Join(c.Paths.StateDir, "peaksite.log")
}

// LockPath returns the lock file guarding concurrent builds of one output directory.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.StateDir, "build.lock")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
