// Package audioopt produces the compressed audio and peak files derived from
// each source recording.
package audioopt

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"peaksite/internal/assets"
	"peaksite/internal/config"
	"peaksite/internal/fileutil"
	"peaksite/internal/logging"
	"peaksite/internal/services"
)

const (
	stepAudio = "audio"

	extWebM     = assets.ExtAudio
	extWaveform = assets.ExtWaveform
	extDat      = assets.ExtDat
)

// Settings mirror the [audio] and [tools] configuration used here.
type Settings struct {
	FFmpeg          string
	Audiowaveform   string
	Bitrate         string
	SampleRate      int
	PixelsPerSecond int
	Bits            int
}

// SettingsFromConfig extracts the optimizer settings from cfg.
func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		FFmpeg:          cfg.Tools.FFmpeg,
		Audiowaveform:   cfg.Tools.Audiowaveform,
		Bitrate:         cfg.Audio.Bitrate,
		SampleRate:      cfg.Audio.SampleRate,
		PixelsPerSecond: cfg.Audio.PixelsPerSecond,
		Bits:            cfg.Audio.Bits,
	}
}

// Artifacts names the three files derived from one source.
type Artifacts struct {
	Source   string `json:"source"`
	Hash     string `json:"hash"`
	Audio    string `json:"audio"`
	Waveform string `json:"peaks"`
	Dat      string `json:"dat"`
	// Written lists the files this run produced; empty on a full cache hit.
	Written []string `json:"-"`
}

// Generated reports how many of the three files this run produced.
func (a Artifacts) Generated() int {
	return len(a.Written)
}

// Optimizer runs ffmpeg and audiowaveform for source recordings, writing
// derived files into OutputDir.
type Optimizer struct {
	OutputDir string
	Settings  Settings
	Runner    services.Runner
	Logger    *slog.Logger
}

// New builds an optimizer writing into the configured output directory.
func New(cfg *config.Config, runner services.Runner, logger *slog.Logger) *Optimizer {
	if runner == nil {
		runner = services.ExecRunner{}
	}
	return &Optimizer{
		OutputDir: cfg.Paths.OutputDir,
		Settings:  SettingsFromConfig(cfg),
		Runner:    runner,
		Logger:    logging.NewComponentLogger(logger, "audio"),
	}
}

// WebM compresses source to Opus-in-WebM and returns the derived name.
func (o *Optimizer) WebM(ctx context.Context, source string) (string, error) {
	name, _, err := o.produce(ctx, source, extWebM, o.webmCommand)
	return name, err
}

// Waveform renders JSON peak data for source and returns the derived name.
func (o *Optimizer) Waveform(ctx context.Context, source string) (string, error) {
	name, _, err := o.produce(ctx, source, extWaveform, o.waveformCommand)
	return name, err
}

// Dat renders binary peak data for source and returns the derived name.
func (o *Optimizer) Dat(ctx context.Context, source string) (string, error) {
	name, _, err := o.produce(ctx, source, extDat, o.datCommand)
	return name, err
}

// Process derives all three artifacts for one source.
func (o *Optimizer) Process(ctx context.Context, source string) (Artifacts, error) {
	art := Artifacts{Source: filepath.Base(source)}
	steps := []struct {
		ext     string
		dst     *string
		command commandFunc
	}{
		{extWebM, &art.Audio, o.webmCommand},
		{extWaveform, &art.Waveform, o.waveformCommand},
		{extDat, &art.Dat, o.datCommand},
	}
	for _, step := range steps {
		name, created, err := o.produce(ctx, source, step.ext, step.command)
		if err != nil {
			return art, err
		}
		*step.dst = name
		if created {
			art.Written = append(art.Written, name)
		}
	}
	if parsed, ok := assets.ParseDerivedName(art.Audio); ok {
		art.Hash = parsed.Hash
	}
	return art, nil
}

// OptimizeAll processes every file in dir matching patterns, in name order.
// The first failure stops the batch.
func (o *Optimizer) OptimizeAll(ctx context.Context, dir string, patterns []string) ([]Artifacts, error) {
	sources, err := Sources(dir, patterns)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(o.OutputDir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, stepAudio, "mkdir", o.OutputDir, err)
	}
	results := make([]Artifacts, 0, len(sources))
	generated := 0
	for _, source := range sources {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		art, err := o.Process(ctx, source)
		if err != nil {
			return results, err
		}
		generated += art.Generated()
		results = append(results, art)
	}
	o.Logger.Info("audio optimized",
		logging.Int("sources", len(sources)),
		logging.Int("generated", generated),
		logging.Event("audio_complete"),
	)
	return results, nil
}

// Sources lists the files in dir matching any of patterns, sorted and
// de-duplicated. A missing directory yields no sources.
func Sources(dir string, patterns []string) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, services.Wrap(services.ErrConfiguration, stepAudio, "glob", pattern, err)
		}
		for _, match := range matches {
			if _, ok := seen[match]; ok {
				continue
			}
			info, err := os.Stat(match)
			if err != nil || info.IsDir() {
				continue
			}
			seen[match] = struct{}{}
			out = append(out, match)
		}
	}
	sort.Strings(out)
	return out, nil
}

type commandFunc func(source, out string) services.Command

// produce hashes source, returns early when the derived file exists, and
// otherwise runs the tool into a scratch file that is renamed into place.
func (o *Optimizer) produce(ctx context.Context, source, ext string, command commandFunc) (string, bool, error) {
	hash, err := assets.HashFile(source)
	if err != nil {
		return "", false, services.Wrap(services.ErrNotFound, stepAudio, "hash", filepath.Base(source), err)
	}
	name := assets.DerivedName(source, hash, ext).String()

	exists, err := assets.Exists(o.OutputDir, name)
	if err != nil {
		return "", false, services.Wrap(services.ErrValidation, stepAudio, "cache check", name, err)
	}
	logger := logging.WithContext(ctx, o.Logger).With(logging.Source(source), logging.Output(name))
	if exists {
		logger.Debug("derived audio cached")
		return name, false, nil
	}

	target := filepath.Join(o.OutputDir, name)
	err = fileutil.WriteAtomic(target, func(tmp string) error {
		cmd := command(source, tmp)
		logger.Debug("running tool", logging.String("command", cmd.String()))
		if _, err := o.Runner.Run(ctx, cmd); err != nil {
			return services.Wrap(services.ErrExternalTool, stepAudio, cmd.Name, fmt.Sprintf("derive %s", name), err)
		}
		return nil
	})
	if err != nil {
		return "", false, err
	}
	logger.Info("derived audio written", logging.Event("asset_written"))
	return name, true, nil
}

func (o *Optimizer) webmCommand(source, out string) services.Command {
	return services.Command{
		Name: o.Settings.FFmpeg,
		Args: []string{
			"-hide_banner",
			"-loglevel", "error",
			"-i", source,
			"-b:a", o.Settings.Bitrate,
			"-ar", strconv.Itoa(o.Settings.SampleRate),
			"-map_metadata", "-1",
			"-y", out,
		},
	}
}

func (o *Optimizer) waveformCommand(source, out string) services.Command {
	return services.Command{
		Name: o.Settings.Audiowaveform,
		Args: []string{
			"-i", source,
			"-o", out,
			"--pixels-per-second", strconv.Itoa(o.Settings.PixelsPerSecond),
			"--output-format", "json",
		},
	}
}

func (o *Optimizer) datCommand(source, out string) services.Command {
	return services.Command{
		Name: o.Settings.Audiowaveform,
		Args: []string{
			"--input-filename", source,
			"--input-format", "wav",
			"--output-filename", out,
			"--output-format", "dat",
			"--bits", strconv.Itoa(o.Settings.Bits),
		},
	}
}
