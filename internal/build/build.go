// Package build orchestrates a full site build: media optimization, the
// asset manifest, the optional waveform UI module and the bundler.
package build

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"peaksite/internal/audioopt"
	"peaksite/internal/bundle"
	"peaksite/internal/config"
	"peaksite/internal/imageopt"
	"peaksite/internal/ledger"
	"peaksite/internal/logging"
	"peaksite/internal/services"
)

// ErrBuildLocked is returned when another build holds the lock for the same
// state directory.
var ErrBuildLocked = errors.New("another build is already running")

// Option customizes a Builder.
type Option func(*Builder)

// WithRunner replaces the external command runner.
func WithRunner(r services.Runner) Option {
	return func(b *Builder) { b.runner = r }
}

// WithEncoder replaces the image encoder.
func WithEncoder(e imageopt.Encoder) Option {
	return func(b *Builder) { b.encoder = e }
}

// WithLedger records each run in store.
func WithLedger(store *ledger.Store) Option {
	return func(b *Builder) { b.ledger = store }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) { b.now = now }
}

// Builder runs builds for one configuration.
type Builder struct {
	cfg     *config.Config
	logger  *slog.Logger
	runner  services.Runner
	encoder imageopt.Encoder
	ledger  *ledger.Store
	now     func() time.Time
}

// New constructs a builder.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) *Builder {
	b := &Builder{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "build"),
		runner: services.ExecRunner{},
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Report summarizes a finished build.
type Report struct {
	BuildID  string
	Manifest *Manifest
	Images   imageopt.Result
	Duration time.Duration
}

// Run performs one build. Output already written by a failed run stays in
// place; every derived file is complete and is reused by the next run.
func (b *Builder) Run(ctx context.Context) (*Report, error) {
	buildID := uuid.NewString()
	ctx = services.WithBuildID(ctx, buildID)
	logger := logging.WithContext(ctx, b.logger)
	started := b.now()

	if err := b.cfg.EnsureDirectories(); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "prepare", "mkdir", "", err)
	}

	lock := flock.New(b.cfg.LockPath())
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire build lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (lock %s)", ErrBuildLocked, b.cfg.LockPath())
	}
	defer func() { _ = lock.Unlock() }()

	if b.ledger != nil {
		if err := b.ledger.BeginBuild(ctx, buildID, started); err != nil {
			logger.Warn("ledger unavailable", logging.Error(err))
		}
	}
	logger.Info("build started", logging.Event("build_start"))

	report, err := b.run(ctx, buildID)
	finished := b.now()
	if b.ledger != nil {
		if report != nil {
			if recErr := b.ledger.RecordAssets(ctx, ledgerAssets(buildID, report)); recErr != nil {
				logger.Warn("record assets failed", logging.Error(recErr))
			}
		}
		if finErr := b.ledger.FinishBuild(ctx, buildID, finished, err); finErr != nil {
			logger.Warn("finish ledger entry failed", logging.Error(finErr))
		}
	}
	if err != nil {
		logger.Error("build failed", logging.Error(err), logging.Duration("elapsed", finished.Sub(started)))
		return report, err
	}
	report.Duration = finished.Sub(started)
	logger.Info("build complete",
		logging.Duration("elapsed", report.Duration),
		logging.Int("audio_sources", len(report.Manifest.Audio)),
		logging.Int("images", len(report.Images.Images)),
		logging.Event("build_complete"),
	)
	return report, nil
}

func (b *Builder) run(ctx context.Context, buildID string) (*Report, error) {
	var (
		imageResult imageopt.Result
		audio       []audioopt.Artifacts
	)
	encoder := b.encoder
	if encoder == nil {
		encoder = imageopt.NewVipsEncoder()
	}
	images := imageopt.New(b.cfg, encoder, b.logger)
	sounds := audioopt.New(b.cfg, b.runner, b.logger)

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		imageResult, err = images.Run(services.WithStep(gctx, "images"))
		return err
	})
	group.Go(func() error {
		var err error
		audio, err = sounds.OptimizeAll(services.WithStep(gctx, "audio"), b.cfg.Audio.SourceDir, b.cfg.Audio.Patterns)
		return err
	})
	optimizeErr := group.Wait()

	manifest := &Manifest{
		BuildID:     buildID,
		GeneratedAt: b.now().UTC(),
		Audio:       audio,
		Images:      imageResult.Images,
		ZoomLevels:  b.cfg.UI.ZoomLevels,
	}
	report := &Report{BuildID: buildID, Manifest: manifest, Images: imageResult}
	if optimizeErr != nil {
		return report, optimizeErr
	}

	if featured := b.cfg.Audio.Featured; featured != "" {
		art, ok := manifest.AudioFor(featured)
		if !ok {
			return report, services.Wrap(services.ErrValidation, "manifest", "featured",
				fmt.Sprintf("%s not found in %s", featured, b.cfg.Audio.SourceDir), nil)
		}
		manifest.Featured = &art
	}

	if b.cfg.UI.WasmEnabled {
		wasm, err := b.compileWasm(ctx)
		if err != nil {
			return report, err
		}
		manifest.Wasm = wasm
	}

	if err := WriteManifest(b.cfg.Paths.OutputDir, manifest); err != nil {
		return report, services.Wrap(services.ErrConfiguration, "manifest", "write", ManifestName, err)
	}

	bundler := bundle.New(b.cfg, b.runner, b.logger)
	if err := bundler.Run(services.WithStep(ctx, "bundle"), manifest.Defines()); err != nil {
		return report, err
	}
	return report, nil
}

func ledgerAssets(buildID string, report *Report) []ledger.Asset {
	var out []ledger.Asset
	for _, art := range report.Manifest.Audio {
		written := make(map[string]bool, len(art.Written))
		for _, name := range art.Written {
			written[name] = true
		}
		for _, item := range []struct{ kind, output string }{
			{ledger.KindAudio, art.Audio},
			{ledger.KindWaveform, art.Waveform},
			{ledger.KindDat, art.Dat},
		} {
			if item.output == "" {
				continue
			}
			out = append(out, ledger.Asset{
				BuildID:   buildID,
				Kind:      item.kind,
				Source:    art.Source,
				Hash:      art.Hash,
				Output:    item.output,
				Generated: written[item.output],
			})
		}
	}
	for _, img := range report.Images.Images {
		out = append(out, ledger.Asset{
			BuildID:   buildID,
			Kind:      ledger.KindImage,
			Source:    img.Source,
			Output:    img.Output,
			Generated: img.Written,
		})
	}
	return out
}
