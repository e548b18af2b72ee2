// Package imageopt converts raw site images into width-bounded WebP files.
package imageopt

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"peaksite/internal/config"
	"peaksite/internal/fileutil"
	"peaksite/internal/logging"
	"peaksite/internal/services"
)

const stepImages = "images"

// Encoder turns encoded source image bytes into WebP bytes no wider than
// maxWidth.
type Encoder interface {
	EncodeWebP(src []byte, maxWidth, quality int) ([]byte, error)
}

// EncoderFunc adapts a function to Encoder.
type EncoderFunc func(src []byte, maxWidth, quality int) ([]byte, error)

// EncodeWebP calls f.
func (f EncoderFunc) EncodeWebP(src []byte, maxWidth, quality int) ([]byte, error) {
	return f(src, maxWidth, quality)
}

// Result reports one optimizer pass.
type Result struct {
	Images    []Image
	Converted int
	Skipped   int
}

// Image pairs a raw source with its optimized file name.
type Image struct {
	Source string `json:"source"`
	Output string `json:"image"`
	// Written is set when this run produced the file.
	Written bool `json:"-"`
}

// Optimizer writes {name}.webp into OutputDir for every raw image.
type Optimizer struct {
	RawDir    string
	OutputDir string
	Patterns  []string
	MaxWidth  int
	Quality   int
	Encoder   Encoder
	Logger    *slog.Logger
}

// New builds an optimizer from the [images] section. A nil encoder uses
// libvips.
func New(cfg *config.Config, encoder Encoder, logger *slog.Logger) *Optimizer {
	if encoder == nil {
		encoder = NewVipsEncoder()
	}
	return &Optimizer{
		RawDir:    cfg.Images.RawDir,
		OutputDir: cfg.Images.OptimizedDir,
		Patterns:  cfg.Images.Patterns,
		MaxWidth:  cfg.Images.MaxWidth,
		Quality:   cfg.Images.Quality,
		Encoder:   encoder,
		Logger:    logging.NewComponentLogger(logger, "images"),
	}
}

// OutputName maps a raw image path to its optimized file name.
func OutputName(source string) string {
	base := filepath.Base(source)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".webp"
}

// Run converts every raw image lacking an optimized counterpart. Every file
// is attempted; failures are joined into the returned error.
func (o *Optimizer) Run(ctx context.Context) (Result, error) {
	var result Result
	sources, err := o.sources()
	if err != nil {
		return result, err
	}
	if err := os.MkdirAll(o.OutputDir, 0o755); err != nil {
		return result, services.Wrap(services.ErrConfiguration, stepImages, "mkdir", o.OutputDir, err)
	}

	logger := logging.WithContext(ctx, o.Logger)
	var errs []error
	for _, source := range sources {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		name := OutputName(source)
		target := filepath.Join(o.OutputDir, name)
		if _, err := os.Stat(target); err == nil {
			result.Skipped++
			result.Images = append(result.Images, Image{Source: filepath.Base(source), Output: name})
			continue
		}
		if err := o.convert(source, target); err != nil {
			logger.Warn("image conversion failed",
				logging.Source(source),
				logging.Error(err),
			)
			errs = append(errs, err)
			continue
		}
		result.Converted++
		result.Images = append(result.Images, Image{Source: filepath.Base(source), Output: name, Written: true})
		logger.Info("image optimized",
			logging.Output(name),
			logging.Event("asset_written"),
		)
	}

	logger.Info("images optimized",
		logging.Int("converted", result.Converted),
		logging.Int("skipped", result.Skipped),
		logging.Int("failed", len(errs)),
	)
	return result, errors.Join(errs...)
}

func (o *Optimizer) convert(source, target string) error {
	src, err := os.ReadFile(source)
	if err != nil {
		return services.Wrap(services.ErrNotFound, stepImages, "read", filepath.Base(source), err)
	}
	encoded, err := o.Encoder.EncodeWebP(src, o.MaxWidth, o.Quality)
	if err != nil {
		return services.Wrap(services.ErrExternalTool, stepImages, "encode", filepath.Base(source), err)
	}
	return fileutil.WriteAtomic(target, func(tmp string) error {
		return os.WriteFile(tmp, encoded, 0o644)
	})
}

func (o *Optimizer) sources() ([]string, error) {
	seen := make(map[string]struct{})
	var out []string
	for _, pattern := range o.Patterns {
		matches, err := filepath.Glob(filepath.Join(o.RawDir, pattern))
		if err != nil {
			return nil, services.Wrap(services.ErrConfiguration, stepImages, "glob", pattern, err)
		}
		for _, match := range matches {
			if _, ok := seen[match]; ok {
				continue
			}
			seen[match] = struct{}{}
			out = append(out, match)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r Result) String() string {
	return fmt.Sprintf("%d converted, %d skipped", r.Converted, r.Skipped)
}
