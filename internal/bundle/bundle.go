// Package bundle invokes the JavaScript bundler over the site entry point.
package bundle

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"peaksite/internal/config"
	"peaksite/internal/logging"
	"peaksite/internal/services"
)

const stepBundle = "bundle"

// Bundler runs `bun build` for the configured entry point.
type Bundler struct {
	Tool       string
	Entrypoint string
	OutputDir  string
	Minify     bool
	Runner     services.Runner
	Logger     *slog.Logger
}

// New builds a bundler from cfg.
func New(cfg *config.Config, runner services.Runner, logger *slog.Logger) *Bundler {
	if runner == nil {
		runner = services.ExecRunner{}
	}
	return &Bundler{
		Tool:       cfg.Tools.Bundler,
		Entrypoint: cfg.Paths.Entrypoint,
		OutputDir:  cfg.Paths.OutputDir,
		Minify:     cfg.Bundle.Minify,
		Runner:     runner,
		Logger:     logging.NewComponentLogger(logger, "bundle"),
	}
}

// Command returns the bundler invocation. Each define is passed as a JSON
// string literal so the bundler inlines it as a constant.
func (b *Bundler) Command(defines map[string]string) services.Command {
	args := []string{"build", b.Entrypoint, "--outdir", b.OutputDir}
	if b.Minify {
		args = append(args, "--minify")
	}
	keys := make([]string, 0, len(defines))
	for key := range defines {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		literal, _ := json.Marshal(defines[key])
		args = append(args, "--define", fmt.Sprintf("%s=%s", key, literal))
	}
	return services.Command{Name: b.Tool, Args: args}
}

// Run bundles the site into the output directory.
func (b *Bundler) Run(ctx context.Context, defines map[string]string) error {
	if _, err := os.Stat(b.Entrypoint); err != nil {
		return services.Wrap(services.ErrConfiguration, stepBundle, "entrypoint", b.Entrypoint, err)
	}
	cmd := b.Command(defines)
	logger := logging.WithContext(ctx, b.Logger)
	logger.Debug("running bundler", logging.String("command", cmd.String()))
	if _, err := b.Runner.Run(ctx, cmd); err != nil {
		return services.Wrap(services.ErrExternalTool, stepBundle, cmd.Name, "bundle site", err)
	}
	logger.Info("site bundled",
		logging.String("entrypoint", b.Entrypoint),
		logging.Event("bundle_complete"),
	)
	return nil
}
