package build

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"peaksite/internal/fileutil"
	"peaksite/internal/services"
)

const (
	wasmModuleName  = "waveui.wasm"
	wasmSupportName = "wasm_exec.js"
)

// WasmAssets names the compiled waveform UI files in the output directory.
type WasmAssets struct {
	Module  string `json:"module"`
	Support string `json:"support"`
}

// compileWasm builds the waveform UI for js/wasm and copies the Go runtime
// glue script next to it.
func (b *Builder) compileWasm(ctx context.Context) (*WasmAssets, error) {
	ctx = services.WithStep(ctx, "wasm")
	outDir := b.cfg.Paths.OutputDir
	target := filepath.Join(outDir, wasmModuleName)

	err := fileutil.WriteAtomic(target, func(tmp string) error {
		cmd := services.Command{
			Name: b.cfg.Tools.Go,
			Args: []string{"build", "-trimpath", "-o", tmp, b.cfg.UI.WasmPackage},
			Env:  []string{"GOOS=js", "GOARCH=wasm"},
		}
		if _, err := b.runner.Run(ctx, cmd); err != nil {
			return services.Wrap(services.ErrExternalTool, "wasm", cmd.Name, "compile waveform ui", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	support, err := b.wasmSupportPath(ctx)
	if err != nil {
		return nil, err
	}
	if err := fileutil.CopyFile(support, filepath.Join(outDir, wasmSupportName)); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "wasm", "copy", wasmSupportName, err)
	}
	return &WasmAssets{Module: wasmModuleName, Support: wasmSupportName}, nil
}

// wasmSupportPath locates wasm_exec.js in the toolchain. Go 1.24 moved it
// from misc/wasm to lib/wasm.
func (b *Builder) wasmSupportPath(ctx context.Context) (string, error) {
	out, err := b.runner.Run(ctx, services.Command{Name: b.cfg.Tools.Go, Args: []string{"env", "GOROOT"}})
	if err != nil {
		return "", services.Wrap(services.ErrExternalTool, "wasm", "go env", "resolve GOROOT", err)
	}
	root := strings.TrimSpace(string(out))
	if root == "" {
		return "", services.Wrap(services.ErrConfiguration, "wasm", "go env", "empty GOROOT", nil)
	}
	for _, rel := range []string{"lib/wasm", "misc/wasm"} {
		candidate := filepath.Join(root, rel, wasmSupportName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("stat %s: %w", candidate, err)
		}
	}
	return "", services.Wrap(services.ErrNotFound, "wasm", "locate", wasmSupportName+" under "+root, nil)
}
