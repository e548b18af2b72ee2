package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"peaksite/internal/config"
	"peaksite/internal/imageopt"
	"peaksite/internal/services"
	"peaksite/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	runner     *testsupport.FakeRunner
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	base := testsupport.BaseDir(cfg)
	configPath := filepath.Join(base, config.DefaultFileName)
	writeTestConfig(t, configPath, cfg)

	testsupport.WriteContent(t, cfg.Paths.Entrypoint, []byte("<html></html>"))
	testsupport.WriteContent(t, filepath.Join(cfg.Audio.SourceDir, "rosa5.wav"), []byte("RIFF rosa"))
	testsupport.WriteContent(t, filepath.Join(cfg.Images.RawDir, "cover.jpg"), []byte("jpeg"))

	runner := &testsupport.FakeRunner{}
	prevRunner, prevEncoder := newRunner, newEncoder
	newRunner = func() services.Runner { return runner }
	newEncoder = func() imageopt.Encoder {
		return imageopt.EncoderFunc(func(src []byte, maxWidth, quality int) ([]byte, error) {
			return append([]byte("webp:"), src...), nil
		})
	}
	t.Cleanup(func() {
		newRunner, newEncoder = prevRunner, prevEncoder
	})

	return &cliTestEnv{cfg: cfg, runner: runner, configPath: configPath, baseDir: base}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected output to contain %q, got:\n%s", substr, output)
	}
}
