package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"peaksite/internal/assets"
	"peaksite/internal/build"
	"peaksite/internal/services"
	"peaksite/internal/testsupport"
)

func TestCLIBuildRecordsHistory(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"build"}, env.configPath)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	requireContains(t, out, "complete in")
	requireContains(t, out, "Images: 1 converted, 0 skipped")
	requireContains(t, out, "Audio: 1 sources, 3 files generated")
	requireContains(t, out, "Featured: rosa5.wav -> rosa5-")

	manifest, err := build.ReadManifest(env.cfg.Paths.OutputDir)
	if err != nil {
		t.Fatalf("ReadManifest: %v", err)
	}
	if env.runner.CountByName("bun") != 1 {
		t.Fatalf("expected one bundler run, got %d", env.runner.CountByName("bun"))
	}

	out, _, err = runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, manifest.BuildID)
	requireContains(t, out, "succeeded")

	out, _, err = runCLI(t, []string{"history", manifest.BuildID}, env.configPath)
	if err != nil {
		t.Fatalf("history <id>: %v", err)
	}
	requireContains(t, out, manifest.Featured.Dat)
	requireContains(t, out, "cover.webp")

	_, _, err = runCLI(t, []string{"history", "no-such-build"}, env.configPath)
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCLIBuildSecondRunUsesCache(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, []string{"build"}, env.configPath); err != nil {
		t.Fatalf("first build: %v", err)
	}
	out, _, err := runCLI(t, []string{"build"}, env.configPath)
	if err != nil {
		t.Fatalf("second build: %v", err)
	}
	requireContains(t, out, "Images: 0 converted, 1 skipped")
	requireContains(t, out, "Audio: 1 sources, 0 files generated")
	if got := env.runner.CountByName("ffmpeg"); got != 1 {
		t.Fatalf("expected ffmpeg once across both builds, got %d", got)
	}
}

func TestCLIBuildPreflightFailure(t *testing.T) {
	env := setupCLITestEnv(t)
	if err := os.Remove(filepath.Join(env.cfg.Audio.SourceDir, "rosa5.wav")); err != nil {
		t.Fatalf("remove featured: %v", err)
	}

	_, _, err := runCLI(t, []string{"build"}, env.configPath)
	if err == nil {
		t.Fatal("expected preflight failure")
	}
	if services.ExitCode(err) != 2 {
		t.Fatalf("expected configuration exit code, got %d (%v)", services.ExitCode(err), err)
	}
	requireContains(t, err.Error(), "Featured track")
	if len(env.runner.Commands()) != 0 {
		t.Fatalf("no tool should run after a failed preflight, got %v", env.runner.Commands())
	}
}

func TestCLIOptimizeSounds(t *testing.T) {
	env := setupCLITestEnv(t)
	extra := filepath.Join(env.baseDir, "extra.wav")
	testsupport.WriteContent(t, extra, []byte("RIFF extra"))

	out, _, err := runCLI(t, []string{"optimize", "sounds", extra}, env.configPath)
	if err != nil {
		t.Fatalf("optimize sounds: %v", err)
	}
	requireContains(t, out, "extra.wav [")
	requireContains(t, out, "(generated)")

	out, _, err = runCLI(t, []string{"optimize", "sounds"}, env.configPath)
	if err != nil {
		t.Fatalf("optimize sounds (all): %v", err)
	}
	requireContains(t, out, "rosa5.wav [")
	if strings.Contains(out, "extra.wav") {
		t.Fatalf("batch should only cover the source directory: %s", out)
	}
}

func TestCLIOptimizeImages(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"optimize", "images"}, env.configPath)
	if err != nil {
		t.Fatalf("optimize images: %v", err)
	}
	requireContains(t, out, "cover.webp (generated)")
	if _, err := os.Stat(filepath.Join(env.cfg.Images.OptimizedDir, "cover.webp")); err != nil {
		t.Fatalf("expected optimized image: %v", err)
	}
}

func TestCLIHash(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "abc.wav")
	testsupport.WriteContent(t, path, []byte("abc"))

	out, _, err := runCLI(t, []string{"hash", path}, "")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	requireContains(t, out, "90015098  "+path)

	out, _, err = runCLI(t, []string{"hash", "--ext", ".webm", path}, "")
	if err != nil {
		t.Fatalf("hash --ext: %v", err)
	}
	requireContains(t, out, "abc-90015098.webm")

	_, _, err = runCLI(t, []string{"hash", filepath.Join(dir, "missing.wav")}, "")
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCLIAssetsAndPrune(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, []string{"build"}, env.configPath); err != nil {
		t.Fatalf("build: %v", err)
	}

	out, _, err := runCLI(t, []string{"assets"}, env.configPath)
	if err != nil {
		t.Fatalf("assets: %v", err)
	}
	requireContains(t, out, "3 files, 0 orphaned")

	chunk := filepath.Join(env.cfg.Paths.OutputDir, "chunk-0a1b2c3d.js")
	testsupport.WriteContent(t, chunk, []byte("export{}"))
	testsupport.WriteContent(t, filepath.Join(env.cfg.Audio.SourceDir, "rosa5.wav"), []byte("RIFF rosa, remastered"))
	out, _, err = runCLI(t, []string{"assets", "--prune"}, env.configPath)
	if err != nil {
		t.Fatalf("assets --prune: %v", err)
	}
	requireContains(t, out, "orphan")
	requireContains(t, out, "Removed 3 files")

	entries, err := assets.Scan(env.cfg.Paths.OutputDir)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected all derived files pruned, got %+v", entries)
	}
	if _, err := os.Stat(chunk); err != nil {
		t.Fatalf("bundler chunk should survive prune: %v", err)
	}
}

func TestCLIInspect(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tone-0123abcd.json")
	testsupport.WriteContent(t, path, []byte(`{"version":2,"channels":1,"sample_rate":48000,"samples_per_pixel":256,"bits":8,"length":2,"data":[-10,10,-5,5]}`))

	out, _, err := runCLI(t, []string{"inspect", path}, "")
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	requireContains(t, out, "-10..10")

	out, _, err = runCLI(t, []string{"inspect", "--json", path}, "")
	if err != nil {
		t.Fatalf("inspect --json: %v", err)
	}
	requireContains(t, out, `"samples_per_pixel": 256`)

	bad := filepath.Join(dir, "bad.json")
	testsupport.WriteContent(t, bad, []byte(`{"version":9}`))
	_, _, err = runCLI(t, []string{"inspect", bad}, "")
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCLIDoctor(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"doctor"}, env.configPath)
	if err != nil {
		t.Fatalf("doctor: %v\n%s", err, out)
	}
	requireContains(t, out, "Config: "+env.configPath)
	requireContains(t, out, "audiowaveform")
	requireContains(t, out, "All checks passed")

	env.cfg.Tools.FFmpeg = "definitely-not-installed-ffmpeg"
	writeTestConfig(t, env.configPath, env.cfg)
	out, _, err = runCLI(t, []string{"doctor"}, env.configPath)
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	requireContains(t, out, "missing")
}
