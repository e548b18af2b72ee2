package preflight

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"peaksite/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckOptionalDirectory_Missing(t *testing.T) {
	result := CheckOptionalDirectory("raw", filepath.Join(t.TempDir(), "absent"))
	if !result.Passed || !strings.Contains(result.Detail, "skipped") {
		t.Fatalf("expected skip, got %+v", result)
	}
}

func TestCheckWritableTarget_UsesAncestor(t *testing.T) {
	base := t.TempDir()
	result := CheckWritableTarget("out", filepath.Join(base, "a", "b", "public"))
	if !result.Passed {
		t.Fatalf("expected pass, got %s", result.Detail)
	}
	if !strings.Contains(result.Detail, "will be created under "+base) {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
}

func TestCheckFile(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "index.html")
	if err := os.WriteFile(f, []byte("<html>"), 0o644); err != nil {
		t.Fatal(err)
	}
	if r := CheckFile("entry", f); !r.Passed {
		t.Fatalf("expected pass, got %s", r.Detail)
	}
	if r := CheckFile("entry", dir); r.Passed {
		t.Fatal("expected failure for directory")
	}
	if r := CheckFile("entry", filepath.Join(dir, "missing.html")); r.Passed {
		t.Fatal("expected failure for missing file")
	}
}

func TestCheckBind(t *testing.T) {
	if r := CheckBind("server", "127.0.0.1:0"); !r.Passed {
		t.Fatalf("expected ephemeral bind to pass: %s", r.Detail)
	}
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()
	if r := CheckBind("server", l.Addr().String()); r.Passed {
		t.Fatal("expected failure for a port in use")
	}
}

func TestRunAll(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	testsupport.WriteContent(t, cfg.Paths.Entrypoint, []byte("<html>"))
	testsupport.WriteContent(t, filepath.Join(cfg.Audio.SourceDir, cfg.Audio.Featured), []byte("RIFF"))

	results := RunAll(context.Background(), cfg)
	if failed := Failed(results); len(failed) != 0 {
		t.Fatalf("unexpected failures: %+v", failed)
	}

	cfg.Tools.Audiowaveform = "clearly-not-present-binary"
	failed := Failed(RunAll(context.Background(), cfg))
	if len(failed) != 1 || failed[0].Name != "External tools" || !strings.Contains(failed[0].Detail, "clearly-not-present-binary") {
		t.Fatalf("expected tool failure, got %+v", failed)
	}
}

func TestRunAllMissingFeatured(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	testsupport.WriteContent(t, cfg.Paths.Entrypoint, []byte("<html>"))
	if err := os.MkdirAll(cfg.Audio.SourceDir, 0o755); err != nil {
		t.Fatal(err)
	}
	failed := Failed(RunAll(context.Background(), cfg))
	if len(failed) != 1 || failed[0].Name != "Featured track" {
		t.Fatalf("expected featured failure, got %+v", failed)
	}
}
