package fileutil

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "wasm_exec.js")
	dst := filepath.Join(dir, "public", "wasm_exec.js")
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		t.Fatal(err)
	}

	content := []byte("globalThis.Go = class {}")
	if err := os.WriteFile(src, content, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := CopyFile(src, dst); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(content) {
		t.Fatalf("content mismatch: got %q, want %q", got, content)
	}
}

func TestCopyFile_MissingSource(t *testing.T) {
	dir := t.TempDir()
	if err := CopyFile(filepath.Join(dir, "nope"), filepath.Join(dir, "dst")); err == nil {
		t.Fatal("expected error for missing source")
	}
}

func TestTempSiblingKeepsExtension(t *testing.T) {
	tmp := TempSibling("/out/rosa5-1a2b3c4d.webm")
	if filepath.Dir(tmp) != "/out" {
		t.Fatalf("expected sibling directory, got %q", tmp)
	}
	if filepath.Ext(tmp) != ".webm" {
		t.Fatalf("expected .webm extension, got %q", tmp)
	}
	if !strings.HasPrefix(filepath.Base(tmp), ".rosa5-1a2b3c4d.partial-") {
		t.Fatalf("unexpected temp name %q", tmp)
	}
}

func TestWriteAtomicPublishesOnSuccess(t *testing.T) {
	target := filepath.Join(t.TempDir(), "out.json")
	err := WriteAtomic(target, func(tmp string) error {
		return os.WriteFile(tmp, []byte("{}"), 0o644)
	})
	if err != nil {
		t.Fatalf("WriteAtomic: %v", err)
	}
	got, err := os.ReadFile(target)
	if err != nil || string(got) != "{}" {
		t.Fatalf("unexpected target contents %q (%v)", got, err)
	}
	if _, err := os.Stat(TempSibling(target)); !os.IsNotExist(err) {
		t.Fatalf("expected scratch file to be gone, got %v", err)
	}
}

func TestWriteAtomicLeavesNothingOnFailure(t *testing.T) {
	target := filepath.Join(t.TempDir(), "out.dat")
	boom := errors.New("tool crashed")
	err := WriteAtomic(target, func(tmp string) error {
		_ = os.WriteFile(tmp, []byte("half"), 0o644)
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected producer error, got %v", err)
	}
	if _, err := os.Stat(target); !os.IsNotExist(err) {
		t.Fatalf("expected no target after failure, got %v", err)
	}
	if _, err := os.Stat(TempSibling(target)); !os.IsNotExist(err) {
		t.Fatalf("expected scratch cleanup, got %v", err)
	}
}

func TestWriteAtomicRequiresOutput(t *testing.T) {
	target := filepath.Join(t.TempDir(), "out.webp")
	if err := WriteAtomic(target, func(string) error { return nil }); err == nil {
		t.Fatal("expected error when producer writes nothing")
	}
}
