// Package fileutil holds small filesystem helpers shared by the optimizers
// and the build orchestrator.
package fileutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// CopyFile streams src to dst, replacing dst atomically.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	return WriteAtomic(dst, func(tmp string) error {
		out, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if err != nil {
			return err
		}
		if _, err := io.Copy(out, in); err != nil {
			_ = out.Close()
			return err
		}
		return out.Close()
	})
}

// TempSibling returns a scratch path next to target that keeps target's
// extension, so tools that infer the output format from the file name still
// pick the right encoder.
func TempSibling(target string) string {
	dir := filepath.Dir(target)
	base := filepath.Base(target)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	return filepath.Join(dir, fmt.Sprintf(".%s.partial-%d%s", stem, os.Getpid(), ext))
}

// WriteAtomic lets produce write into a scratch sibling of target and renames
// it into place only when produce succeeds. A failed or interrupted producer
// never leaves a file at target.
func WriteAtomic(target string, produce func(tmp string) error) error {
	tmp := TempSibling(target)
	_ = os.Remove(tmp)
	if err := produce(tmp); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	info, err := os.Stat(tmp)
	if err != nil {
		return fmt.Errorf("producer left no output at %s: %w", tmp, err)
	}
	if info.IsDir() {
		_ = os.RemoveAll(tmp)
		return fmt.Errorf("producer wrote a directory at %s", tmp)
	}
	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("publish %s: %w", target, err)
	}
	return nil
}
