package assets

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestHashFileKnownDigest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hello.txt")
	writeFile(t, path, []byte("hello world"))

	// md5("hello world") = 5eb63bbbe01eeed093cb22bb8f5acdc3
	got, err := HashFile(path)
	if err != nil {
		t.Fatalf("HashFile: %v", err)
	}
	if got != "5eb63bbb" {
		t.Fatalf("unexpected hash %q", got)
	}
}

func TestHashFileDeterministicAndSensitive(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rosa5.wav")
	data := []byte(strings.Repeat("RIFF....WAVEfmt ", 512))
	writeFile(t, path, data)

	first, err := HashFile(path)
	if err != nil {
		t.Fatalf("HashFile: %v", err)
	}
	second, err := HashFile(path)
	if err != nil {
		t.Fatalf("HashFile: %v", err)
	}
	if first != second {
		t.Fatalf("hash not deterministic: %q vs %q", first, second)
	}
	if len(first) != HashLength || !isHash(first) {
		t.Fatalf("hash %q is not %d lowercase hex chars", first, HashLength)
	}

	data[len(data)/2] ^= 0x01
	writeFile(t, path, data)
	changed, err := HashFile(path)
	if err != nil {
		t.Fatalf("HashFile: %v", err)
	}
	if changed == first {
		t.Fatal("expected a one-byte change to change the hash")
	}
}

func TestHashFileMissing(t *testing.T) {
	if _, err := HashFile(filepath.Join(t.TempDir(), "missing.wav")); err == nil {
		t.Fatal("expected read failure to propagate")
	}
}

func TestDerivedNameRoundTrip(t *testing.T) {
	name := DerivedName("src/sounds/rosa5.wav", "1a2b3c4d", ".webm")
	if name.String() != "rosa5-1a2b3c4d.webm" {
		t.Fatalf("unexpected name %q", name)
	}
	parsed, ok := ParseDerivedName("public/" + name.String())
	if !ok {
		t.Fatal("expected derived name to parse")
	}
	if parsed != name {
		t.Fatalf("round trip mismatch: %+v vs %+v", parsed, name)
	}
}

func TestParseDerivedNameKeepsDashedBase(t *testing.T) {
	parsed, ok := ParseDerivedName("field-recording-2-deadbeef.dat")
	if !ok {
		t.Fatal("expected parse success")
	}
	if parsed.Base != "field-recording-2" || parsed.Hash != "deadbeef" || parsed.Ext != "dat" {
		t.Fatalf("unexpected parse result %+v", parsed)
	}
}

func TestParseDerivedNameRejects(t *testing.T) {
	for _, file := range []string{"index.html", "rosa5-XYZ12345.webm", "rosa5-1a2b3c4d", "-1a2b3c4d.json", "rosa5-1a2b3c.json"} {
		if _, ok := ParseDerivedName(file); ok {
			t.Fatalf("expected %q to be rejected", file)
		}
	}
}

func TestBaseNameNormalizesToNFC(t *testing.T) {
	decomposed := "cafe\u0301.wav"
	if got := BaseName(decomposed); got != "caf\u00e9" {
		t.Fatalf("expected NFC base, got %q", got)
	}
}

func TestExistsAndScan(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "rosa5-1a2b3c4d.webm"), []byte("a"))
	writeFile(t, filepath.Join(dir, "rosa5-1a2b3c4d.json"), []byte("bb"))
	writeFile(t, filepath.Join(dir, "rosa5-00000000.webm"), []byte("ccc"))
	writeFile(t, filepath.Join(dir, "index.html"), []byte("<html>"))
	writeFile(t, filepath.Join(dir, "chunk-0a1b2c3d.js"), []byte("export{}"))
	writeFile(t, filepath.Join(dir, "index-deadbeef.css"), []byte("body{}"))
	if err := os.Mkdir(filepath.Join(dir, "nested-1a2b3c4d.d"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	hit, err := Exists(dir, "rosa5-1a2b3c4d.webm")
	if err != nil || !hit {
		t.Fatalf("expected cache hit, got %v %v", hit, err)
	}
	miss, err := Exists(dir, "rosa5-ffffffff.webm")
	if err != nil || miss {
		t.Fatalf("expected cache miss, got %v %v", miss, err)
	}
	if dirHit, _ := Exists(dir, "nested-1a2b3c4d.d"); dirHit {
		t.Fatal("directories must not count as cache hits")
	}

	entries, err := Scan(dir)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 derived entries, got %d: %+v", len(entries), entries)
	}
	for _, entry := range entries {
		if entry.Name.Ext == "js" || entry.Name.Ext == "css" {
			t.Fatalf("bundler output %s must not be scanned", entry.Name)
		}
	}

	orphans := Orphans(entries, map[string]string{"rosa5": "1a2b3c4d"})
	if len(orphans) != 1 || orphans[0].Name.Hash != "00000000" || orphans[0].Size != 3 {
		t.Fatalf("unexpected orphans %+v", orphans)
	}
}

func TestOrphansSkipsBundlerChunks(t *testing.T) {
	entries := []Entry{
		{Name: Name{Base: "chunk", Hash: "0a1b2c3d", Ext: "js"}},
		{Name: Name{Base: "rosa5", Hash: "00000000", Ext: ExtDat}},
	}
	orphans := Orphans(entries, nil)
	if len(orphans) != 1 || orphans[0].Name.Base != "rosa5" {
		t.Fatalf("expected only the stale dat file, got %+v", orphans)
	}
}

func TestScanMissingDir(t *testing.T) {
	entries, err := Scan(filepath.Join(t.TempDir(), "absent"))
	if err != nil || entries != nil {
		t.Fatalf("expected empty scan, got %v %v", entries, err)
	}
}
