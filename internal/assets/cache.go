package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// Exists reports whether dir already holds a file called name. This is the
// cache hit check: a present file is never regenerated.
func Exists(dir, name string) (bool, error) {
	info, err := os.Stat(filepath.Join(dir, name))
	if err == nil {
		return !info.IsDir(), nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("stat %s: %w", name, err)
}

// Extensions of the files the audio pipeline derives. Only these are
// scanned, so bundler chunks such as chunk-0a1b2c3d.js are left alone.
const (
	ExtAudio    = "webm"
	ExtWaveform = "json"
	ExtDat      = "dat"
)

func derivedExt(ext string) bool {
	switch ext {
	case ExtAudio, ExtWaveform, ExtDat:
		return true
	}
	return false
}

// Entry is a derived file found in an output directory.
type Entry struct {
	Name Name
	Size int64
}

// Scan lists the derived audio files directly inside dir, sorted by name.
// Files that do not follow the naming scheme or carry another extension are
// ignored.
func Scan(dir string) ([]Entry, error) {
	items, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}
	var entries []Entry
	for _, item := range items {
		if item.IsDir() {
			continue
		}
		name, ok := ParseDerivedName(item.Name())
		if !ok || !derivedExt(name.Ext) {
			continue
		}
		info, err := item.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", item.Name(), err)
		}
		entries = append(entries, Entry{Name: name, Size: info.Size()})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name.String() < entries[j].Name.String()
	})
	return entries, nil
}

// Orphans returns the derived entries whose base/hash pair is not in current. The
// current map is keyed by base name and holds the live hash for that source.
func Orphans(entries []Entry, current map[string]string) []Entry {
	var out []Entry
	for _, entry := range entries {
		if !derivedExt(entry.Name.Ext) {
			continue
		}
		if hash, ok := current[entry.Name.Base]; ok && hash == entry.Name.Hash {
			continue
		}
		out = append(out, entry)
	}
	return out
}
