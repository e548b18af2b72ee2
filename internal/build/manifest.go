package build

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"peaksite/internal/audioopt"
	"peaksite/internal/fileutil"
	"peaksite/internal/imageopt"
)

// ManifestName is the file written into the output directory after the
// optimizers finish.
const ManifestName = "assets.json"

// Manifest maps source media to the derived files the site references.
type Manifest struct {
	BuildID     string               `json:"build_id"`
	GeneratedAt time.Time            `json:"generated_at"`
	Featured    *audioopt.Artifacts  `json:"featured,omitempty"`
	Audio       []audioopt.Artifacts `json:"audio"`
	Images      []imageopt.Image     `json:"images"`
	Wasm        *WasmAssets          `json:"wasm,omitempty"`
	ZoomLevels  []int                `json:"zoom_levels,omitempty"`
}

// Defines returns the constants handed to the bundler. The featured track
// names become compile-time strings in the page script; zoom levels are
// joined with commas.
func (m *Manifest) Defines() map[string]string {
	defines := map[string]string{
		"PEAKSITE_AUDIO":       "",
		"PEAKSITE_PEAKS":       "",
		"PEAKSITE_DAT":         "",
		"PEAKSITE_WASM":        "",
		"PEAKSITE_ZOOM_LEVELS": "",
	}
	if m.Featured != nil {
		defines["PEAKSITE_AUDIO"] = m.Featured.Audio
		defines["PEAKSITE_PEAKS"] = m.Featured.Waveform
		defines["PEAKSITE_DAT"] = m.Featured.Dat
	}
	if m.Wasm != nil {
		defines["PEAKSITE_WASM"] = m.Wasm.Module
	}
	if len(m.ZoomLevels) > 0 {
		levels := make([]string, len(m.ZoomLevels))
		for i, level := range m.ZoomLevels {
			levels[i] = strconv.Itoa(level)
		}
		defines["PEAKSITE_ZOOM_LEVELS"] = strings.Join(levels, ",")
	}
	return defines
}

// AudioFor returns the artifacts recorded for a source file name.
func (m *Manifest) AudioFor(source string) (audioopt.Artifacts, bool) {
	for _, art := range m.Audio {
		if art.Source == source {
			return art, true
		}
	}
	return audioopt.Artifacts{}, false
}

// WriteManifest stores m as indented JSON in dir.
func WriteManifest(dir string, m *Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	data = append(data, '\n')
	return fileutil.WriteAtomic(filepath.Join(dir, ManifestName), func(tmp string) error {
		return os.WriteFile(tmp, data, 0o644)
	})
}

// ReadManifest loads the manifest from dir. A missing file returns
// fs.ErrNotExist.
func ReadManifest(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	return &m, nil
}
