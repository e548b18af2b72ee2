package imageopt

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/davidbyttow/govips/v2/vips"
)

var (
	vipsMu      sync.Mutex
	vipsStarted bool
)

// startVips initialises libvips once for the process.
func startVips() {
	vipsMu.Lock()
	defer vipsMu.Unlock()
	if vipsStarted {
		return
	}
	vips.LoggingSettings(nil, vips.LogLevelWarning)
	vips.Startup(&vips.Config{
		MaxCacheSize: 100,
		MaxCacheMem:  50 * 1024 * 1024,
	})
	vipsStarted = true
	slog.Debug("libvips started", "version", vips.Version)
}

// Shutdown releases libvips resources if they were started.
func Shutdown() {
	vipsMu.Lock()
	defer vipsMu.Unlock()
	if !vipsStarted {
		return
	}
	vips.Shutdown()
	vipsStarted = false
}

// VipsEncoder resizes and encodes images with libvips.
type VipsEncoder struct{}

// NewVipsEncoder starts libvips if needed and returns an encoder.
func NewVipsEncoder() VipsEncoder {
	startVips()
	return VipsEncoder{}
}

// EncodeWebP decodes src, scales it down to maxWidth keeping the aspect ratio
// and returns WebP bytes with metadata stripped. Narrower images keep their
// width.
func (VipsEncoder) EncodeWebP(src []byte, maxWidth, quality int) ([]byte, error) {
	header, err := vips.NewImageFromBuffer(src)
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	width := header.Width()
	header.Close()
	if width > maxWidth {
		width = maxWidth
	}

	img, err := vips.NewThumbnailFromBuffer(src, width, 0, vips.InterestingNone)
	if err != nil {
		return nil, fmt.Errorf("thumbnail %dpx: %w", width, err)
	}
	defer img.Close()

	if err := img.AutoRotate(); err != nil {
		return nil, fmt.Errorf("autorotate: %w", err)
	}

	params := vips.NewWebpExportParams()
	params.Quality = quality
	params.Lossless = false
	params.StripMetadata = true

	buf, _, err := img.ExportWebp(params)
	if err != nil {
		return nil, fmt.Errorf("export webp: %w", err)
	}
	return buf, nil
}
