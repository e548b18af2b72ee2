package config

const (
	defaultOutputDir       = "public"
	defaultEntrypoint      = "src/index.html"
	defaultStateDir        = ".peaksite"
	defaultRawImagesDir    = "src/images/raw"
	defaultOptimizedDir    = "src/images/optimized"
	defaultImageMaxWidth   = 1200
	defaultImageQuality    = 75
	defaultSoundsDir       = "src/sounds"
	defaultAudioBitrate    = "96k"
	defaultAudioSampleRate = 48000
	defaultPixelsPerSecond = 50
	defaultPeakBits        = 8
	defaultFeaturedTrack   = "rosa5.wav"
	defaultFFmpeg          = "ffmpeg"
	defaultAudiowaveform   = "audiowaveform"
	defaultBundler         = "bun"
	defaultGo              = "go"
	defaultServerBind      = "127.0.0.1:0"
	defaultWasmPackage     = "./cmd/waveui"
	defaultLogFormat       = "auto"
	defaultLogLevel        = "info"
)

var (
	defaultImagePatterns = []string{"*.jpg", "*.png"}
	defaultAudioPatterns = []string{"*.wav"}
	defaultZoomLevels    = []int{256, 512, 1024, 2048, 4096}
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir:  defaultOutputDir,
			Entrypoint: defaultEntrypoint,
			StateDir:   defaultStateDir,
		},
		Images: Images{
			RawDir:       defaultRawImagesDir,
			OptimizedDir: defaultOptimizedDir,
			Patterns:     append([]string(nil), defaultImagePatterns...),
			MaxWidth:     defaultImageMaxWidth,
			Quality:      defaultImageQuality,
		},
		Audio: Audio{
			SourceDir:       defaultSoundsDir,
			Patterns:        append([]string(nil), defaultAudioPatterns...),
			Bitrate:         defaultAudioBitrate,
			SampleRate:      defaultAudioSampleRate,
			PixelsPerSecond: defaultPixelsPerSecond,
			Bits:            defaultPeakBits,
			Featured:        defaultFeaturedTrack,
		},
		Tools: Tools{
			FFmpeg:        defaultFFmpeg,
			Audiowaveform: defaultAudiowaveform,
			Bundler:       defaultBundler,
			Go:            defaultGo,
		},
		Bundle: Bundle{
			Minify: true,
		},
		Server: Server{
			Bind: defaultServerBind,
		},
		UI: UI{
			WasmEnabled: true,
			WasmPackage: defaultWasmPackage,
			ZoomLevels:  append([]int(nil), defaultZoomLevels...),
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
