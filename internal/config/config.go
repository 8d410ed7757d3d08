// Package config holds the exactfps runtime settings: flag defaults,
// environment overrides and validation.
package config

import (
	"errors"
	"flag"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/kmmndr/exactfps/internal/encoder"
	"github.com/kmmndr/exactfps/internal/storage"
)

// Environment variables that override flag defaults.
const (
	EnvFFmpeg   = "EXACTFPS_FFMPEG"
	EnvTempDir  = "EXACTFPS_TMPDIR"
	EnvLogLevel = "EXACTFPS_LOG_LEVEL"
)

var ErrInvalidConfig = errors.New("config: invalid")

type Config struct {
	Duration    float64
	FPS         float64
	Output      string
	StoreMethod string

	Device      string
	Width       int
	Height      int
	DetectStale bool

	Encoder    string
	FFmpegPath string
	TempDir    string
	ReportPath string

	LogLevel    string
	ShowVersion bool
}

func DefaultConfig() *Config {
	return &Config{
		Duration:    10,
		FPS:         30,
		Output:      "video.mp4",
		StoreMethod: string(storage.MethodDefault),
		Device:      "0",
		Encoder:     string(encoder.KindFFmpeg),
		FFmpegPath:  encoder.DefaultFFmpegBinary,
		LogLevel:    "info",
	}
}

// ApplyEnv overrides defaults from the environment. Call before parsing flags
// so explicit flags still win.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvFFmpeg); v != "" {
		c.FFmpegPath = v
	}
	if v := os.Getenv(EnvTempDir); v != "" {
		c.TempDir = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
}

func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.Float64Var(&c.Duration, "duration", c.Duration, "Target video duration (in seconds)")
	fs.Float64Var(&c.FPS, "fps", c.FPS, "Frames per second")
	fs.StringVar(&c.Output, "output", c.Output, "Target video path")
	fs.StringVar(&c.StoreMethod, "store-method", c.StoreMethod,
		"How captured images are kept: dump to disk right after capturing (default) "+
			"or store in memory until the end and then dump all (memory). The default method can be slower "+
			"for big fps, the memory buffer is faster but needs more RAM for big fps * duration values")
	fs.StringVar(&c.Device, "device", c.Device, "Camera index, device path or stream URL")
	fs.IntVar(&c.Width, "width", c.Width, "Requested capture width (0 keeps the driver default)")
	fs.IntVar(&c.Height, "height", c.Height, "Requested capture height (0 keeps the driver default)")
	fs.BoolVar(&c.DetectStale, "detect-stale", c.DetectStale, "Count frames pixel-identical to the previous one (costs a grayscale diff per frame)")
	fs.StringVar(&c.Encoder, "encoder", c.Encoder, "Video encoder: ffmpeg or avi")
	fs.StringVar(&c.FFmpegPath, "ffmpeg", c.FFmpegPath, "ffmpeg binary (env "+EnvFFmpeg+")")
	fs.StringVar(&c.TempDir, "tmp-dir", c.TempDir, "Parent directory for captured frames (env "+EnvTempDir+")")
	fs.StringVar(&c.ReportPath, "report", c.ReportPath, "Write a JSON run report to this path")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "Log level: debug, info, warn, error (env "+EnvLogLevel+")")
	fs.BoolVar(&c.ShowVersion, "version", false, "Show version information")
}

func (c *Config) DurationValue() time.Duration {
	return time.Duration(c.Duration * float64(time.Second))
}

func (c *Config) Method() storage.Method {
	m, _ := storage.ParseMethod(c.StoreMethod)
	return m
}

func (c *Config) EncoderKind() encoder.Kind {
	k, _ := encoder.ParseKind(c.Encoder)
	return k
}

// Validate rejects unusable settings and returns advisory warnings for
// settings that are legal but likely to miss the target rate.
func (c *Config) Validate() (warnings []string, err error) {
	if math.IsNaN(c.FPS) || math.IsInf(c.FPS, 0) || c.FPS <= 0 {
		return nil, fmt.Errorf("%w: fps must be positive, got %v", ErrInvalidConfig, c.FPS)
	}
	if math.IsNaN(c.Duration) || math.IsInf(c.Duration, 0) || c.Duration <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive, got %v", ErrInvalidConfig, c.Duration)
	}
	if c.Output == "" {
		return nil, fmt.Errorf("%w: output path is empty", ErrInvalidConfig)
	}
	if _, err := storage.ParseMethod(c.StoreMethod); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := encoder.ParseKind(c.Encoder); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.Width < 0 || c.Height < 0 {
		return nil, fmt.Errorf("%w: capture size must not be negative", ErrInvalidConfig)
	}

	frames := int(math.Floor(c.FPS * c.Duration))
	if frames == 0 {
		warnings = append(warnings, fmt.Sprintf("fps %v over %vs yields no frame", c.FPS, c.Duration))
	}
	if c.FPS > 60 {
		warnings = append(warnings, fmt.Sprintf("FPS %v > 60 is above what most USB cameras deliver", c.FPS))
	}
	if c.Method() == storage.MethodMemory && frames > 3000 {
		warnings = append(warnings, fmt.Sprintf("memory store method will buffer %d raw frames", frames))
	}
	if c.EncoderKind() == encoder.KindAVI && c.FPS != math.Round(c.FPS) {
		warnings = append(warnings, fmt.Sprintf("avi stores an integer rate, fps %v will be rounded", c.FPS))
	}
	return warnings, nil
}
