package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"

	"github.com/kmmndr/exactfps/internal/capture"
	"github.com/kmmndr/exactfps/internal/config"
	"github.com/kmmndr/exactfps/internal/encoder"
	"github.com/kmmndr/exactfps/internal/progress"
	"github.com/kmmndr/exactfps/internal/video"
)

// Set by linker flags.
var Version = "dev"

func main() {
	cfg := config.DefaultConfig()
	cfg.ApplyEnv()
	cfg.RegisterFlags(flag.CommandLine)
	flag.Parse()

	if cfg.ShowVersion {
		fmt.Printf("exactfps %s (%s %s/%s)\n", Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
		os.Exit(0)
	}

	logger, err := config.NewLogger(os.Stderr, cfg.LogLevel)
	if err != nil {
		logger.Warn("falling back to info level", "err", err)
	}

	warnings, err := cfg.Validate()
	if err != nil {
		logger.Fatal("Error: invalid options", "err", err)
	}
	for _, w := range warnings {
		logger.Warn(w)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		stop()
		logger.Fatal("Error", "err", err)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *log.Logger) error {
	enc, err := encoder.New(cfg.EncoderKind(), cfg.FFmpegPath, logger.WithPrefix("encoder"))
	if err != nil {
		return err
	}

	stream, err := video.NewDeviceStream(cfg.Device, video.Options{
		Width:       cfg.Width,
		Height:      cfg.Height,
		DetectStale: cfg.DetectStale,
	})
	if err != nil {
		return err
	}
	width, height := stream.Size()
	logger.Info("camera opened", "device", cfg.Device, "width", width, "height", height, "driver_fps", stream.Fps())

	runner := capture.NewRunner(stream, enc,
		capture.WithLogger(logger.WithPrefix("capture")),
		capture.WithProgress(progress.NewBar(os.Stderr, logger)),
	)
	report, err := runner.Run(ctx, capture.Options{
		FPS:      cfg.FPS,
		Duration: cfg.DurationValue(),
		Output:   cfg.Output,
		Method:   cfg.Method(),
		TempDir:  cfg.TempDir,
	})

	if cfg.ReportPath != "" && report != nil {
		if werr := report.WriteJSON(cfg.ReportPath); werr != nil {
			logger.Warn("unable to write report", "err", werr)
		}
	}
	if err != nil {
		return err
	}

	if info, statErr := os.Stat(cfg.Output); statErr == nil {
		logger.Info("video written", "output", cfg.Output, "size", humanize.Bytes(uint64(info.Size())), "elapsed", report.Elapsed)
	}
	return nil
}
