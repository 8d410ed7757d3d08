package encoder

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
)

const DefaultFFmpegBinary = "ffmpeg"

// FFmpeg shells out to an ffmpeg binary and waits for it to exit.
type FFmpeg struct {
	Binary string
	Stdout io.Writer
	Stderr io.Writer
	logger *log.Logger
}

func NewFFmpeg(binary string, logger *log.Logger) *FFmpeg {
	if binary == "" {
		binary = DefaultFFmpegBinary
	}
	return &FFmpeg{
		Binary: binary,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		logger: logger,
	}
}

func (f *FFmpeg) Name() string {
	return "ffmpeg"
}

// Args returns the command line after the binary name.
func (f *FFmpeg) Args(job Job) []string {
	args := []string{
		"-y",
		"-hide_banner", "-loglevel", "panic",
		"-r", strconv.FormatFloat(job.FPS, 'f', -1, 64),
	}
	args = append(args, job.Input...)
	return append(args, job.Output)
}

func (f *FFmpeg) Encode(ctx context.Context, job Job) error {
	args := f.Args(job)
	if f.logger != nil {
		f.logger.Info("Call", "cmd", f.Binary+" "+strings.Join(args, " "))
	}

	cmd := exec.CommandContext(ctx, f.Binary, args...)
	cmd.Stdout = f.Stdout
	cmd.Stderr = f.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrEncoderFailed, f.Binary, err)
	}
	return nil
}
