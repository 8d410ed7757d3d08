package encoder

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	"math"
	"os"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/icza/mjpeg"
)

// AVI packs the stored JPEG files into an MJPEG AVI container without
// re-encoding them.
type AVI struct {
	logger *log.Logger
}

func NewAVI(logger *log.Logger) *AVI {
	return &AVI{logger: logger}
}

func (a *AVI) Name() string {
	return "avi"
}

func (a *AVI) Encode(ctx context.Context, job Job) (err error) {
	if job.Count <= 0 {
		return fmt.Errorf("%w: avi: no frames", ErrEncoderFailed)
	}

	var (
		aw    mjpeg.AviWriter
		total uint64
	)
	defer func() {
		if aw == nil {
			return
		}
		if closeErr := aw.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("%w: avi: close %s: %w", ErrEncoderFailed, job.Output, closeErr)
		}
	}()

	for i := 1; i <= job.Count; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		path := fmt.Sprintf(job.Pattern, i)
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("%w: avi: %w", ErrEncoderFailed, err)
		}

		if aw == nil {
			cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
			if err != nil {
				return fmt.Errorf("%w: avi: decode %s: %w", ErrEncoderFailed, path, err)
			}
			aw, err = mjpeg.New(job.Output, int32(cfg.Width), int32(cfg.Height), aviFPS(job.FPS))
			if err != nil {
				return fmt.Errorf("%w: avi: create %s: %w", ErrEncoderFailed, job.Output, err)
			}
			if a.logger != nil {
				a.logger.Info("writing avi", "output", job.Output, "width", cfg.Width, "height", cfg.Height, "frames", job.Count)
			}
		}

		if err := aw.AddFrame(data); err != nil {
			return fmt.Errorf("%w: avi: add frame %d: %w", ErrEncoderFailed, i, err)
		}
		total += uint64(len(data))
	}

	if a.logger != nil {
		a.logger.Debug("avi frames packed", "bytes", humanize.Bytes(total))
	}
	return nil
}

// aviFPS rounds fps to the integer rate the AVI header stores.
func aviFPS(fps float64) int32 {
	r := int32(math.Round(fps))
	if r < 1 {
		return 1
	}
	return r
}
