// Package capture drives a paced capture session: frames are pulled from a
// camera at the target rate, stored, then handed to an encoder.
package capture

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/kmmndr/exactfps/internal/encoder"
	"github.com/kmmndr/exactfps/internal/pacer"
	"github.com/kmmndr/exactfps/internal/progress"
	"github.com/kmmndr/exactfps/internal/storage"
)

var ErrNoFrames = errors.New("capture: no frame could be read from the camera")

// Camera yields one frame per call. Ownership of the frame passes to the
// caller.
type Camera interface {
	Read() (storage.Frame, error)
	Close() error
}

// staleCounter is implemented by cameras that detect repeated images.
type staleCounter interface {
	StaleFrames() int
}

type Options struct {
	FPS      float64
	Duration time.Duration
	Output   string
	Method   storage.Method
	TempDir  string
}

type Runner struct {
	camera   Camera
	encoder  encoder.Encoder
	logger   *log.Logger
	progress progress.Sink
	clock    pacer.Clock
}

type RunnerOption func(*Runner)

func WithLogger(l *log.Logger) RunnerOption {
	return func(r *Runner) { r.logger = l }
}

func WithProgress(sink progress.Sink) RunnerOption {
	return func(r *Runner) { r.progress = sink }
}

func WithClock(c pacer.Clock) RunnerOption {
	return func(r *Runner) { r.clock = c }
}

// NewRunner takes ownership of camera; Run releases it.
func NewRunner(camera Camera, enc encoder.Encoder, opts ...RunnerOption) *Runner {
	r := &Runner{
		camera:   camera,
		encoder:  enc,
		logger:   log.Default(),
		progress: progress.Nop{},
		clock:    pacer.SystemClock,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run captures, finalizes storage and encodes. The session directory is
// removed before Run returns, whatever the outcome.
func (r *Runner) Run(ctx context.Context, opts Options) (*Report, error) {
	released := false
	release := func() {
		if released {
			return
		}
		released = true
		if err := r.camera.Close(); err != nil {
			r.logger.Warn("unable to release camera", "err", err)
		}
	}
	defer release()

	plan, err := pacer.NewPlan(opts.FPS, opts.Duration)
	if err != nil {
		return nil, err
	}

	report := NewReport(opts, r.encoder.Name(), plan)

	sessionOpts := storage.SessionOptions{
		Method:   opts.Method,
		TempDir:  opts.TempDir,
		Logger:   r.logger.WithPrefix("storage"),
		Progress: r.progress,
	}
	err = storage.WithSession(sessionOpts, func(st storage.Storage) error {
		r.logger.Info("capturing", "fps", plan.FPS, "duration", plan.Duration, "frames", plan.Iterations, "method", opts.Method)

		if err := r.captureLoop(ctx, plan, st, report); err != nil {
			return err
		}
		release()

		if st.Count() == 0 {
			return ErrNoFrames
		}

		if err := st.Finalize(ctx); err != nil {
			return err
		}

		job := encoder.Job{
			FPS:     plan.FPS,
			Input:   st.EncoderInput(),
			Pattern: st.Pattern(),
			Count:   st.Count(),
			Output:  opts.Output,
		}
		if err := r.encoder.Encode(ctx, job); err != nil {
			return err
		}
		return nil
	})
	report.finish()
	if err != nil {
		return report, err
	}

	r.logger.Info("Done", "output", opts.Output, "frames", report.Captured)
	return report, nil
}

func (r *Runner) captureLoop(ctx context.Context, plan pacer.Plan, st storage.Storage, report *Report) error {
	p := pacer.New(plan,
		pacer.WithClock(r.clock),
		pacer.WithProgress(r.progress, "Capturing screenshots"),
	)

	for i, ok := p.Next(ctx); ok; i, ok = p.Next(ctx) {
		f, err := r.camera.Read()
		if err != nil {
			report.Skipped++
			if report.Skipped == 1 {
				r.logger.Warn("camera read failed, skipping frame", "iteration", i, "err", err)
			} else {
				r.logger.Debug("camera read failed, skipping frame", "iteration", i, "err", err)
			}
			continue
		}

		if err := st.Accept(f); err != nil {
			return err
		}
		report.Captured++
	}

	pacing := p.Report()
	report.Delayed = len(pacing.Delays)
	if pacing.Delayed() {
		r.logger.Warn(pacing.Summary())
	}
	if report.Skipped > 0 {
		r.logger.Warn(fmt.Sprintf("%d out of %d frames could not be read and were skipped", report.Skipped, plan.Iterations))
	}
	if sc, ok := r.camera.(staleCounter); ok {
		report.Stale = sc.StaleFrames()
		if report.Stale > 0 {
			r.logger.Warn("camera returned repeated frames", "stale", report.Stale)
		}
	}

	return ctx.Err()
}
