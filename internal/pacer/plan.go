package pacer

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidPlan is returned for non-positive fps or negative durations.
var ErrInvalidPlan = errors.New("pacer: invalid plan")

// Plan is the immutable schedule of a pacing run.
type Plan struct {
	FPS        float64
	Duration   time.Duration
	Iterations int
	Period     time.Duration
	// Tolerance is the deviation from Period that is ignored.
	Tolerance time.Duration
}

func NewPlan(fps float64, duration time.Duration) (Plan, error) {
	if math.IsNaN(fps) || math.IsInf(fps, 0) || fps <= 0 {
		return Plan{}, fmt.Errorf("%w: fps must be positive, got %v", ErrInvalidPlan, fps)
	}
	if duration < 0 {
		return Plan{}, fmt.Errorf("%w: duration must not be negative, got %s", ErrInvalidPlan, duration)
	}

	periodSec := 1.0 / fps
	return Plan{
		FPS:        fps,
		Duration:   duration,
		Iterations: int(math.Floor(fps * duration.Seconds())),
		Period:     seconds(periodSec),
		Tolerance:  seconds(periodSec / 1.5),
	}, nil
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
