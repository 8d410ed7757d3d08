package capture

import (
	"fmt"
	"os"
	"time"

	uuid "github.com/gofrs/uuid/v5"
	jsoniter "github.com/json-iterator/go"

	"github.com/kmmndr/exactfps/internal/pacer"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Report summarises one capture run.
type Report struct {
	UUID      string    `json:"uuid"`
	Method    string    `json:"store_method"`
	Encoder   string    `json:"encoder"`
	FPS       float64   `json:"fps"`
	Duration  string    `json:"duration"`
	Output    string    `json:"output"`
	Planned   int       `json:"planned_frames"`
	Captured  int       `json:"captured_frames"`
	Skipped   int       `json:"skipped_frames"`
	Stale     int       `json:"stale_frames"`
	Delayed   int       `json:"delayed_frames"`
	StartedAt time.Time `json:"started_at"`
	Elapsed   string    `json:"elapsed"`

	started time.Time
}

func NewReport(opts Options, encoderName string, plan pacer.Plan) *Report {
	ref, err := uuid.NewV4()
	id := ref.String()
	if err != nil {
		id = ""
	}

	now := time.Now()
	return &Report{
		UUID:      id,
		Method:    string(opts.Method),
		Encoder:   encoderName,
		FPS:       plan.FPS,
		Duration:  plan.Duration.String(),
		Output:    opts.Output,
		Planned:   plan.Iterations,
		StartedAt: now.UTC().Truncate(time.Second),
		started:   now,
	}
}

func (r *Report) finish() {
	r.Elapsed = time.Since(r.started).Round(time.Millisecond).String()
}

// WriteJSON stores the report at path.
func (r *Report) WriteJSON(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("capture: encode report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("capture: write report: %w", err)
	}
	return nil
}
