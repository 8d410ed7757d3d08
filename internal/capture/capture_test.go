package capture

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmmndr/exactfps/internal/encoder"
	"github.com/kmmndr/exactfps/internal/storage"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	c.now = c.now.Add(d)
	return ctx.Err()
}

type fakeFrame struct{ data string }

func (f *fakeFrame) WriteFile(path string) error {
	return os.WriteFile(path, []byte(f.data), 0o644)
}

func (f *fakeFrame) Close() error { return nil }

type fakeCamera struct {
	clock  *fakeClock
	cost   time.Duration
	reads  int
	fail   func(int) bool
	closed int
	stale  int
}

func (c *fakeCamera) Read() (storage.Frame, error) {
	c.reads++
	if c.clock != nil {
		c.clock.now = c.clock.now.Add(c.cost)
	}
	if c.fail != nil && c.fail(c.reads) {
		return nil, errors.New("no signal")
	}
	return &fakeFrame{data: "jpeg"}, nil
}

func (c *fakeCamera) Close() error {
	c.closed++
	return nil
}

func (c *fakeCamera) StaleFrames() int { return c.stale }

type fakeEncoder struct {
	jobs     []encoder.Job
	err      error
	seen     []string
	dirAlive bool
}

func (e *fakeEncoder) Name() string { return "fake" }

func (e *fakeEncoder) Encode(_ context.Context, job encoder.Job) error {
	e.jobs = append(e.jobs, job)
	dir := filepath.Dir(job.Pattern)
	entries, err := os.ReadDir(dir)
	if err == nil {
		e.dirAlive = true
		for _, entry := range entries {
			e.seen = append(e.seen, entry.Name())
		}
	}
	return e.err
}

func newTestRunner(camera *fakeCamera, enc *fakeEncoder, logs *bytes.Buffer) *Runner {
	if camera.clock == nil {
		camera.clock = &fakeClock{now: time.Unix(0, 0)}
	}
	logger := log.New(logs)
	logger.SetLevel(log.DebugLevel)
	return NewRunner(camera, enc, WithClock(camera.clock), WithLogger(logger))
}

func TestRunCapturesAndEncodes(t *testing.T) {
	for _, method := range storage.Methods {
		t.Run(string(method), func(t *testing.T) {
			camera := &fakeCamera{}
			enc := &fakeEncoder{}
			parent := t.TempDir()
			var logs bytes.Buffer

			report, err := newTestRunner(camera, enc, &logs).Run(context.Background(), Options{
				FPS:      2,
				Duration: 3 * time.Second,
				Output:   "video.mp4",
				Method:   method,
				TempDir:  parent,
			})
			require.NoError(t, err)

			assert.Equal(t, 6, camera.reads)
			assert.Equal(t, 1, camera.closed)
			require.Len(t, enc.jobs, 1)

			job := enc.jobs[0]
			assert.Equal(t, 2.0, job.FPS)
			assert.Equal(t, 6, job.Count)
			assert.Equal(t, "video.mp4", job.Output)
			assert.Equal(t, []string{"-i", job.Pattern}, job.Input)
			assert.True(t, enc.dirAlive, "session dir exists while encoding")
			assert.Len(t, enc.seen, 6)

			entries, err := os.ReadDir(parent)
			require.NoError(t, err)
			assert.Empty(t, entries, "session dir removed")

			assert.Equal(t, 6, report.Planned)
			assert.Equal(t, 6, report.Captured)
			assert.Equal(t, "fake", report.Encoder)
			assert.NotEmpty(t, report.UUID)
		})
	}
}

func TestRunEncoderFailureStillCleansUp(t *testing.T) {
	camera := &fakeCamera{}
	encErr := errors.New("exit status 1")
	enc := &fakeEncoder{err: encErr}
	parent := t.TempDir()

	_, err := newTestRunner(camera, enc, &bytes.Buffer{}).Run(context.Background(), Options{
		FPS: 5, Duration: time.Second, Output: "v.mp4", Method: storage.MethodMemory, TempDir: parent,
	})
	assert.ErrorIs(t, err, encErr)

	entries, readErr := os.ReadDir(parent)
	require.NoError(t, readErr)
	assert.Empty(t, entries)
	assert.Equal(t, 1, camera.closed)
}

func TestRunSkipsFailedReads(t *testing.T) {
	camera := &fakeCamera{fail: func(n int) bool { return n%2 == 0 }}
	enc := &fakeEncoder{}
	var logs bytes.Buffer

	report, err := newTestRunner(camera, enc, &logs).Run(context.Background(), Options{
		FPS: 10, Duration: time.Second, Output: "v.mp4", Method: storage.MethodDefault, TempDir: t.TempDir(),
	})
	require.NoError(t, err)

	assert.Equal(t, 5, report.Skipped)
	assert.Equal(t, 5, report.Captured)
	require.Len(t, enc.jobs, 1)
	assert.Equal(t, 5, enc.jobs[0].Count)
	assert.Contains(t, logs.String(), "5 out of 10 frames could not be read")
}

func TestRunFailsWhenNoFrameIsRead(t *testing.T) {
	camera := &fakeCamera{fail: func(int) bool { return true }}
	enc := &fakeEncoder{}

	_, err := newTestRunner(camera, enc, &bytes.Buffer{}).Run(context.Background(), Options{
		FPS: 10, Duration: time.Second, Output: "v.mp4", TempDir: t.TempDir(),
	})
	assert.ErrorIs(t, err, ErrNoFrames)
	assert.Empty(t, enc.jobs)
}

func TestRunLogsPacingDelays(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	// 1s per read against a 100ms period: every iteration is late.
	camera := &fakeCamera{clock: clock, cost: time.Second, stale: 2}
	enc := &fakeEncoder{}
	var logs bytes.Buffer

	report, err := newTestRunner(camera, enc, &logs).Run(context.Background(), Options{
		FPS: 10, Duration: time.Second, Output: "v.mp4", TempDir: t.TempDir(),
	})
	require.NoError(t, err)

	assert.Equal(t, 10, report.Delayed)
	assert.Equal(t, 2, report.Stale)
	assert.Contains(t, logs.String(), "10 out of 10 iterations completed with delays. Top 10 are: #0 by 0.9s")
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	enc := &fakeEncoder{}
	parent := t.TempDir()

	_, err := newTestRunner(&fakeCamera{}, enc, &bytes.Buffer{}).Run(ctx, Options{
		FPS: 10, Duration: time.Second, Output: "v.mp4", TempDir: parent,
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, enc.jobs)

	entries, readErr := os.ReadDir(parent)
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}

func TestRunInvalidPlan(t *testing.T) {
	camera := &fakeCamera{}
	_, err := newTestRunner(camera, &fakeEncoder{}, &bytes.Buffer{}).Run(context.Background(), Options{FPS: 0, Duration: time.Second})
	assert.Error(t, err)
	assert.Equal(t, 1, camera.closed)
}

func TestReportWriteJSON(t *testing.T) {
	report := &Report{UUID: "abc", Captured: 3, Method: "memory"}
	path := filepath.Join(t.TempDir(), "report.json")

	require.NoError(t, report.WriteJSON(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"uuid": "abc"`)
	assert.Contains(t, string(data), `"captured_frames": 3`)
	assert.Contains(t, string(data), `"store_method": "memory"`)
}
