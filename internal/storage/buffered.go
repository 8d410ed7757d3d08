package storage

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"

	"github.com/kmmndr/exactfps/internal/progress"
)

type pendingFrame struct {
	path  string
	frame Frame
}

// Buffered keeps frames in memory until Finalize, keeping disk I/O out of the
// capture loop at the cost of holding every raw frame at once.
type Buffered struct {
	base
	pending  []pendingFrame
	bytes    uint64
	progress progress.Sink
	// flushErr is returned again by every Finalize after a failed flush.
	flushErr error
}

func NewBuffered(dir string, logger *log.Logger, sink progress.Sink) *Buffered {
	if sink == nil {
		sink = progress.Nop{}
	}
	return &Buffered{
		base:     base{dir: dir, logger: logger},
		progress: sink,
	}
}

func (b *Buffered) Accept(f Frame) error {
	if err := b.checkAccepting(); err != nil {
		f.Close()
		return err
	}

	b.pending = append(b.pending, pendingFrame{path: b.nextPath(), frame: f})
	if s, ok := f.(Sizer); ok {
		b.bytes += uint64(s.Size())
	}
	return nil
}

// Pending is the number of frames not yet written.
func (b *Buffered) Pending() int { return len(b.pending) }

// BufferedBytes is the total size of pending frames that report one.
func (b *Buffered) BufferedBytes() uint64 { return b.bytes }

// Finalize writes pending frames in the order they were accepted.
func (b *Buffered) Finalize(ctx context.Context) error {
	if b.finalized {
		return b.flushErr
	}
	b.finalized = true
	b.flushErr = b.flush(ctx)
	return b.flushErr
}

func (b *Buffered) flush(ctx context.Context) error {
	if b.logger != nil {
		b.logger.Info("flushing buffered frames", "frames", len(b.pending), "memory", humanize.Bytes(b.bytes))
	}

	pending := b.pending
	b.pending = nil
	b.bytes = 0

	b.progress.Start("Flushing storage buffer", len(pending))
	defer b.progress.Finish()

	for i, p := range pending {
		if err := ctx.Err(); err != nil {
			release(pending[i:])
			return err
		}
		err := p.frame.WriteFile(p.path)
		p.frame.Close()
		if err != nil {
			release(pending[i+1:])
			return fmt.Errorf("storage: write %s: %w", p.path, err)
		}
		b.progress.Increment()
	}
	return nil
}

func (b *Buffered) Close() error {
	release(b.pending)
	b.pending = nil
	b.bytes = 0
	return nil
}

func release(frames []pendingFrame) {
	for _, p := range frames {
		p.frame.Close()
	}
}
