// Package pacer yields a bounded sequence of iteration indices spaced by a
// fixed period, sleeping between iterations when the caller is early and
// recording a delay when it is late.
package pacer

import (
	"context"
	"time"

	"github.com/kmmndr/exactfps/internal/progress"
)

// Pacer is a non-restartable iterator over 0..Plan.Iterations-1.
//
//	for i, ok := p.Next(ctx); ok; i, ok = p.Next(ctx) {
//		// per-iteration work
//	}
//
// Each call to Next settles the timing of the previous iteration before
// handing out the next index.
type Pacer struct {
	plan     Plan
	clock    Clock
	progress progress.Sink
	desc     string

	next     int
	started  time.Time
	inFlight bool
	done     bool
	delays   []DelayRecord
}

type Option func(*Pacer)

func WithClock(c Clock) Option {
	return func(p *Pacer) { p.clock = c }
}

// WithProgress reports every settled iteration to sink under desc.
func WithProgress(sink progress.Sink, desc string) Option {
	return func(p *Pacer) {
		p.progress = sink
		p.desc = desc
	}
}

func New(plan Plan, opts ...Option) *Pacer {
	p := &Pacer{
		plan:     plan,
		clock:    SystemClock,
		progress: progress.Nop{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Pacer) Plan() Plan {
	return p.plan
}

// Next returns the next iteration index, or false once the sequence is
// exhausted or ctx is done.
func (p *Pacer) Next(ctx context.Context) (int, bool) {
	if p.done {
		return -1, false
	}
	if p.next == 0 && !p.inFlight {
		p.progress.Start(p.desc, p.plan.Iterations)
	}

	if p.inFlight {
		p.inFlight = false
		p.settle(ctx)
		p.progress.Increment()
	}

	if p.next >= p.plan.Iterations || ctx.Err() != nil {
		p.done = true
		p.progress.Finish()
		return -1, false
	}

	index := p.next
	p.next++
	p.started = p.clock.Now()
	p.inFlight = true
	return index, true
}

// settle applies the timing rule to the iteration that just finished.
func (p *Pacer) settle(ctx context.Context) {
	index := p.next - 1
	elapsed := p.clock.Now().Sub(p.started)
	shortfall := p.plan.Period - elapsed

	switch {
	case shortfall > 0 && shortfall > p.plan.Tolerance:
		// An interrupted sleep surfaces through ctx on the next check.
		_ = p.clock.Sleep(ctx, shortfall)
	case shortfall < 0 && -shortfall > p.plan.Tolerance:
		p.delays = append(p.delays, DelayRecord{Iteration: index, Delay: elapsed - p.plan.Period})
	}
}

// Report returns the diagnostics gathered so far.
func (p *Pacer) Report() Report {
	delays := make([]DelayRecord, len(p.delays))
	copy(delays, p.delays)
	return Report{Plan: p.plan, Delays: delays}
}
