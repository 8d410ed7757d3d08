package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

// Sink receives progress updates for a bounded task. It never affects
// control flow.
type Sink interface {
	Start(desc string, total int)
	Increment()
	Finish()
}

type Nop struct{}

func (Nop) Start(string, int) {}
func (Nop) Increment()        {}
func (Nop) Finish()           {}

const redrawInterval = 100 * time.Millisecond

// Bar renders a progress bar when out is a terminal and falls back to
// periodic log lines (every 10%) otherwise.
type Bar struct {
	mu     sync.Mutex
	out    io.Writer
	tty    bool
	logger *log.Logger

	bar    *progressbar.ProgressBar
	desc   string
	total  int
	done   int
	logged int
	active bool
}

func NewBar(out io.Writer, logger *log.Logger) *Bar {
	return &Bar{
		out:    out,
		tty:    isTerminal(out),
		logger: logger,
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (b *Bar) Start(desc string, total int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.desc = desc
	b.total = total
	b.done = 0
	b.logged = 0
	b.active = true
	b.bar = nil

	if b.tty && total > 0 {
		b.bar = progressbar.NewOptions(total,
			progressbar.OptionSetWriter(b.out),
			progressbar.OptionSetDescription(desc),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetPredictTime(true),
			progressbar.OptionThrottle(redrawInterval),
			progressbar.OptionOnCompletion(func() { fmt.Fprintln(b.out) }),
		)
		_ = b.bar.RenderBlank()
		return
	}
	b.logProgress(true)
}

func (b *Bar) Increment() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.active {
		return
	}
	b.done++
	if b.bar != nil {
		_ = b.bar.Add(1)
		return
	}
	b.logProgress(false)
}

func (b *Bar) Finish() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.active {
		return
	}
	b.active = false

	if b.bar != nil {
		// An interrupted task keeps its partial bar.
		if !b.bar.IsFinished() {
			fmt.Fprintln(b.out)
		}
		return
	}
	if !b.tty {
		b.logProgress(true)
	}
}

// logProgress logs at start, at every 10% step and at the end.
func (b *Bar) logProgress(force bool) {
	if b.logger == nil {
		return
	}
	if force && b.done == 0 && b.active && b.logged == 0 && b.total > 0 {
		b.logger.Info(b.desc, "done", 0, "total", b.total)
		return
	}

	step := b.percent() / 10
	if step > b.logged {
		b.logged = step
		b.logger.Info(b.desc, "done", b.done, "total", b.total, "percent", b.percent())
	}
}

func (b *Bar) percent() int {
	if b.total <= 0 {
		return 100
	}
	return b.done * 100 / b.total
}
