package pacer

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// MaxReportedDelays caps the number of delays listed by Report.Summary.
const MaxReportedDelays = 10

// DelayRecord notes an iteration that overran the period beyond tolerance.
type DelayRecord struct {
	Iteration int
	Delay     time.Duration
}

// String renders the delay with three significant digits, keeping a decimal
// point on whole seconds ("#3 by 1.0s").
func (d DelayRecord) String() string {
	secs := strconv.FormatFloat(d.Delay.Seconds(), 'g', 3, 64)
	if !strings.ContainsAny(secs, ".e") {
		secs += ".0"
	}
	return fmt.Sprintf("#%d by %ss", d.Iteration, secs)
}

type Report struct {
	Plan   Plan
	Delays []DelayRecord
}

func (r Report) Delayed() bool {
	return len(r.Delays) > 0
}

// Worst returns up to n delays, largest first.
func (r Report) Worst(n int) []DelayRecord {
	sorted := make([]DelayRecord, len(r.Delays))
	copy(sorted, r.Delays)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Delay > sorted[j].Delay
	})
	if n < 0 {
		n = 0
	}
	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}

// Summary renders the delay warning. It is empty when nothing was delayed.
func (r Report) Summary() string {
	if !r.Delayed() {
		return ""
	}

	worst := r.Worst(MaxReportedDelays)
	parts := make([]string, len(worst))
	for i, d := range worst {
		parts[i] = d.String()
	}
	return fmt.Sprintf("%d out of %d iterations completed with delays. Top %d are: %s",
		len(r.Delays), r.Plan.Iterations, len(worst), strings.Join(parts, ", "))
}
