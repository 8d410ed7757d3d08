package pacer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportSummaryEmptyWithoutDelays(t *testing.T) {
	report := Report{Plan: Plan{Iterations: 10}}

	assert.False(t, report.Delayed())
	assert.Empty(t, report.Summary())
}

func TestReportSummaryFormat(t *testing.T) {
	report := Report{
		Plan: Plan{Iterations: 60},
		Delays: []DelayRecord{
			{Iteration: 2, Delay: 120 * time.Millisecond},
			{Iteration: 9, Delay: 1234 * time.Millisecond},
			{Iteration: 5, Delay: 45 * time.Millisecond},
		},
	}

	assert.Equal(t,
		"3 out of 60 iterations completed with delays. Top 3 are: #9 by 1.23s, #2 by 0.12s, #5 by 0.045s",
		report.Summary())
}

func TestReportSummaryListsTopTen(t *testing.T) {
	report := Report{Plan: Plan{Iterations: 100}}
	for i := 0; i < 25; i++ {
		report.Delays = append(report.Delays, DelayRecord{Iteration: i, Delay: time.Duration(i+1) * time.Millisecond})
	}

	worst := report.Worst(MaxReportedDelays)
	require.Len(t, worst, 10)
	for i := 1; i < len(worst); i++ {
		assert.Greater(t, worst[i-1].Delay, worst[i].Delay)
	}
	assert.Equal(t, 24, worst[0].Iteration)
	assert.Contains(t, report.Summary(), "25 out of 100 iterations completed with delays. Top 10 are: #24 by 0.025s")
}

func TestReportWorstDoesNotReorderRecords(t *testing.T) {
	report := Report{Delays: []DelayRecord{
		{Iteration: 0, Delay: time.Millisecond},
		{Iteration: 1, Delay: time.Second},
	}}

	report.Worst(1)
	assert.Equal(t, 0, report.Delays[0].Iteration)
}

func TestDelayRecordString(t *testing.T) {
	for want, delay := range map[string]time.Duration{
		"#3 by 1.0s":   time.Second,
		"#3 by 2.0s":   2 * time.Second,
		"#3 by 2.5s":   2500 * time.Millisecond,
		"#3 by 0.5s":   500 * time.Millisecond,
		"#3 by 123.0s": 123 * time.Second,
		"#3 by 1e+03s": 1000 * time.Second,
	} {
		assert.Equal(t, want, DelayRecord{Iteration: 3, Delay: delay}.String())
	}
}

func TestReportWorstNegativeCount(t *testing.T) {
	report := Report{Delays: []DelayRecord{{Iteration: 1, Delay: time.Second}}}

	assert.NotPanics(t, func() {
		assert.Empty(t, report.Worst(-1))
	})
	assert.Empty(t, report.Worst(0))
}
