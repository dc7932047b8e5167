package monitor

import (
	"errors"
	"time"
)

// DefaultRollingWindow is how many of the most recent subsequent-step
// durations the rolling average covers when the caller does not choose a
// size.
const DefaultRollingWindow = 20

// ErrDuplicateFirstToken reports a second first-token sample in one run.
// A run has exactly one first token; recording two means the caller's step
// accounting is broken.
var ErrDuplicateFirstToken = errors.New("first-token latency recorded twice")

// StepKind classifies a latency sample. The first step of a run carries the
// prompt prefill and is an outlier, so it is kept out of the rolling window
// and the trend fit.
type StepKind string

const (
	StepFirst      StepKind = "first"
	StepSubsequent StepKind = "subsequent"
)

// LatencySummary is the read-only view of a LatencyTracker. Nil pointers
// mark values that are undefined so far (no samples, or too few points to
// fit a trend); they are never NaN or Inf.
type LatencySummary struct {
	TTFT                *time.Duration `json:"ttft_ns,omitempty"`
	LastStep            *time.Duration `json:"last_step_ns,omitempty"`
	RollingAvg          *time.Duration `json:"rolling_avg_ns,omitempty"`
	RollingWindow       int            `json:"rolling_window"`
	TrendMSPer100Tokens *float64       `json:"trend_ms_per_100_tokens,omitempty"`
	FirstSamples        int            `json:"first_samples"`
	SubsequentSamples   int            `json:"subsequent_samples"`
}

// LatencyTracker accumulates per-step decode latencies: time to first token,
// plus a bounded rolling average and a streaming least-squares trend over
// the subsequent-step durations. The first step contributes only to TTFT and
// LastStep. Record is O(1); nothing outside the rolling window is retained.
// Not safe for concurrent use; a run owns its tracker.
type LatencyTracker struct {
	window  []time.Duration
	maxWin  int
	ttft    time.Duration
	hasTTFT bool
	last    time.Duration
	hasLast bool

	firstCount int
	subCount   int

	// least-squares accumulators over subsequent samples,
	// x = 1-based subsequent index, y = duration in seconds
	n, sumX, sumY, sumXY, sumXX float64

	final *LatencySummary
}

// NewLatencyTracker builds a tracker with the given rolling window size.
// Non-positive sizes take DefaultRollingWindow.
func NewLatencyTracker(window int) *LatencyTracker {
	if window <= 0 {
		window = DefaultRollingWindow
	}
	return &LatencyTracker{maxWin: window}
}

// Record adds one step duration. Subsequent samples feed the rolling window
// and the trend accumulators; the first sample sets TTFT. A second StepFirst
// sample returns ErrDuplicateFirstToken.
func (t *LatencyTracker) Record(kind StepKind, d time.Duration) error {
	if kind == StepFirst {
		if t.hasTTFT {
			return ErrDuplicateFirstToken
		}
		t.ttft = d
		t.hasTTFT = true
		t.firstCount++
	} else {
		t.subCount++
		x := float64(t.subCount)
		y := d.Seconds()
		t.n++
		t.sumX += x
		t.sumY += y
		t.sumXY += x * y
		t.sumXX += x * x

		t.window = append(t.window, d)
		if len(t.window) > t.maxWin {
			t.window = t.window[1:]
		}
	}

	t.last = d
	t.hasLast = true
	return nil
}

// Snapshot recomputes the summary from the current state. Safe to call at
// any point of a run, including before any sample.
func (t *LatencyTracker) Snapshot() LatencySummary {
	return t.summary()
}

// Finalize freezes the summary. Later calls return the same value even if
// the tracker is touched again.
func (t *LatencyTracker) Finalize() LatencySummary {
	if t.final == nil {
		s := t.summary()
		t.final = &s
	}
	return *t.final
}

func (t *LatencyTracker) summary() LatencySummary {
	s := LatencySummary{
		RollingWindow:     t.maxWin,
		FirstSamples:      t.firstCount,
		SubsequentSamples: t.subCount,
	}
	if t.hasTTFT {
		ttft := t.ttft
		s.TTFT = &ttft
	}
	if t.hasLast {
		last := t.last
		s.LastStep = &last
	}
	if len(t.window) > 0 {
		var sum time.Duration
		for _, d := range t.window {
			sum += d
		}
		avg := sum / time.Duration(len(t.window))
		s.RollingAvg = &avg
	}
	if slope, ok := t.trend(); ok {
		s.TrendMSPer100Tokens = &slope
	}
	return s
}

// trend fits duration against subsequent-step index and scales the slope to
// milliseconds per 100 generated tokens. Undefined below 2 points or when
// the x spread is degenerate.
func (t *LatencyTracker) trend() (float64, bool) {
	if t.n < 2 {
		return 0, false
	}
	den := t.n*t.sumXX - t.sumX*t.sumX
	if den == 0 {
		return 0, false
	}
	slope := (t.n*t.sumXY - t.sumX*t.sumY) / den
	return slope * 100 * 1000, true
}
