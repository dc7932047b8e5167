package bench

import (
	"testing"
	"time"

	"github.com/Dhruv-80/context-watch/internal/inference"
	"github.com/Dhruv-80/context-watch/internal/monitor"
)

func TestSummarizeDurations(t *testing.T) {
	t.Parallel()

	vals := []time.Duration{
		30 * time.Millisecond,
		10 * time.Millisecond,
		20 * time.Millisecond,
		40 * time.Millisecond,
	}
	s := SummarizeDurations(vals)

	if s.Min != 10*time.Millisecond || s.Max != 40*time.Millisecond {
		t.Fatalf("min/max = %v/%v", s.Min, s.Max)
	}
	if s.Mean != 25*time.Millisecond {
		t.Fatalf("mean = %v, want 25ms", s.Mean)
	}
	if s.Median != 25*time.Millisecond {
		t.Fatalf("median = %v, want 25ms", s.Median)
	}
	if s.P95 != 40*time.Millisecond {
		t.Fatalf("p95 = %v, want 40ms", s.P95)
	}
}

func TestSummarizeDurationsEmpty(t *testing.T) {
	t.Parallel()

	if s := SummarizeDurations(nil); s != (DurationStats{}) {
		t.Fatalf("empty input should give the zero value, got %+v", s)
	}
}

func TestSummarizeFloatsWithNegatives(t *testing.T) {
	t.Parallel()

	// Memory growth can shrink; the stats must not assume positives.
	s := SummarizeFloats([]float64{-300, 100, 200})
	if s.Min != -300 || s.Max != 200 {
		t.Fatalf("min/max = %v/%v", s.Min, s.Max)
	}
	if s.Median != 100 {
		t.Fatalf("median = %v, want 100", s.Median)
	}
	if s.Mean != 0 {
		t.Fatalf("mean = %v, want 0", s.Mean)
	}
}

func TestPercentileIndex(t *testing.T) {
	t.Parallel()

	tests := []struct {
		n, pct, want int
	}{
		{100, 95, 94},
		{100, 50, 49},
		{1, 95, 0},
		{2, 95, 1},
		{20, 95, 18},
		{0, 95, 0},
	}
	for _, tc := range tests {
		if got := percentileIndex(tc.n, tc.pct); got != tc.want {
			t.Errorf("percentileIndex(%d, %d) = %d, want %d", tc.n, tc.pct, got, tc.want)
		}
	}
}

func durp(d time.Duration) *time.Duration { return &d }

func TestAggregate(t *testing.T) {
	t.Parallel()

	results := []*inference.Result{
		{
			GeneratedTokens: 10,
			StopReason:      inference.StopMaxTokens,
			Duration:        100 * time.Millisecond,
			TokensPerSecond: 100,
			Latency: monitor.LatencySummary{
				TTFT:       durp(50 * time.Millisecond),
				RollingAvg: durp(5 * time.Millisecond),
			},
			Memory: monitor.MemorySummary{GrowthBytes: 1 << 20},
		},
		{
			GeneratedTokens: 4,
			StopReason:      inference.StopEOS,
			Duration:        60 * time.Millisecond,
			TokensPerSecond: 66,
			Latency: monitor.LatencySummary{
				TTFT:       durp(30 * time.Millisecond),
				RollingAvg: durp(7 * time.Millisecond),
			},
			Memory: monitor.MemorySummary{GrowthBytes: -(1 << 19)},
		},
		{
			// Degenerate run: nothing generated, no latency figures.
			GeneratedTokens: 0,
			StopReason:      inference.StopContextFull,
		},
	}

	rep := Aggregate(results)
	if rep.Runs != 3 || rep.TokensGenerated != 14 {
		t.Fatalf("runs/tokens = %d/%d, want 3/14", rep.Runs, rep.TokensGenerated)
	}
	if rep.StopReasons["eos"] != 1 || rep.StopReasons["max_tokens"] != 1 || rep.StopReasons["context_full"] != 1 {
		t.Fatalf("stop reasons = %v", rep.StopReasons)
	}
	// Only the two defined TTFTs participate.
	if rep.TTFT.Min != 30*time.Millisecond || rep.TTFT.Max != 50*time.Millisecond {
		t.Fatalf("ttft min/max = %v/%v", rep.TTFT.Min, rep.TTFT.Max)
	}
	if rep.TTFT.Mean != 40*time.Millisecond {
		t.Fatalf("ttft mean = %v, want 40ms", rep.TTFT.Mean)
	}
	if rep.MemoryGrowth.Min != -(1 << 19) {
		t.Fatalf("growth min = %v, want %v", rep.MemoryGrowth.Min, -(1 << 19))
	}
}

func TestAggregateEmpty(t *testing.T) {
	t.Parallel()

	rep := Aggregate(nil)
	if rep.Runs != 0 || rep.TokensGenerated != 0 {
		t.Fatalf("unexpected aggregate: %+v", rep)
	}
}
