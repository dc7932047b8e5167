// Package bench aggregates repeated instrumented runs into order statistics
// suitable for comparing decode configurations.
package bench

import (
	"time"

	"github.com/Dhruv-80/context-watch/internal/inference"
)

// Report is the aggregate view over a batch of runs. StepLatency summarizes
// each run's final rolling average; TTFT covers only runs that produced a
// first token.
type Report struct {
	Runs            int            `json:"runs"`
	TokensGenerated int            `json:"tokens_generated"`
	StopReasons     map[string]int `json:"stop_reasons"`
	TTFT            DurationStats  `json:"ttft"`
	StepLatency     DurationStats  `json:"step_latency"`
	RunDuration     DurationStats  `json:"run_duration"`
	TokensPerSecond FloatStats     `json:"tokens_per_second"`
	MemoryGrowth    FloatStats     `json:"memory_growth_bytes"`
}

// Aggregate folds per-run results into a Report. Undefined per-run figures
// (no first token, no rolling average) are skipped rather than counted as
// zeros.
func Aggregate(results []*inference.Result) Report {
	rep := Report{
		Runs:        len(results),
		StopReasons: make(map[string]int),
	}

	var (
		ttfts     []time.Duration
		rolling   []time.Duration
		durations []time.Duration
		tps       []float64
		growth    []float64
	)
	for _, r := range results {
		rep.TokensGenerated += r.GeneratedTokens
		rep.StopReasons[string(r.StopReason)]++
		durations = append(durations, r.Duration)
		tps = append(tps, r.TokensPerSecond)
		growth = append(growth, float64(r.Memory.GrowthBytes))
		if r.Latency.TTFT != nil {
			ttfts = append(ttfts, *r.Latency.TTFT)
		}
		if r.Latency.RollingAvg != nil {
			rolling = append(rolling, *r.Latency.RollingAvg)
		}
	}

	rep.TTFT = SummarizeDurations(ttfts)
	rep.StepLatency = SummarizeDurations(rolling)
	rep.RunDuration = SummarizeDurations(durations)
	rep.TokensPerSecond = SummarizeFloats(tps)
	rep.MemoryGrowth = SummarizeFloats(growth)
	return rep
}
