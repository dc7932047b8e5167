package bench

import (
	"slices"
	"time"
)

// DurationStats summarizes a series of durations.
type DurationStats struct {
	Min    time.Duration `json:"min_ns"`
	Max    time.Duration `json:"max_ns"`
	Mean   time.Duration `json:"mean_ns"`
	Median time.Duration `json:"median_ns"`
	P95    time.Duration `json:"p95_ns"`
}

// FloatStats summarizes a series of float64 readings.
type FloatStats struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	P95    float64 `json:"p95"`
}

// SummarizeDurations computes order statistics over vals. Empty input gives
// the zero value.
func SummarizeDurations(vals []time.Duration) DurationStats {
	if len(vals) == 0 {
		return DurationStats{}
	}
	sorted := slices.Clone(vals)
	slices.Sort(sorted)

	var sum time.Duration
	for _, v := range sorted {
		sum += v
	}

	n := len(sorted)
	median := sorted[n/2]
	if n%2 == 0 {
		median = (sorted[n/2-1] + sorted[n/2]) / 2
	}

	return DurationStats{
		Min:    sorted[0],
		Max:    sorted[n-1],
		Mean:   sum / time.Duration(n),
		Median: median,
		P95:    sorted[percentileIndex(n, 95)],
	}
}

// SummarizeFloats computes order statistics over vals. Empty input gives the
// zero value.
func SummarizeFloats(vals []float64) FloatStats {
	if len(vals) == 0 {
		return FloatStats{}
	}
	sorted := slices.Clone(vals)
	slices.Sort(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}

	n := len(sorted)
	median := sorted[n/2]
	if n%2 == 0 {
		median = (sorted[n/2-1] + sorted[n/2]) / 2
	}

	return FloatStats{
		Min:    sorted[0],
		Max:    sorted[n-1],
		Mean:   sum / float64(n),
		Median: median,
		P95:    sorted[percentileIndex(n, 95)],
	}
}

// percentileIndex is the nearest-rank index for the pct-th percentile:
// ceil(n*pct/100) - 1, clamped to [0, n-1].
func percentileIndex(n, pct int) int {
	if n <= 0 {
		return 0
	}
	idx := (n*pct + 99) / 100
	if idx < 1 {
		idx = 1
	}
	if idx > n {
		idx = n
	}
	return idx - 1
}
