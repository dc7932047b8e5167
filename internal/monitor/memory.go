package monitor

// MemoryProbe reports the process's current resident set size in bytes, or 0
// when the platform cannot tell. Sampling is a syscall, so callers throttle
// it to a step cadence rather than every token.
type MemoryProbe func() int64

// MemorySample is one resident-size reading. Step is the number of generated
// tokens at the moment of sampling; the baseline carries Step == 0.
type MemorySample struct {
	Step          int   `json:"step"`
	ResidentBytes int64 `json:"resident_bytes"`
}

// MemorySummary is derived from the ordered samples of a run. Growth is
// current minus baseline and may be negative; it is reported as measured,
// never clamped. Nil pointers mark per-token figures that are undefined
// because no tokens were generated between the samples.
type MemorySummary struct {
	BaselineBytes      int64    `json:"baseline_bytes"`
	CurrentBytes       int64    `json:"current_bytes"`
	PeakBytes          int64    `json:"peak_bytes"`
	GrowthBytes        int64    `json:"growth_bytes"`
	GrowthPer100Tokens *float64 `json:"growth_per_100_tokens_bytes,omitempty"`
	AvgPerTokenBytes   *float64 `json:"avg_per_token_bytes,omitempty"`
	Samples            int      `json:"samples"`
}

// MemoryTracker keeps an append-only list of resident-size samples and
// derives baseline, peak and growth figures from it. Not safe for concurrent
// use.
type MemoryTracker struct {
	probe   MemoryProbe
	samples []MemorySample
	final   *MemorySummary
}

// NewMemoryTracker builds a tracker reading through probe. A nil probe takes
// the platform default (ReadRSS).
func NewMemoryTracker(probe MemoryProbe) *MemoryTracker {
	if probe == nil {
		probe = ReadRSS
	}
	return &MemoryTracker{probe: probe}
}

// Sample reads the probe and records the result at the given generated-token
// count.
func (m *MemoryTracker) Sample(step int) {
	m.samples = append(m.samples, MemorySample{Step: step, ResidentBytes: m.probe()})
}

// Snapshot derives a summary from the samples recorded so far.
func (m *MemoryTracker) Snapshot() MemorySummary { return m.summary() }

// Finalize freezes the summary; repeated calls return the same value.
func (m *MemoryTracker) Finalize() MemorySummary {
	if m.final == nil {
		s := m.summary()
		m.final = &s
	}
	return *m.final
}

func (m *MemoryTracker) summary() MemorySummary {
	s := MemorySummary{Samples: len(m.samples)}
	if len(m.samples) == 0 {
		return s
	}

	base := m.samples[0]
	cur := m.samples[len(m.samples)-1]
	peak := base.ResidentBytes
	for _, smp := range m.samples {
		if smp.ResidentBytes > peak {
			peak = smp.ResidentBytes
		}
	}

	s.BaselineBytes = base.ResidentBytes
	s.CurrentBytes = cur.ResidentBytes
	s.PeakBytes = peak
	s.GrowthBytes = cur.ResidentBytes - base.ResidentBytes

	if steps := cur.Step - base.Step; steps > 0 {
		g := float64(s.GrowthBytes) / float64(steps) * 100
		s.GrowthPer100Tokens = &g
	}
	if cur.Step > 0 {
		a := float64(s.GrowthBytes) / float64(cur.Step)
		s.AvgPerTokenBytes = &a
	}
	return s
}
