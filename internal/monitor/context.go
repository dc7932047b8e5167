package monitor

import (
	"fmt"

	"github.com/Dhruv-80/context-watch/internal/logger"
)

// DefaultWarnThresholdPct is the occupancy percentage at which the one-time
// context warning fires.
const DefaultWarnThresholdPct = 75.0

// ContextSnapshot is the occupancy of the context window at one instant.
type ContextSnapshot struct {
	Used        int     `json:"used"`
	Max         int     `json:"max"`
	Remaining   int     `json:"remaining"`
	PercentUsed float64 `json:"percent_used"`
}

// ContextSummary is the final snapshot plus the warning state of the run.
type ContextSummary struct {
	ContextSnapshot
	WarnThresholdPct float64 `json:"warn_threshold_pct"`
	Warned           bool    `json:"warned"`
}

// ContextTracker watches occupancy of a fixed-size context window. The
// arithmetic is pure; the only side effect is a single warning through the
// diagnostic logger the first time occupancy reaches the threshold. Not safe
// for concurrent use.
type ContextTracker struct {
	max     int
	warnPct float64
	log     logger.Logger

	used   int
	warned bool
	final  *ContextSummary
}

// NewContextTracker builds a tracker for a window of max tokens. A
// non-positive warnPct takes DefaultWarnThresholdPct; a nil logger discards
// the warning.
func NewContextTracker(max int, warnPct float64, log logger.Logger) (*ContextTracker, error) {
	if max <= 0 {
		return nil, fmt.Errorf("context window must be positive, got %d", max)
	}
	if warnPct <= 0 {
		warnPct = DefaultWarnThresholdPct
	}
	if log == nil {
		log = logger.Nop()
	}
	return &ContextTracker{max: max, warnPct: warnPct, log: log}, nil
}

// Update sets the current used-token count and returns the resulting
// snapshot. Crossing the warn threshold for the first time emits one warning
// on the diagnostic channel; it never repeats within a run.
func (c *ContextTracker) Update(used int) ContextSnapshot {
	c.used = used
	snap := c.snapshot()
	if !c.warned && snap.PercentUsed >= c.warnPct {
		c.warned = true
		c.log.Warn("context usage crossed threshold",
			"used", snap.Used,
			"max", snap.Max,
			"percent_used", snap.PercentUsed,
			"threshold_pct", c.warnPct,
		)
	}
	return snap
}

// Exhausted reports whether the window is full.
func (c *ContextTracker) Exhausted() bool { return c.used >= c.max }

// Snapshot returns the current occupancy without side effects.
func (c *ContextTracker) Snapshot() ContextSnapshot { return c.snapshot() }

// Finalize freezes the summary; repeated calls return the same value.
func (c *ContextTracker) Finalize() ContextSummary {
	if c.final == nil {
		c.final = &ContextSummary{
			ContextSnapshot:  c.snapshot(),
			WarnThresholdPct: c.warnPct,
			Warned:           c.warned,
		}
	}
	return *c.final
}

func (c *ContextTracker) snapshot() ContextSnapshot {
	return ContextSnapshot{
		Used:        c.used,
		Max:         c.max,
		Remaining:   max(c.max-c.used, 0),
		PercentUsed: 100 * float64(c.used) / float64(c.max),
	}
}
