package monitor

import (
	"reflect"
	"testing"

	"github.com/Dhruv-80/context-watch/internal/logger"
)

// countingLogger records warn calls so tests can assert the one-shot
// threshold warning.
type countingLogger struct {
	warns int
}

func (c *countingLogger) Debug(string, ...any)      {}
func (c *countingLogger) Info(string, ...any)       {}
func (c *countingLogger) Warn(string, ...any)       { c.warns++ }
func (c *countingLogger) Error(string, ...any)      {}
func (c *countingLogger) With(...any) logger.Logger { return c }

func TestContextSnapshotArithmetic(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		max, used     int
		wantPct       float64
		wantRemaining int
	}{
		{"three quarters", 1024, 768, 75.0, 256},
		{"empty", 1024, 0, 0, 1024},
		{"full", 1024, 1024, 100, 0},
		{"overfull clamps remaining only", 1024, 1100, 107.421875, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			ct, err := NewContextTracker(tc.max, 0, nil)
			if err != nil {
				t.Fatalf("new tracker: %v", err)
			}
			snap := ct.Update(tc.used)
			if snap.PercentUsed != tc.wantPct {
				t.Errorf("percent = %v, want %v", snap.PercentUsed, tc.wantPct)
			}
			if snap.Remaining != tc.wantRemaining {
				t.Errorf("remaining = %d, want %d", snap.Remaining, tc.wantRemaining)
			}
			if snap.Used != tc.used || snap.Max != tc.max {
				t.Errorf("used/max = %d/%d, want %d/%d", snap.Used, snap.Max, tc.used, tc.max)
			}
		})
	}
}

func TestWarnFiresExactlyOnce(t *testing.T) {
	t.Parallel()

	log := &countingLogger{}
	ct, err := NewContextTracker(1024, 75, log)
	if err != nil {
		t.Fatalf("new tracker: %v", err)
	}

	ct.Update(700) // 68.4%, below threshold
	if log.warns != 0 {
		t.Fatalf("warned below threshold: %d", log.warns)
	}

	ct.Update(768) // exactly 75%
	if log.warns != 1 {
		t.Fatalf("expected one warning at threshold, got %d", log.warns)
	}

	ct.Update(900)
	ct.Update(1024)
	if log.warns != 1 {
		t.Fatalf("warning repeated: %d", log.warns)
	}

	if sum := ct.Finalize(); !sum.Warned {
		t.Fatal("summary should record the crossed threshold")
	}
}

func TestNoWarnBelowThreshold(t *testing.T) {
	t.Parallel()

	log := &countingLogger{}
	ct, err := NewContextTracker(1000, 75, log)
	if err != nil {
		t.Fatalf("new tracker: %v", err)
	}
	for used := 0; used <= 740; used += 10 {
		ct.Update(used)
	}
	if log.warns != 0 {
		t.Fatalf("unexpected warning: %d", log.warns)
	}
	if sum := ct.Finalize(); sum.Warned {
		t.Fatal("summary claims a warning that never fired")
	}
}

func TestExhausted(t *testing.T) {
	t.Parallel()

	ct, err := NewContextTracker(8, 0, nil)
	if err != nil {
		t.Fatalf("new tracker: %v", err)
	}
	ct.Update(7)
	if ct.Exhausted() {
		t.Fatal("not exhausted at 7/8")
	}
	ct.Update(8)
	if !ct.Exhausted() {
		t.Fatal("exhausted at 8/8")
	}
	ct.Update(9)
	if !ct.Exhausted() {
		t.Fatal("exhausted past the limit")
	}
}

func TestRejectsNonPositiveMax(t *testing.T) {
	t.Parallel()

	for _, max := range []int{0, -1} {
		if _, err := NewContextTracker(max, 0, nil); err == nil {
			t.Errorf("NewContextTracker(%d) should fail", max)
		}
	}
}

func TestDefaultThreshold(t *testing.T) {
	t.Parallel()

	ct, err := NewContextTracker(100, 0, nil)
	if err != nil {
		t.Fatalf("new tracker: %v", err)
	}
	if sum := ct.Finalize(); sum.WarnThresholdPct != DefaultWarnThresholdPct {
		t.Fatalf("threshold = %v, want %v", sum.WarnThresholdPct, DefaultWarnThresholdPct)
	}
}

func TestContextFinalizeIdempotent(t *testing.T) {
	t.Parallel()

	ct, err := NewContextTracker(1024, 0, nil)
	if err != nil {
		t.Fatalf("new tracker: %v", err)
	}
	ct.Update(800)

	a := ct.Finalize()
	// Updates after finalize must not leak into the frozen summary.
	ct.Update(1024)
	b := ct.Finalize()
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("finalize not idempotent:\n%+v\n%+v", a, b)
	}
}
