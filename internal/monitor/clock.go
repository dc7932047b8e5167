package monitor

import "time"

// Clock is the time source for a run. Every tracker fed by one decode loop
// shares the same Clock so step boundaries and durations stay mutually
// consistent. Tests substitute a scripted clock.
type Clock func() time.Time

// SystemClock reads the monotonic system clock.
func SystemClock() time.Time { return time.Now() }
