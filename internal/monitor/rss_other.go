//go:build !linux

package monitor

// ReadRSS reports 0 on platforms without a /proc resident-size source.
// Callers treat 0 as "sampling unavailable".
func ReadRSS() int64 { return 0 }
