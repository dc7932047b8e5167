package inference

import (
	"time"

	"github.com/Dhruv-80/context-watch/internal/monitor"
)

// StopReason tells why generation ended. When several conditions hold after
// the same step, the loop reports the highest-priority one:
// eos > context_full > max_tokens.
type StopReason string

const (
	StopEOS         StopReason = "eos"
	StopContextFull StopReason = "context_full"
	StopMaxTokens   StopReason = "max_tokens"
)

// Result is the frozen outcome of one instrumented run: the generated ids,
// the token accounting, and one finalized summary per monitored signal.
type Result struct {
	Tokens          []int                  `json:"tokens"`
	PromptTokens    int                    `json:"prompt_tokens"`
	GeneratedTokens int                    `json:"generated_tokens"`
	TotalTokens     int                    `json:"total_tokens"`
	StopReason      StopReason             `json:"stop_reason"`
	Duration        time.Duration          `json:"duration_ns"`
	TokensPerSecond float64                `json:"tokens_per_second"`
	Latency         monitor.LatencySummary `json:"latency"`
	Context         monitor.ContextSummary `json:"context"`
	Memory          monitor.MemorySummary  `json:"memory"`
}
