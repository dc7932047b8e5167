package api

import "github.com/Dhruv-80/context-watch/internal/inference"

// RunRequest is the body of POST /v1/runs. Pointer fields distinguish
// absent from zero; absent fields fall back to the service defaults.
type RunRequest struct {
	Prompt           string   `json:"prompt"`
	MaxTokens        *int     `json:"max_tokens,omitempty"`
	ContextLimit     *int     `json:"context_limit,omitempty"`
	WarnThresholdPct *float64 `json:"warn_threshold_pct,omitempty"`
	RollingWindow    *int     `json:"rolling_window,omitempty"`
	MemoryCadence    *int     `json:"memory_cadence,omitempty"`
	StopTokens       []int    `json:"stop_tokens,omitempty"`
}

// RunResponse is returned by POST /v1/runs and replayed by GET /v1/runs/:id.
type RunResponse struct {
	ID        string           `json:"id"`
	Object    string           `json:"object"`
	CreatedAt int64            `json:"created_at"`
	Text      string           `json:"text"`
	Result    inference.Result `json:"result"`
}

type DeleteRunResponse struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Deleted bool   `json:"deleted"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// RunError is the error envelope nested under "error" in failure responses.
type RunError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}
