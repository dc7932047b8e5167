package inference

import (
	"context"
	"errors"
	"slices"

	"github.com/Dhruv-80/context-watch/internal/logger"
	"github.com/Dhruv-80/context-watch/internal/model"
	"github.com/Dhruv-80/context-watch/internal/monitor"
)

// DefaultMemorySampleCadence is how many generated tokens pass between
// resident-memory samples. The baseline and the final state are always
// sampled regardless of cadence.
const DefaultMemorySampleCadence = 8

// Config bounds and tunes one instrumented run. Zero fields take defaults at
// NewLoop time, so the zero Config only needs MaxNewTokens to be usable.
type Config struct {
	// MaxNewTokens caps how many tokens a run may generate. Must be >= 0;
	// 0 produces an empty run that stops with StopMaxTokens.
	MaxNewTokens int

	// StopTokens are the ids that end generation with StopEOS. Empty
	// disables EOS stopping.
	StopTokens []int

	// ContextLimit overrides the model's reported context window. Leave 0
	// to ask the model; if the model reports none either, NewLoop fails
	// with ErrUnknownContextLimit.
	ContextLimit int

	// WarnThresholdPct is the context occupancy percentage that triggers
	// the one-time warning. 0 means monitor.DefaultWarnThresholdPct.
	WarnThresholdPct float64

	// RollingWindow sizes the latency rolling average. 0 means
	// monitor.DefaultRollingWindow.
	RollingWindow int

	// MemorySampleCadence is the generated-token interval between memory
	// samples. 0 means DefaultMemorySampleCadence.
	MemorySampleCadence int

	Clock  monitor.Clock
	Probe  monitor.MemoryProbe
	Logger logger.Logger
}

// Loop drives a model through token-by-token decode while feeding the
// latency, context and memory trackers. One Run executes on one goroutine;
// concurrent runs need separate loops.
type Loop struct {
	model model.Model
	cfg   Config
	limit int
}

// NewLoop validates cfg against the model and resolves every default. The
// context limit is pinned here: an explicit cfg.ContextLimit wins, otherwise
// the model's reported window, otherwise construction fails.
func NewLoop(m model.Model, cfg Config) (*Loop, error) {
	if m == nil {
		return nil, errors.New("model is required")
	}
	if cfg.MaxNewTokens < 0 {
		return nil, errors.New("max new tokens must be >= 0")
	}

	limit := cfg.ContextLimit
	if limit <= 0 {
		limit = m.ContextLength()
	}
	if limit <= 0 {
		return nil, ErrUnknownContextLimit
	}

	if cfg.WarnThresholdPct <= 0 {
		cfg.WarnThresholdPct = monitor.DefaultWarnThresholdPct
	}
	if cfg.RollingWindow <= 0 {
		cfg.RollingWindow = monitor.DefaultRollingWindow
	}
	if cfg.MemorySampleCadence <= 0 {
		cfg.MemorySampleCadence = DefaultMemorySampleCadence
	}
	if cfg.Clock == nil {
		cfg.Clock = monitor.SystemClock
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Nop()
	}

	return &Loop{model: m, cfg: cfg, limit: limit}, nil
}

// Run decodes greedily from prompt until a stop condition fires, recording
// every monitored signal along the way. stream, when non-nil, receives each
// accepted token except a stop token; it runs outside the timed span.
//
// Cancellation is cooperative: ctx is checked between steps only, and a
// cancelled run returns ctx's error with no partial Result. Fresh trackers
// are built per call, so a Loop may run sequential generations.
func (l *Loop) Run(ctx context.Context, prompt []int, stream func(token int)) (*Result, error) {
	if len(prompt) == 0 {
		return nil, errors.New("empty prompt")
	}

	lat := monitor.NewLatencyTracker(l.cfg.RollingWindow)
	cw, err := monitor.NewContextTracker(l.limit, l.cfg.WarnThresholdPct, l.cfg.Logger)
	if err != nil {
		return nil, err
	}
	mem := monitor.NewMemoryTracker(l.cfg.Probe)

	start := l.cfg.Clock()
	mem.Sample(0)
	cw.Update(len(prompt))

	generated := make([]int, 0, l.cfg.MaxNewTokens)
	var stop StopReason
	var cache model.Cache

	// A prompt that already fills the window, or a zero budget, ends the
	// run before the first forward call.
	switch {
	case cw.Exhausted():
		stop = StopContextFull
	case l.cfg.MaxNewTokens == 0:
		stop = StopMaxTokens
	}

	input := prompt
	for stop == "" {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		step := len(generated)

		stepStart := l.cfg.Clock()
		logits, next, err := l.model.Forward(cache, input)
		if err != nil {
			return nil, &InferenceError{Step: step, Err: err}
		}
		if len(logits) == 0 {
			return nil, &InferenceError{Step: step, Err: errors.New("model returned no logits")}
		}
		cache = next
		token := argmax(logits)
		elapsed := l.cfg.Clock().Sub(stepStart)

		kind := monitor.StepSubsequent
		if step == 0 {
			kind = monitor.StepFirst
		}
		if err := lat.Record(kind, elapsed); err != nil {
			return nil, err
		}

		generated = append(generated, token)
		cw.Update(len(prompt) + len(generated))
		if len(generated)%l.cfg.MemorySampleCadence == 0 {
			mem.Sample(len(generated))
		}

		switch {
		case slices.Contains(l.cfg.StopTokens, token):
			stop = StopEOS
		case cw.Exhausted():
			stop = StopContextFull
		case len(generated) >= l.cfg.MaxNewTokens:
			stop = StopMaxTokens
		}

		if stream != nil && stop != StopEOS {
			stream(token)
		}
		input = []int{token}
	}

	if len(generated)%l.cfg.MemorySampleCadence != 0 {
		mem.Sample(len(generated))
	}

	dur := l.cfg.Clock().Sub(start)
	res := &Result{
		Tokens:          generated,
		PromptTokens:    len(prompt),
		GeneratedTokens: len(generated),
		TotalTokens:     len(prompt) + len(generated),
		StopReason:      stop,
		Duration:        dur,
		Latency:         lat.Finalize(),
		Context:         cw.Finalize(),
		Memory:          mem.Finalize(),
	}
	if s := dur.Seconds(); s > 0 {
		res.TokensPerSecond = float64(res.GeneratedTokens) / s
	}
	return res, nil
}

// argmax returns the index of the largest logit; ties keep the lowest id.
func argmax(x []float32) int {
	best := 0
	for i, v := range x {
		if v > x[best] {
			best = i
		}
	}
	return best
}
