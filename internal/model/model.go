package model

// Cache is the opaque incremental decode state a model threads through
// successive Forward calls (a KV cache or whatever the implementation keeps).
// Callers never inspect it. A cache handed to Forward is consumed: the caller
// must replace its reference with the returned cache and must not touch the
// old value again.
type Cache interface{}

// Model represents a generative language model capable of autoregressive
// inference, one incremental step at a time.
type Model interface {
	// Forward advances the model by one step. The first call of a run passes
	// the whole prompt with a nil cache; every later call passes exactly one
	// token plus the cache returned by the previous call. It returns the
	// logits for the next position and the replacement cache.
	Forward(cache Cache, tokens []int) ([]float32, Cache, error)

	// VocabSize reports the size of the logit vector Forward returns.
	VocabSize() int

	// ContextLength reports the maximum context window in tokens, or 0 when
	// the model cannot report one.
	ContextLength() int
}
