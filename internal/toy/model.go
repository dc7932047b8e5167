package toy

import (
	"errors"
	"fmt"

	"github.com/Dhruv-80/context-watch/internal/model"
)

// stateDecay is how much of the running hidden state survives each token.
const stateDecay = 0.875

// LM is a tiny deterministic language model for exercising the decode loop
// without external weights: an embedding per token, a decayed running state
// mixed token by token, and a projection back to vocabulary logits. All
// per-run state lives in the cache value, so one LM can serve any number of
// sequential or concurrent runs.
type LM struct {
	vocab  int
	hidden int
	ctxLen int
	emb    [][]float32 // [vocab][hidden]
	proj   [][]float32 // [hidden][vocab]
}

// state is the incremental cache: the mixed hidden state plus the number of
// tokens that produced it. It is a value; Forward returns a fresh one and
// never mutates its input.
type state struct {
	h   []float32
	pos int
}

// NewLM builds a model with deterministic pseudo-random weights derived from
// seed. ctxLen 0 models a collaborator that cannot report its window.
func NewLM(vocab, hidden, ctxLen int, seed int64) *LM {
	m := &LM{
		vocab:  vocab,
		hidden: hidden,
		ctxLen: ctxLen,
		emb:    make([][]float32, vocab),
		proj:   make([][]float32, hidden),
	}
	r := rng(uint64(seed)*2654435761 + 1)
	for i := range m.emb {
		m.emb[i] = r.fill(hidden)
	}
	for i := range m.proj {
		m.proj[i] = r.fill(vocab)
	}
	return m
}

func (m *LM) VocabSize() int     { return m.vocab }
func (m *LM) ContextLength() int { return m.ctxLen }

// Forward mixes the given tokens into the cached hidden state and projects
// the result to logits. The returned cache replaces the one passed in.
func (m *LM) Forward(cache model.Cache, tokens []int) ([]float32, model.Cache, error) {
	var st state
	switch c := cache.(type) {
	case nil:
	case state:
		st = c
	default:
		return nil, nil, fmt.Errorf("foreign cache type %T", cache)
	}
	if len(tokens) == 0 {
		return nil, nil, errors.New("no input tokens")
	}
	if m.ctxLen > 0 && st.pos+len(tokens) > m.ctxLen {
		return nil, nil, fmt.Errorf("context overflow: %d tokens into a window of %d",
			st.pos+len(tokens), m.ctxLen)
	}

	h := make([]float32, m.hidden)
	copy(h, st.h)
	for _, tok := range tokens {
		row := m.emb[wrap(tok, m.vocab)]
		for i := range h {
			h[i] = h[i]*stateDecay + row[i]
		}
	}

	logits := make([]float32, m.vocab)
	for i, w := range m.proj {
		hi := h[i]
		for j := range logits {
			logits[j] += hi * w[j]
		}
	}
	return logits, state{h: h, pos: st.pos + len(tokens)}, nil
}

// wrap reduces an out-of-range token id into [0, vocab).
func wrap(tok, vocab int) int {
	if tok >= 0 && tok < vocab {
		return tok
	}
	tok %= vocab
	if tok < 0 {
		tok += vocab
	}
	return tok
}

// rng is an xorshift64 generator; weights land in [-1, 1).
type rng uint64

func (r *rng) next() float32 {
	x := uint64(*r)
	x ^= x << 13
	x ^= x >> 7
	x ^= x << 17
	*r = rng(x)
	return float32(x>>40)/float32(1<<23) - 1
}

func (r *rng) fill(n int) []float32 {
	v := make([]float32, n)
	for i := range v {
		v[i] = r.next()
	}
	return v
}
