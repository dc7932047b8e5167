package tokenizer

// Tokenizer converts between text and token ids. The decode loop itself only
// sees ids; text enters and leaves through this interface at the edges (CLI
// prompt, streamed output, API payloads).
type Tokenizer interface {
	Encode(text string) ([]int, error)
	Decode(ids []int) (string, error)
}
