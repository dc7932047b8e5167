package tokenizer

import (
	"fmt"
	"strings"
)

// Byte-level vocabulary: ids 0..255 are the raw byte values, id 256 marks
// end of text.
const (
	ByteVocabSize = 257
	ByteEOS       = 256
)

// ByteTokenizer maps text to its raw bytes. It needs no vocabulary files,
// which makes it the natural pair for the built-in demo model.
type ByteTokenizer struct{}

func (ByteTokenizer) Encode(text string) ([]int, error) {
	ids := make([]int, len(text))
	for i := 0; i < len(text); i++ {
		ids[i] = int(text[i])
	}
	return ids, nil
}

// Decode renders ids back to text. The end-of-text marker is dropped rather
// than rendered.
func (ByteTokenizer) Decode(ids []int) (string, error) {
	var b strings.Builder
	b.Grow(len(ids))
	for _, id := range ids {
		if id == ByteEOS {
			continue
		}
		if id < 0 || id > 255 {
			return "", fmt.Errorf("token id %d outside byte range", id)
		}
		b.WriteByte(byte(id))
	}
	return b.String(), nil
}
