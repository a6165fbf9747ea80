package transcript

import (
	"math"
	"strings"
	"unicode"

	"github.com/cespare/xxhash/v2"
)

// Dimensions is the length of every embedding stored in the archive.
const Dimensions = 384

// Embedder turns text into a fixed-length vector without calling a model.
// Each lowercased word is hashed into a bucket with a hash-derived sign; the
// result is L2-normalized, so texts sharing words score a positive cosine
// similarity. Identical text always yields the identical vector.
type Embedder struct {
	dims int
}

// NewEmbedder creates an Embedder producing Dimensions-long vectors.
func NewEmbedder() *Embedder {
	return &Embedder{dims: Dimensions}
}

// Embed returns the embedding of text. Text without words maps to the zero
// vector.
func (e *Embedder) Embed(text string) []float32 {
	vec := make([]float32, e.dims)
	for _, word := range Tokenize(text) {
		h := xxhash.Sum64String(word)
		i := h % uint64(e.dims)
		if h&(1<<63) != 0 {
			vec[i]--
		} else {
			vec[i]++
		}
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		return vec
	}
	scale := float32(1 / math.Sqrt(norm))
	for i := range vec {
		vec[i] *= scale
	}
	return vec
}

// Tokenize splits text into lowercase words of letters and digits.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
