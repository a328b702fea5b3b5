package embedding

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

// Hashing is an offline embedder: lower-cased word tokens are hashed into a
// fixed number of signed buckets and the result is L2-normalised, so squared
// Euclidean distances fall in [0, 4] like those of sentence-transformer models.
// Its distances are not calibrated against the retrieval threshold; use it
// for offline runs and tests.
type Hashing struct {
	dims int
}

func NewHashing(dims int) *Hashing {
	if dims < 1 {
		dims = 384
	}
	return &Hashing{dims: dims}
}

func (h *Hashing) Dimensions() int { return h.dims }

func (h *Hashing) Embed(_ context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i, t := range texts {
		out[i] = h.vector(t)
	}
	return out, nil
}

func (h *Hashing) vector(text string) []float64 {
	v := make([]float64, h.dims)
	for _, tok := range Tokenize(text) {
		f := fnv.New32a()
		_, _ = f.Write([]byte(tok))
		sum := f.Sum32()

		idx := int(sum % uint32(h.dims))
		if sum&(1<<31) != 0 {
			v[idx]--
		} else {
			v[idx]++
		}
	}

	var norm float64
	for _, x := range v {
		norm += x * x
	}
	if norm == 0 {
		return v
	}
	norm = math.Sqrt(norm)
	for i := range v {
		v[i] /= norm
	}
	return v
}

// Tokenize splits on anything that is not a letter or digit.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
