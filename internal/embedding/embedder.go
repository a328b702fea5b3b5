// Package embedding turns text into vectors for the corpus collection.
package embedding

import "context"

// Embedder returns one vector per input text, in input order.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}
