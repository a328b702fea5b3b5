package corpus

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

var (
	ErrCollectionNotFound    = errors.New("collection not found")
	ErrCollectionExists      = errors.New("collection already exists")
	ErrDocumentCountMismatch = errors.New("documents and ids differ in length")
	ErrDuplicateID           = errors.New("document id already present")
	ErrDimensionMismatch     = errors.New("embedding dimension mismatch")
)

// Client is the vector index service that owns named collections.
type Client interface {
	Exists(ctx context.Context, name string) (bool, error)
	CreateCollection(ctx context.Context, name string) (Collection, error)
	GetCollection(ctx context.Context, name string) (Collection, error)
	DeleteCollection(ctx context.Context, name string) error
}

// Collection stores documents with their embeddings and answers
// nearest-neighbour queries.
type Collection interface {
	Name() string
	Add(ctx context.Context, documents []string, ids []string) error
	Count(ctx context.Context) (int, error)
	// Get returns every stored document, ordered by id.
	Get(ctx context.Context) (GetResult, error)
	// Query returns one inner list per query text, each ordered by
	// ascending distance and at most nResults long.
	Query(ctx context.Context, texts []string, nResults int) (QueryResult, error)
}

type GetResult struct {
	IDs       []string
	Documents []string
}

type QueryResult struct {
	IDs       [][]string
	Documents [][]string
	Distances [][]float64
}

// GetOrCreateCollection reuses name when it exists and creates it otherwise.
// created reports which path was taken.
func GetOrCreateCollection(ctx context.Context, c Client, name string) (col Collection, created bool, err error) {
	ok, err := c.Exists(ctx, name)
	if err != nil {
		return nil, false, fmt.Errorf("check collection %q: %w", name, err)
	}
	if ok {
		col, err = c.GetCollection(ctx, name)
		return col, false, err
	}

	col, err = c.CreateCollection(ctx, name)
	if errors.Is(err, ErrCollectionExists) {
		// created concurrently by another process
		col, err = c.GetCollection(ctx, name)
		return col, false, err
	}
	return col, err == nil, err
}

type entry struct {
	id        string
	text      string
	embedding []float64
}

// nearest ranks entries by squared Euclidean distance to q. Ties keep the
// order of entries.
func nearest(q []float64, entries []entry, n int) (ids, docs []string, dists []float64, err error) {
	type scored struct {
		e    entry
		dist float64
	}

	all := make([]scored, 0, len(entries))
	for _, e := range entries {
		d, err := squaredL2(q, e.embedding)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("document %s: %w", e.id, err)
		}
		all = append(all, scored{e: e, dist: d})
	}

	sort.SliceStable(all, func(i, j int) bool { return all[i].dist < all[j].dist })

	if n > len(all) {
		n = len(all)
	}
	if n < 0 {
		n = 0
	}

	ids = make([]string, 0, n)
	docs = make([]string, 0, n)
	dists = make([]float64, 0, n)
	for _, s := range all[:n] {
		ids = append(ids, s.e.id)
		docs = append(docs, s.e.text)
		dists = append(dists, s.dist)
	}
	return ids, docs, dists, nil
}

func squaredL2(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, len(a), len(b))
	}
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum, nil
}
