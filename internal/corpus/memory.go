package corpus

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/GoSim-25-26J-441/nfl-knowledge-hub/internal/embedding"
)

// MemoryClient keeps collections in process memory for the life of the process.
type MemoryClient struct {
	embedder embedding.Embedder

	mu          sync.Mutex
	collections map[string]*memoryCollection
}

func NewMemoryClient(embedder embedding.Embedder) *MemoryClient {
	return &MemoryClient{
		embedder:    embedder,
		collections: make(map[string]*memoryCollection),
	}
}

func (c *MemoryClient) Exists(_ context.Context, name string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.collections[name]
	return ok, nil
}

func (c *MemoryClient) CreateCollection(_ context.Context, name string) (Collection, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.collections[name]; ok {
		return nil, fmt.Errorf("%w: %s", ErrCollectionExists, name)
	}
	col := &memoryCollection{name: name, embedder: c.embedder}
	c.collections[name] = col
	return col, nil
}

func (c *MemoryClient) GetCollection(_ context.Context, name string) (Collection, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	col, ok := c.collections[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCollectionNotFound, name)
	}
	return col, nil
}

func (c *MemoryClient) DeleteCollection(_ context.Context, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.collections[name]; !ok {
		return fmt.Errorf("%w: %s", ErrCollectionNotFound, name)
	}
	delete(c.collections, name)
	return nil
}

type memoryCollection struct {
	name     string
	embedder embedding.Embedder

	mu      sync.RWMutex
	entries []entry
}

func (c *memoryCollection) Name() string { return c.name }

func (c *memoryCollection) Add(ctx context.Context, documents []string, ids []string) error {
	if len(documents) != len(ids) {
		return fmt.Errorf("%w: %d documents, %d ids", ErrDocumentCountMismatch, len(documents), len(ids))
	}

	vecs, err := c.embedder.Embed(ctx, documents)
	if err != nil {
		return fmt.Errorf("embed documents: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	seen := make(map[string]struct{}, len(c.entries)+len(ids))
	for _, e := range c.entries {
		seen[e.id] = struct{}{}
	}
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateID, id)
		}
		seen[id] = struct{}{}
	}

	for i := range documents {
		c.entries = append(c.entries, entry{id: ids[i], text: documents[i], embedding: vecs[i]})
	}
	return nil
}

func (c *memoryCollection) Count(_ context.Context) (int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries), nil
}

func (c *memoryCollection) Get(_ context.Context) (GetResult, error) {
	c.mu.RLock()
	sorted := make([]entry, len(c.entries))
	copy(sorted, c.entries)
	c.mu.RUnlock()

	sort.Slice(sorted, func(i, j int) bool { return sorted[i].id < sorted[j].id })

	res := GetResult{
		IDs:       make([]string, 0, len(sorted)),
		Documents: make([]string, 0, len(sorted)),
	}
	for _, e := range sorted {
		res.IDs = append(res.IDs, e.id)
		res.Documents = append(res.Documents, e.text)
	}
	return res, nil
}

func (c *memoryCollection) Query(ctx context.Context, texts []string, nResults int) (QueryResult, error) {
	vecs, err := c.embedder.Embed(ctx, texts)
	if err != nil {
		return QueryResult{}, fmt.Errorf("embed query: %w", err)
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	var res QueryResult
	for _, q := range vecs {
		ids, docs, dists, err := nearest(q, c.entries, nResults)
		if err != nil {
			return QueryResult{}, err
		}
		res.IDs = append(res.IDs, ids)
		res.Documents = append(res.Documents, docs)
		res.Distances = append(res.Distances, dists)
	}
	return res, nil
}
