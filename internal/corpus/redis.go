package corpus

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/GoSim-25-26J-441/nfl-knowledge-hub/internal/embedding"
	"github.com/redis/go-redis/v9"
)

const (
	collectionKeyPrefix = "corpus:collection:" // metadata hash: corpus:collection:{name}
	docsKeySuffix       = ":docs"              // id -> storedDocument JSON: corpus:collection:{name}:docs
)

// RedisClient keeps collections in a shared Redis instance. Embeddings are
// stored next to the text and distances are computed client-side.
type RedisClient struct {
	client   *redis.Client
	embedder embedding.Embedder
}

func NewRedisClient(client *redis.Client, embedder embedding.Embedder) *RedisClient {
	return &RedisClient{client: client, embedder: embedder}
}

type storedDocument struct {
	Text      string    `json:"text"`
	Embedding []float64 `json:"embedding"`
}

func (c *RedisClient) Exists(ctx context.Context, name string) (bool, error) {
	n, err := c.client.Exists(ctx, collectionKey(name)).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists: %w", err)
	}
	return n > 0, nil
}

func (c *RedisClient) CreateCollection(ctx context.Context, name string) (Collection, error) {
	key := collectionKey(name)

	ok, err := c.client.HSetNX(ctx, key, "name", name).Result()
	if err != nil {
		return nil, fmt.Errorf("redis create collection: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCollectionExists, name)
	}
	if err := c.client.HSet(ctx, key, "created_at", time.Now().UTC().Format(time.RFC3339)).Err(); err != nil {
		return nil, fmt.Errorf("redis create collection: %w", err)
	}

	return c.collection(name), nil
}

func (c *RedisClient) GetCollection(ctx context.Context, name string) (Collection, error) {
	ok, err := c.Exists(ctx, name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCollectionNotFound, name)
	}
	return c.collection(name), nil
}

// DeleteCollection drops the collection metadata and every stored document.
func (c *RedisClient) DeleteCollection(ctx context.Context, name string) error {
	key := collectionKey(name)
	n, err := c.client.Del(ctx, key, key+docsKeySuffix).Result()
	if err != nil {
		return fmt.Errorf("redis delete collection: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrCollectionNotFound, name)
	}
	return nil
}

func (c *RedisClient) collection(name string) *redisCollection {
	return &redisCollection{
		name:     name,
		docsKey:  collectionKey(name) + docsKeySuffix,
		client:   c.client,
		embedder: c.embedder,
	}
}

func collectionKey(name string) string {
	return collectionKeyPrefix + name
}

type redisCollection struct {
	name     string
	docsKey  string
	client   *redis.Client
	embedder embedding.Embedder
}

func (c *redisCollection) Name() string { return c.name }

func (c *redisCollection) Add(ctx context.Context, documents []string, ids []string) error {
	if len(documents) != len(ids) {
		return fmt.Errorf("%w: %d documents, %d ids", ErrDocumentCountMismatch, len(documents), len(ids))
	}
	if len(ids) == 0 {
		return nil
	}

	existing, err := c.client.HMGet(ctx, c.docsKey, ids...).Result()
	if err != nil {
		return fmt.Errorf("redis check ids: %w", err)
	}
	seen := make(map[string]struct{}, len(ids))
	for i, v := range existing {
		if _, dup := seen[ids[i]]; v != nil || dup {
			return fmt.Errorf("%w: %s", ErrDuplicateID, ids[i])
		}
		seen[ids[i]] = struct{}{}
	}

	vecs, err := c.embedder.Embed(ctx, documents)
	if err != nil {
		return fmt.Errorf("embed documents: %w", err)
	}

	fields := make(map[string]any, len(ids))
	for i, id := range ids {
		b, err := json.Marshal(storedDocument{Text: documents[i], Embedding: vecs[i]})
		if err != nil {
			return fmt.Errorf("marshal document %s: %w", id, err)
		}
		fields[id] = b
	}

	if err := c.client.HSet(ctx, c.docsKey, fields).Err(); err != nil {
		return fmt.Errorf("redis add documents: %w", err)
	}
	return nil
}

func (c *redisCollection) Count(ctx context.Context) (int, error) {
	n, err := c.client.HLen(ctx, c.docsKey).Result()
	if err != nil {
		return 0, fmt.Errorf("redis count: %w", err)
	}
	return int(n), nil
}

func (c *redisCollection) Get(ctx context.Context) (GetResult, error) {
	entries, err := c.load(ctx)
	if err != nil {
		return GetResult{}, err
	}

	res := GetResult{
		IDs:       make([]string, 0, len(entries)),
		Documents: make([]string, 0, len(entries)),
	}
	for _, e := range entries {
		res.IDs = append(res.IDs, e.id)
		res.Documents = append(res.Documents, e.text)
	}
	return res, nil
}

func (c *redisCollection) Query(ctx context.Context, texts []string, nResults int) (QueryResult, error) {
	entries, err := c.load(ctx)
	if err != nil {
		return QueryResult{}, err
	}

	vecs, err := c.embedder.Embed(ctx, texts)
	if err != nil {
		return QueryResult{}, fmt.Errorf("embed query: %w", err)
	}

	var res QueryResult
	for _, q := range vecs {
		qIDs, docs, dists, err := nearest(q, entries, nResults)
		if err != nil {
			return QueryResult{}, err
		}
		res.IDs = append(res.IDs, qIDs)
		res.Documents = append(res.Documents, docs)
		res.Distances = append(res.Distances, dists)
	}
	return res, nil
}

// load reads every stored document, ordered by id.
func (c *redisCollection) load(ctx context.Context) ([]entry, error) {
	raw, err := c.client.HGetAll(ctx, c.docsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("redis load documents: %w", err)
	}

	ids := make([]string, 0, len(raw))
	for id := range raw {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	entries := make([]entry, 0, len(ids))
	for _, id := range ids {
		var doc storedDocument
		if err := json.Unmarshal([]byte(raw[id]), &doc); err != nil {
			return nil, fmt.Errorf("decode document %s: %w", id, err)
		}
		entries = append(entries, entry{id: id, text: doc.Text, embedding: doc.Embedding})
	}
	return entries, nil
}
