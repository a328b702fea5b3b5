package corpus

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrNotInitialized is returned by Query before Initialize has succeeded.
var ErrNotInitialized = errors.New("corpus store not initialized")

// selfMatchTolerance bounds the distance between a stored document and the
// same text embedded again by the current embedder.
const selfMatchTolerance = 1e-6

// Match is one retrieved document and its distance to the question.
type Match struct {
	ID       string
	Text     string
	Distance float64
}

// Store owns the process-wide collection of fixed documents. Build one at
// startup, call Initialize once, then share it read-only.
type Store struct {
	client Client
	name   string
	docs   []Document
	logger *zap.Logger

	collection Collection
}

func NewStore(client Client, name string, docs []Document, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{client: client, name: name, docs: docs, logger: logger}
}

// Initialize obtains the named collection, creating it and loading the
// documents when it does not exist yet. An existing collection whose
// documents or embeddings no longer match the current corpus and embedder is
// dropped and rebuilt. Calling it again is a no-op.
func (s *Store) Initialize(ctx context.Context) error {
	col, created, err := GetOrCreateCollection(ctx, s.client, s.name)
	if err != nil {
		return fmt.Errorf("collection %q: %w", s.name, err)
	}

	rebuilt := false
	if !created {
		reason, err := s.staleReason(ctx, col)
		if err != nil {
			return fmt.Errorf("collection %q: %w", s.name, err)
		}
		if reason != "" {
			s.logger.Warn("rebuilding stale corpus collection",
				zap.String("collection", s.name),
				zap.String("reason", reason),
			)
			if col, err = s.recreate(ctx); err != nil {
				return fmt.Errorf("rebuild %q: %w", s.name, err)
			}
			rebuilt = true
		}
	}

	populate := created || rebuilt
	if populate {
		texts, ids := s.columns()
		if err := col.Add(ctx, texts, ids); err != nil {
			return fmt.Errorf("populate %q: %w", s.name, err)
		}
	}

	s.collection = col
	s.logger.Info("corpus collection ready",
		zap.String("collection", s.name),
		zap.Bool("created", created),
		zap.Bool("rebuilt", rebuilt),
		zap.Bool("populated", populate),
		zap.Int("documents", len(s.docs)),
	)
	return nil
}

// staleReason reports why col cannot be reused as is, or "" when it can.
// Each stored document must carry the current text under its id, and
// embedding that text again must land on the stored vector.
func (s *Store) staleReason(ctx context.Context, col Collection) (string, error) {
	stored, err := col.Get(ctx)
	if err != nil {
		return "", err
	}

	want := make(map[string]string, len(s.docs))
	for _, d := range s.docs {
		want[d.ID] = d.Text
	}
	if len(stored.IDs) != len(want) || len(stored.Documents) != len(stored.IDs) {
		return "document set changed", nil
	}
	for i, id := range stored.IDs {
		if text, ok := want[id]; !ok || stored.Documents[i] != text {
			return "document set changed", nil
		}
	}
	if len(s.docs) == 0 {
		return "", nil
	}

	texts, _ := s.columns()
	res, err := col.Query(ctx, texts, 1)
	if errors.Is(err, ErrDimensionMismatch) {
		return "embedding dimensions changed", nil
	}
	if err != nil {
		return "", err
	}
	for i := range texts {
		if i >= len(res.Distances) || len(res.Distances[i]) == 0 || res.Distances[i][0] > selfMatchTolerance {
			return "stored embeddings do not match the current embedder", nil
		}
	}
	return "", nil
}

func (s *Store) recreate(ctx context.Context) (Collection, error) {
	if err := s.client.DeleteCollection(ctx, s.name); err != nil && !errors.Is(err, ErrCollectionNotFound) {
		return nil, err
	}
	return s.client.CreateCollection(ctx, s.name)
}

func (s *Store) columns() (texts, ids []string) {
	texts = make([]string, len(s.docs))
	ids = make([]string, len(s.docs))
	for i, d := range s.docs {
		texts[i] = d.Text
		ids[i] = d.ID
	}
	return texts, ids
}

// Query returns up to k documents closest to question, nearest first.
func (s *Store) Query(ctx context.Context, question string, k int) ([]Match, error) {
	if s.collection == nil {
		return nil, ErrNotInitialized
	}

	res, err := s.collection.Query(ctx, []string{question}, k)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", s.name, err)
	}
	if len(res.Documents) == 0 {
		return nil, nil
	}

	docs := res.Documents[0]
	matches := make([]Match, 0, len(docs))
	for i, text := range docs {
		m := Match{Text: text}
		if len(res.Distances) > 0 && i < len(res.Distances[0]) {
			m.Distance = res.Distances[0][i]
		}
		if len(res.IDs) > 0 && i < len(res.IDs[0]) {
			m.ID = res.IDs[0][i]
		}
		matches = append(matches, m)
	}
	return matches, nil
}
