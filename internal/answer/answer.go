// Package answer turns a question into a grounded answer: retrieve the closest
// documents, refuse when none is close enough, otherwise prompt the model with
// the retrieved context only.
package answer

import (
	"context"
	"fmt"
	"strings"

	"github.com/GoSim-25-26J-441/nfl-knowledge-hub/internal/corpus"
	"github.com/GoSim-25-26J-441/nfl-knowledge-hub/internal/generation"
	"github.com/GoSim-25-26J-441/nfl-knowledge-hub/internal/logging"
	"go.uber.org/zap"
)

// FallbackAnswer is returned, without calling the model, when retrieval finds
// nothing within Options.MaxDistance.
const FallbackAnswer = "I don't have information about that topic in my documents."

// Retriever is the read side of the corpus store.
type Retriever interface {
	Query(ctx context.Context, question string, k int) ([]corpus.Match, error)
}

// Options configures retrieval and generation. MaxDistance is compared with
// the squared Euclidean distance of the closest match, inclusively.
type Options struct {
	TopK        int
	MaxDistance float64
	Task        string
	Model       string
	MaxLength   int
}

func DefaultOptions() Options {
	return Options{
		TopK:        3,
		MaxDistance: 1.5,
		Task:        generation.TaskText2Text,
		Model:       "google/flan-t5-small",
		MaxLength:   150,
	}
}

// Answerer answers questions from the corpus. It is safe for concurrent use
// when its retriever and pipeline are.
type Answerer struct {
	retriever Retriever
	pipeline  generation.Pipeline
	opts      Options
	logger    *zap.Logger
}

func New(retriever Retriever, pipeline generation.Pipeline, opts Options, logger *zap.Logger) *Answerer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Answerer{
		retriever: retriever,
		pipeline:  pipeline,
		opts:      opts,
		logger:    logger,
	}
}

// GetAnswer runs retrieval, the relevance gate and generation once. Retrieval
// and model failures are returned as-is; there is no retry.
func (a *Answerer) GetAnswer(ctx context.Context, question string) (string, error) {
	log := logging.FromContext(ctx, a.logger)

	matches, err := a.retriever.Query(ctx, question, a.opts.TopK)
	if err != nil {
		return "", fmt.Errorf("retrieve: %w", err)
	}

	if len(matches) == 0 {
		log.Info("no documents retrieved, returning fallback")
		return FallbackAnswer, nil
	}
	if best := minDistance(matches); best > a.opts.MaxDistance {
		log.Info("closest document above distance threshold, returning fallback",
			zap.Float64("min_distance", best),
			zap.Float64("max_distance", a.opts.MaxDistance),
		)
		return FallbackAnswer, nil
	}

	prompt := BuildPrompt(BuildContext(matches), question)

	cands, err := a.pipeline.Generate(ctx, generation.Request{
		Task:      a.opts.Task,
		Model:     a.opts.Model,
		Prompt:    prompt,
		MaxLength: a.opts.MaxLength,
	})
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}
	if len(cands) == 0 {
		return "", fmt.Errorf("generate: %w", generation.ErrNoCandidates)
	}

	log.Info("answer generated",
		zap.Int("documents", len(matches)),
		zap.String("model", a.opts.Model),
	)
	return strings.TrimSpace(cands[0].GeneratedText), nil
}

func minDistance(matches []corpus.Match) float64 {
	best := matches[0].Distance
	for _, m := range matches[1:] {
		if m.Distance < best {
			best = m.Distance
		}
	}
	return best
}

// BuildContext labels each document "Document N:" (1-based, retrieval order)
// and separates them with a blank line.
func BuildContext(matches []corpus.Match) string {
	parts := make([]string, len(matches))
	for i, m := range matches {
		parts[i] = fmt.Sprintf("Document %d: %s", i+1, m.Text)
	}
	return strings.Join(parts, "\n\n")
}

// BuildPrompt wraps a context block from BuildContext and the question in
// the fixed instruction template sent to the model.
func BuildPrompt(contextBlock, question string) string {
	return "Context information:\n" +
		contextBlock + "\n\n" +
		"Question: " + question + "\n\n" +
		"Instructions: Answer ONLY using the information provided above. " +
		"If the answer is not in the context, respond with \"I don't know.\" " +
		"Do not add information from outside the context.\n\n" +
		"Answer:"
}
