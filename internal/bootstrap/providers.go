package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/GoSim-25-26J-441/nfl-knowledge-hub/config"
	"github.com/GoSim-25-26J-441/nfl-knowledge-hub/internal/answer"
	"github.com/GoSim-25-26J-441/nfl-knowledge-hub/internal/corpus"
	"github.com/GoSim-25-26J-441/nfl-knowledge-hub/internal/embedding"
	"github.com/GoSim-25-26J-441/nfl-knowledge-hub/internal/generation"
	"github.com/GoSim-25-26J-441/nfl-knowledge-hub/internal/hfinference"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/redis/go-redis/v9"
)

// LoadDocuments returns the compiled-in corpus, or the one under
// cfg.Corpus.Dir when set.
func LoadDocuments(cfg *config.Config) ([]corpus.Document, error) {
	if cfg.Corpus.Dir == "" {
		return corpus.Default()
	}
	return corpus.LoadDir(cfg.Corpus.Dir)
}

func NewEmbedder(cfg *config.Config) (embedding.Embedder, error) {
	switch cfg.Embedding.Provider {
	case config.ProviderHashing:
		return embedding.NewHashing(cfg.Embedding.Dimensions), nil
	case config.ProviderHuggingFace:
		return embedding.NewHuggingFace(newHFClient(cfg), cfg.Embedding.Model), nil
	case config.ProviderOpenAI:
		return embedding.NewOpenAI(newOpenAIClient(cfg), cfg.Embedding.Model), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Embedding.Provider)
	}
}

func NewPipeline(cfg *config.Config) (generation.Pipeline, error) {
	switch cfg.Generation.Provider {
	case config.ProviderHuggingFace:
		return generation.NewHuggingFace(newHFClient(cfg)), nil
	case config.ProviderOpenAI:
		return generation.NewOpenAI(newOpenAIClient(cfg)), nil
	default:
		return nil, fmt.Errorf("unknown generation provider %q", cfg.Generation.Provider)
	}
}

// NewCorpusClient returns the collection backend and a function releasing it.
func NewCorpusClient(ctx context.Context, cfg *config.Config, emb embedding.Embedder) (corpus.Client, func() error, error) {
	switch cfg.Corpus.Backend {
	case config.BackendMemory:
		return corpus.NewMemoryClient(emb), func() error { return nil }, nil
	case config.BackendRedis:
		rdb, err := OpenRedis(ctx, cfg.Redis, 2*time.Second)
		if err != nil {
			return nil, nil, err
		}
		return corpus.NewRedisClient(rdb, emb), rdb.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown corpus backend %q", cfg.Corpus.Backend)
	}
}

func OpenRedis(ctx context.Context, rc config.RedisConfig, pingTO time.Duration) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     rc.Addr,
		Password: rc.Password,
		DB:       rc.DB,
	})

	pctx, cancel := context.WithTimeout(ctx, pingTO)
	defer cancel()

	if err := rdb.Ping(pctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

func AnswerOptions(cfg *config.Config) answer.Options {
	return answer.Options{
		TopK:        cfg.Retrieval.TopK,
		MaxDistance: cfg.Retrieval.MaxDistance,
		Task:        cfg.Generation.Task,
		Model:       cfg.Generation.Model,
		MaxLength:   cfg.Generation.MaxLength,
	}
}

func newHFClient(cfg *config.Config) *hfinference.Client {
	return hfinference.New(cfg.HuggingFace.BaseURL, cfg.HuggingFace.APIToken, cfg.HuggingFace.Timeout)
}

func newOpenAIClient(cfg *config.Config) openai.Client {
	opts := []option.RequestOption{option.WithAPIKey(cfg.OpenAI.APIKey)}
	if cfg.OpenAI.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.OpenAI.BaseURL))
	}
	return openai.NewClient(opts...)
}
