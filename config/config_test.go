package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "docs", cfg.Corpus.Collection)
	assert.Equal(t, BackendMemory, cfg.Corpus.Backend)
	assert.Equal(t, 3, cfg.Retrieval.TopK)
	assert.InDelta(t, 1.5, cfg.Retrieval.MaxDistance, 1e-9)
	assert.Equal(t, ProviderHuggingFace, cfg.Embedding.Provider)
	assert.Equal(t, "sentence-transformers/all-MiniLM-L6-v2", cfg.Embedding.Model)
	assert.Equal(t, ProviderHuggingFace, cfg.Generation.Provider)
	assert.Equal(t, "text2text-generation", cfg.Generation.Task)
	assert.Equal(t, "google/flan-t5-small", cfg.Generation.Model)
	assert.Equal(t, 150, cfg.Generation.MaxLength)
	assert.Equal(t, 60*time.Second, cfg.HuggingFace.Timeout)
	assert.Empty(t, cfg.Warnings)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CORPUS_BACKEND", "Redis")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("RETRIEVAL_TOP_K", "5")
	t.Setenv("RETRIEVAL_MAX_DISTANCE", "0.75")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, BackendRedis, cfg.Corpus.Backend)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, 5, cfg.Retrieval.TopK)
	assert.InDelta(t, 0.75, cfg.Retrieval.MaxDistance, 1e-9)
}

func TestLoad_InvalidNumberFallsBackWithWarning(t *testing.T) {
	t.Setenv("RETRIEVAL_TOP_K", "three")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Retrieval.TopK)
	require.Len(t, cfg.Warnings, 1)
	assert.Contains(t, cfg.Warnings[0], "RETRIEVAL_TOP_K")
}

func TestValidate(t *testing.T) {
	t.Run("rejects unknown backend", func(t *testing.T) {
		t.Setenv("CORPUS_BACKEND", "chroma")
		_, err := Load()
		assert.ErrorContains(t, err, "CORPUS_BACKEND")
	})

	t.Run("rejects non-positive distance", func(t *testing.T) {
		t.Setenv("RETRIEVAL_MAX_DISTANCE", "0")
		_, err := Load()
		assert.ErrorContains(t, err, "RETRIEVAL_MAX_DISTANCE")
	})

	t.Run("rejects zero top k", func(t *testing.T) {
		t.Setenv("RETRIEVAL_TOP_K", "0")
		_, err := Load()
		assert.ErrorContains(t, err, "RETRIEVAL_TOP_K")
	})

	t.Run("openai requires a key", func(t *testing.T) {
		t.Setenv("GENERATION_PROVIDER", "openai")
		t.Setenv("OPENAI_API_KEY", "")
		_, err := Load()
		assert.ErrorContains(t, err, "OPENAI_API_KEY")
	})

	t.Run("openai with key is accepted", func(t *testing.T) {
		t.Setenv("GENERATION_PROVIDER", "openai")
		t.Setenv("EMBEDDING_PROVIDER", "openai")
		t.Setenv("OPENAI_API_KEY", "sk-test")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, ProviderOpenAI, cfg.Generation.Provider)
	})
}
