package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"

	ProviderHashing     = "hashing"
	ProviderHuggingFace = "huggingface"
	ProviderOpenAI      = "openai"
)

type Config struct {
	Server      ServerConfig
	App         AppConfig
	Corpus      CorpusConfig
	Redis       RedisConfig
	Retrieval   RetrievalConfig
	Embedding   EmbeddingConfig
	Generation  GenerationConfig
	HuggingFace HuggingFaceConfig
	OpenAI      OpenAIConfig

	// Warnings collects values that could not be parsed and fell back to
	// their defaults. The caller logs them once a logger exists.
	Warnings []string
}

type ServerConfig struct {
	Port string
}

type AppConfig struct {
	Environment string
	LogLevel    string
	Version     string
}

type CorpusConfig struct {
	Collection string
	Dir        string
	Backend    string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type RetrievalConfig struct {
	TopK        int
	MaxDistance float64
}

type EmbeddingConfig struct {
	Provider   string
	Model      string
	Dimensions int
}

type GenerationConfig struct {
	Provider  string
	Task      string
	Model     string
	MaxLength int
}

type HuggingFaceConfig struct {
	BaseURL  string
	APIToken string
	Timeout  time.Duration
}

type OpenAIConfig struct {
	APIKey  string
	BaseURL string
}

func Load() (*Config, error) {
	// .env is optional; plain environment variables win when it is absent
	_ = godotenv.Load()

	cfg := &Config{}
	cfg.Server = ServerConfig{
		Port: getEnv("PORT", "8080"),
	}
	cfg.App = AppConfig{
		Environment: getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Version:     getEnv("APP_VERSION", "1.0.0"),
	}
	cfg.Corpus = CorpusConfig{
		Collection: getEnv("CORPUS_COLLECTION", "docs"),
		Dir:        getEnv("CORPUS_DIR", ""),
		Backend:    strings.ToLower(getEnv("CORPUS_BACKEND", BackendMemory)),
	}
	cfg.Redis = RedisConfig{
		Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       cfg.getEnvAsInt("REDIS_DB", 0),
	}
	cfg.Retrieval = RetrievalConfig{
		TopK:        cfg.getEnvAsInt("RETRIEVAL_TOP_K", 3),
		MaxDistance: cfg.getEnvAsFloat("RETRIEVAL_MAX_DISTANCE", 1.5),
	}
	cfg.Embedding = EmbeddingConfig{
		Provider:   strings.ToLower(getEnv("EMBEDDING_PROVIDER", ProviderHuggingFace)),
		Model:      getEnv("EMBEDDING_MODEL", "sentence-transformers/all-MiniLM-L6-v2"),
		Dimensions: cfg.getEnvAsInt("EMBEDDING_DIMENSIONS", 384),
	}
	cfg.Generation = GenerationConfig{
		Provider:  strings.ToLower(getEnv("GENERATION_PROVIDER", ProviderHuggingFace)),
		Task:      getEnv("GENERATION_TASK", "text2text-generation"),
		Model:     getEnv("GENERATION_MODEL", "google/flan-t5-small"),
		MaxLength: cfg.getEnvAsInt("GENERATION_MAX_LENGTH", 150),
	}
	cfg.HuggingFace = HuggingFaceConfig{
		BaseURL:  getEnv("HF_BASE_URL", "https://api-inference.huggingface.co"),
		APIToken: getEnv("HF_API_TOKEN", ""),
		Timeout:  time.Duration(cfg.getEnvAsInt("HF_TIMEOUT_SECONDS", 60)) * time.Second,
	}
	cfg.OpenAI = OpenAIConfig{
		APIKey:  getEnv("OPENAI_API_KEY", ""),
		BaseURL: getEnv("OPENAI_BASE_URL", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.Corpus.Collection == "" {
		return fmt.Errorf("CORPUS_COLLECTION is required")
	}

	switch c.Corpus.Backend {
	case BackendMemory, BackendRedis:
	default:
		return fmt.Errorf("unknown CORPUS_BACKEND %q", c.Corpus.Backend)
	}

	if c.Retrieval.TopK < 1 {
		return fmt.Errorf("RETRIEVAL_TOP_K must be at least 1, got %d", c.Retrieval.TopK)
	}
	if c.Retrieval.MaxDistance <= 0 {
		return fmt.Errorf("RETRIEVAL_MAX_DISTANCE must be positive, got %v", c.Retrieval.MaxDistance)
	}

	switch c.Embedding.Provider {
	case ProviderHashing:
		if c.Embedding.Dimensions < 1 {
			return fmt.Errorf("EMBEDDING_DIMENSIONS must be at least 1, got %d", c.Embedding.Dimensions)
		}
	case ProviderHuggingFace, ProviderOpenAI:
	default:
		return fmt.Errorf("unknown EMBEDDING_PROVIDER %q", c.Embedding.Provider)
	}

	switch c.Generation.Provider {
	case ProviderHuggingFace, ProviderOpenAI:
	default:
		return fmt.Errorf("unknown GENERATION_PROVIDER %q", c.Generation.Provider)
	}
	if c.Generation.MaxLength < 1 {
		return fmt.Errorf("GENERATION_MAX_LENGTH must be at least 1, got %d", c.Generation.MaxLength)
	}

	if (c.Embedding.Provider == ProviderOpenAI || c.Generation.Provider == ProviderOpenAI) && c.OpenAI.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required for the openai provider")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func (c *Config) getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		c.Warnings = append(c.Warnings, fmt.Sprintf("invalid integer for %s, using default: %d", key, defaultValue))
		return defaultValue
	}

	return value
}

func (c *Config) getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		c.Warnings = append(c.Warnings, fmt.Sprintf("invalid number for %s, using default: %v", key, defaultValue))
		return defaultValue
	}

	return value
}
