// Package config loads engine configuration from the environment, following
// the same provider-default pattern the rest of this module's LLM clients
// use (a small set of well-known keys, each with a sane default and an
// env-var override).
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"

	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
	DefaultOllamaURL     = "http://localhost:11434"
)

// Config holds every recognized engine option (spec.md §6).
type Config struct {
	Provider string

	OpenAIAPIKey  string
	OpenAIBaseURL string
	OllamaURL     string

	EmbeddingModel string
	ChatModel      string

	TopK int

	ChunkTargetTokens  int
	ChunkMinTokens     int
	ChunkMaxTokens     int
	ChunkOverlapTokens int

	MemoryMaxMessages int

	IndexPath      string
	CollectionName string
}

// Load reads a .env file if present (missing file is not an error, mirroring
// the teacher's dotenv example) and then populates a Config from the
// environment, applying defaults for anything unset.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	c := &Config{
		Provider:           getenv("PDFRAG_PROVIDER", ProviderOpenAI),
		OpenAIAPIKey:       os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:      getenv("OPENAI_BASE_URL", DefaultOpenAIBaseURL),
		OllamaURL:          getenv("OLLAMA_URL", DefaultOllamaURL),
		EmbeddingModel:     getenv("PDFRAG_EMBEDDING_MODEL", "text-embedding-3-small"),
		ChatModel:          getenv("PDFRAG_CHAT_MODEL", "gpt-4o-mini"),
		TopK:               getenvInt("PDFRAG_TOP_K", 5),
		ChunkTargetTokens:  getenvInt("PDFRAG_CHUNK_TARGET_TOKENS", 900),
		ChunkMinTokens:     getenvInt("PDFRAG_CHUNK_MIN_TOKENS", 700),
		ChunkMaxTokens:     getenvInt("PDFRAG_CHUNK_MAX_TOKENS", 1200),
		ChunkOverlapTokens: getenvInt("PDFRAG_CHUNK_OVERLAP_TOKENS", 120),
		MemoryMaxMessages:  getenvInt("PDFRAG_MEMORY_MAX_MESSAGES", 20),
		IndexPath:          getenv("PDFRAG_INDEX_PATH", "./.pdfrag-index"),
		CollectionName:     getenv("PDFRAG_COLLECTION", "documents"),
	}
	return c, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
