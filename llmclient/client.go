// Package llmclient adapts the chat-LLM and embedding providers behind one
// narrow interface, following the teacher's llm/iface.LLM shape but pared
// down to what the RAG engine actually calls (chat + embeddings, no
// standalone generate/list-models surface). Two implementations are
// provided, selected by config.Config.Provider: an OpenAI (or any
// OpenAI-compatible endpoint) client built on sashabaranov/go-openai, and a
// native Ollama client built on httpx.
package llmclient

import "context"

// ChatMessage is a single turn in a chat-completion request.
type ChatMessage struct {
	Role    string
	Content string
}

// Client is the chat + embedding surface every downstream component
// (rewriter, answerer, viz pipeline, embedder) depends on.
type Client interface {
	Chat(ctx context.Context, model string, messages []ChatMessage, temperature float64, maxTokens int) (string, error)
	EmbedDocuments(ctx context.Context, model string, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, model string, text string) ([]float32, error)
}
