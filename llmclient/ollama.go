package llmclient

import (
	"context"
	"errors"
	"fmt"

	"github.com/aqua777/pdfrag/httpx"
)

// OllamaClient talks to a native Ollama server (/api/chat, /api/embed),
// ported from the teacher's llm/ollama client. Selected via
// config.Config.Provider == "ollama".
type OllamaClient struct {
	http *httpx.JSONClient
}

func NewOllamaClient(baseURL string) (*OllamaClient, error) {
	c, err := httpx.NewJSONClient(baseURL)
	if err != nil {
		return nil, err
	}
	return &OllamaClient{http: c}, nil
}

var _ Client = (*OllamaClient)(nil)

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Options  map[string]any  `json:"options,omitempty"`
}

type ollamaChatResponse struct {
	Message ollamaMessage `json:"message"`
	Done    bool          `json:"done"`
}

func (c *OllamaClient) Chat(ctx context.Context, model string, messages []ChatMessage, temperature float64, maxTokens int) (string, error) {
	req := ollamaChatRequest{
		Model:   model,
		Stream:  false,
		Options: map[string]any{"temperature": temperature, "num_predict": maxTokens},
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, ollamaMessage{Role: m.Role, Content: m.Content})
	}

	var resp ollamaChatResponse
	if err := c.http.Post(ctx, "/api/chat", req, &resp, nil); err != nil {
		return "", fmt.Errorf("ollama chat request failed: %w", err)
	}
	return stripThinking(resp.Message.Content), nil
}

type ollamaEmbedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type ollamaEmbedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

func (c *OllamaClient) EmbedDocuments(ctx context.Context, model string, texts []string) ([][]float32, error) {
	req := ollamaEmbedRequest{Model: model, Input: texts}
	var resp ollamaEmbedResponse
	if err := c.http.Post(ctx, "/api/embed", req, &resp, nil); err != nil {
		return nil, fmt.Errorf("ollama embeddings request failed: %w", err)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, errors.New("ollama embeddings response size mismatch")
	}
	return resp.Embeddings, nil
}

func (c *OllamaClient) EmbedQuery(ctx context.Context, model, text string) ([]float32, error) {
	vecs, err := c.EmbedDocuments(ctx, model, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}
