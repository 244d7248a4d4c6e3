package llmclient

import (
	"context"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// embeddingBatchSize bounds how many texts are sent to the embeddings
// endpoint in a single request, so a large ingest never blows past the
// provider's per-request input limit (spec.md §4.2).
const embeddingBatchSize = 96

// OpenAIClient wraps sashabaranov/go-openai. Pointing BaseURL at a local
// OpenAI-compatible gateway (vLLM, LiteLLM, Ollama's /v1 shim, ...) is a
// supported way to use this client without talking to OpenAI itself.
type OpenAIClient struct {
	client *openai.Client
}

func NewOpenAIClient(apiKey, baseURL string) *OpenAIClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIClient{client: openai.NewClientWithConfig(cfg)}
}

var _ Client = (*OpenAIClient)(nil)

func (c *OpenAIClient) Chat(ctx context.Context, model string, messages []ChatMessage, temperature float64, maxTokens int) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       model,
		Temperature: float32(temperature),
		MaxTokens:   maxTokens,
		Messages:    toOpenAIMessages(messages),
	}

	var resp openai.ChatCompletionResponse
	err := withRetry(ctx, 2, 500*time.Millisecond, func() error {
		var callErr error
		resp, callErr = c.client.CreateChatCompletion(ctx, req)
		return callErr
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *OpenAIClient) EmbedQuery(ctx context.Context, model, text string) ([]float32, error) {
	vecs, err := c.EmbedDocuments(ctx, model, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (c *OpenAIClient) EmbedDocuments(ctx context.Context, model string, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += embeddingBatchSize {
		end := start + embeddingBatchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch := texts[start:end]

		var resp openai.EmbeddingResponse
		err := withRetry(ctx, 3, 500*time.Millisecond, func() error {
			var callErr error
			resp, callErr = c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
				Input: batch,
				Model: openai.EmbeddingModel(model),
			})
			return callErr
		})
		if err != nil {
			return nil, fmt.Errorf("embeddings request failed: %w", err)
		}
		if len(resp.Data) != len(batch) {
			return nil, fmt.Errorf("embeddings response size mismatch: got %d, want %d", len(resp.Data), len(batch))
		}
		for _, d := range resp.Data {
			out = append(out, d.Embedding)
		}
	}
	return out, nil
}

func toOpenAIMessages(messages []ChatMessage) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, len(messages))
	for i, m := range messages {
		out[i] = openai.ChatCompletionMessage{Role: m.Role, Content: m.Content}
	}
	return out
}
