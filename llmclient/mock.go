package llmclient

import (
	"context"
	"fmt"
)

// Mock is a deterministic Client for tests: Chat returns a canned response
// (or echoes the last user message when none is configured), and embeddings
// are hashed from text so identical inputs embed identically.
type Mock struct {
	ChatResponse string
	ChatErr      error
	Dimensions   int
}

func NewMock() *Mock {
	return &Mock{Dimensions: 8}
}

var _ Client = (*Mock)(nil)

func (m *Mock) Chat(ctx context.Context, model string, messages []ChatMessage, temperature float64, maxTokens int) (string, error) {
	if m.ChatErr != nil {
		return "", m.ChatErr
	}
	if m.ChatResponse != "" {
		return m.ChatResponse, nil
	}
	if len(messages) > 0 {
		return messages[len(messages)-1].Content, nil
	}
	return "", nil
}

func (m *Mock) EmbedQuery(ctx context.Context, model, text string) ([]float32, error) {
	return m.vector(text), nil
}

func (m *Mock) EmbedDocuments(ctx context.Context, model string, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = m.vector(t)
	}
	return out, nil
}

func (m *Mock) vector(text string) []float32 {
	dim := m.Dimensions
	if dim == 0 {
		dim = 8
	}
	v := make([]float32, dim)
	var h uint32 = 2166136261
	for i := 0; i < len(text); i++ {
		h ^= uint32(text[i])
		h *= 16777619
		v[i%dim] += float32(h%997) / 997.0
	}
	return v
}

func (m *Mock) String() string {
	return fmt.Sprintf("llmclient.Mock{dim=%d}", m.Dimensions)
}
