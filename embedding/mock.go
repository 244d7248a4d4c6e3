package embedding

import "context"

// Mock is a deterministic, dependency-free Embedder for tests: it hashes
// each text into a small fixed-dim vector so that equal inputs embed
// identically (spec.md P3) without calling any provider. Ports the
// teacher's mocks/llm.MockLLM shape to the Embedder-only surface this
// module needs.
type Mock struct {
	Dimensions int
	ModelName  string
}

func NewMock() *Mock {
	return &Mock{Dimensions: 8, ModelName: "mock-embedder"}
}

func (m *Mock) Dim() int      { return m.Dimensions }
func (m *Mock) Model() string { return m.ModelName }

func (m *Mock) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return m.vector(text), nil
}

func (m *Mock) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = m.vector(t)
	}
	return out, nil
}

func (m *Mock) vector(text string) []float32 {
	v := make([]float32, m.Dimensions)
	var h uint32 = 2166136261
	for i := 0; i < len(text); i++ {
		h ^= uint32(text[i])
		h *= 16777619
		v[i%m.Dimensions] += float32(h%997) / 997.0
	}
	return v
}
