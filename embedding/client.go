package embedding

import (
	"context"
	"fmt"

	"github.com/aqua777/pdfrag/engineerr"
	"github.com/aqua777/pdfrag/llmclient"
)

// ClientEmbedder adapts an llmclient.Client (OpenAI or Ollama) to the
// Embedder port, fixing the model name and dimension for the lifetime of
// the engine (spec.md I2: changing the embedder requires a full re-ingest).
type ClientEmbedder struct {
	client llmclient.Client
	model  string
	dim    int
}

// NewClientEmbedder wraps client, probing its dimensionality with a short
// calibration embedding so Dim() is cheap to call afterwards.
func NewClientEmbedder(ctx context.Context, client llmclient.Client, model string) (*ClientEmbedder, error) {
	probe, err := client.EmbedQuery(ctx, model, "dimension probe")
	if err != nil {
		return nil, engineerr.Wrap(engineerr.KindEmbeddingUnavailable, "failed to determine embedding dimension", err)
	}
	return &ClientEmbedder{client: client, model: model, dim: len(probe)}, nil
}

var _ Embedder = (*ClientEmbedder)(nil)

func (e *ClientEmbedder) Dim() int      { return e.dim }
func (e *ClientEmbedder) Model() string { return e.model }

func (e *ClientEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vec, err := e.client.EmbedQuery(ctx, e.model, text)
	if err != nil {
		return nil, engineerr.Wrap(engineerr.KindEmbeddingUnavailable, "embed query failed", err)
	}
	return vec, nil
}

func (e *ClientEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	vecs, err := e.client.EmbedDocuments(ctx, e.model, texts)
	if err != nil {
		return nil, engineerr.Wrap(engineerr.KindEmbeddingUnavailable, fmt.Sprintf("embed %d documents failed", len(texts)), err)
	}
	return vecs, nil
}
