// Package embedding defines the Embedder port (spec.md §4.2) that the
// ingestion and retrieval paths depend on.
package embedding

import "context"

// Embedder produces fixed-dimensional vectors for document batches and
// single queries. Implementations own provider-specific batching and
// retry; callers see a single logical call per batch.
type Embedder interface {
	// EmbedDocuments returns one vector per input text, preserving order
	// and length.
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
	// EmbedQuery embeds a single query string.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
	// Dim is the fixed dimensionality of vectors this Embedder produces.
	Dim() int
	// Model names the embedding model/configuration in use (spec.md I2).
	Model() string
}
