// Package vectorindex defines the persistent, metadata-filtered vector
// store port (spec.md §4.3) and its chromem-go backed implementation.
package vectorindex

import (
	"context"

	"github.com/aqua777/pdfrag/chunk"
)

// Record pairs a Chunk with its embedding for upsert.
type Record struct {
	Chunk     chunk.Chunk
	Embedding []float32
}

// ScoredChunk is a retrieval hit: the stored chunk plus its similarity
// score against the query vector.
type ScoredChunk struct {
	Chunk chunk.Chunk
	Score float32
}

// Filter restricts Search/Delete to chunks belonging to one document,
// enforcing spec.md I1/I4 document isolation.
type Filter struct {
	DocumentID string
}

// Index is the persistent vector store port.
type Index interface {
	// Upsert is idempotent by chunk id.
	Upsert(ctx context.Context, records []Record) error
	// Search returns the top-k chunks by similarity whose metadata
	// satisfies filter, sorted by descending score, ties broken by
	// ascending chunk index.
	Search(ctx context.Context, queryVector []float32, k int, filter Filter) ([]ScoredChunk, error)
	// Delete removes every chunk matching filter.
	Delete(ctx context.Context, filter Filter) error
	// Clear removes everything in the index.
	Clear(ctx context.Context) error
}
