// Package retriever turns a query into top-K scored chunks for the active
// document (spec.md §4.7).
package retriever

import (
	"context"

	"github.com/aqua777/pdfrag/embedding"
	"github.com/aqua777/pdfrag/engineerr"
	"github.com/aqua777/pdfrag/vectorindex"
)

// Retriever embeds a query and searches the vector index scoped to one
// document.
type Retriever struct {
	index    vectorindex.Index
	embedder embedding.Embedder
	topK     int
}

func New(index vectorindex.Index, embedder embedding.Embedder, topK int) *Retriever {
	if topK <= 0 {
		topK = 5
	}
	return &Retriever{index: index, embedder: embedder, topK: topK}
}

// Retrieve embeds query and returns the top-K chunks belonging to
// documentID. An empty documentID means no document has been ingested yet
// and yields NoActiveDocument (spec.md §4.7 step 1).
func (r *Retriever) Retrieve(ctx context.Context, documentID, query string) ([]vectorindex.ScoredChunk, error) {
	if documentID == "" {
		return nil, engineerr.New(engineerr.KindNoActiveDocument, "no active document")
	}

	vec, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, err
	}

	results, err := r.index.Search(ctx, vec, r.topK, vectorindex.Filter{DocumentID: documentID})
	if err != nil {
		return nil, err
	}
	return results, nil
}
