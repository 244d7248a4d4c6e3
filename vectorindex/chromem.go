package vectorindex

import (
	"context"
	"errors"
	"runtime"
	"sort"
	"strconv"
	"sync"

	chromem "github.com/philippgille/chromem-go"

	"github.com/aqua777/pdfrag/chunk"
	"github.com/aqua777/pdfrag/engineerr"
)

// ChromemIndex is the default Index implementation: a persistent,
// embedded vector store (ports the teacher's vectordb/v0/go-chromem
// adapter), generalized so the engine supplies precomputed embeddings
// directly rather than delegating embedding to the store itself.
type ChromemIndex struct {
	mu             sync.Mutex
	db             *chromem.DB
	collectionName string
	col            *chromem.Collection
}

// NewChromemIndex opens (or creates) a persistent chromem-go database at
// path and ensures the named collection exists.
func NewChromemIndex(path, collectionName string) (*ChromemIndex, error) {
	db, err := chromem.NewPersistentDB(path, false)
	if err != nil {
		return nil, engineerr.Wrap(engineerr.KindIndexUnavailable, "failed to open vector index", err)
	}
	idx := &ChromemIndex{db: db, collectionName: collectionName}
	if err := idx.ensureCollection(); err != nil {
		return nil, err
	}
	return idx, nil
}

// noEmbeddingFunc guards against accidentally relying on chromem-go's own
// embedding step: every Document we add always carries a precomputed
// Embedding, so this should never be invoked.
func noEmbeddingFunc(ctx context.Context, text string) ([]float32, error) {
	return nil, errors.New("vectorindex: embeddings must be precomputed by the engine's Embedder")
}

func (i *ChromemIndex) ensureCollection() error {
	col, err := i.db.GetOrCreateCollection(i.collectionName, nil, noEmbeddingFunc)
	if err != nil {
		return engineerr.Wrap(engineerr.KindIndexUnavailable, "failed to open collection", err)
	}
	i.col = col
	return nil
}

var _ Index = (*ChromemIndex)(nil)

func (i *ChromemIndex) Upsert(ctx context.Context, records []Record) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	docs := make([]chromem.Document, len(records))
	for idx, r := range records {
		docs[idx] = chromem.Document{
			ID:      r.Chunk.ID,
			Content: r.Chunk.Text,
			Metadata: map[string]string{
				"document_id":  r.Chunk.DocumentID,
				"page_number":  strconv.Itoa(r.Chunk.PageNumber),
				"chunk_index":  strconv.Itoa(r.Chunk.ChunkIndex),
				"content_type": string(r.Chunk.ContentType),
			},
			Embedding: r.Embedding,
		}
	}

	concurrency := runtime.NumCPU()
	if concurrency < 1 {
		concurrency = 1
	}
	if err := i.col.AddDocuments(ctx, docs, concurrency); err != nil {
		return engineerr.Wrap(engineerr.KindIndexUnavailable, "upsert failed", err)
	}
	return nil
}

func (i *ChromemIndex) Search(ctx context.Context, queryVector []float32, k int, filter Filter) ([]ScoredChunk, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	count := i.col.Count()
	if count == 0 {
		return nil, nil
	}
	if k > count {
		k = count
	}
	if k <= 0 {
		return nil, nil
	}

	var where map[string]string
	if filter.DocumentID != "" {
		where = map[string]string{"document_id": filter.DocumentID}
	}

	results, err := i.col.QueryEmbedding(ctx, queryVector, k, where, nil)
	if err != nil {
		return nil, engineerr.Wrap(engineerr.KindIndexUnavailable, "search failed", err)
	}

	out := make([]ScoredChunk, 0, len(results))
	for _, r := range results {
		pageNumber, _ := strconv.Atoi(r.Metadata["page_number"])
		chunkIndex, _ := strconv.Atoi(r.Metadata["chunk_index"])
		out = append(out, ScoredChunk{
			Chunk: chunk.Chunk{
				ID:          r.ID,
				DocumentID:  r.Metadata["document_id"],
				PageNumber:  pageNumber,
				ChunkIndex:  chunkIndex,
				ContentType: chunk.ContentType(r.Metadata["content_type"]),
				Text:        r.Content,
			},
			Score: r.Similarity,
		})
	}

	sort.SliceStable(out, func(a, b int) bool {
		if out[a].Score != out[b].Score {
			return out[a].Score > out[b].Score
		}
		return out[a].Chunk.ChunkIndex < out[b].Chunk.ChunkIndex
	})
	return out, nil
}

func (i *ChromemIndex) Delete(ctx context.Context, filter Filter) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	var where map[string]string
	if filter.DocumentID != "" {
		where = map[string]string{"document_id": filter.DocumentID}
	}
	if err := i.col.Delete(ctx, where, nil); err != nil {
		return engineerr.Wrap(engineerr.KindIndexUnavailable, "delete failed", err)
	}
	return nil
}

func (i *ChromemIndex) Clear(ctx context.Context) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if err := i.db.DeleteCollection(i.collectionName); err != nil {
		return engineerr.Wrap(engineerr.KindIndexUnavailable, "clear failed", err)
	}
	col, err := i.db.GetOrCreateCollection(i.collectionName, nil, noEmbeddingFunc)
	if err != nil {
		return engineerr.Wrap(engineerr.KindIndexUnavailable, "failed to recreate collection after clear", err)
	}
	i.col = col
	return nil
}
