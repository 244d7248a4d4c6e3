package retriever

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/aqua777/pdfrag/chunk"
	"github.com/aqua777/pdfrag/engineerr"
	"github.com/aqua777/pdfrag/vectorindex"
)

type fakeEmbedder struct{}

func (fakeEmbedder) Dim() int      { return 2 }
func (fakeEmbedder) Model() string { return "fake" }
func (fakeEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return []float32{1, 0}, nil
}
func (fakeEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0}
	}
	return out, nil
}

type fakeIndex struct {
	lastFilter vectorindex.Filter
	results    []vectorindex.ScoredChunk
}

func (f *fakeIndex) Upsert(ctx context.Context, records []vectorindex.Record) error { return nil }
func (f *fakeIndex) Search(ctx context.Context, queryVector []float32, k int, filter vectorindex.Filter) ([]vectorindex.ScoredChunk, error) {
	f.lastFilter = filter
	return f.results, nil
}
func (f *fakeIndex) Delete(ctx context.Context, filter vectorindex.Filter) error { return nil }
func (f *fakeIndex) Clear(ctx context.Context) error                            { return nil }

type RetrieverTestSuite struct {
	suite.Suite
}

func TestRetrieverTestSuite(t *testing.T) {
	suite.Run(t, new(RetrieverTestSuite))
}

func (s *RetrieverTestSuite) TestNoActiveDocumentErrors() {
	r := New(&fakeIndex{}, fakeEmbedder{}, 5)
	_, err := r.Retrieve(context.Background(), "", "question")
	s.Require().Error(err)
	var kind = engineerr.KindNoActiveDocument
	k, ok := engineerr.As(err)
	s.True(ok)
	s.Equal(kind, k)
	s.True(errors.Is(err, engineerr.ErrNoActiveDocument))
}

func (s *RetrieverTestSuite) TestRetrieveScopesToDocument() {
	idx := &fakeIndex{results: []vectorindex.ScoredChunk{{Chunk: chunk.Chunk{ID: "c1", DocumentID: "doc-1"}, Score: 0.9}}}
	r := New(idx, fakeEmbedder{}, 5)

	got, err := r.Retrieve(context.Background(), "doc-1", "question")
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal("doc-1", idx.lastFilter.DocumentID)
	s.Equal("c1", got[0].Chunk.ID)
}
