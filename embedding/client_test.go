package embedding

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/aqua777/pdfrag/llmclient"
)

type ClientEmbedderTestSuite struct {
	suite.Suite
}

func TestClientEmbedderTestSuite(t *testing.T) {
	suite.Run(t, new(ClientEmbedderTestSuite))
}

func (s *ClientEmbedderTestSuite) TestEmbedQueryIsDeterministic() {
	mock := llmclient.NewMock()
	e, err := NewClientEmbedder(context.Background(), mock, "mock-embed")
	s.Require().NoError(err)

	v1, err := e.EmbedQuery(context.Background(), "hello world")
	s.Require().NoError(err)
	v2, err := e.EmbedQuery(context.Background(), "hello world")
	s.Require().NoError(err)
	s.Equal(v1, v2)
	s.Equal(e.Dim(), len(v1))
}

func (s *ClientEmbedderTestSuite) TestEmbedDocumentsPreservesOrderAndLength() {
	mock := llmclient.NewMock()
	e, err := NewClientEmbedder(context.Background(), mock, "mock-embed")
	s.Require().NoError(err)

	texts := []string{"a", "b", "c"}
	vecs, err := e.EmbedDocuments(context.Background(), texts)
	s.Require().NoError(err)
	s.Len(vecs, len(texts))
}
