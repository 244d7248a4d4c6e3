package viz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/aqua777/pdfrag/llmclient"
)

type ClassifyTestSuite struct {
	suite.Suite
}

func TestClassifyTestSuite(t *testing.T) {
	suite.Run(t, new(ClassifyTestSuite))
}

func (s *ClassifyTestSuite) TestTier1Chart() {
	intent, err := Classify(context.Background(), nil, "", "Show me quarterly revenue as a bar chart.")
	s.Require().NoError(err)
	s.Equal(IntentChart, intent)
}

func (s *ClassifyTestSuite) TestTier1Table() {
	intent, err := Classify(context.Background(), nil, "", "List the figures in a table.")
	s.Require().NoError(err)
	s.Equal(IntentTable, intent)
}

func (s *ClassifyTestSuite) TestTier1AmbiguousFallsBackToTier2() {
	mock := &llmclient.Mock{ChatResponse: "chart"}
	intent, err := Classify(context.Background(), mock, "classify-model", "What do you make of this?")
	s.Require().NoError(err)
	s.Equal(IntentChart, intent)
}

func (s *ClassifyTestSuite) TestAmbiguousWithNoClientReturnsNone() {
	intent, err := Classify(context.Background(), nil, "", "What do you make of this?")
	s.Require().NoError(err)
	s.Equal(IntentNone, intent)
}
