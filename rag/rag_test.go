package rag

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/aqua777/pdfrag/answer"
	"github.com/aqua777/pdfrag/chunk"
	"github.com/aqua777/pdfrag/llmclient"
	"github.com/aqua777/pdfrag/memory"
	"github.com/aqua777/pdfrag/pdf"
	"github.com/aqua777/pdfrag/retriever"
	"github.com/aqua777/pdfrag/rewriter"
	"github.com/aqua777/pdfrag/vectorindex"
	"github.com/aqua777/pdfrag/viz"
)

// wordTokenizer/periodSplitter: deterministic, dependency-free stand-ins
// for the real tiktoken/neurosnap implementations, grounded the same way
// the chunk package's own tests are.

type wordTokenizer struct{}

func (wordTokenizer) Count(text string) int { return len(strings.Fields(text)) }
func (wordTokenizer) Truncate(text string, maxTokens int) string {
	words := strings.Fields(text)
	if len(words) <= maxTokens {
		return text
	}
	return strings.Join(words[:maxTokens], " ")
}
func (wordTokenizer) TailTokens(text string, n int) string {
	words := strings.Fields(text)
	if len(words) <= n {
		return text
	}
	return strings.Join(words[len(words)-n:], " ")
}

type periodSplitter struct{}

func (periodSplitter) Sentences(text string) []string {
	parts := strings.Split(text, ". ")
	for i := range parts {
		if i != len(parts)-1 {
			parts[i] += "."
		}
	}
	return parts
}

// keywordEmbedder produces a basis vector over a fixed keyword set so
// cosine similarity tracks keyword overlap deterministically, without
// depending on a real embedding provider.
var embedderKeywords = []string{"q1", "q2", "q3", "q4", "revenue", "apple", "microsoft"}

type keywordEmbedder struct{}

func (keywordEmbedder) Dim() int      { return len(embedderKeywords) }
func (keywordEmbedder) Model() string { return "keyword-fake" }

func (keywordEmbedder) vector(text string) []float32 {
	lower := strings.ToLower(text)
	v := make([]float32, len(embedderKeywords))
	for i, kw := range embedderKeywords {
		if strings.Contains(lower, kw) {
			v[i] = 1
		}
	}
	return v
}

func (k keywordEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return k.vector(text), nil
}

func (k keywordEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = k.vector(t)
	}
	return out, nil
}

// memIndex is a minimal in-memory vectorindex.Index backed by cosine
// similarity, standing in for the persistent chromem-go implementation.
type memIndex struct {
	mu      sync.Mutex
	records []vectorindex.Record
}

func (m *memIndex) Upsert(ctx context.Context, records []vectorindex.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, records...)
	return nil
}

func (m *memIndex) Search(ctx context.Context, queryVector []float32, k int, filter vectorindex.Filter) ([]vectorindex.ScoredChunk, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var scored []vectorindex.ScoredChunk
	for _, r := range m.records {
		if filter.DocumentID != "" && r.Chunk.DocumentID != filter.DocumentID {
			continue
		}
		scored = append(scored, vectorindex.ScoredChunk{Chunk: r.Chunk, Score: cosine(queryVector, r.Embedding)})
	}
	if len(scored) > k {
		scored = scored[:k]
	}
	return scored, nil
}

func (m *memIndex) Delete(ctx context.Context, filter vectorindex.Filter) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var kept []vectorindex.Record
	for _, r := range m.records {
		if r.Chunk.DocumentID != filter.DocumentID {
			kept = append(kept, r)
		}
	}
	m.records = kept
	return nil
}

func (m *memIndex) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = nil
	return nil
}

func cosine(a, b []float32) float32 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(na) * math.Sqrt(nb)))
}

// fakeLLM simulates a grounded chat LLM well enough to exercise the
// rewriter, answerer, and viz-extraction prompts without a live provider.
type fakeLLM struct{}

var _ llmclient.Client = fakeLLM{}

func (fakeLLM) EmbedQuery(ctx context.Context, model, text string) ([]float32, error) { return nil, nil }
func (fakeLLM) EmbedDocuments(ctx context.Context, model string, texts []string) ([][]float32, error) {
	return nil, nil
}

var quarterRe = regexp.MustCompile(`Q[1-4]`)
var quarterColonNumberRe = regexp.MustCompile(`Q([1-4]):(\d+)`)

func (fakeLLM) Chat(ctx context.Context, model string, messages []llmclient.ChatMessage, temperature float64, maxTokens int) (string, error) {
	system := messages[0].Content
	last := messages[len(messages)-1].Content

	switch {
	case strings.Contains(system, "You rewrite a user's follow-up question"):
		idx := strings.LastIndex(last, "Current question: ")
		if idx < 0 {
			return last, nil
		}
		return strings.TrimSpace(last[idx+len("Current question: "):]), nil

	case strings.Contains(system, "You answer questions strictly"):
		parts := strings.SplitN(last, "\n\nQuestion: ", 2)
		contextText := strings.TrimPrefix(parts[0], "Context:\n")
		question := ""
		if len(parts) == 2 {
			question = parts[1]
		}

		if q := quarterRe.FindString(question); q != "" {
			m := regexp.MustCompile(q + ` revenue was (\d+)`).FindStringSubmatch(contextText)
			if m == nil {
				return answer.NotAvailable, nil
			}
			return q + " revenue was " + m[1] + ".", nil
		}
		if strings.TrimSpace(contextText) == "" || contextText == "(no context retrieved)" {
			return answer.NotAvailable, nil
		}
		return contextText, nil

	case strings.Contains(system, "extract data for a chart"):
		contextText := strings.TrimPrefix(last, "Context:\n")
		matches := quarterColonNumberRe.FindAllStringSubmatch(contextText, -1)
		var labels []string
		var values []float64
		for _, m := range matches {
			labels = append(labels, "Q"+m[1])
			v, _ := strconv.ParseFloat(m[2], 64)
			values = append(values, v)
		}
		payload := struct {
			ChartType string    `json:"chart_type"`
			Labels    []string  `json:"labels"`
			Values    []float64 `json:"values"`
		}{ChartType: "bar", Labels: labels, Values: values}
		b, _ := json.Marshal(payload)
		return string(b), nil

	case strings.Contains(system, "extract data for a table"):
		return `{"headers":[],"rows":[]}`, nil

	default:
		return "", nil
	}
}

func buildEngine() *Engine {
	c := chunk.New(wordTokenizer{}, periodSplitter{}, chunk.Config{TargetTokens: 200, MinTokens: 5, MaxTokens: 200, OverlapTokens: 5}, nil)
	idx := &memIndex{}
	mem := memory.New(20)
	client := fakeLLM{}

	return New(Params{
		Chunker:   c,
		Embedder:  keywordEmbedder{},
		Index:     idx,
		Memory:    mem,
		Rewriter:  rewriter.New(client, "chat-model", nil),
		Retriever: retriever.New(idx, keywordEmbedder{}, 5),
		Answerer:  answer.New(client, "chat-model", 0),
		Viz:       viz.New(client, "chat-model", "chat-model", nil),
		ChatModel: "chat-model",
		Logger:    slog.Default(),
	})
}

func pages(text string) []pdf.Page {
	return []pdf.Page{{Number: 1, Text: text}}
}

type EngineTestSuite struct {
	suite.Suite
}

func TestEngineTestSuite(t *testing.T) {
	suite.Run(t, new(EngineTestSuite))
}

func (s *EngineTestSuite) TestGroundedAnswerNoViz() {
	e := buildEngine()
	ctx := context.Background()

	_, err := e.Ingest(ctx, pages("Q1 revenue was 100. Q2 revenue was 115."), "report.pdf", nil)
	s.Require().NoError(err)

	resp, err := e.Ask(ctx, "What was Q1 revenue?", "conv-1")
	s.Require().NoError(err)
	s.Contains(resp.Answer, "100")
	s.Nil(resp.Visualization)
}

func (s *EngineTestSuite) TestMemoryAwareFollowUp() {
	e := buildEngine()
	ctx := context.Background()

	_, err := e.Ingest(ctx, pages("Q1 revenue was 100. Q2 revenue was 115."), "report.pdf", nil)
	s.Require().NoError(err)

	_, err = e.Ask(ctx, "What was Q1 revenue?", "conv-1")
	s.Require().NoError(err)

	resp, err := e.Ask(ctx, "And Q2?", "conv-1")
	s.Require().NoError(err)
	s.Contains(resp.Answer, "115")
}

func (s *EngineTestSuite) TestNotInDocumentFallback() {
	e := buildEngine()
	ctx := context.Background()

	_, err := e.Ingest(ctx, pages("Q1 revenue was 100. Q2 revenue was 115."), "report.pdf", nil)
	s.Require().NoError(err)

	resp, err := e.Ask(ctx, "What was Q3 revenue?", "conv-1")
	s.Require().NoError(err)
	s.Contains(resp.Answer, "Not available in the uploaded document.")
	s.Nil(resp.Visualization)
}

func (s *EngineTestSuite) TestChartRequestedWithData() {
	e := buildEngine()
	ctx := context.Background()

	_, err := e.Ingest(ctx, pages("Q1:100 Q2:115 Q3:132 Q4:148"), "report.pdf", nil)
	s.Require().NoError(err)

	resp, err := e.Ask(ctx, "Show me quarterly revenue as a bar chart.", "conv-1")
	s.Require().NoError(err)
	s.Require().NotNil(resp.Visualization)
	s.Equal(viz.KindChart, resp.Visualization.Kind)
	s.Equal(viz.ChartBar, resp.Visualization.Chart.ChartType)
	s.Equal([]string{"Q1", "Q2", "Q3", "Q4"}, resp.Visualization.Chart.Labels)
	s.Equal([]float64{100, 115, 132, 148}, resp.Visualization.Chart.Values)
}

func (s *EngineTestSuite) TestChartRequestedNoData() {
	e := buildEngine()
	ctx := context.Background()

	_, err := e.Ingest(ctx, pages("This document is a narrative description with no figures."), "report.pdf", nil)
	s.Require().NoError(err)

	resp, err := e.Ask(ctx, "Give me the charts.", "conv-1")
	s.Require().NoError(err)
	s.Nil(resp.Visualization)
	s.Equal(viz.NoDataAnswer, resp.Answer)
}

func (s *EngineTestSuite) TestDocumentIsolation() {
	e := buildEngine()
	ctx := context.Background()

	_, err := e.Ingest(ctx, pages("Apple revenue 100"), "a.pdf", nil)
	s.Require().NoError(err)

	resp, err := e.Ask(ctx, "What is the revenue?", "conv-1")
	s.Require().NoError(err)
	s.Contains(resp.Answer, "100")

	_, err = e.Ingest(ctx, pages("Microsoft revenue 200"), "b.pdf", nil)
	s.Require().NoError(err)
	s.Equal(0, e.memory.Len())

	resp, err = e.Ask(ctx, "What is the revenue?", "conv-2")
	s.Require().NoError(err)
	s.Contains(resp.Answer, "200")
	s.NotContains(resp.Answer, "100")
}

func (s *EngineTestSuite) TestAskBeforeIngestFails() {
	e := buildEngine()
	_, err := e.Ask(context.Background(), "anything", "conv-1")
	s.Error(err)
}

func (s *EngineTestSuite) TestResetIsIdempotent() {
	e := buildEngine()
	ctx := context.Background()
	_, err := e.Ingest(ctx, pages("Q1 revenue was 100."), "a.pdf", nil)
	s.Require().NoError(err)

	s.Require().NoError(e.Reset(ctx))
	s.Require().NoError(e.Reset(ctx))

	status := e.Status()
	s.False(status.HasActiveDocument)
}
