// Command pdfrag is a minimal end-to-end wiring example, grounded on the
// teacher's examples/rag/v2/chromem main: load config, build the provider
// client, wire every subcomponent into an Engine, ingest a document, and
// ask a question against it.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aqua777/pdfrag/answer"
	"github.com/aqua777/pdfrag/chunk"
	"github.com/aqua777/pdfrag/config"
	"github.com/aqua777/pdfrag/embedding"
	"github.com/aqua777/pdfrag/llmclient"
	"github.com/aqua777/pdfrag/memory"
	"github.com/aqua777/pdfrag/pdf"
	"github.com/aqua777/pdfrag/rag"
	"github.com/aqua777/pdfrag/retriever"
	"github.com/aqua777/pdfrag/rewriter"
	"github.com/aqua777/pdfrag/vectorindex"
	"github.com/aqua777/pdfrag/viz"
)

func main() {
	if err := run(); err != nil {
		slog.Error("pdfrag example failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()
	logger := slog.Default()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	var client llmclient.Client
	switch cfg.Provider {
	case config.ProviderOllama:
		client, err = llmclient.NewOllamaClient(cfg.OllamaURL)
		if err != nil {
			return fmt.Errorf("build ollama client: %w", err)
		}
	default:
		client = llmclient.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL)
	}

	embedder, err := embedding.NewClientEmbedder(ctx, client, cfg.EmbeddingModel)
	if err != nil {
		return fmt.Errorf("build embedder: %w", err)
	}

	index, err := vectorindex.NewChromemIndex(cfg.IndexPath, cfg.CollectionName)
	if err != nil {
		return fmt.Errorf("build vector index: %w", err)
	}

	tokenizer, err := chunk.NewTikTokenTokenizer(cfg.ChatModel)
	if err != nil {
		return fmt.Errorf("build tokenizer: %w", err)
	}
	sentences, err := chunk.NewNeurosnapSplitter()
	if err != nil {
		return fmt.Errorf("build sentence splitter: %w", err)
	}
	chunker := chunk.New(tokenizer, sentences, chunk.Config{
		TargetTokens:  cfg.ChunkTargetTokens,
		MinTokens:     cfg.ChunkMinTokens,
		MaxTokens:     cfg.ChunkMaxTokens,
		OverlapTokens: cfg.ChunkOverlapTokens,
	}, logger)

	engine := rag.New(rag.Params{
		Chunker:   chunker,
		Embedder:  embedder,
		Index:     index,
		Memory:    memory.New(cfg.MemoryMaxMessages),
		Rewriter:  rewriter.New(client, cfg.ChatModel, logger),
		Retriever: retriever.New(index, embedder, cfg.TopK),
		Answerer:  answer.New(client, cfg.ChatModel, 512),
		Viz:       viz.New(client, cfg.ChatModel, cfg.ChatModel, logger),
		ChatModel: cfg.ChatModel,
		Logger:    logger,
	})

	extractor := pdf.StaticExtractor{Pages: []pdf.Page{
		{Number: 1, Text: "Q1 revenue was 100 million. Q2 revenue was 115 million."},
		{Number: 2, Text: "Q3 revenue was 132 million. Q4 revenue was 148 million."},
	}}
	pages, err := extractor.Extract(ctx, nil)
	if err != nil {
		return fmt.Errorf("extract pages: %w", err)
	}

	result, err := engine.Ingest(ctx, pages, "quarterly-report.pdf", func(p rag.IngestProgress) {
		logger.Info("ingest progress", "message", p.Message, "chunk", p.CurrentChunk, "total", p.TotalChunks)
	})
	if err != nil {
		return fmt.Errorf("ingest: %w", err)
	}
	logger.Info("ingest complete", "document_id", result.DocumentID, "chunks", result.Chunks)

	resp, err := engine.Ask(ctx, "What was Q2 revenue?", "example-conversation")
	if err != nil {
		return fmt.Errorf("ask: %w", err)
	}
	fmt.Println(resp.Answer)
	return nil
}
