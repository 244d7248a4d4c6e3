// Package rag is the public façade over the whole engine (spec.md §4.10):
// ingest, ask, reset, status. It binds the document isolation invariants
// and owns the mutex-protected active-document state; every subcomponent
// is a constructed field, never a package-level singleton (spec.md §9).
package rag

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/aqua777/pdfrag/answer"
	"github.com/aqua777/pdfrag/chunk"
	"github.com/aqua777/pdfrag/embedding"
	"github.com/aqua777/pdfrag/engineerr"
	"github.com/aqua777/pdfrag/memory"
	"github.com/aqua777/pdfrag/pdf"
	"github.com/aqua777/pdfrag/retriever"
	"github.com/aqua777/pdfrag/rewriter"
	"github.com/aqua777/pdfrag/vectorindex"
	"github.com/aqua777/pdfrag/viz"
)

// IngestProgress reports incremental progress during Ingest, mirroring
// the teacher's IngestionCallbacks shape but as a single callback rather
// than four.
type IngestProgress struct {
	TotalPages   int
	CurrentPage  int
	TotalChunks  int
	CurrentChunk int
	Message      string
}

// IngestResult is the outcome of a successful Ingest (spec.md §6 POST_ingest).
type IngestResult struct {
	DocumentID string
	Pages      int
	Chunks     int
}

// Response is the outcome of a successful Ask (spec.md §6 POST_ask).
type Response struct {
	Answer         string
	Visualization  *viz.Visualization
	ConversationID string
	ChatHistory    []memory.Message
}

// Status reports the engine's current state (spec.md §4.10, §6 GET_status).
type Status struct {
	HasActiveDocument bool
	DocumentID        string
	Filename          string
	ChunkCount        int
	EmbedderModel     string
	ChatModel         string
	Temperature       float64
}

// Engine is the plain, constructed value holding every subcomponent. It
// replaces the source's module-level singleton (spec.md §9).
type Engine struct {
	chunker   *chunk.Chunker
	embedder  embedding.Embedder
	index     vectorindex.Index
	memory    *memory.Memory
	rewriter  rewriter.Rewriter
	retriever *retriever.Retriever
	answerer  *answer.Answerer
	viz       *viz.Pipeline

	chatModel string

	logger *slog.Logger

	stateMu          sync.Mutex
	activeDocumentID string
	filename         string
	chunkCount       int

	// ingestMu serializes Ingest/Reset (write lock) against Ask (read
	// lock): spec.md §5 requires that while an ingest is running, no
	// concurrent ask proceeds.
	ingestMu sync.RWMutex
}

// Params bundles the constructed subcomponents New wires into an Engine.
type Params struct {
	Chunker   *chunk.Chunker
	Embedder  embedding.Embedder
	Index     vectorindex.Index
	Memory    *memory.Memory
	Rewriter  rewriter.Rewriter
	Retriever *retriever.Retriever
	Answerer  *answer.Answerer
	Viz       *viz.Pipeline
	ChatModel string
	Logger    *slog.Logger
}

func New(p Params) *Engine {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		chunker:   p.Chunker,
		embedder:  p.Embedder,
		index:     p.Index,
		memory:    p.Memory,
		rewriter:  p.Rewriter,
		retriever: p.Retriever,
		answerer:  p.Answerer,
		viz:       p.Viz,
		chatModel: p.ChatModel,
		logger:    logger,
	}
}

// Ingest installs pages as the sole active document (spec.md §4.4). It
// serializes against concurrent Ingest/Ask (spec.md §5): while it runs, no
// concurrent Ask proceeds.
func (e *Engine) Ingest(ctx context.Context, pages []pdf.Page, filename string, onProgress func(IngestProgress)) (IngestResult, error) {
	if len(pages) == 0 {
		return IngestResult{}, engineerr.New(engineerr.KindInvalidInput, "document has no pages")
	}

	e.ingestMu.Lock()
	defer e.ingestMu.Unlock()

	documentID := uuid.New().String()

	// Step 2: reset. The engine chooses a full clear over selective
	// delete because I1 is simpler to enforce for single-active-document
	// semantics (spec.md §4.4).
	if err := e.index.Clear(ctx); err != nil {
		return IngestResult{}, err
	}
	e.memory.Clear()
	e.clearActiveDocument()

	chunks := e.chunker.Chunk(documentID, pages)
	if onProgress != nil {
		onProgress(IngestProgress{TotalPages: len(pages), CurrentPage: len(pages), TotalChunks: len(chunks), Message: "chunked document"})
	}

	records, err := e.embedChunks(ctx, chunks, onProgress)
	if err != nil {
		return IngestResult{}, err
	}

	if err := e.index.Upsert(ctx, records); err != nil {
		return IngestResult{}, err
	}

	// Step 6: publish active_document_id only after the upsert succeeds.
	e.setActiveDocument(documentID, filename, len(chunks))

	if onProgress != nil {
		onProgress(IngestProgress{TotalPages: len(pages), CurrentPage: len(pages), TotalChunks: len(chunks), CurrentChunk: len(chunks), Message: "ingest complete"})
	}

	return IngestResult{DocumentID: documentID, Pages: len(pages), Chunks: len(chunks)}, nil
}

func (e *Engine) embedChunks(ctx context.Context, chunks []chunk.Chunk, onProgress func(IngestProgress)) ([]vectorindex.Record, error) {
	if len(chunks) == 0 {
		return nil, nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	vectors, err := e.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(chunks) {
		return nil, engineerr.New(engineerr.KindInternal, fmt.Sprintf("embedder returned %d vectors for %d chunks", len(vectors), len(chunks)))
	}

	records := make([]vectorindex.Record, len(chunks))
	for i, c := range chunks {
		records[i] = vectorindex.Record{Chunk: c, Embedding: vectors[i]}
		if onProgress != nil {
			onProgress(IngestProgress{TotalChunks: len(chunks), CurrentChunk: i + 1, Message: "embedded chunk"})
		}
	}
	return records, nil
}

// Ask runs the full query pipeline (spec.md §4.10): memory read →
// rewrite → retrieve → answer ∥ visualize → assemble → memory append.
func (e *Engine) Ask(ctx context.Context, question, conversationID string) (Response, error) {
	e.ingestMu.RLock()
	defer e.ingestMu.RUnlock()

	documentID, _, _ := e.snapshotActiveDocument()
	if documentID == "" {
		return Response{}, engineerr.New(engineerr.KindNoActiveDocument, "no active document")
	}

	recent := e.memory.Recent(0)

	rewritten, err := e.rewriter.Rewrite(ctx, question, recent)
	if err != nil {
		// spec.md §4.6: rewriter failures are recovered locally, never
		// surfaced; New's LLMRewriter already does this, so this branch
		// only guards custom Rewriter implementations.
		e.logger.Warn("rewrite failed, using original question", "error", err)
		rewritten = question
	}

	chunks, err := e.retriever.Retrieve(ctx, documentID, rewritten)
	if err != nil {
		return Response{}, err
	}

	var answerText, vizOverrideAnswer string
	var visualization *viz.Visualization

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a, err := e.answerer.Answer(gctx, rewritten, chunks, recent)
		if err != nil {
			return err
		}
		answerText = a
		return nil
	})
	g.Go(func() error {
		if e.viz == nil {
			return nil
		}
		v, overrideAnswer, err := e.viz.Run(gctx, rewritten, chunks)
		if err != nil {
			// spec.md §7: VizPipeline failure when not chart-requested is
			// recovered locally by omitting the visualization.
			e.logger.Warn("visualization pipeline failed, omitting visualization", "error", err)
			return nil
		}
		visualization = v
		vizOverrideAnswer = overrideAnswer
		return nil
	})
	if err := g.Wait(); err != nil {
		return Response{}, err
	}
	if vizOverrideAnswer != "" {
		answerText = vizOverrideAnswer
	}

	now := time.Now()
	e.memory.Append(memory.RoleUser, question, now)
	e.memory.Append(memory.RoleAssistant, answerText, now)

	history := e.memory.Recent(0)

	return Response{
		Answer:         answerText,
		Visualization:  visualization,
		ConversationID: conversationID,
		ChatHistory:    history,
	}, nil
}

// Reset clears Memory, VectorIndex, and active_document_id (spec.md
// §4.10). Idempotent (spec.md P7).
func (e *Engine) Reset(ctx context.Context) error {
	e.ingestMu.Lock()
	defer e.ingestMu.Unlock()

	if err := e.index.Clear(ctx); err != nil {
		return err
	}
	e.memory.Clear()
	e.clearActiveDocument()
	return nil
}

// Status reports the engine's current state (spec.md §4.10).
func (e *Engine) Status() Status {
	documentID, filename, chunkCount := e.snapshotActiveDocument()
	return Status{
		HasActiveDocument: documentID != "",
		DocumentID:        documentID,
		Filename:          filename,
		ChunkCount:        chunkCount,
		EmbedderModel:     e.embedder.Model(),
		ChatModel:         e.chatModel,
		Temperature:       0,
	}
}

func (e *Engine) setActiveDocument(documentID, filename string, chunkCount int) {
	e.stateMu.Lock()
	defer e.stateMu.Unlock()
	e.activeDocumentID = documentID
	e.filename = filename
	e.chunkCount = chunkCount
}

func (e *Engine) clearActiveDocument() {
	e.stateMu.Lock()
	defer e.stateMu.Unlock()
	e.activeDocumentID = ""
	e.filename = ""
	e.chunkCount = 0
}

func (e *Engine) snapshotActiveDocument() (documentID, filename string, chunkCount int) {
	e.stateMu.Lock()
	defer e.stateMu.Unlock()
	return e.activeDocumentID, e.filename, e.chunkCount
}
