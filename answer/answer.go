// Package answer builds a grounded textual answer over retrieved chunks
// (spec.md §4.8).
package answer

import (
	"context"
	"fmt"
	"strings"

	"github.com/aqua777/pdfrag/engineerr"
	"github.com/aqua777/pdfrag/llmclient"
	"github.com/aqua777/pdfrag/memory"
	"github.com/aqua777/pdfrag/vectorindex"
)

// NotAvailable is the exact fallback sentence the Answerer must emit when
// the retrieved context does not support an answer (spec.md P6).
const NotAvailable = "Not available in the uploaded document."

const systemPrompt = `You answer questions strictly from the provided context blocks, each labeled with its source page number.
- Answer only using the context; never use outside knowledge.
- If the answer is not present in the context, reply with exactly: "Not available in the uploaded document."
- Do not invent numbers; quote figures verbatim where precision matters.
- Preserve the units shown in the context.`

// Answerer produces grounded answers via a chat LLM at temperature 0.
type Answerer struct {
	client    llmclient.Client
	model     string
	maxTokens int
}

func New(client llmclient.Client, model string, maxTokens int) *Answerer {
	if maxTokens <= 0 {
		maxTokens = 512
	}
	return &Answerer{client: client, model: model, maxTokens: maxTokens}
}

// Answer builds the grounded prompt and calls the chat LLM. A single
// LLM failure is retried once; a second failure returns a typed
// AnswerUnavailable error (spec.md §4.8).
func (a *Answerer) Answer(ctx context.Context, question string, chunks []vectorindex.ScoredChunk, recent []memory.Message) (string, error) {
	messages := a.buildMessages(question, chunks, recent)

	out, err := a.client.Chat(ctx, a.model, messages, 0, a.maxTokens)
	if err != nil {
		out, err = a.client.Chat(ctx, a.model, messages, 0, a.maxTokens)
		if err != nil {
			return "", engineerr.Wrap(engineerr.KindAnswerUnavailable, "answer generation failed", err)
		}
	}
	return strings.TrimSpace(out), nil
}

func (a *Answerer) buildMessages(question string, chunks []vectorindex.ScoredChunk, recent []memory.Message) []llmclient.ChatMessage {
	messages := []llmclient.ChatMessage{{Role: "system", Content: systemPrompt}}

	var contextBlocks strings.Builder
	if len(chunks) == 0 {
		contextBlocks.WriteString("(no context retrieved)")
	}
	for i, c := range chunks {
		fmt.Fprintf(&contextBlocks, "[page %d] %s", c.Chunk.PageNumber, c.Chunk.Text)
		if i < len(chunks)-1 {
			contextBlocks.WriteString("\n\n")
		}
	}

	for _, m := range recent {
		messages = append(messages, llmclient.ChatMessage{Role: string(m.Role), Content: m.Content})
	}

	messages = append(messages, llmclient.ChatMessage{
		Role:    "user",
		Content: fmt.Sprintf("Context:\n%s\n\nQuestion: %s", contextBlocks.String(), question),
	})
	return messages
}
