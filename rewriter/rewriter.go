// Package rewriter expands an under-specified question ("What about last
// year?") into a standalone retrieval query using recent conversation
// context (spec.md §4.6). It is a pure function over
// (question, recent messages); Memory itself is never embedded.
package rewriter

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aqua777/pdfrag/llmclient"
	"github.com/aqua777/pdfrag/memory"
)

// Rewriter turns the current question into a self-contained query.
type Rewriter interface {
	Rewrite(ctx context.Context, question string, recent []memory.Message) (string, error)
}

const systemPrompt = `You rewrite a user's follow-up question into a fully self-contained question, resolving pronouns and implicit references using the recent conversation. If the question is already self-contained, return it unchanged. Reply with only the rewritten question, no preamble or quotes.`

// LLMRewriter calls a chat LLM at temperature 0 to perform the expansion.
// When recent is empty it returns the original question without an LLM
// call (fast path, spec.md §4.6). An LLM failure falls back to the
// original question and is logged, never surfaced as an error.
type LLMRewriter struct {
	client llmclient.Client
	model  string
	logger *slog.Logger
}

func New(client llmclient.Client, model string, logger *slog.Logger) *LLMRewriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &LLMRewriter{client: client, model: model, logger: logger}
}

var _ Rewriter = (*LLMRewriter)(nil)

func (r *LLMRewriter) Rewrite(ctx context.Context, question string, recent []memory.Message) (string, error) {
	if len(recent) == 0 {
		return question, nil
	}

	messages := make([]llmclient.ChatMessage, 0, len(recent)+2)
	messages = append(messages, llmclient.ChatMessage{Role: "system", Content: systemPrompt})
	var history strings.Builder
	for _, m := range recent {
		fmt.Fprintf(&history, "%s: %s\n", m.Role, m.Content)
	}
	messages = append(messages, llmclient.ChatMessage{
		Role:    "user",
		Content: fmt.Sprintf("Recent conversation:\n%s\nCurrent question: %s", history.String(), question),
	})

	out, err := r.client.Chat(ctx, r.model, messages, 0, 256)
	if err != nil {
		r.logger.Warn("rewrite failed, falling back to original question", "error", err)
		return question, nil
	}

	rewritten := strings.TrimSpace(out)
	if rewritten == "" {
		return question, nil
	}
	return rewritten, nil
}
