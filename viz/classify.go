package viz

import (
	"context"
	"strings"

	"github.com/aqua777/pdfrag/llmclient"
)

var chartKeywords = []string{
	"chart", "charts", "graph", "graphs", "visualize", "visualization",
	"plot", "trend", "breakdown", "compare by", "proportion", "share",
}

var tableKeywords = []string{
	"table", "tabular", "list",
}

const tableShowPhrasePrefix = "show"
const tableShowPhraseSuffix = "in a table"

// classifyTier1 matches the question against closed keyword sets. It
// returns (IntentNone, false) when neither set matches (ambiguous), signalling
// the caller to fall through to Tier 2.
func classifyTier1(question string) (Intent, bool) {
	q := strings.ToLower(question)

	for _, kw := range chartKeywords {
		if strings.Contains(q, kw) {
			return IntentChart, true
		}
	}
	for _, kw := range tableKeywords {
		if strings.Contains(q, kw) {
			return IntentTable, true
		}
	}
	if strings.Contains(q, tableShowPhrasePrefix) && strings.Contains(q, tableShowPhraseSuffix) {
		return IntentTable, true
	}
	return IntentNone, false
}

const tier2SystemPrompt = `Classify the user's question as exactly one of: none, chart, table.
Reply with only that single word, lowercase, nothing else.
- "chart": the user wants a visual chart/graph/plot of data.
- "table": the user wants data presented as a table/list.
- "none": neither.`

// classifyTier2 invokes the LLM at temperature 0 for questions Tier 1
// could not confidently classify.
func classifyTier2(ctx context.Context, client llmclient.Client, model, question string) (Intent, error) {
	messages := []llmclient.ChatMessage{
		{Role: "system", Content: tier2SystemPrompt},
		{Role: "user", Content: question},
	}
	out, err := client.Chat(ctx, model, messages, 0, 8)
	if err != nil {
		return IntentNone, err
	}
	switch strings.TrimSpace(strings.ToLower(out)) {
	case "chart":
		return IntentChart, nil
	case "table":
		return IntentTable, nil
	default:
		return IntentNone, nil
	}
}

// Classify runs the two-tier detector described in spec.md §4.9.1: Tier 1
// decisions are trusted outright; Tier 2 only runs when Tier 1 is
// ambiguous.
func Classify(ctx context.Context, client llmclient.Client, model, question string) (Intent, error) {
	if intent, ok := classifyTier1(question); ok {
		return intent, nil
	}
	if client == nil {
		return IntentNone, nil
	}
	return classifyTier2(ctx, client, model, question)
}
