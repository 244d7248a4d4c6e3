package viz

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aqua777/pdfrag/llmclient"
)

// extractedPayload is the untrusted shape an LLM call is expected to
// return for either form; fields not relevant to the requested form are
// left zero. Treated as untrusted input: parsed, then validated against
// the schema before anything downstream sees it (spec.md §9).
type extractedPayload struct {
	ChartType string              `json:"chart_type"`
	Labels    []string            `json:"labels"`
	Values    []float64           `json:"values"`
	Groups    map[string][]float64 `json:"groups"`
	Title     string              `json:"title"`
	XAxis     string              `json:"x_axis"`
	YAxis     string              `json:"y_axis"`
	Headers   []string            `json:"headers"`
	Rows      [][]string          `json:"rows"`
}

const chartExtractPrompt = `From the context below, extract data for a chart as strict JSON with this exact shape:
{"chart_type": "bar"|"line"|"pie"|"stacked_bar", "labels": [string,...], "values": [number,...], "groups": {"<name>": [number,...]} (only for stacked_bar), "title": string, "x_axis": string, "y_axis": string}
Every value must come from the provided context; never invent data. Reply with only the JSON object, no commentary, no markdown fences.`

const tableExtractPrompt = `From the context below, extract data for a table as strict JSON with this exact shape:
{"headers": [string,...], "rows": [[string,...],...]}
Every cell must come from the provided context; never invent data. Reply with only the JSON object, no commentary, no markdown fences.`

// extract calls the LLM at temperature 0 to emit the chart or table form
// (spec.md §4.9.2), doing one bounded retry with a stricter prompt if the
// first response fails to parse as JSON.
func extract(ctx context.Context, client llmclient.Client, model, contextText string, intent Intent) (*extractedPayload, error) {
	prompt := chartExtractPrompt
	if intent == IntentTable {
		prompt = tableExtractPrompt
	}

	messages := []llmclient.ChatMessage{
		{Role: "system", Content: prompt},
		{Role: "user", Content: "Context:\n" + contextText},
	}

	out, err := client.Chat(ctx, model, messages, 0, 1024)
	if err != nil {
		return nil, err
	}

	payload, parseErr := parsePayload(out)
	if parseErr == nil {
		return payload, nil
	}

	messages = append(messages, llmclient.ChatMessage{Role: "assistant", Content: out})
	messages = append(messages, llmclient.ChatMessage{
		Role:    "user",
		Content: "That was not valid JSON matching the required shape. Reply again with only the raw JSON object, no markdown fences, no commentary.",
	})
	out, err = client.Chat(ctx, model, messages, 0, 1024)
	if err != nil {
		return nil, err
	}
	return parsePayload(out)
}

func parsePayload(raw string) (*extractedPayload, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var payload extractedPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, fmt.Errorf("invalid extraction payload: %w", err)
	}
	return &payload, nil
}

func (p *extractedPayload) toChartSpec() *ChartSpec {
	return &ChartSpec{
		ChartType: ChartType(p.ChartType),
		Labels:    p.Labels,
		Values:    p.Values,
		Groups:    p.Groups,
		Title:     p.Title,
		XAxis:     p.XAxis,
		YAxis:     p.YAxis,
	}
}

func (p *extractedPayload) toTableSpec() *TableSpec {
	return &TableSpec{
		Headers: p.Headers,
		Rows:    p.Rows,
		Title:   p.Title,
	}
}

// isTableForm reports whether the payload looks like a table extraction
// rather than a chart extraction.
func (p *extractedPayload) isTableForm() bool {
	return len(p.Headers) > 0
}
