package viz

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/aqua777/pdfrag/engineerr"
	"github.com/aqua777/pdfrag/llmclient"
	"github.com/aqua777/pdfrag/vectorindex"
)

// NoDataAnswer is the exact sentence returned when a chart was requested
// but no structured data could be produced (spec.md §4.9.5, I6).
const NoDataAnswer = "No structured financial data available to generate a chart."

// Pipeline runs the visualization state machine in spec.md §4.9.
type Pipeline struct {
	client         llmclient.Client
	classifyModel  string
	extractModel   string
	logger         *slog.Logger
}

func New(client llmclient.Client, classifyModel, extractModel string, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{client: client, classifyModel: classifyModel, extractModel: extractModel, logger: logger}
}

// Run executes the full §4.9 state machine over the question and its
// retrieved context. It returns (nil, "", nil) when no visualization was
// requested. When classified chart-requested and the hard contract
// (§4.9.5/I6) cannot be satisfied, it returns (nil, NoDataAnswer, nil) —
// a successful, non-error outcome per spec.md §7's VisualizationUnavailable
// handling.
func (p *Pipeline) Run(ctx context.Context, question string, chunks []vectorindex.ScoredChunk) (*Visualization, string, error) {
	intent, err := Classify(ctx, p.client, p.classifyModel, question)
	if err != nil {
		p.logger.Warn("intent classification failed, treating as no visualization", "error", err)
		return nil, "", nil
	}
	if intent == IntentNone {
		return nil, "", nil
	}

	contextText := joinContext(chunks)
	statementKind := detectStatementKind(contextText)

	payload, err := extract(ctx, p.client, p.extractModel, contextText, intent)
	if err != nil {
		return p.failOrOmit(intent, fmt.Errorf("extraction failed: %w", err))
	}

	if intent == IntentChart {
		return p.runChartRequested(payload, statementKind)
	}
	return p.runTableRequested(payload)
}

func (p *Pipeline) runChartRequested(payload *extractedPayload, statementKind StatementKind) (*Visualization, string, error) {
	if payload.isTableForm() {
		table := payload.toTableSpec()
		chart, ok := CoerceTableToChart(table)
		if !ok {
			return nil, NoDataAnswer, nil
		}
		if err := ValidateChart(chart, statementKind == StatementCashFlow); err != nil {
			return nil, NoDataAnswer, nil
		}
		return &Visualization{Kind: KindChart, Chart: chart}, "", nil
	}

	chart := payload.toChartSpec()
	if domain := chartTypeForStatement(statementKind); domain != "" {
		chart.ChartType = domain
	}
	if err := ValidateChart(chart, statementKind == StatementCashFlow); err != nil {
		return nil, NoDataAnswer, nil
	}
	return &Visualization{Kind: KindChart, Chart: chart}, "", nil
}

func (p *Pipeline) runTableRequested(payload *extractedPayload) (*Visualization, string, error) {
	if !payload.isTableForm() {
		chart := payload.toChartSpec()
		table := chartToTable(chart)
		payload = &extractedPayload{Headers: table.Headers, Rows: table.Rows, Title: table.Title}
	}
	table := payload.toTableSpec()
	if err := ValidateTable(table); err != nil {
		return nil, "", engineerr.Wrap(engineerr.KindVisualizationUnavailable, "table extraction failed validation", err)
	}
	return &Visualization{Kind: KindTable, Table: table}, "", nil
}

// failOrOmit applies spec.md §7's propagation policy: a VizPipeline
// failure when chart-requested surfaces as the fixed "no data" answer
// (never an error, never a table); when table-requested it is recovered
// locally by omitting the visualization.
func (p *Pipeline) failOrOmit(intent Intent, err error) (*Visualization, string, error) {
	p.logger.Warn("visualization pipeline failed", "intent", intent, "error", err)
	if intent == IntentChart {
		return nil, NoDataAnswer, nil
	}
	return nil, "", nil
}

func joinContext(chunks []vectorindex.ScoredChunk) string {
	var sb strings.Builder
	for i, c := range chunks {
		sb.WriteString(c.Chunk.Text)
		if i < len(chunks)-1 {
			sb.WriteString("\n\n")
		}
	}
	return sb.String()
}

// chartToTable is the inverse serialization used when a table was
// requested but the LLM returned a chart-shaped payload instead.
func chartToTable(c *ChartSpec) *TableSpec {
	if len(c.Groups) > 0 {
		headers := append([]string{"label"}, groupNames(c.Groups)...)
		rows := make([][]string, len(c.Labels))
		for i, label := range c.Labels {
			row := make([]string, 0, len(headers))
			row = append(row, label)
			for _, name := range headers[1:] {
				if i < len(c.Groups[name]) {
					row = append(row, fmt.Sprintf("%v", c.Groups[name][i]))
				} else {
					row = append(row, "")
				}
			}
			rows[i] = row
		}
		return &TableSpec{Headers: headers, Rows: rows, Title: c.Title}
	}

	headers := []string{"label", "value"}
	rows := make([][]string, len(c.Labels))
	for i, label := range c.Labels {
		var v float64
		if i < len(c.Values) {
			v = c.Values[i]
		}
		rows[i] = []string{label, fmt.Sprintf("%v", v)}
	}
	return &TableSpec{Headers: headers, Rows: rows, Title: c.Title}
}

func groupNames(groups map[string][]float64) []string {
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	// Sorted so the synthesized table's header/row order is deterministic
	// across runs for identical input, not dependent on map iteration order.
	sort.Strings(names)
	return names
}
