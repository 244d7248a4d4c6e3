// Package viz implements the visualization pipeline (spec.md §4.9): chart
// intent classification, structured data extraction, financial
// normalization, schema validation, and the chart-requested hard contract.
package viz

// ChartType enumerates the supported chart shapes.
type ChartType string

const (
	ChartBar        ChartType = "bar"
	ChartLine       ChartType = "line"
	ChartPie        ChartType = "pie"
	ChartStackedBar ChartType = "stacked_bar"
)

// ChartSpec is a validated, ready-to-render chart (spec.md §3).
type ChartSpec struct {
	ChartType ChartType
	Labels    []string
	Values    []float64
	Groups    map[string][]float64
	Title     string
	XAxis     string
	YAxis     string
}

// TableSpec is a validated, ready-to-render table (spec.md §3). It may
// only be returned when the question was not classified chart-requested
// (I6).
type TableSpec struct {
	Headers []string
	Rows    [][]string
	Title   string
}

// Kind discriminates which variant Visualization carries, replacing the
// dynamic dict-typed payload with a tagged variant validated once at the
// pipeline boundary (spec.md §9).
type Kind string

const (
	KindChart Kind = "chart"
	KindTable Kind = "table"
)

// Visualization is exactly one of ChartSpec or TableSpec, or nil.
type Visualization struct {
	Kind  Kind
	Chart *ChartSpec
	Table *TableSpec
}

// Intent is the classified visualization intent of a question.
type Intent string

const (
	IntentNone  Intent = "none"
	IntentChart Intent = "chart"
	IntentTable Intent = "table"
)
