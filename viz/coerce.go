package viz

import (
	"strconv"
	"strings"
)

// coerceRule is one table-to-chart predicate: it returns (spec, true) on
// success, (nil, false) when it does not apply.
type coerceRule func(t *TableSpec) (*ChartSpec, bool)

// coerceRules are tried in this fixed order; the first success wins
// (spec.md §4.9.5, §9).
var coerceRules = []coerceRule{
	coerceDebitCreditStackedBar,
	coerceAssetsLiabilitiesEquityPie,
	coerceSingleNumericColumnBar,
}

// CoerceTableToChart attempts to convert an extracted table into a chart
// using the rule-based fallback required when a chart was requested but
// extraction yielded a table form (spec.md §4.9.5).
func CoerceTableToChart(t *TableSpec) (*ChartSpec, bool) {
	for _, rule := range coerceRules {
		if spec, ok := rule(t); ok {
			return spec, true
		}
	}
	return nil, false
}

func columnIndex(headers []string, names ...string) int {
	for i, h := range headers {
		lower := strings.ToLower(strings.TrimSpace(h))
		for _, n := range names {
			if lower == n {
				return i
			}
		}
	}
	return -1
}

func parseNumericColumn(rows [][]string, col int) ([]float64, bool) {
	out := make([]float64, len(rows))
	for i, row := range rows {
		if col >= len(row) {
			return nil, false
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(row[col], ",", "")), 64)
		if err != nil {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

// coerceDebitCreditStackedBar: two numeric columns among {Debit, Credit}
// become a stacked_bar with groups {Debit, Credit}.
func coerceDebitCreditStackedBar(t *TableSpec) (*ChartSpec, bool) {
	debitCol := columnIndex(t.Headers, "debit")
	creditCol := columnIndex(t.Headers, "credit")
	if debitCol < 0 || creditCol < 0 {
		return nil, false
	}
	labelCol := labelColumn(t.Headers, debitCol, creditCol)
	if labelCol < 0 {
		return nil, false
	}

	debits, ok := parseNumericColumn(t.Rows, debitCol)
	if !ok {
		return nil, false
	}
	credits, ok := parseNumericColumn(t.Rows, creditCol)
	if !ok {
		return nil, false
	}

	labels := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		labels[i] = row[labelCol]
	}

	return &ChartSpec{
		ChartType: ChartStackedBar,
		Labels:    labels,
		Groups:    map[string][]float64{"Debit": debits, "Credit": credits},
		Title:     t.Title,
	}, true
}

// coerceSingleNumericColumnBar: exactly one numeric column becomes a bar
// chart, labels taken from the first non-numeric column.
func coerceSingleNumericColumnBar(t *TableSpec) (*ChartSpec, bool) {
	var numericCols []int
	for col := range t.Headers {
		if _, ok := parseNumericColumn(t.Rows, col); ok && len(t.Rows) > 0 {
			numericCols = append(numericCols, col)
		}
	}
	if len(numericCols) != 1 {
		return nil, false
	}
	valueCol := numericCols[0]
	labelCol := labelColumn(t.Headers, valueCol)
	if labelCol < 0 {
		return nil, false
	}

	values, ok := parseNumericColumn(t.Rows, valueCol)
	if !ok {
		return nil, false
	}
	labels := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		labels[i] = row[labelCol]
	}

	return &ChartSpec{
		ChartType: ChartBar,
		Labels:    labels,
		Values:    values,
		Title:     t.Title,
	}, true
}

// coerceAssetsLiabilitiesEquityPie: category columns matching
// {Assets, Liabilities, Equity} become a pie chart.
func coerceAssetsLiabilitiesEquityPie(t *TableSpec) (*ChartSpec, bool) {
	categoryCol := columnIndex(t.Headers, "category", "item", "line item")
	valueCol := columnIndex(t.Headers, "amount", "value", "total")
	if categoryCol < 0 || valueCol < 0 {
		return nil, false
	}

	wanted := map[string]bool{"assets": true, "liabilities": true, "equity": true}
	var labels []string
	var rows [][]string
	for _, row := range t.Rows {
		if categoryCol >= len(row) {
			continue
		}
		if wanted[strings.ToLower(strings.TrimSpace(row[categoryCol]))] {
			labels = append(labels, row[categoryCol])
			rows = append(rows, row)
		}
	}
	if len(labels) == 0 {
		return nil, false
	}

	values, ok := parseNumericColumn(rows, valueCol)
	if !ok {
		return nil, false
	}

	return &ChartSpec{
		ChartType: ChartPie,
		Labels:    labels,
		Values:    values,
		Title:     t.Title,
	}, true
}

// labelColumn picks the first header not among excluded column indices.
func labelColumn(headers []string, excluded ...int) int {
	isExcluded := func(i int) bool {
		for _, e := range excluded {
			if e == i {
				return true
			}
		}
		return false
	}
	for i := range headers {
		if !isExcluded(i) {
			return i
		}
	}
	return -1
}
