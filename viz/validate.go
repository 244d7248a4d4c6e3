package viz

import (
	"fmt"
	"math"
)

// ValidateChart enforces spec.md §4.9.4's chart validation rules.
// cashFlowExempt relaxes the "at least one nonzero value" rule, since
// zero/negative values are meaningful for cash-flow statements.
func ValidateChart(c *ChartSpec, cashFlowExempt bool) error {
	switch c.ChartType {
	case ChartBar, ChartLine, ChartPie, ChartStackedBar:
	default:
		return fmt.Errorf("invalid chart_type %q", c.ChartType)
	}

	if len(c.Labels) == 0 {
		return fmt.Errorf("labels must not be empty")
	}

	if c.ChartType == ChartStackedBar {
		if len(c.Groups) == 0 {
			return fmt.Errorf("stacked_bar requires groups")
		}
		for name, values := range c.Groups {
			if len(values) != len(c.Labels) {
				return fmt.Errorf("group %q has %d values, want %d", name, len(values), len(c.Labels))
			}
			if err := validateFinite(values, cashFlowExempt); err != nil {
				return err
			}
		}
		return nil
	}

	if len(c.Values) != len(c.Labels) {
		return fmt.Errorf("values length %d does not match labels length %d", len(c.Values), len(c.Labels))
	}
	return validateFinite(c.Values, cashFlowExempt)
}

// validateFinite checks every value is finite, not NaN, and that at least
// one value is nonzero unless exempt is set.
func validateFinite(values []float64, exempt bool) error {
	nonZero := false
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("value %v is not finite", v)
		}
		if v != 0 {
			nonZero = true
		}
	}
	if !nonZero && !exempt {
		return fmt.Errorf("all values are zero")
	}
	return nil
}

// ValidateTable enforces spec.md §4.9.4's table validation rules.
func ValidateTable(t *TableSpec) error {
	if len(t.Headers) == 0 {
		return fmt.Errorf("headers must not be empty")
	}
	for i, row := range t.Rows {
		if len(row) != len(t.Headers) {
			return fmt.Errorf("row %d has %d cells, want %d", i, len(row), len(t.Headers))
		}
	}
	return nil
}
