package viz

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type CoerceTestSuite struct {
	suite.Suite
}

func TestCoerceTestSuite(t *testing.T) {
	suite.Run(t, new(CoerceTestSuite))
}

func (s *CoerceTestSuite) TestDebitCreditBecomesStackedBar() {
	table := &TableSpec{
		Headers: []string{"Account", "Debit", "Credit"},
		Rows: [][]string{
			{"Cash", "100", "0"},
			{"Revenue", "0", "100"},
		},
	}
	chart, ok := CoerceTableToChart(table)
	s.Require().True(ok)
	s.Equal(ChartStackedBar, chart.ChartType)
	s.Equal([]string{"Cash", "Revenue"}, chart.Labels)
	s.Equal([]float64{100, 0}, chart.Groups["Debit"])
	s.Equal([]float64{0, 100}, chart.Groups["Credit"])
}

func (s *CoerceTestSuite) TestSingleNumericColumnBecomesBar() {
	table := &TableSpec{
		Headers: []string{"Quarter", "Revenue"},
		Rows: [][]string{
			{"Q1", "100"},
			{"Q2", "115"},
		},
	}
	chart, ok := CoerceTableToChart(table)
	s.Require().True(ok)
	s.Equal(ChartBar, chart.ChartType)
	s.Equal([]string{"Q1", "Q2"}, chart.Labels)
	s.Equal([]float64{100, 115}, chart.Values)
}

func (s *CoerceTestSuite) TestAssetsLiabilitiesEquityBecomesPie() {
	table := &TableSpec{
		Headers: []string{"Category", "Amount"},
		Rows: [][]string{
			{"Assets", "500"},
			{"Liabilities", "200"},
			{"Equity", "300"},
		},
	}
	chart, ok := CoerceTableToChart(table)
	s.Require().True(ok)
	s.Equal(ChartPie, chart.ChartType)
	s.ElementsMatch([]string{"Assets", "Liabilities", "Equity"}, chart.Labels)
}

func (s *CoerceTestSuite) TestNoRuleMatchesReturnsFalse() {
	table := &TableSpec{
		Headers: []string{"Name", "Notes"},
		Rows:    [][]string{{"Alice", "some text"}},
	}
	_, ok := CoerceTableToChart(table)
	s.False(ok)
}
