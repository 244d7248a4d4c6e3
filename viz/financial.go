package viz

import "strings"

// StatementKind is a recognized financial-statement shape (spec.md §4.9.3).
type StatementKind string

const (
	StatementNone         StatementKind = ""
	StatementTrialBalance StatementKind = "trial_balance"
	StatementIncome       StatementKind = "income_statement"
	StatementBalanceSheet StatementKind = "balance_sheet"
	StatementCashFlow     StatementKind = "cash_flow"
)

// statementKeywordRules is ordered rather than a map so detectStatementKind
// ties break on a fixed rule order instead of Go's randomized map
// iteration (spec.md §4.9.6 requires deterministic classification for
// identical input).
var statementKeywordRules = []struct {
	kind     StatementKind
	keywords []string
}{
	{StatementTrialBalance, []string{"trial balance", "debit", "credit"}},
	{StatementIncome, []string{"profit and loss", "p&l", "income statement", "revenue", "expenses"}},
	{StatementBalanceSheet, []string{"balance sheet", "assets", "liabilities", "equity"}},
	{StatementCashFlow, []string{"cash flow", "operating activities", "investing activities", "financing activities"}},
}

// detectStatementKind matches a closed keyword set over the retrieved
// context to recognize a financial-statement kind. It returns
// StatementNone when no kind matches confidently.
func detectStatementKind(contextText string) StatementKind {
	lower := strings.ToLower(contextText)

	var best StatementKind
	bestHits := 0
	for _, rule := range statementKeywordRules {
		hits := 0
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				hits++
			}
		}
		if hits > bestHits {
			bestHits = hits
			best = rule.kind
		}
	}
	if bestHits == 0 {
		return StatementNone
	}
	return best
}

// chartTypeForStatement applies the domain mapping in spec.md §4.9.3.
func chartTypeForStatement(kind StatementKind) ChartType {
	switch kind {
	case StatementTrialBalance:
		return ChartStackedBar
	case StatementIncome:
		return ChartBar
	case StatementBalanceSheet:
		return ChartPie
	case StatementCashFlow:
		return ChartLine
	default:
		return ""
	}
}
