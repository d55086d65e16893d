// Package intent turns free-text chat input into one of a closed set of
// intents and extracts the parameters each intent needs.
package intent

import "strings"

// Intent is the single classified purpose of one user submission.
type Intent int

const (
	Unrecognized Intent = iota
	PriceQuery
	TrendingQuery
	StatsQuery
	ChartQuery
	PortfolioAdd
	PortfolioValue
)

// String implements fmt.Stringer for logging.
func (i Intent) String() string {
	switch i {
	case PriceQuery:
		return "price"
	case TrendingQuery:
		return "trending"
	case StatsQuery:
		return "stats"
	case ChartQuery:
		return "chart"
	case PortfolioAdd:
		return "portfolio-add"
	case PortfolioValue:
		return "portfolio-value"
	default:
		return "unrecognized"
	}
}

type rule struct {
	intent   Intent
	keywords []string
}

// Rules are ordered by priority: the first rule with any keyword present in
// the lowercased input wins, making phrases like "portfolio chart" resolve
// to ChartQuery deterministically. Later rules are unreachable once an
// earlier one matches.
var rules = []rule{
	{PriceQuery, []string{"price", "trading at"}},
	{TrendingQuery, []string{"trending"}},
	{StatsQuery, []string{"stats", "info"}},
	{ChartQuery, []string{"chart"}},
	{PortfolioAdd, []string{"i have"}},
	{PortfolioValue, []string{"portfolio"}},
}

// Classify selects exactly one intent for the raw input. Classification is
// stateless: each submission is judged on its own text only.
func Classify(raw string) Intent {
	text := strings.ToLower(raw)
	for _, r := range rules {
		for _, keyword := range r.keywords {
			if strings.Contains(text, keyword) {
				return r.intent
			}
		}
	}
	return Unrecognized
}
