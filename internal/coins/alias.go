// Package coins maps user vocabulary (tickers and common names) to the
// identifiers the market-data provider understands.
package coins

import "strings"

// DefaultID is used whenever the input mentions no known coin.
const DefaultID = "bitcoin"

type alias struct {
	key string
	id  string
}

// The table is ordered: Resolve scans keys in declaration order and the
// first key found as a substring wins, so "bitcoin" shadows "bitcoin cash"
// inside the same phrase. Tests pin this precedence down.
var table = []alias{
	{"eth", "ethereum"},
	{"ethereum", "ethereum"},
	{"btc", "bitcoin"},
	{"bitcoin", "bitcoin"},
	{"bch", "bitcoin-cash"},
	{"bitcoin cash", "bitcoin-cash"},
	{"ltc", "litecoin"},
	{"litecoin", "litecoin"},
	{"xrp", "ripple"},
	{"ripple", "ripple"},
}

// Resolve maps free text to a provider coin id. It never fails: text with
// no recognizable coin resolves to DefaultID.
func Resolve(text string) string {
	lower := strings.ToLower(text)
	for _, a := range table {
		if strings.Contains(lower, a.key) {
			return a.id
		}
	}
	return DefaultID
}

// ResolveSymbol maps a held ticker to a provider id. Symbols outside the
// alias table fall back to the raw lowercase symbol so unsupported coins
// are still asked of the provider rather than rejected.
func ResolveSymbol(symbol string) string {
	lower := strings.ToLower(symbol)
	for _, a := range table {
		if a.key == lower {
			return a.id
		}
	}
	return lower
}

// FindMention returns the coin token mentioned earliest in the text, as the
// user typed it ("eth", "bitcoin cash", ...). Ties between keys starting at
// the same offset go to the one declared first in the table. Text with no
// mention yields the default token.
func FindMention(text string) string {
	lower := strings.ToLower(text)
	best := -1
	token := ""
	for _, a := range table {
		idx := strings.Index(lower, a.key)
		if idx >= 0 && (best < 0 || idx < best) {
			best = idx
			token = a.key
		}
	}
	if token == "" {
		return DefaultID
	}
	return token
}
