package intent

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/avelasco/cryptochat/backend/internal/coins"
)

var holdingPattern = regexp.MustCompile(`(?i)i have (\d+\.?\d*) (\w+)`)

// Holding is a parsed "I have <number> <symbol>" declaration.
type Holding struct {
	Symbol   string
	Quantity decimal.Decimal
}

// ExtractHolding parses a portfolio declaration out of the raw text. A
// sentence that does not fit the pattern yields ok=false and no update;
// callers surface nothing to the user in that case.
func ExtractHolding(raw string) (Holding, bool) {
	m := holdingPattern.FindStringSubmatch(raw)
	if m == nil {
		return Holding{}, false
	}

	quantity, err := decimal.NewFromString(m[1])
	if err != nil {
		return Holding{}, false
	}

	return Holding{
		Symbol:   strings.ToUpper(m[2]),
		Quantity: quantity,
	}, true
}

// ExtractCoin returns the coin token the text mentions, defaulting to
// bitcoin when nothing matches. Extraction never fails by design.
func ExtractCoin(raw string) string {
	return coins.FindMention(raw)
}
