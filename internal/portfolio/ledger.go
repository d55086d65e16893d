// Package portfolio tracks self-reported holdings for one conversation.
package portfolio

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/avelasco/cryptochat/backend/internal/coins"
)

// Pricer resolves USD prices for provider ids in a single batched read.
type Pricer interface {
	BatchPrices(ctx context.Context, ids []string) (map[string]float64, error)
}

// Entry is one held position.
type Entry struct {
	Symbol   string
	Quantity decimal.Decimal
}

// Line is one valued position of a portfolio report.
type Line struct {
	Symbol   string
	Quantity decimal.Decimal
	Value    decimal.Decimal
}

// String renders the line the way the chat reply shows it: "2 ETH: $6000.00".
func (l Line) String() string {
	return fmt.Sprintf("%s %s: $%s", l.Quantity, l.Symbol, l.Value.StringFixed(2))
}

// Ledger maps uppercased ticker symbols to held quantities, preserving the
// order symbols were first declared in. Recording an existing symbol
// overwrites its quantity; quantities are accepted verbatim, unvalidated.
type Ledger struct {
	mu      sync.RWMutex
	order   []string
	amounts map[string]decimal.Decimal
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{amounts: make(map[string]decimal.Decimal)}
}

// Record stores quantity under the uppercased symbol, replacing any
// previous quantity for that symbol.
func (l *Ledger) Record(symbol string, quantity decimal.Decimal) {
	key := strings.ToUpper(symbol)

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.amounts[key]; !exists {
		l.order = append(l.order, key)
	}
	l.amounts[key] = quantity
}

// Entries returns the held positions in declaration order.
func (l *Ledger) Entries() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	entries := make([]Entry, 0, len(l.order))
	for _, symbol := range l.order {
		entries = append(entries, Entry{Symbol: symbol, Quantity: l.amounts[symbol]})
	}
	return entries
}

// ValueAll prices every entry with one batched read and returns the line
// items plus the total. Entries whose price the provider cannot resolve are
// valued at zero and still listed.
func (l *Ledger) ValueAll(ctx context.Context, pricer Pricer) ([]Line, decimal.Decimal, error) {
	entries := l.Entries()

	ids := make([]string, len(entries))
	for i, entry := range entries {
		ids[i] = coins.ResolveSymbol(entry.Symbol)
	}

	prices, err := pricer.BatchPrices(ctx, ids)
	if err != nil {
		return nil, decimal.Zero, err
	}

	lines := make([]Line, len(entries))
	total := decimal.Zero
	for i, entry := range entries {
		price := decimal.NewFromFloat(prices[ids[i]])
		value := price.Mul(entry.Quantity)
		lines[i] = Line{Symbol: entry.Symbol, Quantity: entry.Quantity, Value: value}
		total = total.Add(value)
	}
	return lines, total, nil
}
