package portfolio

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

type fakePricer struct {
	prices map[string]float64
	err    error
	calls  int
	ids    []string
}

func (f *fakePricer) BatchPrices(_ context.Context, ids []string) (map[string]float64, error) {
	f.calls++
	f.ids = ids
	if f.err != nil {
		return nil, f.err
	}
	return f.prices, nil
}

func qty(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestRecordOverwritesQuantity(t *testing.T) {
	ledger := NewLedger()
	ledger.Record("ltc", qty("3"))
	ledger.Record("LTC", qty("5"))

	entries := ledger.Entries()
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].Symbol != "LTC" {
		t.Fatalf("symbol = %q, want LTC", entries[0].Symbol)
	}
	if entries[0].Quantity.String() != "5" {
		t.Fatalf("quantity = %s, want 5 (overwrite, not accumulate)", entries[0].Quantity)
	}
}

func TestEntriesPreserveDeclarationOrder(t *testing.T) {
	ledger := NewLedger()
	ledger.Record("ETH", qty("2"))
	ledger.Record("XRP", qty("100"))
	ledger.Record("ETH", qty("4"))

	entries := ledger.Entries()
	if len(entries) != 2 || entries[0].Symbol != "ETH" || entries[1].Symbol != "XRP" {
		t.Fatalf("unexpected order: %+v", entries)
	}
}

func TestValueAll(t *testing.T) {
	ledger := NewLedger()
	ledger.Record("ETH", qty("2"))
	ledger.Record("XRP", qty("100"))

	pricer := &fakePricer{prices: map[string]float64{"ethereum": 3000, "ripple": 0.5}}
	lines, total, err := ledger.ValueAll(context.Background(), pricer)
	if err != nil {
		t.Fatalf("ValueAll err: %v", err)
	}

	if pricer.calls != 1 {
		t.Fatalf("expected a single batched read, got %d", pricer.calls)
	}
	if len(pricer.ids) != 2 || pricer.ids[0] != "ethereum" || pricer.ids[1] != "ripple" {
		t.Fatalf("resolved ids = %v", pricer.ids)
	}

	if got := lines[0].String(); got != "2 ETH: $6000.00" {
		t.Fatalf("line 0 = %q", got)
	}
	if got := lines[1].String(); got != "100 XRP: $50.00" {
		t.Fatalf("line 1 = %q", got)
	}
	if total.StringFixed(2) != "6050.00" {
		t.Fatalf("total = %s, want 6050.00", total.StringFixed(2))
	}
}

func TestValueAllUnresolvedPriceCountsAsZero(t *testing.T) {
	ledger := NewLedger()
	ledger.Record("ETH", qty("2"))
	ledger.Record("DOGE", qty("1000"))

	pricer := &fakePricer{prices: map[string]float64{"ethereum": 3000}}
	lines, total, err := ledger.ValueAll(context.Background(), pricer)
	if err != nil {
		t.Fatalf("ValueAll err: %v", err)
	}

	if len(lines) != 2 {
		t.Fatalf("unresolved entries must still be listed, got %d lines", len(lines))
	}
	if got := lines[1].String(); got != "1000 DOGE: $0.00" {
		t.Fatalf("line 1 = %q", got)
	}
	if total.StringFixed(2) != "6000.00" {
		t.Fatalf("total = %s, want 6000.00", total.StringFixed(2))
	}
}

func TestValueAllEmptyLedgerStillIssuesOneRead(t *testing.T) {
	ledger := NewLedger()
	pricer := &fakePricer{prices: map[string]float64{}}

	lines, total, err := ledger.ValueAll(context.Background(), pricer)
	if err != nil {
		t.Fatalf("ValueAll err: %v", err)
	}
	if len(lines) != 0 || !total.IsZero() {
		t.Fatalf("empty ledger should value to zero, got %v / %s", lines, total)
	}
	if pricer.calls != 1 {
		t.Fatalf("expected one read, got %d", pricer.calls)
	}
}

func TestValueAllPropagatesFetchFailure(t *testing.T) {
	ledger := NewLedger()
	ledger.Record("ETH", qty("2"))

	pricer := &fakePricer{err: errors.New("boom")}
	if _, _, err := ledger.ValueAll(context.Background(), pricer); err == nil {
		t.Fatal("expected error")
	}
}
