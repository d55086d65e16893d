package intent

import "testing"

func TestExtractHolding(t *testing.T) {
	holding, ok := ExtractHolding("I have 2 ETH")
	if !ok {
		t.Fatal("expected holding to parse")
	}
	if holding.Symbol != "ETH" {
		t.Fatalf("symbol = %q, want ETH", holding.Symbol)
	}
	if holding.Quantity.String() != "2" {
		t.Fatalf("quantity = %s, want 2", holding.Quantity)
	}
}

func TestExtractHoldingFractional(t *testing.T) {
	holding, ok := ExtractHolding("i have 3.5 ltc in cold storage")
	if !ok {
		t.Fatal("expected holding to parse")
	}
	if holding.Symbol != "LTC" {
		t.Fatalf("symbol = %q, want LTC", holding.Symbol)
	}
	if holding.Quantity.String() != "3.5" {
		t.Fatalf("quantity = %s, want 3.5", holding.Quantity)
	}
}

func TestExtractHoldingNoMatch(t *testing.T) {
	// A declaration without a number yields no update and no error.
	if _, ok := ExtractHolding("I have some bitcoin"); ok {
		t.Fatal("expected no holding for missing quantity")
	}
	if _, ok := ExtractHolding("nothing to declare"); ok {
		t.Fatal("expected no holding for unrelated text")
	}
}

func TestExtractCoin(t *testing.T) {
	if got := ExtractCoin("what's eth trading at"); got != "eth" {
		t.Fatalf("ExtractCoin = %q, want eth", got)
	}
	if got := ExtractCoin("price please"); got != "bitcoin" {
		t.Fatalf("ExtractCoin fallback = %q, want bitcoin", got)
	}
}
