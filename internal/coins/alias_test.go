package coins

import "testing"

func TestResolveKnownAliases(t *testing.T) {
	cases := map[string]string{
		"what's eth trading at": "ethereum",
		"BTC price":             "bitcoin",
		"litecoin stats":        "litecoin",
		"xrp chart":             "ripple",
		"bch info":              "bitcoin-cash",
	}
	for input, want := range cases {
		if got := Resolve(input); got != want {
			t.Fatalf("Resolve(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestResolveTableOrderWins(t *testing.T) {
	// "bitcoin" is declared before "bitcoin cash", so the shorter key wins
	// even though both are substrings of the phrase.
	if got := Resolve("bitcoin cash price"); got != "bitcoin" {
		t.Fatalf("Resolve(bitcoin cash price) = %q, want bitcoin", got)
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	first := Resolve("bitcoin cash price")
	second := Resolve("bitcoin cash price")
	if first != second {
		t.Fatalf("Resolve not deterministic: %q vs %q", first, second)
	}
}

func TestResolveDefaultsToBitcoin(t *testing.T) {
	if got := Resolve("what is the meaning of life"); got != "bitcoin" {
		t.Fatalf("Resolve fallback = %q, want bitcoin", got)
	}
}

func TestResolveSymbol(t *testing.T) {
	if got := ResolveSymbol("ETH"); got != "ethereum" {
		t.Fatalf("ResolveSymbol(ETH) = %q, want ethereum", got)
	}
	if got := ResolveSymbol("XRP"); got != "ripple" {
		t.Fatalf("ResolveSymbol(XRP) = %q, want ripple", got)
	}
	// Unsupported tickers pass through as raw lowercase provider ids.
	if got := ResolveSymbol("DOGE"); got != "doge" {
		t.Fatalf("ResolveSymbol(DOGE) = %q, want doge", got)
	}
}

func TestFindMentionEarliestOccurrence(t *testing.T) {
	if got := FindMention("compare ltc against eth"); got != "ltc" {
		t.Fatalf("FindMention = %q, want ltc", got)
	}
	if got := FindMention("eth then ltc"); got != "eth" {
		t.Fatalf("FindMention = %q, want eth", got)
	}
}

func TestFindMentionDefault(t *testing.T) {
	if got := FindMention("price please"); got != "bitcoin" {
		t.Fatalf("FindMention fallback = %q, want bitcoin", got)
	}
}
