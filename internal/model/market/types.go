package market

import "time"

// Quote is the spot price answer for a single coin.
type Quote struct {
	Name     string  `json:"name"`
	PriceUSD float64 `json:"priceUsd"`
}

// CoinStats summarizes a coin for the stats reply. Description holds only
// the first sentence of the provider's description field.
type CoinStats struct {
	Name         string  `json:"name"`
	Symbol       string  `json:"symbol"`
	MarketCapUSD float64 `json:"marketCapUsd"`
	Change24h    float64 `json:"change24h"`
	Description  string  `json:"description"`
}

// PricePoint is one sample of a price series.
type PricePoint struct {
	Timestamp time.Time `json:"timestamp"`
	PriceUSD  float64   `json:"priceUsd"`
}

// PriceSeries is a transient 7-day price history handed to the chart
// consumer. Each new chart request replaces the previous series wholesale.
type PriceSeries struct {
	CoinID string       `json:"coinId"`
	Points []PricePoint `json:"points"`
}
