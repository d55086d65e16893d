// Package market is the gateway to the upstream market-data provider.
// It owns all failure translation: a 429 is the one distinguished status,
// an explicit "coin not found" payload is the one distinguished error body,
// and everything else collapses to a generic upstream error.
package market

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avelasco/cryptochat/backend/internal/config"
	"github.com/avelasco/cryptochat/backend/internal/model/market"
)

var (
	// ErrRateLimited reports an upstream 429.
	ErrRateLimited = errors.New("market: rate limited")
	// ErrCoinNotFound reports an explicit not-found payload from upstream.
	ErrCoinNotFound = errors.New("market: coin not found")
)

// trendingLimit caps how many trending coins a reply names.
const trendingLimit = 5

// chartDays is the fixed window of every chart series.
const chartDays = 7

// noDescription is substituted when the provider carries no description.
const noDescription = "No description available"

// Client talks to a CoinGecko-shaped provider. No retries are attempted:
// each user submission issues exactly one upstream read and fails on its own.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a gateway from configuration.
func NewClient(cfg config.MarketConfig) *Client {
	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

type coinResponse struct {
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	Error       string `json:"error"`
	Description struct {
		EN string `json:"en"`
	} `json:"description"`
	MarketData struct {
		CurrentPrice struct {
			USD float64 `json:"usd"`
		} `json:"current_price"`
		MarketCap struct {
			USD float64 `json:"usd"`
		} `json:"market_cap"`
		Change24h float64 `json:"price_change_percentage_24h"`
	} `json:"market_data"`
}

// SpotPrice returns the current USD quote for a canonical coin id.
func (c *Client) SpotPrice(ctx context.Context, id string) (market.Quote, error) {
	var payload coinResponse
	if err := c.getJSON(ctx, "/coins/"+url.PathEscape(id), &payload, &payload.Error); err != nil {
		return market.Quote{}, err
	}
	return market.Quote{
		Name:     payload.Name,
		PriceUSD: payload.MarketData.CurrentPrice.USD,
	}, nil
}

// Stats returns the summary block for a canonical coin id.
func (c *Client) Stats(ctx context.Context, id string) (market.CoinStats, error) {
	var payload coinResponse
	if err := c.getJSON(ctx, "/coins/"+url.PathEscape(id), &payload, &payload.Error); err != nil {
		return market.CoinStats{}, err
	}
	return market.CoinStats{
		Name:         payload.Name,
		Symbol:       strings.ToUpper(payload.Symbol),
		MarketCapUSD: payload.MarketData.MarketCap.USD,
		Change24h:    payload.MarketData.Change24h,
		Description:  shortDescription(payload.Description.EN),
	}, nil
}

// Trending returns up to five trending coin names in provider order.
func (c *Client) Trending(ctx context.Context) ([]string, error) {
	var payload struct {
		Coins []struct {
			Item struct {
				Name string `json:"name"`
			} `json:"item"`
		} `json:"coins"`
	}
	if err := c.getJSON(ctx, "/search/trending", &payload, nil); err != nil {
		return nil, err
	}

	names := make([]string, 0, trendingLimit)
	for _, coin := range payload.Coins {
		if len(names) == trendingLimit {
			break
		}
		names = append(names, coin.Item.Name)
	}
	return names, nil
}

// ChartSeries returns the 7-day USD price history for a canonical coin id.
func (c *Client) ChartSeries(ctx context.Context, id string) (market.PriceSeries, error) {
	var payload struct {
		Error  string       `json:"error"`
		Prices [][2]float64 `json:"prices"`
	}
	path := fmt.Sprintf("/coins/%s/market_chart?vs_currency=usd&days=%d", url.PathEscape(id), chartDays)
	if err := c.getJSON(ctx, path, &payload, &payload.Error); err != nil {
		return market.PriceSeries{}, err
	}

	points := make([]market.PricePoint, 0, len(payload.Prices))
	for _, pair := range payload.Prices {
		points = append(points, market.PricePoint{
			Timestamp: time.UnixMilli(int64(pair[0])).UTC(),
			PriceUSD:  pair[1],
		})
	}
	return market.PriceSeries{CoinID: id, Points: points}, nil
}

// BatchPrices resolves USD prices for several canonical ids in one read.
// Ids the provider does not recognize are simply absent from the result.
func (c *Client) BatchPrices(ctx context.Context, ids []string) (map[string]float64, error) {
	var payload map[string]struct {
		USD float64 `json:"usd"`
	}
	path := "/simple/price?ids=" + url.QueryEscape(strings.Join(ids, ",")) + "&vs_currencies=usd"
	if err := c.getJSON(ctx, path, &payload, nil); err != nil {
		return nil, err
	}

	prices := make(map[string]float64, len(payload))
	for id, entry := range payload {
		prices[id] = entry.USD
	}
	return prices, nil
}

// getJSON performs one GET and decodes the body into out. When errField is
// non-nil it points at the decoded payload's error string, which upstream
// sets even on non-200 statuses, so the payload is inspected before the
// status code. That is how the provider signals "coin not found".
func (c *Client) getJSON(ctx context.Context, path string, out any, errField *string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("market fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return ErrRateLimited
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if decodeErr := json.Unmarshal(body, out); decodeErr == nil {
		if errField != nil && *errField != "" {
			if *errField == "coin not found" {
				return ErrCoinNotFound
			}
			return fmt.Errorf("provider error: %s", *errField)
		}
	} else {
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("provider returned status %d", resp.StatusCode)
		}
		return fmt.Errorf("decode: %w", decodeErr)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("provider returned status %d", resp.StatusCode)
	}
	return nil
}

// shortDescription keeps the text up to the first sentence terminator.
func shortDescription(full string) string {
	first, _, _ := strings.Cut(full, ".")
	first = strings.TrimSpace(first)
	if first == "" {
		return noDescription
	}
	return first
}
