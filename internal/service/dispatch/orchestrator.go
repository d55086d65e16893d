// Package dispatch routes classified chat input to market data or ledger
// operations and folds the outcome back into the conversation.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/avelasco/cryptochat/backend/internal/analysis/intent"
	"github.com/avelasco/cryptochat/backend/internal/coins"
	marketdata "github.com/avelasco/cryptochat/backend/internal/market"
	"github.com/avelasco/cryptochat/backend/internal/model/chat"
	"github.com/avelasco/cryptochat/backend/internal/model/market"
	chatservice "github.com/avelasco/cryptochat/backend/internal/service/chat"
)

// Gateway is the market-data surface the orchestrator consumes. One call
// is issued per user-visible reply; valuation batches all held symbols
// into its single read.
type Gateway interface {
	SpotPrice(ctx context.Context, id string) (market.Quote, error)
	Trending(ctx context.Context) ([]string, error)
	Stats(ctx context.Context, id string) (market.CoinStats, error)
	ChartSeries(ctx context.Context, id string) (market.PriceSeries, error)
	BatchPrices(ctx context.Context, ids []string) (map[string]float64, error)
}

// Result is what one submission produced beyond the log append: the reply
// text, the text to vocalize (empty when nothing should be spoken, which
// includes every failure reply), and the chart series side artifact.
type Result struct {
	Reply  string
	Speak  string
	Series *market.PriceSeries
}

// Notifier consumes the orchestrator's output events: appended turns,
// vocalization requests, and chart updates. Implementations must not block.
type Notifier interface {
	TurnAppended(sessionID string, turn chat.Turn)
	SpeakRequested(sessionID, text string)
	ChartUpdated(sessionID string, series *market.PriceSeries)
}

const helpMessage = "Sorry, I can help with crypto prices, trending coins, stats, charts, or portfolio tracking. Try asking about those!"

// Orchestrator is the engine entry point. It holds no per-conversation
// state; the conversation (log, ledger, chart slot) is passed in per call,
// so overlapping submissions simply race and the log orders by completion.
type Orchestrator struct {
	gateway  Gateway
	notifier Notifier
}

// New builds an orchestrator over a market-data gateway. notifier may be
// nil when no presentation layer is listening.
func New(gateway Gateway, notifier Notifier) *Orchestrator {
	return &Orchestrator{gateway: gateway, notifier: notifier}
}

// Dispatch classifies one submission, performs its operation, and appends
// the user turn plus (usually) one system turn to the conversation log.
// Submission flow is strictly: classify, extract, fetch, reply.
func (o *Orchestrator) Dispatch(ctx context.Context, conv *chatservice.Conversation, rawText string) Result {
	text := strings.TrimSpace(rawText)
	if text == "" {
		return Result{}
	}

	sessionID := conv.Session.ID
	o.announceTurn(sessionID, conv.Log.Append(text, true))

	var result Result
	classified := intent.Classify(text)
	switch classified {
	case intent.PriceQuery:
		result = o.price(ctx, text)
	case intent.TrendingQuery:
		result = o.trending(ctx)
	case intent.StatsQuery:
		result = o.stats(ctx, text)
	case intent.ChartQuery:
		result = o.chart(ctx, conv, text)
	case intent.PortfolioAdd:
		result = o.recordHolding(conv, text)
	case intent.PortfolioValue:
		result = o.portfolioValue(ctx, conv)
	default:
		result = Result{Reply: helpMessage, Speak: helpMessage}
	}

	if result.Reply != "" {
		o.announceTurn(sessionID, conv.Log.Append(result.Reply, false))
	}
	if o.notifier != nil {
		if result.Speak != "" {
			o.notifier.SpeakRequested(sessionID, result.Speak)
		}
		if result.Series != nil {
			o.notifier.ChartUpdated(sessionID, result.Series)
		}
	}
	return result
}

func (o *Orchestrator) announceTurn(sessionID string, turn chat.Turn) {
	if o.notifier != nil {
		o.notifier.TurnAppended(sessionID, turn)
	}
}

func (o *Orchestrator) price(ctx context.Context, text string) Result {
	token := intent.ExtractCoin(text)
	quote, err := o.gateway.SpotPrice(ctx, coins.Resolve(token))
	if err != nil {
		return failure(token, err, "price")
	}

	reply := fmt.Sprintf("%s is currently trading at $%.2f USD.", quote.Name, quote.PriceUSD)
	return Result{Reply: reply, Speak: reply}
}

func (o *Orchestrator) trending(ctx context.Context) Result {
	names, err := o.gateway.Trending(ctx)
	if err != nil {
		log.Printf("[dispatch] trending fetch failed: %v", err)
		return Result{Reply: "Error fetching trending coins. Please try again later."}
	}

	reply := fmt.Sprintf("Today's trending coins: %s.", strings.Join(names, ", "))
	return Result{Reply: reply, Speak: reply}
}

func (o *Orchestrator) stats(ctx context.Context, text string) Result {
	token := intent.ExtractCoin(text)
	stats, err := o.gateway.Stats(ctx, coins.Resolve(token))
	if err != nil {
		return failure(token, err, "stats")
	}

	reply := fmt.Sprintf("%s (%s):\nMarket Cap: $%.2fB\n24h Change: %.2f%%\nDescription: %s.",
		stats.Name, stats.Symbol, stats.MarketCapUSD/1e9, stats.Change24h, stats.Description)
	return Result{Reply: reply, Speak: reply}
}

func (o *Orchestrator) chart(ctx context.Context, conv *chatservice.Conversation, text string) Result {
	token := intent.ExtractCoin(text)
	series, err := o.gateway.ChartSeries(ctx, coins.Resolve(token))
	if err != nil {
		return failure(token, err, "chart data")
	}

	conv.SetSeries(&series)
	reply := fmt.Sprintf("Showing 7-day price chart for %s.", strings.ToUpper(token))
	return Result{Reply: reply, Speak: reply, Series: &series}
}

func (o *Orchestrator) recordHolding(conv *chatservice.Conversation, text string) Result {
	holding, ok := intent.ExtractHolding(text)
	if !ok {
		// Unparseable declarations are dropped without a reply.
		return Result{}
	}

	conv.Ledger.Record(holding.Symbol, holding.Quantity)
	reply := fmt.Sprintf("Noted: You have %s %s.", holding.Quantity, holding.Symbol)
	return Result{Reply: reply, Speak: reply}
}

func (o *Orchestrator) portfolioValue(ctx context.Context, conv *chatservice.Conversation) Result {
	lines, total, err := conv.Ledger.ValueAll(ctx, o.gateway)
	if err != nil {
		log.Printf("[dispatch] portfolio valuation failed: %v", err)
		return Result{Reply: "Error fetching portfolio value. Please try again later."}
	}

	rendered := make([]string, len(lines))
	for i, line := range lines {
		rendered[i] = line.String()
	}

	reply := fmt.Sprintf("Your portfolio:\n%s\nTotal Value: $%s USD",
		strings.Join(rendered, "\n"), total.StringFixed(2))
	speak := fmt.Sprintf("Your portfolio total value is $%s USD", total.StringFixed(2))
	return Result{Reply: reply, Speak: speak}
}

// failure collapses every fetch-path error onto the two-message surface:
// a not-found reply naming the typed token when upstream explicitly said
// so, or the generic retry-later reply for everything else, rate limits
// included.
func failure(token string, err error, what string) Result {
	if errors.Is(err, marketdata.ErrCoinNotFound) {
		reply := fmt.Sprintf("Coin %q not found. Try \"ETH\", \"BTC\", \"LTC\", or others.", token)
		return Result{Reply: reply}
	}

	log.Printf("[dispatch] %s fetch failed: %v", what, err)
	return Result{Reply: fmt.Sprintf("Error fetching %s. Please try again later.", what)}
}
