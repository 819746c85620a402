package collector

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"BitcoinHindsight/internal/dates"
	"BitcoinHindsight/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Prices map[string]float64
	// Fallback is returned for dates missing from Prices when positive.
	Fallback float64
	// Err, when set, is returned for every lookup.
	Err   error
	Calls []string

	mu sync.Mutex
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchClosePrice(_ context.Context, date string) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, date)
	if m.Err != nil {
		return decimal.Zero, m.Err
	}
	p, ok := m.Prices[date]
	if !ok && m.Fallback > 0 {
		p, ok = m.Fallback, true
	}
	if !ok {
		return decimal.Zero, fmt.Errorf("mock %s: %w", date, ErrNoData)
	}
	return decimal.NewFromFloat(p), nil
}

// Collector wraps a Fetcher and degrades every failure to an absent quote.
type Collector struct {
	Fetcher Fetcher
	log     zerolog.Logger
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, log zerolog.Logger) *Collector {
	return &Collector{
		Fetcher: fetcher,
		log:     log.With().Str("component", "collector").Str("source", fetcher.Name()).Logger(),
	}
}

// Quote looks up the close for date. Not-found and transport failures are
// logged and both reported as an unavailable quote.
func (c *Collector) Quote(ctx context.Context, date string) model.PriceQuote {
	q := model.PriceQuote{Date: date, Source: c.Fetcher.Name()}
	price, err := c.Fetcher.FetchClosePrice(ctx, date)
	if err != nil {
		c.log.Warn().Err(err).Str("date", date).Msg("No bitcoin data")
		return q
	}
	q.Price = price
	q.Available = true
	return q
}

// Quotes fetches the purchase and sell closes for pair, one after the other.
// A failed purchase lookup does not prevent the sell lookup.
func (c *Collector) Quotes(ctx context.Context, pair model.DatePair) (buy, sell model.PriceQuote) {
	buy = c.Quote(ctx, dates.Format(pair.Purchase))
	sell = c.Quote(ctx, dates.Format(pair.Sell))
	return buy, sell
}
