package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
)

// DefaultCoindeskURL is the historical close endpoint of the Coindesk BPI API.
const DefaultCoindeskURL = "https://api.coindesk.com/v1/bpi/historical/close.json"

// CoindeskFetcher implements Fetcher using the Coindesk bitcoin price index.
type CoindeskFetcher struct {
	Endpoint string
	Currency string
	Client   *resty.Client
}

// NewCoindeskFetcher creates a new fetcher with optional proxy support.
func NewCoindeskFetcher(endpoint, currency, proxyURL string, timeout time.Duration) *CoindeskFetcher {
	if endpoint == "" {
		endpoint = DefaultCoindeskURL
	}
	return &CoindeskFetcher{
		Endpoint: endpoint,
		Currency: strings.ToUpper(currency),
		Client:   newRESTClient(timeout, proxyURL),
	}
}

func (f *CoindeskFetcher) Name() string { return "coindesk" }

// coindeskClose is the expected JSON shape, e.g. {"bpi": {"2019-07-30": 8547.1234}}.
type coindeskClose struct {
	BPI map[string]decimal.Decimal `json:"bpi"`
}

func (f *CoindeskFetcher) FetchClosePrice(ctx context.Context, date string) (decimal.Decimal, error) {
	resp, err := f.Client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"start":    date,
			"end":      date,
			"currency": f.Currency,
		}).
		Get(f.Endpoint)
	if err != nil {
		return decimal.Zero, fmt.Errorf("coindesk fetch %s: %w", date, err)
	}
	if resp.IsError() {
		return decimal.Zero, fmt.Errorf("coindesk fetch %s: status %d, body: %s", date, resp.StatusCode(), resp.String())
	}

	var result coindeskClose
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return decimal.Zero, fmt.Errorf("coindesk decode: %w", err)
	}
	price, ok := result.BPI[date]
	if !ok {
		return decimal.Zero, fmt.Errorf("coindesk %s: %w", date, ErrNoData)
	}
	return price, nil
}
