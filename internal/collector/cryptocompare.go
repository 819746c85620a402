package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
)

// DefaultCryptoCompareURL is the daily OHLCV endpoint of CryptoCompare (free, no API key).
const DefaultCryptoCompareURL = "https://min-api.cryptocompare.com/data/v2/histoday"

// CryptoCompareFetcher implements Fetcher using CryptoCompare daily history.
type CryptoCompareFetcher struct {
	Endpoint string
	Currency string
	Client   *resty.Client
}

// NewCryptoCompareFetcher creates a new fetcher with optional proxy support.
func NewCryptoCompareFetcher(endpoint, currency, proxyURL string, timeout time.Duration) *CryptoCompareFetcher {
	if endpoint == "" {
		endpoint = DefaultCryptoCompareURL
	}
	return &CryptoCompareFetcher{
		Endpoint: endpoint,
		Currency: strings.ToUpper(currency),
		Client:   newRESTClient(timeout, proxyURL),
	}
}

func (f *CryptoCompareFetcher) Name() string { return "cryptocompare" }

type cryptoCompareHistory struct {
	Response string `json:"Response"`
	Message  string `json:"Message"`
	Data     struct {
		Data []struct {
			Time  int64           `json:"time"`
			Close decimal.Decimal `json:"close"`
		} `json:"Data"`
	} `json:"Data"`
}

func (f *CryptoCompareFetcher) FetchClosePrice(ctx context.Context, date string) (decimal.Decimal, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return decimal.Zero, fmt.Errorf("cryptocompare: bad date %q: %w", date, err)
	}
	// toTs is inclusive; the last second of the day selects that day's candle.
	toTs := day.Add(24*time.Hour - time.Second).Unix()

	resp, err := f.Client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"fsym":  "BTC",
			"tsym":  f.Currency,
			"limit": "1",
			"toTs":  strconv.FormatInt(toTs, 10),
		}).
		Get(f.Endpoint)
	if err != nil {
		return decimal.Zero, fmt.Errorf("cryptocompare fetch %s: %w", date, err)
	}
	if resp.IsError() {
		return decimal.Zero, fmt.Errorf("cryptocompare fetch %s: status %d, body: %s", date, resp.StatusCode(), resp.String())
	}

	var result cryptoCompareHistory
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return decimal.Zero, fmt.Errorf("cryptocompare decode: %w", err)
	}
	if result.Response == "Error" {
		return decimal.Zero, fmt.Errorf("cryptocompare error: %s", result.Message)
	}
	for _, row := range result.Data.Data {
		if time.Unix(row.Time, 0).UTC().Format("2006-01-02") != date {
			continue
		}
		if !row.Close.IsPositive() {
			break
		}
		return row.Close, nil
	}
	return decimal.Zero, fmt.Errorf("cryptocompare %s: %w", date, ErrNoData)
}
