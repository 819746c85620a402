package collector

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// ErrNoData is returned when the source has no closing price for the requested day.
var ErrNoData = errors.New("no price data for date")

// Fetcher defines the interface for looking up historical closing prices.
type Fetcher interface {
	// FetchClosePrice returns the closing price for date (YYYY-MM-DD).
	FetchClosePrice(ctx context.Context, date string) (decimal.Decimal, error)
	Name() string
}
