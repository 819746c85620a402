package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceQuote is a historical closing price. Available is false when the source had no entry.
type PriceQuote struct {
	Date      string
	Price     decimal.Decimal
	Available bool
	Source    string
}

// InvestmentResult is the outcome of buying Amount worth of bitcoin at InvestPrice
// and valuing it at SellPrice.
type InvestmentResult struct {
	InvestDate     time.Time
	InvestPrice    decimal.Decimal
	SellPrice      decimal.Decimal
	Amount         decimal.Decimal
	UnitsPurchased decimal.Decimal
	NetGain        decimal.Decimal
}

// PeriodResult labels one entry of the multi-period comparison.
type PeriodResult struct {
	Label  string
	Date   time.Time
	Result InvestmentResult
	Err    error
}

// SessionData is the per-conversation state owned by the conversational platform.
type SessionData struct {
	BitcoinInvestment float64 `json:"bitcoinInvestment,omitempty"`
}
