package calculator

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"BitcoinHindsight/internal/model"
)

// ErrPriceUnavailable is returned when either price is missing or not positive.
// Callers should tell the user instead of rendering a meaningless number.
var ErrPriceUnavailable = errors.New("price data unavailable")

// Evaluate computes how many bitcoins amount would have bought at investPrice
// and the net gain when valued at sellPrice.
func Evaluate(investPrice, sellPrice, amount decimal.Decimal) (model.InvestmentResult, error) {
	if !investPrice.IsPositive() || !sellPrice.IsPositive() {
		return model.InvestmentResult{}, ErrPriceUnavailable
	}
	// Value is derived from amount rather than rounded units so equal prices give exactly zero.
	value := amount.Mul(sellPrice).Div(investPrice)
	return model.InvestmentResult{
		InvestPrice:    investPrice,
		SellPrice:      sellPrice,
		Amount:         amount,
		UnitsPurchased: amount.Div(investPrice),
		NetGain:        value.Sub(amount),
	}, nil
}

// EvaluateQuotes evaluates a purchase and sell quote pair.
func EvaluateQuotes(buy, sell model.PriceQuote, amount decimal.Decimal, investDate time.Time) (model.InvestmentResult, error) {
	if !buy.Available || !sell.Available {
		return model.InvestmentResult{}, ErrPriceUnavailable
	}
	res, err := Evaluate(buy.Price, sell.Price, amount)
	if err != nil {
		return res, err
	}
	res.InvestDate = investDate
	return res, nil
}
