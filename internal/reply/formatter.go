// Package reply renders investment results as spoken sentences and visual tiles.
package reply

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"BitcoinHindsight/internal/calculator"
	"BitcoinHindsight/internal/dates"
	"BitcoinHindsight/internal/model"
)

// Fixed replies.
const (
	WelcomeText    = "Welcome to my agent!"
	NotUnderstood  = "I didn't understand"
	TryAgain       = "I'm sorry, can you try again?"
	AskPeriodText  = "For which period would you like to know? For example: at the end of last year, or 3 months ago."
	spokenDateForm = "Mon Jan 02 2006"
)

// Suggestions are the quick replies offered after the greeting.
var Suggestions = []string{"Earn with Bitcoin", "End of last year", "3 months ago"}

// Formatter renders results in a fixed currency label.
type Formatter struct {
	Currency  string
	ImageURL  string
	LinkURL   string
	LinkTitle string
}

// NewFormatter creates a Formatter. An empty currency defaults to EUR.
func NewFormatter(currency, imageURL, linkURL string) *Formatter {
	if currency == "" {
		currency = "EUR"
	}
	return &Formatter{Currency: currency, ImageURL: imageURL, LinkURL: linkURL, LinkTitle: "Learn more"}
}

// SpokenDate renders t the way the assistant reads dates out.
func SpokenDate(t time.Time) string {
	return t.Format(spokenDateForm)
}

// Investment formats a single-period result with two decimals.
func (f *Formatter) Investment(res model.InvestmentResult) string {
	var b strings.Builder
	units := calculator.Units(res.UnitsPurchased)
	b.WriteString(fmt.Sprintf("Investment price on %s was: %s %s. ",
		SpokenDate(res.InvestDate), calculator.Money(res.InvestPrice, 2), f.Currency))
	b.WriteString(fmt.Sprintf("With the investment of %s %s you would buy %s bitcoins. ",
		calculator.Commas(res.Amount.InexactFloat64()), f.Currency, units))
	b.WriteString(fmt.Sprintf("Selling price yesterday would be %s %s. ",
		calculator.Money(res.SellPrice, 2), f.Currency))
	b.WriteString(fmt.Sprintf("If you sold your %s bitcoins you would have %s %s %s.",
		units, gainVerb(res.NetGain), calculator.Money(res.NetGain.Abs(), 2), f.Currency))
	return b.String()
}

// Unavailable explains which price could not be found.
func (f *Formatter) Unavailable(investDate time.Time, buy, sell model.PriceQuote) string {
	switch {
	case !buy.Available:
		return fmt.Sprintf("Sorry, I don't have the Bitcoin price for %s, so I can't calculate that investment. Please try another date.",
			SpokenDate(investDate))
	case !sell.Available:
		return f.SellUnavailable()
	default:
		return "Sorry, Bitcoin price data is unavailable right now."
	}
}

// SellUnavailable is the reply when yesterday's close has not been published.
func (f *Formatter) SellUnavailable() string {
	return "Sorry, yesterday's Bitcoin price is not available yet, so I can't calculate that investment right now."
}

// Summary formats the multi-period comparison with whole amounts.
func (f *Formatter) Summary(amount decimal.Decimal, results []model.PeriodResult) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("With an investment of %s %s in Bitcoin:", calculator.Commas(amount.InexactFloat64()), f.Currency))
	for _, r := range results {
		if r.Err != nil {
			b.WriteString(fmt.Sprintf(" %s: no price data.", r.Label))
			continue
		}
		b.WriteString(fmt.Sprintf(" %s: you would have %s %s %s.",
			r.Label, gainVerb(r.Result.NetGain), calculator.Money(r.Result.NetGain.Abs(), 0), f.Currency))
	}
	return b.String()
}

// Card is the visual companion of a single-period answer.
func (f *Formatter) Card(res model.InvestmentResult) Tile {
	return Tile{
		Title:    fmt.Sprintf("Bitcoin bought on %s", SpokenDate(res.InvestDate)),
		Subtitle: fmt.Sprintf("Net result: %s %s", signedMoney(res.NetGain, 2), f.Currency),
		Description: fmt.Sprintf("%s BTC at %s %s, worth %s %s yesterday",
			calculator.Units(res.UnitsPurchased), calculator.Money(res.InvestPrice, 2), f.Currency,
			calculator.Money(res.UnitsPurchased.Mul(res.SellPrice), 2), f.Currency),
		ImageURL:  f.ImageURL,
		LinkTitle: f.LinkTitle,
		LinkURL:   f.LinkURL,
	}
}

// Tiles renders one tile per successfully evaluated period.
func (f *Formatter) Tiles(results []model.PeriodResult) []Tile {
	tiles := make([]Tile, 0, len(results))
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		tiles = append(tiles, Tile{
			Title: r.Label,
			Description: fmt.Sprintf("Bought %s BTC at %s %s on %s",
				calculator.Units(r.Result.UnitsPurchased), calculator.Money(r.Result.InvestPrice, 0), f.Currency, dates.Format(r.Date)),
			Footer:    fmt.Sprintf("Net result: %s %s", signedMoney(r.Result.NetGain, 0), f.Currency),
			ImageURL:  f.ImageURL,
			LinkTitle: f.LinkTitle,
			LinkURL:   f.LinkURL,
		})
	}
	return tiles
}

// Tile is a card or carousel entry, independent of the chat platform.
// Field order matches dialogflow.Tile so the two convert directly.
type Tile struct {
	Title       string
	Subtitle    string
	Description string
	Footer      string
	ImageURL    string
	LinkTitle   string
	LinkURL     string
}

func gainVerb(gain decimal.Decimal) string {
	if gain.IsNegative() {
		return "lost"
	}
	return "earned"
}

func signedMoney(d decimal.Decimal, places int32) string {
	s := calculator.Money(d, places)
	if !d.IsNegative() {
		return "+" + s
	}
	return s
}
