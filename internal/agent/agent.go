// Package agent dispatches Dialogflow intents to their fulfillment handlers.
package agent

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"BitcoinHindsight/internal/calculator"
	"BitcoinHindsight/internal/collector"
	"BitcoinHindsight/internal/dates"
	"BitcoinHindsight/internal/dialogflow"
	"BitcoinHindsight/internal/model"
	"BitcoinHindsight/internal/reply"
)

// DateParameter is the composite date entity filled by the period intent.
const DateParameter = "buyDate"

// Config holds the agent's presentation and session defaults.
type Config struct {
	DefaultAmount float64
	Currency      string
	ImageURL      string
	LinkURL       string
	Location      *time.Location
}

// Agent fulfills webhook requests.
type Agent struct {
	collector *collector.Collector
	format    *reply.Formatter
	cfg       Config
	now       func() time.Time
	log       zerolog.Logger
}

// New creates an Agent.
func New(col *collector.Collector, cfg Config, log zerolog.Logger) *Agent {
	if cfg.DefaultAmount <= 0 {
		cfg.DefaultAmount = 10000
	}
	return &Agent{
		collector: col,
		format:    reply.NewFormatter(cfg.Currency, cfg.ImageURL, cfg.LinkURL),
		cfg:       cfg,
		now:       time.Now,
		log:       log.With().Str("component", "agent").Logger(),
	}
}

// SetClock overrides the time source.
func (a *Agent) SetClock(now func() time.Time) {
	a.now = now
}

// Handle runs the handler for the request's intent. An unknown intent yields an
// empty response so the platform falls back to the intent's own static reply.
func (a *Agent) Handle(ctx context.Context, req *dialogflow.WebhookRequest) (*dialogflow.WebhookResponse, error) {
	session, ok := req.SessionData()
	if !ok || session.BitcoinInvestment <= 0 {
		session.BitcoinInvestment = a.cfg.DefaultAmount
	}

	intent, known := ParseIntent(req.IntentName())
	log := a.log.With().Str("intent", req.IntentName()).Str("session", req.Session).Logger()
	if !known {
		log.Warn().Msg("No handler for intent")
		return &dialogflow.WebhookResponse{}, nil
	}
	log.Debug().Float64("amount", session.BitcoinInvestment).Msg("Handling intent")

	resp := dialogflow.NewResponse(req)
	switch intent {
	case IntentWelcome:
		a.welcome(resp)
	case IntentFallback:
		a.fallback(resp)
	case IntentEarn:
		if err := a.earn(ctx, resp, session); err != nil {
			return nil, err
		}
	case IntentEarnInPeriod:
		if err := a.earnInPeriod(ctx, req, resp, session); err != nil {
			return nil, err
		}
	}

	if req.Session != "" {
		resp.AddContext(dialogflow.SessionContext(req.Session, session))
	}
	return resp.Build(), nil
}

func (a *Agent) welcome(resp *dialogflow.ResponseBuilder) {
	resp.AddText(reply.WelcomeText)
	resp.AddSuggestions(reply.Suggestions...)
}

func (a *Agent) fallback(resp *dialogflow.ResponseBuilder) {
	resp.AddText(reply.NotUnderstood, reply.TryAgain)
}

func (a *Agent) today() time.Time {
	return dates.Today(a.now(), a.cfg.Location)
}

// earnInPeriod answers a question about one purchase date.
func (a *Agent) earnInPeriod(ctx context.Context, req *dialogflow.WebhookRequest, resp *dialogflow.ResponseBuilder, session model.SessionData) error {
	ref, ok := req.TimeReference(DateParameter)
	if !ok || !dates.HasUnit(ref) {
		resp.AddText(reply.AskPeriodText)
		return nil
	}

	pair := dates.Resolve(ref, a.today())
	a.log.Debug().Stringer("dates", pair).Msg("Resolved period")
	buy, sell := a.collector.Quotes(ctx, pair)
	if err := ctx.Err(); err != nil {
		return err
	}

	amount := decimal.NewFromFloat(session.BitcoinInvestment)
	res, err := calculator.EvaluateQuotes(buy, sell, amount, pair.Purchase)
	if err != nil {
		a.log.Info().Err(err).Str("buy_date", buy.Date).Str("sell_date", sell.Date).Msg("Investment not computable")
		resp.AddText(a.format.Unavailable(pair.Purchase, buy, sell))
		return nil
	}

	resp.AddText(a.format.Investment(res))
	resp.SetCard(dialogflow.Tile(a.format.Card(res)))
	return nil
}

// earn compares a fixed set of purchase dates against yesterday's price.
func (a *Agent) earn(ctx context.Context, resp *dialogflow.ResponseBuilder, session model.SessionData) error {
	today := a.today()
	sell := a.collector.Quote(ctx, dates.Format(dates.SellDate(today)))
	if err := ctx.Err(); err != nil {
		return err
	}
	if !sell.Available {
		resp.AddText(a.format.SellUnavailable())
		return nil
	}
	amount := decimal.NewFromFloat(session.BitcoinInvestment)

	periods := dates.Periods(today)
	results := make([]model.PeriodResult, 0, len(periods))
	for _, p := range periods {
		buy := a.collector.Quote(ctx, dates.Format(p.Date))
		if err := ctx.Err(); err != nil {
			return err
		}
		res, err := calculator.EvaluateQuotes(buy, sell, amount, p.Date)
		results = append(results, model.PeriodResult{Label: p.Label, Date: p.Date, Result: res, Err: err})
	}

	resp.AddText(a.format.Summary(amount, results))
	tiles := a.format.Tiles(results)
	carousel := make([]dialogflow.Tile, 0, len(tiles))
	for _, t := range tiles {
		carousel = append(carousel, dialogflow.Tile(t))
	}
	resp.SetCarousel(carousel)
	return nil
}
