package agent

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BitcoinHindsight/internal/collector"
	"BitcoinHindsight/internal/dialogflow"
	"BitcoinHindsight/internal/reply"
)

const session = "projects/hindsight/agent/sessions/test"

var fixedNow = time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)

func newAgent(prices map[string]float64) (*Agent, *collector.MockFetcher) {
	mock := &collector.MockFetcher{Prices: prices}
	a := New(collector.NewCollector(mock, zerolog.Nop()), Config{Currency: "EUR", Location: time.UTC}, zerolog.Nop())
	a.SetClock(func() time.Time { return fixedNow })
	return a, mock
}

func request(intent string, params map[string]string) *dialogflow.WebhookRequest {
	req := &dialogflow.WebhookRequest{Session: session}
	req.QueryResult.Intent.DisplayName = intent
	if params != nil {
		req.QueryResult.Parameters = map[string]json.RawMessage{}
		for k, v := range params {
			req.QueryResult.Parameters[k] = json.RawMessage(v)
		}
	}
	return req
}

func withAmount(req *dialogflow.WebhookRequest, amount string) *dialogflow.WebhookRequest {
	req.QueryResult.OutputContexts = append(req.QueryResult.OutputContexts, dialogflow.Context{
		Name:       session + "/contexts/_actions_on_google",
		Parameters: map[string]any{"data": `{"bitcoinInvestment":` + amount + `}`},
	})
	return req
}

func googleScreen(req *dialogflow.WebhookRequest) *dialogflow.WebhookRequest {
	req.OriginalDetectIntentRequest = &dialogflow.OriginalRequest{
		Source:  "google",
		Payload: json.RawMessage(`{"surface":{"capabilities":[{"name":"actions.capability.SCREEN_OUTPUT"}]}}`),
	}
	return req
}

func TestHandle_WelcomeIgnoresParameters(t *testing.T) {
	a, mock := newAgent(nil)
	for _, params := range []map[string]string{nil, {"buyDate": `{"date-unit":"year","number":3}`}} {
		resp, err := a.Handle(context.Background(), request("Default Welcome Intent", params))
		require.NoError(t, err)
		assert.Equal(t, reply.WelcomeText, resp.FulfillmentText)
	}
	assert.Empty(t, mock.Calls)
}

func TestHandle_InitializesSessionAmount(t *testing.T) {
	a, _ := newAgent(nil)
	resp, err := a.Handle(context.Background(), request("Default Welcome Intent", nil))
	require.NoError(t, err)

	require.Len(t, resp.OutputContexts, 1)
	assert.Equal(t, session+"/contexts/_actions_on_google", resp.OutputContexts[0].Name)
	assert.Equal(t, `{"bitcoinInvestment":10000}`, resp.OutputContexts[0].Parameters["data"])
}

func TestHandle_KeepsExistingSessionAmount(t *testing.T) {
	a, _ := newAgent(nil)
	resp, err := a.Handle(context.Background(), withAmount(request("Default Welcome Intent", nil), "2500"))
	require.NoError(t, err)
	assert.Equal(t, `{"bitcoinInvestment":2500}`, resp.OutputContexts[0].Parameters["data"])
}

func TestHandle_Fallback(t *testing.T) {
	a, _ := newAgent(nil)
	resp, err := a.Handle(context.Background(), request("Default Fallback Intent", nil))
	require.NoError(t, err)
	require.Len(t, resp.FulfillmentMessages, 2)
	assert.Equal(t, []string{reply.NotUnderstood}, resp.FulfillmentMessages[0].Text.Text)
	assert.Equal(t, []string{reply.TryAgain}, resp.FulfillmentMessages[1].Text.Text)
}

func TestHandle_EarnInPeriod(t *testing.T) {
	a, mock := newAgent(map[string]float64{
		"2021-12-31": 2000,
		"2024-03-14": 2200,
	})
	req := withAmount(request("Earn with Bitcoin in specific period",
		map[string]string{"buyDate": `{"date-unit":"year","date-period":"end","number":3}`}), "10000")

	resp, err := a.Handle(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, []string{"2021-12-31", "2024-03-14"}, mock.Calls)
	assert.Contains(t, resp.FulfillmentText, "Investment price on Fri Dec 31 2021 was: 2,000.00 EUR.")
	assert.Contains(t, resp.FulfillmentText, "you would buy 5.00 bitcoins")
	assert.Contains(t, resp.FulfillmentText, "you would have earned 1,000.00 EUR.")
	require.Len(t, resp.FulfillmentMessages, 2)
	assert.Equal(t, "Bitcoin bought on Fri Dec 31 2021", resp.FulfillmentMessages[1].Card.Title)
}

func TestHandle_EarnInPeriodUsesSessionAmount(t *testing.T) {
	a, _ := newAgent(map[string]float64{
		"2024-03-14": 2200,
		"2024-03-08": 2000,
	})
	req := withAmount(request("Earn with Bitcoin in specific period",
		map[string]string{"buyDate": `{"date-unit":"day","number":7}`}), "2500")

	resp, err := a.Handle(context.Background(), req)
	require.NoError(t, err)
	assert.Contains(t, resp.FulfillmentText, "With the investment of 2,500 EUR you would buy 1.25 bitcoins.")
	assert.Contains(t, resp.FulfillmentText, "earned 250.00 EUR")
}

func TestHandle_EarnInPeriodMissingPrice(t *testing.T) {
	a, mock := newAgent(map[string]float64{"2024-03-14": 2200})
	req := request("Earn with Bitcoin in specific period",
		map[string]string{"buyDate": `{"date-unit":"year","number":2017}`})

	resp, err := a.Handle(context.Background(), req)
	require.NoError(t, err)

	assert.Len(t, mock.Calls, 2)
	assert.Contains(t, resp.FulfillmentText, "I don't have the Bitcoin price for Wed Mar 15 2017")
	assert.NotContains(t, resp.FulfillmentText, "NaN")
	assert.NotContains(t, resp.FulfillmentText, "Infinity")
	assert.Len(t, resp.FulfillmentMessages, 1)
}

func TestHandle_EarnInPeriodWithoutDate(t *testing.T) {
	tests := []struct {
		name   string
		params map[string]string
	}{
		{"no parameter", nil},
		{"empty parameter", map[string]string{"buyDate": `""`}},
		{"no unit", map[string]string{"buyDate": `{"date-period":"end"}`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, mock := newAgent(nil)
			resp, err := a.Handle(context.Background(), request("Earn with Bitcoin in specific period", tt.params))
			require.NoError(t, err)
			assert.Equal(t, reply.AskPeriodText, resp.FulfillmentText)
			assert.Empty(t, mock.Calls)
		})
	}
}

func TestHandle_EarnComparesPeriods(t *testing.T) {
	a, mock := newAgent(map[string]float64{
		"2024-03-14": 60000,
		"2024-03-01": 50000,
		"2024-01-01": 40000,
		"2023-03-15": 20000,
		"2022-03-15": 37500,
		"2021-03-15": 48000,
	})
	resp, err := a.Handle(context.Background(), googleScreen(request("Earn with Bitcoin", nil)))
	require.NoError(t, err)

	assert.Equal(t, "2024-03-14", mock.Calls[0])
	assert.Len(t, mock.Calls, 6)
	assert.Equal(t, "With an investment of 10,000 EUR in Bitcoin: "+
		"This month: you would have earned 2,000 EUR. "+
		"This year: you would have earned 5,000 EUR. "+
		"1 year ago: you would have earned 20,000 EUR. "+
		"2 years ago: you would have earned 6,000 EUR. "+
		"3 years ago: you would have earned 2,500 EUR.", resp.FulfillmentText)

	require.NotNil(t, resp.Payload)
	items := resp.Payload.Google.RichResponse.Items
	require.Len(t, items, 2)
	require.NotNil(t, items[1].CarouselBrowse)
	assert.Len(t, items[1].CarouselBrowse.Items, 5)
	assert.Equal(t, "This month", items[1].CarouselBrowse.Items[0].Title)
}

func TestHandle_EarnWithoutSellPrice(t *testing.T) {
	a, mock := newAgent(map[string]float64{"2024-03-01": 50000})
	resp, err := a.Handle(context.Background(), request("Earn with Bitcoin", nil))
	require.NoError(t, err)
	assert.Len(t, mock.Calls, 1)
	assert.Contains(t, resp.FulfillmentText, "yesterday's Bitcoin price is not available")
}

func TestHandle_UnknownIntent(t *testing.T) {
	a, _ := newAgent(nil)
	resp, err := a.Handle(context.Background(), request("Order Pizza", nil))
	require.NoError(t, err)
	assert.Empty(t, resp.FulfillmentText)
	assert.Nil(t, resp.OutputContexts)
}

func TestHandle_CanceledContext(t *testing.T) {
	a, _ := newAgent(map[string]float64{"2024-03-14": 1})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := a.Handle(ctx, request("Earn with Bitcoin", nil))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseIntent(t *testing.T) {
	for _, in := range []Intent{IntentWelcome, IntentFallback, IntentEarn, IntentEarnInPeriod} {
		got, ok := ParseIntent(in.String())
		assert.True(t, ok, in.String())
		assert.Equal(t, in, got)
	}
	_, ok := ParseIntent("earn with bitcoin")
	assert.False(t, ok)
	_, ok = ParseIntent("")
	assert.False(t, ok)
	assert.Equal(t, "", Intent(42).String())
}
