// Package dialogflow models the Dialogflow v2 fulfillment webhook contract
// and the Actions on Google payload carried inside it.
package dialogflow

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"BitcoinHindsight/internal/model"
)

// CapabilityScreen marks a surface that can render cards and carousels.
const CapabilityScreen = "actions.capability.SCREEN_OUTPUT"

// WebhookRequest is the body Dialogflow POSTs to the fulfillment endpoint.
type WebhookRequest struct {
	ResponseID                  string           `json:"responseId"`
	Session                     string           `json:"session"`
	QueryResult                 QueryResult      `json:"queryResult"`
	OriginalDetectIntentRequest *OriginalRequest `json:"originalDetectIntentRequest,omitempty"`
}

// QueryResult is the NLU classification of the user's utterance.
type QueryResult struct {
	QueryText                 string                     `json:"queryText"`
	Parameters                map[string]json.RawMessage `json:"parameters,omitempty"`
	AllRequiredParamsPresent  bool                       `json:"allRequiredParamsPresent"`
	FulfillmentText           string                     `json:"fulfillmentText,omitempty"`
	OutputContexts            []Context                  `json:"outputContexts,omitempty"`
	Intent                    Intent                     `json:"intent"`
	IntentDetectionConfidence float64                    `json:"intentDetectionConfidence"`
	LanguageCode              string                     `json:"languageCode"`
}

// Intent identifies the matched intent.
type Intent struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

// Context is a Dialogflow context; it carries state between turns.
type Context struct {
	Name          string         `json:"name"`
	LifespanCount int            `json:"lifespanCount,omitempty"`
	Parameters    map[string]any `json:"parameters,omitempty"`
}

// OriginalRequest is the integration-specific request (Actions on Google, Slack...).
type OriginalRequest struct {
	Source  string          `json:"source"`
	Version string          `json:"version,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type googlePayload struct {
	Surface struct {
		Capabilities []struct {
			Name string `json:"name"`
		} `json:"capabilities"`
	} `json:"surface"`
}

// IntentName returns the display name of the matched intent.
func (r *WebhookRequest) IntentName() string {
	return r.QueryResult.Intent.DisplayName
}

// Source returns the integration that relayed the request, or "" for the console.
func (r *WebhookRequest) Source() string {
	if r.OriginalDetectIntentRequest == nil {
		return ""
	}
	return r.OriginalDetectIntentRequest.Source
}

// IsGoogle reports whether the request came through Actions on Google.
func (r *WebhookRequest) IsGoogle() bool {
	return r.Source() == "google"
}

// HasScreen reports whether the Actions on Google surface can show visual output.
func (r *WebhookRequest) HasScreen() bool {
	if !r.IsGoogle() || len(r.OriginalDetectIntentRequest.Payload) == 0 {
		return false
	}
	var p googlePayload
	if err := json.Unmarshal(r.OriginalDetectIntentRequest.Payload, &p); err != nil {
		return false
	}
	for _, c := range p.Surface.Capabilities {
		if c.Name == CapabilityScreen {
			return true
		}
	}
	return false
}

// dateParam is the composite date entity: {"date-unit": "year", "date-period": "end", "number": 3}.
type dateParam struct {
	Unit   string  `json:"date-unit"`
	Period string  `json:"date-period"`
	Number flexInt `json:"number"`
}

// TimeReference decodes the composite date parameter called name.
// ok is false when the parameter is missing or not an object.
func (r *WebhookRequest) TimeReference(name string) (ref model.TimeReference, ok bool) {
	raw, found := r.QueryResult.Parameters[name]
	if !found {
		return ref, false
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return ref, false
	}
	var p dateParam
	if err := json.Unmarshal(raw, &p); err != nil {
		return ref, false
	}
	return model.TimeReference{
		Unit:   model.DateUnit(normalizeEntity(p.Unit)),
		Period: model.DatePeriod(normalizeEntity(p.Period)),
		Offset: int(p.Number),
	}, true
}

func normalizeEntity(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "days" || s == "months" || s == "years" {
		s = strings.TrimSuffix(s, "s")
	}
	return s
}

// flexInt accepts the shapes Dialogflow uses for sys.number: 3, 3.0, "3" and "".
type flexInt int

func (n *flexInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*n = flexInt(f)
	return nil
}
