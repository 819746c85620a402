package dialogflow

import (
	"encoding/json"
	"strings"

	"BitcoinHindsight/internal/model"
)

// The Actions on Google client library keeps conversation data in this context
// as a JSON string under the "data" parameter.
const (
	sessionContextName     = "_actions_on_google"
	sessionContextLifespan = 99
	sessionDataKey         = "data"
)

// SessionData returns the conversation data carried by the request.
// ok is false when no session context is present or it cannot be decoded.
func (r *WebhookRequest) SessionData() (data model.SessionData, ok bool) {
	for _, c := range r.QueryResult.OutputContexts {
		if !strings.HasSuffix(c.Name, "/contexts/"+sessionContextName) {
			continue
		}
		raw, found := c.Parameters[sessionDataKey]
		if !found {
			return data, false
		}
		var b []byte
		switch v := raw.(type) {
		case string:
			b = []byte(v)
		default:
			var err error
			if b, err = json.Marshal(v); err != nil {
				return data, false
			}
		}
		if err := json.Unmarshal(b, &data); err != nil {
			return model.SessionData{}, false
		}
		return data, true
	}
	return data, false
}

// SessionContext builds the context that hands data back to the platform.
func SessionContext(session string, data model.SessionData) Context {
	b, _ := json.Marshal(data)
	return Context{
		Name:          session + "/contexts/" + sessionContextName,
		LifespanCount: sessionContextLifespan,
		Parameters:    map[string]any{sessionDataKey: string(b)},
	}
}
