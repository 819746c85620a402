package agent

// Intent is one of the intents this webhook fulfills.
type Intent int

const (
	IntentUnknown Intent = iota
	IntentWelcome
	IntentFallback
	IntentEarn
	IntentEarnInPeriod
)

var intentNames = [...]string{
	IntentUnknown:      "",
	IntentWelcome:      "Default Welcome Intent",
	IntentFallback:     "Default Fallback Intent",
	IntentEarn:         "Earn with Bitcoin",
	IntentEarnInPeriod: "Earn with Bitcoin in specific period",
}

// String returns the Dialogflow display name of the intent.
func (i Intent) String() string {
	if i < 0 || int(i) >= len(intentNames) {
		return ""
	}
	return intentNames[i]
}

// ParseIntent maps a display name to an Intent. Names match exactly.
func ParseIntent(name string) (Intent, bool) {
	for i, n := range intentNames {
		if n != "" && n == name {
			return Intent(i), true
		}
	}
	return IntentUnknown, false
}
