package dates

import (
	"time"

	"BitcoinHindsight/internal/model"
)

// Period is one entry of the "how would I have done" comparison.
type Period struct {
	Label string
	Ref   model.TimeReference
}

// ComparisonPeriods are the fixed periods answered by the multi-period intent.
var ComparisonPeriods = []Period{
	{Label: "This month", Ref: model.TimeReference{Unit: model.UnitMonth, Period: model.PeriodBeginning, Offset: 0}},
	{Label: "This year", Ref: model.TimeReference{Unit: model.UnitYear, Period: model.PeriodBeginning, Offset: 0}},
	{Label: "1 year ago", Ref: model.TimeReference{Unit: model.UnitYear, Offset: 1}},
	{Label: "2 years ago", Ref: model.TimeReference{Unit: model.UnitYear, Offset: 2}},
	{Label: "3 years ago", Ref: model.TimeReference{Unit: model.UnitYear, Offset: 3}},
}

// PeriodDate is a resolved comparison period.
type PeriodDate struct {
	Label string
	Date  time.Time
}

// Periods resolves ComparisonPeriods against now.
func Periods(now time.Time) []PeriodDate {
	out := make([]PeriodDate, 0, len(ComparisonPeriods))
	for _, p := range ComparisonPeriods {
		out = append(out, PeriodDate{Label: p.Label, Date: ResolvePurchaseDate(p.Ref, now)})
	}
	return out
}
