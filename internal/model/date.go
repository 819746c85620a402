package model

import "time"

// DateUnit is the granularity of a spoken time reference.
type DateUnit string

const (
	UnitNone  DateUnit = ""
	UnitDay   DateUnit = "day"
	UnitMonth DateUnit = "month"
	UnitYear  DateUnit = "year"
)

// DatePeriod anchors a month or year reference to its first or last day.
type DatePeriod string

const (
	PeriodNone      DatePeriod = ""
	PeriodBeginning DatePeriod = "beginning"
	PeriodEnd       DatePeriod = "end"
)

// TimeReference is the coarse date the user asked about, e.g. "end of the year 3 years ago".
type TimeReference struct {
	Unit   DateUnit
	Period DatePeriod
	Offset int
}

// Normalize applies the "a period ago" default: no period and no number means offset 1.
func (r TimeReference) Normalize() TimeReference {
	if r.Offset < 0 {
		r.Offset = 0
	}
	if r.Period == PeriodNone && r.Offset == 0 {
		r.Offset = 1
	}
	return r
}

// DatePair holds the purchase day and the day the position is valued at.
type DatePair struct {
	Purchase time.Time
	Sell     time.Time
}

// String renders the pair as "purchase..sell" in YYYY-MM-DD form.
func (p DatePair) String() string {
	return p.Purchase.Format("2006-01-02") + ".." + p.Sell.Format("2006-01-02")
}
