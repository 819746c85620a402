// Package dates turns coarse spoken time references into calendar days.
package dates

import (
	"time"

	"BitcoinHindsight/internal/model"
)

// Layout is the wire format used by the price sources.
const Layout = "2006-01-02"

const (
	absoluteYearFloor = 2000
	relativeYearCeil  = 20
)

// Format renders t as YYYY-MM-DD.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// Today truncates now to midnight in loc. A nil loc keeps now's location.
func Today(now time.Time, loc *time.Location) time.Time {
	if loc != nil {
		now = now.In(loc)
	}
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}

// HasUnit reports whether the reference carries enough information to pick a date.
func HasUnit(ref model.TimeReference) bool {
	switch ref.Unit {
	case model.UnitDay, model.UnitMonth, model.UnitYear:
		return true
	default:
		return false
	}
}

// SellDate is always the day before now; same-day closes are not published yet.
func SellDate(now time.Time) time.Time {
	return now.AddDate(0, 0, -1)
}

// ResolvePurchaseDate maps ref onto a calendar day relative to now.
// An unknown or empty unit returns now unchanged.
func ResolvePurchaseDate(ref model.TimeReference, now time.Time) time.Time {
	ref = ref.Normalize()

	switch ref.Unit {
	case model.UnitDay:
		return now.AddDate(0, 0, -ref.Offset)

	case model.UnitMonth:
		t := now.AddDate(0, -ref.Offset, 0)
		switch ref.Period {
		case model.PeriodEnd:
			return time.Date(t.Year(), t.Month(), daysIn(t.Year(), t.Month()), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
		case model.PeriodBeginning:
			return time.Date(t.Year(), t.Month(), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
		}
		return t

	case model.UnitYear:
		year, month, day := now.Date()
		switch ref.Period {
		case model.PeriodEnd:
			month, day = time.December, 31
		case model.PeriodBeginning:
			month, day = time.January, 1
		}
		// Numbers above 2000 are spoken years ("in 2017"); small numbers are offsets.
		// Anything in between is left alone.
		if ref.Offset > absoluteYearFloor {
			year = ref.Offset
		} else if ref.Offset < relativeYearCeil {
			year = now.Year() - ref.Offset
		}
		return time.Date(year, month, day, now.Hour(), now.Minute(), now.Second(), now.Nanosecond(), now.Location())
	}

	return now
}

// Resolve computes both the purchase and the sell day for ref.
func Resolve(ref model.TimeReference, now time.Time) model.DatePair {
	return model.DatePair{
		Purchase: ResolvePurchaseDate(ref, now),
		Sell:     SellDate(now),
	}
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
