package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"BitcoinHindsight/internal/model"
)

var now = time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC)

func TestResolvePurchaseDate_Day(t *testing.T) {
	for _, n := range []int{1, 2, 7, 30, 365, 1000} {
		ref := model.TimeReference{Unit: model.UnitDay, Offset: n}
		got := ResolvePurchaseDate(ref, now)
		assert.Equal(t, now.AddDate(0, 0, -n), got, "offset %d", n)
	}
}

func TestResolvePurchaseDate_DayDefaultsToOneAgo(t *testing.T) {
	got := ResolvePurchaseDate(model.TimeReference{Unit: model.UnitDay}, now)
	assert.Equal(t, "2024-03-14", Format(got))
}

func TestResolvePurchaseDate_Month(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		ref  model.TimeReference
		want string
	}{
		{"end of last month, leap february", now, model.TimeReference{Unit: model.UnitMonth, Period: model.PeriodEnd, Offset: 1}, "2024-02-29"},
		{"beginning two months ago", now, model.TimeReference{Unit: model.UnitMonth, Period: model.PeriodBeginning, Offset: 2}, "2024-01-01"},
		{"beginning of this month", now, model.TimeReference{Unit: model.UnitMonth, Period: model.PeriodBeginning}, "2024-03-01"},
		{"plain month ago keeps the day", now, model.TimeReference{Unit: model.UnitMonth, Offset: 1}, "2024-02-15"},
		{"plain month ago rolls over", time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC), model.TimeReference{Unit: model.UnitMonth}, "2024-03-02"},
		{"end of month across year boundary", time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC), model.TimeReference{Unit: model.UnitMonth, Period: model.PeriodEnd, Offset: 2}, "2023-11-30"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(ResolvePurchaseDate(tt.ref, tt.now)))
		})
	}
}

func TestResolvePurchaseDate_Year(t *testing.T) {
	tests := []struct {
		name string
		ref  model.TimeReference
		want string
	}{
		{"end of year three years ago", model.TimeReference{Unit: model.UnitYear, Period: model.PeriodEnd, Offset: 3}, "2021-12-31"},
		{"beginning of this year", model.TimeReference{Unit: model.UnitYear, Period: model.PeriodBeginning}, "2024-01-01"},
		{"a year ago", model.TimeReference{Unit: model.UnitYear}, "2023-03-15"},
		{"absolute year keeps today's day", model.TimeReference{Unit: model.UnitYear, Offset: 2021}, "2021-03-15"},
		{"absolute year with period", model.TimeReference{Unit: model.UnitYear, Period: model.PeriodEnd, Offset: 2021}, "2021-12-31"},
		{"dead zone leaves the year alone", model.TimeReference{Unit: model.UnitYear, Period: model.PeriodBeginning, Offset: 50}, "2024-01-01"},
		{"upper edge of dead zone", model.TimeReference{Unit: model.UnitYear, Offset: 2000}, "2024-03-15"},
		{"lower edge of dead zone", model.TimeReference{Unit: model.UnitYear, Offset: 20}, "2024-03-15"},
		{"largest relative offset", model.TimeReference{Unit: model.UnitYear, Offset: 19}, "2005-03-15"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(ResolvePurchaseDate(tt.ref, now)))
		})
	}
}

func TestResolvePurchaseDate_NoUnit(t *testing.T) {
	ref := model.TimeReference{Period: model.PeriodEnd, Offset: 4}
	assert.False(t, HasUnit(ref))
	assert.Equal(t, now, ResolvePurchaseDate(ref, now))
}

func TestSellDate(t *testing.T) {
	assert.Equal(t, "2024-03-14", Format(SellDate(now)))
	assert.Equal(t, "2024-02-29", Format(SellDate(time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC))))

	pair := Resolve(model.TimeReference{Unit: model.UnitYear, Offset: 2021}, now)
	assert.Equal(t, "2024-03-14", Format(pair.Sell))
	assert.Equal(t, "2021-03-15", Format(pair.Purchase))
}

func TestFormat_ZeroPads(t *testing.T) {
	assert.Equal(t, "2019-07-05", Format(time.Date(2019, time.July, 5, 23, 59, 0, 0, time.UTC)))
}

func TestToday(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	late := time.Date(2024, time.March, 15, 22, 0, 0, 0, time.UTC)
	got := Today(late, loc)
	assert.Equal(t, "2024-03-16", Format(got))
	assert.Equal(t, 0, got.Hour())
}

func TestPeriods(t *testing.T) {
	got := Periods(now)
	want := []string{"2024-03-01", "2024-01-01", "2023-03-15", "2022-03-15", "2021-03-15"}
	if assert.Len(t, got, len(want)) {
		for i, p := range got {
			assert.Equal(t, want[i], Format(p.Date), p.Label)
		}
	}
}
