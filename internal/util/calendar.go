package util

import "time"

// IsTradingDay reports whether t falls on a weekday. Exchange holidays are
// not modelled; a few extra calendar days only widen the bar query range.
func IsTradingDay(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// TradingDayWindow returns the start time such that [start, end] spans the
// given number of trading days, counting end itself when it is a weekday.
func TradingDayWindow(end time.Time, days int) time.Time {
	if days <= 0 {
		return end
	}

	remaining := days
	cur := end
	for {
		if IsTradingDay(cur) {
			remaining--
			if remaining == 0 {
				return cur
			}
		}
		cur = cur.AddDate(0, 0, -1)
	}
}

// PrevTradingDay returns the most recent weekday at or before t.
func PrevTradingDay(t time.Time) time.Time {
	for !IsTradingDay(t) {
		t = t.AddDate(0, 0, -1)
	}
	return t
}
