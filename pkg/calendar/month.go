package calendar

import (
	"fmt"
	"time"
)

// DateLayout is the ISO calendar date format exchanged with the backend.
const DateLayout = "2006-01-02"

// Month is the calendar page a visitor is browsing. Month is 1-based.
type Month struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

// Normalize folds any month number into [1,12], carrying whole years, so
// month 0 becomes December of year-1 and month 13 becomes January of year+1.
func Normalize(month, year int) Month {
	m := month - 1
	year += floorDiv(m, 12)
	m -= floorDiv(m, 12) * 12
	return Month{Month: m + 1, Year: year}
}

func MonthOf(t time.Time) Month {
	return Month{Month: int(t.Month()), Year: t.Year()}
}

func (m Month) Shift(delta int) Month {
	return Normalize(m.Month+delta, m.Year)
}

func (m Month) Next() Month { return m.Shift(1) }

func (m Month) Prev() Month { return m.Shift(-1) }

func (m Month) Valid() bool {
	return m.Month >= 1 && m.Month <= 12
}

// First returns midnight of the 1st of the month in loc.
func (m Month) First(loc *time.Location) time.Time {
	return time.Date(m.Year, time.Month(m.Month), 1, 0, 0, 0, 0, loc)
}

// Contains reports whether an ISO date string falls inside the month.
func (m Month) Contains(date string) bool {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return false
	}
	return t.Year() == m.Year && int(t.Month()) == m.Month
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, m.Month)
}

// DaysIn returns the number of days in the month, handling leap years.
func DaysIn(month, year int) int {
	n := Normalize(month, year)
	// Day 0 of the following month is the last day of this one.
	return time.Date(n.Year, time.Month(n.Month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Midnight truncates t to 00:00 in its own location.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// IsPast reports whether the ISO date lies strictly before today's local midnight.
func IsPast(date string, today time.Time) (bool, error) {
	t, err := time.ParseInLocation(DateLayout, date, today.Location())
	if err != nil {
		return false, fmt.Errorf("invalid date %q: %w", date, err)
	}
	return t.Before(Midnight(today)), nil
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
