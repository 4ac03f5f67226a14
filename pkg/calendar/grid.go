// Package calendar builds the month grid shown on the public booking page.
//
// Everything here is pure: "today" is always an argument, so the same inputs
// produce the same grid.
package calendar

import "time"

// Cell is one square of a 7-column, Monday-first month grid.
// Padding cells before the 1st have Day == 0.
type Cell struct {
	Day       int    `json:"day"`
	Date      string `json:"date,omitempty"`
	IsPast    bool   `json:"is_past"`
	Available bool   `json:"available"`
}

func (c Cell) IsPadding() bool {
	return c.Day == 0
}

// Selectable is true only for real, non-past days the backend reported as available.
func (c Cell) Selectable() bool {
	return c.Day > 0 && !c.IsPast && c.Available
}

// LeadingPadding is the number of blank cells before the 1st, with Monday = 0.
func LeadingPadding(month, year int) int {
	n := Normalize(month, year)
	first := n.First(time.UTC)
	return (int(first.Weekday()) + 6) % 7
}

// BuildGrid lays out the month row-major for a 7-column grid: LeadingPadding
// blank cells followed by one cell per day. Days are compared against the
// local midnight of today, in today's location.
func BuildGrid(month, year int, today time.Time, available DateSet) []Cell {
	n := Normalize(month, year)
	padding := LeadingPadding(n.Month, n.Year)
	days := DaysIn(n.Month, n.Year)
	todayMidnight := Midnight(today)
	loc := today.Location()

	cells := make([]Cell, 0, padding+days)
	for i := 0; i < padding; i++ {
		cells = append(cells, Cell{Day: 0, IsPast: true, Available: false})
	}

	for day := 1; day <= days; day++ {
		d := time.Date(n.Year, time.Month(n.Month), day, 0, 0, 0, 0, loc)
		date := d.Format(DateLayout)
		cells = append(cells, Cell{
			Day:       day,
			Date:      date,
			IsPast:    d.Before(todayMidnight),
			Available: available.Has(date),
		})
	}

	return cells
}

// Rows splits a grid into weeks of 7 cells; the last row may be shorter.
func Rows(cells []Cell) [][]Cell {
	rows := make([][]Cell, 0, (len(cells)+6)/7)
	for start := 0; start < len(cells); start += 7 {
		end := min(start+7, len(cells))
		rows = append(rows, cells[start:end])
	}
	return rows
}
