package calendar

import (
	"time"

	"github.com/christopherklint97/studyr/internal/planner"
)

// Day is one cell of a month grid.
type Day struct {
	Date    time.Time
	InMonth bool
	Events  []Event
}

// Month is a six-week, Monday-first grid covering a calendar month.
type Month struct {
	Year  int
	Month time.Month
	Weeks [6][7]Day
}

// MonthGrid lays out the month containing ref. Leading and trailing cells
// come from the neighbouring months; events are attached to their day.
func MonthGrid(ref time.Time, events []Event) Month {
	loc := ref.Location()
	first := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, loc)
	offset := (int(first.Weekday()) + 6) % 7 // Monday = 0
	start := first.AddDate(0, 0, -offset)

	byDay := GroupByDay(events, loc)

	m := Month{Year: first.Year(), Month: first.Month()}
	for w := 0; w < 6; w++ {
		for d := 0; d < 7; d++ {
			date := start.AddDate(0, 0, w*7+d)
			m.Weeks[w][d] = Day{
				Date:    date,
				InMonth: date.Month() == first.Month(),
				Events:  byDay[date.Format(planner.DateLayout)],
			}
		}
	}
	return m
}
