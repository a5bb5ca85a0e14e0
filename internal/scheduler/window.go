package scheduler

import (
	"time"

	"github.com/julianstephens/tally/internal/constants"
	"github.com/julianstephens/tally/internal/utils"
)

// StartOfWeek returns the Monday on or before anchor.
func StartOfWeek(anchor time.Time) time.Time {
	date := utils.DateOnly(anchor)
	return date.AddDate(0, 0, -utils.MondayIndex(date))
}

// WeekWindow returns the seven dates Monday through Sunday of the week
// containing anchor.
func WeekWindow(anchor time.Time) []time.Time {
	return Window(StartOfWeek(anchor), constants.DaysPerWeek)
}

// MonthWindow returns every date of the calendar month containing anchor.
func MonthWindow(anchor time.Time) []time.Time {
	date := utils.DateOnly(anchor)
	first := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, time.UTC)
	days := first.AddDate(0, 1, -1).Day()
	return Window(first, days)
}

// Window returns n consecutive calendar dates starting at start.
func Window(start time.Time, n int) []time.Time {
	if n <= 0 {
		return []time.Time{}
	}
	first := utils.DateOnly(start)
	dates := make([]time.Time, n)
	for i := range dates {
		dates[i] = first.AddDate(0, 0, i)
	}
	return dates
}

// Bounds returns the first and last date of a window.
func Bounds(dates []time.Time) (time.Time, time.Time, bool) {
	if len(dates) == 0 {
		return time.Time{}, time.Time{}, false
	}
	return dates[0], dates[len(dates)-1], true
}
