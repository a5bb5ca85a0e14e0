package utils

import (
	"time"

	"github.com/julianstephens/tally/internal/constants"
	"github.com/julianstephens/tally/internal/models"
)

// Occurs determines if a challenge is due on the given date based on its
// schedule. This logic is shared between validation, progress reporting and
// the scheduler so all of them agree on what "due" means.
//
// Unknown frequencies and monthly rules never occur; they are not errors.
func Occurs(challenge models.Challenge, schedule models.Schedule, date time.Time) bool {
	if !challenge.IsActive {
		return false
	}
	if !InRange(date, challenge.StartDate, challenge.EndDate) {
		return false
	}

	switch schedule.Frequency {
	case constants.FrequencyDaily:
		return true
	case constants.FrequencyWeekly:
		idx := MondayIndex(date)
		for _, wd := range schedule.WeeklyDays {
			if wd == idx {
				return true
			}
		}
		return false
	case constants.FrequencyMonthly:
		if schedule.MonthlyRule == nil {
			return false
		}
		switch *schedule.MonthlyRule {
		case constants.MonthlyFirstDay:
			return date.Day() == 1
		default:
			return false
		}
	default:
		return false
	}
}

// InRange reports whether date falls within the inclusive [start, end] range
// of YYYY-MM-DD bounds. Unparsable bounds exclude every date.
func InRange(date time.Time, start, end string) bool {
	startDate, err := ParseDate(start)
	if err != nil {
		return false
	}
	endDate, err := ParseDate(end)
	if err != nil {
		return false
	}
	d := DateOnly(date)
	return !d.Before(startDate) && !d.After(endDate)
}

// NormalizeWeekdays collapses duplicates and sorts Monday-indexed weekdays,
// dropping values outside 0..6.
func NormalizeWeekdays(days []int) []int {
	var seen [constants.DaysPerWeek]bool
	for _, d := range days {
		if d >= 0 && d < constants.DaysPerWeek {
			seen[d] = true
		}
	}
	out := []int{}
	for d, ok := range seen {
		if ok {
			out = append(out, d)
		}
	}
	return out
}

// CountOccurrences counts the dates in the inclusive [from, to] range on which
// the challenge is due.
func CountOccurrences(challenge models.Challenge, schedule models.Schedule, from, to time.Time) int {
	count := 0
	for d := DateOnly(from); !d.After(DateOnly(to)); d = d.AddDate(0, 0, 1) {
		if Occurs(challenge, schedule, d) {
			count++
		}
	}
	return count
}
