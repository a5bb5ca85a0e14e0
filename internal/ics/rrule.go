package ics

import (
	"errors"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/julianstephens/tally/internal/constants"
	"github.com/julianstephens/tally/internal/models"
	"github.com/julianstephens/tally/internal/utils"
)

// ErrNoOccurrences is returned for a challenge that is never due, e.g. a
// paused challenge or a weekly schedule without days.
var ErrNoOccurrences = errors.New("challenge has no occurrences")

// ErrUnsupportedSchedule is returned for frequencies and monthly rules that
// have no recurrence rule equivalent.
var ErrUnsupportedSchedule = errors.New("unsupported schedule")

// weekdays maps Monday-indexed weekdays to rrule weekdays.
var weekdays = [constants.DaysPerWeek]rrule.Weekday{
	rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA, rrule.SU,
}

// FirstOccurrence returns the first date in the challenge's range on which it
// is due.
func FirstOccurrence(item models.ChallengeWithSchedule) (time.Time, bool) {
	sched, ok := item.Schedule()
	if !ok {
		return time.Time{}, false
	}
	start, err := utils.ParseDate(item.StartDate)
	if err != nil {
		return time.Time{}, false
	}
	end, err := utils.ParseDate(item.EndDate)
	if err != nil {
		return time.Time{}, false
	}
	for d := start; !d.After(end); d = utils.AddDays(d, 1) {
		if utils.Occurs(item.Challenge, sched, d) {
			return d, true
		}
	}
	return time.Time{}, false
}

// RRule builds the recurrence rule for a challenge's schedule. DTSTART is the
// first due date rather than the start date so that the start is always an
// instance of the rule. UNTIL is the end date.
func RRule(item models.ChallengeWithSchedule) (*rrule.RRule, error) {
	sched, ok := item.Schedule()
	if !ok {
		return nil, ErrNoOccurrences
	}
	first, ok := FirstOccurrence(item)
	if !ok {
		return nil, ErrNoOccurrences
	}
	end, err := utils.ParseDate(item.EndDate)
	if err != nil {
		return nil, err
	}

	opt := rrule.ROption{
		Dtstart: first,
		Until:   end,
	}
	switch sched.Frequency {
	case constants.FrequencyDaily:
		opt.Freq = rrule.DAILY
	case constants.FrequencyWeekly:
		opt.Freq = rrule.WEEKLY
		for _, d := range utils.NormalizeWeekdays(sched.WeeklyDays) {
			opt.Byweekday = append(opt.Byweekday, weekdays[d])
		}
	case constants.FrequencyMonthly:
		if sched.MonthlyRule == nil || *sched.MonthlyRule != constants.MonthlyFirstDay {
			return nil, ErrUnsupportedSchedule
		}
		opt.Freq = rrule.MONTHLY
		opt.Bymonthday = []int{1}
	default:
		return nil, ErrUnsupportedSchedule
	}

	return rrule.NewRRule(opt)
}

// Expand lists the dates between from and to (inclusive) produced by the
// challenge's recurrence rule.
func Expand(item models.ChallengeWithSchedule, from, to time.Time) ([]time.Time, error) {
	r, err := RRule(item)
	if err != nil {
		if errors.Is(err, ErrNoOccurrences) {
			return nil, nil
		}
		return nil, err
	}
	return r.Between(utils.DateOnly(from), utils.DateOnly(to), true), nil
}
