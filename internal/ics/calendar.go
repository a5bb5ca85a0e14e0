package ics

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/julianstephens/tally/internal/constants"
	"github.com/julianstephens/tally/internal/logger"
	"github.com/julianstephens/tally/internal/models"
	"github.com/julianstephens/tally/internal/utils"
)

const productID = "-//tally//challenge schedules//EN"

// BuildCalendar turns challenges into recurring all-day events. Challenges
// that are never due are skipped. It returns the calendar and the number of
// events in it.
func BuildCalendar(items []models.ChallengeWithSchedule, now time.Time) (*ical.Calendar, int) {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)
	cal.SetName(constants.AppName)

	count := 0
	for _, item := range items {
		r, err := RRule(item)
		if err != nil {
			if !errors.Is(err, ErrNoOccurrences) {
				logger.Warn("Skipping challenge in calendar export", "id", item.ID, "err", err)
			}
			continue
		}
		first := r.OrigOptions.Dtstart

		event := cal.AddEvent(item.ID + "@" + constants.AppName)
		event.SetDtStampTime(now.UTC())
		event.SetCreatedTime(item.CreatedAt.UTC())
		event.SetModifiedAt(item.UpdatedAt.UTC())
		event.SetSummary(item.Title)
		event.SetDescription(describe(item))
		event.SetAllDayStartAt(first)
		event.SetAllDayEndAt(utils.AddDays(first, 1))
		event.SetProperty(ical.ComponentPropertyRrule, r.OrigOptions.RRuleString())
		count++
	}
	return cal, count
}

// Write serializes the calendar for items to w.
func Write(w io.Writer, items []models.ChallengeWithSchedule, now time.Time) (int, error) {
	cal, count := BuildCalendar(items, now)
	if _, err := io.WriteString(w, cal.Serialize()); err != nil {
		return 0, fmt.Errorf("failed to write calendar: %w", err)
	}
	return count, nil
}

func describe(item models.ChallengeWithSchedule) string {
	var parts []string
	if item.Description != nil {
		parts = append(parts, *item.Description)
	}
	switch {
	case item.IsBinary():
		parts = append(parts, "Mark as done")
	case item.TargetValue != nil:
		parts = append(parts, fmt.Sprintf("Target: %g %s", *item.TargetValue, item.UnitLabel()))
	case item.Unit != nil:
		parts = append(parts, "Log "+item.UnitLabel())
	}
	return strings.Join(parts, "\n")
}
