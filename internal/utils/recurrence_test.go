package utils

import (
	"testing"
	"time"

	"github.com/julianstephens/tally/internal/constants"
	"github.com/julianstephens/tally/internal/models"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(constants.DateFormat, s)
	if err != nil {
		t.Fatalf("failed to parse %q: %v", s, err)
	}
	return d
}

func activeChallenge(start, end string) models.Challenge {
	return models.Challenge{
		ID:        "c1",
		Title:     "Run",
		Type:      constants.ChallengeQuantitative,
		StartDate: start,
		EndDate:   end,
		IsActive:  true,
	}
}

func monthlyRule(r constants.MonthlyRule) *constants.MonthlyRule {
	return &r
}

func TestOccurs_Daily(t *testing.T) {
	ch := activeChallenge("2024-01-01", "2024-12-31")
	sched := models.Schedule{ChallengeID: "c1", Frequency: constants.FrequencyDaily}

	for _, day := range []string{"2024-01-01", "2024-06-15", "2024-12-31"} {
		if !Occurs(ch, sched, mustDate(t, day)) {
			t.Errorf("expected daily challenge to occur on %s", day)
		}
	}
}

func TestOccurs_OutsideRange(t *testing.T) {
	frequencies := []models.Schedule{
		{Frequency: constants.FrequencyDaily},
		{Frequency: constants.FrequencyWeekly, WeeklyDays: []int{0, 1, 2, 3, 4, 5, 6}},
		{Frequency: constants.FrequencyMonthly, MonthlyRule: monthlyRule(constants.MonthlyFirstDay)},
	}
	ch := activeChallenge("2024-03-01", "2024-03-31")

	for _, sched := range frequencies {
		t.Run(string(sched.Frequency), func(t *testing.T) {
			for _, day := range []string{"2024-02-29", "2024-02-01", "2024-04-01", "2025-03-01"} {
				if Occurs(ch, sched, mustDate(t, day)) {
					t.Errorf("expected no occurrence on %s outside range", day)
				}
			}
		})
	}
}

func TestOccurs_RangeBoundsInclusive(t *testing.T) {
	ch := activeChallenge("2024-03-01", "2024-03-31")
	sched := models.Schedule{Frequency: constants.FrequencyDaily}

	if !Occurs(ch, sched, mustDate(t, "2024-03-01")) {
		t.Error("expected occurrence on start date")
	}
	if !Occurs(ch, sched, mustDate(t, "2024-03-31")) {
		t.Error("expected occurrence on end date")
	}
}

func TestOccurs_TimeOfDayIgnored(t *testing.T) {
	ch := activeChallenge("2024-03-01", "2024-03-31")
	sched := models.Schedule{Frequency: constants.FrequencyDaily}

	// Late evening on the end date in a zone far from UTC must still count.
	loc := time.FixedZone("UTC-10", -10*60*60)
	lateEnd := time.Date(2024, 3, 31, 23, 30, 0, 0, loc)
	if !Occurs(ch, sched, lateEnd) {
		t.Error("expected occurrence late on the end date")
	}

	earlyStart := time.Date(2024, 3, 1, 0, 5, 0, 0, time.FixedZone("UTC+14", 14*60*60))
	if !Occurs(ch, sched, earlyStart) {
		t.Error("expected occurrence early on the start date")
	}
}

func TestOccurs_Inactive(t *testing.T) {
	ch := activeChallenge("2024-01-01", "2024-12-31")
	ch.IsActive = false
	sched := models.Schedule{Frequency: constants.FrequencyDaily}

	for d := mustDate(t, "2024-01-01"); d.Year() == 2024; d = d.AddDate(0, 0, 1) {
		if Occurs(ch, sched, d) {
			t.Fatalf("inactive challenge occurred on %s", FormatDate(d))
		}
	}
}

func TestOccurs_Weekly(t *testing.T) {
	ch := activeChallenge("2024-01-01", "2024-12-31")
	sched := models.Schedule{Frequency: constants.FrequencyWeekly, WeeklyDays: []int{0, 2, 4}}

	// 2024-06-10 is a Monday.
	start := mustDate(t, "2024-06-10")
	want := []bool{true, false, true, false, true, false, false}
	for i, expected := range want {
		d := start.AddDate(0, 0, i)
		if got := Occurs(ch, sched, d); got != expected {
			t.Errorf("Occurs(%s) = %v, want %v", FormatDate(d), got, expected)
		}
	}
}

func TestOccurs_WeeklySunday(t *testing.T) {
	ch := activeChallenge("2024-01-01", "2024-12-31")
	sched := models.Schedule{Frequency: constants.FrequencyWeekly, WeeklyDays: []int{6}}

	// Sunday is index 6, not 0.
	if !Occurs(ch, sched, mustDate(t, "2024-06-16")) {
		t.Error("expected occurrence on Sunday for index 6")
	}
	if Occurs(ch, sched, mustDate(t, "2024-06-10")) {
		t.Error("expected no occurrence on Monday for index 6")
	}
}

func TestOccurs_WeeklyEmpty(t *testing.T) {
	ch := activeChallenge("2024-01-01", "2024-12-31")

	for _, days := range [][]int{nil, {}} {
		sched := models.Schedule{Frequency: constants.FrequencyWeekly, WeeklyDays: days}
		for d := mustDate(t, "2024-06-10"); d.Before(mustDate(t, "2024-07-10")); d = d.AddDate(0, 0, 1) {
			if Occurs(ch, sched, d) {
				t.Fatalf("empty weekly schedule occurred on %s", FormatDate(d))
			}
		}
	}
}

func TestOccurs_MonthlyFirstDay(t *testing.T) {
	ch := activeChallenge("2024-01-01", "2024-12-31")
	sched := models.Schedule{Frequency: constants.FrequencyMonthly, MonthlyRule: monthlyRule(constants.MonthlyFirstDay)}

	perMonth := make(map[time.Month]int)
	for d := mustDate(t, "2024-01-01"); d.Year() == 2024; d = d.AddDate(0, 0, 1) {
		if Occurs(ch, sched, d) {
			if d.Day() != 1 {
				t.Errorf("monthly challenge occurred on %s", FormatDate(d))
			}
			perMonth[d.Month()]++
		}
	}
	if len(perMonth) != 12 {
		t.Fatalf("expected occurrences in 12 months, got %d", len(perMonth))
	}
	for m, n := range perMonth {
		if n != 1 {
			t.Errorf("expected exactly one occurrence in %s, got %d", m, n)
		}
	}
}

func TestOccurs_UnknownRulesNeverOccur(t *testing.T) {
	ch := activeChallenge("2024-01-01", "2024-12-31")
	first := mustDate(t, "2024-02-01")

	cases := []struct {
		name  string
		sched models.Schedule
	}{
		{"monthly without rule", models.Schedule{Frequency: constants.FrequencyMonthly}},
		{"unknown monthly rule", models.Schedule{Frequency: constants.FrequencyMonthly, MonthlyRule: monthlyRule("last_day")}},
		{"unknown frequency", models.Schedule{Frequency: "yearly"}},
		{"empty frequency", models.Schedule{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if Occurs(ch, tc.sched, first) {
				t.Error("expected no occurrence")
			}
		})
	}
}

func TestOccurs_InvalidRange(t *testing.T) {
	sched := models.Schedule{Frequency: constants.FrequencyDaily}
	ch := activeChallenge("not-a-date", "2024-12-31")
	if Occurs(ch, sched, mustDate(t, "2024-06-10")) {
		t.Error("expected no occurrence with unparsable start date")
	}
}

func TestNormalizeWeekdays(t *testing.T) {
	got := NormalizeWeekdays([]int{4, 0, 2, 4, 9, -1, 0})
	want := []int{0, 2, 4}
	if len(got) != len(want) {
		t.Fatalf("NormalizeWeekdays() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("NormalizeWeekdays()[%d] = %d, want %d", i, got[i], want[i])
		}
	}

	if empty := NormalizeWeekdays(nil); empty == nil || len(empty) != 0 {
		t.Errorf("NormalizeWeekdays(nil) = %v, want empty non-nil slice", empty)
	}
}

func TestCountOccurrences(t *testing.T) {
	ch := activeChallenge("2024-06-01", "2024-06-30")
	sched := models.Schedule{Frequency: constants.FrequencyWeekly, WeeklyDays: []int{0}}

	// June 2024 has four Mondays: 3, 10, 17, 24.
	got := CountOccurrences(ch, sched, mustDate(t, "2024-05-20"), mustDate(t, "2024-07-10"))
	if got != 4 {
		t.Errorf("CountOccurrences() = %d, want 4", got)
	}
}
