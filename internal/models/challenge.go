package models

import (
	"time"

	"github.com/julianstephens/tally/internal/constants"
)

// Challenge is a user-authored recurring goal, habit or challenge
type Challenge struct {
	ID          string                  `json:"id"`
	UserID      string                  `json:"user_id"`
	Title       string                  `json:"title"`
	Description *string                 `json:"description,omitempty"`
	Type        constants.ChallengeType `json:"type"`
	Unit        *string                 `json:"unit,omitempty"`         // nil for binary challenges
	TargetValue *float64                `json:"target_value,omitempty"` // nil for binary challenges
	StartDate   string                  `json:"start_date"`             // YYYY-MM-DD format
	EndDate     string                  `json:"end_date"`               // YYYY-MM-DD format
	IsActive    bool                    `json:"is_active"`
	CreatedAt   time.Time               `json:"created_at"`
	UpdatedAt   time.Time               `json:"updated_at"`
}

// Schedule describes when a challenge recurs.
// WeeklyDays uses Monday=0 .. Sunday=6.
type Schedule struct {
	ID          string                 `json:"id"`
	UserID      string                 `json:"user_id"`
	ChallengeID string                 `json:"challenge_id"`
	Frequency   constants.Frequency    `json:"frequency"`
	WeeklyDays  []int                  `json:"weekly_days,omitempty"`
	MonthlyRule *constants.MonthlyRule `json:"monthly_rule,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
}

// ChallengeWithSchedule is a challenge joined with its schedules.
// There is one schedule per challenge today; the slice keeps room for more.
type ChallengeWithSchedule struct {
	Challenge
	Schedules []Schedule `json:"challenge_schedules"`
}

// Schedule returns the first schedule, if any
func (c ChallengeWithSchedule) Schedule() (Schedule, bool) {
	if len(c.Schedules) == 0 {
		return Schedule{}, false
	}
	return c.Schedules[0], true
}

// IsBinary reports whether the challenge is tracked as done/not done
func (c Challenge) IsBinary() bool {
	return c.Type == constants.ChallengeBinary
}

// UnitLabel returns the unit or an empty string
func (c Challenge) UnitLabel() string {
	if c.Unit == nil {
		return ""
	}
	return *c.Unit
}

// Split separates joined rows into the flat challenge and schedule lists
// the scheduler consumes, preserving order.
func Split(items []ChallengeWithSchedule) ([]Challenge, []Schedule) {
	challenges := make([]Challenge, 0, len(items))
	var schedules []Schedule
	for _, item := range items {
		challenges = append(challenges, item.Challenge)
		schedules = append(schedules, item.Schedules...)
	}
	return challenges, schedules
}
