package validation

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/julianstephens/tally/internal/constants"
	"github.com/julianstephens/tally/internal/models"
	"github.com/julianstephens/tally/internal/utils"
)

// ErrInvalid wraps every input validation failure
var ErrInvalid = errors.New("invalid input")

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictDuplicateCheckin ConflictType = "duplicate_checkin"
	ConflictMissingSchedule  ConflictType = "missing_schedule"
	ConflictEmptyWeekly      ConflictType = "empty_weekly_schedule"
	ConflictInvalidDate      ConflictType = "invalid_date"
	ConflictOrphanCheckin    ConflictType = "orphan_checkin"
	ConflictOffSchedule      ConflictType = "off_schedule_checkin"
	ConflictValueMismatch    ConflictType = "checkin_value_mismatch"
)

// Conflict represents a detected problem in a user's data
type Conflict struct {
	Type        ConflictType
	Description string
	Date        string   // YYYY-MM-DD format (if applicable)
	ChallengeID string   // Challenge involved (if applicable)
	CheckinIDs  []string // Check-ins involved (for fixing)
	IsWarning   bool     // Warnings do not fail validation
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// HasErrors returns true if any conflict is not a warning
func (vr *ValidationResult) HasErrors() bool {
	for _, c := range vr.Conflicts {
		if !c.IsWarning {
			return true
		}
	}
	return false
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, conflict := range vr.Conflicts {
		prefix := "-"
		if conflict.IsWarning {
			prefix = "- (warning)"
		}
		fmt.Fprintf(&b, "%s %s\n", prefix, conflict.Description)
	}
	return b.String()
}

func invalid(problems []string) error {
	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
}

// ValidateChallenge checks a challenge and its schedule before it is saved.
func ValidateChallenge(item models.ChallengeWithSchedule) error {
	var problems []string
	c := item.Challenge

	if strings.TrimSpace(c.Title) == "" {
		problems = append(problems, "title is required")
	}

	switch c.Type {
	case constants.ChallengeBinary:
		if c.Unit != nil || c.TargetValue != nil {
			problems = append(problems, "binary challenges take no unit or target")
		}
	case constants.ChallengeQuantitative, constants.ChallengeWeight:
		if c.Unit == nil || strings.TrimSpace(*c.Unit) == "" {
			problems = append(problems, "unit is required")
		}
		if c.TargetValue != nil && (!finite(*c.TargetValue) || *c.TargetValue <= 0) {
			problems = append(problems, "target must be greater than zero")
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown challenge type %q", c.Type))
	}

	start, startErr := utils.ParseDate(c.StartDate)
	if startErr != nil {
		problems = append(problems, fmt.Sprintf("invalid start date %q", c.StartDate))
	}
	end, endErr := utils.ParseDate(c.EndDate)
	if endErr != nil {
		problems = append(problems, fmt.Sprintf("invalid end date %q", c.EndDate))
	}
	if startErr == nil && endErr == nil && end.Before(start) {
		problems = append(problems, "end date must not be before start date")
	}

	if len(item.Schedules) == 0 {
		problems = append(problems, "a schedule is required")
	}
	for _, sched := range item.Schedules {
		problems = append(problems, scheduleProblems(sched)...)
	}

	return invalid(problems)
}

// ValidateSchedule checks a single schedule's frequency parameters.
func ValidateSchedule(sched models.Schedule) error {
	return invalid(scheduleProblems(sched))
}

func scheduleProblems(sched models.Schedule) []string {
	var problems []string
	switch sched.Frequency {
	case constants.FrequencyDaily:
	case constants.FrequencyWeekly:
		for _, d := range sched.WeeklyDays {
			if d < 0 || d > 6 {
				problems = append(problems, fmt.Sprintf("weekday %d out of range (0=Mon..6=Sun)", d))
			}
		}
	case constants.FrequencyMonthly:
		if sched.MonthlyRule == nil {
			problems = append(problems, "monthly schedules need a rule")
		} else if *sched.MonthlyRule != constants.MonthlyFirstDay {
			problems = append(problems, fmt.Sprintf("unknown monthly rule %q", *sched.MonthlyRule))
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown frequency %q", sched.Frequency))
	}
	return problems
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// ValidateCheckin checks a check-in against the challenge it records.
func ValidateCheckin(challenge models.Challenge, checkin models.Checkin) error {
	var problems []string

	if _, err := utils.ParseDate(checkin.CheckDate); err != nil {
		problems = append(problems, fmt.Sprintf("invalid check-in date %q", checkin.CheckDate))
	}
	if checkin.ChallengeID != challenge.ID {
		problems = append(problems, "check-in does not belong to this challenge")
	}

	if challenge.IsBinary() {
		if checkin.Done == nil {
			problems = append(problems, "binary check-ins need a done flag")
		}
		if checkin.Value != nil {
			problems = append(problems, "binary check-ins take no value")
		}
	} else {
		switch {
		case checkin.Value == nil:
			problems = append(problems, "a value is required")
		case !finite(*checkin.Value):
			problems = append(problems, "value must be a finite number")
		case *checkin.Value < 0:
			problems = append(problems, "value must not be negative")
		case challenge.Type == constants.ChallengeWeight && *checkin.Value == 0:
			problems = append(problems, "weight must be greater than zero")
		}
	}

	return invalid(problems)
}

// Validator audits a user's stored challenges and check-ins
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

// ValidateSnapshot reports data problems the store itself allows: several
// check-ins for one challenge on one day, challenges without a schedule,
// weekly schedules with no days, and check-ins that do not line up with
// their challenge.
func (v *Validator) ValidateSnapshot(items []models.ChallengeWithSchedule, checkins []models.Checkin) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	byID := make(map[string]models.ChallengeWithSchedule, len(items))
	for _, item := range items {
		byID[item.ID] = item

		if _, err := utils.ParseDate(item.StartDate); err != nil {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidDate,
				Description: fmt.Sprintf("Challenge \"%s\" has invalid start date: %s", item.Title, item.StartDate),
				ChallengeID: item.ID,
			})
		}
		if _, err := utils.ParseDate(item.EndDate); err != nil {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidDate,
				Description: fmt.Sprintf("Challenge \"%s\" has invalid end date: %s", item.Title, item.EndDate),
				ChallengeID: item.ID,
			})
		}

		sched, ok := item.Schedule()
		if !ok {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictMissingSchedule,
				Description: fmt.Sprintf("Challenge \"%s\" has no schedule and never appears in views", item.Title),
				ChallengeID: item.ID,
			})
			continue
		}
		if sched.Frequency == constants.FrequencyWeekly && len(sched.WeeklyDays) == 0 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictEmptyWeekly,
				Description: fmt.Sprintf("Challenge \"%s\" is weekly with no days selected and never occurs", item.Title),
				ChallengeID: item.ID,
				IsWarning:   true,
			})
		}
	}

	type key struct{ challengeID, date string }
	groups := make(map[key][]string)
	var order []key

	for _, c := range checkins {
		item, ok := byID[c.ChallengeID]
		if !ok {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictOrphanCheckin,
				Description: fmt.Sprintf("Check-in %s on %s refers to a missing challenge", c.ID, c.CheckDate),
				Date:        c.CheckDate,
				ChallengeID: c.ChallengeID,
				CheckinIDs:  []string{c.ID},
			})
			continue
		}

		date, err := utils.ParseDate(c.CheckDate)
		if err != nil {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidDate,
				Description: fmt.Sprintf("Check-in %s for \"%s\" has invalid date: %s", c.ID, item.Title, c.CheckDate),
				ChallengeID: item.ID,
				CheckinIDs:  []string{c.ID},
			})
			continue
		}

		if item.IsBinary() != (c.Done != nil && c.Value == nil) {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictValueMismatch,
				Description: fmt.Sprintf("Check-in %s on %s does not match the %s challenge \"%s\"", c.ID, c.CheckDate, item.Type, item.Title),
				Date:        c.CheckDate,
				ChallengeID: item.ID,
				CheckinIDs:  []string{c.ID},
				IsWarning:   true,
			})
		}

		if sched, ok := item.Schedule(); ok && !utils.Occurs(item.Challenge, sched, date) {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictOffSchedule,
				Description: fmt.Sprintf("Check-in for \"%s\" on %s falls on a day the challenge is not due", item.Title, c.CheckDate),
				Date:        c.CheckDate,
				ChallengeID: item.ID,
				CheckinIDs:  []string{c.ID},
				IsWarning:   true,
			})
		}

		k := key{c.ChallengeID, c.CheckDate}
		if _, seen := groups[k]; !seen {
			order = append(order, k)
		}
		groups[k] = append(groups[k], c.ID)
	}

	for _, k := range order {
		ids := groups[k]
		if len(ids) < 2 {
			continue
		}
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictDuplicateCheckin,
			Description: fmt.Sprintf("Challenge \"%s\" has %d check-ins on %s; only the last one is shown", byID[k.challengeID].Title, len(ids), k.date),
			Date:        k.date,
			ChallengeID: k.challengeID,
			CheckinIDs:  ids,
			IsWarning:   true,
		})
	}

	sort.SliceStable(result.Conflicts, func(i, j int) bool {
		return !result.Conflicts[i].IsWarning && result.Conflicts[j].IsWarning
	})

	return result
}
