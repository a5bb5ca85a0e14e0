package tracker

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/tally/internal/constants"
	"github.com/julianstephens/tally/internal/logger"
	"github.com/julianstephens/tally/internal/models"
	"github.com/julianstephens/tally/internal/scheduler"
	"github.com/julianstephens/tally/internal/storage"
	"github.com/julianstephens/tally/internal/utils"
	"github.com/julianstephens/tally/internal/validation"
)

// ErrNotBinary is returned when a done/not-done toggle targets a measured challenge
var ErrNotBinary = errors.New("only binary challenges can be toggled")

// Service runs user commands against the store and derives views from
// fresh snapshots. Every method is scoped to one user.
type Service struct {
	store     storage.Provider
	scheduler *scheduler.Scheduler
	validator *validation.Validator

	// beforeDelete runs ahead of destructive deletes, e.g. to take a backup
	beforeDelete func() error
}

func New(store storage.Provider, sched *scheduler.Scheduler) *Service {
	if sched == nil {
		sched = scheduler.New()
	}
	return &Service{
		store:     store,
		scheduler: sched,
		validator: validation.New(),
	}
}

// OnBeforeDelete installs a hook that must succeed before a challenge is deleted.
func (s *Service) OnBeforeDelete(fn func() error) {
	s.beforeDelete = fn
}

// Scheduler returns the scheduler whose clock decides "today"
func (s *Service) Scheduler() *scheduler.Scheduler {
	return s.scheduler
}

func (s *Service) now() time.Time {
	if s.scheduler.Now != nil {
		return s.scheduler.Now()
	}
	return time.Now()
}

// Today returns the current calendar date
func (s *Service) Today() time.Time {
	return s.scheduler.Today()
}

// ChallengeInput is the user-editable form of a challenge and its schedule.
type ChallengeInput struct {
	Title       string
	Description string
	Type        constants.ChallengeType
	Unit        string
	Target      *float64
	StartDate   string
	EndDate     string
	Frequency   constants.Frequency
	WeeklyDays  []int
	MonthlyRule constants.MonthlyRule
}

// Defaults returns the pre-filled challenge form: a 30 day daily
// quantitative challenge in km starting today.
func (s *Service) Defaults() ChallengeInput {
	today := s.Today()
	return ChallengeInput{
		Type:        constants.ChallengeQuantitative,
		Unit:        constants.DefaultUnit,
		StartDate:   utils.FormatDate(today),
		EndDate:     utils.FormatDate(utils.AddDays(today, constants.DefaultChallengeDays)),
		Frequency:   constants.FrequencyDaily,
		WeeklyDays:  []int{0},
		MonthlyRule: constants.MonthlyFirstDay,
	}
}

// FromChallenge turns a stored challenge back into an editable form.
func FromChallenge(item models.ChallengeWithSchedule) ChallengeInput {
	in := ChallengeInput{
		Title:     item.Title,
		Type:      item.Type,
		Unit:      item.UnitLabel(),
		Target:    item.TargetValue,
		StartDate: item.StartDate,
		EndDate:   item.EndDate,
		Frequency: constants.FrequencyDaily,
	}
	if item.Description != nil {
		in.Description = *item.Description
	}
	if sched, ok := item.Schedule(); ok {
		in.Frequency = sched.Frequency
		in.WeeklyDays = append([]int(nil), sched.WeeklyDays...)
		if sched.MonthlyRule != nil {
			in.MonthlyRule = *sched.MonthlyRule
		}
	}
	return in
}

// apply writes the form onto challenge and schedule. Frequency parameters
// that do not belong to the chosen frequency are cleared.
func (in ChallengeInput) apply(c *models.Challenge, sched *models.Schedule) {
	c.Title = strings.TrimSpace(in.Title)
	c.Type = in.Type
	c.StartDate = strings.TrimSpace(in.StartDate)
	c.EndDate = strings.TrimSpace(in.EndDate)

	c.Description = nil
	if d := strings.TrimSpace(in.Description); d != "" {
		c.Description = &d
	}

	c.Unit, c.TargetValue = nil, nil
	if in.Type != constants.ChallengeBinary {
		unit := strings.TrimSpace(in.Unit)
		c.Unit = &unit
		if in.Target != nil {
			target := *in.Target
			c.TargetValue = &target
		}
	}

	sched.Frequency = in.Frequency
	sched.WeeklyDays = nil
	sched.MonthlyRule = nil
	switch in.Frequency {
	case constants.FrequencyWeekly:
		sched.WeeklyDays = append([]int{}, in.WeeklyDays...)
	case constants.FrequencyMonthly:
		rule := in.MonthlyRule
		if rule == "" {
			rule = constants.MonthlyFirstDay
		}
		sched.MonthlyRule = &rule
	}
}

func finalize(item *models.ChallengeWithSchedule) error {
	if err := validation.ValidateChallenge(*item); err != nil {
		return err
	}
	for i := range item.Schedules {
		if item.Schedules[i].Frequency == constants.FrequencyWeekly {
			item.Schedules[i].WeeklyDays = utils.NormalizeWeekdays(item.Schedules[i].WeeklyDays)
		}
	}
	return nil
}

// CreateChallenge validates the form and stores a new active challenge with
// its schedule.
func (s *Service) CreateChallenge(userID string, in ChallengeInput) (models.ChallengeWithSchedule, error) {
	now := s.now()
	id := uuid.NewString()

	item := models.ChallengeWithSchedule{
		Challenge: models.Challenge{
			ID:        id,
			UserID:    userID,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		},
		Schedules: []models.Schedule{{
			ID:          uuid.NewString(),
			UserID:      userID,
			ChallengeID: id,
			CreatedAt:   now,
		}},
	}
	in.apply(&item.Challenge, &item.Schedules[0])
	if err := finalize(&item); err != nil {
		return models.ChallengeWithSchedule{}, err
	}

	if err := s.store.AddChallenge(item); err != nil {
		return models.ChallengeWithSchedule{}, err
	}
	logger.Info("Challenge created", "id", id, "type", item.Type)
	return item, nil
}

// UpdateChallenge replaces the challenge's fields and schedule with the form.
// A challenge stored without a schedule gets one.
func (s *Service) UpdateChallenge(userID, id string, in ChallengeInput) (models.ChallengeWithSchedule, error) {
	item, err := s.store.GetChallenge(userID, id)
	if err != nil {
		return models.ChallengeWithSchedule{}, err
	}

	now := s.now()
	sched, ok := item.Schedule()
	if !ok {
		sched = models.Schedule{ID: uuid.NewString(), UserID: userID, ChallengeID: id, CreatedAt: now}
	}
	in.apply(&item.Challenge, &sched)
	item.UpdatedAt = now
	item.Schedules = []models.Schedule{sched}
	if err := finalize(&item); err != nil {
		return models.ChallengeWithSchedule{}, err
	}

	if err := s.store.UpdateChallenge(item.Challenge); err != nil {
		return models.ChallengeWithSchedule{}, err
	}
	if err := s.store.UpsertSchedule(item.Schedules[0]); err != nil {
		return models.ChallengeWithSchedule{}, err
	}
	logger.Info("Challenge updated", "id", id)
	return item, nil
}

// SetActive pauses or resumes a challenge. Inactive challenges never occur.
func (s *Service) SetActive(userID, id string, active bool) (models.ChallengeWithSchedule, error) {
	item, err := s.store.GetChallenge(userID, id)
	if err != nil {
		return models.ChallengeWithSchedule{}, err
	}
	item.IsActive = active
	item.UpdatedAt = s.now()
	if err := s.store.UpdateChallenge(item.Challenge); err != nil {
		return models.ChallengeWithSchedule{}, err
	}
	return item, nil
}

// DeleteChallenge removes a challenge with its schedule and check-ins.
func (s *Service) DeleteChallenge(userID, id string) error {
	if _, err := s.store.GetChallenge(userID, id); err != nil {
		return err
	}
	if s.beforeDelete != nil {
		if err := s.beforeDelete(); err != nil {
			return fmt.Errorf("pre-delete hook failed, challenge kept: %w", err)
		}
	}
	if err := s.store.DeleteChallenge(userID, id); err != nil {
		return err
	}
	logger.Info("Challenge deleted", "id", id)
	return nil
}

// ListChallenges returns the user's challenges, newest first.
func (s *Service) ListChallenges(userID string) ([]models.ChallengeWithSchedule, error) {
	return s.store.GetChallengesWithSchedules(userID)
}

// GetChallenge returns one of the user's challenges.
func (s *Service) GetChallenge(userID, id string) (models.ChallengeWithSchedule, error) {
	return s.store.GetChallenge(userID, id)
}
