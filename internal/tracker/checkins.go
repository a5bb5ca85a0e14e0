package tracker

import (
	"strings"

	"github.com/google/uuid"

	"github.com/julianstephens/tally/internal/models"
	"github.com/julianstephens/tally/internal/utils"
	"github.com/julianstephens/tally/internal/validation"
)

// CheckinInput is a check-in as entered by the user. An empty Date means today.
type CheckinInput struct {
	Date  string
	Value *float64
	Done  *bool
	Note  string
}

// RecordCheckin stores a new check-in for one of the user's challenges.
// Binary check-ins default to done. Earlier check-ins on the same date are
// kept; views show the latest one.
func (s *Service) RecordCheckin(userID, challengeID string, in CheckinInput) (models.Checkin, error) {
	item, err := s.store.GetChallenge(userID, challengeID)
	if err != nil {
		return models.Checkin{}, err
	}

	date := strings.TrimSpace(in.Date)
	if date == "" {
		date = utils.FormatDate(s.Today())
	}

	now := s.now()
	checkin := models.Checkin{
		ID:          uuid.NewString(),
		UserID:      userID,
		ChallengeID: challengeID,
		CheckDate:   date,
		Value:       in.Value,
		Done:        in.Done,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if item.IsBinary() && checkin.Done == nil && checkin.Value == nil {
		done := true
		checkin.Done = &done
	}
	if note := strings.TrimSpace(in.Note); note != "" {
		checkin.Note = &note
	}

	if err := validation.ValidateCheckin(item.Challenge, checkin); err != nil {
		return models.Checkin{}, err
	}
	if err := s.store.AddCheckin(checkin); err != nil {
		return models.Checkin{}, err
	}
	return checkin, nil
}

// ToggleDone flips a binary challenge's completion for date. When the latest
// check-in that day is done, every check-in for that day is removed and the
// result is false; otherwise they are replaced by one done check-in. The new
// check-in is written before the old ones are removed, so a failed write
// leaves the day as it was.
func (s *Service) ToggleDone(userID, challengeID, date string) (bool, error) {
	item, err := s.store.GetChallenge(userID, challengeID)
	if err != nil {
		return false, err
	}
	if !item.IsBinary() {
		return false, ErrNotBinary
	}
	if strings.TrimSpace(date) == "" {
		date = utils.FormatDate(s.Today())
	}
	if _, err := utils.ParseDate(date); err != nil {
		return false, err
	}

	existing, err := s.checkinsOn(userID, challengeID, date)
	if err != nil {
		return false, err
	}
	wasDone := len(existing) > 0 && existing[len(existing)-1].IsDone()

	if !wasDone {
		done := true
		if _, err := s.RecordCheckin(userID, challengeID, CheckinInput{Date: date, Done: &done}); err != nil {
			return false, err
		}
	}
	for _, c := range existing {
		if err := s.store.DeleteCheckin(userID, c.ID); err != nil {
			return false, err
		}
	}
	return !wasDone, nil
}

func (s *Service) checkinsOn(userID, challengeID, date string) ([]models.Checkin, error) {
	all, err := s.store.GetCheckinsForRange(userID, date, date)
	if err != nil {
		return nil, err
	}
	var out []models.Checkin
	for _, c := range all {
		if c.ChallengeID == challengeID {
			out = append(out, c)
		}
	}
	return out, nil
}

// DeleteCheckin removes one check-in.
func (s *Service) DeleteCheckin(userID, id string) error {
	return s.store.DeleteCheckin(userID, id)
}

// Checkins returns a challenge's check-ins, latest date first.
func (s *Service) Checkins(userID, challengeID string) ([]models.Checkin, error) {
	if _, err := s.store.GetChallenge(userID, challengeID); err != nil {
		return nil, err
	}
	return s.store.GetCheckinsForChallenge(userID, challengeID)
}
