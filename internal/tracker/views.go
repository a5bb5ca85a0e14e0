package tracker

import (
	"time"

	"github.com/julianstephens/tally/internal/models"
	"github.com/julianstephens/tally/internal/scheduler"
	"github.com/julianstephens/tally/internal/utils"
	"github.com/julianstephens/tally/internal/validation"
)

// allTime bounds a check-in query that should return everything.
const (
	allTimeStart = "0001-01-01"
	allTimeEnd   = "9999-12-31"
)

// View is a materialized window of days
type View struct {
	Start time.Time
	End   time.Time
	Days  []scheduler.DayBucket
}

// Due counts the tasks in the view and how many of them are done.
func (v View) Due() (due, done int) {
	for _, day := range v.Days {
		for _, task := range day.Tasks {
			due++
			if task.Done() {
				done++
			}
		}
	}
	return due, done
}

// WeekView materializes the Monday-start week containing anchor.
func (s *Service) WeekView(userID string, anchor time.Time) (View, error) {
	return s.buildView(userID, scheduler.WeekWindow(anchor))
}

// MonthView materializes the calendar month containing anchor.
func (s *Service) MonthView(userID string, anchor time.Time) (View, error) {
	return s.buildView(userID, scheduler.MonthWindow(anchor))
}

// TodayView returns today's bucket.
func (s *Service) TodayView(userID string) (scheduler.DayBucket, error) {
	view, err := s.buildView(userID, scheduler.Window(s.Today(), 1))
	if err != nil {
		return scheduler.DayBucket{}, err
	}
	return view.Days[0], nil
}

// buildView loads a fresh snapshot for the window and hands it to the scheduler.
func (s *Service) buildView(userID string, dates []time.Time) (View, error) {
	start, end, ok := scheduler.Bounds(dates)
	if !ok {
		return View{Days: []scheduler.DayBucket{}}, nil
	}

	items, err := s.store.GetChallengesWithSchedules(userID)
	if err != nil {
		return View{}, err
	}
	checkins, err := s.store.GetCheckinsForRange(userID, utils.FormatDate(start), utils.FormatDate(end))
	if err != nil {
		return View{}, err
	}

	challenges, schedules := models.Split(items)
	return View{
		Start: start,
		End:   end,
		Days:  s.scheduler.BuildWindow(challenges, schedules, checkins, dates),
	}, nil
}

// Detail is a challenge with its full check-in history and progress
type Detail struct {
	Challenge models.ChallengeWithSchedule
	Checkins  []models.Checkin // latest date first
	Progress  Progress
}

// Detail loads one challenge with its history.
func (s *Service) Detail(userID, id string) (Detail, error) {
	item, err := s.store.GetChallenge(userID, id)
	if err != nil {
		return Detail{}, err
	}
	checkins, err := s.store.GetCheckinsForChallenge(userID, id)
	if err != nil {
		return Detail{}, err
	}
	return Detail{
		Challenge: item,
		Checkins:  checkins,
		Progress:  ComputeProgress(item, checkins),
	}, nil
}

// Dashboard summarizes today and the progress of every active challenge
type Dashboard struct {
	Date      time.Time
	Today     scheduler.DayBucket
	DueToday  int
	DoneToday int
	Active    []Progress
	Paused    int
}

// Dashboard builds the summary from one snapshot of the user's data.
func (s *Service) Dashboard(userID string) (Dashboard, error) {
	items, err := s.store.GetChallengesWithSchedules(userID)
	if err != nil {
		return Dashboard{}, err
	}
	checkins, err := s.store.GetCheckinsForRange(userID, allTimeStart, allTimeEnd)
	if err != nil {
		return Dashboard{}, err
	}

	today := s.Today()
	challenges, schedules := models.Split(items)
	buckets := s.scheduler.BuildWindow(challenges, schedules, checkins, []time.Time{today})

	board := Dashboard{Date: today, Today: buckets[0]}
	for _, task := range board.Today.Tasks {
		board.DueToday++
		if task.Done() {
			board.DoneToday++
		}
	}

	byChallenge := make(map[string][]models.Checkin)
	for _, c := range checkins {
		byChallenge[c.ChallengeID] = append(byChallenge[c.ChallengeID], c)
	}
	for _, item := range items {
		if !item.IsActive {
			board.Paused++
			continue
		}
		board.Active = append(board.Active, ComputeProgress(item, byChallenge[item.ID]))
	}

	return board, nil
}

// Audit checks the user's stored data for problems the store allows.
func (s *Service) Audit(userID string) (validation.ValidationResult, error) {
	items, err := s.store.GetChallengesWithSchedules(userID)
	if err != nil {
		return validation.ValidationResult{}, err
	}
	checkins, err := s.store.GetCheckinsForRange(userID, allTimeStart, allTimeEnd)
	if err != nil {
		return validation.ValidationResult{}, err
	}
	return s.validator.ValidateSnapshot(items, checkins), nil
}
