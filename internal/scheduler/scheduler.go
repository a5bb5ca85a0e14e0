package scheduler

import (
	"time"

	"github.com/julianstephens/tally/internal/models"
	"github.com/julianstephens/tally/internal/utils"
)

// Task is a challenge due on a specific date, joined with its check-in if one
// was recorded.
type Task struct {
	Challenge models.Challenge
	Schedule  models.Schedule
	Date      time.Time
	DateKey   string // YYYY-MM-DD
	Checkin   *models.Checkin
	IsToday   bool
	IsPast    bool // true for today and earlier
}

// Done reports whether the task has a completed check-in
func (t Task) Done() bool {
	return t.Checkin != nil && t.Checkin.IsDone()
}

// DayBucket holds the tasks due on one date, in challenge input order
type DayBucket struct {
	Date  time.Time
	Tasks []Task
}

// DateKey returns the bucket date as YYYY-MM-DD
func (b DayBucket) DateKey() string {
	return utils.FormatDate(b.Date)
}

// Scheduler materializes challenges into day buckets against its clock
type Scheduler struct {
	// Now is the clock used for today/past flags
	Now func() time.Time
}

// New returns a scheduler on the local wall clock.
func New() *Scheduler {
	return &Scheduler{Now: time.Now}
}

// NewInLocation returns a scheduler whose "today" follows the given location.
func NewInLocation(loc *time.Location) *Scheduler {
	return &Scheduler{Now: func() time.Time { return time.Now().In(loc) }}
}

// Today returns the scheduler's current calendar date
func (s *Scheduler) Today() time.Time {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	return utils.DateOnly(now())
}

// BuildWeek materializes the Monday-start week containing anchor.
func (s *Scheduler) BuildWeek(challenges []models.Challenge, schedules []models.Schedule, checkins []models.Checkin, anchor time.Time) []DayBucket {
	return s.BuildWindow(challenges, schedules, checkins, WeekWindow(anchor))
}

// BuildMonth materializes the calendar month containing anchor.
func (s *Scheduler) BuildMonth(challenges []models.Challenge, schedules []models.Schedule, checkins []models.Checkin, anchor time.Time) []DayBucket {
	return s.BuildWindow(challenges, schedules, checkins, MonthWindow(anchor))
}

// BuildWindow returns one bucket per date, in date order. Within a bucket,
// tasks follow the order of challenges. A challenge without a schedule
// contributes no tasks. Inputs are not modified.
func (s *Scheduler) BuildWindow(challenges []models.Challenge, schedules []models.Schedule, checkins []models.Checkin, dates []time.Time) []DayBucket {
	today := s.Today()
	index := IndexCheckins(checkins)
	byChallenge := indexSchedules(schedules)

	buckets := make([]DayBucket, 0, len(dates))
	for _, raw := range dates {
		date := utils.DateOnly(raw)
		dateKey := utils.FormatDate(date)
		tasks := []Task{}

		for _, challenge := range challenges {
			schedule, ok := byChallenge[challenge.ID]
			if !ok {
				continue
			}
			if !utils.Occurs(challenge, schedule, date) {
				continue
			}

			task := Task{
				Challenge: challenge,
				Schedule:  schedule,
				Date:      date,
				DateKey:   dateKey,
				IsToday:   date.Equal(today),
				IsPast:    !date.After(today),
			}
			if c, found := index.Get(challenge.ID, dateKey); found {
				checkin := c
				task.Checkin = &checkin
			}
			tasks = append(tasks, task)
		}

		buckets = append(buckets, DayBucket{Date: date, Tasks: tasks})
	}

	return buckets
}

// indexSchedules maps challenge ID to its first schedule in input order.
func indexSchedules(schedules []models.Schedule) map[string]models.Schedule {
	out := make(map[string]models.Schedule, len(schedules))
	for _, s := range schedules {
		if _, exists := out[s.ChallengeID]; !exists {
			out[s.ChallengeID] = s
		}
	}
	return out
}
