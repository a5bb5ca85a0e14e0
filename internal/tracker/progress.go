package tracker

import (
	"math"
	"sort"

	"github.com/julianstephens/tally/internal/constants"
	"github.com/julianstephens/tally/internal/models"
	"github.com/julianstephens/tally/internal/utils"
)

// Progress summarizes a challenge's check-ins.
//
// Quantitative challenges accumulate the sum of their values. Weight
// challenges report the latest recorded value. Binary challenges count the
// days marked done, measured against the number of scheduled days.
type Progress struct {
	Challenge   models.ChallengeWithSchedule
	Current     float64
	Target      *float64
	Percent     int
	HasPercent  bool
	Checkins    int
	Latest      *models.Checkin
	Occurrences int
}

// Percent returns current as a whole percentage of target, clamped to
// 0..100. A missing, non-positive or non-finite input yields 0.
func Percent(current float64, target *float64) int {
	if target == nil || *target <= 0 || math.IsInf(*target, 0) || math.IsNaN(*target) {
		return 0
	}
	p := math.Round(current / *target * 100)
	if math.IsNaN(p) {
		return 0
	}
	return int(math.Max(0, math.Min(100, p)))
}

// ComputeProgress derives progress from a challenge's check-ins in any order.
// When a date has several check-ins, the most recently created one counts.
func ComputeProgress(item models.ChallengeWithSchedule, checkins []models.Checkin) Progress {
	p := Progress{Challenge: item, Target: item.TargetValue}

	sorted := make([]models.Checkin, 0, len(checkins))
	for _, c := range checkins {
		if c.ChallengeID == item.ID {
			sorted = append(sorted, c)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].CheckDate != sorted[j].CheckDate {
			return sorted[i].CheckDate < sorted[j].CheckDate
		}
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})
	p.Checkins = len(sorted)
	if len(sorted) > 0 {
		latest := sorted[len(sorted)-1]
		p.Latest = &latest
	}

	if sched, ok := item.Schedule(); ok {
		start, startErr := utils.ParseDate(item.StartDate)
		end, endErr := utils.ParseDate(item.EndDate)
		if startErr == nil && endErr == nil {
			p.Occurrences = utils.CountOccurrences(item.Challenge, sched, start, end)
		}
	}

	switch item.Type {
	case constants.ChallengeBinary:
		perDay := make(map[string]models.Checkin)
		for _, c := range sorted {
			perDay[c.CheckDate] = c
		}
		for _, c := range perDay {
			if c.IsDone() {
				p.Current++
			}
		}
		if p.Occurrences > 0 {
			target := float64(p.Occurrences)
			p.Target = &target
			p.Percent = Percent(p.Current, p.Target)
			p.HasPercent = true
		}
	case constants.ChallengeWeight:
		if p.Latest != nil && p.Latest.Value != nil {
			p.Current = *p.Latest.Value
		}
	default:
		for _, c := range sorted {
			if c.Value != nil {
				p.Current += *c.Value
			}
		}
		if item.TargetValue != nil {
			p.Percent = Percent(p.Current, item.TargetValue)
			p.HasPercent = true
		}
	}

	return p
}
