package challenges

import (
	"errors"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/tally/internal/constants"
	"github.com/julianstephens/tally/internal/tracker"
	"github.com/julianstephens/tally/internal/utils"
)

// formModel holds the string-typed values bound to the huh form
type formModel struct {
	Title       string
	Description string
	Type        constants.ChallengeType
	Unit        string
	Target      string
	StartDate   string
	EndDate     string
	Frequency   constants.Frequency
	WeeklyDays  []int
}

func newFormModel(in tracker.ChallengeInput) *formModel {
	fm := &formModel{
		Title:       in.Title,
		Description: in.Description,
		Type:        in.Type,
		Unit:        in.Unit,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Frequency:   in.Frequency,
		WeeklyDays:  append([]int(nil), in.WeeklyDays...),
	}
	if in.Target != nil {
		fm.Target = strconv.FormatFloat(*in.Target, 'f', -1, 64)
	}
	return fm
}

func (fm *formModel) input() (tracker.ChallengeInput, error) {
	in := tracker.ChallengeInput{
		Title:       fm.Title,
		Description: fm.Description,
		Type:        fm.Type,
		Unit:        fm.Unit,
		StartDate:   fm.StartDate,
		EndDate:     fm.EndDate,
		Frequency:   fm.Frequency,
		WeeklyDays:  fm.WeeklyDays,
		MonthlyRule: constants.MonthlyFirstDay,
	}
	if t := strings.TrimSpace(fm.Target); t != "" {
		v, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return tracker.ChallengeInput{}, errors.New("target must be a number")
		}
		in.Target = &v
	}
	return in, nil
}

func validDate(s string) error {
	if _, err := utils.ParseDate(strings.TrimSpace(s)); err != nil {
		return errors.New("use YYYY-MM-DD")
	}
	return nil
}

// newChallengeForm builds the interactive challenge editor. The weekday
// group is skipped unless the frequency is weekly.
func newChallengeForm(fm *formModel) *huh.Form {
	weekdayOptions := make([]huh.Option[int], 0, constants.DaysPerWeek)
	for i, label := range constants.WeekdayLabels {
		weekdayOptions = append(weekdayOptions, huh.NewOption(label, i))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&fm.Title).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("title is required")
					}
					return nil
				}),
			huh.NewText().
				Title("Description").
				Value(&fm.Description),
			huh.NewSelect[constants.ChallengeType]().
				Title("Type").
				Options(
					huh.NewOption("Quantitative (sum of values)", constants.ChallengeQuantitative),
					huh.NewOption("Binary (done / not done)", constants.ChallengeBinary),
					huh.NewOption("Weight (latest value)", constants.ChallengeWeight),
				).
				Value(&fm.Type),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Unit").
				Value(&fm.Unit),
			huh.NewInput().
				Title("Target").
				Description("Leave empty for no target").
				Value(&fm.Target).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return nil
					}
					if _, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err != nil {
						return errors.New("target must be a number")
					}
					return nil
				}),
		).WithHideFunc(func() bool { return fm.Type == constants.ChallengeBinary }),
		huh.NewGroup(
			huh.NewInput().
				Title("Start date").
				Value(&fm.StartDate).
				Validate(validDate),
			huh.NewInput().
				Title("End date").
				Value(&fm.EndDate).
				Validate(validDate),
			huh.NewSelect[constants.Frequency]().
				Title("Frequency").
				Options(
					huh.NewOption("Daily", constants.FrequencyDaily),
					huh.NewOption("Weekly", constants.FrequencyWeekly),
					huh.NewOption("Monthly (1st of the month)", constants.FrequencyMonthly),
				).
				Value(&fm.Frequency),
		),
		huh.NewGroup(
			huh.NewMultiSelect[int]().
				Title("Days").
				Options(weekdayOptions...).
				Value(&fm.WeeklyDays).
				Validate(func(days []int) error {
					if len(days) == 0 {
						return errors.New("pick at least one day")
					}
					return nil
				}),
		).WithHideFunc(func() bool { return fm.Frequency != constants.FrequencyWeekly }),
	)
}
