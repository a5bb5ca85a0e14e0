package checkins

import (
	"fmt"
	"strings"

	"github.com/julianstephens/tally/internal/cli"
	"github.com/julianstephens/tally/internal/models"
	"github.com/julianstephens/tally/internal/storage"
	"github.com/julianstephens/tally/internal/tracker"
	"github.com/julianstephens/tally/internal/utils"
)

type CheckinAddCmd struct {
	ID      string   `arg:"" help:"Challenge ID or ID prefix."`
	Date    string   `short:"d" help:"Date of the check-in (YYYY-MM-DD). Defaults to today."`
	Value   *float64 `short:"v" help:"Recorded value for quantitative and weight challenges."`
	Done    bool     `help:"Mark a binary challenge done (the default)." xor:"done"`
	NotDone bool     `help:"Mark a binary challenge not done." xor:"done"`
	Note    string   `short:"n" help:"Optional note."`
}

func (c *CheckinAddCmd) Run(ctx *cli.Context) error {
	user, err := ctx.RequireUser()
	if err != nil {
		return err
	}
	item, err := ctx.FindChallenge(user.ID, c.ID)
	if err != nil {
		return err
	}

	in := tracker.CheckinInput{Date: c.Date, Value: c.Value, Note: c.Note}
	if c.Done || c.NotDone {
		done := c.Done
		in.Done = &done
	}

	checkin, err := ctx.Tracker.RecordCheckin(user.ID, item.ID, in)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Checked in %q on %s: %s\n", item.Title, checkin.CheckDate, cli.FormatCheckin(checkin, item.UnitLabel()))
	return nil
}

type CheckinToggleCmd struct {
	ID   string `arg:"" help:"Binary challenge ID or ID prefix."`
	Date string `short:"d" help:"Date to toggle (YYYY-MM-DD). Defaults to today."`
}

func (c *CheckinToggleCmd) Run(ctx *cli.Context) error {
	user, err := ctx.RequireUser()
	if err != nil {
		return err
	}
	item, err := ctx.FindChallenge(user.ID, c.ID)
	if err != nil {
		return err
	}
	date, err := ctx.ParseDate(c.Date)
	if err != nil {
		return err
	}

	done, err := ctx.Tracker.ToggleDone(user.ID, item.ID, utils.FormatDate(date))
	if err != nil {
		return err
	}
	if done {
		fmt.Printf("✓ %q done on %s\n", item.Title, utils.FormatDate(date))
	} else {
		fmt.Printf("○ %q no longer done on %s\n", item.Title, utils.FormatDate(date))
	}
	return nil
}

type CheckinListCmd struct {
	ID    string `arg:"" help:"Challenge ID or ID prefix."`
	Limit int    `short:"n" help:"Maximum number of check-ins to show (0 for all)." default:"0"`
}

func (c *CheckinListCmd) Run(ctx *cli.Context) error {
	user, err := ctx.RequireUser()
	if err != nil {
		return err
	}
	item, err := ctx.FindChallenge(user.ID, c.ID)
	if err != nil {
		return err
	}
	checkins, err := ctx.Tracker.Checkins(user.ID, item.ID)
	if err != nil {
		return err
	}

	if len(checkins) == 0 {
		fmt.Printf("No check-ins for %q yet.\n", item.Title)
		return nil
	}
	fmt.Printf("Check-ins for %q:\n", item.Title)
	for i, chk := range checkins {
		if c.Limit > 0 && i >= c.Limit {
			break
		}
		fmt.Printf("  %s  %s  %s\n", cli.ShortID(chk.ID), chk.CheckDate, cli.FormatCheckin(chk, item.UnitLabel()))
	}
	return nil
}

type CheckinDeleteCmd struct {
	ID        string `arg:"" help:"Challenge ID or ID prefix."`
	CheckinID string `arg:"" help:"Check-in ID or ID prefix."`
}

func (c *CheckinDeleteCmd) Run(ctx *cli.Context) error {
	user, err := ctx.RequireUser()
	if err != nil {
		return err
	}
	item, err := ctx.FindChallenge(user.ID, c.ID)
	if err != nil {
		return err
	}
	checkins, err := ctx.Tracker.Checkins(user.ID, item.ID)
	if err != nil {
		return err
	}
	target, err := findCheckin(checkins, c.CheckinID)
	if err != nil {
		return err
	}

	if err := ctx.Tracker.DeleteCheckin(user.ID, target.ID); err != nil {
		return err
	}
	fmt.Printf("✓ Deleted check-in %s from %s\n", cli.ShortID(target.ID), target.CheckDate)
	return nil
}

func findCheckin(checkins []models.Checkin, ref string) (models.Checkin, error) {
	ref = strings.TrimSpace(ref)
	var matches []models.Checkin
	for _, chk := range checkins {
		if chk.ID == ref {
			return chk, nil
		}
		if ref != "" && strings.HasPrefix(chk.ID, ref) {
			matches = append(matches, chk)
		}
	}
	switch len(matches) {
	case 0:
		return models.Checkin{}, fmt.Errorf("check-in %q: %w", ref, storage.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return models.Checkin{}, fmt.Errorf("check-in id %q is ambiguous (%d matches)", ref, len(matches))
	}
}
