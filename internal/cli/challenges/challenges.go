package challenges

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/julianstephens/tally/internal/cli"
	"github.com/julianstephens/tally/internal/constants"
	"github.com/julianstephens/tally/internal/tracker"
)

// ScheduleFlags are shared by add and edit
type ScheduleFlags struct {
	Type        string   `short:"t" help:"Challenge type (quantitative|binary|weight)."`
	Unit        string   `short:"u" help:"Unit of measurement, e.g. km."`
	Target      *float64 `help:"Target value."`
	Start       string   `help:"Start date (YYYY-MM-DD)."`
	End         string   `help:"End date (YYYY-MM-DD)."`
	Frequency   string   `short:"f" help:"Frequency (daily|weekly|monthly)."`
	Days        string   `short:"w" help:"Comma-separated weekdays for weekly challenges (mon..sun or 0=Mon..6=Sun)."`
	Description *string  `short:"D" help:"Description."`
}

func (f *ScheduleFlags) apply(in *tracker.ChallengeInput) error {
	if f.Type != "" {
		in.Type = constants.ChallengeType(strings.ToLower(f.Type))
	}
	if f.Unit != "" {
		in.Unit = f.Unit
	}
	if f.Target != nil {
		in.Target = f.Target
	}
	if f.Start != "" {
		in.StartDate = f.Start
	}
	if f.End != "" {
		in.EndDate = f.End
	}
	if f.Frequency != "" {
		in.Frequency = constants.Frequency(strings.ToLower(f.Frequency))
	}
	if f.Days != "" {
		days, err := cli.ParseWeekdays(f.Days)
		if err != nil {
			return err
		}
		in.WeeklyDays = days
	}
	if f.Description != nil {
		in.Description = *f.Description
	}
	return nil
}

type ChallengeAddCmd struct {
	Title         string `arg:"" optional:"" help:"Challenge title."`
	Interactive   bool   `short:"i" help:"Fill in the challenge with an interactive form."`
	ScheduleFlags `embed:""`
}

func (c *ChallengeAddCmd) Run(ctx *cli.Context) error {
	user, err := ctx.RequireUser()
	if err != nil {
		return err
	}

	in := ctx.Tracker.Defaults()
	in.Title = c.Title
	if err := c.apply(&in); err != nil {
		return err
	}

	if c.Interactive || strings.TrimSpace(in.Title) == "" {
		fm := newFormModel(in)
		if err := newChallengeForm(fm).Run(); err != nil {
			return err
		}
		if in, err = fm.input(); err != nil {
			return err
		}
	}

	item, err := ctx.Tracker.CreateChallenge(user.ID, in)
	if err != nil {
		return err
	}

	fmt.Printf("✓ Added challenge %q (%s)\n", item.Title, cli.ShortID(item.ID))
	fmt.Printf("  %s, %s to %s\n", cli.FormatChallengeSchedule(item), item.StartDate, item.EndDate)
	return nil
}

type ChallengeEditCmd struct {
	ID            string  `arg:"" help:"Challenge ID or ID prefix."`
	Title         *string `help:"New title."`
	Interactive   bool    `short:"i" help:"Edit the challenge with an interactive form."`
	Pause         bool    `help:"Pause the challenge." xor:"active"`
	Resume        bool    `help:"Resume a paused challenge." xor:"active"`
	ScheduleFlags `embed:""`
}

func (c *ChallengeEditCmd) Run(ctx *cli.Context) error {
	user, err := ctx.RequireUser()
	if err != nil {
		return err
	}
	item, err := ctx.FindChallenge(user.ID, c.ID)
	if err != nil {
		return err
	}

	in := tracker.FromChallenge(item)
	if c.Title != nil {
		in.Title = *c.Title
	}
	if err := c.apply(&in); err != nil {
		return err
	}
	if c.Interactive {
		fm := newFormModel(in)
		if err := newChallengeForm(fm).Run(); err != nil {
			return err
		}
		if in, err = fm.input(); err != nil {
			return err
		}
	}

	updated, err := ctx.Tracker.UpdateChallenge(user.ID, item.ID, in)
	if err != nil {
		return err
	}
	if c.Pause || c.Resume {
		if updated, err = ctx.Tracker.SetActive(user.ID, item.ID, c.Resume); err != nil {
			return err
		}
	}

	fmt.Printf("✓ Updated challenge %q (%s)\n", updated.Title, cli.ShortID(updated.ID))
	if !updated.IsActive {
		fmt.Println("  Challenge is paused")
	}
	return nil
}

type ChallengeListCmd struct {
	All bool `short:"a" help:"Include paused challenges."`
}

func (c *ChallengeListCmd) Run(ctx *cli.Context) error {
	user, err := ctx.RequireUser()
	if err != nil {
		return err
	}
	items, err := ctx.Tracker.ListChallenges(user.ID)
	if err != nil {
		return err
	}

	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(cli.BorderStyle).
		Headers("ID", "TITLE", "TYPE", "SCHEDULE", "DATES", "TARGET").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return cli.HeaderStyle.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})

	shown := 0
	for _, item := range items {
		if !item.IsActive && !c.All {
			continue
		}
		title := item.Title
		if !item.IsActive {
			title += " [paused]"
		}
		tbl.Row(cli.ShortID(item.ID), title, string(item.Type), cli.FormatChallengeSchedule(item),
			item.StartDate+".."+item.EndDate, cli.FormatTarget(item.Challenge))
		shown++
	}
	if shown == 0 {
		fmt.Println("No challenges yet. Add one with 'tally challenge add'.")
		return nil
	}
	fmt.Println(tbl)
	return nil
}

type ChallengeShowCmd struct {
	ID    string `arg:"" help:"Challenge ID or ID prefix."`
	Limit int    `short:"n" help:"Number of check-ins to show." default:"10"`
}

func (c *ChallengeShowCmd) Run(ctx *cli.Context) error {
	user, err := ctx.RequireUser()
	if err != nil {
		return err
	}
	item, err := ctx.FindChallenge(user.ID, c.ID)
	if err != nil {
		return err
	}
	detail, err := ctx.Tracker.Detail(user.ID, item.ID)
	if err != nil {
		return err
	}

	ch := detail.Challenge
	status := "active"
	if !ch.IsActive {
		status = "paused"
	}
	fmt.Printf("%s (%s)\n", ch.Title, status)
	if ch.Description != nil {
		fmt.Printf("  %s\n", *ch.Description)
	}
	fmt.Printf("  ID:        %s\n", ch.ID)
	fmt.Printf("  Type:      %s\n", ch.Type)
	fmt.Printf("  Schedule:  %s\n", cli.FormatChallengeSchedule(ch))
	fmt.Printf("  Dates:     %s to %s\n", ch.StartDate, ch.EndDate)
	fmt.Printf("  Target:    %s\n", cli.FormatTarget(ch.Challenge))

	p := detail.Progress
	fmt.Printf("  Progress:  %s", cli.FormatValue(p.Current))
	if ch.IsBinary() {
		fmt.Printf(" of %d scheduled days", p.Occurrences)
	} else {
		fmt.Printf(" %s", ch.UnitLabel())
	}
	if p.HasPercent {
		fmt.Printf(" (%d%%)", p.Percent)
	}
	fmt.Println()

	if len(detail.Checkins) == 0 {
		fmt.Println("\nNo check-ins yet.")
		return nil
	}
	fmt.Printf("\nCheck-ins (%d):\n", len(detail.Checkins))
	for i, chk := range detail.Checkins {
		if c.Limit > 0 && i >= c.Limit {
			fmt.Printf("  ... %d more\n", len(detail.Checkins)-i)
			break
		}
		fmt.Printf("  %s  %s  %s\n", chk.CheckDate, cli.ShortID(chk.ID), cli.FormatCheckin(chk, ch.UnitLabel()))
	}
	return nil
}

type ChallengeDeleteCmd struct {
	ID  string `arg:"" help:"Challenge ID or ID prefix."`
	Yes bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *ChallengeDeleteCmd) Run(ctx *cli.Context) error {
	user, err := ctx.RequireUser()
	if err != nil {
		return err
	}
	item, err := ctx.FindChallenge(user.ID, c.ID)
	if err != nil {
		return err
	}

	if !c.Yes {
		confirmed := false
		err := huh.NewConfirm().
			Title(fmt.Sprintf("Delete %q and all of its check-ins?", item.Title)).
			Affirmative("Delete").
			Negative("Cancel").
			Value(&confirmed).
			Run()
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Println("Delete cancelled.")
			return nil
		}
	}

	if err := ctx.Tracker.DeleteChallenge(user.ID, item.ID); err != nil {
		return err
	}
	fmt.Printf("✓ Deleted challenge %q\n", item.Title)
	return nil
}
