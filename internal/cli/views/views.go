package views

import (
	"fmt"

	"github.com/julianstephens/tally/internal/cli"
)

type WeekCmd struct {
	Date string `short:"d" help:"Any date in the week to show (YYYY-MM-DD). Defaults to today."`
}

func (c *WeekCmd) Run(ctx *cli.Context) error {
	user, err := ctx.RequireUser()
	if err != nil {
		return err
	}
	anchor, err := ctx.ParseDate(c.Date)
	if err != nil {
		return err
	}
	view, err := ctx.Tracker.WeekView(user.ID, anchor)
	if err != nil {
		return err
	}

	fmt.Printf("Week of %s\n\n", DayLabel(view.Start))
	fmt.Print(RenderView(view, ctx.Scheduler.Today(), false))
	return nil
}

type MonthCmd struct {
	Date string `short:"d" help:"Any date in the month to show (YYYY-MM-DD). Defaults to today."`
	All  bool   `short:"a" help:"Show days with nothing scheduled."`
}

func (c *MonthCmd) Run(ctx *cli.Context) error {
	user, err := ctx.RequireUser()
	if err != nil {
		return err
	}
	anchor, err := ctx.ParseDate(c.Date)
	if err != nil {
		return err
	}
	view, err := ctx.Tracker.MonthView(user.ID, anchor)
	if err != nil {
		return err
	}

	fmt.Printf("%s\n\n", view.Start.Format("January 2006"))
	fmt.Print(RenderView(view, ctx.Scheduler.Today(), !c.All))
	return nil
}

type TodayCmd struct{}

func (c *TodayCmd) Run(ctx *cli.Context) error {
	user, err := ctx.RequireUser()
	if err != nil {
		return err
	}
	day, err := ctx.Tracker.TodayView(user.ID)
	if err != nil {
		return err
	}
	fmt.Print(RenderDay(day, ctx.Scheduler.Today()))
	return nil
}

type DashboardCmd struct{}

func (c *DashboardCmd) Run(ctx *cli.Context) error {
	user, err := ctx.RequireUser()
	if err != nil {
		return err
	}
	board, err := ctx.Tracker.Dashboard(user.ID)
	if err != nil {
		return err
	}
	fmt.Print(RenderDashboard(board))
	return nil
}
