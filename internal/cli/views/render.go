package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/tally/internal/cli"
	"github.com/julianstephens/tally/internal/constants"
	"github.com/julianstephens/tally/internal/scheduler"
	"github.com/julianstephens/tally/internal/tracker"
	"github.com/julianstephens/tally/internal/utils"
)

// TaskMark is the status glyph for a task: done, missed (before today and
// not done) or pending.
func TaskMark(task scheduler.Task) string {
	switch {
	case task.Done():
		return cli.DoneStyle.Render("✓")
	case task.IsPast && !task.IsToday:
		return cli.MissedStyle.Render("✗")
	default:
		return "○"
	}
}

// RenderTask renders one task line
func RenderTask(task scheduler.Task) string {
	line := fmt.Sprintf("%s %s", TaskMark(task), task.Challenge.Title)
	if task.Checkin != nil && task.Checkin.Value != nil {
		line += cli.DimStyle.Render(fmt.Sprintf("  %s %s", cli.FormatValue(*task.Checkin.Value), task.Challenge.UnitLabel()))
	}
	return line
}

// DayLabel formats a date as "Mon 2024-06-10"
func DayLabel(d time.Time) string {
	return fmt.Sprintf("%s %s", constants.WeekdayLabels[utils.MondayIndex(d)], utils.FormatDate(d))
}

// RenderDay renders a bucket heading and its tasks
func RenderDay(day scheduler.DayBucket, today time.Time) string {
	var b strings.Builder
	if utils.SameDate(day.Date, today) {
		b.WriteString(cli.TodayStyle.Render(DayLabel(day.Date) + "  (today)"))
	} else {
		b.WriteString(cli.HeaderStyle.Render(DayLabel(day.Date)))
	}
	b.WriteString("\n")
	if len(day.Tasks) == 0 {
		b.WriteString(cli.DimStyle.Render("  nothing scheduled"))
		b.WriteString("\n")
		return b.String()
	}
	for _, task := range day.Tasks {
		b.WriteString("  ")
		b.WriteString(RenderTask(task))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderView renders every day in the view. Empty days are skipped when
// compact is set.
func RenderView(view tracker.View, today time.Time, compact bool) string {
	var b strings.Builder
	for _, day := range view.Days {
		if compact && len(day.Tasks) == 0 {
			continue
		}
		b.WriteString(RenderDay(day, today))
	}
	due, done := view.Due()
	b.WriteString("\n")
	b.WriteString(cli.DimStyle.Render(fmt.Sprintf("%d of %d done", done, due)))
	b.WriteString("\n")
	return b.String()
}

// ProgressBar draws a fixed width bar for a percentage
func ProgressBar(percent, width int) string {
	if width <= 0 {
		return ""
	}
	filled := percent * width / 100
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return cli.DoneStyle.Render(strings.Repeat("█", filled)) + cli.DimStyle.Render(strings.Repeat("░", width-filled))
}

// RenderProgress renders a one line progress summary
func RenderProgress(p tracker.Progress) string {
	c := p.Challenge
	var value string
	switch c.Type {
	case constants.ChallengeBinary:
		value = fmt.Sprintf("%s/%d days", cli.FormatValue(p.Current), p.Occurrences)
	case constants.ChallengeWeight:
		if p.Latest == nil {
			value = "no entries"
		} else {
			value = fmt.Sprintf("%s %s", cli.FormatValue(p.Current), c.UnitLabel())
		}
	default:
		value = fmt.Sprintf("%s %s", cli.FormatValue(p.Current), c.UnitLabel())
		if c.TargetValue != nil {
			value += " of " + cli.FormatValue(*c.TargetValue)
		}
	}

	line := fmt.Sprintf("%-24s %s", c.Title, value)
	if p.HasPercent {
		line += fmt.Sprintf("  %s %3d%%", ProgressBar(p.Percent, 20), p.Percent)
	}
	return line
}

// RenderDashboard renders today's tasks and the active challenges
func RenderDashboard(board tracker.Dashboard) string {
	var b strings.Builder
	b.WriteString(RenderDay(board.Today, board.Date))
	b.WriteString(cli.DimStyle.Render(fmt.Sprintf("%d of %d done today", board.DoneToday, board.DueToday)))
	b.WriteString("\n\n")

	b.WriteString(cli.HeaderStyle.Render("Active challenges"))
	b.WriteString("\n")
	if len(board.Active) == 0 {
		b.WriteString(cli.DimStyle.Render("  none"))
		b.WriteString("\n")
	}
	for _, p := range board.Active {
		b.WriteString("  ")
		b.WriteString(RenderProgress(p))
		b.WriteString("\n")
	}
	if board.Paused > 0 {
		b.WriteString(cli.DimStyle.Render(fmt.Sprintf("  %d paused", board.Paused)))
		b.WriteString("\n")
	}
	return b.String()
}
