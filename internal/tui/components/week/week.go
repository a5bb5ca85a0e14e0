package week

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/tally/internal/constants"
	"github.com/julianstephens/tally/internal/scheduler"
	"github.com/julianstephens/tally/internal/tracker"
	"github.com/julianstephens/tally/internal/utils"
)

var (
	columnStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
	selectedColumnStyle = columnStyle.BorderForeground(lipgloss.Color("205"))

	headingStyle = lipgloss.NewStyle().Bold(true)
	todayStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	cursorStyle  = lipgloss.NewStyle().Reverse(true)
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	missedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

// Model shows one Monday-start week as seven columns with a day and task
// cursor.
type Model struct {
	view   tracker.View
	today  time.Time
	anchor time.Time
	day    int
	task   int
	width  int
	height int
}

func New(anchor time.Time, width, height int) Model {
	m := Model{width: width, height: height}
	m.SetAnchor(anchor)
	return m
}

// SetView replaces the displayed week. The cursor keeps its day and is
// clamped to the tasks now on that day.
func (m *Model) SetView(view tracker.View, today time.Time) {
	m.view = view
	m.today = utils.DateOnly(today)
	if len(view.Days) > 0 {
		m.anchor = utils.AddDays(view.Start, m.day)
	}
	m.clampTask()
}

// Anchor is the selected date; reloading the week around it keeps the
// selection in place.
func (m Model) Anchor() time.Time {
	return m.anchor
}

// SetAnchor moves the selection to date, which may be in another week.
// The caller reloads the view.
func (m *Model) SetAnchor(date time.Time) {
	m.anchor = utils.DateOnly(date)
	m.day = utils.MondayIndex(m.anchor)
	m.task = 0
}

// MoveDay moves the cursor by delta days, crossing into neighbouring weeks.
// It reports whether the week changed.
func (m *Model) MoveDay(delta int) bool {
	before := scheduler.StartOfWeek(m.anchor)
	m.SetAnchor(utils.AddDays(m.anchor, delta))
	return !utils.SameDate(before, scheduler.StartOfWeek(m.anchor))
}

// MoveTask moves the cursor within the selected day
func (m *Model) MoveTask(delta int) {
	m.task += delta
	m.clampTask()
}

func (m *Model) clampTask() {
	n := len(m.selectedDay().Tasks)
	if m.task >= n {
		m.task = n - 1
	}
	if m.task < 0 {
		m.task = 0
	}
}

func (m Model) selectedDay() scheduler.DayBucket {
	if m.day < 0 || m.day >= len(m.view.Days) {
		return scheduler.DayBucket{}
	}
	return m.view.Days[m.day]
}

// Selected returns the task under the cursor
func (m Model) Selected() (scheduler.Task, bool) {
	tasks := m.selectedDay().Tasks
	if m.task < 0 || m.task >= len(tasks) {
		return scheduler.Task{}, false
	}
	return tasks[m.task], true
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func mark(task scheduler.Task) string {
	switch {
	case task.Done():
		return doneStyle.Render("✓")
	case task.IsPast && !task.IsToday:
		return missedStyle.Render("✗")
	default:
		return "○"
	}
}

func (m Model) View() string {
	if len(m.view.Days) == 0 {
		return dimStyle.Render("Loading week...")
	}

	colWidth := 16
	if m.width > 0 {
		if w := m.width/constants.DaysPerWeek - 4; w > colWidth {
			colWidth = w
		}
	}

	columns := make([]string, 0, len(m.view.Days))
	for i, day := range m.view.Days {
		var b strings.Builder
		heading := fmt.Sprintf("%s %02d", constants.WeekdayLabels[i], day.Date.Day())
		if utils.SameDate(day.Date, m.today) {
			b.WriteString(todayStyle.Render(heading))
		} else {
			b.WriteString(headingStyle.Render(heading))
		}
		b.WriteString("\n")

		if len(day.Tasks) == 0 {
			b.WriteString(dimStyle.Render("-"))
		}
		for j, task := range day.Tasks {
			line := mark(task) + " " + truncate(task.Challenge.Title, colWidth-2)
			if i == m.day && j == m.task {
				line = cursorStyle.Render(line)
			}
			b.WriteString(line)
			if j < len(day.Tasks)-1 {
				b.WriteString("\n")
			}
		}

		style := columnStyle
		if i == m.day {
			style = selectedColumnStyle
		}
		columns = append(columns, style.Width(colWidth).Render(b.String()))
	}

	due, done := m.view.Due()
	title := fmt.Sprintf("Week of %s  ·  %d/%d done", utils.FormatDate(m.view.Start), done, due)
	return lipgloss.JoinVertical(lipgloss.Left,
		headingStyle.Render(title),
		lipgloss.JoinHorizontal(lipgloss.Top, columns...),
	)
}

func truncate(s string, n int) string {
	if n <= 1 {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
