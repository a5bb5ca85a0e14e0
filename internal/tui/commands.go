package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/tally/internal/cli"
	"github.com/julianstephens/tally/internal/logger"
	"github.com/julianstephens/tally/internal/models"
	"github.com/julianstephens/tally/internal/scheduler"
	"github.com/julianstephens/tally/internal/tracker"
	"github.com/julianstephens/tally/internal/tui/components/challenges"
)

type weekLoadedMsg struct {
	view tracker.View
	err  error
}

type challengesLoadedMsg struct {
	items []challenges.Item
	err   error
}

// mutationMsg reports a finished write; views are reloaded afterwards
type mutationMsg struct {
	status string
	err    error
}

func waitForAuth(events <-chan authMsg) tea.Cmd {
	return func() tea.Msg {
		return <-events
	}
}

func (m Model) loadWeek() tea.Cmd {
	svc, userID, anchor := m.tracker, m.user.ID, m.week.Anchor()
	return func() tea.Msg {
		view, err := svc.WeekView(userID, anchor)
		return weekLoadedMsg{view: view, err: err}
	}
}

func (m Model) loadChallenges() tea.Cmd {
	svc, userID := m.tracker, m.user.ID
	return func() tea.Msg {
		board, err := svc.Dashboard(userID)
		if err != nil {
			return challengesLoadedMsg{err: err}
		}
		items, err := svc.ListChallenges(userID)
		if err != nil {
			return challengesLoadedMsg{err: err}
		}

		progress := make(map[string]tracker.Progress, len(board.Active))
		for _, p := range board.Active {
			progress[p.Challenge.ID] = p
		}
		out := make([]challenges.Item, 0, len(items))
		for _, item := range items {
			p, ok := progress[item.ID]
			if !ok {
				p = tracker.Progress{Challenge: item}
			}
			out = append(out, challenges.Item{Progress: p, Schedule: cli.FormatChallengeSchedule(item)})
		}
		return challengesLoadedMsg{items: out}
	}
}

func (m Model) reload() tea.Cmd {
	return tea.Batch(m.loadWeek(), m.loadChallenges())
}

func (m Model) toggleTask(task scheduler.Task) tea.Cmd {
	svc, userID := m.tracker, m.user.ID
	return func() tea.Msg {
		done, err := svc.ToggleDone(userID, task.Challenge.ID, task.DateKey)
		if err != nil {
			logger.Error("Toggle failed", "challenge", task.Challenge.ID, "date", task.DateKey, "err", err)
			return mutationMsg{err: err}
		}
		state := "not done"
		if done {
			state = "done"
		}
		return mutationMsg{status: fmt.Sprintf("%s marked %s on %s", task.Challenge.Title, state, task.DateKey)}
	}
}

func (m Model) recordCheckin(task scheduler.Task, value float64, note string) tea.Cmd {
	svc, userID := m.tracker, m.user.ID
	return func() tea.Msg {
		_, err := svc.RecordCheckin(userID, task.Challenge.ID, tracker.CheckinInput{
			Date:  task.DateKey,
			Value: &value,
			Note:  note,
		})
		if err != nil {
			logger.Error("Check-in failed", "challenge", task.Challenge.ID, "date", task.DateKey, "err", err)
			return mutationMsg{err: err}
		}
		return mutationMsg{status: fmt.Sprintf("Checked in %s on %s", task.Challenge.Title, task.DateKey)}
	}
}

func (m Model) setActive(item models.ChallengeWithSchedule, active bool) tea.Cmd {
	svc, userID := m.tracker, m.user.ID
	return func() tea.Msg {
		if _, err := svc.SetActive(userID, item.ID, active); err != nil {
			return mutationMsg{err: err}
		}
		if active {
			return mutationMsg{status: "Resumed " + item.Title}
		}
		return mutationMsg{status: "Paused " + item.Title}
	}
}

func (m Model) deleteChallenge(item models.ChallengeWithSchedule) tea.Cmd {
	svc, userID := m.tracker, m.user.ID
	return func() tea.Msg {
		if err := svc.DeleteChallenge(userID, item.ID); err != nil {
			logger.Error("Delete failed", "challenge", item.ID, "err", err)
			return mutationMsg{err: err}
		}
		return mutationMsg{status: "Deleted " + item.Title}
	}
}

func (m Model) signOut() tea.Cmd {
	authp := m.auth
	return func() tea.Msg {
		if err := authp.SignOut(); err != nil {
			return mutationMsg{err: err}
		}
		return nil
	}
}
