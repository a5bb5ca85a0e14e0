package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/tally/internal/constants"
	"github.com/julianstephens/tally/internal/tui/components/challenges"
	"github.com/julianstephens/tally/internal/utils"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.week.SetSize(msg.Width-4, msg.Height-6)
		m.challenges.SetSize(msg.Width-4, msg.Height-6)
		return m, nil

	case weekLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.week.SetView(msg.view, m.tracker.Today())
		return m, nil

	case challengesLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.challenges.SetItems(msg.items)
		return m, nil

	case mutationMsg:
		m.err = msg.err
		if msg.err == nil {
			m.status = msg.status
		}
		return m, m.reload()

	case authMsg:
		if msg.event == constants.AuthSignedOut || (msg.event == constants.AuthInitialSession && msg.session == nil) {
			m.signedOut = true
			m.quitting = true
			return m, tea.Quit
		}
		if msg.session != nil && msg.session.UserID != m.user.ID {
			// another account signed in elsewhere in this process
			m.signedOut = true
			m.quitting = true
			return m, tea.Quit
		}
		return m, waitForAuth(m.authEvents)
	}

	switch m.state {
	case constants.StateCheckinForm:
		return m.updateCheckinForm(msg)
	case constants.StateConfirmDelete:
		return m.updateConfirmDelete(msg)
	}

	switch msg := msg.(type) {
	case challenges.DeleteChallengeMsg:
		m.deleteTarget = msg.Challenge
		m.state = constants.StateConfirmDelete
		return m, nil
	case challenges.TogglePauseMsg:
		return m, m.setActive(msg.Challenge, !msg.Challenge.IsActive)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.SignOut):
			return m, m.signOut()
		case key.Matches(msg, m.keys.Tab):
			if m.state == constants.StateWeek {
				m.state = constants.StateChallenges
			} else {
				m.state = constants.StateWeek
			}
			return m, nil
		}
	}

	if m.state == constants.StateChallenges {
		var cmd tea.Cmd
		m.challenges, cmd = m.challenges.Update(msg)
		return m, cmd
	}
	return m.updateWeek(msg)
}

func (m Model) updateWeek(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Up):
		m.week.MoveTask(-1)
	case key.Matches(keyMsg, m.keys.Down):
		m.week.MoveTask(1)
	case key.Matches(keyMsg, m.keys.Left):
		if m.week.MoveDay(-1) {
			return m, m.loadWeek()
		}
	case key.Matches(keyMsg, m.keys.Right):
		if m.week.MoveDay(1) {
			return m, m.loadWeek()
		}
	case key.Matches(keyMsg, m.keys.PrevWeek):
		m.week.SetAnchor(utils.AddDays(m.week.Anchor(), -constants.DaysPerWeek))
		return m, m.loadWeek()
	case key.Matches(keyMsg, m.keys.NextWeek):
		m.week.SetAnchor(utils.AddDays(m.week.Anchor(), constants.DaysPerWeek))
		return m, m.loadWeek()
	case key.Matches(keyMsg, m.keys.Today):
		m.week.SetAnchor(m.tracker.Today())
		return m, m.loadWeek()
	case key.Matches(keyMsg, m.keys.Enter):
		task, ok := m.week.Selected()
		if !ok {
			return m, nil
		}
		if task.Challenge.IsBinary() {
			return m, m.toggleTask(task)
		}
		m.newCheckinForm(task)
		return m, m.form.Init()
	}
	return m, nil
}

func (m Model) updateCheckinForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = constants.StateWeek
		return m, nil
	}

	var cmds []tea.Cmd
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	cmds = append(cmds, cmd)

	switch m.form.State {
	case huh.StateCompleted:
		m.state = constants.StateWeek
		value, err := strconv.ParseFloat(strings.TrimSpace(m.checkinForm.Value), 64)
		if err != nil {
			m.err = err
			return m, nil
		}
		cmds = append(cmds, m.recordCheckin(m.checkinTask, value, m.checkinForm.Note))
	case huh.StateAborted:
		m.state = constants.StateWeek
	}
	return m, tea.Batch(cmds...)
}

func (m Model) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case "y", "Y":
		m.state = constants.StateChallenges
		return m, m.deleteChallenge(m.deleteTarget)
	case "n", "N", "esc", "q":
		m.state = constants.StateChallenges
	}
	return m, nil
}
