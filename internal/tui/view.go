package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/tally/internal/constants"
)

func (m Model) View() string {
	if m.quitting {
		if m.signedOut {
			return "Signed out.\n"
		}
		return ""
	}

	var content string
	switch m.state {
	case constants.StateWeek:
		content = docStyle.Render(m.week.View())
	case constants.StateChallenges:
		content = docStyle.Render(m.challenges.View())
	case constants.StateCheckinForm:
		content = docStyle.Render(m.form.View())
	case constants.StateConfirmDelete:
		content = m.viewConfirmDelete()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		content,
		m.viewStatus(),
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	active := m.state
	if active == constants.StateCheckinForm {
		active = constants.StateWeek
	}
	if active == constants.StateConfirmDelete {
		active = constants.StateChallenges
	}

	var tabs []string
	for _, tab := range []struct {
		title string
		state constants.SessionState
	}{
		{"Week", constants.StateWeek},
		{"Challenges", constants.StateChallenges},
	} {
		if tab.state == active {
			tabs = append(tabs, activeTabStyle.Render(tab.title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(tab.title))
		}
	}
	tabs = append(tabs, userStyle.Render("  "+m.user.Email))
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewStatus() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("  Error: %v", m.err))
	}
	if m.status != "" {
		return statusStyle.Render("  " + m.status)
	}
	return ""
}

func (m Model) viewConfirmDelete() string {
	return lipgloss.Place(m.width, m.height-4,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render(fmt.Sprintf("Delete %q and all of its check-ins?", m.deleteTarget.Title)),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}
