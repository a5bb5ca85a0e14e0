package challenges

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/tally/internal/models"
	"github.com/julianstephens/tally/internal/tracker"
)

type DeleteChallengeMsg struct {
	Challenge models.ChallengeWithSchedule
}

type TogglePauseMsg struct {
	Challenge models.ChallengeWithSchedule
}

// Item is one challenge with its progress
type Item struct {
	Progress tracker.Progress
	Schedule string
}

func (i Item) Title() string {
	c := i.Progress.Challenge
	if !c.IsActive {
		return c.Title + " (paused)"
	}
	return c.Title
}

func (i Item) Description() string {
	p := i.Progress
	desc := fmt.Sprintf("%s | %s..%s", i.Schedule, p.Challenge.StartDate, p.Challenge.EndDate)
	if p.HasPercent {
		desc += fmt.Sprintf(" | %d%%", p.Percent)
	}
	return desc
}

func (i Item) FilterValue() string { return i.Progress.Challenge.Title }

type KeyMap struct {
	Delete key.Binding
	Pause  key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pause/resume"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(items []Item, width, height int) Model {
	l := list.New(toListItems(items), list.NewDefaultDelegate(), width, height)
	l.Title = "Challenges"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Pause, keys.Delete}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Pause, keys.Delete}
	}

	return Model{list: l, keys: keys}
}

func toListItems(items []Item) []list.Item {
	out := make([]list.Item, len(items))
	for i, item := range items {
		out[i] = item
	}
	return out
}

func (m *Model) SetItems(items []Item) {
	m.list.SetItems(toListItems(items))
}

// Len is the number of challenges shown
func (m Model) Len() int {
	return len(m.list.Items())
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		if i, ok := m.list.SelectedItem().(Item); ok {
			switch {
			case key.Matches(msg, m.keys.Delete):
				return m, func() tea.Msg { return DeleteChallengeMsg{Challenge: i.Progress.Challenge} }
			case key.Matches(msg, m.keys.Pause):
				return m, func() tea.Msg { return TogglePauseMsg{Challenge: i.Progress.Challenge} }
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return "\n  No challenges yet.\n  Add one with 'tally challenge add'."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
