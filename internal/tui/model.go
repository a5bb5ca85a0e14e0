package tui

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/tally/internal/auth"
	"github.com/julianstephens/tally/internal/constants"
	"github.com/julianstephens/tally/internal/models"
	"github.com/julianstephens/tally/internal/scheduler"
	"github.com/julianstephens/tally/internal/tracker"
	"github.com/julianstephens/tally/internal/tui/components/challenges"
	"github.com/julianstephens/tally/internal/tui/components/week"
)

// CheckinFormModel holds the values bound to the check-in form
type CheckinFormModel struct {
	Value string
	Note  string
}

// authMsg carries an auth state change into the program
type authMsg struct {
	event   constants.AuthEvent
	session *models.Session
}

type Model struct {
	tracker *tracker.Service
	auth    *auth.Provider
	user    models.User

	state      constants.SessionState
	keys       KeyMap
	help       help.Model
	week       week.Model
	challenges challenges.Model

	form          *huh.Form
	checkinForm   *CheckinFormModel
	checkinTask   scheduler.Task
	deleteTarget  models.ChallengeWithSchedule
	status        string
	err           error
	signedOut     bool
	quitting      bool
	width, height int

	authEvents  chan authMsg
	unsubscribe func()
}

// NewModel builds the TUI for user. Call Close when the program exits to
// stop listening for auth changes.
func NewModel(svc *tracker.Service, authp *auth.Provider, user models.User) Model {
	m := Model{
		tracker:    svc,
		auth:       authp,
		user:       user,
		state:      constants.StateWeek,
		keys:       DefaultKeyMap(),
		help:       help.New(),
		week:       week.New(svc.Today(), 0, 0),
		challenges: challenges.New(nil, 0, 0),
		authEvents: make(chan authMsg, 8),
	}

	events := m.authEvents
	m.unsubscribe = authp.OnAuthStateChange(func(event constants.AuthEvent, session *models.Session) {
		select {
		case events <- authMsg{event: event, session: session}:
		default:
		}
	})
	return m
}

// Close unsubscribes from auth state changes
func (m Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.loadWeek(),
		m.loadChallenges(),
		waitForAuth(m.authEvents),
	)
}

func (m Model) ShortHelp() []key.Binding {
	switch m.state {
	case constants.StateChallenges:
		return []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	default:
		return m.keys.ShortHelp()
	}
}

func (m Model) FullHelp() [][]key.Binding {
	return m.keys.FullHelp()
}

// newCheckinForm asks for the value of a measured challenge
func (m *Model) newCheckinForm(task scheduler.Task) {
	m.checkinTask = task
	m.checkinForm = &CheckinFormModel{}
	if task.Checkin != nil {
		if task.Checkin.Value != nil {
			m.checkinForm.Value = strconv.FormatFloat(*task.Checkin.Value, 'f', -1, 64)
		}
		if task.Checkin.Note != nil {
			m.checkinForm.Note = *task.Checkin.Note
		}
	}

	title := fmt.Sprintf("%s on %s", task.Challenge.Title, task.DateKey)
	valueTitle := "Value"
	if unit := task.Challenge.UnitLabel(); unit != "" {
		valueTitle = fmt.Sprintf("Value (%s)", unit)
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewNote().Title(title),
			huh.NewInput().
				Title(valueTitle).
				Value(&m.checkinForm.Value).
				Validate(validValue(task.Challenge.Type)),
			huh.NewInput().
				Title("Note").
				Value(&m.checkinForm.Note),
		),
	)
	m.state = constants.StateCheckinForm
}

func validValue(typ constants.ChallengeType) func(string) error {
	return func(s string) error {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("enter a number")
		}
		if v < 0 || (typ == constants.ChallengeWeight && v == 0) {
			return fmt.Errorf("enter a positive number")
		}
		return nil
	}
}
