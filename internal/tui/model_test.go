package tui

import (
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/tally/internal/auth"
	"github.com/julianstephens/tally/internal/constants"
	"github.com/julianstephens/tally/internal/models"
	"github.com/julianstephens/tally/internal/scheduler"
	"github.com/julianstephens/tally/internal/storage/sqlite"
	"github.com/julianstephens/tally/internal/tracker"
	"github.com/julianstephens/tally/internal/tui/components/challenges"
)

type fixture struct {
	svc   *tracker.Service
	auth  *auth.Provider
	user  models.User
	model Model
}

// setup signs a user up and returns a model whose clock is Wednesday 2024-06-12
func setup(t *testing.T) *fixture {
	t.Helper()
	gokeyring.MockInit()

	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	now := time.Date(2024, 6, 12, 9, 0, 0, 0, time.UTC)
	sched := &scheduler.Scheduler{Now: func() time.Time { return now }}
	svc := tracker.New(store, sched)
	authp := auth.New(store)

	if _, err := authp.SignUp("tui@example.com", "password123"); err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	user, err := authp.CurrentUser()
	if err != nil {
		t.Fatalf("no current user: %v", err)
	}

	m := NewModel(svc, authp, user)
	t.Cleanup(m.Close)
	return &fixture{svc: svc, auth: authp, user: user, model: m}
}

func (f *fixture) addChallenge(t *testing.T, title string, typ constants.ChallengeType) models.ChallengeWithSchedule {
	t.Helper()
	in := f.svc.Defaults()
	in.Title = title
	in.Type = typ
	item, err := f.svc.CreateChallenge(f.user.ID, in)
	if err != nil {
		t.Fatalf("create challenge failed: %v", err)
	}
	return item
}

// send runs one Update and returns the new model
func (f *fixture) send(msg tea.Msg) tea.Cmd {
	next, cmd := f.model.Update(msg)
	f.model = next.(Model)
	return cmd
}

// settle runs cmd and feeds its message back until no command is left.
// Batches are expanded; auth waits are skipped.
func (f *fixture) settle(cmd tea.Cmd) {
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		msg := c()
		switch msg := msg.(type) {
		case nil:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case weekLoadedMsg, challengesLoadedMsg, mutationMsg:
			queue = append(queue, f.send(msg))
		}
	}
}

func (f *fixture) load() {
	f.settle(tea.Batch(f.model.loadWeek(), f.model.loadChallenges()))
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewModel_InitialState(t *testing.T) {
	f := setup(t)
	if f.model.state != constants.StateWeek {
		t.Errorf("initial state = %v, want StateWeek", f.model.state)
	}

	// the initial session event is queued for the program
	msg := waitForAuth(f.model.authEvents)()
	am, ok := msg.(authMsg)
	if !ok || am.event != constants.AuthInitialSession || am.session == nil {
		t.Fatalf("first auth message = %#v", msg)
	}
	cmd := f.send(am)
	if f.model.quitting || cmd == nil {
		t.Error("model should keep running and keep listening while signed in")
	}
}

func TestToggleBinaryTask(t *testing.T) {
	f := setup(t)
	floss := f.addChallenge(t, "Floss", constants.ChallengeBinary)
	f.load()

	task, ok := f.model.week.Selected()
	if !ok || task.Challenge.ID != floss.ID || task.DateKey != "2024-06-12" {
		t.Fatalf("selected task = %+v, %v", task, ok)
	}

	f.settle(f.send(tea.KeyMsg{Type: tea.KeyEnter}))
	if f.model.err != nil {
		t.Fatalf("toggle error: %v", f.model.err)
	}
	task, _ = f.model.week.Selected()
	if !task.Done() {
		t.Error("task should be done after toggle")
	}

	f.settle(f.send(tea.KeyMsg{Type: tea.KeyEnter}))
	task, _ = f.model.week.Selected()
	if task.Done() {
		t.Error("task should be undone after second toggle")
	}
}

func TestQuantitativeTaskOpensForm(t *testing.T) {
	f := setup(t)
	f.addChallenge(t, "Run", constants.ChallengeQuantitative)
	f.load()

	f.send(tea.KeyMsg{Type: tea.KeyEnter})
	if f.model.state != constants.StateCheckinForm || f.model.form == nil {
		t.Fatalf("state = %v, want StateCheckinForm", f.model.state)
	}
	if f.model.checkinTask.DateKey != "2024-06-12" {
		t.Errorf("form task date = %s", f.model.checkinTask.DateKey)
	}

	f.send(tea.KeyMsg{Type: tea.KeyEsc})
	if f.model.state != constants.StateWeek {
		t.Errorf("esc should return to the week, state = %v", f.model.state)
	}

	// submitting the bound values records a check-in
	f.settle(f.model.recordCheckin(f.model.checkinTask, 4.2, "windy"))
	task, _ := f.model.week.Selected()
	if task.Checkin == nil || task.Checkin.Value == nil || *task.Checkin.Value != 4.2 {
		t.Errorf("check-in after submit = %+v", task.Checkin)
	}
	if f.model.status == "" {
		t.Error("expected a status message after check-in")
	}
}

func TestWeekNavigation(t *testing.T) {
	f := setup(t)
	f.addChallenge(t, "Run", constants.ChallengeQuantitative)
	f.load()

	// Wednesday to Thursday stays in the week
	if cmd := f.send(tea.KeyMsg{Type: tea.KeyRight}); cmd != nil {
		t.Error("moving within the week should not reload")
	}
	if got := f.model.week.Anchor().Format(constants.DateFormat); got != "2024-06-13" {
		t.Errorf("anchor = %s, want 2024-06-13", got)
	}

	f.settle(f.send(keyRunes("]")))
	if got := f.model.week.Anchor().Format(constants.DateFormat); got != "2024-06-20" {
		t.Errorf("anchor after next week = %s, want 2024-06-20", got)
	}
	if task, ok := f.model.week.Selected(); !ok || task.DateKey != "2024-06-20" {
		t.Errorf("selected after next week = %+v, %v", task, ok)
	}

	f.settle(f.send(keyRunes("t")))
	if got := f.model.week.Anchor().Format(constants.DateFormat); got != "2024-06-12" {
		t.Errorf("anchor after today = %s, want 2024-06-12", got)
	}

	for i := 0; i < 3; i++ {
		f.send(tea.KeyMsg{Type: tea.KeyLeft})
	}
	// Sunday of the previous week
	if got := f.model.week.Anchor().Format(constants.DateFormat); got != "2024-06-09" {
		t.Errorf("anchor after moving left = %s, want 2024-06-09", got)
	}
}

func TestDeleteChallengeConfirm(t *testing.T) {
	f := setup(t)
	run := f.addChallenge(t, "Run", constants.ChallengeQuantitative)
	f.load()

	f.send(tea.KeyMsg{Type: tea.KeyTab})
	if f.model.state != constants.StateChallenges {
		t.Fatalf("tab should switch to challenges, state = %v", f.model.state)
	}
	if f.model.challenges.Len() != 1 {
		t.Fatalf("challenge list has %d items, want 1", f.model.challenges.Len())
	}

	f.send(challenges.DeleteChallengeMsg{Challenge: run})
	if f.model.state != constants.StateConfirmDelete {
		t.Fatalf("state = %v, want StateConfirmDelete", f.model.state)
	}
	f.send(keyRunes("n"))
	if f.model.state != constants.StateChallenges {
		t.Fatalf("cancel should return to challenges, state = %v", f.model.state)
	}

	f.send(challenges.DeleteChallengeMsg{Challenge: run})
	f.settle(f.send(keyRunes("y")))
	if f.model.challenges.Len() != 0 {
		t.Errorf("challenge list has %d items after delete, want 0", f.model.challenges.Len())
	}
	items, err := f.svc.ListChallenges(f.user.ID)
	if err != nil || len(items) != 0 {
		t.Errorf("challenges after delete = %v, %v", items, err)
	}
}

func TestTogglePause(t *testing.T) {
	f := setup(t)
	run := f.addChallenge(t, "Run", constants.ChallengeQuantitative)
	f.load()

	f.settle(f.send(challenges.TogglePauseMsg{Challenge: run}))
	item, err := f.svc.GetChallenge(f.user.ID, run.ID)
	if err != nil {
		t.Fatalf("get challenge: %v", err)
	}
	if item.IsActive {
		t.Error("challenge should be paused")
	}
	if _, ok := f.model.week.Selected(); ok {
		t.Error("paused challenge should not appear in the week")
	}
}

func TestSignOutQuits(t *testing.T) {
	f := setup(t)
	// drain the initial session event
	f.send(waitForAuth(f.model.authEvents)())

	f.settle(f.send(tea.KeyMsg{Type: tea.KeyCtrlO}))
	msg := waitForAuth(f.model.authEvents)()
	am, ok := msg.(authMsg)
	if !ok || am.event != constants.AuthSignedOut {
		t.Fatalf("auth message after sign out = %#v", msg)
	}

	f.send(am)
	if !f.model.quitting || !f.model.signedOut {
		t.Error("model should quit after sign out")
	}
	if f.model.View() != "Signed out.\n" {
		t.Errorf("View() = %q", f.model.View())
	}
}

func TestValidValue(t *testing.T) {
	tests := []struct {
		typ     constants.ChallengeType
		input   string
		wantErr bool
	}{
		{constants.ChallengeQuantitative, "5.5", false},
		{constants.ChallengeQuantitative, "0", false},
		{constants.ChallengeQuantitative, "-1", true},
		{constants.ChallengeQuantitative, "abc", true},
		{constants.ChallengeQuantitative, "NaN", true},
		{constants.ChallengeQuantitative, "Inf", true},
		{constants.ChallengeWeight, "0", true},
		{constants.ChallengeWeight, "72.4", false},
	}
	for _, tt := range tests {
		t.Run(string(tt.typ)+"/"+tt.input, func(t *testing.T) {
			if err := validValue(tt.typ)(tt.input); (err != nil) != tt.wantErr {
				t.Errorf("validValue(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
