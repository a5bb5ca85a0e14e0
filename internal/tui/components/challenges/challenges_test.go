package challenges

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/tally/internal/models"
	"github.com/julianstephens/tally/internal/tracker"
)

func item(title string, active bool) Item {
	return Item{
		Progress: tracker.Progress{Challenge: models.ChallengeWithSchedule{Challenge: models.Challenge{
			ID: title, Title: title, IsActive: active, StartDate: "2024-06-01", EndDate: "2024-06-30",
		}}, Percent: 40, HasPercent: true},
		Schedule: "daily",
	}
}

func TestItem(t *testing.T) {
	if got := item("Run", false).Title(); got != "Run (paused)" {
		t.Errorf("Title() = %q", got)
	}
	if got := item("Run", true).Description(); got != "daily | 2024-06-01..2024-06-30 | 40%" {
		t.Errorf("Description() = %q", got)
	}
}

func TestUpdateEmitsActions(t *testing.T) {
	m := New([]Item{item("Run", true)}, 80, 20)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("d")})
	if cmd == nil {
		t.Fatal("delete key returned no command")
	}
	if msg, ok := cmd().(DeleteChallengeMsg); !ok || msg.Challenge.ID != "Run" {
		t.Errorf("delete produced %#v", cmd())
	}

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")})
	if cmd == nil {
		t.Fatal("pause key returned no command")
	}
	if _, ok := cmd().(TogglePauseMsg); !ok {
		t.Errorf("pause produced %#v", cmd())
	}
}

func TestEmptyView(t *testing.T) {
	m := New(nil, 80, 20)
	if m.Len() != 0 {
		t.Errorf("Len() = %d", m.Len())
	}
	if m.View() == "" {
		t.Error("empty list should explain how to add a challenge")
	}
}
