package views

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/tally/internal/auth"
	"github.com/julianstephens/tally/internal/cli"
	"github.com/julianstephens/tally/internal/config"
	"github.com/julianstephens/tally/internal/constants"
	"github.com/julianstephens/tally/internal/models"
	"github.com/julianstephens/tally/internal/scheduler"
	"github.com/julianstephens/tally/internal/storage/sqlite"
	"github.com/julianstephens/tally/internal/tracker"
)

func setupTestDB(t *testing.T) (*cli.Context, models.User) {
	t.Helper()
	gokeyring.MockInit()

	dir := t.TempDir()
	store := sqlite.NewStore(filepath.Join(dir, "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	cfg := config.Default(dir)
	cfg.Timezone = "UTC"
	ctx := cli.NewContext(store, cfg, filepath.Join(dir, "config.yaml"))
	ctx.Scheduler.Now = func() time.Time { return time.Date(2024, 6, 12, 9, 0, 0, 0, time.UTC) }

	if _, err := ctx.Auth.SignUp("views@example.com", "password123"); err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	user, err := ctx.RequireUser()
	if err != nil {
		t.Fatalf("no current user: %v", err)
	}
	return ctx, user
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestTaskMark(t *testing.T) {
	done := true
	tests := []struct {
		name string
		task scheduler.Task
		want string
	}{
		{"done", scheduler.Task{Checkin: &models.Checkin{Done: &done}}, "✓"},
		{"missed", scheduler.Task{IsPast: true}, "✗"},
		{"today pending", scheduler.Task{IsPast: true, IsToday: true}, "○"},
		{"future", scheduler.Task{}, "○"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TaskMark(tt.task); !strings.Contains(got, tt.want) {
				t.Errorf("TaskMark() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderDay(t *testing.T) {
	value := 4.5
	unit := "km"
	day := scheduler.DayBucket{
		Date: date(2024, 6, 12),
		Tasks: []scheduler.Task{{
			Challenge: models.Challenge{Title: "Run", Unit: &unit},
			Checkin:   &models.Checkin{Value: &value},
			IsToday:   true,
			IsPast:    true,
		}},
	}

	out := RenderDay(day, date(2024, 6, 12))
	for _, want := range []string{"Wed 2024-06-12", "(today)", "Run", "4.5 km"} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderDay() missing %q in:\n%s", want, out)
		}
	}

	empty := RenderDay(scheduler.DayBucket{Date: date(2024, 6, 13)}, date(2024, 6, 12))
	if strings.Contains(empty, "(today)") || !strings.Contains(empty, "nothing scheduled") {
		t.Errorf("unexpected empty day rendering:\n%s", empty)
	}
}

func TestRenderProgress(t *testing.T) {
	unit := "km"
	target := 100.0
	p := tracker.Progress{
		Challenge: models.ChallengeWithSchedule{Challenge: models.Challenge{
			Title: "Run", Type: constants.ChallengeQuantitative, Unit: &unit, TargetValue: &target,
		}},
		Current:    25,
		Percent:    25,
		HasPercent: true,
	}
	out := RenderProgress(p)
	if !strings.Contains(out, "25 km of 100") || !strings.Contains(out, "25%") {
		t.Errorf("RenderProgress() = %q", out)
	}

	weight := tracker.Progress{Challenge: models.ChallengeWithSchedule{Challenge: models.Challenge{
		Title: "Weigh-in", Type: constants.ChallengeWeight, Unit: &unit,
	}}}
	if out := RenderProgress(weight); !strings.Contains(out, "no entries") {
		t.Errorf("RenderProgress(weight) = %q", out)
	}
}

func TestProgressBar(t *testing.T) {
	if got := ProgressBar(50, 10); strings.Count(got, "█") != 5 || strings.Count(got, "░") != 5 {
		t.Errorf("ProgressBar(50, 10) = %q", got)
	}
	if got := ProgressBar(150, 4); strings.Count(got, "█") != 4 {
		t.Errorf("ProgressBar(150, 4) = %q", got)
	}
	if got := ProgressBar(10, 0); got != "" {
		t.Errorf("ProgressBar(10, 0) = %q, want empty", got)
	}
}

func TestCommands(t *testing.T) {
	ctx, user := setupTestDB(t)

	in := ctx.Tracker.Defaults()
	in.Title = "Run"
	target := 50.0
	in.Target = &target
	item, err := ctx.Tracker.CreateChallenge(user.ID, in)
	if err != nil {
		t.Fatalf("create challenge failed: %v", err)
	}
	value := 5.0
	if _, err := ctx.Tracker.RecordCheckin(user.ID, item.ID, tracker.CheckinInput{Value: &value}); err != nil {
		t.Fatalf("record checkin failed: %v", err)
	}

	cmds := map[string]interface{ Run(*cli.Context) error }{
		"week":         &WeekCmd{},
		"week by date": &WeekCmd{Date: "2024-06-20"},
		"month":        &MonthCmd{},
		"month all":    &MonthCmd{Date: "2024-07-01", All: true},
		"today":        &TodayCmd{},
		"dashboard":    &DashboardCmd{},
	}
	for name, cmd := range cmds {
		if err := cmd.Run(ctx); err != nil {
			t.Errorf("%s failed: %v", name, err)
		}
	}

	if err := (&WeekCmd{Date: "june"}).Run(ctx); err == nil {
		t.Error("expected error for invalid date")
	}
}

func TestCommandsRequireUser(t *testing.T) {
	ctx, _ := setupTestDB(t)
	if err := ctx.Auth.SignOut(); err != nil {
		t.Fatalf("signout failed: %v", err)
	}
	if err := (&TodayCmd{}).Run(ctx); !errors.Is(err, auth.ErrNotSignedIn) {
		t.Errorf("today without user error = %v, want ErrNotSignedIn", err)
	}
}
