package checkins

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/tally/internal/cli"
	"github.com/julianstephens/tally/internal/config"
	"github.com/julianstephens/tally/internal/constants"
	"github.com/julianstephens/tally/internal/models"
	"github.com/julianstephens/tally/internal/storage"
	"github.com/julianstephens/tally/internal/storage/sqlite"
	"github.com/julianstephens/tally/internal/validation"
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

	if _, err := ctx.Auth.SignUp("checkins@example.com", "password123"); err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	user, err := ctx.RequireUser()
	if err != nil {
		t.Fatalf("no current user: %v", err)
	}
	return ctx, user
}

func addChallenge(t *testing.T, ctx *cli.Context, user models.User, title string, typ constants.ChallengeType) models.ChallengeWithSchedule {
	t.Helper()
	in := ctx.Tracker.Defaults()
	in.Title = title
	in.Type = typ
	item, err := ctx.Tracker.CreateChallenge(user.ID, in)
	if err != nil {
		t.Fatalf("create challenge failed: %v", err)
	}
	return item
}

func TestCheckinAddCmd(t *testing.T) {
	ctx, user := setupTestDB(t)
	run := addChallenge(t, ctx, user, "Run", constants.ChallengeQuantitative)

	value := 5.5
	cmd := &CheckinAddCmd{ID: run.ID[:8], Value: &value, Note: "easy pace"}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("checkin add failed: %v", err)
	}

	got, err := ctx.Tracker.Checkins(user.ID, run.ID)
	if err != nil {
		t.Fatalf("failed to list checkins: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d checkins, want 1", len(got))
	}
	if got[0].CheckDate != "2024-06-12" || got[0].Value == nil || *got[0].Value != 5.5 {
		t.Errorf("unexpected checkin: %+v", got[0])
	}
	if got[0].Note == nil || *got[0].Note != "easy pace" {
		t.Errorf("note = %v, want easy pace", got[0].Note)
	}
}

func TestCheckinAddCmd_MissingValue(t *testing.T) {
	ctx, user := setupTestDB(t)
	run := addChallenge(t, ctx, user, "Run", constants.ChallengeQuantitative)

	err := (&CheckinAddCmd{ID: run.ID}).Run(ctx)
	if !errors.Is(err, validation.ErrInvalid) {
		t.Errorf("error = %v, want ErrInvalid", err)
	}
}

func TestCheckinAddCmd_Binary(t *testing.T) {
	ctx, user := setupTestDB(t)
	floss := addChallenge(t, ctx, user, "Floss", constants.ChallengeBinary)

	if err := (&CheckinAddCmd{ID: floss.ID, Date: "2024-06-11", NotDone: true}).Run(ctx); err != nil {
		t.Fatalf("checkin add failed: %v", err)
	}
	if err := (&CheckinAddCmd{ID: floss.ID}).Run(ctx); err != nil {
		t.Fatalf("checkin add failed: %v", err)
	}

	got, err := ctx.Tracker.Checkins(user.ID, floss.ID)
	if err != nil {
		t.Fatalf("failed to list checkins: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d checkins, want 2", len(got))
	}
	byDate := map[string]bool{}
	for _, c := range got {
		byDate[c.CheckDate] = c.IsDone()
	}
	if byDate["2024-06-11"] || !byDate["2024-06-12"] {
		t.Errorf("unexpected done flags: %v", byDate)
	}
}

func TestCheckinToggleCmd(t *testing.T) {
	ctx, user := setupTestDB(t)
	floss := addChallenge(t, ctx, user, "Floss", constants.ChallengeBinary)

	cmd := &CheckinToggleCmd{ID: floss.ID}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("first toggle failed: %v", err)
	}
	got, _ := ctx.Tracker.Checkins(user.ID, floss.ID)
	if len(got) != 1 || !got[0].IsDone() {
		t.Fatalf("after first toggle: %+v", got)
	}

	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("second toggle failed: %v", err)
	}
	got, _ = ctx.Tracker.Checkins(user.ID, floss.ID)
	if len(got) != 0 {
		t.Errorf("after second toggle got %d checkins, want 0", len(got))
	}

	run := addChallenge(t, ctx, user, "Run", constants.ChallengeQuantitative)
	if err := (&CheckinToggleCmd{ID: run.ID}).Run(ctx); err == nil {
		t.Error("expected error toggling a quantitative challenge")
	}
}

func TestCheckinListAndDeleteCmd(t *testing.T) {
	ctx, user := setupTestDB(t)
	run := addChallenge(t, ctx, user, "Run", constants.ChallengeQuantitative)

	for _, v := range []float64{3, 4} {
		value := v
		if err := (&CheckinAddCmd{ID: run.ID, Value: &value}).Run(ctx); err != nil {
			t.Fatalf("checkin add failed: %v", err)
		}
	}
	if err := (&CheckinListCmd{ID: run.ID, Limit: 1}).Run(ctx); err != nil {
		t.Fatalf("checkin list failed: %v", err)
	}

	got, _ := ctx.Tracker.Checkins(user.ID, run.ID)
	if err := (&CheckinDeleteCmd{ID: run.ID, CheckinID: got[0].ID[:8]}).Run(ctx); err != nil {
		t.Fatalf("checkin delete failed: %v", err)
	}
	remaining, _ := ctx.Tracker.Checkins(user.ID, run.ID)
	if len(remaining) != 1 || remaining[0].ID == got[0].ID {
		t.Errorf("unexpected remaining checkins: %+v", remaining)
	}

	err := (&CheckinDeleteCmd{ID: run.ID, CheckinID: "does-not-exist"}).Run(ctx)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("delete unknown error = %v, want ErrNotFound", err)
	}
}

func TestFindCheckin(t *testing.T) {
	checkins := []models.Checkin{{ID: "abc123"}, {ID: "abd456"}, {ID: "xyz"}}

	if c, err := findCheckin(checkins, "abc"); err != nil || c.ID != "abc123" {
		t.Errorf("findCheckin(abc) = %v, %v", c.ID, err)
	}
	if c, err := findCheckin(checkins, "xyz"); err != nil || c.ID != "xyz" {
		t.Errorf("findCheckin(xyz) = %v, %v", c.ID, err)
	}
	if _, err := findCheckin(checkins, "ab"); err == nil {
		t.Error("expected ambiguous error")
	}
	if _, err := findCheckin(checkins, ""); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("findCheckin(\"\") error = %v", err)
	}
}
