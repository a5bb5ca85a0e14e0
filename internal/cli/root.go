package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/tally/internal/auth"
	"github.com/julianstephens/tally/internal/backup"
	"github.com/julianstephens/tally/internal/config"
	"github.com/julianstephens/tally/internal/constants"
	apperrors "github.com/julianstephens/tally/internal/errors"
	"github.com/julianstephens/tally/internal/logger"
	"github.com/julianstephens/tally/internal/models"
	"github.com/julianstephens/tally/internal/scheduler"
	"github.com/julianstephens/tally/internal/storage"
	"github.com/julianstephens/tally/internal/storage/sqlite"
	"github.com/julianstephens/tally/internal/tracker"
	"github.com/julianstephens/tally/internal/utils"
)

// ErrBackupUnsupported is returned for backup commands on PostgreSQL
var ErrBackupUnsupported = errors.New("backups are only supported for SQLite databases")

type Context struct {
	Store      storage.Provider
	Scheduler  *scheduler.Scheduler
	Tracker    *tracker.Service
	Auth       *auth.Provider
	Config     *config.Config
	ConfigPath string
}

// NewContext wires the services used by commands around store. "Today"
// follows the configured timezone.
func NewContext(store storage.Provider, cfg *config.Config, configPath string) *Context {
	if cfg == nil {
		cfg = config.Default(config.DefaultDir())
	}

	sched := scheduler.New()
	if loc, err := utils.LoadLocation(cfg.Timezone); err == nil {
		sched = scheduler.NewInLocation(loc)
	} else {
		logger.Warn("Invalid timezone, using local time", "timezone", cfg.Timezone, "err", err)
	}

	ctx := &Context{
		Store:      store,
		Scheduler:  sched,
		Tracker:    tracker.New(store, sched),
		Auth:       auth.New(store).WithClock(sched.Now),
		Config:     cfg,
		ConfigPath: configPath,
	}
	if cfg.BackupOnDelete {
		ctx.Tracker.OnBeforeDelete(ctx.backupBeforeDelete)
	}
	return ctx
}

// BackupManager returns the backup manager for SQLite stores
func (c *Context) BackupManager() (*backup.Manager, error) {
	if _, ok := c.Store.(*sqlite.Store); !ok {
		return nil, ErrBackupUnsupported
	}
	return backup.NewManager(c.Store.GetConfigPath()), nil
}

// backupBeforeDelete snapshots SQLite databases. Other stores have nothing to
// snapshot locally, so the delete goes ahead.
func (c *Context) backupBeforeDelete() error {
	mgr, err := c.BackupManager()
	if err != nil {
		return nil
	}
	info, err := mgr.Create()
	if err != nil {
		return err
	}
	logger.Debug("Backup taken before delete", "name", info.Name)
	return nil
}

// RequireUser returns the signed-in user
func (c *Context) RequireUser() (models.User, error) {
	user, err := c.Auth.CurrentUser()
	if err != nil {
		if errors.Is(err, auth.ErrNotSignedIn) {
			return models.User{}, apperrors.WithHint(err, "run 'tally signin' or 'tally signup'")
		}
		return models.User{}, err
	}
	return user, nil
}

// FindChallenge resolves a challenge by full id or unique id prefix
func (c *Context) FindChallenge(userID, ref string) (models.ChallengeWithSchedule, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return models.ChallengeWithSchedule{}, errors.New("challenge id is required")
	}
	if item, err := c.Tracker.GetChallenge(userID, ref); err == nil {
		return item, nil
	} else if !errors.Is(err, storage.ErrNotFound) {
		return models.ChallengeWithSchedule{}, err
	}

	items, err := c.Tracker.ListChallenges(userID)
	if err != nil {
		return models.ChallengeWithSchedule{}, err
	}
	var matches []models.ChallengeWithSchedule
	for _, item := range items {
		if strings.HasPrefix(item.ID, ref) {
			matches = append(matches, item)
		}
	}
	switch len(matches) {
	case 0:
		return models.ChallengeWithSchedule{}, fmt.Errorf("challenge %q: %w", ref, storage.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return models.ChallengeWithSchedule{}, fmt.Errorf("challenge id %q is ambiguous (%d matches)", ref, len(matches))
	}
}

// ParseDate parses a YYYY-MM-DD flag value, or returns today when empty
func (c *Context) ParseDate(s string) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return c.Scheduler.Today(), nil
	}
	d, err := utils.ParseDate(strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return d, nil
}

// ShortID is the id prefix shown in listings
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// ParseWeekdays parses a comma-separated list of weekday names or
// Monday-indexed numbers (0=Monday .. 6=Sunday).
func ParseWeekdays(s string) ([]int, error) {
	dayMap := map[string]int{
		"mon": 0, "monday": 0,
		"tue": 1, "tuesday": 1,
		"wed": 2, "wednesday": 2,
		"thu": 3, "thursday": 3,
		"fri": 4, "friday": 4,
		"sat": 5, "saturday": 5,
		"sun": 6, "sunday": 6,
	}

	var days []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(strings.ToLower(part))
		if part == "" {
			continue
		}
		if d, ok := dayMap[part]; ok {
			days = append(days, d)
			continue
		}
		num, err := strconv.Atoi(part)
		if err != nil || num < 0 || num >= constants.DaysPerWeek {
			return nil, fmt.Errorf("invalid weekday: %s", part)
		}
		days = append(days, num)
	}
	return utils.NormalizeWeekdays(days), nil
}

// FormatSchedule formats a schedule into a human-readable string
func FormatSchedule(sched models.Schedule) string {
	switch sched.Frequency {
	case constants.FrequencyDaily:
		return "daily"
	case constants.FrequencyWeekly:
		if len(sched.WeeklyDays) == 0 {
			return "weekly (no days)"
		}
		var days []string
		for _, d := range utils.NormalizeWeekdays(sched.WeeklyDays) {
			days = append(days, constants.WeekdayLabels[d])
		}
		return "weekly on " + strings.Join(days, ",")
	case constants.FrequencyMonthly:
		if sched.MonthlyRule != nil && *sched.MonthlyRule == constants.MonthlyFirstDay {
			return "monthly on the 1st"
		}
		return "monthly"
	default:
		return "unknown"
	}
}

// FormatChallengeSchedule formats a challenge's first schedule
func FormatChallengeSchedule(item models.ChallengeWithSchedule) string {
	sched, ok := item.Schedule()
	if !ok {
		return "no schedule"
	}
	return FormatSchedule(sched)
}

// FormatTarget describes what a challenge measures
func FormatTarget(c models.Challenge) string {
	switch {
	case c.IsBinary():
		return "done / not done"
	case c.TargetValue != nil:
		return fmt.Sprintf("%s %s", FormatValue(*c.TargetValue), c.UnitLabel())
	default:
		return c.UnitLabel()
	}
}

// FormatValue prints a measurement without trailing zeros
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatCheckin renders a check-in's recorded value
func FormatCheckin(c models.Checkin, unit string) string {
	var s string
	switch {
	case c.Value != nil:
		s = strings.TrimSpace(FormatValue(*c.Value) + " " + unit)
	case c.IsDone():
		s = "done"
	default:
		s = "not done"
	}
	if c.Note != nil {
		s += " (" + *c.Note + ")"
	}
	return s
}
