package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/tally/internal/cli"
	"github.com/julianstephens/tally/internal/cli/account"
	"github.com/julianstephens/tally/internal/cli/backups"
	"github.com/julianstephens/tally/internal/cli/challenges"
	"github.com/julianstephens/tally/internal/cli/checkins"
	"github.com/julianstephens/tally/internal/cli/export"
	"github.com/julianstephens/tally/internal/cli/settings"
	"github.com/julianstephens/tally/internal/cli/system"
	"github.com/julianstephens/tally/internal/cli/views"
	"github.com/julianstephens/tally/internal/config"
	"github.com/julianstephens/tally/internal/constants"
	apperrors "github.com/julianstephens/tally/internal/errors"
	"github.com/julianstephens/tally/internal/logger"
	"github.com/julianstephens/tally/internal/storage"
	"github.com/julianstephens/tally/internal/storage/sqlite"
)

type CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path." type:"path" default:"~/.config/tally/config.yaml"`
	DB      string `name:"db" help:"SQLite database path or PostgreSQL connection string. Overrides the config file. PostgreSQL passwords must NOT be embedded; use the OS keyring, .pgpass or PGPASSWORD."`
	Debug   bool   `help:"Enable debug logging."`

	Init     system.InitCmd     `cmd:"" help:"Initialize tally storage."`
	Migrate  system.MigrateCmd  `cmd:"" help:"Run database migrations."`
	Doctor   system.DoctorCmd   `cmd:"" help:"Run health checks and diagnostics."`
	Tui      system.TuiCmd      `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Validate system.ValidateCmd `cmd:"" help:"Check stored challenges and check-ins for problems."`

	Signup  account.SignUpCmd  `cmd:"" help:"Create an account and sign in."`
	Signin  account.SignInCmd  `cmd:"" help:"Sign in."`
	Signout account.SignOutCmd `cmd:"" help:"Sign out."`
	Whoami  account.WhoAmICmd  `cmd:"" help:"Show the signed-in account."`

	Challenge struct {
		Add    challenges.ChallengeAddCmd    `cmd:"" help:"Add a new challenge."`
		Edit   challenges.ChallengeEditCmd   `cmd:"" help:"Edit an existing challenge."`
		List   challenges.ChallengeListCmd   `cmd:"" help:"List challenges." default:"1"`
		Show   challenges.ChallengeShowCmd   `cmd:"" help:"Show a challenge with its history."`
		Delete challenges.ChallengeDeleteCmd `cmd:"" help:"Delete a challenge and its check-ins."`
	} `cmd:"" help:"Manage challenges."`
	Checkin struct {
		Add    checkins.CheckinAddCmd    `cmd:"" help:"Record a check-in."`
		Toggle checkins.CheckinToggleCmd `cmd:"" help:"Toggle a binary challenge done for a day."`
		List   checkins.CheckinListCmd   `cmd:"" help:"List a challenge's check-ins."`
		Delete checkins.CheckinDeleteCmd `cmd:"" help:"Delete a check-in."`
	} `cmd:"" help:"Manage check-ins."`

	Week      views.WeekCmd      `cmd:"" help:"Show the week's schedule."`
	Month     views.MonthCmd     `cmd:"" help:"Show the month's schedule."`
	Today     views.TodayCmd     `cmd:"" help:"Show what is due today."`
	Dashboard views.DashboardCmd `cmd:"" help:"Summarize today and challenge progress."`

	Export struct {
		Ics export.ICSCmd `cmd:"" name:"ics" help:"Export active challenges as an iCalendar file."`
	} `cmd:"" help:"Export challenges."`
	Backup struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`
	Settings struct {
		Show settings.SettingsShowCmd `cmd:"" help:"Show current settings." default:"1"`
		Set  settings.SettingsSetCmd  `cmd:"" help:"Change a setting."`
	} `cmd:"" help:"Manage application settings."`
	Keyring struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store the PostgreSQL connection string in the OS keyring."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show the stored connection string with the password masked."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
		Status system.KeyringStatusCmd `cmd:"" help:"Check keyring availability."`
	} `cmd:"" help:"Manage the OS keyring."`
}

// standalone commands open the store themselves, or do not need it
var standalone = map[string]bool{
	"init":     true,
	"migrate":  true,
	"doctor":   true,
	"keyring":  true,
	"settings": true,
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		apperrors.Fatal(err)
	}
}

func run(args []string) error {
	var cliArgs CLI
	parser, err := kong.New(&cliArgs,
		kong.Name(constants.AppName),
		kong.Description("Goal, habit and challenge tracker"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)
	if err != nil {
		return err
	}
	ctx, err := parser.Parse(args)
	if err != nil {
		parser.FatalIfErrorf(err)
	}
	command := strings.Fields(ctx.Command())[0]

	configPath := config.ExpandHome(cliArgs.Config)
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cliArgs.DB != "" {
		cfg.Database = cliArgs.DB
	}

	if err := logger.Init(logger.Config{
		Debug:     cliArgs.Debug || cfg.Debug,
		ConfigDir: filepath.Dir(configPath),
		Quiet:     command == "tui",
	}); err != nil {
		return err
	}
	defer logger.Close()
	logger.Debug("Starting", "version", constants.Version, "command", ctx.Command())

	var store storage.Provider
	store, err = cli.OpenStore(cfg.Database)
	if err != nil {
		if !standalone[command] {
			return err
		}
		// let settings and keyring commands repair a bad database location
		logger.Warn("Falling back to the default database", "error", err)
		store = sqlite.NewStore(config.Default(filepath.Dir(configPath)).Database)
	}
	defer store.Close()

	if !standalone[command] {
		if err := store.Load(); err != nil {
			return apperrors.WithHint(err, "run 'tally init' to create the database")
		}
	}

	if err := ctx.Run(cli.NewContext(store, cfg, configPath)); err != nil {
		logger.Error("Command failed", "command", command, "error", err)
		return err
	}
	return nil
}
