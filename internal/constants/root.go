package constants

import "time"

// ChallengeType represents how a challenge is measured
type ChallengeType string

// Frequency represents how often a challenge recurs
type Frequency string

// MonthlyRule identifies which day of a month a monthly challenge falls on
type MonthlyRule string

// SessionState represents the current state of the TUI application
type SessionState int

// AuthEvent is emitted to auth state listeners
type AuthEvent string

const (
	AppName             = "tally"
	DefaultKeyringUser  = "database-connection"
	SessionKeyringUser  = "session-token"
	DefaultConfigDir    = "~/.config/tally"
	DefaultConfigFile   = "config.yaml"
	DefaultDatabaseFile = "tally.db"
	Version             = "v0.1.0"

	// EnvDBConnection overrides the configured database location
	EnvDBConnection = "TALLY_DB_CONNECTION"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// DaysPerWeek is the length of the week window
	DaysPerWeek = 7

	// SessionTTL is how long a sign-in stays valid
	SessionTTL = 30 * 24 * time.Hour

	// MinPasswordLength for sign-up
	MinPasswordLength = 8

	// Log rotation
	LogMaxSizeMB  = 10
	LogMaxBackups = 3
	LogMaxAgeDays = 28

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "tally-"
	BackupFileSuffix = ".db"

	// Challenge types
	ChallengeQuantitative ChallengeType = "quantitative"
	ChallengeBinary       ChallengeType = "binary"
	ChallengeWeight       ChallengeType = "weight"

	// Frequencies
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"

	// Monthly rules
	MonthlyFirstDay MonthlyRule = "first_day"

	// Challenge form defaults
	DefaultUnit          = "km"
	DefaultChallengeDays = 30

	// Auth events
	AuthInitialSession AuthEvent = "initial_session"
	AuthSignedIn       AuthEvent = "signed_in"
	AuthSignedOut      AuthEvent = "signed_out"

	// Session States
	StateWeek SessionState = iota
	StateChallenges
	StateCheckinForm
	StateConfirmDelete
)

// WeekdayLabels are indexed Monday=0 .. Sunday=6.
var WeekdayLabels = [DaysPerWeek]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
