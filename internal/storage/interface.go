package storage

import (
	"database/sql"
	"errors"
	"time"

	"github.com/julianstephens/tally/internal/models"
)

// ErrNotFound is returned when a row does not exist or belongs to another user
var ErrNotFound = errors.New("not found")

// ErrDuplicateEmail is returned when a user with the same email already exists
var ErrDuplicateEmail = errors.New("email already registered")

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Users
	AddUser(models.User) error
	GetUser(id string) (models.User, error)
	GetUserByEmail(email string) (models.User, error)

	// Sessions
	AddSession(models.Session) error
	GetSession(token string) (models.Session, error)
	DeleteSession(token string) error
	// DeleteExpiredSessions removes every session that expired at or before now
	// and returns how many were removed.
	DeleteExpiredSessions(now time.Time) (int, error)

	// Challenges
	// AddChallenge inserts the challenge and its schedules in one transaction.
	AddChallenge(models.ChallengeWithSchedule) error
	GetChallenge(userID, id string) (models.ChallengeWithSchedule, error)
	// GetChallengesWithSchedules returns the user's challenges, newest first.
	GetChallengesWithSchedules(userID string) ([]models.ChallengeWithSchedule, error)
	UpdateChallenge(models.Challenge) error
	// UpsertSchedule updates the schedule with the same id, or inserts it
	// when the challenge has none.
	UpsertSchedule(models.Schedule) error
	// DeleteChallenge removes the challenge with its schedules and check-ins.
	DeleteChallenge(userID, id string) error

	// Check-ins
	AddCheckin(models.Checkin) error
	GetCheckin(userID, id string) (models.Checkin, error)
	// GetCheckinsForRange returns check-ins dated within [start, end] inclusive.
	GetCheckinsForRange(userID, start, end string) ([]models.Checkin, error)
	// GetCheckinsForChallenge returns a challenge's check-ins, latest date first.
	GetCheckinsForChallenge(userID, challengeID string) ([]models.Checkin, error)
	DeleteCheckin(userID, id string) error

	// Utils
	GetConfigPath() string
}

// SQLStore is a Provider backed by database/sql and the embedded migrations
type SQLStore interface {
	Provider
	GetDB() *sql.DB

	// Migrate applies pending migrations. It does not require Load, which
	// refuses to open a database that is behind.
	Migrate(logFn func(string)) (int, error)

	// SchemaVersion reports the database version and the latest embedded one
	SchemaVersion() (current, latest int, err error)
}
