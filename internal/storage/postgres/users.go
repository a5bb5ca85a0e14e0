package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/tally/internal/models"
	"github.com/julianstephens/tally/internal/storage"
)

func (s *Store) AddUser(user models.User) error {
	_, err := s.db.Exec(`
INSERT INTO users (id, email, password_hash, created_at)
VALUES ($1, $2, $3, $4)`,
		user.ID, strings.ToLower(user.Email), user.PasswordHash, timestamp(user.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrDuplicateEmail
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (s *Store) GetUser(id string) (models.User, error) {
	return scanUser(s.db.QueryRow(`
SELECT id, email, password_hash, created_at FROM users WHERE id = $1`, id))
}

func (s *Store) GetUserByEmail(email string) (models.User, error) {
	return scanUser(s.db.QueryRow(`
SELECT id, email, password_hash, created_at FROM users WHERE email = $1`, strings.ToLower(email)))
}

func scanUser(row *sql.Row) (models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, storage.ErrNotFound
		}
		return models.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

func (s *Store) AddSession(session models.Session) error {
	_, err := s.db.Exec(`
INSERT INTO sessions (token, user_id, created_at, expires_at)
VALUES ($1, $2, $3, $4)`,
		session.Token, session.UserID, timestamp(session.CreatedAt), timestamp(session.ExpiresAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

func (s *Store) GetSession(token string) (models.Session, error) {
	var sess models.Session
	err := s.db.QueryRow(`
SELECT token, user_id, created_at, expires_at FROM sessions WHERE token = $1`, token,
	).Scan(&sess.Token, &sess.UserID, &sess.CreatedAt, &sess.ExpiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Session{}, storage.ErrNotFound
		}
		return models.Session{}, fmt.Errorf("failed to get session: %w", err)
	}
	return sess, nil
}

func (s *Store) DeleteSession(token string) error {
	result, err := s.db.Exec("DELETE FROM sessions WHERE token = $1", token)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return requireAffected(result)
}

func (s *Store) DeleteExpiredSessions(now time.Time) (int, error) {
	result, err := s.db.Exec("DELETE FROM sessions WHERE expires_at <= $1", now.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return int(n), nil
}
