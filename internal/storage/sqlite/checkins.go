package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/julianstephens/tally/internal/models"
	"github.com/julianstephens/tally/internal/storage"
)

const checkinColumns = `id, user_id, challenge_id, check_date, value, done, note, created_at, updated_at`

func (s *Store) AddCheckin(c models.Checkin) error {
	_, err := s.db.Exec(`
		INSERT INTO checkins (`+checkinColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.UserID, c.ChallengeID, c.CheckDate,
		nullFloat(c.Value), nullBool(c.Done), nullString(c.Note),
		formatTime(c.CreatedAt), formatTime(c.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert check-in: %w", err)
	}
	return nil
}

func scanCheckin(row rowScanner) (models.Checkin, error) {
	var c models.Checkin
	var value sql.NullFloat64
	var done sql.NullBool
	var note sql.NullString
	var createdAt, updatedAt string

	err := row.Scan(
		&c.ID, &c.UserID, &c.ChallengeID, &c.CheckDate,
		&value, &done, &note, &createdAt, &updatedAt,
	)
	if err != nil {
		return models.Checkin{}, err
	}

	c.Value = floatPtr(value)
	c.Done = boolPtr(done)
	c.Note = stringPtr(note)
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return models.Checkin{}, err
	}
	if c.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return models.Checkin{}, err
	}
	return c, nil
}

func (s *Store) GetCheckin(userID, id string) (models.Checkin, error) {
	c, err := scanCheckin(s.db.QueryRow(`
		SELECT `+checkinColumns+` FROM checkins WHERE user_id = ? AND id = ?`, userID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Checkin{}, storage.ErrNotFound
		}
		return models.Checkin{}, fmt.Errorf("failed to get check-in: %w", err)
	}
	return c, nil
}

func (s *Store) GetCheckinsForRange(userID, start, end string) ([]models.Checkin, error) {
	return s.queryCheckins(`
		SELECT `+checkinColumns+` FROM checkins
		WHERE user_id = ? AND check_date >= ? AND check_date <= ?
		ORDER BY check_date ASC, created_at ASC, id ASC`, userID, start, end)
}

func (s *Store) GetCheckinsForChallenge(userID, challengeID string) ([]models.Checkin, error) {
	return s.queryCheckins(`
		SELECT `+checkinColumns+` FROM checkins
		WHERE user_id = ? AND challenge_id = ?
		ORDER BY check_date DESC, created_at DESC, id DESC`, userID, challengeID)
}

func (s *Store) queryCheckins(query string, args ...any) ([]models.Checkin, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query check-ins: %w", err)
	}
	defer rows.Close()

	var checkins []models.Checkin
	for rows.Next() {
		c, err := scanCheckin(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan check-in: %w", err)
		}
		checkins = append(checkins, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating check-ins: %w", err)
	}
	return checkins, nil
}

func (s *Store) DeleteCheckin(userID, id string) error {
	result, err := s.db.Exec("DELETE FROM checkins WHERE user_id = ? AND id = ?", userID, id)
	if err != nil {
		return fmt.Errorf("failed to delete check-in: %w", err)
	}
	return requireAffected(result)
}
