package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	pq "github.com/lib/pq"

	"github.com/julianstephens/tally/internal/constants"
	"github.com/julianstephens/tally/internal/models"
	"github.com/julianstephens/tally/internal/storage"
)

const challengeColumns = `id, user_id, title, description, type, unit, target_value,
       start_date, end_date, is_active, created_at, updated_at`

const scheduleColumns = `id, user_id, challenge_id, frequency, weekly_days, monthly_rule, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *Store) AddChallenge(item models.ChallengeWithSchedule) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	c := item.Challenge
	_, err = tx.Exec(`
INSERT INTO challenges (`+challengeColumns+`)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		c.ID, c.UserID, c.Title, nullString(c.Description), string(c.Type),
		nullString(c.Unit), nullFloat(c.TargetValue), c.StartDate, c.EndDate,
		c.IsActive, timestamp(c.CreatedAt), timestamp(c.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert challenge: %w", err)
	}

	for _, sched := range item.Schedules {
		if err := insertSchedule(tx, sched); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// weekdaysValue stores nil as SQL NULL and everything else as INTEGER[]
func weekdaysValue(days []int) any {
	if days == nil {
		return nil
	}
	arr := make(pq.Int64Array, len(days))
	for i, d := range days {
		arr[i] = int64(d)
	}
	return arr
}

func monthlyRuleValue(rule *constants.MonthlyRule) sql.NullString {
	if rule == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(*rule), Valid: true}
}

func insertSchedule(tx *sql.Tx, sched models.Schedule) error {
	_, err := tx.Exec(`
INSERT INTO challenge_schedules (`+scheduleColumns+`)
VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		sched.ID, sched.UserID, sched.ChallengeID, string(sched.Frequency),
		weekdaysValue(sched.WeeklyDays), monthlyRuleValue(sched.MonthlyRule), timestamp(sched.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert schedule: %w", err)
	}
	return nil
}

func scanChallenge(row rowScanner) (models.Challenge, error) {
	var c models.Challenge
	var description, unit sql.NullString
	var target sql.NullFloat64
	var typ string

	err := row.Scan(
		&c.ID, &c.UserID, &c.Title, &description, &typ, &unit, &target,
		&c.StartDate, &c.EndDate, &c.IsActive, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return models.Challenge{}, err
	}

	c.Type = constants.ChallengeType(typ)
	c.Description = stringPtr(description)
	c.Unit = stringPtr(unit)
	c.TargetValue = floatPtr(target)
	return c, nil
}

func scanSchedule(row rowScanner) (models.Schedule, error) {
	var sched models.Schedule
	var frequency string
	var weekdays pq.Int64Array
	var rule sql.NullString

	err := row.Scan(
		&sched.ID, &sched.UserID, &sched.ChallengeID, &frequency,
		&weekdays, &rule, &sched.CreatedAt,
	)
	if err != nil {
		return models.Schedule{}, err
	}

	sched.Frequency = constants.Frequency(frequency)
	if weekdays != nil {
		sched.WeeklyDays = make([]int, len(weekdays))
		for i, d := range weekdays {
			sched.WeeklyDays[i] = int(d)
		}
	}
	if rule.Valid {
		r := constants.MonthlyRule(rule.String)
		sched.MonthlyRule = &r
	}
	return sched, nil
}

func (s *Store) GetChallenge(userID, id string) (models.ChallengeWithSchedule, error) {
	c, err := scanChallenge(s.db.QueryRow(`
SELECT `+challengeColumns+` FROM challenges WHERE user_id = $1 AND id = $2`, userID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ChallengeWithSchedule{}, storage.ErrNotFound
		}
		return models.ChallengeWithSchedule{}, fmt.Errorf("failed to get challenge: %w", err)
	}

	schedules, err := s.schedulesFor("user_id = $1 AND challenge_id = $2", userID, id)
	if err != nil {
		return models.ChallengeWithSchedule{}, err
	}
	return models.ChallengeWithSchedule{Challenge: c, Schedules: schedules[id]}, nil
}

func (s *Store) GetChallengesWithSchedules(userID string) ([]models.ChallengeWithSchedule, error) {
	rows, err := s.db.Query(`
SELECT `+challengeColumns+` FROM challenges
WHERE user_id = $1
ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query challenges: %w", err)
	}
	defer rows.Close()

	var challenges []models.Challenge
	for rows.Next() {
		c, err := scanChallenge(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan challenge: %w", err)
		}
		challenges = append(challenges, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating challenges: %w", err)
	}

	schedules, err := s.schedulesFor("user_id = $1", userID)
	if err != nil {
		return nil, err
	}

	items := make([]models.ChallengeWithSchedule, 0, len(challenges))
	for _, c := range challenges {
		items = append(items, models.ChallengeWithSchedule{Challenge: c, Schedules: schedules[c.ID]})
	}
	return items, nil
}

func (s *Store) schedulesFor(where string, args ...any) (map[string][]models.Schedule, error) {
	rows, err := s.db.Query(`
SELECT `+scheduleColumns+` FROM challenge_schedules
WHERE `+where+`
ORDER BY created_at ASC, id ASC`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedules: %w", err)
	}
	defer rows.Close()

	grouped := make(map[string][]models.Schedule)
	for rows.Next() {
		sched, err := scanSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan schedule: %w", err)
		}
		grouped[sched.ChallengeID] = append(grouped[sched.ChallengeID], sched)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating schedules: %w", err)
	}
	return grouped, nil
}

func (s *Store) UpdateChallenge(c models.Challenge) error {
	result, err := s.db.Exec(`
UPDATE challenges SET
    title = $1, description = $2, type = $3, unit = $4, target_value = $5,
    start_date = $6, end_date = $7, is_active = $8, updated_at = $9
WHERE user_id = $10 AND id = $11`,
		c.Title, nullString(c.Description), string(c.Type), nullString(c.Unit),
		nullFloat(c.TargetValue), c.StartDate, c.EndDate, c.IsActive,
		timestamp(c.UpdatedAt), c.UserID, c.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update challenge: %w", err)
	}
	return requireAffected(result)
}

func (s *Store) UpsertSchedule(sched models.Schedule) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var owner string
	err = tx.QueryRow("SELECT user_id FROM challenges WHERE id = $1 AND user_id = $2",
		sched.ChallengeID, sched.UserID).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to look up challenge: %w", err)
	}

	result, err := tx.Exec(`
UPDATE challenge_schedules SET frequency = $1, weekly_days = $2, monthly_rule = $3
WHERE id = $4 AND user_id = $5 AND challenge_id = $6`,
		string(sched.Frequency), weekdaysValue(sched.WeeklyDays), monthlyRuleValue(sched.MonthlyRule),
		sched.ID, sched.UserID, sched.ChallengeID,
	)
	if err != nil {
		return fmt.Errorf("failed to update schedule: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		if err := insertSchedule(tx, sched); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *Store) DeleteChallenge(userID, id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range []string{
		"DELETE FROM checkins WHERE user_id = $1 AND challenge_id = $2",
		"DELETE FROM challenge_schedules WHERE user_id = $1 AND challenge_id = $2",
	} {
		if _, err := tx.Exec(stmt, userID, id); err != nil {
			return fmt.Errorf("failed to delete challenge children: %w", err)
		}
	}

	result, err := tx.Exec("DELETE FROM challenges WHERE user_id = $1 AND id = $2", userID, id)
	if err != nil {
		return fmt.Errorf("failed to delete challenge: %w", err)
	}
	if err := requireAffected(result); err != nil {
		return err
	}

	return tx.Commit()
}
