package models

import "time"

// Checkin is a user-recorded completion for a challenge on a specific day.
// Binary challenges use Done; quantitative and weight challenges use Value.
type Checkin struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	ChallengeID string    `json:"challenge_id"`
	CheckDate   string    `json:"check_date"` // YYYY-MM-DD format
	Value       *float64  `json:"value,omitempty"`
	Done        *bool     `json:"done,omitempty"`
	Note        *string   `json:"note,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IsDone reports whether the check-in counts as completed
func (c Checkin) IsDone() bool {
	if c.Done != nil {
		return *c.Done
	}
	return c.Value != nil
}
